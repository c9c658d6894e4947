package mapping

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"transmute/internal/common"
)

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	sf, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return sf, nil
}

// Parse parses YAML data into a SchemaFile. Unknown keys are rejected.
func Parse(data []byte) (*SchemaFile, error) {
	var sf SchemaFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&sf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	applyDefaults(&sf)

	return &sf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(sf *SchemaFile) {
	if sf.Version == "" {
		sf.Version = CurrentVersion
	}
}

// Marshal serializes a SchemaFile to YAML.
func Marshal(sf *SchemaFile) ([]byte, error) {
	return yaml.Marshal(sf)
}

// WriteFile writes a SchemaFile to the given path.
func WriteFile(sf *SchemaFile, path string) error {
	data, err := Marshal(sf)
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}

// NormalizeSchemaFile expands the 121 shorthand into leading rules, ordered
// by source key, and clears it.
func NormalizeSchemaFile(sf *SchemaFile) {
	if len(sf.OneToOne) == 0 {
		return
	}

	expanded := make([]RuleDef, 0, len(sf.OneToOne)+len(sf.Rules))
	for _, source := range common.SortedKeys(sf.OneToOne) {
		expanded = append(expanded, RuleDef{
			To:   sf.OneToOne[source],
			From: StringOrArray{source},
		})
	}

	sf.Rules = append(expanded, sf.Rules...)
	sf.OneToOne = nil
}

// Clone returns a copy of sf whose rule and shorthand containers can be
// modified without touching sf.
func (sf *SchemaFile) Clone() *SchemaFile {
	out := *sf

	out.Rules = append([]RuleDef(nil), sf.Rules...)
	out.Transforms = append([]TransformDef(nil), sf.Transforms...)

	if sf.OneToOne != nil {
		out.OneToOne = make(map[string]string, len(sf.OneToOne))
		for k, v := range sf.OneToOne {
			out.OneToOne[k] = v
		}
	}

	return &out
}
