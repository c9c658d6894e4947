package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"transmute/engine"
	"transmute/internal/config"
)

// readDocument decodes one JSON or YAML document from path, or from stdin
// when path is "-".
func readDocument(path string, stdin io.Reader) (any, error) {
	r := stdin
	name := "stdin"

	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		r = f
		name = path
	}

	var doc any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty document", name)
		}

		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	return doc, nil
}

// toRecords returns the records held by doc and whether doc was a list.
func toRecords(doc any) ([]engine.Record, bool, error) {
	switch v := doc.(type) {
	case map[string]any:
		return []engine.Record{v}, false, nil
	case []any:
		out := make([]engine.Record, len(v))

		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, true, fmt.Errorf("item %d: expected an object, got %T", i, item)
			}

			out[i] = m
		}

		return out, true, nil
	default:
		return nil, false, fmt.Errorf("expected an object or a list of objects, got %T", doc)
	}
}

// readRecord reads a file holding exactly one object.
func readRecord(path string, stdin io.Reader) (engine.Record, error) {
	doc, err := readDocument(path, stdin)
	if err != nil {
		return nil, err
	}

	recs, isList, err := toRecords(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if isList {
		return nil, fmt.Errorf("%s: expected a single object, got a list", path)
	}

	return recs[0], nil
}

func writeOutput(w io.Writer, format string, pretty bool, v any) error {
	switch format {
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}

		return enc.Close()
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}

		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}
