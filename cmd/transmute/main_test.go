package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"transmute/engine"
	"transmute/internal/config"
	"transmute/internal/mapping"
)

const personSchema = `
rules:
  - to: fullName
    from: [firstName, lastName]
    transform: join
  - to: userAge
    from: age
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	root := newRootCmd()
	root.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()

	return stdout.String(), stderr.String(), err
}

func TestApply_Stdin(t *testing.T) {
	schema := writeFile(t, "schema.yaml", personSchema)

	out, _, err := execute(t, `{"firstName": "John", "lastName": "Doe", "age": 30}`, "apply", "--schema", schema)
	require.NoError(t, err)
	assert.Equal(t, `{"fullName":"John Doe","userAge":30}`+"\n", out)
}

func TestApply_ListAsYAML(t *testing.T) {
	schema := writeFile(t, "schema.yaml", personSchema)
	input := writeFile(t, "people.yaml", `
- firstName: John
  lastName: Doe
  age: 30
- firstName: Jane
  lastName: Roe
  age: 25
`)

	out, _, err := execute(t, "", "apply", "--schema", schema, "--output", "yaml", "--workers", "2", input)
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, []map[string]any{
		{"fullName": "John Doe", "userAge": 30},
		{"fullName": "Jane Roe", "userAge": 25},
	}, got)
}

func TestApply_Extra(t *testing.T) {
	schema := writeFile(t, "schema.yaml", `
rules:
  - to: greeting
    from: name
    expr: 'has_extra ? extra.salutation + " " + value : value'
`)
	extra := writeFile(t, "extra.json", `{"salutation": "Dear"}`)

	out, _, err := execute(t, `{"name": "Ada"}`, "apply", "-s", schema, "-e", extra)
	require.NoError(t, err)
	assert.Equal(t, `{"greeting":"Dear Ada"}`+"\n", out)
}

func TestApply_MissingPolicyFlag(t *testing.T) {
	schema := writeFile(t, "schema.yaml", "rules:\n  - to: x\n    from: a\n")

	out, _, err := execute(t, `{}`, "apply", "-s", schema)
	require.NoError(t, err)
	assert.Equal(t, `{"x":null}`+"\n", out)

	out, _, err = execute(t, `{}`, "apply", "-s", schema, "--on-missing", "omit")
	require.NoError(t, err)
	assert.Equal(t, `{}`+"\n", out)

	_, _, err = execute(t, `{}`, "apply", "-s", schema, "--on-missing", "error")
	require.Error(t, err)
	assert.ErrorIs(t, err, engine.ErrMissingField)

	_, _, err = execute(t, `{}`, "apply", "-s", schema, "--on-missing", "skip")
	assert.Error(t, err)
}

func TestApply_ConfigMissingPolicy(t *testing.T) {
	schema := writeFile(t, "schema.yaml", "rules:\n  - to: x\n    from: a\n")

	t.Setenv("TRANSMUTE_ON_MISSING", "omit")

	out, _, err := execute(t, `{}`, "apply", "-s", schema)
	require.NoError(t, err)
	assert.Equal(t, `{}`+"\n", out)

	// The schema's own policy wins over the config.
	schema = writeFile(t, "schema.yaml", "on_missing: \"null\"\nrules:\n  - to: x\n    from: a\n")

	out, _, err = execute(t, `{}`, "apply", "-s", schema)
	require.NoError(t, err)
	assert.Equal(t, `{"x":null}`+"\n", out)
}

func TestApply_Dump(t *testing.T) {
	schema := writeFile(t, "schema.yaml", personSchema)

	_, stderr, err := execute(t, `{"firstName": "A", "lastName": "B", "age": 1}`, "apply", "-s", schema, "--dump")
	require.NoError(t, err)
	assert.Contains(t, stderr, "fullName")
}

func TestApply_Errors(t *testing.T) {
	schema := writeFile(t, "schema.yaml", personSchema)
	broken := writeFile(t, "broken.yaml", "rules:\n  - to: x\n    from: a\n    transform: shout\n")

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"no schema flag", `{}`, []string{"apply"}},
		{"invalid schema", `{}`, []string{"apply", "-s", broken}},
		{"scalar input", `42`, []string{"apply", "-s", schema}},
		{"empty input", ``, []string{"apply", "-s", schema}},
		{"missing input file", ``, []string{"apply", "-s", schema, filepath.Join(t.TempDir(), "nope.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.stdin, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestCheck(t *testing.T) {
	good := writeFile(t, "good.yaml", personSchema)
	bad := writeFile(t, "bad.yaml", "rules:\n  - to: x\n    from: a\n    transform: uper\n")
	documented := writeFile(t, "documented.yaml", `
rules:
  - to: x
    from: a
transforms:
  - name: slugify
    description: turns a title into a URL slug
`)

	out, _, err := execute(t, "", "check", good, documented)
	require.NoError(t, err)
	assert.Contains(t, out, good+": ok")
	assert.Contains(t, out, "unregistered_transform")
	assert.Contains(t, out, "func Slugify(in mapping.Input) (any, error)")

	out, _, err = execute(t, "", "check", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, "unknown_transform")
	assert.Contains(t, out, "did you mean: upper")
}

func TestSuggest(t *testing.T) {
	out, stderr, err := execute(t, `{"first_name": "Ada", "user_age": 36, "city": "London"}`,
		"suggest", "--source", "-", "--target", "firstName,userAge,fax")
	require.NoError(t, err)

	sf, err := mapping.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, []mapping.RuleDef{
		{To: "firstName", From: mapping.StringOrArray{"first_name"}},
		{To: "userAge", From: mapping.StringOrArray{"user_age"}},
	}, sf.Rules)

	assert.Contains(t, stderr, "unmapped_target")
}

func TestSuggest_Write(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "suggested.yaml")

	_, _, err := execute(t, `[{"email": "a@b.c"}]`, "suggest", "--source", "-", "-t", "email", "-w", dest)
	require.NoError(t, err)

	sf, err := mapping.LoadFile(dest)
	require.NoError(t, err)
	require.Len(t, sf.Rules, 1)
	assert.Equal(t, "email", sf.Rules[0].To)
}

func TestTransforms(t *testing.T) {
	out, _, err := execute(t, "", "transforms")
	require.NoError(t, err)

	for _, name := range mapping.DefaultRegistry().Names() {
		assert.Contains(t, out, name)
	}
}

func TestRunApply_LogsCompiledSchema(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	a := &app{cfg: config.Default(), logger: zap.New(core)}

	schema := writeFile(t, "schema.yaml", `
rules:
  - to: a
    expr: "1 + 1"
  - to: b
    expr: "1 + 1"
  - to: name
    from: name
`)

	var out bytes.Buffer

	err := a.runApply(context.Background(), streams{in: strings.NewReader(`{"name": "Ada"}`), out: &out, errOut: &out}, applyOptions{
		schema: schema,
		input:  "-",
	})
	require.NoError(t, err)

	compiled := logs.FilterMessage("schema compiled").All()
	require.Len(t, compiled, 1)

	fields := compiled[0].ContextMap()
	assert.EqualValues(t, 3, fields["rules"])
	assert.EqualValues(t, 1, fields["expressions"])
	assert.Contains(t, out.String(), "Ada")
}

func TestRunWatch_StopsOnCancel(t *testing.T) {
	a := &app{cfg: config.Default(), logger: zap.NewNop()}

	schema := writeFile(t, "schema.yaml", personSchema)
	input := writeFile(t, "input.json", `{"firstName": "A", "lastName": "B", "age": 1}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer

	err := a.runWatch(ctx, streams{in: strings.NewReader(""), out: &out, errOut: &out}, applyOptions{
		schema: schema,
		input:  input,
	})
	assert.NoError(t, err)

	err = a.runWatch(ctx, streams{}, applyOptions{schema: schema, input: "-"})
	assert.Error(t, err)
}

func TestToRecords(t *testing.T) {
	recs, isList, err := toRecords(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.False(t, isList)
	assert.Equal(t, []engine.Record{{"a": 1}}, recs)

	recs, isList, err = toRecords([]any{map[string]any{"a": 1}, map[string]any{"a": 2}})
	require.NoError(t, err)
	assert.True(t, isList)
	assert.Len(t, recs, 2)

	_, _, err = toRecords([]any{map[string]any{}, "x"})
	assert.Error(t, err)

	_, _, err = toRecords("x")
	assert.Error(t, err)
}

func TestWriteOutput(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeOutput(&buf, config.FormatJSON, true, engine.Record{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())

	assert.Error(t, writeOutput(&buf, "xml", false, nil))
}
