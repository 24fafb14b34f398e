package avroc_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avroc/avroc/avroc"
	"github.com/avroc/avroc/value"
)

func TestParseSchemaAndRoundTrip(t *testing.T) {
	s, err := avroc.ParseSchema([]byte(`{
		"type": "record",
		"name": "Point",
		"fields": [{"name": "x", "type": "int"}, {"name": "y", "type": "int"}]
	}`), nil)
	require.NoError(t, err)

	enc, err := avroc.CompileEncoder(s, nil)
	require.NoError(t, err)
	dec, err := avroc.CompileDecoder(s, nil)
	require.NoError(t, err)

	rec := value.NewOrderedMap()
	rec.Set("x", value.Int(3))
	rec.Set("y", value.Int(4))

	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, value.RecordOf(rec)))

	v, err := dec.Decode(&buf)
	require.NoError(t, err)
	x, _ := v.Record.Get("x")
	require.Equal(t, value.Int(3), x)
}

func TestCompileResolvedDecoder(t *testing.T) {
	writer, err := avroc.ParseSchema([]byte(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`), nil)
	require.NoError(t, err)
	reader, err := avroc.ParseSchema([]byte(`{"type":"record","name":"R","fields":[{"name":"a","type":"long"},{"name":"b","type":"string","default":"z"}]}`), nil)
	require.NoError(t, err)

	enc, err := avroc.CompileEncoder(writer, nil)
	require.NoError(t, err)
	dec, err := avroc.CompileResolvedDecoder(writer, reader, nil)
	require.NoError(t, err)

	rec := value.NewOrderedMap()
	rec.Set("a", value.Int(5))
	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, value.RecordOf(rec)))

	v, err := dec.Decode(&buf)
	require.NoError(t, err)
	a, _ := v.Record.Get("a")
	require.Equal(t, value.Long(5), a)
	b, ok := v.Record.Get("b")
	require.True(t, ok)
	require.Equal(t, value.String("z"), b)
}

func TestOptionsStrictUnionMatchRejectsNonFirstBranchDefault(t *testing.T) {
	doc := []byte(`{"type":"record","name":"R","fields":[{"name":"f","type":["int","string"],"default":"hi"}]}`)

	_, err := avroc.ParseSchema(doc, nil)
	require.NoError(t, err, "permissive default is the codec's default behavior")

	opts := avroc.NewOptions()
	opts.StrictUnionMatch = true
	_, err = avroc.ParseSchema(doc, opts)
	require.Error(t, err)
}

func TestTraceCalledOnceAtCompileTimeNotPerMessage(t *testing.T) {
	s, err := avroc.ParseSchema([]byte(`"int"`), nil)
	require.NoError(t, err)

	calls := 0
	opts := avroc.NewOptions()
	opts.Trace = func(format string, args ...any) { calls++ }

	enc, err := avroc.CompileEncoder(s, opts)
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, value.Int(1)))
	require.NoError(t, enc.Encode(&buf, value.Int(2)))
	require.Equal(t, 1, calls, "Trace must not fire again from the per-message encode path")
}

func TestOptionsStrictUnionMatchRejectsMissingNullableFieldAtEncode(t *testing.T) {
	s, err := avroc.ParseSchema([]byte(`{
		"type": "record",
		"name": "R",
		"fields": [{"name": "nickname", "type": ["null", "string"]}]
	}`), nil)
	require.NoError(t, err)

	rec := value.NewOrderedMap()

	enc, err := avroc.CompileEncoder(s, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, enc.Encode(&buf, value.RecordOf(rec)), "permissive null fallback is the default")

	opts := avroc.NewOptions()
	opts.StrictUnionMatch = true
	strictEnc, err := avroc.CompileEncoder(s, opts)
	require.NoError(t, err)
	buf.Reset()
	require.Error(t, strictEnc.Encode(&buf, value.RecordOf(rec)))
}

func TestSchemaErrorIsReExported(t *testing.T) {
	_, err := avroc.ParseSchema([]byte(`{"type": "bogus"}`), nil)
	require.Error(t, err)
	var schemaErr *avroc.SchemaError
	require.ErrorAs(t, err, &schemaErr)
}
