package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avroc/avroc/schema"
	"github.com/avroc/avroc/value"
)

func TestRecordDefaultFallsBackToFieldDefault(t *testing.T) {
	// The outer field's JSON default omits "retries" entirely; it must
	// fall back to that inner field's own declared default.
	outer := []byte(`{
		"type": "record",
		"name": "Wrapper",
		"fields": [
			{
				"name": "cfg",
				"type": {
					"type": "record",
					"name": "Config",
					"fields": [
						{"name": "retries", "type": "int", "default": 3},
						{"name": "label", "type": "string"}
					]
				},
				"default": {"label": "x"}
			}
		]
	}`)
	s, err := schema.Parse(outer)
	require.NoError(t, err)
	rec := s.(*schema.Record)
	def := rec.Fields()[0].Default
	require.Equal(t, value.KindRecord, def.Kind)
	retries, ok := def.Record.Get("retries")
	require.True(t, ok)
	require.Equal(t, value.Int(3), retries)
}

func TestRecordDefaultMissingFieldWithNoDefaultErrors(t *testing.T) {
	inner := `{"type":"record","name":"Config","fields":[{"name":"label","type":"string"}]}`
	outer := []byte(`{"type":"record","name":"Wrapper","fields":[{"name":"cfg","type":` + inner + `,"default":{}}]}`)
	_, err := schema.Parse(outer)
	require.Error(t, err)
}

func TestUnionDefaultPermissiveMatchesAnyBranch(t *testing.T) {
	// Permissive (default) mode: a union default may match any branch,
	// not only the first (spec §9 Open Question 1).
	doc := []byte(`{
		"type": "record",
		"name": "R",
		"fields": [
			{"name": "f", "type": ["int", "string"], "default": "hi"}
		]
	}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	rec := s.(*schema.Record)
	require.Equal(t, value.String("hi"), rec.Fields()[0].Default)
}

func TestUnionDefaultStrictModeRejectsNonFirstBranch(t *testing.T) {
	doc := []byte(`{
		"type": "record",
		"name": "R",
		"fields": [
			{"name": "f", "type": ["int", "string"], "default": "hi"}
		]
	}`)
	_, err := schema.Parse(doc, schema.StrictUnionDefaults())
	require.Error(t, err)
}

func TestUnionDefaultStrictModeAcceptsFirstBranch(t *testing.T) {
	doc := []byte(`{
		"type": "record",
		"name": "R",
		"fields": [
			{"name": "f", "type": ["int", "string"], "default": 7}
		]
	}`)
	s, err := schema.Parse(doc, schema.StrictUnionDefaults())
	require.NoError(t, err)
	rec := s.(*schema.Record)
	require.Equal(t, value.Int(7), rec.Fields()[0].Default)
}

func TestBytesDefaultDecodedFromLatin1(t *testing.T) {
	doc := []byte(`{"type":"record","name":"R","fields":[{"name":"f","type":"bytes","default":"ÿ "}]}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	rec := s.(*schema.Record)
	require.Equal(t, []byte{0xff, 0x20}, rec.Fields()[0].Default.Bytes)
}

func TestLogicalDefaultDegradesSilentlyOnBadShape(t *testing.T) {
	// A uuid default that isn't parseable as a UUID degrades to a plain
	// string value rather than erroring.
	doc := []byte(`{"type":"record","name":"R","fields":[{"name":"f","type":{"type":"string","logicalType":"uuid"},"default":"not-a-uuid"}]}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	rec := s.(*schema.Record)
	require.Equal(t, value.KindString, rec.Fields()[0].Default.Kind)
	require.Equal(t, "not-a-uuid", rec.Fields()[0].Default.Str)
}
