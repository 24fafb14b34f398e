package schema_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avroc/avroc/schema"
)

func TestParsePrimitive(t *testing.T) {
	s, err := schema.Parse([]byte(`"string"`))
	require.NoError(t, err)
	require.Equal(t, schema.KindString, s.Kind())
}

func TestParseRecord(t *testing.T) {
	doc := []byte(`{
		"type": "record",
		"name": "User",
		"namespace": "com.example",
		"fields": [
			{"name": "id", "type": "long"},
			{"name": "name", "type": "string", "default": "anonymous"}
		]
	}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	rec, ok := s.(*schema.Record)
	require.True(t, ok)
	require.Equal(t, "com.example.User", rec.FullName())
	require.Len(t, rec.Fields(), 2)
	require.False(t, rec.Fields()[0].HasDefault)
	require.True(t, rec.Fields()[1].HasDefault)
	require.Equal(t, "anonymous", rec.Fields()[1].Default.Str)
}

func TestParseNamespaceFromDottedName(t *testing.T) {
	doc := []byte(`{"type": "fixed", "name": "com.example.Hash", "size": 16}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	fx := s.(*schema.Fixed)
	require.Equal(t, "com.example.Hash", fx.FullName())
}

func TestParseNamespaceFromExplicitAttribute(t *testing.T) {
	doc := []byte(`{"type": "fixed", "name": "Hash", "namespace": "com.other", "size": 16}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	fx := s.(*schema.Fixed)
	require.Equal(t, "com.other.Hash", fx.FullName())
}

func TestParseSelfReferentialRecord(t *testing.T) {
	doc := []byte(`{
		"type": "record",
		"name": "Node",
		"fields": [
			{"name": "value", "type": "int"},
			{"name": "next", "type": ["null", "Node"], "default": null}
		]
	}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	rec := s.(*schema.Record)
	nextType := rec.Fields()[1].Type
	un, ok := nextType.(*schema.Union)
	require.True(t, ok)
	ref, ok := un.Branches[1].(*schema.Reference)
	require.True(t, ok)
	require.Equal(t, "Node", ref.FullName())
	require.Same(t, rec, ref.ResolvedTarget())
}

func TestParseUnresolvedReferenceErrors(t *testing.T) {
	_, err := schema.Parse([]byte(`{"type": "record", "name": "R", "fields": [{"name": "f", "type": "Ghost"}]}`))
	require.Error(t, err)
	require.True(t, schema.IsSchemaError(err))
}

func TestParseDuplicateFieldNameErrors(t *testing.T) {
	doc := []byte(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"},{"name":"a","type":"string"}]}`)
	_, err := schema.Parse(doc)
	require.Error(t, err)
}

func TestParseDuplicateEnumSymbolErrors(t *testing.T) {
	_, err := schema.Parse([]byte(`{"type":"enum","name":"E","symbols":["A","A"]}`))
	require.Error(t, err)
}

func TestParseEnumDefaultMustBeASymbol(t *testing.T) {
	_, err := schema.Parse([]byte(`{"type":"enum","name":"E","symbols":["A","B"],"default":"Z"}`))
	require.Error(t, err)
}

func TestParseEmptyUnionErrors(t *testing.T) {
	_, err := schema.Parse([]byte(`[]`))
	require.Error(t, err)
}

func TestParseNestedUnionErrors(t *testing.T) {
	_, err := schema.Parse([]byte(`["null", ["int", "string"]]`))
	require.Error(t, err)
}

func TestParseUnionDuplicateKindErrors(t *testing.T) {
	_, err := schema.Parse([]byte(`["string", "string"]`))
	require.Error(t, err)
}

func TestParseLogicalDecimalOnBytes(t *testing.T) {
	doc := []byte(`{"type": "bytes", "logicalType": "decimal", "precision": 9, "scale": 2}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	lt := s.Logical()
	require.NotNil(t, lt)
	require.Equal(t, schema.LogicalDecimal, lt.Kind)
	require.Equal(t, 9, lt.Precision)
	require.Equal(t, 2, lt.Scale)
}

func TestParseLogicalTypeDegradesSilentlyOnBadPairing(t *testing.T) {
	// decimal only pairs with bytes/fixed; on a string it must degrade
	// silently to a plain string schema rather than error.
	doc := []byte(`{"type": "string", "logicalType": "decimal", "precision": 4, "scale": 1}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	require.Nil(t, s.Logical())
	require.Equal(t, schema.KindString, s.Kind())
}

func TestParseUnrecognizedLogicalTypeDegradesSilently(t *testing.T) {
	doc := []byte(`{"type": "long", "logicalType": "something-made-up"}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	require.Nil(t, s.Logical())
}

func TestParseUUIDLogicalType(t *testing.T) {
	doc := []byte(`{"type": "string", "logicalType": "uuid"}`)
	s, err := schema.Parse(doc)
	require.NoError(t, err)
	require.Equal(t, schema.LogicalUUID, s.Logical().Kind)
}
