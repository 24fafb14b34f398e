package schema_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/avroc/avroc/schema"
	"github.com/avroc/avroc/value"
)

func TestAcceptsPrimitives(t *testing.T) {
	s, err := schema.Parse([]byte(`"long"`))
	require.NoError(t, err)
	require.True(t, schema.Accepts(s, value.Long(5)))
	require.False(t, schema.Accepts(s, value.Int(5)))
}

// TestAcceptsFloatingPointAcceptsConvertibleInteger covers spec §4.2's
// "a floating-point value or an integer convertible to one".
func TestAcceptsFloatingPointAcceptsConvertibleInteger(t *testing.T) {
	d, err := schema.Parse([]byte(`"double"`))
	require.NoError(t, err)
	require.True(t, schema.Accepts(d, value.Double(1.5)))
	require.True(t, schema.Accepts(d, value.Int(5)))
	require.True(t, schema.Accepts(d, value.Long(5)))
	require.False(t, schema.Accepts(d, value.String("5")))

	f, err := schema.Parse([]byte(`"float"`))
	require.NoError(t, err)
	require.True(t, schema.Accepts(f, value.Int(5)))
	require.True(t, schema.Accepts(f, value.Long(5)))
}

func TestAcceptsFixedChecksSize(t *testing.T) {
	s, err := schema.Parse([]byte(`{"type":"fixed","name":"H","size":4}`))
	require.NoError(t, err)
	require.True(t, schema.Accepts(s, value.Fixed([]byte{1, 2, 3, 4})))
	require.False(t, schema.Accepts(s, value.Fixed([]byte{1, 2, 3})))
}

func TestAcceptsEnumChecksSymbol(t *testing.T) {
	s, err := schema.Parse([]byte(`{"type":"enum","name":"E","symbols":["A","B"]}`))
	require.NoError(t, err)
	require.True(t, schema.Accepts(s, value.Enum("A")))
	require.False(t, schema.Accepts(s, value.Enum("Z")))
}

// TestAcceptsRecordIsShapeOnlyNotDeep asserts the union-branch
// disambiguation design constraint: a record schema accepts any record
// value whose field-name set matches, even if a field's value doesn't
// actually match the field's declared type. Type mismatches inside a
// field are left for the compiled program to reject at encode time.
func TestAcceptsRecordIsShapeOnlyNotDeep(t *testing.T) {
	s, err := schema.Parse([]byte(`{
		"type": "record",
		"name": "Celsius",
		"fields": [{"name": "degrees", "type": "double"}]
	}`))
	require.NoError(t, err)

	rec := value.NewOrderedMap()
	rec.Set("degrees", value.String("not-a-double")) // wrong type for the field
	require.True(t, schema.Accepts(s, value.RecordOf(rec)), "shape match must ignore field type")
}

func TestAcceptsRecordRejectsUnknownField(t *testing.T) {
	s, err := schema.Parse([]byte(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"}]}`))
	require.NoError(t, err)
	rec := value.NewOrderedMap()
	rec.Set("a", value.Int(1))
	rec.Set("extra", value.Int(2))
	require.False(t, schema.Accepts(s, value.RecordOf(rec)))
}

func TestAcceptsRecordRequiresFieldsWithoutDefault(t *testing.T) {
	s, err := schema.Parse([]byte(`{"type":"record","name":"R","fields":[{"name":"a","type":"int"},{"name":"b","type":"int","default":0}]}`))
	require.NoError(t, err)

	withoutA := value.NewOrderedMap()
	withoutA.Set("b", value.Int(1))
	require.False(t, schema.Accepts(s, value.RecordOf(withoutA)), "missing field with no default must reject")

	withoutB := value.NewOrderedMap()
	withoutB.Set("a", value.Int(1))
	require.True(t, schema.Accepts(s, value.RecordOf(withoutB)), "missing field with a default is fine")
}

// TestAcceptsUnionDisambiguatesRecordsByFieldNameSet models the
// temperature-record union scenario: two record branches with distinct
// field-name sets, disambiguated purely by shape.
func TestAcceptsUnionDisambiguatesRecordsByFieldNameSet(t *testing.T) {
	un, err := schema.Parse([]byte(`[
		{"type":"record","name":"Celsius","fields":[{"name":"degrees","type":"double"}]},
		{"type":"record","name":"Fahrenheit","fields":[{"name":"degF","type":"double"}]}
	]`))
	require.NoError(t, err)
	u := un.(*schema.Union)

	rec := value.NewOrderedMap()
	rec.Set("degrees", value.Double(21.5))
	v := value.RecordOf(rec)

	require.True(t, schema.Accepts(u.Branches[0], v))
	require.False(t, schema.Accepts(u.Branches[1], v))
}

func TestAcceptsArrayRecursesIntoElements(t *testing.T) {
	s, err := schema.Parse([]byte(`{"type":"array","items":"int"}`))
	require.NoError(t, err)
	require.True(t, schema.Accepts(s, value.ArrayOf([]value.Value{value.Int(1), value.Int(2)})))
	require.False(t, schema.Accepts(s, value.ArrayOf([]value.Value{value.Int(1), value.String("x")})))
}

func TestAcceptsLogicalDecimal(t *testing.T) {
	s, err := schema.Parse([]byte(`{"type":"bytes","logicalType":"decimal","precision":5,"scale":2}`))
	require.NoError(t, err)
	require.True(t, schema.Accepts(s, value.DecimalValue(big.NewInt(1234), 2)))
}
