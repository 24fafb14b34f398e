package value_test

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/avroc/avroc/value"
)

func TestEqualPrimitives(t *testing.T) {
	cases := []struct {
		name string
		a, b value.Value
		want bool
	}{
		{"null-null", value.Null(), value.Null(), true},
		{"bool-same", value.Bool(true), value.Bool(true), true},
		{"bool-diff", value.Bool(true), value.Bool(false), false},
		{"int-same", value.Int(42), value.Int(42), true},
		{"long-diff", value.Long(1), value.Long(2), false},
		{"kind-mismatch", value.Int(1), value.Long(1), false},
		{"string-same", value.String("a"), value.String("a"), true},
		{"bytes-same", value.Bytes([]byte{1, 2}), value.Bytes([]byte{1, 2}), true},
		{"bytes-diff-len", value.Bytes([]byte{1, 2}), value.Bytes([]byte{1}), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, value.Equal(tc.a, tc.b))
		})
	}
}

func TestEqualArray(t *testing.T) {
	a := value.ArrayOf([]value.Value{value.Int(1), value.Int(2)})
	b := value.ArrayOf([]value.Value{value.Int(1), value.Int(2)})
	c := value.ArrayOf([]value.Value{value.Int(1), value.Int(3)})
	require.True(t, value.Equal(a, b))
	require.False(t, value.Equal(a, c))
}

func TestEqualRecordIgnoresFieldOrder(t *testing.T) {
	m1 := value.NewOrderedMap()
	m1.Set("a", value.Int(1))
	m1.Set("b", value.String("x"))

	m2 := value.NewOrderedMap()
	m2.Set("b", value.String("x"))
	m2.Set("a", value.Int(1))

	require.True(t, value.Equal(value.RecordOf(m1), value.RecordOf(m2)))
}

func TestEqualDecimalComparesNumericValue(t *testing.T) {
	a := value.DecimalValue(big.NewInt(1234), 2) // 12.34
	b := value.DecimalValue(big.NewInt(12340), 3) // 12.340, same numeric value
	require.True(t, value.Equal(a, b))
}

func TestEqualUUID(t *testing.T) {
	u := uuid.New()
	a := value.UUIDValue(u)
	b := value.UUIDValue(u)
	require.True(t, value.Equal(a, b))
	require.False(t, value.Equal(a, value.UUIDValue(uuid.New())))
}

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := value.NewOrderedMap()
	m.Set("z", value.Int(1))
	m.Set("a", value.Int(2))
	m.Set("m", value.Int(3))
	require.Equal(t, []string{"z", "a", "m"}, m.Keys())
	require.Equal(t, 3, m.Len())

	m.Set("a", value.Int(9))
	require.Equal(t, []string{"z", "a", "m"}, m.Keys(), "re-setting an existing key must not move it")

	v, ok := m.Get("a")
	require.True(t, ok)
	require.Equal(t, value.Int(9), v)

	_, ok = m.Get("missing")
	require.False(t, ok)
	require.False(t, m.Has("missing"))
	require.True(t, m.Has("z"))
}
