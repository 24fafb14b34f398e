package value

// OrderedMap is an insertion-ordered string-keyed mapping, used for both
// Avro map values (map<string, Value>) and record values (fieldname ->
// Value), where Avro's field-declaration order must survive a round trip.
type OrderedMap struct {
	keys []string
	vals map[string]Value
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{vals: make(map[string]Value)}
}

// Set inserts or overwrites the value for key, appending key to the
// iteration order only the first time it is seen.
func (m *OrderedMap) Set(key string, v Value) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Get returns the value for key and whether it was present.
func (m *OrderedMap) Get(key string) (Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order. The caller must not mutate the
// returned slice.
func (m *OrderedMap) Keys() []string {
	return m.keys
}

// Len returns the number of entries.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// Has reports whether key is present.
func (m *OrderedMap) Has(key string) bool {
	_, ok := m.vals[key]
	return ok
}
