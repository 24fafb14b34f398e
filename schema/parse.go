package schema

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ParseOption tunes Parse's behavior.
type ParseOption func(*parser)

// StrictUnionDefaults restores the strict Avro rule that a union-typed
// field's default value must validate against the union's first branch.
// Without it, Parse accepts a default that matches any branch (spec §9,
// Open Question 1; see DESIGN.md for the rationale).
func StrictUnionDefaults() ParseOption {
	return func(p *parser) { p.strictUnion = true }
}

// Parse parses a JSON Avro schema document into a Schema tree, or returns
// the first *SchemaError the parser encountered (spec §4.1). It accepts a
// JSON object, array (union), or string (primitive/reference), matching
// the three top-level shapes the Avro grammar allows.
func Parse(data []byte, opts ...ParseOption) (Schema, error) {
	var doc interface{}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, wrapSchemaError("$", errors.Wrap(err, "invalid schema JSON"))
	}
	p := &parser{names: make(map[string]Named)}
	for _, o := range opts {
		o(p)
	}
	return p.parseSchema("", "$", doc)
}

// parser walks a decoded JSON schema document depth-first, maintaining a
// namespace stack (implicit in the namespace argument threaded through
// parseSchema) and a fullname -> Named table used to resolve references
// (spec §3.2, §4.1).
type parser struct {
	names       map[string]Named
	strictUnion bool
}

func (p *parser) parseSchema(namespace, path string, doc interface{}) (Schema, error) {
	switch v := doc.(type) {
	case string:
		return p.resolveTypeName(namespace, v, path)
	case []interface{}:
		return p.parseUnion(namespace, path, v)
	case map[string]interface{}:
		return p.parseObject(namespace, path, v)
	default:
		return nil, newSchemaError(path, fmt.Sprintf("expected a schema (string, array, or object), got %T", doc))
	}
}

func (p *parser) resolveTypeName(namespace, name, path string) (Schema, error) {
	if k, ok := primitiveKind(name); ok {
		return NewPrimitive(k, nil), nil
	}
	full := qualify(namespace, name)
	if target, ok := p.names[full]; ok {
		return &Reference{fullname: full, Target: target}, nil
	}
	if target, ok := p.names[name]; ok {
		return &Reference{fullname: name, Target: target}, nil
	}
	return nil, newSchemaError(path, fmt.Sprintf("unresolved type reference %q", name))
}

func (p *parser) parseObject(namespace, path string, obj map[string]interface{}) (Schema, error) {
	rawType, ok := obj["type"]
	if !ok {
		return nil, newSchemaError(path, "object schema is missing \"type\"")
	}

	var result Schema
	var err error
	switch t := rawType.(type) {
	case string:
		switch t {
		case "record":
			result, err = p.parseRecord(namespace, path, obj)
		case "enum":
			result, err = p.parseEnum(namespace, path, obj)
		case "fixed":
			result, err = p.parseFixed(namespace, path, obj)
		case "array":
			result, err = p.parseArray(namespace, path, obj)
		case "map":
			result, err = p.parseMap(namespace, path, obj)
		default:
			result, err = p.resolveTypeName(namespace, t, path)
		}
	case []interface{}:
		result, err = p.parseUnion(namespace, path, t)
	case map[string]interface{}:
		result, err = p.parseObject(namespace, path, t)
	default:
		return nil, newSchemaError(path, fmt.Sprintf("invalid \"type\" attribute: %T", rawType))
	}
	if err != nil {
		return nil, err
	}
	return attachLogical(result, obj), nil
}

func attachLogical(s Schema, obj map[string]interface{}) Schema {
	name, ok := obj["logicalType"].(string)
	if !ok {
		return s
	}
	var kind LogicalKind
	switch name {
	case "decimal":
		kind = LogicalDecimal
	case "uuid":
		kind = LogicalUUID
	case "date":
		kind = LogicalDate
	case "time-millis":
		kind = LogicalTimeMillis
	case "time-micros":
		kind = LogicalTimeMicros
	case "timestamp-millis":
		kind = LogicalTimestampMillis
	case "timestamp-micros":
		kind = LogicalTimestampMicros
	default:
		// Unrecognized annotation: degrade silently to the base type.
		return s
	}
	lt := &LogicalType{Kind: kind}
	if kind == LogicalDecimal {
		lt.Precision = intAttr(obj, "precision")
		lt.Scale = intAttr(obj, "scale")
	}
	if !lt.validForBase(s.Kind()) {
		return s
	}
	if setter, ok := s.(interface{ setLogical(*LogicalType) }); ok {
		setter.setLogical(lt)
	}
	return s
}

func (b *base) setLogical(l *LogicalType) { b.logical = l }

func intAttr(obj map[string]interface{}, key string) int {
	switch n := obj[key].(type) {
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	case float64:
		return int(n)
	}
	return 0
}

func (p *parser) parseRecord(namespace, path string, obj map[string]interface{}) (Schema, error) {
	name, _ := obj["name"].(string)
	if name == "" {
		return nil, newSchemaError(path, "record is missing \"name\"")
	}
	ns := resolveNamespace(namespace, obj, name)
	full := qualify(ns, name)
	if _, exists := p.names[full]; exists {
		return nil, newSchemaError(path, fmt.Sprintf("duplicate type name %q", full))
	}
	aliases := stringArray(obj["aliases"])
	doc, _ := obj["doc"].(string)

	rec := &Record{fullname: full, aliases: aliases, doc: doc}
	// Register before descending into fields so a field may reference this
	// record by name (direct or mutual recursion, spec §9).
	p.names[full] = rec

	rawFields, _ := obj["fields"].([]interface{})
	fields := make([]*Field, 0, len(rawFields))
	seen := make(map[string]bool, len(rawFields))
	for i, rf := range rawFields {
		fobj, ok := rf.(map[string]interface{})
		if !ok {
			return nil, newSchemaError(path, "record field must be an object")
		}
		fname, _ := fobj["name"].(string)
		if fname == "" {
			return nil, newSchemaError(path, "record field is missing \"name\"")
		}
		if seen[fname] {
			return nil, newSchemaError(path, fmt.Sprintf("duplicate field name %q in record %q", fname, full))
		}
		seen[fname] = true

		fpath := fmt.Sprintf("%s field %q", path, fname)
		ftype, err := p.parseSchema(ns, fpath, fobj["type"])
		if err != nil {
			return nil, err
		}
		fdoc, _ := fobj["doc"].(string)
		order, _ := fobj["order"].(string)
		f := &Field{
			Name:    fname,
			Pos:     i,
			Type:    ftype,
			Doc:     fdoc,
			Order:   order,
			Aliases: stringArray(fobj["aliases"]),
		}
		if raw, hasDefault := fobj["default"]; hasDefault {
			dv, err := typedDefault(ftype, raw, p.strictUnion)
			if err != nil {
				return nil, wrapSchemaError(fpath, errors.Wrap(err, "invalid default"))
			}
			f.HasDefault = true
			f.Default = dv
		}
		fields = append(fields, f)
	}
	rec.fields = fields
	return rec, nil
}

func (p *parser) parseEnum(namespace, path string, obj map[string]interface{}) (Schema, error) {
	name, _ := obj["name"].(string)
	if name == "" {
		return nil, newSchemaError(path, "enum is missing \"name\"")
	}
	ns := resolveNamespace(namespace, obj, name)
	full := qualify(ns, name)
	if _, exists := p.names[full]; exists {
		return nil, newSchemaError(path, fmt.Sprintf("duplicate type name %q", full))
	}
	aliases := stringArray(obj["aliases"])
	doc, _ := obj["doc"].(string)
	symbols := stringArray(obj["symbols"])
	if len(symbols) == 0 {
		return nil, newSchemaError(path, fmt.Sprintf("enum %q has no symbols", full))
	}
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if seen[s] {
			return nil, newSchemaError(path, fmt.Sprintf("duplicate symbol %q in enum %q", s, full))
		}
		seen[s] = true
	}
	def, hasDefault := obj["default"].(string)
	if hasDefault && !seen[def] {
		return nil, newSchemaError(path, fmt.Sprintf("enum %q default %q is not one of its symbols", full, def))
	}
	e := NewEnum(full, aliases, symbols, hasDefault, def, doc)
	p.names[full] = e
	return e, nil
}

func (p *parser) parseFixed(namespace, path string, obj map[string]interface{}) (Schema, error) {
	name, _ := obj["name"].(string)
	if name == "" {
		return nil, newSchemaError(path, "fixed is missing \"name\"")
	}
	ns := resolveNamespace(namespace, obj, name)
	full := qualify(ns, name)
	if _, exists := p.names[full]; exists {
		return nil, newSchemaError(path, fmt.Sprintf("duplicate type name %q", full))
	}
	aliases := stringArray(obj["aliases"])
	size := intAttr(obj, "size")
	if size <= 0 {
		return nil, newSchemaError(path, fmt.Sprintf("fixed %q has invalid size %d", full, size))
	}
	f := NewFixed(full, aliases, size)
	p.names[full] = f
	return f, nil
}

func (p *parser) parseArray(namespace, path string, obj map[string]interface{}) (Schema, error) {
	items, err := p.parseSchema(namespace, path+" items", obj["items"])
	if err != nil {
		return nil, err
	}
	return NewArray(items), nil
}

func (p *parser) parseMap(namespace, path string, obj map[string]interface{}) (Schema, error) {
	values, err := p.parseSchema(namespace, path+" values", obj["values"])
	if err != nil {
		return nil, err
	}
	return NewMap(values), nil
}

func (p *parser) parseUnion(namespace, path string, arr []interface{}) (Schema, error) {
	if len(arr) == 0 {
		return nil, newSchemaError(path, "union has no branches")
	}
	branches := make([]Schema, 0, len(arr))
	seenKind := make(map[Kind]bool, len(arr))
	seenNamed := make(map[string]bool, len(arr))
	for i, raw := range arr {
		bpath := fmt.Sprintf("%s branch %d", path, i)
		b, err := p.parseSchema(namespace, bpath, raw)
		if err != nil {
			return nil, err
		}
		if b.Kind() == KindUnion {
			return nil, newSchemaError(bpath, "unions may not directly nest unions")
		}
		// Named types (record/enum/fixed) are distinguished by fullname,
		// not merely by kind, so a union may carry several distinct
		// records (spec §9 "Union branch selection by shape" and its
		// disambiguation-by-field-name-set worked example presuppose
		// exactly this). Every other kind may still appear at most once.
		// A *Reference doesn't implement Named (no Aliases()), so match
		// on FullName() directly rather than on the Named interface.
		if isNamedKind(b.Kind()) {
			if named, ok := b.(interface{ FullName() string }); ok {
				if seenNamed[named.FullName()] {
					return nil, newSchemaError(bpath, fmt.Sprintf("union already has a branch named %q", named.FullName()))
				}
				seenNamed[named.FullName()] = true
			}
		} else {
			if seenKind[b.Kind()] {
				return nil, newSchemaError(bpath, fmt.Sprintf("union already has a branch of kind %q", b.Kind()))
			}
			seenKind[b.Kind()] = true
		}
		branches = append(branches, b)
	}
	return NewUnion(branches), nil
}

// resolveNamespace applies the priority order of spec §3.2: (a) an
// explicit "namespace" attribute, (b) a dotted prefix embedded in the
// type's own "name", (c) the nearest enclosing namespace.
func resolveNamespace(enclosing string, obj map[string]interface{}, name string) string {
	if ns, ok := obj["namespace"].(string); ok && ns != "" {
		return ns
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[:idx]
	}
	return enclosing
}

// qualify combines a namespace and a (possibly already dotted) name into a
// fullname.
func qualify(namespace, name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

func stringArray(raw interface{}) []string {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func isNamedKind(k Kind) bool {
	return k == KindRecord || k == KindEnum || k == KindFixed
}

func primitiveKind(name string) (Kind, bool) {
	switch name {
	case "null":
		return KindNull, true
	case "boolean":
		return KindBoolean, true
	case "int":
		return KindInt, true
	case "long":
		return KindLong, true
	case "float":
		return KindFloat, true
	case "double":
		return KindDouble, true
	case "bytes":
		return KindBytes, true
	case "string":
		return KindString, true
	}
	return 0, false
}
