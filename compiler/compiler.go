// Package compiler implements the codec specializer (component C4): it
// walks a schema.Schema exactly once and emits a vm.Program that later
// per-message execution interprets without ever touching the schema tree
// again (spec §4.4, §9 design note (c)).
package compiler

import (
	"fmt"

	"github.com/avroc/avroc/schema"
	"github.com/avroc/avroc/vm"
)

// compiler memoizes named schemas by fullname so a recursive record (one
// whose field type graph refers back to itself) compiles to a Program
// with a genuine cyclic pointer rather than looping forever (spec §9
// "Recursive named types").
type compiler struct {
	memo map[string]*vm.Program
}

// Compile walks s and returns the Program that both an encoder and a
// decoder can execute. Unlike gogen-avro's separate generated
// marshal/unmarshal methods, this codec's Program tree is direction
// agnostic: the same Op values drive vm.Exec's writes and
// vm.ExecDecode's reads, so one compiled tree serves both directions
// (see DESIGN.md).
func Compile(s schema.Schema) (*vm.Program, error) {
	c := &compiler{memo: make(map[string]*vm.Program)}
	return c.compile(s)
}

// CompileEncodeProgram compiles s for use with vm.Exec.
func CompileEncodeProgram(s schema.Schema) (*vm.Program, error) { return Compile(s) }

// CompileDecodeProgram compiles s for use with vm.ExecDecode.
func CompileDecodeProgram(s schema.Schema) (*vm.Program, error) { return Compile(s) }

func (c *compiler) compile(s schema.Schema) (*vm.Program, error) {
	target := s
	if ref, ok := s.(*schema.Reference); ok {
		target = ref.Target
	}

	if lt := target.Logical(); lt != nil {
		return compileLogical(lt, target)
	}

	switch target.Kind() {
	case schema.KindNull:
		return &vm.Program{Op: vm.OpNull}, nil
	case schema.KindBoolean:
		return &vm.Program{Op: vm.OpBoolean}, nil
	case schema.KindInt:
		return &vm.Program{Op: vm.OpInt}, nil
	case schema.KindLong:
		return &vm.Program{Op: vm.OpLong}, nil
	case schema.KindFloat:
		return &vm.Program{Op: vm.OpFloat}, nil
	case schema.KindDouble:
		return &vm.Program{Op: vm.OpDouble}, nil
	case schema.KindBytes:
		return &vm.Program{Op: vm.OpBytes}, nil
	case schema.KindString:
		return &vm.Program{Op: vm.OpString}, nil
	case schema.KindFixed, schema.KindEnum, schema.KindRecord:
		named, ok := target.(schema.Named)
		if !ok {
			return nil, fmt.Errorf("named kind %q did not implement schema.Named", target.Kind())
		}
		return c.compileNamed(named)
	case schema.KindArray:
		item, err := c.compile(target.(*schema.Array).Items)
		if err != nil {
			return nil, err
		}
		return &vm.Program{Op: vm.OpArray, Item: item}, nil
	case schema.KindMap:
		values, err := c.compile(target.(*schema.Map).Values)
		if err != nil {
			return nil, err
		}
		return &vm.Program{Op: vm.OpMap, Item: values}, nil
	case schema.KindUnion:
		branches := target.(*schema.Union).Branches
		compiled := make([]*vm.Program, 0, len(branches))
		for _, b := range branches {
			bp, err := c.compile(b)
			if err != nil {
				return nil, err
			}
			compiled = append(compiled, bp)
		}
		return &vm.Program{Op: vm.OpUnion, Branches: compiled}, nil
	}
	return nil, fmt.Errorf("unsupported schema kind %q", target.Kind())
}

func (c *compiler) compileNamed(n schema.Named) (*vm.Program, error) {
	full := n.FullName()
	if p, ok := c.memo[full]; ok {
		return p, nil
	}
	switch t := n.(type) {
	case *schema.Record:
		p := &vm.Program{Op: vm.OpRecord, FullName: full}
		// Register before compiling fields: a field type may reference
		// this same record, and it must observe this pointer, not loop.
		c.memo[full] = p
		fields := make([]vm.FieldOp, 0, len(t.Fields()))
		for _, f := range t.Fields() {
			fp, err := c.compile(f.Type)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			fields = append(fields, vm.FieldOp{Name: f.Name, Prog: fp, HasDefault: f.HasDefault, Default: f.Default})
		}
		p.Fields = fields
		return p, nil
	case *schema.Enum:
		p := &vm.Program{Op: vm.OpEnum, FullName: full, Symbols: t.Symbols()}
		c.memo[full] = p
		return p, nil
	case *schema.Fixed:
		p := &vm.Program{Op: vm.OpFixed, FullName: full, Size: t.Size()}
		c.memo[full] = p
		return p, nil
	}
	return nil, fmt.Errorf("unknown named schema %T", n)
}

func compileLogical(lt *schema.LogicalType, target schema.Schema) (*vm.Program, error) {
	switch lt.Kind {
	case schema.LogicalDecimal:
		if target.Kind() == schema.KindFixed {
			fx := target.(*schema.Fixed)
			return &vm.Program{Op: vm.OpDecimalFixed, FullName: fx.FullName(), Size: fx.Size(), Precision: lt.Precision, Scale: lt.Scale}, nil
		}
		return &vm.Program{Op: vm.OpDecimalBytes, Precision: lt.Precision, Scale: lt.Scale}, nil
	case schema.LogicalUUID:
		return &vm.Program{Op: vm.OpUUID}, nil
	case schema.LogicalDate:
		return &vm.Program{Op: vm.OpDate}, nil
	case schema.LogicalTimeMillis:
		return &vm.Program{Op: vm.OpTimeMillis}, nil
	case schema.LogicalTimeMicros:
		return &vm.Program{Op: vm.OpTimeMicros}, nil
	case schema.LogicalTimestampMillis:
		return &vm.Program{Op: vm.OpTimestampMillis}, nil
	case schema.LogicalTimestampMicros:
		return &vm.Program{Op: vm.OpTimestampMicros}, nil
	}
	return nil, fmt.Errorf("unknown logical kind %v", lt.Kind)
}
