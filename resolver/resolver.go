// Package resolver implements the schema resolution planner (component
// C5): given a writer schema W and a reader schema R, it produces a
// decode Program that reads data written under W and produces values
// shaped like R, applying Avro's promotion, projection, and default-fill
// rules (spec §4.5).
package resolver

import (
	"fmt"
	"io"

	"github.com/avroc/avroc/compiler"
	"github.com/avroc/avroc/schema"
	"github.com/avroc/avroc/value"
	"github.com/avroc/avroc/vm"
)

// Incompatible reports that no resolution exists between a writer and a
// reader schema at the given path, discovered at plan time (spec §4.5,
// §7). It is distinct from a *vm.DecodeError, which can only be produced
// while actually consuming bytes (e.g. an enum symbol the plan allowed
// for but the specific message didn't use turning out to be missing a
// default after all is impossible to know until decode time; symbol
// remap failures are therefore *vm.DecodeError, not *Incompatible).
type Incompatible struct {
	Path string
	msg  string
}

func (e *Incompatible) Error() string {
	if e.Path == "" {
		return e.msg
	}
	return e.Path + ": " + e.msg
}

func incompatible(path, format string, args ...interface{}) *Incompatible {
	return &Incompatible{Path: path, msg: fmt.Sprintf(format, args...)}
}

const maxResolveDepth = 200

type state struct {
	memo  map[string]*vm.Program
	depth int
}

// ResolvedPlan is a compiled resolution between a specific (writer,
// reader) pair.
type ResolvedPlan struct {
	prog *vm.Program
}

// Program exposes the compiled resolution as a raw vm.Program, for
// callers that manage their own vm.Options (e.g. a non-default
// MaxBlockBytes).
func (p *ResolvedPlan) Program() *vm.Program { return p.prog }

// Decoder returns a function that decodes one value per call using this
// codec's default resource limits. Use Program with vm.ExecDecode
// directly to supply custom limits.
func (p *ResolvedPlan) Decoder() func(r io.Reader) (value.Value, error) {
	opts := vm.DefaultOptions()
	return func(r io.Reader) (value.Value, error) {
		return vm.ExecDecode(r, p.prog, opts)
	}
}

// Plan walks (w, r) and produces a resolved decode Program, or the first
// *Incompatible it finds.
func Plan(w, r schema.Schema) (*ResolvedPlan, error) {
	rs := &state{memo: make(map[string]*vm.Program)}
	prog, err := rs.resolve("$", w, r)
	if err != nil {
		return nil, err
	}
	return &ResolvedPlan{prog: prog}, nil
}

func unwrap(s schema.Schema) schema.Schema {
	if ref, ok := s.(*schema.Reference); ok {
		return ref.Target
	}
	return s
}

func (rs *state) resolve(path string, w, r schema.Schema) (*vm.Program, error) {
	wt, rt := unwrap(w), unwrap(r)

	// Writer union: dispatch per writer branch, each resolved against
	// the (possibly still-union) reader schema. This also implements the
	// both-unions case: the recursive call below re-enters resolve with
	// wt no longer a union, falling through to the reader-union branch.
	if wt.Kind() == schema.KindUnion {
		wu := wt.(*schema.Union)
		branches := make([]*vm.Program, 0, len(wu.Branches))
		for i, wb := range wu.Branches {
			bp, err := rs.resolve(fmt.Sprintf("%s<%d>", path, i), wb, r)
			if err != nil {
				return nil, err
			}
			branches = append(branches, bp)
		}
		return &vm.Program{Op: vm.OpUnion, Branches: branches}, nil
	}

	// Reader union, writer not: first reader branch that resolves wins.
	// No dispatch tag is read, since the writer didn't emit one.
	if rt.Kind() == schema.KindUnion {
		ru := rt.(*schema.Union)
		var lastErr error
		for _, rb := range ru.Branches {
			bp, err := rs.resolve(path, wt, rb)
			if err == nil {
				return bp, nil
			}
			lastErr = err
		}
		return nil, incompatible(path, "no reader union branch resolves against writer type %q: %v", wt.Kind(), lastErr)
	}

	if lt := rt.Logical(); lt != nil {
		return resolveLogical(path, wt, lt)
	}

	if wt.Kind() == rt.Kind() {
		switch wt.Kind() {
		case schema.KindNull, schema.KindBoolean, schema.KindInt, schema.KindLong,
			schema.KindFloat, schema.KindDouble, schema.KindBytes, schema.KindString:
			return compiler.Compile(rt)
		case schema.KindFixed:
			wf, rf := wt.(*schema.Fixed), rt.(*schema.Fixed)
			if wf.FullName() != rf.FullName() || wf.Size() != rf.Size() {
				return nil, incompatible(path, "fixed %q (size %d) is incompatible with fixed %q (size %d)", wf.FullName(), wf.Size(), rf.FullName(), rf.Size())
			}
			return compiler.Compile(rf)
		case schema.KindEnum:
			return resolveEnum(rt.(*schema.Enum), wt.(*schema.Enum))
		case schema.KindArray:
			item, err := rs.resolve(path+"[]", wt.(*schema.Array).Items, rt.(*schema.Array).Items)
			if err != nil {
				return nil, err
			}
			return &vm.Program{Op: vm.OpArray, Item: item}, nil
		case schema.KindMap:
			values, err := rs.resolve(path+"{}", wt.(*schema.Map).Values, rt.(*schema.Map).Values)
			if err != nil {
				return nil, err
			}
			return &vm.Program{Op: vm.OpMap, Item: values}, nil
		case schema.KindRecord:
			return rs.resolveRecord(path, wt.(*schema.Record), rt.(*schema.Record))
		}
	}

	if prog, ok := promotion(wt.Kind(), rt.Kind()); ok {
		return prog, nil
	}
	return nil, incompatible(path, "writer type %q cannot resolve to reader type %q", wt.Kind(), rt.Kind())
}

func promotion(w, r schema.Kind) (*vm.Program, bool) {
	base := func(op vm.Op, inner vm.Op) *vm.Program {
		return &vm.Program{Op: op, Inner: &vm.Program{Op: inner}}
	}
	switch {
	case w == schema.KindInt && r == schema.KindLong:
		return base(vm.OpPromoteIntToLong, vm.OpInt), true
	case w == schema.KindInt && r == schema.KindFloat:
		return base(vm.OpPromoteIntToFloat, vm.OpInt), true
	case w == schema.KindInt && r == schema.KindDouble:
		return base(vm.OpPromoteIntToDouble, vm.OpInt), true
	case w == schema.KindLong && r == schema.KindFloat:
		return base(vm.OpPromoteLongToFloat, vm.OpLong), true
	case w == schema.KindLong && r == schema.KindDouble:
		return base(vm.OpPromoteLongToDouble, vm.OpLong), true
	case w == schema.KindFloat && r == schema.KindDouble:
		return base(vm.OpPromoteFloatToDouble, vm.OpFloat), true
	case w == schema.KindString && r == schema.KindBytes:
		return base(vm.OpPromoteStringToBytes, vm.OpString), true
	case w == schema.KindBytes && r == schema.KindString:
		return base(vm.OpPromoteBytesToString, vm.OpBytes), true
	}
	return nil, false
}

func resolveLogical(path string, wt schema.Schema, lt *schema.LogicalType) (*vm.Program, error) {
	var required schema.Kind
	switch lt.Kind {
	case schema.LogicalDecimal:
		if wt.Kind() != schema.KindBytes && wt.Kind() != schema.KindFixed {
			return nil, incompatible(path, "decimal requires a bytes or fixed writer type, got %q", wt.Kind())
		}
	case schema.LogicalUUID:
		required = schema.KindString
	case schema.LogicalDate, schema.LogicalTimeMillis:
		required = schema.KindInt
	case schema.LogicalTimeMicros, schema.LogicalTimestampMillis, schema.LogicalTimestampMicros:
		required = schema.KindLong
	}
	if lt.Kind != schema.LogicalDecimal && wt.Kind() != required {
		return nil, incompatible(path, "logical type requires writer base %q, got %q", required, wt.Kind())
	}
	if lt.Kind == schema.LogicalDecimal && wt.Kind() == schema.KindFixed {
		fx := wt.(*schema.Fixed)
		return &vm.Program{Op: vm.OpDecimalFixed, FullName: fx.FullName(), Size: fx.Size(), Precision: lt.Precision, Scale: lt.Scale}, nil
	}
	switch lt.Kind {
	case schema.LogicalDecimal:
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
	return nil, incompatible(path, "unknown logical type")
}

func resolveEnum(r, w *schema.Enum) (*vm.Program, error) {
	remap := make([]string, len(w.Symbols()))
	for i, sym := range w.Symbols() {
		if r.IndexOf(sym) >= 0 {
			remap[i] = sym
		}
	}
	return &vm.Program{
		Op:             vm.OpEnumRemap,
		FullName:       r.FullName(),
		Symbols:        remap,
		HasEnumDefault: r.HasDefault(),
		EnumDefault:    r.Default(),
	}, nil
}

func (rs *state) resolveRecord(path string, w, r *schema.Record) (*vm.Program, error) {
	key := w.FullName() + "~" + r.FullName()
	if p, ok := rs.memo[key]; ok {
		return p, nil
	}
	rs.depth++
	defer func() { rs.depth-- }()
	if rs.depth > maxResolveDepth {
		return nil, incompatible(path, "resolution of %q against %q did not converge (recursive schemas diverge)", w.FullName(), r.FullName())
	}

	p := &vm.Program{Op: vm.OpRecord, FullName: r.FullName()}
	rs.memo[key] = p

	consumed := make(map[string]bool, len(r.Fields()))
	fields := make([]vm.FieldOp, 0, len(w.Fields())+len(r.Fields()))

	for _, wf := range w.Fields() {
		rf := r.FieldByName(wf.Name)
		if rf == nil {
			skipProg, err := compiler.Compile(wf.Type)
			if err != nil {
				return nil, fmt.Errorf("%s: field %q: %w", path, wf.Name, err)
			}
			fields = append(fields, vm.FieldOp{Name: wf.Name, Prog: &vm.Program{Op: vm.OpSkip, Inner: skipProg}})
			continue
		}
		consumed[rf.Name] = true
		fp, err := rs.resolve(fmt.Sprintf("%s.%s", path, wf.Name), wf.Type, rf.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, vm.FieldOp{Name: rf.Name, Prog: fp})
	}

	for _, rf := range r.Fields() {
		if consumed[rf.Name] {
			continue
		}
		if !rf.HasDefault {
			return nil, incompatible(path, "reader field %q has no writer counterpart and no default", rf.Name)
		}
		fields = append(fields, vm.FieldOp{Name: rf.Name, Prog: &vm.Program{Op: vm.OpDefault, Const: rf.Default}})
	}

	p.Fields = fields

	order := make([]string, len(r.Fields()))
	for i, rf := range r.Fields() {
		order[i] = rf.Name
	}
	p.FieldOrder = order

	return p, nil
}
