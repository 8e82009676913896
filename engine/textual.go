package engine

import (
	"fmt"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/viant/relscope/inputs"
	"github.com/viant/relscope/ir"
)

// TextualUpdate is one decoded entry of the textual update form of spec.md
// §6: a relation name, an update kind ("insert"/"delete"), and the tuple's
// fields as a generic Record, not yet bound to its relation's concrete Go
// type (the caller resolves Relation against the catalog and asks Decode
// for the matching concrete struct).
type TextualUpdate struct {
	Relation string
	Kind     string
	Tuple    ir.Record
}

// DecodeYAML parses a YAML document holding a top-level list of update
// entries, each shaped as:
//
//	relation: inputs::File
//	kind: insert
//	tuple: {id: 1, path: a.ts, scope: 100}
//
// matching the teacher's own struct-tagged YAML decoding
// (analyzer/Identity/Scope), generalized here to a two-stage decode: YAML
// into `any`, then `any` into ir.Record via ir.ParseRecord, so the same
// Record-shaped value can also arrive over a non-YAML transport later
// without touching this package.
func DecodeYAML(doc []byte) ([]TextualUpdate, error) {
	var raw []map[string]any
	if err := yaml.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("engine: decode textual updates: %w", err)
	}
	out := make([]TextualUpdate, 0, len(raw))
	for i, entry := range raw {
		rel, _ := entry["relation"].(string)
		kind, _ := entry["kind"].(string)
		if rel == "" || kind == "" {
			return nil, fmt.Errorf("engine: update %d: missing relation or kind", i)
		}
		rec, err := ir.ParseRecord(entry["tuple"])
		if err != nil {
			return nil, fmt.Errorf("engine: update %d: tuple: %w", i, err)
		}
		out = append(out, TextualUpdate{Relation: rel, Kind: kind, Tuple: rec})
	}
	return out, nil
}

// Decode populates a zero-valued target (a pointer to a relation tuple
// struct) from rec, interning any ir.Name-typed field via interner. Field
// matching is case-insensitive against the Go struct's field names; ir.Opt,
// ir.AnyId and ir.Span get dedicated handling since they don't decode
// field-for-field from a plain map.
func Decode(rec ir.Record, target any, interner *ir.Interner) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("engine: Decode target must be a non-nil pointer, got %T", target)
	}
	return decodeValue(rec, rv.Elem(), interner)
}

var (
	anyIdType    = reflect.TypeOf(ir.AnyId{})
	spanType     = reflect.TypeOf(ir.Span{})
	exprKindType = reflect.TypeOf(inputs.ExprKind{})
)

func decodeValue(rec ir.Record, v reflect.Value, interner *ir.Interner) error {
	switch {
	case v.Type() == anyIdType:
		return decodeAnyId(rec, v)
	case v.Type() == spanType:
		return decodeSpan(rec, v)
	case v.Type() == exprKindType:
		return decodeExprKind(rec, v, interner)
	case isOpt(v.Type()):
		return decodeOpt(rec, v, interner)
	case v.Type() == reflect.TypeOf(ir.Name(0)):
		s, ok := rec.Scalar.(string)
		if !ok {
			return fmt.Errorf("engine: expected string for ir.Name, got %v", rec)
		}
		v.SetUint(uint64(interner.Intern(s)))
		return nil
	}

	switch v.Kind() {
	case reflect.Struct:
		if rec.Tag != ir.TagStruct {
			return fmt.Errorf("engine: expected struct record for %s, got %v", v.Type(), rec)
		}
		return decodeStructFields(rec, v, interner)
	case reflect.Slice:
		if rec.Tag == ir.TagScalar && rec.Scalar == nil {
			return nil
		}
		if rec.Tag != ir.TagTuple {
			return fmt.Errorf("engine: expected list record for %s, got %v", v.Type(), rec)
		}
		out := reflect.MakeSlice(v.Type(), len(rec.Items), len(rec.Items))
		for i, item := range rec.Items {
			if err := decodeValue(item, out.Index(i), interner); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		v.Set(out)
		return nil
	case reflect.String:
		s, ok := rec.Scalar.(string)
		if !ok {
			return fmt.Errorf("engine: expected string for %s, got %v", v.Type(), rec)
		}
		v.SetString(s)
		return nil
	case reflect.Bool:
		b, ok := rec.Scalar.(bool)
		if !ok {
			return fmt.Errorf("engine: expected bool for %s, got %v", v.Type(), rec)
		}
		v.SetBool(b)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := scalarToInt64(rec.Scalar)
		if err != nil {
			return err
		}
		v.SetUint(uint64(n))
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := scalarToInt64(rec.Scalar)
		if err != nil {
			return err
		}
		v.SetInt(n)
		return nil
	default:
		return fmt.Errorf("engine: unsupported field kind %s", v.Kind())
	}
}

func scalarToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("engine: expected a number, got %T", v)
	}
}

func decodeStructFields(rec ir.Record, v reflect.Value, interner *ir.Interner) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		fieldRec, ok := lookupField(rec.Fields, field.Name)
		if !ok {
			continue
		}
		if err := decodeValue(fieldRec, v.Field(i), interner); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

func lookupField(fields map[string]ir.Record, name string) (ir.Record, bool) {
	if r, ok := fields[name]; ok {
		return r, true
	}
	for k, r := range fields {
		if strings.EqualFold(k, name) {
			return r, true
		}
	}
	return ir.Record{}, false
}

func isOpt(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.NumField() != 2 {
		return false
	}
	valueField, ok := t.FieldByName("Value")
	if !ok {
		return false
	}
	setField, ok := t.FieldByName("Set")
	return ok && setField.Type.Kind() == reflect.Bool && valueField.Name == "Value"
}

// decodeOpt decodes a present value as the wrapped type, or leaves the Opt
// zero (absent) for a nil scalar record.
func decodeOpt(rec ir.Record, v reflect.Value, interner *ir.Interner) error {
	if rec.Tag == ir.TagScalar && rec.Scalar == nil {
		return nil
	}
	value := v.FieldByName("Value")
	if err := decodeValue(rec, value, interner); err != nil {
		return err
	}
	v.FieldByName("Set").SetBool(true)
	return nil
}

// decodeAnyId decodes a single-key constructor record, e.g. {func: 3},
// into ir.AnyId's tagged union.
func decodeAnyId(rec ir.Record, v reflect.Value) error {
	if rec.Tag != ir.TagCtor {
		return fmt.Errorf("engine: expected a tagged id constructor, got %v", rec)
	}
	var n int64
	if len(rec.Items) == 1 {
		i, err := scalarToInt64(rec.Items[0].Scalar)
		if err != nil {
			return err
		}
		n = i
	}
	switch strings.ToLower(rec.Ctor) {
	case "func":
		v.Set(reflect.ValueOf(ir.AnyIdFunc(ir.FuncId(n))))
	case "class":
		v.Set(reflect.ValueOf(ir.AnyIdClass(ir.ClassId(n))))
	case "stmt":
		v.Set(reflect.ValueOf(ir.AnyIdStmt(ir.StmtId(n))))
	case "expr":
		v.Set(reflect.ValueOf(ir.AnyIdExpr(ir.ExprId(n))))
	case "file":
		v.Set(reflect.ValueOf(ir.AnyIdFile(ir.FileId(n))))
	case "import":
		v.Set(reflect.ValueOf(ir.AnyIdImport(ir.ImportId(n))))
	case "global":
		v.Set(reflect.ValueOf(ir.AnyIdGlobal(ir.GlobalId(n))))
	default:
		return fmt.Errorf("engine: unknown AnyId constructor %q", rec.Ctor)
	}
	return nil
}

var exprKindCtors = []string{
	"nameRef", "grouping", "sequence", "binOp", "call", "new", "arrow",
	"classExpr", "unaryOp", "assign", "await", "template", "ternary",
	"bracketAccess", "dotAccess", "array", "inlineFunc", "yield", "bigInt",
	"bool", "number", "string", "property",
}

// decodeExprKind decodes Expression.Kind's tagged union. Only Grouping and
// Sequence carry inline payload (spec.md gives them no dedicated input
// relation); every other tag just selects which sibling relation (by expr
// id) holds the rest of the data.
func decodeExprKind(rec ir.Record, v reflect.Value, interner *ir.Interner) error {
	if rec.Tag != ir.TagCtor {
		return fmt.Errorf("engine: expected a tagged expression kind, got %v", rec)
	}
	idx := -1
	for i, name := range exprKindCtors {
		if strings.EqualFold(name, rec.Ctor) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("engine: unknown expression kind %q", rec.Ctor)
	}
	v.FieldByName("Tag").SetUint(uint64(idx))
	switch inputs.ExprKindTag(idx) {
	case inputs.ExprGrouping:
		if len(rec.Items) != 1 {
			return fmt.Errorf("engine: grouping expects exactly one expr id")
		}
		return decodeValue(rec.Items[0], v.FieldByName("Grouping"), interner)
	case inputs.ExprSequence:
		field := v.FieldByName("Sequence")
		out := reflect.MakeSlice(field.Type(), len(rec.Items), len(rec.Items))
		for i, item := range rec.Items {
			if err := decodeValue(item, out.Index(i), interner); err != nil {
				return fmt.Errorf("sequence item %d: %w", i, err)
			}
		}
		field.Set(out)
		return nil
	default:
		return nil
	}
}

func decodeSpan(rec ir.Record, v reflect.Value) error {
	if rec.Tag != ir.TagStruct {
		return fmt.Errorf("engine: expected a struct record for ir.Span, got %v", rec)
	}
	start, ok := lookupField(rec.Fields, "Start")
	if !ok {
		return fmt.Errorf("engine: ir.Span missing Start")
	}
	end, ok := lookupField(rec.Fields, "End")
	if !ok {
		return fmt.Errorf("engine: ir.Span missing End")
	}
	s, err := scalarToInt64(start.Scalar)
	if err != nil {
		return err
	}
	e, err := scalarToInt64(end.Scalar)
	if err != nil {
		return err
	}
	v.Set(reflect.ValueOf(ir.Span{Start: int(s), End: int(e)}))
	return nil
}
