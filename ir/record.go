package ir

import (
	"fmt"
	"sort"
)

// RecordTag selects which shape a Record carries. The set is closed and
// exhaustively switched over everywhere a Record is consumed; there is no
// open extension point by design (see DESIGN.md on tagged unions vs
// inheritance).
type RecordTag uint8

const (
	// TagScalar holds a leaf value: string, bool, int64, float64 or nil.
	TagScalar RecordTag = iota
	// TagStruct holds named fields, used for every relation tuple.
	TagStruct
	// TagTuple holds positional fields.
	TagTuple
	// TagCtor holds a tagged constructor with positional arguments, used
	// for sum-typed fields such as Expression.kind.
	TagCtor
)

// Record is the generic nested value used by the textual record form of
// §6: every tuple accepted across the API boundary is parseable from one
// of these before being decoded into its relation's concrete Go type.
type Record struct {
	Tag    RecordTag
	Scalar any
	Fields map[string]Record // TagStruct
	Items  []Record          // TagTuple, TagCtor
	Ctor   string            // TagCtor
}

func Scalar(v any) Record { return Record{Tag: TagScalar, Scalar: v} }

func Struct(fields map[string]Record) Record {
	return Record{Tag: TagStruct, Fields: fields}
}

func Tuple(items ...Record) Record {
	return Record{Tag: TagTuple, Items: items}
}

func Constructor(name string, items ...Record) Record {
	return Record{Tag: TagCtor, Ctor: name, Items: items}
}

// ParseRecord decodes a generic nested value - as produced by a YAML or
// JSON decoder, i.e. combinations of map[string]any, []any and scalars -
// into a Record. Tagged constructors are recognized by a map with exactly
// one key whose value is either absent, a scalar, or a list: that key
// becomes Ctor. A genuine single-field struct is therefore ambiguous with a
// one-arg constructor from Record alone; ParseRecord always decodes it as a
// constructor, and engine.Decode rejects a constructor record where it
// expects a struct rather than re-reading it against the field names.
func ParseRecord(v any) (Record, error) {
	switch t := v.(type) {
	case nil, string, bool, int, int64, float64:
		return Scalar(t), nil
	case map[string]any:
		if len(t) == 1 {
			for k, inner := range t {
				items, err := parseCtorArgs(inner)
				if err != nil {
					return Record{}, err
				}
				return Constructor(k, items...), nil
			}
		}
		fields := make(map[string]Record, len(t))
		for k, inner := range t {
			r, err := ParseRecord(inner)
			if err != nil {
				return Record{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = r
		}
		return Struct(fields), nil
	case []any:
		items := make([]Record, 0, len(t))
		for i, inner := range t {
			r, err := ParseRecord(inner)
			if err != nil {
				return Record{}, fmt.Errorf("item %d: %w", i, err)
			}
			items = append(items, r)
		}
		return Tuple(items...), nil
	default:
		return Record{}, fmt.Errorf("ir: unsupported record value of type %T", v)
	}
}

func parseCtorArgs(inner any) ([]Record, error) {
	switch t := inner.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]Record, 0, len(t))
		for _, a := range t {
			r, err := ParseRecord(a)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	default:
		r, err := ParseRecord(inner)
		if err != nil {
			return nil, err
		}
		return []Record{r}, nil
	}
}

// Keys returns the field names of a TagStruct record in sorted order, for
// deterministic iteration (e.g. when rendering a Record back to text).
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r Record) String() string {
	switch r.Tag {
	case TagScalar:
		return fmt.Sprintf("%v", r.Scalar)
	case TagStruct:
		return fmt.Sprintf("Struct%v", r.Fields)
	case TagTuple:
		return fmt.Sprintf("Tuple%v", r.Items)
	case TagCtor:
		return fmt.Sprintf("%s%v", r.Ctor, r.Items)
	default:
		return "<invalid record>"
	}
}
