// Package collections provides list literals, indexing and slicing, and the
// len and sum builtins.
package collections

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/burstdsl/internal/operator"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/specialistvlad/burstdsl/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers list, slice, subscript, len and sum.
func (m *Module) Register(r *registry.Registry) {
	r.Register(List, Slice, Subscript, Len, Sum)
}

// LoadContext is the only subscript context computed by this package.
const LoadContext = "Load"

var (
	List = &operator.Class{
		Name:        "list",
		DisplayName: "[...]",
		Description: "Builds a list from its elements.",
		Example:     "[1, 2, price]",
		Family:      operator.FamilyList,
		Build: func(b operator.Base) operator.Operator {
			return &list{Collection: operator.Collection{Base: b}}
		},
	}

	Slice = &operator.Class{
		Name:        "slice",
		DisplayName: "lower:upper:step",
		Description: "A slice used as a subscript index. Omitted bounds are null.",
		Example:     "prices[-3:]",
		Family:      operator.FamilyCall,
		Parameters: []operator.Parameter{
			{Name: "lower", Description: "First position, inclusive.", Type: cty.Number},
			{Name: "upper", Description: "Last position, exclusive.", Type: cty.Number},
			{Name: "step", Description: "Distance between positions. Cannot be zero.", Type: cty.Number},
		},
		Build: func(b operator.Base) operator.Operator {
			return &slice{Call: operator.Call{Base: b}}
		},
	}

	Subscript = &operator.Class{
		Name:        "subscript",
		DisplayName: "value[index]",
		Description: "Reads an element of a list or string by position, a range of positions by slice, or an object attribute by key.",
		Example:     `prices[-1]`,
		Family:      operator.FamilySubscript,
		Build: func(b operator.Base) operator.Operator {
			return &subscript{Subscript: operator.Subscript{Base: b}}
		},
	}

	Len = &operator.Class{
		Name:        "len",
		Description: "Number of characters of a string, or of elements of a collection.",
		Example:     `len("abc")`,
		Family:      operator.FamilyCall,
		Parameters: []operator.Parameter{
			{Name: "value", Required: true, Type: cty.DynamicPseudoType},
		},
		Build: func(b operator.Base) operator.Operator {
			return &length{Call: operator.Call{Base: b}}
		},
	}

	Sum = &operator.Class{
		Name:        "sum",
		Description: "Adds the numbers of a list to start.",
		Example:     "sum([1, 2, 3])",
		Family:      operator.FamilyCall,
		Parameters: []operator.Parameter{
			{Name: "values", Required: true, Type: cty.DynamicPseudoType},
			{Name: "start", Type: cty.Number, Default: cty.Zero},
		},
		Build: func(b operator.Base) operator.Operator {
			return &sum{Call: operator.Call{Base: b}}
		},
	}
)

type list struct {
	operator.Collection
}

func (l *list) Compute() (cty.Value, error) {
	elems, err := l.ComputedOperands()
	if err != nil {
		return cty.NilVal, err
	}
	for i, e := range elems {
		if value.IsSlice(e) {
			return cty.NilVal, fmt.Errorf("list element %d: a slice is only valid as an index", i)
		}
	}
	return tuple(elems), nil
}

func tuple(elems []cty.Value) cty.Value {
	if len(elems) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(elems)
}

type slice struct {
	operator.Call
}

func (s *slice) Compute() (cty.Value, error) {
	args, err := s.Args()
	if err != nil {
		return cty.NilVal, err
	}
	if args.Has("step") && args["step"].AsBigFloat().Sign() == 0 {
		return cty.NilVal, errors.New("slice step cannot be zero")
	}
	return value.NewSlice(args["lower"], args["upper"], args["step"]), nil
}

type subscript struct {
	operator.Subscript
}

func (s *subscript) Compute() (cty.Value, error) {
	ctx, err := s.Context()
	if err != nil {
		return cty.NilVal, err
	}
	if ctx != LoadContext {
		return cty.NilVal, fmt.Errorf("subscript context %q is not supported: expressions are read-only", ctx)
	}
	target, err := s.Target().Compute()
	if err != nil {
		return cty.NilVal, err
	}
	index, err := s.Index().Compute()
	if err != nil {
		return cty.NilVal, err
	}
	if !target.IsWhollyKnown() {
		return cty.NilVal, value.ErrUnknown
	}
	if target.IsNull() {
		return cty.NilVal, errors.New("cannot subscript null")
	}
	if value.IsSlice(index) {
		return sliceOf(target, value.AsSlice(index))
	}
	return Index(target, index)
}

// Index reads one element of target. Lists, tuples and strings take an
// integer position, negative positions counting from the end; objects and
// maps take a string key.
func Index(target, index cty.Value) (cty.Value, error) {
	ty := target.Type()
	switch {
	case ty == cty.String:
		runes := []rune(target.AsString())
		i, err := position(index, len(runes))
		if err != nil {
			return cty.NilVal, err
		}
		return cty.StringVal(string(runes[i])), nil

	case ty.IsListType() || ty.IsTupleType():
		i, err := position(index, target.LengthInt())
		if err != nil {
			return cty.NilVal, err
		}
		return target.Index(cty.NumberIntVal(int64(i))), nil

	case ty.IsObjectType():
		key, err := value.String(index)
		if err != nil {
			return cty.NilVal, fmt.Errorf("object key: %w", err)
		}
		if !ty.HasAttribute(key) {
			return cty.NilVal, fmt.Errorf("key %q not found", key)
		}
		return target.GetAttr(key), nil

	case ty.IsMapType():
		key, err := value.String(index)
		if err != nil {
			return cty.NilVal, fmt.Errorf("map key: %w", err)
		}
		k := cty.StringVal(key)
		if !target.HasIndex(k).True() {
			return cty.NilVal, fmt.Errorf("key %q not found", key)
		}
		return target.Index(k), nil
	}
	return cty.NilVal, fmt.Errorf("%s is not subscriptable", value.TypeName(target))
}

func position(index cty.Value, length int) (int, error) {
	i, err := value.Int(index)
	if err != nil {
		return 0, fmt.Errorf("index: %w", err)
	}
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, fmt.Errorf("index %s out of range for length %d", value.Format(index), length)
	}
	return i, nil
}

func sliceOf(target cty.Value, s *value.Slice) (cty.Value, error) {
	ty := target.Type()
	switch {
	case ty == cty.String:
		runes := []rune(target.AsString())
		indices, err := s.Indices(len(runes))
		if err != nil {
			return cty.NilVal, err
		}
		out := make([]rune, len(indices))
		for i, idx := range indices {
			out[i] = runes[idx]
		}
		return cty.StringVal(string(out)), nil

	case ty.IsListType() || ty.IsTupleType():
		elems := target.AsValueSlice()
		indices, err := s.Indices(len(elems))
		if err != nil {
			return cty.NilVal, err
		}
		out := make([]cty.Value, len(indices))
		for i, idx := range indices {
			out[i] = elems[idx]
		}
		return tuple(out), nil
	}
	return cty.NilVal, fmt.Errorf("%s cannot be sliced", value.TypeName(target))
}

type length struct {
	operator.Call
}

func (l *length) Compute() (cty.Value, error) {
	args, err := l.Args()
	if err != nil {
		return cty.NilVal, err
	}
	v := args["value"]
	if !v.IsWhollyKnown() {
		return cty.NilVal, value.ErrUnknown
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return stdlib.Strlen(v)
	case ty.IsCollectionType() || ty.IsTupleType() || ty.IsObjectType():
		return cty.NumberIntVal(int64(v.LengthInt())), nil
	}
	return cty.NilVal, fmt.Errorf("len: %s has no length", value.TypeName(v))
}

type sum struct {
	operator.Call
}

func (s *sum) Compute() (cty.Value, error) {
	args, err := s.Args()
	if err != nil {
		return cty.NilVal, err
	}
	values := args["values"]
	ty := values.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return cty.NilVal, fmt.Errorf("sum: expected a list, got %s", value.TypeName(values))
	}
	if !values.IsWhollyKnown() {
		return cty.NilVal, value.ErrUnknown
	}

	total := args["start"]
	i := 0
	for it := values.ElementIterator(); it.Next(); i++ {
		_, elem := it.Element()
		n, err := value.Number(elem)
		if err != nil {
			return cty.NilVal, fmt.Errorf("sum: element %d: %w", i, err)
		}
		if total, err = stdlib.Add(total, n); err != nil {
			return cty.NilVal, fmt.Errorf("sum: %w", err)
		}
	}
	return total, nil
}
