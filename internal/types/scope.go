package types

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

// Kind classifies a context entry.
type Kind uint8

const (
	KindArithmetic Kind = iota
	KindProof
	KindTypedef
	KindGeneric
)

var kindNames = [...]string{
	KindArithmetic: "arithmetic",
	KindProof:      "proof",
	KindTypedef:    "typedef",
	KindGeneric:    "generic typedef",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Constraint is the kind a generic parameter accepts.
type Constraint uint8

const (
	ConstraintN Constraint = iota
	ConstraintProp
)

func (c Constraint) String() string {
	if c == ConstraintProp {
		return "Prop"
	}
	return "N"
}

// Param is one parameter of a generic typedef.
type Param struct {
	Name       string
	Constraint Constraint
}

// Entry is what a name is bound to. Params is set only for KindGeneric,
// where Type is the body.
type Entry struct {
	Kind   Kind
	Type   Type
	Params []Param
}

var (
	ErrNatNotValue = errors.New("Only use N as a function parameter type or in a struct")
	errTagTypeVar  = errors.New("typevar should not be tagged")
)

// Tag classifies t as an arithmetic term or a proof.
func Tag(t Type) (Entry, error) {
	switch t.(type) {
	case Var, Zero, Succ, Add, Mul:
		return Entry{Kind: KindArithmetic, Type: t}, nil
	case Eq, And, Or, Rung, Never, Any, Arrow, Struct:
		return Entry{Kind: KindProof, Type: t}, nil
	case Nat:
		return Entry{}, ErrNatNotValue
	case TypeVar:
		return Entry{}, errTagTypeVar
	}
	return Entry{}, fmt.Errorf("cannot tag %T", t)
}

// Scope is an immutable chain of bindings. Extending a scope never affects
// other holders of the parent, so sibling subterms see independent
// snapshots.
type Scope struct {
	parent *Scope
	name   string
	entry  Entry
}

// NewScope builds a scope from a set of bindings. Bindings are added in
// name order so the chain does not depend on map iteration.
func NewScope(entries map[string]Entry) *Scope {
	var s *Scope
	for _, name := range slices.Sorted(maps.Keys(entries)) {
		s = s.With(name, entries[name])
	}
	return s
}

// With returns s extended by one binding. A nil receiver is the empty
// scope.
func (s *Scope) With(name string, e Entry) *Scope {
	return &Scope{parent: s, name: name, entry: e}
}

// Lookup finds the innermost binding of name.
func (s *Scope) Lookup(name string) (Entry, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur.entry, true
		}
	}
	return Entry{}, false
}

// Names lists the visible names, innermost binding first, without
// duplicates.
func (s *Scope) Names() []string {
	seen := make(map[string]struct{})
	var out []string
	for cur := s; cur != nil; cur = cur.parent {
		if _, ok := seen[cur.name]; ok {
			continue
		}
		seen[cur.name] = struct{}{}
		out = append(out, cur.name)
	}
	return out
}
