package earley

import (
	"fmt"
)

// Postprocess builds the semantic value of a rule from its children.
// Terminal children are the matched tokens, nonterminal children are the
// values returned by their own postprocessors.
type Postprocess func(d []any) (any, error)

// Sym is one right-hand-side symbol: a nonterminal reference or a terminal
// predicate over tokens.
type Sym[T any] struct {
	NT    string
	Match func(T) bool
	Label string
}

// N references a nonterminal.
func N[T any](name string) Sym[T] { return Sym[T]{NT: name} }

// Term builds a terminal. Label is used in "expected" lists.
func Term[T any](label string, match func(T) bool) Sym[T] {
	return Sym[T]{Match: match, Label: label}
}

func (s Sym[T]) terminal() bool { return s.Match != nil }

// Rule is `LHS -> RHS...` with an optional postprocessor. A nil Post yields
// the single child for unary rules and the child slice otherwise.
type Rule[T any] struct {
	LHS  string
	RHS  []Sym[T]
	Post Postprocess
}

type rule[T any] struct {
	lhs  int
	rhs  []sym[T]
	post Postprocess
	name string
}

type sym[T any] struct {
	nt    int // -1 for terminals
	match func(T) bool
	label string
}

// Grammar is a compiled rule set.
type Grammar[T any] struct {
	rules    []rule[T]
	ntID     map[string]int
	ntName   []string
	byLHS    [][]int
	nullable []bool
}

// NewGrammar compiles rules. Every referenced nonterminal must have at least
// one rule.
func NewGrammar[T any](rules []Rule[T]) (*Grammar[T], error) {
	g := &Grammar[T]{ntID: make(map[string]int)}
	id := func(name string) int {
		if n, ok := g.ntID[name]; ok {
			return n
		}
		n := len(g.ntName)
		g.ntID[name] = n
		g.ntName = append(g.ntName, name)
		g.byLHS = append(g.byLHS, nil)
		return n
	}
	for _, r := range rules {
		lhs := id(r.LHS)
		cr := rule[T]{lhs: lhs, post: r.Post, name: r.LHS}
		for _, s := range r.RHS {
			if s.terminal() {
				cr.rhs = append(cr.rhs, sym[T]{nt: -1, match: s.Match, label: s.Label})
				continue
			}
			if s.NT == "" {
				return nil, fmt.Errorf("earley: rule %s: empty symbol", r.LHS)
			}
			cr.rhs = append(cr.rhs, sym[T]{nt: id(s.NT), label: s.NT})
		}
		g.byLHS[lhs] = append(g.byLHS[lhs], len(g.rules))
		g.rules = append(g.rules, cr)
	}
	for n, rs := range g.byLHS {
		if len(rs) == 0 {
			return nil, fmt.Errorf("earley: nonterminal %q has no rules", g.ntName[n])
		}
	}
	g.computeNullable()
	return g, nil
}

// MustGrammar is NewGrammar that panics on error. Meant for package-level
// grammar tables.
func MustGrammar[T any](rules []Rule[T]) *Grammar[T] {
	g, err := NewGrammar(rules)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grammar[T]) computeNullable() {
	g.nullable = make([]bool, len(g.ntName))
	for changed := true; changed; {
		changed = false
		for _, r := range g.rules {
			if g.nullable[r.lhs] {
				continue
			}
			all := true
			for _, s := range r.rhs {
				if s.nt < 0 || !g.nullable[s.nt] {
					all = false
					break
				}
			}
			if all {
				g.nullable[r.lhs] = true
				changed = true
			}
		}
	}
}

// Nullable reports whether the nonterminal derives the empty string.
func (g *Grammar[T]) Nullable(name string) bool {
	n, ok := g.ntID[name]
	return ok && g.nullable[n]
}
