package earley

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type item struct {
	rule, dot, origin int
}

type column struct {
	items   []item
	seen    map[item]struct{}
	waiting map[int][]item // nonterminal -> items whose next symbol it is
}

func newColumn() *column {
	return &column{seen: make(map[item]struct{}), waiting: make(map[int][]item)}
}

type spanKey struct{ nt, from, to int }

type seqKey struct{ rule, dot, from, to int }

type parse[T any] struct {
	g     *Grammar[T]
	toks  []T
	cols  []*column
	done  map[spanKey]struct{}
	ends  map[[2]int][]int // (nt, from) -> ascending end positions
	memo  map[spanKey]int
	smemo map[seqKey]int
}

// many is the saturation point of derivation counts.
const many = 2

// Parse recognizes toks as start and, when there is exactly one derivation,
// returns the value built by the rule postprocessors along it.
func (g *Grammar[T]) Parse(start string, toks []T) (any, error) {
	startID, ok := g.ntID[start]
	if !ok {
		return nil, fmt.Errorf("earley: unknown start symbol %q", start)
	}
	p := &parse[T]{
		g:     g,
		toks:  toks,
		cols:  make([]*column, len(toks)+1),
		done:  make(map[spanKey]struct{}),
		ends:  make(map[[2]int][]int),
		memo:  make(map[spanKey]int),
		smemo: make(map[seqKey]int),
	}
	for i := range p.cols {
		p.cols[i] = newColumn()
	}
	for _, r := range g.byLHS[startID] {
		p.add(0, item{rule: r})
	}
	for i := 0; i <= len(toks); i++ {
		p.process(i)
		if i == len(toks) {
			break
		}
		p.scan(i)
		if len(p.cols[i+1].items) == 0 {
			return nil, &UnexpectedTokenError[T]{Index: i, Token: toks[i], Expected: p.expected(i)}
		}
	}
	switch n := p.count(startID, 0, len(toks)); {
	case n == 0:
		return nil, ErrNoParse
	case n >= many:
		return nil, ErrAmbiguous
	}
	return p.build(startID, 0, len(toks))
}

func (p *parse[T]) add(col int, it item) {
	c := p.cols[col]
	if _, ok := c.seen[it]; ok {
		return
	}
	c.seen[it] = struct{}{}
	c.items = append(c.items, it)
	if rhs := p.g.rules[it.rule].rhs; it.dot < len(rhs) && rhs[it.dot].nt >= 0 {
		nt := rhs[it.dot].nt
		c.waiting[nt] = append(c.waiting[nt], it)
	}
}

// process runs prediction and completion on column j to a fixed point.
// Nullable nonterminals are stepped over at prediction time.
func (p *parse[T]) process(j int) {
	col := p.cols[j]
	for k := 0; k < len(col.items); k++ {
		it := col.items[k]
		r := &p.g.rules[it.rule]
		if it.dot == len(r.rhs) {
			p.markDone(r.lhs, it.origin, j)
			waiting := p.cols[it.origin].waiting[r.lhs]
			for w := 0; w < len(waiting); w++ {
				p.add(j, item{rule: waiting[w].rule, dot: waiting[w].dot + 1, origin: waiting[w].origin})
			}
			continue
		}
		s := r.rhs[it.dot]
		if s.nt < 0 {
			continue
		}
		for _, rr := range p.g.byLHS[s.nt] {
			p.add(j, item{rule: rr, origin: j})
		}
		if p.g.nullable[s.nt] {
			p.add(j, item{rule: it.rule, dot: it.dot + 1, origin: it.origin})
		}
	}
}

func (p *parse[T]) markDone(nt, from, to int) {
	k := spanKey{nt, from, to}
	if _, ok := p.done[k]; ok {
		return
	}
	p.done[k] = struct{}{}
	ek := [2]int{nt, from}
	p.ends[ek] = append(p.ends[ek], to)
}

func (p *parse[T]) scan(i int) {
	tok := p.toks[i]
	for _, it := range p.cols[i].items {
		rhs := p.g.rules[it.rule].rhs
		if it.dot < len(rhs) && rhs[it.dot].nt < 0 && rhs[it.dot].match(tok) {
			p.add(i+1, item{rule: it.rule, dot: it.dot + 1, origin: it.origin})
		}
	}
}

func (p *parse[T]) expected(i int) []string {
	var labels []string
	for _, it := range p.cols[i].items {
		rhs := p.g.rules[it.rule].rhs
		if it.dot < len(rhs) && rhs[it.dot].nt < 0 {
			labels = append(labels, rhs[it.dot].label)
		}
	}
	labels = lo.Uniq(labels)
	slices.Sort(labels)
	return labels
}

func sat(n int) int { return min(n, many) }

// count returns the number of derivations of nt over toks[from:to],
// saturated at many. A derivation that reaches itself counts as many.
func (p *parse[T]) count(nt, from, to int) int {
	k := spanKey{nt, from, to}
	if v, ok := p.memo[k]; ok {
		if v < 0 {
			return many
		}
		return v
	}
	if _, ok := p.done[k]; !ok {
		return 0
	}
	p.memo[k] = -1
	total := 0
	for _, r := range p.g.byLHS[nt] {
		total = sat(total + p.countSeq(r, 0, from, to))
	}
	p.memo[k] = total
	return total
}

// countSeq counts the derivations of rule's rhs[dot:] over toks[from:to].
func (p *parse[T]) countSeq(r, dot, from, to int) int {
	rhs := p.g.rules[r].rhs
	if dot == len(rhs) {
		if from == to {
			return 1
		}
		return 0
	}
	k := seqKey{r, dot, from, to}
	if v, ok := p.smemo[k]; ok {
		return v
	}
	total := 0
	s := rhs[dot]
	if s.nt < 0 {
		if from < to && s.match(p.toks[from]) {
			total = p.countSeq(r, dot+1, from+1, to)
		}
	} else {
		for _, m := range p.ends[[2]int{s.nt, from}] {
			if m > to {
				break
			}
			c := p.count(s.nt, from, m)
			if c == 0 {
				continue
			}
			total = sat(total + sat(c*p.countSeq(r, dot+1, m, to)))
			if total >= many {
				break
			}
		}
	}
	p.smemo[k] = total
	return total
}

func (p *parse[T]) build(nt, from, to int) (any, error) {
	for _, r := range p.g.byLHS[nt] {
		if p.countSeq(r, 0, from, to) == 0 {
			continue
		}
		kids := make([]any, 0, len(p.g.rules[r].rhs))
		kids, err := p.buildSeq(r, 0, from, to, kids)
		if err != nil {
			return nil, err
		}
		if post := p.g.rules[r].post; post != nil {
			return post(kids)
		}
		if len(kids) == 1 {
			return kids[0], nil
		}
		return kids, nil
	}
	return nil, fmt.Errorf("earley: no derivation of %s over [%d,%d)", p.g.ntName[nt], from, to)
}

func (p *parse[T]) buildSeq(r, dot, from, to int, kids []any) ([]any, error) {
	rhs := p.g.rules[r].rhs
	for ; dot < len(rhs); dot++ {
		s := rhs[dot]
		if s.nt < 0 {
			kids = append(kids, p.toks[from])
			from++
			continue
		}
		next := -1
		for _, m := range p.ends[[2]int{s.nt, from}] {
			if m > to {
				break
			}
			if p.count(s.nt, from, m) > 0 && p.countSeq(r, dot+1, m, to) > 0 {
				next = m
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("earley: lost derivation of %s at %d", p.g.rules[r].name, from)
		}
		child, err := p.build(s.nt, from, next)
		if err != nil {
			return nil, err
		}
		kids = append(kids, child)
		from = next
	}
	return kids, nil
}
