package ast

// Stmt is one statement of a block.
type Stmt interface {
	Node
	stmtNode()
}

// ReturnKind is the keyword ending a block. KindValue is the implicit
// "return" of an expression-bodied lambda.
type ReturnKind uint8

const (
	KindReturn ReturnKind = iota
	KindContinue
	KindBreak
	KindValue
)

func (k ReturnKind) String() string {
	switch k {
	case KindContinue:
		return "continue"
	case KindBreak:
		return "break"
	case KindValue:
		return "value"
	}
	return "return"
}

// Block is a statement list. The program itself is a TopLevel block.
type Block struct {
	Stmts    []Stmt
	TopLevel bool
	Meta     Meta
}

// Const is `const name: T = value` (also spelled `let`, or produced by
// `function name(...) {...}`).
type Const struct {
	Name      *Ident
	Assertion Type // nil when absent
	Value     Expr
	Meta      Meta
}

// Rename is one entry of a destructuring pattern: `from` or `from: to`.
type Rename struct {
	From *Ident
	To   *Ident // nil when not renamed
}

// Target is the name the entry binds.
func (r Rename) Target() *Ident {
	if r.To != nil {
		return r.To
	}
	return r.From
}

// MultiConst destructures an existential pair: `const {n, p: proof} = e`.
type MultiConst struct {
	Names [2]Rename
	Value Expr
	Meta  Meta
}

// Return ends a block with `return`, `continue` or `break`.
type Return struct {
	Kind     ReturnKind
	KindMeta Meta
	Value    Expr
	Meta     Meta
}

// Typedef is `type Name = T`.
type Typedef struct {
	Name  *Ident
	Value Type
	Meta  Meta
}

// TypeParam is `Name extends N` or `Name extends Prop`.
type TypeParam struct {
	Name       *Ident
	Constraint *Ident
}

// GenericTypedef is `type Name<A extends N, P extends Prop> = T`.
type GenericTypedef struct {
	Name   *Ident
	Params []TypeParam
	Value  Type
	Meta   Meta
}

// Log is `console.log(a, b)` or `print(a, b)`.
type Log struct {
	Args []Expr
	Meta Meta
}

// Empty is a lone `;`.
type Empty struct {
	Meta Meta
}

// CaseGuard is `{left: name}` or `{right: name}`.
type CaseGuard struct {
	Tag     *Ident
	Binding *Ident
	Meta    Meta
}

// Case is one arm of a switch.
type Case struct {
	Guard *CaseGuard
	Body  *Block
	Meta  Meta
}

// Switch is case analysis on a disjunction. It is both a statement and an
// expression.
type Switch struct {
	Value Expr
	Cases []*Case
	Meta  Meta
}

func (*Const) stmtNode()          {}
func (*MultiConst) stmtNode()     {}
func (*Return) stmtNode()         {}
func (*Typedef) stmtNode()        {}
func (*GenericTypedef) stmtNode() {}
func (*Log) stmtNode()            {}
func (*Empty) stmtNode()          {}
func (*Switch) stmtNode()         {}

func (n *Block) Pos() Meta          { return n.Meta }
func (n *Const) Pos() Meta          { return n.Meta }
func (n *MultiConst) Pos() Meta     { return n.Meta }
func (n *Return) Pos() Meta         { return n.Meta }
func (n *Typedef) Pos() Meta        { return n.Meta }
func (n *GenericTypedef) Pos() Meta { return n.Meta }
func (n *Log) Pos() Meta            { return n.Meta }
func (n *Empty) Pos() Meta          { return n.Meta }
func (n *CaseGuard) Pos() Meta      { return n.Meta }
func (n *Case) Pos() Meta           { return n.Meta }
func (n *Switch) Pos() Meta         { return n.Meta }
