package ast

// Expr is a term: something that elaborates to a type and a continuation.
type Expr interface {
	Node
	exprNode()
}

// Ident is a name. It is used in expressions, in types, and as a binder.
type Ident struct {
	Name string
	Meta Meta
}

// Num is a decimal numeral, kept as text until elaboration.
type Num struct {
	Text string
	Meta Meta
}

type BinOp uint8

const (
	OpAdd BinOp = iota // +
	OpMul              // *
)

func (op BinOp) String() string {
	if op == OpMul {
		return "*"
	}
	return "+"
}

// Binary is arithmetic `+` or `*` on terms.
type Binary struct {
	Op          BinOp
	Left, Right Expr
	Meta        Meta
}

// Lambda is `x => body` or `(x: T): R => body`. Multi-parameter lambdas are
// curried at parse time and the return assertion sits on the innermost one.
type Lambda struct {
	Param     *Ident
	ParamType Type // nil when unannotated
	Assertion Type // nil when absent
	Body      Expr // an expression or a *Block
	Meta      Meta
}

// Call is a single application. Arg is nil for the "empty call" `f()`.
type Call struct {
	Fn   Expr
	Arg  Expr
	Meta Meta
}

// Empty reports whether this is the no-argument form `f()`.
func (c *Call) Empty() bool { return c.Arg == nil }

// GenericCall is `name<T>` in expression position.
type GenericCall struct {
	Name *Ident
	Arg  Type
	Meta Meta
}

// Pair is a proof of a conjunction, written `{left: a, right: b}`.
type Pair struct {
	Left, Right Expr
	Meta        Meta
}

// Field is one `name: value` entry of an existential pair literal.
type Field struct {
	Name  *Ident
	Value Expr
}

// Struct is an existential pair literal `{n: 3, p: proof}`.
type Struct struct {
	Fields [2]Field
	Meta   Meta
}

// As is a type ascription `e as T`.
type As struct {
	X    Expr
	Type Type
	Meta Meta
}

// Member is `x.left`, `x.right`, or the receiver part of `eq.symm()`.
type Member struct {
	X    Expr
	Name *Ident
	Meta Meta
}

// Compare is the `i < bound;` part of a for header.
type Compare struct {
	Left  *Ident
	Right Expr
	Meta  Meta
}

// Increment is the `i++` part of a for header.
type Increment struct {
	Var  *Ident
	Meta Meta
}

// For is the induction primitive:
// `for (let i: N = 0; let p: P = base; i < n; i++) { ... continue step; }`.
type For struct {
	Iter  *Const
	Proof *Const
	Cond  *Compare
	Step  *Increment
	Body  *Block
	Meta  Meta
}

func (*Ident) exprNode()       {}
func (*Num) exprNode()         {}
func (*Binary) exprNode()      {}
func (*Lambda) exprNode()      {}
func (*Call) exprNode()        {}
func (*GenericCall) exprNode() {}
func (*Pair) exprNode()        {}
func (*Struct) exprNode()      {}
func (*As) exprNode()          {}
func (*Member) exprNode()      {}
func (*For) exprNode()         {}
func (*Switch) exprNode()      {}
func (*Block) exprNode()       {}

func (n *Ident) Pos() Meta       { return n.Meta }
func (n *Num) Pos() Meta         { return n.Meta }
func (n *Binary) Pos() Meta      { return n.Meta }
func (n *Lambda) Pos() Meta      { return n.Meta }
func (n *Call) Pos() Meta        { return n.Meta }
func (n *GenericCall) Pos() Meta { return n.Meta }
func (n *Pair) Pos() Meta        { return n.Meta }
func (n *Struct) Pos() Meta      { return n.Meta }
func (n *As) Pos() Meta          { return n.Meta }
func (n *Member) Pos() Meta      { return n.Meta }
func (n *Compare) Pos() Meta     { return n.Meta }
func (n *Increment) Pos() Meta   { return n.Meta }
func (n *For) Pos() Meta         { return n.Meta }
