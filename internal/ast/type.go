package ast

// Type is a type (proposition) expression. Numerals and identifiers double
// as arithmetic terms inside types.
type Type interface {
	Node
	typeNode()
}

type TypeOp uint8

const (
	TEq  TypeOp = iota // ==
	TNeq               // !=
	TAnd               // &&
	TOr                // ||
	TAdd               // +
	TMul               // *
)

var typeOpText = [...]string{TEq: "==", TNeq: "!=", TAnd: "&&", TOr: "||", TAdd: "+", TMul: "*"}

func (op TypeOp) String() string { return typeOpText[op] }

// TBinary is any infix type operator.
type TBinary struct {
	Op          TypeOp
	Left, Right Type
	Meta        Meta
}

// TArrow is a dependent function type `(name: Dom) => Cod`.
type TArrow struct {
	Name *Ident
	Dom  Type
	Cod  Type
	Meta Meta
}

// TField is one `name: T` entry of a struct type.
type TField struct {
	Name *Ident
	Type Type
}

// TStruct is an existential type `{n: N; p: P<n>}`.
type TStruct struct {
	Fields []TField
	Meta   Meta
}

// TNot is `!T`, sugar for `(_: T) => never`.
type TNot struct {
	X    Type
	Meta Meta
}

// TCall is `succ(x)` in type position.
type TCall struct {
	Fn   *Ident
	Arg  Type
	Meta Meta
}

// TGeneric instantiates a generic typedef: `Name<A, B>`.
type TGeneric struct {
	Name *Ident
	Args []Type
	Meta Meta
}

func (*Ident) typeNode()    {}
func (*Num) typeNode()      {}
func (*TBinary) typeNode()  {}
func (*TArrow) typeNode()   {}
func (*TStruct) typeNode()  {}
func (*TNot) typeNode()     {}
func (*TCall) typeNode()    {}
func (*TGeneric) typeNode() {}

func (n *TBinary) Pos() Meta  { return n.Meta }
func (n *TArrow) Pos() Meta   { return n.Meta }
func (n *TStruct) Pos() Meta  { return n.Meta }
func (n *TNot) Pos() Meta     { return n.Meta }
func (n *TCall) Pos() Meta    { return n.Meta }
func (n *TGeneric) Pos() Meta { return n.Meta }
