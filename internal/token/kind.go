package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token. `match` and `case` are identifiers.
	Ident
	// Num represents a non-negative decimal numeral of any length.
	Num

	// KwAs represents the 'as' keyword.
	KwAs // as
	// KwConst represents the 'const' keyword.
	KwConst // const
	// KwLet represents the 'let' keyword, a synonym of const.
	KwLet // let
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwSwitch represents the 'switch' keyword.
	KwSwitch // switch
	// KwType represents the 'type' keyword.
	KwType // type
	// KwExtends represents the 'extends' keyword.
	KwExtends // extends
	// KwFunction represents the 'function' keyword.
	KwFunction // function

	// ConsoleLog is `console.log` (spaces around the dot allowed) or `print`.
	ConsoleLog

	Colon     // :
	FatArrow  // =>
	Semicolon // ;
	Comma     // ,
	Dot       // .
	PlusPlus  // ++
	LParen    // (
	RParen    // )
	Lt        // <
	Gt        // >
	LBrace    // {
	RBrace    // }
	EqEq      // == or ===
	BangEq    // != or !==
	Bang      // !
	Plus      // +
	Star      // *
	AndAnd    // &&
	OrOr      // ||
	Assign    // =
)

var kindNames = [...]string{
	Invalid:    "Invalid",
	EOF:        "EOF",
	Ident:      "Ident",
	Num:        "Num",
	KwAs:       "as",
	KwConst:    "const",
	KwLet:      "let",
	KwReturn:   "return",
	KwContinue: "continue",
	KwBreak:    "break",
	KwFor:      "for",
	KwSwitch:   "switch",
	KwType:     "type",
	KwExtends:  "extends",
	KwFunction: "function",
	ConsoleLog: "console.log",
	Colon:      ":",
	FatArrow:   "=>",
	Semicolon:  ";",
	Comma:      ",",
	Dot:        ".",
	PlusPlus:   "++",
	LParen:     "(",
	RParen:     ")",
	Lt:         "<",
	Gt:         ">",
	LBrace:     "{",
	RBrace:     "}",
	EqEq:       "==",
	BangEq:     "!=",
	Bang:       "!",
	Plus:       "+",
	Star:       "*",
	AndAnd:     "&&",
	OrOr:       "||",
	Assign:     "=",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
