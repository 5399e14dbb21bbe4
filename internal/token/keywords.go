package token

var keywords = map[string]Kind{
	"as":       KwAs,
	"const":    KwConst,
	"let":      KwLet,
	"return":   KwReturn,
	"continue": KwContinue,
	"break":    KwBreak,
	"for":      KwFor,
	"switch":   KwSwitch,
	"type":     KwType,
	"extends":  KwExtends,
	"function": KwFunction,
	"print":    ConsoleLog,
}

// LookupKeyword returns the kind of a reserved word, case-sensitively. `print`
// maps to ConsoleLog, so both spellings parse as the same log statement;
// `match` and `case` are contextual and not listed here.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// illegalIdents are the inherited JavaScript object property names; the lexer
// reports them as illegal identifiers.
var illegalIdents = map[string]struct{}{
	"constructor":          {},
	"toString":             {},
	"hasOwnProperty":       {},
	"valueOf":              {},
	"isPrototypeOf":        {},
	"propertyIsEnumerable": {},
	"toLocaleString":       {},
	"__proto__":            {},
	"__defineGetter__":     {},
	"__defineSetter__":     {},
	"__lookupGetter__":     {},
	"__lookupSetter__":     {},
}

// IsIllegalIdent reports whether name is rejected as an identifier.
func IsIllegalIdent(name string) bool {
	_, ok := illegalIdents[name]
	return ok
}
