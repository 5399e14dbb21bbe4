package parser

import (
	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/earley"
	"github.com/mjgrzymek/PeanoScript/internal/token"
)

type (
	sym  = earley.Sym[token.Token]
	rule = earley.Rule[token.Token]
)

func nt(name string) sym { return earley.N[token.Token](name) }

// k matches a token kind.
func k(kind token.Kind) sym {
	return earley.Term(kind.String(), func(t token.Token) bool { return t.Kind == kind })
}

// w matches an identifier with the given text (`match`, `case`).
func w(text string) sym {
	return earley.Term(text, func(t token.Token) bool { return t.Is(text) })
}

var ident = earley.Term("identifier", func(t token.Token) bool { return t.Kind == token.Ident })

func r(lhs string, post earley.Postprocess, rhs ...sym) rule {
	return rule{LHS: lhs, RHS: rhs, Post: post}
}

var grammar = earley.MustGrammar(rules())

func rules() []rule {
	var rs []rule
	rs = append(rs, statementRules()...)
	rs = append(rs, typeRules()...)
	rs = append(rs, exprRules()...)
	return rs
}

func statementRules() []rule {
	return []rule{
		r("code", first, nt("statements")),
		r("statements", newBlock),
		r("statements", appendStmt, nt("statements"), nt("statement")),

		r("statement", terminated, nt("pre_statement_opt"), k(token.Semicolon)),
		r("statement", first, nt("switch")),
		r("statement", first, nt("function")),
		r("pre_statement_opt", none),
		r("pre_statement_opt", first, nt("pre_statement")),
		r("pre_statement", first, nt("const")),
		r("pre_statement", first, nt("return")),
		r("pre_statement", first, nt("multi_const")),
		r("pre_statement", first, nt("typedef")),
		r("pre_statement", first, nt("generic_typedef")),
		r("pre_statement", first, nt("log")),

		r("const_let", first, k(token.KwConst)),
		r("const_let", first, k(token.KwLet)),
		r("const", buildConst, nt("const_let"), ident, nt("assertion_opt"), k(token.Assign), nt("expr")),
		r("assertion_opt", none),
		r("assertion_opt", first, nt("assertion")),
		r("assertion", second, k(token.Colon), nt("logic")),

		r("return_kw", first, k(token.KwReturn)),
		r("return_kw", first, k(token.KwContinue)),
		r("return_kw", first, k(token.KwBreak)),
		r("return", buildReturn, nt("return_kw"), nt("expr")),

		r("rename", buildRename, ident),
		r("rename", buildRename, ident, k(token.Colon), ident),
		r("multi_const", buildMultiConst,
			nt("const_let"), k(token.LBrace), nt("rename"), k(token.Comma), nt("rename"), k(token.RBrace),
			k(token.Assign), nt("expr")),

		r("typedef", buildTypedef, k(token.KwType), ident, k(token.Assign), nt("logic")),
		r("generic_typedef", buildGenericTypedef,
			k(token.KwType), ident, k(token.Lt), nt("type_params"), k(token.Gt), k(token.Assign), nt("logic")),
		r("type_params", list, nt("type_param")),
		r("type_params", appendSep, nt("type_params"), k(token.Comma), nt("type_param")),
		r("type_param", buildTypeParam, ident, k(token.KwExtends), ident),

		r("log", buildLog, k(token.ConsoleLog), k(token.LParen), nt("arglist"), k(token.RParen)),
		r("arglist", list, nt("arit")),
		r("arglist", appendSep, nt("arglist"), k(token.Comma), nt("arit")),

		r("for", buildFor,
			k(token.KwFor), k(token.LParen),
			nt("const"), k(token.Semicolon),
			nt("const"), k(token.Semicolon),
			nt("comparison"), nt("increment"),
			k(token.RParen), nt("block")),
		r("comparison", buildCompare, ident, k(token.Lt), nt("arit"), k(token.Semicolon)),
		r("increment", buildIncrement, ident, k(token.PlusPlus)),

		r("switch_kw", first, k(token.KwSwitch)),
		r("switch_kw", first, w("match")),
		r("switch", buildSwitch,
			nt("switch_kw"), k(token.LParen), nt("arit"), k(token.RParen),
			k(token.LBrace), nt("cases"), k(token.RBrace)),
		r("cases", emptyList),
		r("cases", appendNext, nt("cases"), nt("case")),
		r("case", buildCase, w("case"), nt("case_guard"), k(token.Colon), nt("statements")),
		r("case_guard", buildCaseGuard, k(token.LBrace), ident, k(token.Colon), ident, k(token.RBrace)),

		r("block", buildBlock, k(token.LBrace), nt("statements"), k(token.RBrace)),
	}
}

func typeRules() []rule {
	return []rule{
		r("logic", first, nt("impl")),
		r("impl", buildArrow, k(token.LParen), nt("impl_args"), k(token.RParen), k(token.FatArrow), nt("impl")),
		r("impl", first, nt("or")),
		r("impl_args", list, nt("impl_arg")),
		r("impl_args", appendSep, nt("impl_args"), k(token.Comma), nt("impl_arg")),
		r("impl_arg", buildParam, ident, nt("assertion")),

		r("or", tbin(ast.TOr), nt("or"), k(token.OrOr), nt("and")),
		r("or", first, nt("and")),
		r("and", tbin(ast.TAnd), nt("and"), k(token.AndAnd), nt("eq")),
		r("and", first, nt("eq")),
		r("eq", tbin(ast.TEq), nt("type_plus"), k(token.EqEq), nt("type_plus")),
		r("eq", tbin(ast.TNeq), nt("type_plus"), k(token.BangEq), nt("type_plus")),
		r("eq", first, nt("type_plus")),
		r("type_plus", tbin(ast.TAdd), nt("type_plus"), k(token.Plus), nt("type_mult")),
		r("type_plus", first, nt("type_mult")),
		r("type_mult", tbin(ast.TMul), nt("type_mult"), k(token.Star), nt("not")),
		r("type_mult", first, nt("not")),
		r("not", buildNot, k(token.Bang), nt("not")),
		r("not", first, nt("bottom_logic")),

		r("bottom_logic", buildNum, k(token.Num)),
		r("bottom_logic", buildIdent, ident),
		r("bottom_logic", paren, k(token.LParen), nt("logic"), k(token.RParen)),
		r("bottom_logic", buildTStruct,
			k(token.LBrace), ident, nt("assertion"), nt("field_sep"), ident, nt("assertion"), k(token.RBrace)),
		r("bottom_logic", buildTGeneric, ident, k(token.Lt), nt("logic_list"), k(token.Gt)),
		r("bottom_logic", buildTCall, ident, k(token.LParen), nt("logic"), k(token.RParen)),
		r("field_sep", first, k(token.Semicolon)),
		r("field_sep", first, k(token.Comma)),
		r("logic_list", list, nt("logic")),
		r("logic_list", appendSep, nt("logic_list"), k(token.Comma), nt("logic")),
	}
}

func exprRules() []rule {
	return []rule{
		r("expr", first, nt("arit")),
		r("arit", first, nt("as")),
		r("as", buildAs, nt("as"), k(token.KwAs), nt("logic")),
		r("as", first, nt("eimpl")),

		r("eimpl", buildSimpleLambda, ident, k(token.FatArrow), nt("lambda_body")),
		r("eimpl", first, nt("multiarg")),
		r("eimpl", first, nt("eand")),
		r("lambda_body", first, nt("eimpl")),
		r("lambda_body", first, nt("block")),
		r("param", buildParam, ident, nt("assertion_opt")),
		r("params", list, nt("param")),
		r("params", appendSep, nt("params"), k(token.Comma), nt("param")),
		r("multiarg_head", buildHead, k(token.LParen), nt("params"), k(token.RParen), nt("assertion_opt")),
		r("multiarg", applyHead, nt("multiarg_head"), k(token.FatArrow), nt("lambda_body")),
		r("function", buildFunction, k(token.KwFunction), ident, nt("multiarg_head"), nt("block")),

		r("eand", buildPair, nt("eand"), k(token.AndAnd), nt("sum")),
		r("eand", first, nt("sum")),
		r("sum", ebin(ast.OpAdd), nt("sum"), k(token.Plus), nt("mul")),
		r("sum", first, nt("mul")),
		r("mul", ebin(ast.OpMul), nt("mul"), k(token.Star), nt("arifun")),
		r("mul", first, nt("arifun")),

		r("arifun", buildCalls, nt("arifun"), k(token.LParen), nt("arglist"), k(token.RParen)),
		r("arifun", buildEmptyCall, nt("arifun"), k(token.LParen), k(token.RParen)),
		r("arifun", buildMember, nt("arifun"), k(token.Dot), ident),
		r("arifun", first, nt("arigenericfun")),
		r("arigenericfun", buildGenericCall, ident, k(token.Lt), nt("logic"), k(token.Gt)),
		r("arigenericfun", first, nt("bottom_arit")),

		r("bottom_arit", buildNum, k(token.Num)),
		r("bottom_arit", buildIdent, ident),
		r("bottom_arit", paren, k(token.LParen), nt("arit"), k(token.RParen)),
		r("bottom_arit", first, nt("estruct")),
		r("bottom_arit", first, nt("for")),
		r("bottom_arit", first, nt("switch")),
		r("bottom_arit", first, nt("make_or")),
		r("estruct", buildEStruct,
			k(token.LBrace), ident, k(token.Colon), nt("arit"), k(token.Comma),
			ident, k(token.Colon), nt("arit"), k(token.RBrace)),
		r("make_or", buildMakeOr, k(token.LBrace), ident, k(token.Colon), nt("arit"), k(token.RBrace)),
	}
}
