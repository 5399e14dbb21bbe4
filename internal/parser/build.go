package parser

import (
	"github.com/samber/lo"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/token"
)

// Rule postprocessors. Each receives the children of one rule: tokens for
// terminals, built values for nonterminals.

// param is one `name` or `name: T` entry of a lambda head or arrow type.
type param struct {
	name *ast.Ident
	typ  ast.Type // nil when unannotated
}

func (p param) Pos() ast.Meta { return cover(p.name, p.typ) }

// lambdaHead is a parsed `(a: A, b: B): R` waiting for its body.
type lambdaHead struct {
	params    []param
	assertion ast.Type
	meta      ast.Meta
}

func (h lambdaHead) Pos() ast.Meta { return h.meta }

// apply curries the head over body. The return assertion goes on the
// innermost lambda.
func (h lambdaHead) apply(body ast.Expr) *ast.Lambda {
	last := h.params[len(h.params)-1]
	ans := &ast.Lambda{
		Param:     last.name,
		ParamType: last.typ,
		Assertion: h.assertion,
		Body:      body,
		Meta:      cover(last, body),
	}
	for i := len(h.params) - 2; i >= 0; i-- {
		p := h.params[i]
		ans = &ast.Lambda{Param: p.name, ParamType: p.typ, Body: ans, Meta: cover(p, ans)}
	}
	ans.Meta = cover(h, body)
	return ans
}

func metaOf(x any) ast.Meta {
	switch v := x.(type) {
	case nil:
		return ast.Meta{}
	case token.Token:
		return ast.MetaOf(v.Span)
	case ast.Node:
		return v.Pos()
	case ast.Rename:
		return cover(v.From, v.To)
	case ast.TypeParam:
		return cover(v.Name, v.Constraint)
	case []any:
		return cover(v...)
	}
	return ast.Meta{}
}

func cover(xs ...any) ast.Meta {
	var m ast.Meta
	for _, x := range xs {
		if id, ok := x.(*ast.Ident); ok && id == nil {
			continue
		}
		m = m.Union(metaOf(x))
	}
	return m
}

func tok(d []any, i int) token.Token { return d[i].(token.Token) }

func identOf(t token.Token) *ast.Ident {
	return &ast.Ident{Name: t.Text, Meta: ast.MetaOf(t.Span)}
}

func asType(x any) ast.Type {
	if x == nil {
		return nil
	}
	return x.(ast.Type)
}

func exprs(x any) []ast.Expr {
	return lo.Map(x.([]any), func(e any, _ int) ast.Expr { return e.(ast.Expr) })
}

func types(x any) []ast.Type {
	return lo.Map(x.([]any), func(e any, _ int) ast.Type { return e.(ast.Type) })
}

func params(x any) []param {
	return lo.Map(x.([]any), func(e any, _ int) param { return e.(param) })
}

// withMeta widens a node's meta, used where parentheses or a trailing
// semicolon belong to the node.
func withMeta(n ast.Node, m ast.Meta) ast.Node {
	switch v := n.(type) {
	case *ast.Ident:
		v.Meta = m
	case *ast.Num:
		v.Meta = m
	case *ast.Binary:
		v.Meta = m
	case *ast.Lambda:
		v.Meta = m
	case *ast.Call:
		v.Meta = m
	case *ast.GenericCall:
		v.Meta = m
	case *ast.Pair:
		v.Meta = m
	case *ast.Struct:
		v.Meta = m
	case *ast.As:
		v.Meta = m
	case *ast.Member:
		v.Meta = m
	case *ast.For:
		v.Meta = m
	case *ast.TBinary:
		v.Meta = m
	case *ast.TArrow:
		v.Meta = m
	case *ast.TStruct:
		v.Meta = m
	case *ast.TNot:
		v.Meta = m
	case *ast.TCall:
		v.Meta = m
	case *ast.TGeneric:
		v.Meta = m
	case *ast.Block:
		v.Meta = m
	case *ast.Const:
		v.Meta = m
	case *ast.MultiConst:
		v.Meta = m
	case *ast.Return:
		v.Meta = m
	case *ast.Typedef:
		v.Meta = m
	case *ast.GenericTypedef:
		v.Meta = m
	case *ast.Log:
		v.Meta = m
	case *ast.Empty:
		v.Meta = m
	case *ast.Switch:
		v.Meta = m
	}
	return n
}

func first(d []any) (any, error) { return d[0], nil }

func second(d []any) (any, error) { return d[1], nil }

func none([]any) (any, error) { return nil, nil }

func emptyList([]any) (any, error) { return []any{}, nil }

func list(d []any) (any, error) { return []any{d[0]}, nil }

// appendSep handles `xs , x`.
func appendSep(d []any) (any, error) { return append(d[0].([]any), d[2]), nil }

// appendNext handles `xs x`.
func appendNext(d []any) (any, error) { return append(d[0].([]any), d[1]), nil }

func paren(d []any) (any, error) { return withMeta(d[1].(ast.Node), cover(d...)), nil }

func buildIdent(d []any) (any, error) { return identOf(tok(d, 0)), nil }

func buildNum(d []any) (any, error) {
	t := tok(d, 0)
	return &ast.Num{Text: t.Text, Meta: ast.MetaOf(t.Span)}, nil
}

// statements

func newBlock([]any) (any, error) { return &ast.Block{}, nil }

func appendStmt(d []any) (any, error) {
	b := d[0].(*ast.Block)
	s := d[1].(ast.Stmt)
	b.Stmts = append(b.Stmts, s)
	b.Meta = b.Meta.Union(s.Pos())
	return b, nil
}

func buildBlock(d []any) (any, error) {
	b := d[1].(*ast.Block)
	b.Meta = cover(d...)
	return b, nil
}

func terminated(d []any) (any, error) {
	if d[0] == nil {
		return &ast.Empty{Meta: metaOf(d[1])}, nil
	}
	return withMeta(d[0].(ast.Node), cover(d...)), nil
}

func buildConst(d []any) (any, error) {
	return &ast.Const{
		Name:      identOf(tok(d, 1)),
		Assertion: asType(d[2]),
		Value:     d[4].(ast.Expr),
		Meta:      cover(d...),
	}, nil
}

func buildReturn(d []any) (any, error) {
	kw := tok(d, 0)
	kind := ast.KindReturn
	switch kw.Kind {
	case token.KwContinue:
		kind = ast.KindContinue
	case token.KwBreak:
		kind = ast.KindBreak
	}
	return &ast.Return{Kind: kind, KindMeta: ast.MetaOf(kw.Span), Value: d[1].(ast.Expr), Meta: cover(d...)}, nil
}

func buildRename(d []any) (any, error) {
	r := ast.Rename{From: identOf(tok(d, 0))}
	if len(d) == 3 {
		r.To = identOf(tok(d, 2))
	}
	return r, nil
}

func buildMultiConst(d []any) (any, error) {
	return &ast.MultiConst{
		Names: [2]ast.Rename{d[2].(ast.Rename), d[4].(ast.Rename)},
		Value: d[7].(ast.Expr),
		Meta:  cover(d...),
	}, nil
}

func buildTypedef(d []any) (any, error) {
	return &ast.Typedef{Name: identOf(tok(d, 1)), Value: d[3].(ast.Type), Meta: cover(d...)}, nil
}

func buildTypeParam(d []any) (any, error) {
	return ast.TypeParam{Name: identOf(tok(d, 0)), Constraint: identOf(tok(d, 2))}, nil
}

func buildGenericTypedef(d []any) (any, error) {
	ps := lo.Map(d[3].([]any), func(p any, _ int) ast.TypeParam { return p.(ast.TypeParam) })
	return &ast.GenericTypedef{Name: identOf(tok(d, 1)), Params: ps, Value: d[6].(ast.Type), Meta: cover(d...)}, nil
}

func buildLog(d []any) (any, error) {
	return &ast.Log{Args: exprs(d[2]), Meta: cover(d...)}, nil
}

// control flow

func buildFor(d []any) (any, error) {
	return &ast.For{
		Iter:  d[2].(*ast.Const),
		Proof: d[4].(*ast.Const),
		Cond:  d[6].(*ast.Compare),
		Step:  d[7].(*ast.Increment),
		Body:  d[9].(*ast.Block),
		Meta:  cover(d...),
	}, nil
}

func buildCompare(d []any) (any, error) {
	return &ast.Compare{Left: identOf(tok(d, 0)), Right: d[2].(ast.Expr), Meta: cover(d...)}, nil
}

func buildIncrement(d []any) (any, error) {
	return &ast.Increment{Var: identOf(tok(d, 0)), Meta: cover(d...)}, nil
}

func buildSwitch(d []any) (any, error) {
	cases := lo.Map(d[5].([]any), func(c any, _ int) *ast.Case { return c.(*ast.Case) })
	return &ast.Switch{Value: d[2].(ast.Expr), Cases: cases, Meta: cover(d...)}, nil
}

func buildCase(d []any) (any, error) {
	return &ast.Case{Guard: d[1].(*ast.CaseGuard), Body: d[3].(*ast.Block), Meta: cover(d...)}, nil
}

func buildCaseGuard(d []any) (any, error) {
	return &ast.CaseGuard{Tag: identOf(tok(d, 1)), Binding: identOf(tok(d, 3)), Meta: cover(d...)}, nil
}

// types

func buildParam(d []any) (any, error) {
	return param{name: identOf(tok(d, 0)), typ: asType(d[1])}, nil
}

func buildArrow(d []any) (any, error) {
	args := params(d[1])
	cod := d[4].(ast.Type)
	last := args[len(args)-1]
	var ans ast.Type = &ast.TArrow{Name: last.name, Dom: last.typ, Cod: cod, Meta: cover(d...)}
	for i := len(args) - 2; i >= 0; i-- {
		a := args[i]
		ans = &ast.TArrow{Name: a.name, Dom: a.typ, Cod: ans, Meta: cover(a, ans)}
	}
	return ans, nil
}

func tbin(op ast.TypeOp) func([]any) (any, error) {
	return func(d []any) (any, error) {
		return &ast.TBinary{Op: op, Left: d[0].(ast.Type), Right: d[2].(ast.Type), Meta: cover(d...)}, nil
	}
}

func buildNot(d []any) (any, error) {
	return &ast.TNot{X: d[1].(ast.Type), Meta: cover(d...)}, nil
}

func buildTStruct(d []any) (any, error) {
	return &ast.TStruct{
		Fields: []ast.TField{
			{Name: identOf(tok(d, 1)), Type: d[2].(ast.Type)},
			{Name: identOf(tok(d, 4)), Type: d[5].(ast.Type)},
		},
		Meta: cover(d...),
	}, nil
}

func buildTGeneric(d []any) (any, error) {
	return &ast.TGeneric{Name: identOf(tok(d, 0)), Args: types(d[2]), Meta: cover(d...)}, nil
}

func buildTCall(d []any) (any, error) {
	return &ast.TCall{Fn: identOf(tok(d, 0)), Arg: d[2].(ast.Type), Meta: cover(d...)}, nil
}

// expressions

func buildAs(d []any) (any, error) {
	return &ast.As{X: d[0].(ast.Expr), Type: d[2].(ast.Type), Meta: cover(d...)}, nil
}

func buildSimpleLambda(d []any) (any, error) {
	return &ast.Lambda{Param: identOf(tok(d, 0)), Body: d[2].(ast.Expr), Meta: cover(d...)}, nil
}

func buildHead(d []any) (any, error) {
	return lambdaHead{params: params(d[1]), assertion: asType(d[3]), meta: cover(d...)}, nil
}

func applyHead(d []any) (any, error) {
	return d[0].(lambdaHead).apply(d[2].(ast.Expr)), nil
}

func buildFunction(d []any) (any, error) {
	head := d[2].(lambdaHead)
	return &ast.Const{
		Name:  identOf(tok(d, 1)),
		Value: head.apply(d[3].(*ast.Block)),
		Meta:  cover(d...),
	}, nil
}

func buildPair(d []any) (any, error) {
	return &ast.Pair{Left: d[0].(ast.Expr), Right: d[2].(ast.Expr), Meta: cover(d...)}, nil
}

func ebin(op ast.BinOp) func([]any) (any, error) {
	return func(d []any) (any, error) {
		return &ast.Binary{Op: op, Left: d[0].(ast.Expr), Right: d[2].(ast.Expr), Meta: cover(d...)}, nil
	}
}

// buildCalls turns f(a, b) into f(a)(b). Only the outermost call reaches
// the closing paren; inner ones end at their argument.
func buildCalls(d []any) (any, error) {
	result := d[0].(ast.Expr)
	args := exprs(d[2])
	for i, arg := range args {
		m := cover(result, arg)
		if i == len(args)-1 {
			m = cover(result, arg, d[3])
		}
		result = &ast.Call{Fn: result, Arg: arg, Meta: m}
	}
	return result, nil
}

func buildEmptyCall(d []any) (any, error) {
	return &ast.Call{Fn: d[0].(ast.Expr), Meta: cover(d...)}, nil
}

func buildMember(d []any) (any, error) {
	return &ast.Member{X: d[0].(ast.Expr), Name: identOf(tok(d, 2)), Meta: cover(d...)}, nil
}

func buildGenericCall(d []any) (any, error) {
	return &ast.GenericCall{Name: identOf(tok(d, 0)), Arg: d[2].(ast.Type), Meta: cover(d...)}, nil
}

// buildEStruct: {left: a, right: b} in either order is a conjunction proof,
// anything else an existential pair.
func buildEStruct(d []any) (any, error) {
	ln, lv := tok(d, 1), d[3].(ast.Expr)
	rn, rv := tok(d, 5), d[7].(ast.Expr)
	switch {
	case ln.Text == "left" && rn.Text == "right":
		return &ast.Pair{Left: lv, Right: rv, Meta: cover(d...)}, nil
	case ln.Text == "right" && rn.Text == "left":
		return &ast.Pair{Left: rv, Right: lv, Meta: cover(d...)}, nil
	}
	return &ast.Struct{
		Fields: [2]ast.Field{{Name: identOf(ln), Value: lv}, {Name: identOf(rn), Value: rv}},
		Meta:   cover(d...),
	}, nil
}

// buildMakeOr: {left: x} is makeLeft(x), {right: x} is makeRight(x).
func buildMakeOr(d []any) (any, error) {
	prop := tok(d, 1)
	var fn string
	switch prop.Text {
	case "left":
		fn = "makeLeft"
	case "right":
		fn = "makeRight"
	default:
		return nil, &SyntaxError{Code: diag.SynInvalidMakeOr, Span: prop.Span, Msg: "Invalid property for makeOr"}
	}
	return &ast.Call{
		Fn:   &ast.Ident{Name: fn, Meta: ast.MetaOf(prop.Span)},
		Arg:  d[3].(ast.Expr),
		Meta: cover(d...),
	}, nil
}
