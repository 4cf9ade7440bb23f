package parser

import (
	"fmt"

	"github.com/vexlang/vexc/internal/ast"
	"github.com/vexlang/vexc/internal/span"
	"github.com/vexlang/vexc/internal/types"
)

// Parser walks the token stream produced by lexer and builds an
// ast.Program, recording a span.Span into the caller-supplied span.Map
// for every item-level node, every block, and every identifier it
// mints. Other statement and expression nodes are built with a zero
// Span; per-expression diagnostic precision isn't needed for what this
// parser is for: the embedded prelude and small programs.
type Parser struct {
	file   string
	spans  *span.Map
	toks   []token
	pos    int
	seq    int
	errors []error
	// noStructLit suppresses `Name { ... }` struct-literal parsing
	// while set, so `if cond { ... }`/`while cond { ... }`/`for x in
	// it { ... }` don't swallow their own body block as a literal.
	noStructLit bool
}

// New tokenizes src fully up front (the grammar is small enough that
// lookahead-by-slicing is simpler than a streaming lexer/parser pair).
func New(file, src string, spans *span.Map) *Parser {
	lx := newLexer(src)
	var toks []token
	for {
		t := lx.next()
		toks = append(toks, t)
		if t.kind == tokEOF {
			break
		}
	}
	return &Parser{file: file, spans: spans, toks: toks}
}

func (p *Parser) cur() token { return p.toks[p.pos] }

func (p *Parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(kind tokenKind, text string) bool {
	t := p.cur()
	return t.kind == kind && (text == "" || t.text == text)
}

func (p *Parser) atPunct(text string) bool { return p.at(tokPunct, text) }
func (p *Parser) atIdent(text string) bool { return p.at(tokIdent, text) }

func (p *Parser) expectPunct(text string) error {
	if !p.atPunct(text) {
		return p.errorf("expected %q, got %q", text, p.cur().text)
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	if p.cur().kind != tokIdent {
		return "", p.errorf("expected identifier, got %q", p.cur().text)
	}
	t := p.advance()
	return t.text, nil
}

func (p *Parser) errorf(format string, args ...any) error {
	return fmt.Errorf("parser: %s:%d: %s", p.file, p.cur().line, fmt.Sprintf(format, args...))
}

func (p *Parser) newID(line int) ast.ID {
	p.seq++
	id := ast.ID(fmt.Sprintf("%s#%d", p.file, p.seq))
	if p.spans != nil {
		p.spans.Set(id, span.Span{File: p.file, Line: line, Column: 1, Length: 1})
	}
	return id
}

// Parse consumes the full token stream and returns the items parsed,
// plus every error encountered along the way (parsing continues past
// an error at item granularity so one bad declaration doesn't hide
// the rest).
func (p *Parser) Parse() (*ast.Program, []error) {
	prog := &ast.Program{File: p.file}
	for p.cur().kind != tokEOF {
		item, err := p.parseItem()
		if err != nil {
			p.errors = append(p.errors, err)
			p.skipToItemBoundary()
			continue
		}
		if item != nil {
			prog.Items = append(prog.Items, item)
		}
	}
	return prog, p.errors
}

func (p *Parser) skipToItemBoundary() {
	for p.cur().kind != tokEOF {
		if p.atIdent("trait") || p.atIdent("struct") || p.atIdent("impl") || p.atIdent("fn") || p.atIdent("enum") || p.atIdent("policy") {
			return
		}
		p.advance()
	}
}

func (p *Parser) parseItem() (ast.Item, error) {
	switch {
	case p.atIdent("trait"):
		return p.parseTrait()
	case p.atIdent("struct"):
		return p.parseStruct()
	case p.atIdent("enum"):
		return p.parseEnum()
	case p.atIdent("fn"):
		fn, _, err := p.parseFunctionSignatureOrDef(nil)
		return fn, err
	case p.atIdent("impl"):
		return p.parseImpl()
	case p.atIdent("policy"):
		return p.parsePolicy()
	default:
		return nil, p.errorf("unexpected token %q at top level", p.cur().text)
	}
}

func (p *Parser) parsePolicy() (ast.Item, error) {
	line := p.cur().line
	p.advance() // policy
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return ast.NewPolicy(p.newID(line), name), nil
}

func (p *Parser) parseTrait() (ast.Item, error) {
	line := p.cur().line
	p.advance() // trait
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	trait := ast.NewTrait(p.newID(line), name)
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.atPunct("}") && p.cur().kind != tokEOF {
		if !p.atIdent("fn") {
			return nil, p.errorf("expected method signature inside trait %q", name)
		}
		fn, hasBody, err := p.parseFunctionSignatureOrDef(nil)
		if err != nil {
			return nil, err
		}
		trait.Methods = append(trait.Methods, *fn)
		if hasBody {
			trait.DefaultBodies[fn.Name] = fn
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return trait, nil
}

func (p *Parser) parseStruct() (ast.Item, error) {
	line := p.cur().line
	p.advance() // struct
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	st := ast.NewStruct(p.newID(line), name)
	st.TypeParams, err = p.parseOptionalTypeParams()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.atPunct("}") && p.cur().kind != tokEOF {
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		ftype, err := p.parseType()
		if err != nil {
			return nil, err
		}
		st.Fields = append(st.Fields, ast.Field{Name: fname, Type: ftype})
		if p.atPunct(",") {
			p.advance()
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return st, nil
}

func (p *Parser) parseEnum() (ast.Item, error) {
	line := p.cur().line
	p.advance() // enum
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	en := ast.NewEnum(p.newID(line), name)
	en.TypeParams, err = p.parseOptionalTypeParams()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.atPunct("}") && p.cur().kind != tokEOF {
		vname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		variant := ast.Variant{Name: vname}
		if p.atPunct("(") {
			p.advance()
			for !p.atPunct(")") && p.cur().kind != tokEOF {
				ftype, err := p.parseType()
				if err != nil {
					return nil, err
				}
				variant.Fields = append(variant.Fields, ftype)
				if p.atPunct(",") {
					p.advance()
				}
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
		}
		en.Variants = append(en.Variants, variant)
		if p.atPunct(",") {
			p.advance()
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return en, nil
}

func (p *Parser) parseImpl() (ast.Item, error) {
	line := p.cur().line
	p.advance() // impl
	typeParams, err := p.parseOptionalTypeParams()
	if err != nil {
		return nil, err
	}
	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	traitName := ""
	var forType types.Type = types.Named{Name: first}
	if p.atIdent("for") {
		p.advance()
		traitName = first
		typeName, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		forType = types.Named{Name: typeName}
	}
	impl := ast.NewTraitImpl(p.newID(line), traitName, forType)
	impl.TypeParams = typeParams
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	for !p.atPunct("}") && p.cur().kind != tokEOF {
		fn, _, err := p.parseFunctionSignatureOrDef(nil)
		if err != nil {
			return nil, err
		}
		impl.Methods = append(impl.Methods, fn)
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return impl, nil
}

func (p *Parser) parseOptionalTypeParams() ([]ast.TypeParam, error) {
	if !p.atPunct("<") {
		return nil, nil
	}
	p.advance()
	var params []ast.TypeParam
	for !p.atPunct(">") && p.cur().kind != tokEOF {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		tp := ast.TypeParam{Name: name}
		if p.atPunct(":") {
			p.advance()
			bound, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			tp.Bounds = append(tp.Bounds, bound)
			for p.atPunct("+") {
				p.advance()
				bound, err := p.expectIdent()
				if err != nil {
					return nil, err
				}
				tp.Bounds = append(tp.Bounds, bound)
			}
		}
		params = append(params, tp)
		if p.atPunct(",") {
			p.advance()
		}
	}
	if err := p.expectPunct(">"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseFunctionSignatureOrDef parses `fn name[<T>](params) [-> Type]`
// followed by either a `;` (signature only, hasBody=false) or a block
// body (hasBody=true). A leading `self` parameter becomes the
// function's Receiver.
func (p *Parser) parseFunctionSignatureOrDef(recv *ast.Receiver) (*ast.Function, bool, error) {
	line := p.cur().line
	p.advance() // fn
	name, err := p.expectIdent()
	if err != nil {
		return nil, false, err
	}
	typeParams, err := p.parseOptionalTypeParams()
	if err != nil {
		return nil, false, err
	}
	if err := p.expectPunct("("); err != nil {
		return nil, false, err
	}
	var params []ast.Param
	for !p.atPunct(")") && p.cur().kind != tokEOF {
		pname, err := p.expectIdent()
		if err != nil {
			return nil, false, err
		}
		if pname == "self" {
			recv = &ast.Receiver{Name: "self", Type: types.Named{Name: "Self"}}
			if p.atPunct(",") {
				p.advance()
			}
			continue
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, false, err
		}
		ptype, err := p.parseType()
		if err != nil {
			return nil, false, err
		}
		params = append(params, ast.Param{Name: pname, Type: ptype})
		if p.atPunct(",") {
			p.advance()
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, false, err
	}
	var retType types.Type
	if p.atPunct("->") {
		p.advance()
		retType, err = p.parseType()
		if err != nil {
			return nil, false, err
		}
	}
	fn := ast.NewFunction(p.newID(line), name)
	fn.Receiver = recv
	fn.Params = params
	fn.TypeParams = typeParams
	fn.ReturnType = retType

	if p.atPunct(";") {
		p.advance()
		return fn, false, nil
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, false, err
	}
	fn.Body = body
	return fn, true, nil
}

func (p *Parser) parseType() (types.Type, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	var args []types.Type
	if p.atPunct("<") {
		p.advance()
		for !p.atPunct(">") && p.cur().kind != tokEOF {
			a, err := p.parseType()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.atPunct(",") {
				p.advance()
			}
		}
		if err := p.expectPunct(">"); err != nil {
			return nil, err
		}
	}
	return namedType(name, args), nil
}

func namedType(name string, args []types.Type) types.Type {
	if prim, ok := primitiveNames[name]; ok {
		return types.Prim(prim)
	}
	switch name {
	case "Vec":
		if len(args) == 1 {
			return types.Vec{Elem: args[0]}
		}
	case "Box":
		if len(args) == 1 {
			return types.Box{Elem: args[0]}
		}
	case "Option":
		if len(args) == 1 {
			return types.Option{Elem: args[0]}
		}
	case "Result":
		if len(args) == 2 {
			return types.Result{Ok: args[0], Err: args[1]}
		}
	}
	if len(args) > 0 {
		return types.Generic{Name: name, Args: args}
	}
	return types.Named{Name: name}
}

var primitiveNames = map[string]types.PrimitiveName{
	"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64, "i128": types.I128,
	"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64, "u128": types.U128,
	"f16": types.F16, "f32": types.F32, "f64": types.F64,
	"bool": types.Bool, "byte": types.Byte, "string": types.Str,
	"any": types.AnyTy, "unit": types.Unit, "never": types.Never,
}

// parseBlock parses `{ stmt* }`. A final expression statement with no
// trailing `;` becomes the block's TrailingExpr.
func (p *Parser) parseBlock() (*ast.Block, error) {
	line := p.cur().line
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}
	blk := &ast.Block{SpanID: p.newID(line)}
	for !p.atPunct("}") && p.cur().kind != tokEOF {
		stmt, trailing, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if trailing != nil {
			blk.TrailingExpr = trailing
			break
		}
		blk.Statements = append(blk.Statements, stmt)
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return blk, nil
}

// parseStatement parses one statement. If what it parses turns out to
// be a bare trailing expression (no semicolon, immediately followed by
// the block's closing brace) it is returned as trailing instead.
func (p *Parser) parseStatement() (ast.Statement, ast.Expression, error) {
	switch {
	case p.atIdent("let"):
		return p.parseLet()
	case p.atIdent("return"):
		return p.parseReturn()
	case p.atIdent("break"):
		p.advance()
		p.consumeSemi()
		return &ast.BreakStatement{}, nil, nil
	case p.atIdent("continue"):
		p.advance()
		p.consumeSemi()
		return &ast.ContinueStatement{}, nil, nil
	case p.atIdent("defer"):
		p.advance()
		inner, _, err := p.parseStatement()
		if err != nil {
			return nil, nil, err
		}
		return &ast.DeferStatement{Inner: inner}, nil, nil
	case p.atIdent("if"):
		stmt, err := p.parseIf()
		return stmt, nil, err
	case p.atIdent("while"):
		stmt, err := p.parseWhile()
		return stmt, nil, err
	case p.atIdent("for"):
		stmt, err := p.parseFor()
		return stmt, nil, err
	case p.atPunct("{"):
		body, err := p.parseBlock()
		if err != nil {
			return nil, nil, err
		}
		return &ast.BlockStatement{Body: body}, nil, nil
	default:
		expr, err := p.parseExpr()
		if err != nil {
			return nil, nil, err
		}
		if p.atPunct(";") {
			p.advance()
			return &ast.ExpressionStatement{Expr: expr}, nil, nil
		}
		if p.atPunct("=") {
			p.advance()
			value, err := p.parseExpr()
			if err != nil {
				return nil, nil, err
			}
			p.consumeSemi()
			return &ast.AssignStatement{Target: expr, Value: value}, nil, nil
		}
		if p.atPunct("}") {
			return nil, expr, nil
		}
		p.consumeSemi()
		return &ast.ExpressionStatement{Expr: expr}, nil, nil
	}
}

func (p *Parser) consumeSemi() {
	if p.atPunct(";") {
		p.advance()
	}
}

func (p *Parser) parseLet() (ast.Statement, ast.Expression, error) {
	p.advance() // let
	mutable := false
	if p.atIdent("mut") {
		mutable = true
		p.advance()
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, nil, err
	}
	var decl types.Type
	if p.atPunct(":") {
		p.advance()
		decl, err = p.parseType()
		if err != nil {
			return nil, nil, err
		}
	}
	var init ast.Expression
	if p.atPunct("=") {
		p.advance()
		init, err = p.parseExpr()
		if err != nil {
			return nil, nil, err
		}
	}
	p.consumeSemi()
	let := &ast.LetStatement{Name: name, Mutable: mutable, TypeAnnotation: decl, Init: init}
	return let, nil, nil
}

func (p *Parser) parseReturn() (ast.Statement, ast.Expression, error) {
	p.advance() // return
	if p.atPunct(";") {
		p.advance()
		return &ast.ReturnStatement{}, nil, nil
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, nil, err
	}
	p.consumeSemi()
	return &ast.ReturnStatement{Value: value}, nil, nil
}

func (p *Parser) parseCondition() (ast.Expression, error) {
	saved := p.noStructLit
	p.noStructLit = true
	cond, err := p.parseExpr()
	p.noStructLit = saved
	return cond, err
}

func (p *Parser) parseIf() (ast.Statement, error) {
	p.advance() // if
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Condition: cond, Then: then}
	if p.atIdent("else") {
		p.advance()
		if p.atIdent("if") {
			elseIf, err := p.parseIf()
			if err != nil {
				return nil, err
			}
			stmt.Else = elseIf
		} else {
			elseBlk, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			stmt.Else = &ast.BlockStatement{Body: elseBlk}
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	p.advance() // while
	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Condition: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	p.advance() // for
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if !p.atIdent("in") {
		return nil, p.errorf("expected %q, got %q", "in", p.cur().text)
	}
	p.advance()
	iter, err := p.parseCondition()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{Binding: ast.BindingPattern{Name: name}, Iterable: iter, Body: body}, nil
}

// Expression grammar, lowest to highest precedence: or, and, equality,
// relational, additive, multiplicative, unary, postfix, primary.

func (p *Parser) parseExpr() (ast.Expression, error) { return p.parseOr() }

func (p *Parser) parseOr() (ast.Expression, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.atPunct("||") {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.atPunct("&&") {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

var equalityOps = []string{"==", "!="}
var relationalOps = []string{"<=", ">=", "<", ">"}
var additiveOps = []string{"+", "-"}
var multiplicativeOps = []string{"*", "/", "%"}

func (p *Parser) matchAny(ops []string) (string, bool) {
	for _, op := range ops {
		if p.atPunct(op) {
			p.advance()
			return op, true
		}
	}
	return "", false
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAny(equalityOps)
		if !ok {
			return left, nil
		}
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseRelational() (ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAny(relationalOps)
		if !ok {
			return left, nil
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAny(additiveOps)
		if !ok {
			return left, nil
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() (ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.matchAny(multiplicativeOps)
		if !ok {
			return left, nil
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	if p.atPunct("!") || p.atPunct("-") {
		op := p.advance().text
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand}, nil
	}
	if p.atPunct("&") {
		p.advance()
		op := "&"
		if p.atIdent("mut") {
			p.advance()
			op = "&mut"
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.atPunct("."):
			p.advance()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if p.atPunct("(") {
				args, err := p.parseArgList()
				if err != nil {
					return nil, err
				}
				expr = &ast.MethodCallExpr{Receiver: expr, Method: name, Args: args}
			} else {
				expr = &ast.FieldAccessExpr{Receiver: expr, Field: name}
			}
		case p.atPunct("("):
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Callee: expr, Args: args}
		case p.atPunct("["):
			p.advance()
			saved := p.noStructLit
			p.noStructLit = false
			idx, err := p.parseExpr()
			p.noStructLit = saved
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct("]"); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpr{Base: expr, Index: idx}
		case p.atPunct("?"):
			p.advance()
			expr = &ast.TryExpr{Inner: expr}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgList() ([]ast.Expression, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}
	saved := p.noStructLit
	p.noStructLit = false
	defer func() { p.noStructLit = saved }()
	var args []ast.Expression
	for !p.atPunct(")") && p.cur().kind != tokEOF {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.atPunct(",") {
			p.advance()
		}
	}
	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	t := p.cur()
	switch t.kind {
	case tokInt:
		p.advance()
		v, err := parseIntLiteral(t.text)
		if err != nil {
			return nil, err
		}
		return &ast.IntLiteral{Value: v}, nil
	case tokFloat:
		p.advance()
		v, err := parseFloatLiteral(t.text)
		if err != nil {
			return nil, err
		}
		return &ast.FloatLiteral{Value: v}, nil
	case tokString:
		p.advance()
		return &ast.StringLiteral{Value: t.text}, nil
	case tokIdent:
		switch t.text {
		case "true":
			p.advance()
			return &ast.BoolLiteral{Value: true}, nil
		case "false":
			p.advance()
			return &ast.BoolLiteral{Value: false}, nil
		}
		name, _ := p.expectIdent()
		if p.atPunct("::") {
			p.advance()
			ctor, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			if p.atPunct("(") {
				args, err := p.parseArgList()
				if err != nil {
					return nil, err
				}
				return &ast.TypeConstructorExpr{TypeName: name, Ctor: ctor, Args: args}, nil
			}
			return &ast.TypeConstructorExpr{TypeName: name, Ctor: ctor}, nil
		}
		if p.atPunct("{") && !p.noStructLit {
			return p.parseStructLiteral(name)
		}
		return ast.NewIdentifier(p.newID(t.line), name), nil
	case tokPunct:
		if t.text == "(" {
			p.advance()
			saved := p.noStructLit
			p.noStructLit = false
			inner, err := p.parseExpr()
			p.noStructLit = saved
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return inner, nil
		}
		if t.text == "{" {
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			return &ast.BlockExpr{Body: body}, nil
		}
	}
	return nil, p.errorf("unexpected token %q in expression", t.text)
}

func (p *Parser) parseStructLiteral(typeName string) (ast.Expression, error) {
	p.advance() // {
	saved := p.noStructLit
	p.noStructLit = false
	defer func() { p.noStructLit = saved }()
	lit := &ast.StructLiteralExpr{TypeName: typeName}
	for !p.atPunct("}") && p.cur().kind != tokEOF {
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(":"); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Fields = append(lit.Fields, ast.StructLiteralField{Name: fname, Value: value})
		if p.atPunct(",") {
			p.advance()
		}
	}
	if err := p.expectPunct("}"); err != nil {
		return nil, err
	}
	return lit, nil
}
