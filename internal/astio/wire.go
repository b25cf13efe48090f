package astio

import (
	"fmt"

	"pyrite/internal/ast"
	"pyrite/internal/source"
)

// Interface-typed AST nodes travel as tagged unions: exactly one pointer per
// union is set. msgpack cannot marshal Go interfaces, so the conversion to
// and from wire form is explicit.
//
// Wire spans carry no file id. A bundle holds exactly one source file, so
// the decoder stamps the FileID the checking session assigned; the parser's
// own file numbering never leaks across bundles.

type wireSpan struct {
	Start uint32 `msgpack:"s"`
	End   uint32 `msgpack:"e"`
}

func toWireSpan(s source.Span) wireSpan {
	return wireSpan{Start: s.Start, End: s.End}
}

// decoder stamps every decoded span with the session's file id.
type decoder struct {
	file source.FileID
}

func (d decoder) fromWireSpan(s wireSpan) source.Span {
	if s.Start == 0 && s.End == 0 {
		// absent span (field without alias, bare return)
		return source.Span{}
	}
	return source.Span{File: d.file, Start: s.Start, End: s.End}
}

type wireFile struct {
	Module  string        `msgpack:"module"`
	Span    wireSpan      `msgpack:"span"`
	Imports []*wireImport `msgpack:"imports,omitempty"`
	Consts  []*wireConst  `msgpack:"consts,omitempty"`
	Funcs   []*wireFunc   `msgpack:"funcs,omitempty"`
	Records []*wireRecord `msgpack:"records,omitempty"`
	Enums   []*wireEnum   `msgpack:"enums,omitempty"`
}

type wireImport struct {
	Span     wireSpan `msgpack:"span"`
	Path     string   `msgpack:"path"`
	PathSpan wireSpan `msgpack:"pathspan"`
	Alias    string   `msgpack:"alias,omitempty"`
}

type wireTypeRef struct {
	Span wireSpan       `msgpack:"span"`
	Name string         `msgpack:"name"`
	Args []*wireTypeRef `msgpack:"args,omitempty"`
}

type wireConst struct {
	Span     wireSpan     `msgpack:"span"`
	Name     string       `msgpack:"name"`
	NameSpan wireSpan     `msgpack:"namespan"`
	Type     *wireTypeRef `msgpack:"type,omitempty"`
	Value    *wireExpr    `msgpack:"value"`
}

type wireParam struct {
	Span wireSpan     `msgpack:"span"`
	Name string       `msgpack:"name"`
	Type *wireTypeRef `msgpack:"type,omitempty"`
}

type wireFunc struct {
	Span     wireSpan     `msgpack:"span"`
	Name     string       `msgpack:"name"`
	NameSpan wireSpan     `msgpack:"namespan"`
	Params   []*wireParam `msgpack:"params,omitempty"`
	Return   *wireTypeRef `msgpack:"return,omitempty"`
	Body     []*wireStmt  `msgpack:"body,omitempty"`
}

type wireField struct {
	Span      wireSpan     `msgpack:"span"`
	Name      string       `msgpack:"name"`
	NameSpan  wireSpan     `msgpack:"namespan"`
	Type      *wireTypeRef `msgpack:"type,omitempty"`
	AliasAttr string       `msgpack:"aliasattr,omitempty"`
	AliasSpan wireSpan     `msgpack:"aliasspan"`
	AliasDeco string       `msgpack:"aliasdeco,omitempty"`
	DecoSpan  wireSpan     `msgpack:"decospan"`
	Doc       string       `msgpack:"doc,omitempty"`
	Default   *wireExpr    `msgpack:"default,omitempty"`
}

type wireDerive struct {
	Span wireSpan `msgpack:"span"`
	Name string   `msgpack:"name"`
}

type wireRecord struct {
	Span     wireSpan      `msgpack:"span"`
	Name     string        `msgpack:"name"`
	NameSpan wireSpan      `msgpack:"namespan"`
	Fields   []*wireField  `msgpack:"fields,omitempty"`
	Methods  []*wireFunc   `msgpack:"methods,omitempty"`
	Derives  []*wireDerive `msgpack:"derives,omitempty"`
}

type wireVariant struct {
	Span wireSpan `msgpack:"span"`
	Name string   `msgpack:"name"`
}

type wireEnum struct {
	Span     wireSpan       `msgpack:"span"`
	Name     string         `msgpack:"name"`
	NameSpan wireSpan       `msgpack:"namespan"`
	Variants []*wireVariant `msgpack:"variants,omitempty"`
	Derives  []*wireDerive  `msgpack:"derives,omitempty"`
}

type wireExpr struct {
	Int    *wireIntLit    `msgpack:"int,omitempty"`
	Float  *wireFloatLit  `msgpack:"float,omitempty"`
	Str    *wireStringLit `msgpack:"str,omitempty"`
	Bool   *wireBoolLit   `msgpack:"bool,omitempty"`
	Unit   *wireUnitLit   `msgpack:"unit,omitempty"`
	Name   *wireName      `msgpack:"name,omitempty"`
	Unary  *wireUnary     `msgpack:"unary,omitempty"`
	Binary *wireBinary    `msgpack:"binary,omitempty"`
	Call   *wireCall      `msgpack:"call,omitempty"`
	Member *wireMember    `msgpack:"member,omitempty"`
	Index  *wireIndex     `msgpack:"index,omitempty"`
	Tuple  *wireSeq       `msgpack:"tuple,omitempty"`
	List   *wireSeq       `msgpack:"list,omitempty"`
	Set    *wireSeq       `msgpack:"set,omitempty"`
	Map    *wireMap       `msgpack:"map,omitempty"`
	Comp   *wireComp      `msgpack:"comp,omitempty"`
}

type wireIntLit struct {
	Span   wireSpan `msgpack:"span"`
	Text   string   `msgpack:"text"`
	Suffix string   `msgpack:"suffix,omitempty"`
}

type wireFloatLit struct {
	Span  wireSpan `msgpack:"span"`
	Value float64  `msgpack:"value"`
	Text  string   `msgpack:"text,omitempty"`
}

type wireStringLit struct {
	Span  wireSpan `msgpack:"span"`
	Value string   `msgpack:"value"`
}

type wireBoolLit struct {
	Span  wireSpan `msgpack:"span"`
	Value bool     `msgpack:"value"`
}

type wireUnitLit struct {
	Span wireSpan `msgpack:"span"`
}

type wireName struct {
	Span  wireSpan `msgpack:"span"`
	Ident string   `msgpack:"ident"`
}

type wireUnary struct {
	Span    wireSpan  `msgpack:"span"`
	Op      uint8     `msgpack:"op"`
	Operand *wireExpr `msgpack:"operand"`
}

type wireBinary struct {
	Span  wireSpan  `msgpack:"span"`
	Op    uint8     `msgpack:"op"`
	Left  *wireExpr `msgpack:"left"`
	Right *wireExpr `msgpack:"right"`
}

type wireKwarg struct {
	Span     wireSpan  `msgpack:"span"`
	Name     string    `msgpack:"name"`
	NameSpan wireSpan  `msgpack:"namespan"`
	Value    *wireExpr `msgpack:"value"`
}

type wireCall struct {
	Span   wireSpan     `msgpack:"span"`
	Callee *wireExpr    `msgpack:"callee"`
	Args   []*wireExpr  `msgpack:"args,omitempty"`
	Kwargs []*wireKwarg `msgpack:"kwargs,omitempty"`
}

type wireMember struct {
	Span     wireSpan  `msgpack:"span"`
	Object   *wireExpr `msgpack:"object"`
	Name     string    `msgpack:"name"`
	NameSpan wireSpan  `msgpack:"namespan"`
}

type wireIndex struct {
	Span   wireSpan  `msgpack:"span"`
	Object *wireExpr `msgpack:"object"`
	Key    *wireExpr `msgpack:"key"`
}

type wireSeq struct {
	Span  wireSpan    `msgpack:"span"`
	Elems []*wireExpr `msgpack:"elems,omitempty"`
}

type wireMapEntry struct {
	Key   *wireExpr `msgpack:"key"`
	Value *wireExpr `msgpack:"value"`
}

type wireMap struct {
	Span    wireSpan        `msgpack:"span"`
	Entries []*wireMapEntry `msgpack:"entries,omitempty"`
}

type wireComp struct {
	Span    wireSpan  `msgpack:"span"`
	Elem    *wireExpr `msgpack:"elem"`
	Var     string    `msgpack:"var"`
	VarSpan wireSpan  `msgpack:"varspan"`
	Iter    *wireExpr `msgpack:"iter"`
	Cond    *wireExpr `msgpack:"cond,omitempty"`
}

type wireStmt struct {
	Assign   *wireAssign   `msgpack:"assign,omitempty"`
	OpAssign *wireOpAssign `msgpack:"opassign,omitempty"`
	Unpack   *wireUnpack   `msgpack:"unpack,omitempty"`
	Expr     *wireExprStmt `msgpack:"expr,omitempty"`
	If       *wireIf       `msgpack:"if,omitempty"`
	While    *wireWhile    `msgpack:"while,omitempty"`
	For      *wireFor      `msgpack:"for,omitempty"`
	Return   *wireReturn   `msgpack:"return,omitempty"`
	Block    *wireBlock    `msgpack:"block,omitempty"`
}

type wireAssign struct {
	Span     wireSpan     `msgpack:"span"`
	Binding  uint8        `msgpack:"binding"`
	Name     string       `msgpack:"name"`
	NameSpan wireSpan     `msgpack:"namespan"`
	Type     *wireTypeRef `msgpack:"type,omitempty"`
	Value    *wireExpr    `msgpack:"value"`
}

type wireOpAssign struct {
	Span     wireSpan  `msgpack:"span"`
	Name     string    `msgpack:"name"`
	NameSpan wireSpan  `msgpack:"namespan"`
	Op       uint8     `msgpack:"op"`
	Value    *wireExpr `msgpack:"value"`
}

type wireUnpack struct {
	Span    wireSpan     `msgpack:"span"`
	Binding uint8        `msgpack:"binding"`
	Pattern *wirePattern `msgpack:"pattern"`
	Value   *wireExpr    `msgpack:"value"`
}

type wireExprStmt struct {
	Span wireSpan  `msgpack:"span"`
	X    *wireExpr `msgpack:"x"`
}

type wireIf struct {
	Span wireSpan    `msgpack:"span"`
	Cond *wireExpr   `msgpack:"cond"`
	Then []*wireStmt `msgpack:"then,omitempty"`
	Else []*wireStmt `msgpack:"else,omitempty"`
}

type wireWhile struct {
	Span wireSpan    `msgpack:"span"`
	Cond *wireExpr   `msgpack:"cond"`
	Body []*wireStmt `msgpack:"body,omitempty"`
}

type wireFor struct {
	Span    wireSpan    `msgpack:"span"`
	Var     string      `msgpack:"var"`
	VarSpan wireSpan    `msgpack:"varspan"`
	Iter    *wireExpr   `msgpack:"iter"`
	Body    []*wireStmt `msgpack:"body,omitempty"`
}

type wireReturn struct {
	Span  wireSpan  `msgpack:"span"`
	Value *wireExpr `msgpack:"value,omitempty"`
}

type wireBlock struct {
	Span wireSpan    `msgpack:"span"`
	Body []*wireStmt `msgpack:"body,omitempty"`
}

type wirePatternName struct {
	Span wireSpan `msgpack:"span"`
	Name string   `msgpack:"name"`
}

type wireTuplePattern struct {
	Span  wireSpan          `msgpack:"span"`
	Names []wirePatternName `msgpack:"names,omitempty"`
}

type wirePatternField struct {
	Span    wireSpan `msgpack:"span"`
	Key     string   `msgpack:"key"`
	KeySpan wireSpan `msgpack:"keyspan"`
	Binder  string   `msgpack:"binder,omitempty"`
}

type wireRecordPattern struct {
	Span     wireSpan            `msgpack:"span"`
	TypeName string              `msgpack:"typename,omitempty"`
	TypeSpan wireSpan            `msgpack:"typespan"`
	Fields   []*wirePatternField `msgpack:"fields,omitempty"`
}

type wirePattern struct {
	Tuple  *wireTuplePattern  `msgpack:"tuple,omitempty"`
	Record *wireRecordPattern `msgpack:"record,omitempty"`
}

func toWireFile(f *ast.File) *wireFile {
	if f == nil {
		return nil
	}
	out := &wireFile{Module: f.Module, Span: toWireSpan(f.Span)}
	for _, imp := range f.Imports {
		out.Imports = append(out.Imports, &wireImport{
			Span:     toWireSpan(imp.Span),
			Path:     imp.Path,
			PathSpan: toWireSpan(imp.PathSpan),
			Alias:    imp.Alias,
		})
	}
	for _, c := range f.Consts {
		out.Consts = append(out.Consts, &wireConst{
			Span:     toWireSpan(c.Span),
			Name:     c.Name,
			NameSpan: toWireSpan(c.NameSpan),
			Type:     toWireTypeRef(c.Type),
			Value:    toWireExpr(c.Value),
		})
	}
	for _, fn := range f.Funcs {
		out.Funcs = append(out.Funcs, toWireFunc(fn))
	}
	for _, rec := range f.Records {
		out.Records = append(out.Records, toWireRecord(rec))
	}
	for _, en := range f.Enums {
		out.Enums = append(out.Enums, toWireEnum(en))
	}
	return out
}

func (d decoder) fromWireFile(f *wireFile) (*ast.File, error) {
	if f == nil {
		return nil, fmt.Errorf("bundle has no file")
	}
	out := &ast.File{Module: f.Module, Span: d.fromWireSpan(f.Span)}
	for _, imp := range f.Imports {
		out.Imports = append(out.Imports, &ast.Import{
			Span:     d.fromWireSpan(imp.Span),
			Path:     imp.Path,
			PathSpan: d.fromWireSpan(imp.PathSpan),
			Alias:    imp.Alias,
		})
	}
	for _, c := range f.Consts {
		value, err := d.fromWireExpr(c.Value)
		if err != nil {
			return nil, err
		}
		out.Consts = append(out.Consts, &ast.Const{
			Span:     d.fromWireSpan(c.Span),
			Name:     c.Name,
			NameSpan: d.fromWireSpan(c.NameSpan),
			Type:     d.fromWireTypeRef(c.Type),
			Value:    value,
		})
	}
	for _, fn := range f.Funcs {
		decoded, err := d.fromWireFunc(fn)
		if err != nil {
			return nil, err
		}
		out.Funcs = append(out.Funcs, decoded)
	}
	for _, rec := range f.Records {
		decoded, err := d.fromWireRecord(rec)
		if err != nil {
			return nil, err
		}
		out.Records = append(out.Records, decoded)
	}
	for _, en := range f.Enums {
		out.Enums = append(out.Enums, d.fromWireEnum(en))
	}
	return out, nil
}

func toWireTypeRef(t *ast.TypeRef) *wireTypeRef {
	if t == nil {
		return nil
	}
	out := &wireTypeRef{Span: toWireSpan(t.Span), Name: t.Name}
	for _, arg := range t.Args {
		out.Args = append(out.Args, toWireTypeRef(arg))
	}
	return out
}

func (d decoder) fromWireTypeRef(t *wireTypeRef) *ast.TypeRef {
	if t == nil {
		return nil
	}
	out := &ast.TypeRef{Span: d.fromWireSpan(t.Span), Name: t.Name}
	for _, arg := range t.Args {
		out.Args = append(out.Args, d.fromWireTypeRef(arg))
	}
	return out
}

func toWireFunc(fn *ast.Func) *wireFunc {
	out := &wireFunc{
		Span:     toWireSpan(fn.Span),
		Name:     fn.Name,
		NameSpan: toWireSpan(fn.NameSpan),
		Return:   toWireTypeRef(fn.Return),
	}
	for _, p := range fn.Params {
		out.Params = append(out.Params, &wireParam{
			Span: toWireSpan(p.Span),
			Name: p.Name,
			Type: toWireTypeRef(p.Type),
		})
	}
	out.Body = toWireStmts(fn.Body)
	return out
}

func (d decoder) fromWireFunc(fn *wireFunc) (*ast.Func, error) {
	out := &ast.Func{
		Span:     d.fromWireSpan(fn.Span),
		Name:     fn.Name,
		NameSpan: d.fromWireSpan(fn.NameSpan),
		Return:   d.fromWireTypeRef(fn.Return),
	}
	for _, p := range fn.Params {
		out.Params = append(out.Params, &ast.Param{
			Span: d.fromWireSpan(p.Span),
			Name: p.Name,
			Type: d.fromWireTypeRef(p.Type),
		})
	}
	body, err := d.fromWireStmts(fn.Body)
	if err != nil {
		return nil, err
	}
	out.Body = body
	return out, nil
}

func toWireRecord(rec *ast.Record) *wireRecord {
	out := &wireRecord{
		Span:     toWireSpan(rec.Span),
		Name:     rec.Name,
		NameSpan: toWireSpan(rec.NameSpan),
	}
	for _, f := range rec.Fields {
		out.Fields = append(out.Fields, &wireField{
			Span:      toWireSpan(f.Span),
			Name:      f.Name,
			NameSpan:  toWireSpan(f.NameSpan),
			Type:      toWireTypeRef(f.Type),
			AliasAttr: f.AliasAttr,
			AliasSpan: toWireSpan(f.AliasSpan),
			AliasDeco: f.AliasDeco,
			DecoSpan:  toWireSpan(f.DecoSpan),
			Doc:       f.Doc,
			Default:   toWireExpr(f.Default),
		})
	}
	for _, m := range rec.Methods {
		out.Methods = append(out.Methods, toWireFunc(m))
	}
	out.Derives = toWireDerives(rec.Derives)
	return out
}

func (d decoder) fromWireRecord(rec *wireRecord) (*ast.Record, error) {
	out := &ast.Record{
		Span:     d.fromWireSpan(rec.Span),
		Name:     rec.Name,
		NameSpan: d.fromWireSpan(rec.NameSpan),
	}
	for _, f := range rec.Fields {
		def, err := d.fromWireExpr(f.Default)
		if err != nil {
			return nil, err
		}
		out.Fields = append(out.Fields, &ast.Field{
			Span:      d.fromWireSpan(f.Span),
			Name:      f.Name,
			NameSpan:  d.fromWireSpan(f.NameSpan),
			Type:      d.fromWireTypeRef(f.Type),
			AliasAttr: f.AliasAttr,
			AliasSpan: d.fromWireSpan(f.AliasSpan),
			AliasDeco: f.AliasDeco,
			DecoSpan:  d.fromWireSpan(f.DecoSpan),
			Doc:       f.Doc,
			Default:   def,
		})
	}
	for _, m := range rec.Methods {
		decoded, err := d.fromWireFunc(m)
		if err != nil {
			return nil, err
		}
		out.Methods = append(out.Methods, decoded)
	}
	out.Derives = d.fromWireDerives(rec.Derives)
	return out, nil
}

func toWireEnum(en *ast.Enum) *wireEnum {
	out := &wireEnum{
		Span:     toWireSpan(en.Span),
		Name:     en.Name,
		NameSpan: toWireSpan(en.NameSpan),
	}
	for _, v := range en.Variants {
		out.Variants = append(out.Variants, &wireVariant{Span: toWireSpan(v.Span), Name: v.Name})
	}
	out.Derives = toWireDerives(en.Derives)
	return out
}

func (d decoder) fromWireEnum(en *wireEnum) *ast.Enum {
	out := &ast.Enum{
		Span:     d.fromWireSpan(en.Span),
		Name:     en.Name,
		NameSpan: d.fromWireSpan(en.NameSpan),
	}
	for _, v := range en.Variants {
		out.Variants = append(out.Variants, &ast.Variant{Span: d.fromWireSpan(v.Span), Name: v.Name})
	}
	out.Derives = d.fromWireDerives(en.Derives)
	return out
}

func toWireDerives(derives []*ast.Derive) []*wireDerive {
	var out []*wireDerive
	for _, d := range derives {
		out = append(out, &wireDerive{Span: toWireSpan(d.Span), Name: d.Name})
	}
	return out
}

func (d decoder) fromWireDerives(derives []*wireDerive) []*ast.Derive {
	var out []*ast.Derive
	for _, wd := range derives {
		out = append(out, &ast.Derive{Span: d.fromWireSpan(wd.Span), Name: wd.Name})
	}
	return out
}

func toWireExpr(e ast.Expr) *wireExpr {
	if e == nil {
		return nil
	}
	switch e := e.(type) {
	case *ast.IntLit:
		return &wireExpr{Int: &wireIntLit{Span: toWireSpan(e.Span), Text: e.Text, Suffix: e.Suffix}}
	case *ast.FloatLit:
		return &wireExpr{Float: &wireFloatLit{Span: toWireSpan(e.Span), Value: e.Value, Text: e.Text}}
	case *ast.StringLit:
		return &wireExpr{Str: &wireStringLit{Span: toWireSpan(e.Span), Value: e.Value}}
	case *ast.BoolLit:
		return &wireExpr{Bool: &wireBoolLit{Span: toWireSpan(e.Span), Value: e.Value}}
	case *ast.UnitLit:
		return &wireExpr{Unit: &wireUnitLit{Span: toWireSpan(e.Span)}}
	case *ast.Name:
		return &wireExpr{Name: &wireName{Span: toWireSpan(e.Span), Ident: e.Ident}}
	case *ast.Unary:
		return &wireExpr{Unary: &wireUnary{
			Span:    toWireSpan(e.Span),
			Op:      uint8(e.Op),
			Operand: toWireExpr(e.Operand),
		}}
	case *ast.Binary:
		return &wireExpr{Binary: &wireBinary{
			Span:  toWireSpan(e.Span),
			Op:    uint8(e.Op),
			Left:  toWireExpr(e.Left),
			Right: toWireExpr(e.Right),
		}}
	case *ast.Call:
		call := &wireCall{Span: toWireSpan(e.Span), Callee: toWireExpr(e.Callee)}
		for _, arg := range e.Args {
			call.Args = append(call.Args, toWireExpr(arg))
		}
		for _, kw := range e.Kwargs {
			call.Kwargs = append(call.Kwargs, &wireKwarg{
				Span:     toWireSpan(kw.Span),
				Name:     kw.Name,
				NameSpan: toWireSpan(kw.NameSpan),
				Value:    toWireExpr(kw.Value),
			})
		}
		return &wireExpr{Call: call}
	case *ast.Member:
		return &wireExpr{Member: &wireMember{
			Span:     toWireSpan(e.Span),
			Object:   toWireExpr(e.Object),
			Name:     e.Name,
			NameSpan: toWireSpan(e.NameSpan),
		}}
	case *ast.Index:
		return &wireExpr{Index: &wireIndex{
			Span:   toWireSpan(e.Span),
			Object: toWireExpr(e.Object),
			Key:    toWireExpr(e.Key),
		}}
	case *ast.TupleLit:
		return &wireExpr{Tuple: toWireSeq(e.Span, e.Elems)}
	case *ast.ListLit:
		return &wireExpr{List: toWireSeq(e.Span, e.Elems)}
	case *ast.SetLit:
		return &wireExpr{Set: toWireSeq(e.Span, e.Elems)}
	case *ast.MapLit:
		m := &wireMap{Span: toWireSpan(e.Span)}
		for _, entry := range e.Entries {
			m.Entries = append(m.Entries, &wireMapEntry{
				Key:   toWireExpr(entry.Key),
				Value: toWireExpr(entry.Value),
			})
		}
		return &wireExpr{Map: m}
	case *ast.ListComp:
		return &wireExpr{Comp: &wireComp{
			Span:    toWireSpan(e.Span),
			Elem:    toWireExpr(e.Elem),
			Var:     e.Var,
			VarSpan: toWireSpan(e.VarSpan),
			Iter:    toWireExpr(e.Iter),
			Cond:    toWireExpr(e.Cond),
		}}
	}
	panic(fmt.Sprintf("unhandled expression %T", e))
}

func toWireSeq(span source.Span, elems []ast.Expr) *wireSeq {
	out := &wireSeq{Span: toWireSpan(span)}
	for _, el := range elems {
		out.Elems = append(out.Elems, toWireExpr(el))
	}
	return out
}

func (d decoder) fromWireExpr(e *wireExpr) (ast.Expr, error) {
	if e == nil {
		return nil, nil
	}
	switch {
	case e.Int != nil:
		return &ast.IntLit{Span: d.fromWireSpan(e.Int.Span), Text: e.Int.Text, Suffix: e.Int.Suffix}, nil
	case e.Float != nil:
		return &ast.FloatLit{Span: d.fromWireSpan(e.Float.Span), Value: e.Float.Value, Text: e.Float.Text}, nil
	case e.Str != nil:
		return &ast.StringLit{Span: d.fromWireSpan(e.Str.Span), Value: e.Str.Value}, nil
	case e.Bool != nil:
		return &ast.BoolLit{Span: d.fromWireSpan(e.Bool.Span), Value: e.Bool.Value}, nil
	case e.Unit != nil:
		return &ast.UnitLit{Span: d.fromWireSpan(e.Unit.Span)}, nil
	case e.Name != nil:
		return &ast.Name{Span: d.fromWireSpan(e.Name.Span), Ident: e.Name.Ident}, nil
	case e.Unary != nil:
		operand, err := d.fromWireExpr(e.Unary.Operand)
		if err != nil {
			return nil, err
		}
		return &ast.Unary{
			Span:    d.fromWireSpan(e.Unary.Span),
			Op:      ast.UnOp(e.Unary.Op),
			Operand: operand,
		}, nil
	case e.Binary != nil:
		left, err := d.fromWireExpr(e.Binary.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.fromWireExpr(e.Binary.Right)
		if err != nil {
			return nil, err
		}
		return &ast.Binary{
			Span:  d.fromWireSpan(e.Binary.Span),
			Op:    ast.BinOp(e.Binary.Op),
			Left:  left,
			Right: right,
		}, nil
	case e.Call != nil:
		callee, err := d.fromWireExpr(e.Call.Callee)
		if err != nil {
			return nil, err
		}
		call := &ast.Call{Span: d.fromWireSpan(e.Call.Span), Callee: callee}
		for _, arg := range e.Call.Args {
			decoded, err := d.fromWireExpr(arg)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, decoded)
		}
		for _, kw := range e.Call.Kwargs {
			value, err := d.fromWireExpr(kw.Value)
			if err != nil {
				return nil, err
			}
			call.Kwargs = append(call.Kwargs, &ast.Kwarg{
				Span:     d.fromWireSpan(kw.Span),
				Name:     kw.Name,
				NameSpan: d.fromWireSpan(kw.NameSpan),
				Value:    value,
			})
		}
		return call, nil
	case e.Member != nil:
		object, err := d.fromWireExpr(e.Member.Object)
		if err != nil {
			return nil, err
		}
		return &ast.Member{
			Span:     d.fromWireSpan(e.Member.Span),
			Object:   object,
			Name:     e.Member.Name,
			NameSpan: d.fromWireSpan(e.Member.NameSpan),
		}, nil
	case e.Index != nil:
		object, err := d.fromWireExpr(e.Index.Object)
		if err != nil {
			return nil, err
		}
		key, err := d.fromWireExpr(e.Index.Key)
		if err != nil {
			return nil, err
		}
		return &ast.Index{
			Span:   d.fromWireSpan(e.Index.Span),
			Object: object,
			Key:    key,
		}, nil
	case e.Tuple != nil:
		span, elems, err := d.fromWireSeq(e.Tuple)
		if err != nil {
			return nil, err
		}
		return &ast.TupleLit{Span: span, Elems: elems}, nil
	case e.List != nil:
		span, elems, err := d.fromWireSeq(e.List)
		if err != nil {
			return nil, err
		}
		return &ast.ListLit{Span: span, Elems: elems}, nil
	case e.Set != nil:
		span, elems, err := d.fromWireSeq(e.Set)
		if err != nil {
			return nil, err
		}
		return &ast.SetLit{Span: span, Elems: elems}, nil
	case e.Map != nil:
		m := &ast.MapLit{Span: d.fromWireSpan(e.Map.Span)}
		for _, entry := range e.Map.Entries {
			key, err := d.fromWireExpr(entry.Key)
			if err != nil {
				return nil, err
			}
			value, err := d.fromWireExpr(entry.Value)
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, ast.MapEntry{Key: key, Value: value})
		}
		return m, nil
	case e.Comp != nil:
		elem, err := d.fromWireExpr(e.Comp.Elem)
		if err != nil {
			return nil, err
		}
		iter, err := d.fromWireExpr(e.Comp.Iter)
		if err != nil {
			return nil, err
		}
		cond, err := d.fromWireExpr(e.Comp.Cond)
		if err != nil {
			return nil, err
		}
		return &ast.ListComp{
			Span:    d.fromWireSpan(e.Comp.Span),
			Elem:    elem,
			Var:     e.Comp.Var,
			VarSpan: d.fromWireSpan(e.Comp.VarSpan),
			Iter:    iter,
			Cond:    cond,
		}, nil
	}
	return nil, fmt.Errorf("malformed expression node")
}

func (d decoder) fromWireSeq(seq *wireSeq) (source.Span, []ast.Expr, error) {
	var elems []ast.Expr
	for _, el := range seq.Elems {
		decoded, err := d.fromWireExpr(el)
		if err != nil {
			return source.Span{}, nil, err
		}
		elems = append(elems, decoded)
	}
	return d.fromWireSpan(seq.Span), elems, nil
}

func toWireStmts(stmts []ast.Stmt) []*wireStmt {
	var out []*wireStmt
	for _, s := range stmts {
		out = append(out, toWireStmt(s))
	}
	return out
}

func (d decoder) fromWireStmts(stmts []*wireStmt) ([]ast.Stmt, error) {
	var out []ast.Stmt
	for _, s := range stmts {
		decoded, err := d.fromWireStmt(s)
		if err != nil {
			return nil, err
		}
		out = append(out, decoded)
	}
	return out, nil
}

func toWireStmt(s ast.Stmt) *wireStmt {
	switch s := s.(type) {
	case *ast.Assign:
		return &wireStmt{Assign: &wireAssign{
			Span:     toWireSpan(s.Span),
			Binding:  uint8(s.Binding),
			Name:     s.Name,
			NameSpan: toWireSpan(s.NameSpan),
			Type:     toWireTypeRef(s.Type),
			Value:    toWireExpr(s.Value),
		}}
	case *ast.OpAssign:
		return &wireStmt{OpAssign: &wireOpAssign{
			Span:     toWireSpan(s.Span),
			Name:     s.Name,
			NameSpan: toWireSpan(s.NameSpan),
			Op:       uint8(s.Op),
			Value:    toWireExpr(s.Value),
		}}
	case *ast.Unpack:
		return &wireStmt{Unpack: &wireUnpack{
			Span:    toWireSpan(s.Span),
			Binding: uint8(s.Binding),
			Pattern: toWirePattern(s.Pattern),
			Value:   toWireExpr(s.Value),
		}}
	case *ast.ExprStmt:
		return &wireStmt{Expr: &wireExprStmt{Span: toWireSpan(s.Span), X: toWireExpr(s.X)}}
	case *ast.If:
		return &wireStmt{If: &wireIf{
			Span: toWireSpan(s.Span),
			Cond: toWireExpr(s.Cond),
			Then: toWireStmts(s.Then),
			Else: toWireStmts(s.Else),
		}}
	case *ast.While:
		return &wireStmt{While: &wireWhile{
			Span: toWireSpan(s.Span),
			Cond: toWireExpr(s.Cond),
			Body: toWireStmts(s.Body),
		}}
	case *ast.For:
		return &wireStmt{For: &wireFor{
			Span:    toWireSpan(s.Span),
			Var:     s.Var,
			VarSpan: toWireSpan(s.VarSpan),
			Iter:    toWireExpr(s.Iter),
			Body:    toWireStmts(s.Body),
		}}
	case *ast.Return:
		return &wireStmt{Return: &wireReturn{Span: toWireSpan(s.Span), Value: toWireExpr(s.Value)}}
	case *ast.Block:
		return &wireStmt{Block: &wireBlock{Span: toWireSpan(s.Span), Body: toWireStmts(s.Body)}}
	}
	panic(fmt.Sprintf("unhandled statement %T", s))
}

func (d decoder) fromWireStmt(s *wireStmt) (ast.Stmt, error) {
	if s == nil {
		return nil, fmt.Errorf("malformed statement node")
	}
	switch {
	case s.Assign != nil:
		value, err := d.fromWireExpr(s.Assign.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Assign{
			Span:     d.fromWireSpan(s.Assign.Span),
			Binding:  ast.BindingKind(s.Assign.Binding),
			Name:     s.Assign.Name,
			NameSpan: d.fromWireSpan(s.Assign.NameSpan),
			Type:     d.fromWireTypeRef(s.Assign.Type),
			Value:    value,
		}, nil
	case s.OpAssign != nil:
		value, err := d.fromWireExpr(s.OpAssign.Value)
		if err != nil {
			return nil, err
		}
		return &ast.OpAssign{
			Span:     d.fromWireSpan(s.OpAssign.Span),
			Name:     s.OpAssign.Name,
			NameSpan: d.fromWireSpan(s.OpAssign.NameSpan),
			Op:       ast.BinOp(s.OpAssign.Op),
			Value:    value,
		}, nil
	case s.Unpack != nil:
		pattern, err := d.fromWirePattern(s.Unpack.Pattern)
		if err != nil {
			return nil, err
		}
		value, err := d.fromWireExpr(s.Unpack.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Unpack{
			Span:    d.fromWireSpan(s.Unpack.Span),
			Binding: ast.BindingKind(s.Unpack.Binding),
			Pattern: pattern,
			Value:   value,
		}, nil
	case s.Expr != nil:
		x, err := d.fromWireExpr(s.Expr.X)
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Span: d.fromWireSpan(s.Expr.Span), X: x}, nil
	case s.If != nil:
		cond, err := d.fromWireExpr(s.If.Cond)
		if err != nil {
			return nil, err
		}
		then, err := d.fromWireStmts(s.If.Then)
		if err != nil {
			return nil, err
		}
		els, err := d.fromWireStmts(s.If.Else)
		if err != nil {
			return nil, err
		}
		return &ast.If{Span: d.fromWireSpan(s.If.Span), Cond: cond, Then: then, Else: els}, nil
	case s.While != nil:
		cond, err := d.fromWireExpr(s.While.Cond)
		if err != nil {
			return nil, err
		}
		body, err := d.fromWireStmts(s.While.Body)
		if err != nil {
			return nil, err
		}
		return &ast.While{Span: d.fromWireSpan(s.While.Span), Cond: cond, Body: body}, nil
	case s.For != nil:
		iter, err := d.fromWireExpr(s.For.Iter)
		if err != nil {
			return nil, err
		}
		body, err := d.fromWireStmts(s.For.Body)
		if err != nil {
			return nil, err
		}
		return &ast.For{
			Span:    d.fromWireSpan(s.For.Span),
			Var:     s.For.Var,
			VarSpan: d.fromWireSpan(s.For.VarSpan),
			Iter:    iter,
			Body:    body,
		}, nil
	case s.Return != nil:
		value, err := d.fromWireExpr(s.Return.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Return{Span: d.fromWireSpan(s.Return.Span), Value: value}, nil
	case s.Block != nil:
		body, err := d.fromWireStmts(s.Block.Body)
		if err != nil {
			return nil, err
		}
		return &ast.Block{Span: d.fromWireSpan(s.Block.Span), Body: body}, nil
	}
	return nil, fmt.Errorf("malformed statement node")
}

func toWirePattern(p ast.Pattern) *wirePattern {
	switch p := p.(type) {
	case *ast.TuplePattern:
		out := &wireTuplePattern{Span: toWireSpan(p.Span)}
		for _, n := range p.Names {
			out.Names = append(out.Names, wirePatternName{Span: toWireSpan(n.Span), Name: n.Name})
		}
		return &wirePattern{Tuple: out}
	case *ast.RecordPattern:
		out := &wireRecordPattern{
			Span:     toWireSpan(p.Span),
			TypeName: p.TypeName,
			TypeSpan: toWireSpan(p.TypeSpan),
		}
		for _, f := range p.Fields {
			out.Fields = append(out.Fields, &wirePatternField{
				Span:    toWireSpan(f.Span),
				Key:     f.Key,
				KeySpan: toWireSpan(f.KeySpan),
				Binder:  f.Binder,
			})
		}
		return &wirePattern{Record: out}
	}
	panic(fmt.Sprintf("unhandled pattern %T", p))
}

func (d decoder) fromWirePattern(p *wirePattern) (ast.Pattern, error) {
	if p == nil {
		return nil, fmt.Errorf("malformed pattern node")
	}
	switch {
	case p.Tuple != nil:
		out := &ast.TuplePattern{Span: d.fromWireSpan(p.Tuple.Span)}
		for _, n := range p.Tuple.Names {
			out.Names = append(out.Names, ast.PatternName{Span: d.fromWireSpan(n.Span), Name: n.Name})
		}
		return out, nil
	case p.Record != nil:
		out := &ast.RecordPattern{
			Span:     d.fromWireSpan(p.Record.Span),
			TypeName: p.Record.TypeName,
			TypeSpan: d.fromWireSpan(p.Record.TypeSpan),
		}
		for _, f := range p.Record.Fields {
			out.Fields = append(out.Fields, &ast.PatternField{
				Span:    d.fromWireSpan(f.Span),
				Key:     f.Key,
				KeySpan: d.fromWireSpan(f.KeySpan),
				Binder:  f.Binder,
			})
		}
		return out, nil
	}
	return nil, fmt.Errorf("malformed pattern node")
}
