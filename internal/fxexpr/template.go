package fxexpr

import (
	"bytes"

	"filterx/internal/fxeval"
	"filterx/internal/fxhost"
	"filterx/internal/fxobject"
)

// Template wraps a parsed template string and renders it through the
// host's fxhost.TemplateEngine on every Eval, per spec.md section 4.6:
// it allocates a scratch buffer, asks the engine to format into it
// against the context's messages and options, and returns a
// MessageValue that borrows the scratch buffer — callers must treat
// the result as scratch-lifetime and clone before storing it in a
// container (Dict.SetSubscript/List.Append already do this
// automatically).
type Template struct {
	Base
	source string
	engine fxhost.TemplateEngine
}

func NewTemplate(loc, source string, engine fxhost.TemplateEngine) *Template {
	return &Template{Base: NewBase(loc), source: source, engine: engine}
}

func (t *Template) Init(cfg *Config) error {
	t.registerStat(cfg, "template")
	return nil
}
func (t *Template) Deinit(cfg *Config) {}
func (t *Template) Optimize() Expr     { return nil }
func (t *Template) Free()              {}

func (t *Template) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	t.bumpEval()
	mark := ctx.AcquireScratch()

	var buf bytes.Buffer
	typeTag, err := t.engine.FormatValueAndType(t.source, ctx.Messages, ctx.Options, &buf)
	if err != nil {
		ctx.Errors.Push(t.Location(), "template render failed: %v", err)
		t.trace(ctx, "template", nil, err)
		return nil, err
	}
	*mark.Bytes() = append((*mark.Bytes())[:0], buf.Bytes()...)
	result := fxobject.NewScratchMessageValue(*mark.Bytes(), fxobject.LogMessageValueType(typeTag), mark)
	t.trace(ctx, "template", result, nil)
	return result, nil
}
