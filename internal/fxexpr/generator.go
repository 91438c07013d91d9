package fxexpr

import (
	"fmt"

	"filterx/internal/fxeval"
	"filterx/internal/fxobject"
)

// GeneratorElem is a FilterXLiteralGeneratorElem: an optional key
// expression, a value expression, and a cloneable flag. Dict elements
// always carry a Key; list elements never do.
type GeneratorElem struct {
	Key       Expr // nil for list elements
	Value     Expr
	Cloneable bool
}

// ContainerKind selects which container a generator creates.
type ContainerKind int

const (
	ContainerDict ContainerKind = iota
	ContainerList
)

// LiteralGenerator implements the dict/list literal generator from
// spec.md section 4.5: it creates a fresh container and populates it
// by evaluating Elements into it. A nested literal generator used as an
// element value (`{"a": {"b": 1}}`, `{"a": [1, 2]}`) is evaluated like
// any other value and creates its own plain Dict or List; the parent's
// container is not passed to it.
type LiteralGenerator struct {
	Base
	Kind     ContainerKind
	Elements []GeneratorElem
}

func NewLiteralGenerator(loc string, kind ContainerKind, elems []GeneratorElem) *LiteralGenerator {
	return &LiteralGenerator{Base: NewBase(loc), Kind: kind, Elements: elems}
}

func (g *LiteralGenerator) children() []Expr {
	out := make([]Expr, 0, len(g.Elements)*2)
	for _, e := range g.Elements {
		if e.Key != nil {
			out = append(out, e.Key)
		}
		out = append(out, e.Value)
	}
	return out
}

func (g *LiteralGenerator) Init(cfg *Config) error {
	g.registerStat(cfg, "literal_generator")
	return initChildren(cfg, g.children())
}
func (g *LiteralGenerator) Deinit(cfg *Config) { deinitChildren(cfg, g.children()) }
func (g *LiteralGenerator) Free()              { freeChildren(g.children()) }
func (g *LiteralGenerator) Optimize() Expr {
	for i := range g.Elements {
		if g.Elements[i].Key != nil {
			if opt := g.Elements[i].Key.Optimize(); opt != nil {
				g.Elements[i].Key = opt
			}
		}
		if opt := g.Elements[i].Value.Optimize(); opt != nil {
			g.Elements[i].Value = opt
		}
	}
	return nil
}

// CreateContainer allocates a fresh dict or list. fillableParent, if
// non-nil, is consulted only to pick the same concrete container
// family for nested literals (spec.md section 4.5's "inner generators
// ... create child containers whose type is determined by the
// parent's container factory") — this implementation always produces
// plain fxobject.Dict/List, so the parameter exists for interface
// symmetry with a host that might supply alternate container
// factories.
func (g *LiteralGenerator) CreateContainer(fillableParent fxobject.Object) fxobject.Object {
	switch g.Kind {
	case ContainerDict:
		return fxobject.NewDict()
	default:
		return fxobject.NewList()
	}
}

// Generate writes g.Elements into fillable, in declaration order.
func (g *LiteralGenerator) Generate(ctx *fxeval.Context, fillable fxobject.Object) error {
	for _, e := range g.Elements {
		v, err := e.Value.Eval(ctx)
		if err != nil {
			return err
		}
		if e.Cloneable {
			if c, ok := v.(fxobject.Cloner); ok {
				cloned := c.Clone()
				v.Unref()
				v = cloned
			}
		}

		switch g.Kind {
		case ContainerDict:
			if e.Key == nil {
				v.Unref()
				return fmt.Errorf("filterx: %s: dict generator element missing a key expression", g.Location())
			}
			k, err := e.Key.Eval(ctx)
			if err != nil {
				v.Unref()
				return err
			}
			sub := fillable.(fxobject.Subscriptable)
			owned := v
			if err := sub.SetSubscript(k, &owned); err != nil {
				k.Unref()
				owned.Unref()
				return err
			}
			k.Unref()
		case ContainerList:
			app := fillable.(fxobject.Appender)
			if err := app.Append(v); err != nil {
				v.Unref()
				return err
			}
		}
	}
	return nil
}

func (g *LiteralGenerator) Eval(ctx *fxeval.Context) (fxobject.Object, error) {
	g.bumpEval()
	container := g.CreateContainer(nil)
	if err := g.Generate(ctx, container); err != nil {
		container.Unref()
		ctx.Errors.Push(g.Location(), "literal generator failed: %v", err)
		g.trace(ctx, "literal_generator", nil, err)
		return nil, err
	}
	g.trace(ctx, "literal_generator", container, nil)
	return container, nil
}

// ForeachListElements is the literal_list_generator_foreach helper
// from spec.md section 4.5: it lets a caller introspect a list
// generator's elements at configuration time, e.g. to cache literal
// needle strings, without evaluating anything.
func ForeachListElements(g *LiteralGenerator, fn func(value Expr, cloneable bool)) {
	if g.Kind != ContainerList {
		return
	}
	for _, e := range g.Elements {
		fn(e.Value, e.Cloneable)
	}
}

// ForeachDictElements is literal_dict_generator_foreach.
func ForeachDictElements(g *LiteralGenerator, fn func(key, value Expr, cloneable bool)) {
	if g.Kind != ContainerDict {
		return
	}
	for _, e := range g.Elements {
		fn(e.Key, e.Value, e.Cloneable)
	}
}
