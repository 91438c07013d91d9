// Package template implements fxhost.TemplateEngine over the standard
// library's text/template. The pack's templating candidates
// (other_examples/AlexanderGrooff-jinja-go, other_examples/deicod-gojinja)
// are single-file Jinja evaluators built around a generic AST-walking
// interpreter; FilterX's template boundary is narrower — render one
// string against a fixed message-field/options vocabulary and report a
// typed result — which text/template's compiled-once, Execute-many
// model fits directly without pulling in a second expression language.
package template

import (
	"bytes"
	"strconv"
	"text/template"

	"filterx/internal/fxhost"
)

type Engine struct{}

func NewEngine() Engine { return Engine{} }

// FormatValueAndType renders src against msgs and options, then infers
// a fxobject.LogMessageValueType tag from the rendered text (integer,
// double, or string), matching the type-tagged contract spec.md
// section 6 describes for format_value_and_type_with_context.
func (Engine) FormatValueAndType(src string, msgs []fxhost.MessageStore, options map[string]string, out *bytes.Buffer) (string, error) {
	tmpl, err := template.New("filterx").Funcs(funcMap(msgs)).Parse(src)
	if err != nil {
		return "", err
	}
	if err := tmpl.Execute(out, options); err != nil {
		return "", err
	}
	return inferType(out.String()), nil
}

// funcMap exposes message fields to the template source as
// {{field "NAME"}}, resolving through the primary message's
// RegisterName/GetValue pair rather than a direct name lookup, since
// MessageStore addresses fields by handle.
func funcMap(msgs []fxhost.MessageStore) template.FuncMap {
	return template.FuncMap{
		"field": func(name string) string {
			if len(msgs) == 0 {
				return ""
			}
			h := msgs[0].RegisterName(name)
			raw, _, ok := msgs[0].GetValue(h)
			if !ok {
				return ""
			}
			return string(raw)
		},
	}
}

func inferType(s string) string {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return "integer"
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return "double"
	}
	return "string"
}
