package interfaces

import "io"

// TemplateRenderer abstracts the theme/template engine that turns a page
// context into final markup. The generator only depends on RenderTemplate;
// the remaining methods exist so richer engines can be swapped in without
// changing the contract.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
