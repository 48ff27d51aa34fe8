// Package render turns footer content and the newsletter widget snapshot into
// HTML.
package render

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/Nazarious-ucu/listings-footer/internal/models"
	"github.com/Nazarious-ucu/listings-footer/internal/widget"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	TemplateList   = "link_list"
	TemplateStatic = "static"
	TemplateFooter = "footer"
	TemplatePage   = "page"

	DefaultAction = "/newsletter"
)

// View is the data the footer and page templates render.
type View struct {
	Content    models.Content
	Newsletter widget.Snapshot
	Action     string
	// Static is the pre-rendered output of Renderer.Static.
	Static template.HTML
}

type Renderer struct {
	tmpl *template.Template
}

func New() (*Renderer, error) {
	tmpl, err := template.New("render").ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) RenderList(w io.Writer, section models.LinkSection) error {
	return r.tmpl.ExecuteTemplate(w, TemplateList, section)
}

// Static renders everything in the footer except the newsletter form. The
// output depends on c only.
func (r *Renderer) Static(_ context.Context, c models.Content) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, TemplateStatic, c); err != nil {
		return "", err
	}
	//nolint:gosec // produced by html/template
	return template.HTML(buf.String()), nil
}

func (r *Renderer) RenderFooter(w io.Writer, v View) error {
	return r.tmpl.ExecuteTemplate(w, TemplateFooter, withDefaults(v))
}

func (r *Renderer) RenderPage(w io.Writer, v View) error {
	return r.tmpl.ExecuteTemplate(w, TemplatePage, withDefaults(v))
}

func withDefaults(v View) View {
	if v.Action == "" {
		v.Action = DefaultAction
	}
	if v.Newsletter.Label == "" {
		v.Newsletter.Label = widget.LabelSubscribe
		v.Newsletter.State = widget.Idle.String()
	}
	return v
}
