package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"storefront/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

const renderFailureMessage = "An error occurred while trying to render the page."

// Renderer executes the page templates
type Renderer struct {
	templates *template.Template
}

// NewRenderer parses the embedded page templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("pages").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl}, nil
}

// NewRendererFromTemplates wraps an already parsed template set
func NewRendererFromTemplates(tmpl *template.Template) *Renderer {
	return &Renderer{templates: tmpl}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
	}
}

// HTML renders a page into a buffer before writing it. Template failures
// become a plain-text 500.
func (r *Renderer) HTML(c *gin.Context, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		util.GetLogger().Error("Failed to render page",
			zap.String("template", name),
			zap.Error(err))
		c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(renderFailureMessage))
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
