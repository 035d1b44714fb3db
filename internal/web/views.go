package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed views/*.html
var viewsFS embed.FS

// NewEngine returns the HTML template engine over the embedded views.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		// The embedded tree is fixed at build time.
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
