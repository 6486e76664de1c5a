package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// Page file names under the static directory.
const (
	HomePage     = "home.html"
	QuotesPage   = "quotes.html"
	SettingsPage = "settings.html"
)

// PageHandler serves the HTML pages and their assets from a directory.
type PageHandler struct {
	dir string
}

// NewPageHandler serves pages from dir.
func NewPageHandler(dir string) *PageHandler {
	return &PageHandler{dir: dir}
}

func (h *PageHandler) page(name string) gin.HandlerFunc {
	path := filepath.Join(h.dir, name)

	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-cache")
		c.File(path)
	}
}

// RegisterPageRoutes registers /, /quotes, /settings and /static on the engine.
func (h *PageHandler) RegisterPageRoutes(engine *gin.Engine) {
	engine.GET("/", h.page(HomePage))
	engine.GET("/quotes", h.page(QuotesPage))
	engine.GET("/settings", h.page(SettingsPage))
	engine.StaticFS("/static", http.Dir(h.dir))
}
