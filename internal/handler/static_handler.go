package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"ytinfo/internal/model"

	"github.com/gin-gonic/gin"
)

const msgRouteNotFound = "Rota não encontrada"

// StaticHandler serves the display client, falling back to index.html for
// client-side routes
type StaticHandler struct {
	dir string
}

// NewStaticHandler creates a new static handler rooted at dir
func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// Index serves the entry document
func (h *StaticHandler) Index(c *gin.Context) {
	h.serveIndex(c)
}

// NoRoute serves an existing file under dir for GET and HEAD, otherwise the
// entry document. Other methods get a JSON 404.
func (h *StaticHandler) NoRoute(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: msgRouteNotFound})
		return
	}

	name := path.Clean("/" + c.Request.URL.Path)
	if name != "/" {
		full := filepath.Join(h.dir, filepath.FromSlash(name))
		if info, err := os.Stat(full); err == nil && !info.IsDir() {
			c.File(full)
			return
		}
	}

	h.serveIndex(c)
}

func (h *StaticHandler) serveIndex(c *gin.Context) {
	index := filepath.Join(h.dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: msgRouteNotFound})
		return
	}
	c.File(index)
}
