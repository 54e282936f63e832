package api

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

// MountSPA serves the built editor from dir on every non-API path. Unknown
// paths fall back to index.html so client-side routes survive a reload.
//
// Example layout:
//
//	dist/
//	  index.html
//	  assets/
//	    *.js, *.css
func MountSPA(r *gin.Engine, dir string, logger *slog.Logger) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		logger.Warn("static dir has no index.html, editor not served", "dir", dir, "error", err)
		return
	}

	r.Use(static.Serve("/", static.LocalFile(dir, false)))

	r.NoRoute(func(c *gin.Context) {
		// Only serve index.html for non-API routes
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			routeNotFound(c)
			return
		}
		c.File(index)
	})
}
