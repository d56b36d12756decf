package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// mountGenerated serves stored panel images under /generated/.
// Directory listings are refused; only direct file paths are served.
func mountGenerated(r chi.Router, dir string) {
	fs := http.StripPrefix("/generated/", http.FileServer(http.Dir(dir)))
	r.Get("/generated/*", func(w http.ResponseWriter, req *http.Request) {
		if strings.HasSuffix(req.URL.Path, "/") {
			http.NotFound(w, req)
			return
		}
		fs.ServeHTTP(w, req)
	})
}
