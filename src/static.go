package game

import (
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// StaticFileServer serves the web client from dir, falling back to
// fallbackPath for unknown routes. A missing dir serves 404s.
func StaticFileServer(dir string, fallbackPath string) http.Handler {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Printf("Static directory %q not available, web client disabled.", dir)
		return http.NotFoundHandler()
	}

	fs := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		if r.URL.Path == "/" {
			fs.ServeHTTP(w, r)
			return
		}

		// Client-side routes get the SPA entry point.
		http.ServeFile(w, r, filepath.Join(dir, fallbackPath))
	})
}
