package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	mux.HandleFunc("GET /{$}", h.Sidebar)
	mux.HandleFunc("POST /mode", h.SetMode)
	mux.HandleFunc("POST /refresh", h.Refresh)
	mux.HandleFunc("GET /tooltip", h.Tooltip)
}
