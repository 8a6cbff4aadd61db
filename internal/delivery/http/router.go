package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"sitearchive/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
// requireSession guards the admin listing.
func NewRouter(archiveController *controllers.ArchiveController, requireSession func(http.HandlerFunc) http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()

	// Archive
	mux.HandleFunc("POST /api/archive", archiveController.Capture)
	mux.HandleFunc("POST /api/archive/auth", archiveController.Authenticate)
	mux.HandleFunc("POST /api/archive/logout", archiveController.Logout)
	mux.HandleFunc("GET /api/archive/list", requireSession(archiveController.List))

	// Ops
	mux.HandleFunc("GET /healthz", archiveController.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
