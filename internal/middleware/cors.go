package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type", "X-Request-ID",
			"HX-Request", "HX-Current-URL", "HX-Target", "HX-Trigger", "HX-Boosted",
		},
		ExposedHeaders:   []string{"X-Request-ID", "HX-Trigger", "HX-Push-Url"},
		MaxAge:           3600,
		AllowCredentials: false,
	})

	return handler.Handler
}
