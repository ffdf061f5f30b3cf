package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/minslab/revmomo/internal/api/handlers"
	"github.com/minslab/revmomo/pkg/logger"
)

// NewRouter configures the HTTP routes.
// SSOT: routing is configured in this function only.
func NewRouter(
	weights *handlers.WeightsHandler,
	runs *handlers.RunsHandler,
	universe *handlers.UniverseHandler,
	stream *handlers.StreamHandler,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/weights/latest", weights.GetLatest).Methods("GET")
	api.HandleFunc("/weights/{day}", weights.GetByDay).Methods("GET")

	api.HandleFunc("/runs", runs.List).Methods("GET")
	api.HandleFunc("/runs/trigger", runs.Trigger).Methods("POST")
	api.HandleFunc("/stats", runs.GetStats).Methods("GET")

	api.HandleFunc("/universe", universe.List).Methods("GET")
	api.HandleFunc("/universe/refresh", universe.Refresh).Methods("POST")

	r.HandleFunc("/ws/runs", stream.ServeWS)

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "revmomo-api",
	})
}

// loggingMiddleware logs HTTP requests.
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics.
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
