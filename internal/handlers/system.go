package handlers

import (
	"encoding/json"
	"expvar"
	"net/http"

	"Reviv/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Health reports process liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
	if err != nil {
		utils.HandleHttpError(w, err)
		return
	}
}

// ExpvarVars proxies the standard expvar handler.
func ExpvarVars(w http.ResponseWriter, r *http.Request) {
	expvar.Handler().ServeHTTP(w, r)
}

// PrometheusMetrics proxies the promhttp handler.
func PrometheusMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
