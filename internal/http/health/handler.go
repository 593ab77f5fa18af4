package health

import (
	"encoding/json"
	"net/http"
)

// Response is the liveness payload. Status is always "healthy" when the
// process can serve requests at all; backend reachability is not probed.
type Response struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Handler serves the unauthenticated liveness endpoint. It sits outside
// the versioned API so load balancer checks skip the auth middleware.
func Handler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Response{Status: "healthy", Service: "mapsnap-api"})
}
