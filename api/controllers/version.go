package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/angelmondragon/fillytrckr-backend/pkg/types"
)

// APIVersion is reported by /get_version.
const APIVersion = "1.0"

// Version answers with the bare {"version": "1.0"} document the web client
// polls, outside the data envelope.
func Version() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(types.VersionInfo{Version: APIVersion})
	}
}
