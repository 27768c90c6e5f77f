package gate

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rs/xid"
)

// parseID validates a path parameter as a store identifier. Identifiers are
// validated by parseability only; there is no format contract beyond that.
func parseID(raw string) (string, bool) {
	id, err := xid.FromString(raw)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func writeBadRequest(w http.ResponseWriter, param string) {
	writeStatus(w, http.StatusBadRequest, "validation_error",
		fmt.Sprintf("%s is not a valid identifier", param))
}

// writeNotFound is the single not-found response used for absent resources
// AND ownership mismatches. The two cases must be indistinguishable so ids
// under other accounts cannot be enumerated.
func writeNotFound(w http.ResponseWriter, resource, id string) {
	writeStatus(w, http.StatusNotFound, "not_found",
		fmt.Sprintf("%s not found with id %s", resource, id))
}

func writeServerError(w http.ResponseWriter) {
	writeStatus(w, http.StatusInternalServerError, "internal_error",
		"An internal error occurred")
}

func writeStatus(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"error":   errType,
		"message": message,
	}); err != nil {
		slog.Error("failed to encode gate response", slog.String("error", err.Error()))
	}
}
