package restapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"polarprofile.org/internal/catalog"
	"polarprofile.org/internal/figure"
	"polarprofile.org/internal/grid"
	"polarprofile.org/internal/logging"
	"polarprofile.org/internal/models"
	"polarprofile.org/internal/profile"
	"polarprofile.org/internal/region"
	"polarprofile.org/internal/vertices"
)

type errorResponse struct {
	Code        int    `json:"code"`
	CurrentTime int64  `json:"currentTime"`
	Text        string `json:"text"`
	Version     int    `json:"version"`
}

func (api *RestAPI) writeError(w http.ResponseWriter, r *http.Request, code int, text string, version int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(errorResponse{
		Code:        code,
		CurrentTime: models.ResponseCurrentTime(),
		Text:        text,
		Version:     version,
	})
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to encode error response", err)
	}
}

// invalidAPIKeyResponse sends a 401 Unauthorized response with the required format
// for invalid API key errors
func (api *RestAPI) invalidAPIKeyResponse(w http.ResponseWriter, r *http.Request) {
	api.writeError(w, r, http.StatusUnauthorized, "permission denied", 1)
}

func (api *RestAPI) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logging.LogError(logging.FromContext(r.Context()), "request failed", err)
	api.writeError(w, r, http.StatusInternalServerError, "internal server error", 1)
}

// badRequestResponse reports a request the profile pipeline rejected.
func (api *RestAPI) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.writeError(w, r, http.StatusBadRequest, err.Error(), 2)
}

// validationErrorResponse sends a 400 Bad Request response with field-specific validation errors
func (api *RestAPI) validationErrorResponse(w http.ResponseWriter, r *http.Request, fieldErrors map[string][]string) {
	response := struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}{
		FieldErrors: fieldErrors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	err := json.NewEncoder(w).Encode(response)
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "failed to encode validation error response", err)
	}
}

// handleError maps pipeline errors to responses: unknown layers are 404,
// caller mistakes are 400 and everything else is a server error.
func (api *RestAPI) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, catalog.ErrLayerNotFound):
		api.sendNotFound(w, r)
	case errors.Is(err, profile.ErrInvalidConfig),
		errors.Is(err, profile.ErrEmptyProfile),
		errors.Is(err, figure.ErrNothingToPlot),
		errors.Is(err, vertices.ErrNoLine),
		errors.Is(err, grid.ErrIncompatible),
		errors.Is(err, region.ErrEmptyRegion):
		api.badRequestResponse(w, r, err)
	default:
		api.serverErrorResponse(w, r, err)
	}
}
