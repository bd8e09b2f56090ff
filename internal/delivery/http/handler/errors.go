package handler

import (
	"errors"
	"net/http"
	"strconv"

	"marcha-api/internal/usecase"
	"marcha-api/pkg/response"

	"github.com/gorilla/mux"
)

// writeError maps a usecase error kind to its HTTP status. Unknown errors
// become a 500 with fallbackMsg so store details never reach the client.
func writeError(w http.ResponseWriter, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		response.BadRequest(w, err.Error())
	case errors.Is(err, usecase.ErrNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, usecase.ErrConflict):
		response.Conflict(w, err.Error())
	case errors.Is(err, usecase.ErrUnauthorized):
		response.Unauthorized(w, err.Error())
	case errors.Is(err, usecase.ErrForbidden):
		response.Forbidden(w, err.Error())
	default:
		response.InternalServerError(w, fallbackMsg)
	}
}

// pathID reads a positive integer route variable
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func queryInt64(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
