package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/unifyhub/unifyhub/internal/api/respond"
	"github.com/unifyhub/unifyhub/internal/api/validate"
	"github.com/unifyhub/unifyhub/internal/model"
)

// writeDomainError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a backend failure.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidArgument):
		respond.WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, err.Error())
	default:
		respond.WriteInternalError(w, err.Error())
	}
}

// pathID extracts a positive int64 path variable, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := validate.ID(name, mux.Vars(r)[name])
	if err != nil {
		respond.WriteBadRequest(w, err.Error())
		return 0, false
	}
	return id, true
}
