package shared

import (
	"errors"
	"net/http"

	"github.com/storeroom-app/storeroom/internal/platform/httpx"
	"github.com/storeroom-app/storeroom/internal/shared"
)

// RespondServiceError renders master data service failures consistently.
func RespondServiceError(w http.ResponseWriter, err error) {
	var vErr *shared.ValidationError
	switch {
	case errors.As(err, &vErr):
		httpx.ProblemFields(w, http.StatusBadRequest, "Validation Failed", vErr.Fields)
	case errors.Is(err, shared.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		httpx.RespondError(w, err)
	}
}
