package utils

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Failure kinds surfaced by the reservation core. Handlers translate these
// to HTTP statuses with RespondError; nothing is retried automatically.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
	ErrBadRequest = errors.New("bad request")
)

// ValidationError carries every violation message collected by the
// composite validator. Callers must receive the full list in one response.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// AuthorizeOwnerOrRole is the single authorization policy for mutating
// reservation operations: the resource owner passes, and so does any
// requester holding one of the given roles.
func AuthorizeOwnerOrRole(requesterId uint, requesterRole string, ownerId uint, roles ...string) error {
	if requesterId == ownerId {
		return nil
	}
	for _, role := range roles {
		if requesterRole == role {
			return nil
		}
	}
	return ErrForbidden
}

func RespondError(ctx *gin.Context, err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		ctx.JSON(http.StatusBadRequest, gin.H{"errors": verr.Messages})
		return
	}
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, ErrBadRequest):
		status = http.StatusBadRequest
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
