package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Responder sends APIError bodies.
type Responder struct{}

// NewResponder creates a responder.
func NewResponder() *Responder {
	return &Responder{}
}

// DefaultResponder is used by the package-level helpers.
var DefaultResponder = NewResponder()

// Respond writes the error with its status code.
func (r *Responder) Respond(c *gin.Context, apiErr APIError) {
	if apiErr.Status == 0 {
		apiErr.Status = http.StatusInternalServerError
	}
	c.JSON(apiErr.Status, apiErr.Body())
}

// RespondError converts a standard error to an APIError and responds.
// Unknown errors become a 500 carrying the raw message.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		r.Respond(c, apiErr)
		return
	}
	r.Respond(c, Internal(err.Error()))
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, apiErr APIError) {
	DefaultResponder.Respond(c, apiErr)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}

// ErrorMapper maps domain/application errors to an APIError.
type ErrorMapper func(err error) (APIError, bool)

// ChainedResponder supports custom error mapping.
type ChainedResponder struct {
	*Responder
	mappers []ErrorMapper
}

// NewChainedResponder creates a responder with custom error mappers.
func NewChainedResponder(mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{
		Responder: NewResponder(),
		mappers:   mappers,
	}
}

// RespondError tries each mapper before falling back to default handling.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if apiErr, ok := mapper(err); ok {
			r.Respond(c, apiErr)
			return
		}
	}
	r.Responder.RespondError(c, err)
}

// MapSentinel returns a mapper that turns any error matching target into apiErr.
func MapSentinel(target error, apiErr APIError) ErrorMapper {
	return func(err error) (APIError, bool) {
		if errors.Is(err, target) {
			return apiErr, true
		}
		return APIError{}, false
	}
}
