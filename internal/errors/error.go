package errors

import (
	"errors"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidSelection  = errors.New("size and color must be selected")
	ErrCartNotFound      = errors.New("cart not found")
	ErrLineNotFound      = errors.New("product not found in cart")
	ErrGuestCartNotFound = errors.New("guest cart not found")
	ErrEmptyAuth         = errors.New("missing authorization")
	ErrEmptySubject      = errors.New("missing subject")
	ErrTokenInvalid      = errors.New("invalid token")
)

func HandleError(err error, span trace.Span) {
	if err == nil {
		return
	}
	span.AddEvent(err.Error())
	span.SetStatus(codes.Error, err.Error())
	span.RecordError(err)
}
