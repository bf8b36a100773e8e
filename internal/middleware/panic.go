package middleware

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prasetyo/storefront/internal/errors"
	inHttp "github.com/prasetyo/storefront/internal/http"
	"github.com/prasetyo/storefront/internal/otel"
)

func RecoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, span := otel.Tracer.Start(r.Context(), "RecoverPanic")
		defer span.End()

		logger := zerolog.Ctx(c).With().Logger()
		defer func() {
			if rec := recover(); rec != nil {
				err := fmt.Errorf("recovered from panic: %v", rec)
				logger.Error().Err(err).Stack().Msg(err.Error())
				errors.HandleError(err, span)
				inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
					"status":     "failed",
					"statusCode": http.StatusInternalServerError,
					"message":    "Internal Server Error",
				})
				return
			}
		}()

		next.ServeHTTP(w, r)
	})
}
