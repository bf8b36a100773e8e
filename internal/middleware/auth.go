package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prasetyo/storefront/internal/common"
	inErrors "github.com/prasetyo/storefront/internal/errors"
	inHttp "github.com/prasetyo/storefront/internal/http"
	"github.com/prasetyo/storefront/internal/log"
)

func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context()).With().Str(log.KEY_TAG, "middleware Auth").Logger()
		c := logger.WithContext(r.Context())

		authorization := r.Header.Get(inHttp.KEY_HEADER_AUTHORIZATION)
		if len(authorization) < inHttp.VALUE_HEADER_BEARER_PREFIX_LEN ||
			!strings.EqualFold(authorization[:inHttp.VALUE_HEADER_BEARER_PREFIX_LEN], "bearer ") {
			logger.Error().
				Err(inErrors.ErrEmptyAuth).
				Msg(inErrors.ErrEmptyAuth.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusUnauthorized,
				"message":    inErrors.ErrEmptyAuth.Error(),
			})
			return
		}

		token := authorization[inHttp.VALUE_HEADER_BEARER_PREFIX_LEN:]
		jwtToken, err := common.VerifyToken(c, token)
		if err != nil {
			logger.Error().
				Err(inErrors.ErrTokenInvalid).
				Msg(inErrors.ErrTokenInvalid.Error())
			inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
				"status":     "failed",
				"statusCode": http.StatusUnauthorized,
				"message":    inErrors.ErrTokenInvalid.Error(),
			})
			return
		}

		c = common.AttachJwtTokenToContext(c, jwtToken)
		next.ServeHTTP(w, r.WithContext(c))
	})
}
