// Package middleware provides gin middlewares shared by all routes.
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-petr/pet-wallet/pkg/tokenpkg"
	"github.com/go-petr/pet-wallet/pkg/web"
	"github.com/rs/zerolog"
)

// Authorization header parts and the gin context key of the verified payload.
const (
	AuthHeaderKey  = "authorization"
	AuthTypeBearer = "bearer"
	AuthPayloadKey = "authorization_payload"
)

// InvalidTokenMessage is returned for every rejected request.
const InvalidTokenMessage = "Token tidak tidak valid atau kadaluwarsa"

var (
	// ErrAuthHeaderNotFound indicates a request without authorization header.
	ErrAuthHeaderNotFound = errors.New("authorization header is not provided")
	// ErrBadAuthHeaderFormat indicates an authorization header that is not "<type> <token>".
	ErrBadAuthHeaderFormat = errors.New("invalid authorization header format")
	// ErrUnsupportedAuthType indicates an authorization type other than bearer.
	ErrUnsupportedAuthType = errors.New("unsupported authorization type")
)

// AddAuthorization creates a token and sets it as the request authorization header.
func AddAuthorization(r *http.Request, maker tokenpkg.Maker, authType string, userID int64, email string, d time.Duration) error {
	token, _, err := maker.CreateToken(userID, email, d)
	if err != nil {
		return err
	}

	r.Header.Set(AuthHeaderKey, fmt.Sprintf("%s %s", authType, token))

	return nil
}

// Authorize returns the verified payload of the request token.
func Authorize(header string, maker tokenpkg.Maker) (*tokenpkg.Payload, error) {
	if len(header) == 0 {
		return nil, ErrAuthHeaderNotFound
	}

	fields := strings.Fields(header)
	if len(fields) != 2 {
		return nil, ErrBadAuthHeaderFormat
	}

	if strings.ToLower(fields[0]) != AuthTypeBearer {
		return nil, ErrUnsupportedAuthType
	}

	return maker.VerifyToken(fields[1])
}

// AuthMiddleware rejects requests without a valid bearer token.
//
// The verified payload is stored under AuthPayloadKey.
func AuthMiddleware(maker tokenpkg.Maker) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		payload, err := Authorize(gctx.GetHeader(AuthHeaderKey), maker)
		if err != nil {
			zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.Fail(web.StatusInvalidToken, InvalidTokenMessage))

			return
		}

		gctx.Set(AuthPayloadKey, payload)
		gctx.Next()
	}
}

// Payload returns the payload stored by AuthMiddleware.
func Payload(gctx *gin.Context) *tokenpkg.Payload {
	return gctx.MustGet(AuthPayloadKey).(*tokenpkg.Payload)
}
