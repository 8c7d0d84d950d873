package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/pos-platform/sales-service/pkg/errors"
	"github.com/pos-platform/sales-service/pkg/logging"
)

// ActorClaims carries the authenticated user's identity in access tokens.
// Subject is the user document ID; Name is the display name shown in the
// activity log.
type ActorClaims struct {
	jwtlib.RegisteredClaims
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// Auth verifies the Bearer token on each request and stores the actor's
// identity in the Gin context and the request context.
func Auth(secret string) gin.HandlerFunc {
	key := []byte(secret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			AbortWithAppError(c, errors.ErrUnauthorized("missing authorization header"))
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			AbortWithAppError(c, errors.ErrUnauthorized("invalid authorization header"))
			return
		}

		claims := &ActorClaims{}
		token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
				return nil, errors.ErrUnauthorized("unexpected signing method")
			}
			return key, nil
		}, jwtlib.WithValidMethods([]string{"HS256"}))
		if err != nil || !token.Valid {
			AbortWithAppError(c, errors.ErrUnauthorized("invalid or expired token"))
			return
		}

		sub, err := claims.GetSubject()
		if err != nil || sub == "" {
			AbortWithAppError(c, errors.ErrUnauthorized("invalid token subject"))
			return
		}

		c.Set(ContextKeyUserID, sub)
		c.Set(ContextKeyUserName, claims.Name)
		c.Request = c.Request.WithContext(logging.ContextWithUserID(c.Request.Context(), sub))

		c.Next()
	}
}
