package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/homeos_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var errNoSessionToken = errors.New("no session token")

// AuthMiddleware creates a Gin middleware handler that validates session tokens.
// The token is taken from the Authorization header or, failing that, from the session cookie.
func AuthMiddleware(jwtSecret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		claims, err := sessionClaims(c, jwtSecret, cookieName)
		if err != nil {
			msg := "Invalid token"
			switch {
			case errors.Is(err, errNoSessionToken):
				msg = "Not authenticated"
			case errors.Is(err, jwt.ErrTokenExpired):
				msg = "Token has expired"
			case errors.Is(err, jwt.ErrTokenNotValidYet):
				msg = "Token not valid yet"
			}
			logger.Warn("Authentication failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": msg})
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the identity when a valid session is present
// and lets the request through either way.
func OptionalAuthMiddleware(jwtSecret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := sessionClaims(c, jwtSecret, cookieName); err == nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

func sessionClaims(c *gin.Context, jwtSecret, cookieName string) (*utils.SessionClaims, error) {
	tokenString := ""
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return nil, errors.New("authorization header format must be Bearer {token}")
		}
		tokenString = parts[1]
	} else if cookie, err := c.Cookie(cookieName); err == nil {
		tokenString = cookie
	}
	if tokenString == "" {
		return nil, errNoSessionToken
	}
	return utils.ParseSessionJWT(tokenString, jwtSecret)
}

func setIdentity(c *gin.Context, claims *utils.SessionClaims) {
	identity := claims.Identity()
	enrichedLogger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("user_id", identity.Key()))

	ctx := WithIdentity(c.Request.Context(), identity)
	ctx = WithLogger(ctx, enrichedLogger)
	c.Request = c.Request.WithContext(ctx)
	c.Set(string(loggerKey), enrichedLogger)
}
