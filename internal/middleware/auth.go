package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/foodmood/backend/internal/apierror"
	"github.com/JonnyWalker81/foodmood/backend/internal/logger"
	"github.com/JonnyWalker81/foodmood/backend/pkg/supabase"
)

// TokenVerifier resolves a bearer token to its user. *supabase.Client
// satisfies it.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*supabase.User, error)
}

// Auth verifies the bearer token and stores user_id on the gin and request
// contexts.
func Auth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Ctx(c.Request.Context())

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			log.Debug("authentication failed: missing or malformed authorization header")
			apierror.Abort(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c), ""))
			return
		}

		user, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			log.Warn("authentication failed: token verification error", logger.Err(err))
			if supabase.IsUnavailable(err) {
				apierror.Abort(c, apierror.NewServiceUnavailableError(apierror.GetRequestID(c), 5))
				return
			}
			apierror.Abort(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c), "Invalid or expired token"))
			return
		}

		c.Set("user_id", user.ID)
		c.Set("user_email", user.Email)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), user.ID))

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
