package middleware

import (
	"errors"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"

	"cloudaccounts/config"
	"cloudaccounts/services"
)

const sessionKey = "cloudcore"

// CloudCoreMiddleware bootstraps the caller's session and stores it in the
// request context. With required=false an anonymous request passes through
// with an unauthenticated session (signup); with required=true a missing or
// invalid token ends the request here.
func CloudCoreMiddleware(cfg *config.Config, authClient *auth.Client, db *firestore.Client, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cc := services.NewCloudCore(c.Request, required, cfg, authClient, db)

		if err := cc.Init(c.Request.Context()); err != nil {
			switch {
			case errors.Is(err, services.ErrUnauthorized):
				c.AbortWithStatusJSON(400, gin.H{"error": "Invalid authorization token."})
			case errors.Is(err, services.ErrProfileNotFound):
				c.AbortWithStatusJSON(400, gin.H{"error": "Document does not exist."})
			default:
				c.AbortWithStatusJSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		c.Set(sessionKey, cc)
		c.Next()
	}
}

// WithSession stores an already-initialized session in the request context,
// in place of CloudCoreMiddleware, for callers that resolve identity
// elsewhere.
func WithSession(cc *services.CloudCore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(sessionKey, cc)
		c.Next()
	}
}

// SessionFrom returns the session the middleware stored, or nil when the
// middleware did not run.
func SessionFrom(c *gin.Context) *services.CloudCore {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}

	cc, ok := value.(*services.CloudCore)
	if !ok {
		return nil
	}

	return cc
}
