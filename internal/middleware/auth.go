package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/study-planner-api/internal/auth"
	"github.com/yukikurage/study-planner-api/internal/constants"
	apierrors "github.com/yukikurage/study-planner-api/internal/errors"
)

// BearerCredential extracts the credential from an "Authorization: Bearer <credential>" header.
func BearerCredential(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// RequireAuth resolves the caller identity from the bearer credential.
// Requests without one are rejected before any handler runs.
func RequireAuth(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, ok := BearerCredential(c.GetHeader("Authorization"))
		if !ok {
			apierrors.Unauthorized(c, "Authorization token required")
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), credential)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid authorization token")
			return
		}

		// Store owner ID in context for easy access in handlers
		c.Set(constants.ContextKeyOwnerID, string(identity))
		c.Next()
	}
}

// GetOwnerID retrieves the current owner ID from context
func GetOwnerID(c *gin.Context) (string, bool) {
	ownerID := c.GetString(constants.ContextKeyOwnerID)
	if ownerID == "" {
		return "", false
	}
	return ownerID, true
}
