package middleware

import (
	"fmt"
	"net/http"

	"github.com/docvault/server/model"
	"github.com/gin-gonic/gin"
)

// Policy maps an operation name to the roles allowed to invoke it.
// Operations missing from the table (or mapped to an empty list) require
// identity only.
type Policy map[string][]string

// DefaultPolicy declares the role requirements for every protected
// operation in one place.
func DefaultPolicy() Policy {
	return Policy{
		"documents.create":  {model.RoleAdmin, model.RoleEditor},
		"documents.update":  {model.RoleAdmin, model.RoleEditor},
		"documents.delete":  {model.RoleAdmin},
		"users.list":        {model.RoleAdmin},
		"users.updateRole":  {model.RoleAdmin},
		"users.delete":      {model.RoleAdmin},
		"ingestion.trigger": {model.RoleAdmin, model.RoleEditor},
		"ingestion.status":  {model.RoleAdmin, model.RoleEditor},
		"ingestion.retry":   {model.RoleAdmin},
		"ingestion.list":    {model.RoleAdmin},
	}
}

// RequireRole checks the resolved role of the current user against the
// policy entry for operation. Must run after AuthMiddleware.
func RequireRole(policy Policy, operation string) gin.HandlerFunc {
	allowed := policy[operation]

	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}

		role := GetRole(c)
		if role == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "User not authenticated"})
			c.Abort()
			return
		}

		for _, r := range allowed {
			if r == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("Access denied for role: %s", role)})
		c.Abort()
	}
}
