package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/erp_backend/utils"
)

const (
	tenantHeader = "x-tenant-id"
	bearer       = "Bearer "
)

// gin context key of the verified *utils.JwtCustomClaim
const claimsKey = "auth_claims"

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// AuthMiddleware verifies the bearer token and the x-tenant-id header and
// puts the caller's tenant, user and role on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.Request.Header.Get("Authorization")
		if !strings.HasPrefix(auth, bearer) || len(auth) == len(bearer) {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		validate, err := utils.JwtValidate(auth[len(bearer):])
		if err != nil || !validate.Valid {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		claim, ok := validate.Claims.(*utils.JwtCustomClaim)
		if !ok || claim.TenantId == "" {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		rawTenant := c.Request.Header.Get(tenantHeader)
		if rawTenant == "" {
			abort(c, http.StatusUnauthorized, "tenant id is required")
			return
		}
		tenantId, err := utils.ParseTenantId(rawTenant)
		if err != nil {
			abort(c, http.StatusBadRequest, utils.PublicMessage(err))
			return
		}
		claimTenant, err := utils.ParseTenantId(claim.TenantId)
		if err != nil || claimTenant != tenantId {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := utils.SetTenantIdInContext(c.Request.Context(), tenantId)
		ctx = utils.SetUserIdInContext(ctx, claim.UserId)
		ctx = utils.SetRoleInContext(ctx, claim.Role)
		ctx = utils.SetIsAdminInContext(ctx, claim.Role == utils.RoleAdmin)
		c.Request = c.Request.WithContext(ctx)
		c.Set(claimsKey, claim)
		c.Next()
	}
}

// Claims returns the verified token claims of the request, if any.
func Claims(c *gin.Context) *utils.JwtCustomClaim {
	raw, _ := c.Get(claimsKey)
	claim, _ := raw.(*utils.JwtCustomClaim)
	return claim
}

// RequireRole lets the request through only when the caller holds role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, _ := utils.GetRoleFromContext(c.Request.Context())
		if current != role {
			abort(c, http.StatusUnauthorized, "requires role "+role)
			return
		}
		c.Next()
	}
}
