package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"holistic/config"
	userRepo "holistic/database/repository/user"
	"holistic/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
)

// JWTAuthMiddleware validates bearer tokens issued by the account service
// and binds the caller's identity to the request context. The token's role
// claim is advisory: the user's stored role wins when they disagree.
func JWTAuthMiddleware(users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()

		claims, token, ok := bearerClaims(c)
		if !ok {
			return
		}

		// Build the cache key from the user and a hash of the exact token so
		// a rotated credential never rides an old entry.
		cacheKey := utils.AuthCachePrefix + claims.UserID + ":" + utils.HashToken(token)

		authCache := utils.GetAuthCacheClient()
		cacheEnabled := authCache != nil

		if cacheEnabled {
			role, err := authCache.Get(ctx, cacheKey).Result()
			if err == nil {
				_ = authCache.Expire(ctx, cacheKey, utils.AuthCacheTTL).Err()
				setIdentity(c, claims.UserID, role)
				c.Next()
				return
			}
			if err != redis.Nil {
				log.Printf("WARNING: Error retrieving auth cache key: %v. Falling back to DB lookup.", err)
			}
		}

		// Cache miss: confirm the user still exists and resolve their role.
		proj := bson.M{"id": 1, "role": 1}
		usr, err := users.GetByIDWithProjection(ctx, claims.UserID, proj)
		if err != nil || usr == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication error",
				"code":  0,
			})
			return
		}

		if cacheEnabled {
			_ = authCache.Set(ctx, cacheKey, usr.Role, utils.AuthCacheTTL).Err()
		}

		setIdentity(c, usr.ID, usr.Role)
		c.Next()
	}
}

// WebSocketAuthMiddleware authenticates push-channel upgrades. Browsers
// cannot set headers on websocket requests, so the token travels as a query
// parameter. Must run before the upgrade.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		claims, err := utils.ExtractAuthClaims(token, []byte(config.AppConfig.JWTSecret))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
				"code":  0,
			})
			return
		}

		setIdentity(c, claims.UserID, claims.Role)
		c.Next()
	}
}

// bearerClaims extracts and validates the Authorization header, aborting the
// request on failure.
func bearerClaims(c *gin.Context) (*utils.AuthClaims, string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Insufficient authorization",
			"code":  0,
		})
		return nil, "", false
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Insufficient authorization",
			"code":  0,
		})
		return nil, "", false
	}

	claims, err := utils.ExtractAuthClaims(tokenString, []byte(config.AppConfig.JWTSecret))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Insufficient authorization",
			"code":  0,
		})
		return nil, "", false
	}
	return claims, tokenString, true
}

func setIdentity(c *gin.Context, userID, role string) {
	c.Set("userID", userID)
	c.Set("userRole", role)
}

// RequireRole rejects callers whose resolved role is not in the allowed set.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("userRole")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Insufficient permissions",
			"code":  0,
		})
	}
}
