package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"reviewbase-api/config"
	"reviewbase-api/helper"
	"reviewbase-api/models"
	"reviewbase-api/permissions"
)

var HTTPHelper = &helper.HTTPHelper{}

const actorKey = "actor"

type Claims struct {
	UserID    uint   `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Superuser bool   `json:"superuser"`
	jwt.RegisteredClaims
}

// ActorMiddleware resolves the request's actor from an optional Bearer
// token. Requests without a token proceed anonymously; authorization is the
// policy engine's job downstream. A token that is present but invalid is
// rejected here.
func ActorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set(actorKey, permissions.Anonymous)
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			HTTPHelper.SendUnauthorizedError(c, "Bearer token required", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return config.JWTSecret, nil
		})
		if err != nil || !token.Valid {
			HTTPHelper.SendUnauthorizedError(c, "Invalid token", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		c.Set(actorKey, permissions.Actor{
			Authenticated: true,
			UserID:        claims.UserID,
			Role:          models.UserRole(claims.Role),
			Superuser:     claims.Superuser,
		})
		c.Next()
	}
}

// CurrentActor returns the actor resolved by ActorMiddleware, or the
// anonymous actor when the middleware did not run.
func CurrentActor(c *gin.Context) permissions.Actor {
	if v, exists := c.Get(actorKey); exists {
		if actor, ok := v.(permissions.Actor); ok {
			return actor
		}
	}
	return permissions.Anonymous
}
