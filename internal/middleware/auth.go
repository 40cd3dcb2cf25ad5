package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/pab0412/api-gamer-zeta/internal/apierror"
	"github.com/pab0412/api-gamer-zeta/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimsKey = "claims"
)

// JWTClaims are the custom claims embedded in every access token.
// Subject carries the user id.
type JWTClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Rol   string `json:"rol"`
	jwt.RegisteredClaims
}

// UsuarioID parses the subject claim.
func (c *JWTClaims) UsuarioID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	return uint(id), err
}

// Puede reports whether the token's role holds the capability. Unknown roles
// hold nothing.
func (c *JWTClaims) Puede(p model.Permiso) bool {
	rol, err := model.ParseRol(c.Rol)
	return err == nil && rol.Puede(p)
}

// JWTAuth validates the Bearer token on every protected route.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		}, jwt.WithExpirationRequired())

		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}
		if _, err := claims.UsuarioID(); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Token invalido o expirado"))
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequirePermiso rejects requests whose role lacks the capability.
func RequirePermiso(p model.Permiso) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || !claims.Puede(p) {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		c.Next()
	}
}

// RequirePermisoOrSelf lets the request through when the role holds p or when
// the :param path id is the caller's own id.
func RequirePermisoOrSelf(p model.Permiso, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
			return
		}
		if claims.Puede(p) || c.Param(param) == claims.Subject {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Permisos insuficientes"))
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*JWTClaims)
	return claims
}
