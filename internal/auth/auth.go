package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	chat "school-app-backend/internal/pkg/chat/application/domain"
)

const (
	// ContextUserID is the gin context key holding the verified user id.
	ContextUserID = "auth_user_id"
	// ContextUserRole is the gin context key holding the verified role.
	ContextUserRole = "auth_user_role"
)

var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Identity is the resolved caller extracted from a verified token. Token
// issuance lives in the identity service; this package only verifies.
type Identity struct {
	UserID string
	Role   chat.UserRole
}

func secret() []byte {
	return []byte(os.Getenv("ACCESS_SECRET"))
}

// VerifyToken parses and validates an HS256 access token and extracts the
// user_id and role claims.
func VerifyToken(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return nil, ErrInvalidToken
	}

	return &Identity{UserID: userID, Role: chat.UserRole(role)}, nil
}

// Middleware verifies the Authorization bearer token and stores the caller's
// identity on the gin context.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"error":   "unauthorized",
				"message": "missing bearer token",
			})
			return
		}

		id, err := VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"error":   "unauthorized",
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(ContextUserID, id.UserID)
		c.Set(ContextUserRole, id.Role)
		c.Next()
	}
}

// VerifyRequest resolves the identity for a websocket handshake, where
// browser clients cannot set headers: the token may arrive either as a
// bearer header or as a "token" query parameter.
func VerifyRequest(r *http.Request) (*Identity, error) {
	var tokenString string
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		tokenString = strings.TrimPrefix(header, "Bearer ")
	} else {
		tokenString = r.URL.Query().Get("token")
	}
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	return VerifyToken(tokenString)
}

// IdentityFrom reads the verified identity stored by Middleware.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	userID, ok := c.Get(ContextUserID)
	if !ok {
		return Identity{}, false
	}
	role, ok := c.Get(ContextUserRole)
	if !ok {
		return Identity{}, false
	}

	uid, _ := userID.(string)
	r, _ := role.(chat.UserRole)
	if uid == "" || r == "" {
		return Identity{}, false
	}
	return Identity{UserID: uid, Role: r}, true
}
