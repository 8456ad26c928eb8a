package middleware

import (
	"net/http"
	"strings"

	"github.com/UmangSachdeva/MessMate/helpers"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/UmangSachdeva/MessMate/utils"
	"github.com/gorilla/context"
)

// UserContextKey is where the verified claims live in gorilla/context.
const UserContextKey = "user"

type Auth struct {
	tokens *utils.TokenIssuer
	res    helpers.Responder
}

func NewAuth(tokens *utils.TokenIssuer, res helpers.Responder) *Auth {
	return &Auth{tokens: tokens, res: res}
}

func (a *Auth) AuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.Header.Get("Authorization")
		if tokenString == "" {
			a.res.Fail(w, http.StatusUnauthorized, "Missing Authorization header")
			return
		}

		tokenParts := strings.Split(tokenString, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			a.res.Fail(w, http.StatusUnauthorized, "Invalid Authorization header")
			return
		}

		claims, err := a.tokens.VerifyToken(tokenParts[1])
		if err != nil {
			a.res.Fail(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		context.Set(r, UserContextKey, claims)
		defer context.Clear(r)
		next.ServeHTTP(w, r)
	})
}

// RequireRole admits only callers whose token carries one of roles. It must
// run after AuthenticationMiddleware.
func (a *Auth) RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r)
			if !ok {
				a.res.Fail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			for _, role := range roles {
				if models.Role(claims.Role) == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			a.res.Fail(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}

func ClaimsFrom(r *http.Request) (utils.Claims, bool) {
	claims, ok := context.Get(r, UserContextKey).(utils.Claims)
	return claims, ok
}
