package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CartCookie     = "cart_session"
	CartSessionKey = "cart_session"

	cartCookieMaxAge = 30 * 24 * 60 * 60
)

// CartSession makes sure every request carries a cart session id, issuing a
// new cookie when the client has none or sends a malformed one.
func CartSession(secure bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		session, err := ctx.Cookie(CartCookie)
		if err != nil || uuid.Validate(session) != nil {
			session = uuid.NewString()
		}
		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(CartCookie, session, cartCookieMaxAge, "/", "", secure, true)
		ctx.Set(CartSessionKey, session)
		ctx.Next()
	}
}
