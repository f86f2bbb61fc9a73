package web

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookieName = "flash"

// setFlash сохраняет одноразовое сообщение, которое покажет следующая отрисованная страница
func setFlash(c *gin.Context, message string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(message)),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash читает сообщение и сразу удаляет cookie
func popFlash(c *gin.Context) string {
	value, err := c.Cookie(flashCookieName)
	if err != nil || value == "" {
		return ""
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return ""
	}
	return string(decoded)
}
