package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/VitaminP8/blogpost/internal/auth"
	"github.com/VitaminP8/blogpost/internal/blog"
	"github.com/VitaminP8/blogpost/models"
	"github.com/gin-gonic/gin"
)

func (s *Server) registerPage(c *gin.Context) {
	s.render(c, http.StatusOK, "register", pageData{Title: "Register"})
}

func (s *Server) registerSubmit(c *gin.Context) {
	form := formValues(c, "email", "name")
	password := c.PostForm("password")

	if err := missingFields(map[string]string{"email": form["email"], "password": password, "name": form["name"]}, "email", "password", "name"); err != nil {
		s.render(c, http.StatusBadRequest, "register", pageData{Title: "Register", Form: form, FormError: err.Error()})
		return
	}

	u, err := s.svc.Register(form["email"], password, form["name"])
	if err != nil {
		if errors.Is(err, blog.ErrDuplicateEmail) {
			setFlash(c, "You've already signed up with that email, please login instead.")
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		s.handleServiceError(c, err)
		return
	}

	if !s.startSession(c, u) {
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) loginPage(c *gin.Context) {
	s.render(c, http.StatusOK, "login", pageData{Title: "Login"})
}

func (s *Server) loginSubmit(c *gin.Context) {
	form := formValues(c, "email")
	password := c.PostForm("password")

	if err := missingFields(map[string]string{"email": form["email"], "password": password}, "email", "password"); err != nil {
		s.render(c, http.StatusBadRequest, "login", pageData{Title: "Login", Form: form, FormError: err.Error()})
		return
	}

	u, err := s.svc.Login(form["email"], password)
	switch {
	case errors.Is(err, blog.ErrUnknownEmail):
		s.render(c, http.StatusUnauthorized, "login", pageData{Title: "Login", Form: form, Flash: "The user's email does not exist, please try again!"})
		return
	case errors.Is(err, blog.ErrWrongPassword):
		s.render(c, http.StatusUnauthorized, "login", pageData{Title: "Login", Form: form, Flash: "Password is incorrect, please try again!"})
		return
	case err != nil:
		s.handleServiceError(c, err)
		return
	}

	if !s.startSession(c, u) {
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// logout всегда чистит cookie, даже если сессии не было
func (s *Server) logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isHTTPS(c),
		SameSite: http.SameSiteLaxMode,
	})
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) startSession(c *gin.Context, u *models.User) bool {
	token, err := s.sessions.Issue(u)
	if err != nil {
		s.handleServiceError(c, err)
		return false
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.sessions.TTL().Seconds()),
		HttpOnly: true,
		Secure:   isHTTPS(c),
		SameSite: http.SameSiteLaxMode,
	})
	return true
}

func isHTTPS(c *gin.Context) bool {
	return c.Request.TLS != nil || strings.EqualFold(c.GetHeader("X-Forwarded-Proto"), "https")
}
