package web

import (
	"net/http"

	"github.com/VitaminP8/blogpost/internal/mail"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var contactFields = []string{"name", "email", "phone", "message"}

func (s *Server) about(c *gin.Context) {
	s.render(c, http.StatusOK, "about", pageData{Title: "About"})
}

func (s *Server) contactPage(c *gin.Context) {
	s.render(c, http.StatusOK, "contact", pageData{Title: "Contact"})
}

func (s *Server) contactSubmit(c *gin.Context) {
	form := formValues(c, contactFields...)
	if err := missingFields(form, "name", "email", "message"); err != nil {
		s.render(c, http.StatusBadRequest, "contact", pageData{Title: "Contact", Form: form, FormError: err.Error()})
		return
	}

	msg := mail.ContactMessage{
		Name:    form["name"],
		Email:   form["email"],
		Phone:   form["phone"],
		Message: form["message"],
	}
	if err := s.notifier.Send(msg); err != nil {
		logrus.WithError(err).Error("Failed to deliver contact message")
		s.render(c, http.StatusBadGateway, "contact", pageData{Title: "Contact", Form: form, FormError: "Your message could not be sent, please try again later."})
		return
	}

	s.render(c, http.StatusOK, "contact", pageData{Title: "Contact", MsgSent: true})
}
