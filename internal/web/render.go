package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/VitaminP8/blogpost/internal/auth"
	"github.com/VitaminP8/blogpost/internal/blog"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = []string{"index", "post", "make-post", "register", "login", "about", "contact", "author", "error"}

// pageData - данные для всех шаблонов, каждая страница использует свою часть полей
type pageData struct {
	Title     string
	User      *auth.Identity
	IsAdmin   bool
	Flash     string
	FormError string
	Form      map[string]string
	Year      int

	Posts    []blog.PostView
	Post     *blog.PostDetail
	Activity *blog.AuthorActivity
	Live     bool
	IsEdit   bool
	PostID   uint
	MsgSent  bool

	Status  int
	Message string
}

// renderer держит по отдельному набору шаблонов на страницу: все страницы определяют "content"
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		// тело поста - HTML, который пишет только администратор
		"safe": func(s string) template.HTML { return template.HTML(s) },
	}

	r := &renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(templatesFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

func (s *Server) render(c *gin.Context, status int, page string, data pageData) {
	tmpl, ok := s.renderer.pages[page]
	if !ok {
		logrus.WithField("page", page).Error("Unknown template")
		c.String(http.StatusInternalServerError, "Template Error")
		return
	}

	identity := auth.CurrentIdentity(c)
	data.User = identity
	data.IsAdmin = identity.IsAdmin()
	data.Year = time.Now().Year()
	if data.Flash == "" {
		data.Flash = popFlash(c)
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := tmpl.ExecuteTemplate(c.Writer, "base.html", data); err != nil {
		logrus.WithError(err).WithField("page", page).Error("Template execution failed")
	}
}

func (s *Server) renderError(c *gin.Context, status int, message string) {
	s.render(c, status, "error", pageData{
		Title:   http.StatusText(status),
		Status:  status,
		Message: message,
	})
}
