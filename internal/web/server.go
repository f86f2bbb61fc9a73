package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/VitaminP8/blogpost/internal/auth"
	"github.com/VitaminP8/blogpost/internal/blog"
	"github.com/VitaminP8/blogpost/internal/mail"
	"github.com/VitaminP8/blogpost/internal/subscription"
	"github.com/VitaminP8/blogpost/internal/user"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Options struct {
	Production bool
	// SSL - приложение само терминирует TLS (а не nginx перед ним)
	SSL bool
	// Feed - источник новых комментариев для /post/:id/live, nil отключает маршрут
	Feed subscription.Manager
}

type Server struct {
	svc      *blog.Service
	sessions *auth.SessionManager
	notifier mail.Notifier
	feed     subscription.Manager
	renderer *renderer
	Router   *gin.Engine
}

func NewServer(svc *blog.Service, users user.UserStorage, sessions *auth.SessionManager, notifier mail.Notifier, opts Options) (*Server, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())

	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}
	if opts.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}
	router.Use(secure.New(secureConfig))
	router.Use(auth.SessionMiddleware(sessions, users))

	s := &Server{
		svc:      svc,
		sessions: sessions,
		notifier: notifier,
		feed:     opts.Feed,
		renderer: r,
		Router:   router,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.Router

	r.GET("/", s.listPosts)
	r.GET("/register", s.registerPage)
	r.POST("/register", s.registerSubmit)
	r.GET("/login", s.loginPage)
	r.POST("/login", s.loginSubmit)
	r.GET("/logout", s.logout)

	r.GET("/post/:id", s.showPost)
	r.POST("/post/:id", s.addComment)
	r.GET("/author/:id", s.showAuthor)
	if s.feed != nil {
		r.GET("/post/:id/live", s.liveComments)
	}

	admin := r.Group("/", s.adminOnly)
	admin.GET("/new-post", s.newPostPage)
	admin.POST("/new-post", s.newPostSubmit)
	admin.GET("/edit-post/:id", s.editPostPage)
	admin.POST("/edit-post/:id", s.editPostSubmit)
	admin.GET("/delete/:id", s.deletePost)

	r.GET("/about", s.about)
	r.GET("/contact", s.contactPage)
	r.POST("/contact", s.contactSubmit)

	r.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Page not found")
	})
}

// CloseLiveFeeds завершает открытые потоки /post/:id/live, иначе http.Server.Shutdown ждал бы их до таймаута
func (s *Server) CloseLiveFeeds() {
	if s.feed != nil {
		s.feed.CloseAll()
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.Router.ServeHTTP(w, req)
}

// adminOnly отвечает 403 всем, кто не админ, включая анонимов
func (s *Server) adminOnly(c *gin.Context) {
	if err := auth.RequireAdmin(auth.CurrentIdentity(c)); err != nil {
		s.renderError(c, http.StatusForbidden, "You are not allowed to do that.")
		c.Abort()
		return
	}
	c.Next()
}

// handleServiceError переводит ошибки сервиса в HTTP-ответы
func (s *Server) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, blog.ErrNotFound):
		s.renderError(c, http.StatusNotFound, "Not found")
	case errors.Is(err, blog.ErrForbidden):
		s.renderError(c, http.StatusForbidden, "You are not allowed to do that.")
	case errors.Is(err, blog.ErrAuthRequired):
		setFlash(c, "You need to login or register to comment!")
		c.Redirect(http.StatusSeeOther, "/login")
	case errors.Is(err, blog.ErrInvalidInput):
		s.renderError(c, http.StatusBadRequest, "Invalid input")
	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Unhandled internal server error")
		s.renderError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func formValues(c *gin.Context, fields ...string) map[string]string {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f] = c.PostForm(f)
	}
	return values
}

func missingFields(values map[string]string, required ...string) error {
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(values[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("please fill in: %s", strings.Join(missing, ", "))
	}
	return nil
}
