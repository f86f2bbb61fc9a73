package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/VitaminP8/blogpost/internal/auth"
	"github.com/VitaminP8/blogpost/internal/blog"
	"github.com/gin-gonic/gin"
)

var postFields = []string{"title", "subtitle", "img_url", "body"}

func (s *Server) listPosts(c *gin.Context) {
	posts, err := s.svc.ListPosts()
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	s.render(c, http.StatusOK, "index", pageData{Title: "Home", Posts: posts})
}

func (s *Server) showPost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Not found")
		return
	}
	s.renderPost(c, id, http.StatusOK, nil, "")
}

func (s *Server) renderPost(c *gin.Context, id uint, status int, form map[string]string, formError string) {
	detail, err := s.svc.GetPost(id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	s.render(c, status, "post", pageData{Title: detail.Post.Title, Post: detail, Live: s.feed != nil, Form: form, FormError: formError})
}

func (s *Server) addComment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Not found")
		return
	}

	text := c.PostForm("comment")
	_, err := s.svc.AddComment(auth.CurrentIdentity(c), id, text)
	if errors.Is(err, blog.ErrInvalidInput) {
		s.renderPost(c, id, http.StatusBadRequest, map[string]string{"comment": text}, "Comment cannot be empty.")
		return
	}
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/post/%d", id))
}

func (s *Server) showAuthor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Not found")
		return
	}

	activity, err := s.svc.AuthorActivity(id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	s.render(c, http.StatusOK, "author", pageData{Title: activity.Author.Name, Activity: activity})
}

func (s *Server) newPostPage(c *gin.Context) {
	s.render(c, http.StatusOK, "make-post", pageData{Title: "New Post"})
}

func (s *Server) newPostSubmit(c *gin.Context) {
	form := formValues(c, postFields...)
	if err := missingFields(form, postFields...); err != nil {
		s.render(c, http.StatusBadRequest, "make-post", pageData{Title: "New Post", Form: form, FormError: err.Error()})
		return
	}

	_, err := s.svc.CreatePost(auth.CurrentIdentity(c), postInput(form))
	if errors.Is(err, blog.ErrDuplicateTitle) {
		s.render(c, http.StatusConflict, "make-post", pageData{Title: "New Post", Form: form, FormError: "A post with this title already exists."})
		return
	}
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) editPostPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Not found")
		return
	}

	detail, err := s.svc.GetPost(id)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	form := map[string]string{
		"title":    detail.Post.Title,
		"subtitle": detail.Post.Subtitle,
		"img_url":  detail.Post.ImgURL,
		"body":     detail.Post.Body,
	}
	s.render(c, http.StatusOK, "make-post", pageData{Title: "Edit Post", Form: form, IsEdit: true, PostID: id})
}

func (s *Server) editPostSubmit(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Not found")
		return
	}

	form := formValues(c, postFields...)
	data := pageData{Title: "Edit Post", Form: form, IsEdit: true, PostID: id}
	if err := missingFields(form, postFields...); err != nil {
		data.FormError = err.Error()
		s.render(c, http.StatusBadRequest, "make-post", data)
		return
	}

	_, err := s.svc.EditPost(auth.CurrentIdentity(c), id, postInput(form))
	if errors.Is(err, blog.ErrDuplicateTitle) {
		data.FormError = "A post with this title already exists."
		s.render(c, http.StatusConflict, "make-post", data)
		return
	}
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/post/%d", id))
}

func (s *Server) deletePost(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Not found")
		return
	}

	if err := s.svc.DeletePost(auth.CurrentIdentity(c), id); err != nil {
		s.handleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func postInput(form map[string]string) blog.PostInput {
	return blog.PostInput{
		Title:    form["title"],
		Subtitle: form["subtitle"],
		Body:     form["body"],
		ImgURL:   form["img_url"],
	}
}
