package web

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const liveKeepAlive = 30 * time.Second

type liveComment struct {
	ID        uint   `json:"id"`
	Author    string `json:"author"`
	AvatarURL string `json:"avatar_url"`
	Text      string `json:"text"`
}

// liveComments отдает новые комментарии поста как server-sent events, пока клиент не отключится или пост не удалят
func (s *Server) liveComments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		s.renderError(c, http.StatusNotFound, "Not found")
		return
	}
	if _, err := s.svc.GetPost(id); err != nil {
		s.handleServiceError(c, err)
		return
	}

	events, cancel := s.feed.Subscribe(id)
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"post_id": id})
	c.Writer.Flush()

	keepAlive := time.NewTicker(liveKeepAlive)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-events:
			if !ok {
				c.SSEvent("closed", gin.H{"post_id": id})
				return false
			}
			c.SSEvent("comment", liveComment{
				ID:        event.Comment.ID,
				Author:    event.AuthorName,
				AvatarURL: event.AvatarURL,
				Text:      event.Comment.Text,
			})
			return true
		case <-keepAlive.C:
			c.SSEvent("ping", time.Now().Unix())
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
