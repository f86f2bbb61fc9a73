package comment

import (
	"github.com/VitaminP8/blogpost/models"
)

type CommentStorage interface {
	CreateComment(comment *models.Comment) error
	// GetCommentsByPost возвращает комментарии в порядке добавления
	GetCommentsByPost(postID uint) ([]*models.Comment, error)
	GetCommentsByAuthor(authorID uint) ([]*models.Comment, error)
}
