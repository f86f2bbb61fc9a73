package postgres

import (
	"fmt"

	"github.com/VitaminP8/blogpost/internal/storage"
	"github.com/VitaminP8/blogpost/models"
	"github.com/jinzhu/gorm"
)

type CommentPostgresStorage struct{}

func NewCommentPostgresStorage() *CommentPostgresStorage {
	return &CommentPostgresStorage{}
}

func (s *CommentPostgresStorage) CreateComment(comment *models.Comment) error {
	var post models.BlogPost
	err := DB.First(&post, comment.PostID).Error
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("post %d: %w", comment.PostID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("could not get post: %w", err)
	}

	err = DB.Create(comment).Error
	if err != nil {
		return fmt.Errorf("could not create comment: %w", err)
	}

	return nil
}

func (s *CommentPostgresStorage) GetCommentsByPost(postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := DB.Where("post_id = ?", postID).Order("id asc").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comments: %w", err)
	}

	return comments, nil
}

func (s *CommentPostgresStorage) GetCommentsByAuthor(authorID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := DB.Where("author_id = ?", authorID).Order("id asc").Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comments by author: %w", err)
	}

	return comments, nil
}
