package post

import (
	"github.com/VitaminP8/blogpost/models"
)

type PostStorage interface {
	CreatePost(post *models.BlogPost) error
	GetPostById(id uint) (*models.BlogPost, error)
	GetAllPosts() ([]*models.BlogPost, error)
	GetPostsByAuthor(authorID uint) ([]*models.BlogPost, error)
	UpdatePost(post *models.BlogPost) error
	// DeletePostById удаляет пост вместе с его комментариями
	DeletePostById(id uint) error
}
