package postgres

import (
	"fmt"

	"github.com/VitaminP8/blogpost/internal/storage"
	"github.com/VitaminP8/blogpost/models"
	"github.com/jinzhu/gorm"
)

type PostPostgresStorage struct{}

func NewPostPostgresStorage() *PostPostgresStorage {
	return &PostPostgresStorage{}
}

func (s *PostPostgresStorage) CreatePost(post *models.BlogPost) error {
	taken, err := titleTaken(DB, post.Title, 0)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("post with title %q: %w", post.Title, storage.ErrDuplicate)
	}

	err = DB.Create(post).Error
	if isDuplicateEntryError(err) {
		post.ID = 0
		return fmt.Errorf("post with title %q: %w", post.Title, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("could not create post: %w", err)
	}

	return nil
}

func (s *PostPostgresStorage) GetPostById(id uint) (*models.BlogPost, error) {
	var post models.BlogPost
	err := DB.First(&post, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("post %d: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("could not get post by id: %w", err)
	}

	return &post, nil
}

func (s *PostPostgresStorage) GetAllPosts() ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	err := DB.Order("id asc").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}

	return posts, nil
}

func (s *PostPostgresStorage) GetPostsByAuthor(authorID uint) ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	err := DB.Where("author_id = ?", authorID).Order("id asc").Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts by author: %w", err)
	}

	return posts, nil
}

func (s *PostPostgresStorage) UpdatePost(post *models.BlogPost) error {
	// Save без существующей записи сделал бы INSERT, поэтому сначала проверяем
	var existing models.BlogPost
	err := DB.First(&existing, post.ID).Error
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("post %d: %w", post.ID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("could not get post by id: %w", err)
	}

	taken, err := titleTaken(DB, post.Title, post.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("post with title %q: %w", post.Title, storage.ErrDuplicate)
	}

	post.CreatedAt = existing.CreatedAt
	err = DB.Save(post).Error
	if isDuplicateEntryError(err) {
		return fmt.Errorf("post with title %q: %w", post.Title, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("could not update post: %w", err)
	}

	return nil
}

func (s *PostPostgresStorage) DeletePostById(id uint) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var post models.BlogPost
		err := tx.First(&post, id).Error
		if gorm.IsRecordNotFoundError(err) {
			return fmt.Errorf("post %d: %w", id, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("post not found: %w", err)
		}

		err = tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error
		if err != nil {
			return fmt.Errorf("could not delete comments of post: %w", err)
		}

		err = tx.Delete(&post).Error
		if err != nil {
			return fmt.Errorf("could not delete post: %w", err)
		}
		return nil
	})
}

func titleTaken(db *gorm.DB, title string, exceptID uint) (bool, error) {
	var count int
	err := db.Model(&models.BlogPost{}).Where("title = ? AND id <> ?", title, exceptID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("could not check title: %w", err)
	}
	return count > 0, nil
}
