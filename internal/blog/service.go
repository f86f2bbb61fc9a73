package blog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VitaminP8/blogpost/internal/auth"
	"github.com/VitaminP8/blogpost/internal/comment"
	"github.com/VitaminP8/blogpost/internal/post"
	"github.com/VitaminP8/blogpost/internal/storage"
	"github.com/VitaminP8/blogpost/internal/subscription"
	"github.com/VitaminP8/blogpost/internal/user"
	"github.com/VitaminP8/blogpost/models"
	"github.com/sirupsen/logrus"
)

// DateLayout - формат даты поста, например "October 15, 2026"
const DateLayout = "January 02, 2006"

// Service - вся логика блога поверх трех хранилищ.
// Пользователь запроса передается явно параметром identity (nil - аноним)
type Service struct {
	users    user.UserStorage
	posts    post.PostStorage
	comments comment.CommentStorage
	feed     subscription.Manager
	now      func() time.Time
}

func NewService(users user.UserStorage, posts post.PostStorage, comments comment.CommentStorage) *Service {
	if users == nil || posts == nil || comments == nil {
		panic("storages cannot be nil for blog.Service")
	}
	return &Service{
		users:    users,
		posts:    posts,
		comments: comments,
		now:      time.Now,
	}
}

// UseCommentFeed подключает рассылку новых комментариев открытым страницам поста
func (s *Service) UseCommentFeed(feed subscription.Manager) {
	s.feed = feed
}

type PostInput struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

func (in PostInput) normalized() (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Subtitle = strings.TrimSpace(in.Subtitle)
	in.ImgURL = strings.TrimSpace(in.ImgURL)
	if in.Title == "" || in.Subtitle == "" || in.ImgURL == "" || strings.TrimSpace(in.Body) == "" {
		return in, fmt.Errorf("%w: title, subtitle, body and image url are required", ErrInvalidInput)
	}
	return in, nil
}

type PostView struct {
	Post   *models.BlogPost
	Author *models.User
}

type CommentView struct {
	Comment *models.Comment
	Author  *models.User
}

type PostDetail struct {
	PostView
	Comments []CommentView
}

// AuthorActivity - посты и комментарии одного пользователя
type AuthorActivity struct {
	Author   *models.User
	Posts    []*models.BlogPost
	Comments []*models.Comment
}

func (s *Service) Register(email, password, name string) (*models.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	logCtx := logrus.WithField("email", email)

	if email == "" || password == "" || name == "" {
		return nil, fmt.Errorf("%w: email, password and name are required", ErrInvalidInput)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		logCtx.WithError(err).Error("Failed to hash password during registration")
		return nil, ErrInternal
	}

	u, err := s.users.CreateUser(email, name, hashed)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			logCtx.Warn("Registration failed: email already exists")
			return nil, ErrDuplicateEmail
		}
		logCtx.WithError(err).Error("Database error during user creation")
		return nil, ErrInternal
	}

	logCtx.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("User registered successfully")
	return u, nil
}

func (s *Service) Login(email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	logCtx := logrus.WithField("email", email)

	u, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			logCtx.Warn("Login attempt failed: user not found")
			return nil, ErrUnknownEmail
		}
		logCtx.WithError(err).Error("Login attempt failed: error finding user")
		return nil, ErrInternal
	}

	if !auth.CheckPassword(u.Password, password) {
		logCtx.Warn("Login attempt failed: invalid password")
		return nil, ErrWrongPassword
	}

	logCtx.WithField("user_id", u.ID).Info("User logged in successfully")
	return u, nil
}

func (s *Service) ListPosts() ([]PostView, error) {
	posts, err := s.posts.GetAllPosts()
	if err != nil {
		logrus.WithError(err).Error("Failed to list posts")
		return nil, ErrInternal
	}

	authorIDs := make([]uint, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
	}
	authors, err := s.users.GetUsersByIDs(authorIDs)
	if err != nil {
		logrus.WithError(err).Error("Failed to load post authors")
		return nil, ErrInternal
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, PostView{Post: p, Author: authors[p.AuthorID]})
	}
	return views, nil
}

func (s *Service) GetPost(id uint) (*PostDetail, error) {
	p, err := s.posts.GetPostById(id)
	if err != nil {
		return nil, s.mapLookupError(err, "post_id", id)
	}

	comments, err := s.comments.GetCommentsByPost(id)
	if err != nil {
		logrus.WithError(err).WithField("post_id", id).Error("Failed to load comments")
		return nil, ErrInternal
	}

	userIDs := []uint{p.AuthorID}
	for _, c := range comments {
		userIDs = append(userIDs, c.AuthorID)
	}
	authors, err := s.users.GetUsersByIDs(userIDs)
	if err != nil {
		logrus.WithError(err).WithField("post_id", id).Error("Failed to load comment authors")
		return nil, ErrInternal
	}

	detail := &PostDetail{
		PostView: PostView{Post: p, Author: authors[p.AuthorID]},
		Comments: make([]CommentView, 0, len(comments)),
	}
	for _, c := range comments {
		detail.Comments = append(detail.Comments, CommentView{Comment: c, Author: authors[c.AuthorID]})
	}
	return detail, nil
}

func (s *Service) CreatePost(identity *auth.Identity, in PostInput) (*models.BlogPost, error) {
	if err := auth.RequireAdmin(identity); err != nil {
		return nil, err
	}

	in, err := in.normalized()
	if err != nil {
		return nil, err
	}

	p := &models.BlogPost{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		Body:     in.Body,
		ImgURL:   in.ImgURL,
		AuthorID: identity.UserID,
		Date:     s.now().Format(DateLayout),
	}

	logCtx := logrus.WithFields(logrus.Fields{"user_id": identity.UserID, "title": p.Title})
	err = s.posts.CreatePost(p)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			logCtx.Warn("Post creation failed: duplicate title")
			return nil, ErrDuplicateTitle
		}
		logCtx.WithError(err).Error("Database error during post creation")
		return nil, ErrInternal
	}

	logCtx.WithField("post_id", p.ID).Info("Post created")
	return p, nil
}

// EditPost перезаписывает все поля поста; автором становится редактирующий админ, дата не меняется
func (s *Service) EditPost(identity *auth.Identity, id uint, in PostInput) (*models.BlogPost, error) {
	if err := auth.RequireAdmin(identity); err != nil {
		return nil, err
	}

	p, err := s.posts.GetPostById(id)
	if err != nil {
		return nil, s.mapLookupError(err, "post_id", id)
	}

	in, err = in.normalized()
	if err != nil {
		return nil, err
	}

	p.Title = in.Title
	p.Subtitle = in.Subtitle
	p.Body = in.Body
	p.ImgURL = in.ImgURL
	p.AuthorID = identity.UserID

	logCtx := logrus.WithFields(logrus.Fields{"user_id": identity.UserID, "post_id": id})
	err = s.posts.UpdatePost(p)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			logCtx.Warn("Post update failed: duplicate title")
			return nil, ErrDuplicateTitle
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrNotFound
		}
		logCtx.WithError(err).Error("Database error during post update")
		return nil, ErrInternal
	}

	logCtx.Info("Post updated")
	return p, nil
}

// DeletePost удаляет пост и каскадно его комментарии
func (s *Service) DeletePost(identity *auth.Identity, id uint) error {
	if err := auth.RequireAdmin(identity); err != nil {
		return err
	}

	err := s.posts.DeletePostById(id)
	if err != nil {
		return s.mapLookupError(err, "post_id", id)
	}

	if s.feed != nil {
		s.feed.Close(id)
	}

	logrus.WithFields(logrus.Fields{"user_id": identity.UserID, "post_id": id}).Info("Post deleted")
	return nil
}

func (s *Service) AddComment(identity *auth.Identity, postID uint, text string) (*models.Comment, error) {
	if identity == nil {
		return nil, ErrAuthRequired
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", ErrInvalidInput)
	}

	c := &models.Comment{
		PostID:   postID,
		AuthorID: identity.UserID,
		Text:     text,
	}
	err := s.comments.CreateComment(c)
	if err != nil {
		return nil, s.mapLookupError(err, "post_id", postID)
	}

	if s.feed != nil {
		author := &models.User{Name: identity.Name}
		s.feed.Publish(postID, subscription.CommentEvent{Comment: c, AuthorName: identity.Name, AvatarURL: author.AvatarURL()})
	}

	logrus.WithFields(logrus.Fields{"user_id": identity.UserID, "post_id": postID, "comment_id": c.ID}).Info("Comment added")
	return c, nil
}

func (s *Service) AuthorActivity(userID uint) (*AuthorActivity, error) {
	u, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, s.mapLookupError(err, "user_id", userID)
	}

	posts, err := s.posts.GetPostsByAuthor(userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to load posts by author")
		return nil, ErrInternal
	}

	comments, err := s.comments.GetCommentsByAuthor(userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to load comments by author")
		return nil, ErrInternal
	}

	return &AuthorActivity{Author: u, Posts: posts, Comments: comments}, nil
}

func (s *Service) mapLookupError(err error, field string, id uint) error {
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	logrus.WithError(err).WithField(field, id).Error("Storage error")
	return ErrInternal
}
