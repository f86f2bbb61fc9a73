package blog

import (
	"errors"
	"testing"
	"time"

	"github.com/VitaminP8/blogpost/internal/auth"
	"github.com/VitaminP8/blogpost/internal/mocks"
	"github.com/VitaminP8/blogpost/internal/subscription"
	"github.com/VitaminP8/blogpost/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	svc      *Service
	users    *mocks.MockUserStorage
	posts    *mocks.MockPostStorage
	comments *mocks.MockCommentStorage
}

func newTestEnv() *testEnv {
	users := mocks.NewMockUserStorage()
	posts := mocks.NewMockPostStorage()
	comments := mocks.NewMockCommentStorage(posts)

	svc := NewService(users, posts, comments)
	svc.now = func() time.Time { return time.Date(2026, time.October, 5, 12, 0, 0, 0, time.UTC) }

	return &testEnv{svc: svc, users: users, posts: posts, comments: comments}
}

// registerIdentity регистрирует пользователя и возвращает его identity
func (e *testEnv) registerIdentity(t *testing.T, email string) *auth.Identity {
	u, err := e.svc.Register(email, "password123", "Name "+email)
	require.NoError(t, err)
	return auth.NewIdentity(u)
}

func validInput(title string) PostInput {
	return PostInput{
		Title:    title,
		Subtitle: "Subtitle",
		Body:     "<p>Body</p>",
		ImgURL:   "https://example.com/img.jpg",
	}
}

func TestService_Register(t *testing.T) {
	t.Run("First user is admin, password is hashed", func(t *testing.T) {
		env := newTestEnv()

		u, err := env.svc.Register("admin@example.com", "password123", "Admin")
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, u.Role)
		assert.NotEqual(t, "password123", u.Password)
		assert.True(t, auth.CheckPassword(u.Password, "password123"))

		member, err := env.svc.Register("member@example.com", "password123", "Member")
		require.NoError(t, err)
		assert.Equal(t, models.RoleMember, member.Role)
	})

	t.Run("Registering twice never creates two users", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.svc.Register("twice@example.com", "password123", "One")
		require.NoError(t, err)

		_, err = env.svc.Register("twice@example.com", "other", "Two")
		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.Equal(t, 1, env.users.Count())
	})

	t.Run("Required fields", func(t *testing.T) {
		env := newTestEnv()

		_, err := env.svc.Register("  ", "password123", "Name")
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = env.svc.Register("a@example.com", "", "Name")
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = env.svc.Register("a@example.com", "password123", "")
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Zero(t, env.users.Count())
	})

	t.Run("Storage failure", func(t *testing.T) {
		env := newTestEnv()
		env.users.Err = errors.New("db is down")

		_, err := env.svc.Register("a@example.com", "password123", "Name")
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_Login(t *testing.T) {
	env := newTestEnv()
	_, err := env.svc.Register("user@example.com", "password123", "User")
	require.NoError(t, err)

	t.Run("Correct credentials", func(t *testing.T) {
		u, err := env.svc.Login(" user@example.com ", "password123")
		require.NoError(t, err)
		assert.Equal(t, "User", u.Name)
	})

	t.Run("Unknown email", func(t *testing.T) {
		_, err := env.svc.Login("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrUnknownEmail)
	})

	t.Run("Wrong password", func(t *testing.T) {
		u, err := env.svc.Login("user@example.com", "wrong")
		assert.ErrorIs(t, err, ErrWrongPassword)
		assert.Nil(t, u)
	})
}

func TestService_CreatePost(t *testing.T) {
	env := newTestEnv()
	admin := env.registerIdentity(t, "admin@example.com")
	member := env.registerIdentity(t, "member@example.com")

	t.Run("Admin creates post with display date", func(t *testing.T) {
		p, err := env.svc.CreatePost(admin, validInput("First"))
		require.NoError(t, err)
		assert.Equal(t, "October 05, 2026", p.Date)
		assert.Equal(t, admin.UserID, p.AuthorID)

		saved, err := env.posts.GetPostById(p.ID)
		require.NoError(t, err)
		assert.Equal(t, "First", saved.Title)
	})

	t.Run("Duplicate title leaves store unchanged", func(t *testing.T) {
		_, err := env.svc.CreatePost(admin, validInput("First"))
		assert.ErrorIs(t, err, ErrDuplicateTitle)

		posts, err := env.posts.GetAllPosts()
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("Member and anonymous are forbidden", func(t *testing.T) {
		_, err := env.svc.CreatePost(member, validInput("Member post"))
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = env.svc.CreatePost(nil, validInput("Anonymous post"))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("Missing fields", func(t *testing.T) {
		in := validInput("No image")
		in.ImgURL = ""
		_, err := env.svc.CreatePost(admin, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_EditPost(t *testing.T) {
	env := newTestEnv()
	admin := env.registerIdentity(t, "admin@example.com")
	member := env.registerIdentity(t, "member@example.com")

	original, err := env.svc.CreatePost(admin, validInput("Original"))
	require.NoError(t, err)
	other, err := env.svc.CreatePost(admin, validInput("Other"))
	require.NoError(t, err)

	// второй админ, чтобы проверить переназначение автора
	secondAdmin := &auth.Identity{UserID: member.UserID, Name: member.Name, Role: models.RoleAdmin}

	t.Run("Updates all fields and reassigns author", func(t *testing.T) {
		in := PostInput{Title: "Edited", Subtitle: "New sub", Body: "<p>New</p>", ImgURL: "https://example.com/new.jpg"}
		_, err := env.svc.EditPost(secondAdmin, original.ID, in)
		require.NoError(t, err)

		saved, err := env.posts.GetPostById(original.ID)
		require.NoError(t, err)
		assert.Equal(t, "Edited", saved.Title)
		assert.Equal(t, "New sub", saved.Subtitle)
		assert.Equal(t, "<p>New</p>", saved.Body)
		assert.Equal(t, "https://example.com/new.jpg", saved.ImgURL)
		assert.Equal(t, secondAdmin.UserID, saved.AuthorID)
		assert.Equal(t, original.Date, saved.Date)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := env.svc.EditPost(admin, 999, validInput("Whatever"))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Duplicate title", func(t *testing.T) {
		_, err := env.svc.EditPost(admin, other.ID, validInput("Edited"))
		assert.ErrorIs(t, err, ErrDuplicateTitle)

		saved, err := env.posts.GetPostById(other.ID)
		require.NoError(t, err)
		assert.Equal(t, "Other", saved.Title)
	})

	t.Run("Forbidden is checked before lookup", func(t *testing.T) {
		_, err := env.svc.EditPost(member, 999, validInput("Whatever"))
		assert.ErrorIs(t, err, ErrForbidden)

		_, err = env.svc.EditPost(nil, original.ID, validInput("Whatever"))
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestService_DeletePost(t *testing.T) {
	env := newTestEnv()
	admin := env.registerIdentity(t, "admin@example.com")
	member := env.registerIdentity(t, "member@example.com")

	p, err := env.svc.CreatePost(admin, validInput("Doomed"))
	require.NoError(t, err)

	t.Run("Forbidden for member and anonymous", func(t *testing.T) {
		assert.ErrorIs(t, env.svc.DeletePost(member, p.ID), ErrForbidden)
		assert.ErrorIs(t, env.svc.DeletePost(nil, p.ID), ErrForbidden)
		assert.Empty(t, env.posts.DeletedIDs)
	})

	t.Run("Deleted post disappears", func(t *testing.T) {
		require.NoError(t, env.svc.DeletePost(admin, p.ID))

		views, err := env.svc.ListPosts()
		require.NoError(t, err)
		assert.Empty(t, views)

		_, err = env.svc.GetPost(p.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Deleting again is not found", func(t *testing.T) {
		assert.ErrorIs(t, env.svc.DeletePost(admin, p.ID), ErrNotFound)
	})
}

func TestService_AddComment(t *testing.T) {
	env := newTestEnv()
	admin := env.registerIdentity(t, "admin@example.com")
	member := env.registerIdentity(t, "member@example.com")

	p, err := env.svc.CreatePost(admin, validInput("Post"))
	require.NoError(t, err)

	t.Run("Anonymous comment is never persisted", func(t *testing.T) {
		_, err := env.svc.AddComment(nil, p.ID, "hello")
		assert.ErrorIs(t, err, ErrAuthRequired)
		assert.Zero(t, env.comments.Len())
	})

	t.Run("Member comments in order", func(t *testing.T) {
		_, err := env.svc.AddComment(member, p.ID, "first")
		require.NoError(t, err)
		_, err = env.svc.AddComment(admin, p.ID, "second")
		require.NoError(t, err)

		detail, err := env.svc.GetPost(p.ID)
		require.NoError(t, err)
		require.Len(t, detail.Comments, 2)
		assert.Equal(t, "first", detail.Comments[0].Comment.Text)
		assert.Equal(t, member.Name, detail.Comments[0].Author.Name)
		assert.Equal(t, "second", detail.Comments[1].Comment.Text)
		assert.Equal(t, admin.Name, detail.Comments[1].Author.Name)
	})

	t.Run("Empty text", func(t *testing.T) {
		_, err := env.svc.AddComment(member, p.ID, "   ")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("Post not found", func(t *testing.T) {
		_, err := env.svc.AddComment(member, 999, "lost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_ListAndGet(t *testing.T) {
	env := newTestEnv()
	admin := env.registerIdentity(t, "admin@example.com")

	for _, title := range []string{"One", "Two"} {
		_, err := env.svc.CreatePost(admin, validInput(title))
		require.NoError(t, err)
	}

	t.Run("List with authors", func(t *testing.T) {
		views, err := env.svc.ListPosts()
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "One", views[0].Post.Title)
		assert.Equal(t, admin.Name, views[0].Author.Name)
	})

	t.Run("Get missing post", func(t *testing.T) {
		_, err := env.svc.GetPost(999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Storage failure is internal", func(t *testing.T) {
		env.posts.Err = errors.New("db is down")
		defer func() { env.posts.Err = nil }()

		_, err := env.svc.ListPosts()
		assert.ErrorIs(t, err, ErrInternal)

		_, err = env.svc.GetPost(1)
		assert.ErrorIs(t, err, ErrInternal)
	})
}

func TestService_AuthorActivity(t *testing.T) {
	env := newTestEnv()
	admin := env.registerIdentity(t, "admin@example.com")
	member := env.registerIdentity(t, "member@example.com")

	p, err := env.svc.CreatePost(admin, validInput("Post"))
	require.NoError(t, err)
	_, err = env.svc.AddComment(member, p.ID, "hi")
	require.NoError(t, err)

	activity, err := env.svc.AuthorActivity(admin.UserID)
	require.NoError(t, err)
	assert.Len(t, activity.Posts, 1)
	assert.Empty(t, activity.Comments)

	activity, err = env.svc.AuthorActivity(member.UserID)
	require.NoError(t, err)
	assert.Empty(t, activity.Posts)
	require.Len(t, activity.Comments, 1)
	assert.Equal(t, "hi", activity.Comments[0].Text)

	_, err = env.svc.AuthorActivity(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CommentFeed(t *testing.T) {
	env := newTestEnv()
	feed := subscription.NewSubscriptionManager()
	env.svc.UseCommentFeed(feed)

	admin := env.registerIdentity(t, "admin@example.com")
	p, err := env.svc.CreatePost(admin, validInput("Live"))
	require.NoError(t, err)

	events, cancel := feed.Subscribe(p.ID)
	defer cancel()

	c, err := env.svc.AddComment(admin, p.ID, "  live comment ")
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, c.ID, event.Comment.ID)
		assert.Equal(t, "live comment", event.Comment.Text)
		assert.Equal(t, admin.Name, event.AuthorName)
		assert.Contains(t, event.AvatarURL, models.AvatarGeneratorURL)
	case <-time.After(time.Second):
		t.Fatal("comment was not published")
	}

	require.NoError(t, env.svc.DeletePost(admin, p.ID))

	select {
	case _, ok := <-events:
		assert.False(t, ok, "feed should be closed after the post is deleted")
	case <-time.After(time.Second):
		t.Fatal("feed was not closed")
	}
}
