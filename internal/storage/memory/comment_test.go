package memory

import (
	"testing"

	"github.com/VitaminP8/blogpost/internal/storage"
	"github.com/VitaminP8/blogpost/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentMemoryStorage_CreateComment(t *testing.T) {
	posts := NewPostMemoryStorage()
	comments := NewCommentMemoryStorage(posts)

	p := newTestPost("Post", 1)
	require.NoError(t, posts.CreatePost(p))

	t.Run("Comments keep insertion order", func(t *testing.T) {
		for _, text := range []string{"first", "second", "third"} {
			require.NoError(t, comments.CreateComment(&models.Comment{PostID: p.ID, AuthorID: 2, Text: text}))
		}

		list, err := comments.GetCommentsByPost(p.ID)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "first", list[0].Text)
		assert.Equal(t, "second", list[1].Text)
		assert.Equal(t, "third", list[2].Text)
	})

	t.Run("Post does not exist", func(t *testing.T) {
		err := comments.CreateComment(&models.Comment{PostID: 999, AuthorID: 2, Text: "lost"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCommentMemoryStorage_GetCommentsByAuthor(t *testing.T) {
	posts := NewPostMemoryStorage()
	comments := NewCommentMemoryStorage(posts)

	p := newTestPost("Post", 1)
	require.NoError(t, posts.CreatePost(p))
	require.NoError(t, comments.CreateComment(&models.Comment{PostID: p.ID, AuthorID: 2, Text: "mine"}))
	require.NoError(t, comments.CreateComment(&models.Comment{PostID: p.ID, AuthorID: 3, Text: "theirs"}))

	list, err := comments.GetCommentsByAuthor(2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "mine", list[0].Text)
}

func TestCommentMemoryStorage_CascadeOnPostDelete(t *testing.T) {
	posts := NewPostMemoryStorage()
	comments := NewCommentMemoryStorage(posts)

	doomed := newTestPost("Doomed", 1)
	kept := newTestPost("Kept", 1)
	require.NoError(t, posts.CreatePost(doomed))
	require.NoError(t, posts.CreatePost(kept))
	require.NoError(t, comments.CreateComment(&models.Comment{PostID: doomed.ID, AuthorID: 2, Text: "gone"}))
	require.NoError(t, comments.CreateComment(&models.Comment{PostID: kept.ID, AuthorID: 2, Text: "stays"}))

	require.NoError(t, posts.DeletePostById(doomed.ID))

	list, err := comments.GetCommentsByPost(doomed.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = comments.GetCommentsByAuthor(2)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "stays", list[0].Text)
}
