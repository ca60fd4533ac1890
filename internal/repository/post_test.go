package repository

import (
	"testing"

	"bondtree/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_ReactionIdempotence(t *testing.T) {
	repo := NewPostRepository(testDB)
	author := createTestUser(t)
	viewer := createTestUser(t)
	post := createTestPost(t, author.ID)

	created, err := repo.React(testCtx, viewer.ID, post.ID, models.ReactionLikes)
	require.NoError(t, err)
	assert.True(t, created)

	// The double-tap changes nothing
	created, err = repo.React(testCtx, viewer.ID, post.ID, models.ReactionLikes)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.GetByID(testCtx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)

	// A different kind by the same viewer is a separate row
	created, err = repo.React(testCtx, viewer.ID, post.ID, models.ReactionHearts)
	require.NoError(t, err)
	assert.True(t, created)

	kinds, err := repo.GetReactionKinds(testCtx, viewer.ID, post.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{models.ReactionLikes, models.ReactionHearts}, kinds)
}

func TestPostRepository_Unreact(t *testing.T) {
	repo := NewPostRepository(testDB)
	author := createTestUser(t)
	viewer := createTestUser(t)
	post := createTestPost(t, author.ID)

	_, err := repo.React(testCtx, viewer.ID, post.ID, models.ReactionHearts)
	require.NoError(t, err)
	require.NoError(t, repo.Unreact(testCtx, viewer.ID, post.ID, models.ReactionHearts))

	got, err := repo.GetByID(testCtx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.HeartsCount)

	// Removing an absent reaction is a no-op
	assert.NoError(t, repo.Unreact(testCtx, viewer.ID, post.ID, models.ReactionHearts))
}

func TestPostRepository_CountersComputedAtRead(t *testing.T) {
	repo := NewPostRepository(testDB)
	author := createTestUser(t)
	post := createTestPost(t, author.ID)

	for i := 0; i < 3; i++ {
		reactor := createTestUser(t)
		_, err := repo.React(testCtx, reactor.ID, post.ID, models.ReactionCelebrates)
		require.NoError(t, err)
	}
	require.NoError(t, repo.CreateComment(testCtx, &models.Comment{
		Content: "congrats", AuthorID: author.ID, PostID: post.ID,
	}))

	got, err := repo.GetByID(testCtx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.CelebratesCount)
	assert.Equal(t, 0, got.LikesCount)
	assert.Equal(t, 1, got.CommentsCount)
	assert.Equal(t, author.Username, got.Author.Username)
}

func TestPostRepository_DeletedCommentLeavesCount(t *testing.T) {
	repo := NewPostRepository(testDB)
	author := createTestUser(t)
	post := createTestPost(t, author.ID)

	comment := &models.Comment{Content: "first", AuthorID: author.ID, PostID: post.ID}
	require.NoError(t, repo.CreateComment(testCtx, comment))
	require.NoError(t, repo.DeleteComment(testCtx, comment.ID))

	got, err := repo.GetByID(testCtx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CommentsCount)
}

func TestPostRepository_GetByAuthorIDs(t *testing.T) {
	repo := NewPostRepository(testDB)
	alice := createTestUser(t)
	bob := createTestUser(t)
	carol := createTestUser(t)

	p1 := createTestPost(t, alice.ID)
	p2 := createTestPost(t, bob.ID)
	createTestPost(t, carol.ID)

	posts, err := repo.GetByAuthorIDs(testCtx, []uint{alice.ID, bob.ID}, 20, 0)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	ids := []uint{posts[0].ID, posts[1].ID}
	assert.ElementsMatch(t, []uint{p1.ID, p2.ID}, ids)

	empty, err := repo.GetByAuthorIDs(testCtx, nil, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostRepository_MediaOrdering(t *testing.T) {
	repo := NewPostRepository(testDB)
	author := createTestUser(t)
	post := createTestPost(t, author.ID)

	for i, path := range []string{"aa/one.jpg", "bb/two.jpg", "cc/three.jpg"} {
		require.NoError(t, repo.CreateMedia(testCtx, &models.PostMedia{
			PostID:      post.ID,
			URL:         "/media/" + path,
			Type:        models.MediaTypeImage,
			StoragePath: path,
			Position:    i,
		}))
	}

	media, err := repo.GetMedia(testCtx, post.ID)
	require.NoError(t, err)
	require.Len(t, media, 3)
	assert.Equal(t, "aa/one.jpg", media[0].StoragePath)
	assert.Equal(t, "cc/three.jpg", media[2].StoragePath)

	got, err := repo.GetByID(testCtx, post.ID)
	require.NoError(t, err)
	require.Len(t, got.Media, 3)
	assert.Equal(t, 0, got.Media[0].Position)
}

func TestPostRepository_DeleteHidesPost(t *testing.T) {
	repo := NewPostRepository(testDB)
	author := createTestUser(t)
	post := createTestPost(t, author.ID)

	require.NoError(t, repo.Delete(testCtx, post.ID))

	_, err := repo.GetByID(testCtx, post.ID)
	require.Error(t, err)
	assert.Equal(t, 404, models.StatusForError(err))

	posts, err := repo.GetByAuthorIDs(testCtx, []uint{author.ID}, 20, 0)
	require.NoError(t, err)
	assert.Empty(t, posts)
}
