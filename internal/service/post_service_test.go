package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"bondtree/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// postFixture wires a PostService around an in-memory post map so the
// create/get round-trips the services rely on actually work.
type postFixture struct {
	svc      *PostService
	posts    map[uint]*models.Post
	comments map[uint]*models.Comment
	media    map[uint][]models.PostMedia
	store    *blobStoreStub
	deleted  []string
}

func newPostFixture(t *testing.T, friendIDs ...uint) *postFixture {
	t.Helper()
	f := &postFixture{
		posts:    map[uint]*models.Post{},
		comments: map[uint]*models.Comment{},
		media:    map[uint][]models.PostMedia{},
	}
	nextPostID := uint(0)
	nextCommentID := uint(0)

	repo := &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			nextPostID++
			p.ID = nextPostID
			stored := *p
			f.posts[p.ID] = &stored
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			p, ok := f.posts[id]
			if !ok {
				return nil, models.NewNotFoundError("Post", id)
			}
			stored := *p
			return &stored, nil
		},
		updateFn: func(_ context.Context, p *models.Post) error {
			stored := *p
			f.posts[p.ID] = &stored
			return nil
		},
		deleteFn: func(_ context.Context, id uint) error {
			delete(f.posts, id)
			return nil
		},
		createCommentFn: func(_ context.Context, c *models.Comment) error {
			nextCommentID++
			c.ID = nextCommentID
			stored := *c
			f.comments[c.ID] = &stored
			return nil
		},
		getCommentByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			c, ok := f.comments[id]
			if !ok {
				return nil, models.NewNotFoundError("Comment", id)
			}
			stored := *c
			return &stored, nil
		},
		deleteCommentFn: func(_ context.Context, id uint) error {
			delete(f.comments, id)
			return nil
		},
		createMediaFn: func(_ context.Context, m *models.PostMedia) error {
			m.ID = uint(len(f.media[m.PostID]) + 1)
			f.media[m.PostID] = append(f.media[m.PostID], *m)
			return nil
		},
		getMediaFn: func(_ context.Context, postID uint) ([]models.PostMedia, error) {
			return f.media[postID], nil
		},
	}

	f.store = &blobStoreStub{
		deleteFn: func(path string) error {
			f.deleted = append(f.deleted, path)
			return nil
		},
	}

	friends := friendsWith(friendIDs...)
	visibility := NewVisibilityService(repo, friends, time.Minute)
	f.svc = NewPostService(repo, friends, visibility, f.store)
	return f
}

func TestCreatePost(t *testing.T) {
	t.Run("Public Default", func(t *testing.T) {
		f := newPostFixture(t)
		post, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "  hello tree  "})
		require.NoError(t, err)
		assert.Equal(t, "hello tree", post.Content)
		assert.Equal(t, models.PostPrivacyPublic, post.Privacy)
		assert.Empty(t, post.PasscodeHash)
	})

	t.Run("Content Required", func(t *testing.T) {
		f := newPostFixture(t)
		_, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "   "})
		require.Error(t, err)
		assert.Equal(t, 400, models.StatusForError(err))
	})

	t.Run("Content Too Long", func(t *testing.T) {
		f := newPostFixture(t)
		_, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: strings.Repeat("x", MaxPostContentLength+1)})
		require.Error(t, err)
	})

	t.Run("Passcode Post Stores Hash Only", func(t *testing.T) {
		f := newPostFixture(t)
		post, err := f.svc.CreatePost(context.Background(), 1, PostInput{
			Content: "secret", Privacy: models.PostPrivacyPasscode, Passcode: "4242",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, post.PasscodeHash)
		assert.NotContains(t, post.PasscodeHash, "4242")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(post.PasscodeHash), []byte("4242")))
	})

	t.Run("Passcode Required", func(t *testing.T) {
		f := newPostFixture(t)
		_, err := f.svc.CreatePost(context.Background(), 1, PostInput{
			Content: "secret", Privacy: models.PostPrivacyPasscode,
		})
		require.Error(t, err)
		assert.Equal(t, 400, models.StatusForError(err))
	})

	t.Run("Passcode Format Checked", func(t *testing.T) {
		f := newPostFixture(t)
		_, err := f.svc.CreatePost(context.Background(), 1, PostInput{
			Content: "secret", Privacy: models.PostPrivacyPasscode, Passcode: "12345",
		})
		require.Error(t, err)
		assert.Equal(t, 400, models.StatusForError(err))
	})

	t.Run("Unknown Privacy", func(t *testing.T) {
		f := newPostFixture(t)
		_, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "x", Privacy: "secret"})
		require.Error(t, err)
	})
}

func TestUpdatePost(t *testing.T) {
	setup := func(t *testing.T) (*postFixture, *models.Post) {
		f := newPostFixture(t)
		post, err := f.svc.CreatePost(context.Background(), 1, PostInput{
			Content: "secret", Privacy: models.PostPrivacyPasscode, Passcode: "4242",
		})
		require.NoError(t, err)
		return f, post
	}

	t.Run("Owner Only", func(t *testing.T) {
		f, post := setup(t)
		content := "edited"
		_, err := f.svc.UpdatePost(context.Background(), 2, post.ID, PostUpdate{Content: &content})
		require.Error(t, err)
		assert.Equal(t, 403, models.StatusForError(err))
	})

	t.Run("Switch To Public Clears Hash", func(t *testing.T) {
		f, post := setup(t)
		public := models.PostPrivacyPublic
		updated, err := f.svc.UpdatePost(context.Background(), 1, post.ID, PostUpdate{Privacy: &public})
		require.NoError(t, err)
		assert.Equal(t, models.PostPrivacyPublic, updated.Privacy)
		assert.Empty(t, updated.PasscodeHash)
	})

	t.Run("Switch Back Needs New Code", func(t *testing.T) {
		f, post := setup(t)
		public := models.PostPrivacyPublic
		_, err := f.svc.UpdatePost(context.Background(), 1, post.ID, PostUpdate{Privacy: &public})
		require.NoError(t, err)

		passcode := models.PostPrivacyPasscode
		_, err = f.svc.UpdatePost(context.Background(), 1, post.ID, PostUpdate{Privacy: &passcode})
		require.Error(t, err)
		assert.Equal(t, 400, models.StatusForError(err))

		code := "1111"
		updated, err := f.svc.UpdatePost(context.Background(), 1, post.ID, PostUpdate{Privacy: &passcode, Passcode: &code})
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasscodeHash), []byte("1111")))
	})

	t.Run("Keeps Existing Hash When Staying Gated", func(t *testing.T) {
		f, post := setup(t)
		passcode := models.PostPrivacyPasscode
		updated, err := f.svc.UpdatePost(context.Background(), 1, post.ID, PostUpdate{Privacy: &passcode})
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasscodeHash), []byte("4242")))
	})
}

func TestDeletePost_CleansUpMedia(t *testing.T) {
	f := newPostFixture(t)
	post, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "with media"})
	require.NoError(t, err)

	f.media[post.ID] = []models.PostMedia{
		{ID: 1, PostID: post.ID, StoragePath: "aa/one.jpg", Thumbnail: "aa/one_thumb.webp"},
		{ID: 2, PostID: post.ID, StoragePath: "bb/two.mp4"},
	}

	require.NoError(t, f.svc.DeletePost(context.Background(), 1, post.ID))
	assert.NotContains(t, f.posts, post.ID)
	assert.ElementsMatch(t, []string{"aa/one.jpg", "aa/one_thumb.webp", "bb/two.mp4"}, f.deleted)

	t.Run("Owner Only", func(t *testing.T) {
		other, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "keep"})
		require.NoError(t, err)
		err = f.svc.DeletePost(context.Background(), 2, other.ID)
		require.Error(t, err)
		assert.Equal(t, 403, models.StatusForError(err))
	})
}

func TestListFeed_SkipsDeniedPosts(t *testing.T) {
	f := newPostFixture(t, 1, 2)

	mine, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "mine"})
	require.NoError(t, err)
	friendsPost, err := f.svc.CreatePost(context.Background(), 2, PostInput{Content: "from a friend"})
	require.NoError(t, err)
	strangersPost, err := f.svc.CreatePost(context.Background(), 9, PostInput{Content: "from a stranger"})
	require.NoError(t, err)

	feedPosts := []*models.Post{f.posts[mine.ID], f.posts[friendsPost.ID], f.posts[strangersPost.ID]}
	reposStub := f.svc.postRepo.(*postRepoStub)
	reposStub.getByAuthorIDsFn = func(_ context.Context, authorIDs []uint, _, _ int) ([]*models.Post, error) {
		assert.Contains(t, authorIDs, uint(1))
		return feedPosts, nil
	}

	feed, err := f.svc.ListFeed(context.Background(), 1, "sess-a", 20, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "mine", feed[0].Content)
	assert.Equal(t, "from a friend", feed[1].Content)
}

func TestGetPost_MarksViewerReactions(t *testing.T) {
	f := newPostFixture(t, 1, 2)
	post, err := f.svc.CreatePost(context.Background(), 2, PostInput{Content: "react to me"})
	require.NoError(t, err)

	reposStub := f.svc.postRepo.(*postRepoStub)
	reposStub.getReactionKindsFn = func(_ context.Context, userID, postID uint) ([]string, error) {
		assert.Equal(t, uint(1), userID)
		assert.Equal(t, post.ID, postID)
		return []string{models.ReactionHearts}, nil
	}

	view, err := f.svc.GetPost(context.Background(), 1, "sess-a", post.ID)
	require.NoError(t, err)
	assert.Equal(t, VisibilityFull, view.Visibility)
	// The view carries which reactions this viewer already placed
	assert.Equal(t, []string{models.ReactionHearts}, view.ViewerReactions)
}

func TestReact(t *testing.T) {
	t.Run("Invalid Kind", func(t *testing.T) {
		f := newPostFixture(t)
		_, err := f.svc.React(context.Background(), 1, "sess-a", 1, "applauds")
		require.Error(t, err)
		assert.Equal(t, 400, models.StatusForError(err))
	})

	t.Run("Denied Post Looks Missing", func(t *testing.T) {
		f := newPostFixture(t)
		post, err := f.svc.CreatePost(context.Background(), 2, PostInput{Content: "private circle"})
		require.NoError(t, err)

		_, err = f.svc.React(context.Background(), 9, "sess-a", post.ID, models.ReactionLikes)
		require.Error(t, err)
		assert.Equal(t, 404, models.StatusForError(err))
	})

	t.Run("Friend Reacts", func(t *testing.T) {
		f := newPostFixture(t, 1, 2)
		post, err := f.svc.CreatePost(context.Background(), 2, PostInput{Content: "react to me"})
		require.NoError(t, err)

		reposStub := f.svc.postRepo.(*postRepoStub)
		var recorded []string
		reposStub.reactFn = func(_ context.Context, userID, postID uint, kind string) (bool, error) {
			assert.Equal(t, uint(1), userID)
			assert.Equal(t, post.ID, postID)
			recorded = append(recorded, kind)
			return len(recorded) == 1, nil
		}

		_, err = f.svc.React(context.Background(), 1, "sess-a", post.ID, models.ReactionHearts)
		require.NoError(t, err)
		// A repeat of the same kind is a no-op at the store, not an error
		_, err = f.svc.React(context.Background(), 1, "sess-a", post.ID, models.ReactionHearts)
		require.NoError(t, err)
		assert.Equal(t, []string{models.ReactionHearts, models.ReactionHearts}, recorded)
	})
}

func TestAddComment(t *testing.T) {
	t.Run("Requires Full Visibility", func(t *testing.T) {
		f := newPostFixture(t, 1, 2)
		post, err := f.svc.CreatePost(context.Background(), 2, PostInput{
			Content: "secret", Privacy: models.PostPrivacyPasscode, Passcode: "4242",
		})
		require.NoError(t, err)

		_, err = f.svc.AddComment(context.Background(), 1, "sess-a", post.ID, "nice one")
		require.Error(t, err)
		assert.Equal(t, 403, models.StatusForError(err))
	})

	t.Run("Denied Post Looks Missing", func(t *testing.T) {
		f := newPostFixture(t)
		post, err := f.svc.CreatePost(context.Background(), 2, PostInput{Content: "private"})
		require.NoError(t, err)

		_, err = f.svc.AddComment(context.Background(), 9, "sess-a", post.ID, "hello?")
		require.Error(t, err)
		assert.Equal(t, 404, models.StatusForError(err))
	})

	t.Run("Success", func(t *testing.T) {
		f := newPostFixture(t, 1, 2)
		post, err := f.svc.CreatePost(context.Background(), 2, PostInput{Content: "open"})
		require.NoError(t, err)

		comment, err := f.svc.AddComment(context.Background(), 1, "sess-a", post.ID, "  lovely  ")
		require.NoError(t, err)
		assert.Equal(t, "lovely", comment.Content)
		assert.Equal(t, uint(1), comment.AuthorID)
	})

	t.Run("Too Long", func(t *testing.T) {
		f := newPostFixture(t, 1, 2)
		post, err := f.svc.CreatePost(context.Background(), 2, PostInput{Content: "open"})
		require.NoError(t, err)

		_, err = f.svc.AddComment(context.Background(), 1, "sess-a", post.ID, strings.Repeat("x", MaxCommentLength+1))
		require.Error(t, err)
	})
}

func TestDeleteComment(t *testing.T) {
	setup := func(t *testing.T) (*postFixture, *models.Post, *models.Comment) {
		f := newPostFixture(t, 1, 2)
		post, err := f.svc.CreatePost(context.Background(), 2, PostInput{Content: "open"})
		require.NoError(t, err)
		comment, err := f.svc.AddComment(context.Background(), 1, "sess-a", post.ID, "mine")
		require.NoError(t, err)
		return f, post, comment
	}

	t.Run("Comment Author May Delete", func(t *testing.T) {
		f, _, comment := setup(t)
		require.NoError(t, f.svc.DeleteComment(context.Background(), 1, comment.ID))
		assert.NotContains(t, f.comments, comment.ID)
	})

	t.Run("Post Author May Delete", func(t *testing.T) {
		f, _, comment := setup(t)
		require.NoError(t, f.svc.DeleteComment(context.Background(), 2, comment.ID))
	})

	t.Run("Third Party Forbidden", func(t *testing.T) {
		f, _, comment := setup(t)
		err := f.svc.DeleteComment(context.Background(), 3, comment.ID)
		require.Error(t, err)
		assert.Equal(t, 403, models.StatusForError(err))
	})
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestAttachMedia(t *testing.T) {
	t.Run("Owner Only", func(t *testing.T) {
		f := newPostFixture(t)
		post, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "mine"})
		require.NoError(t, err)

		_, err = f.svc.AttachMedia(context.Background(), 2, post.ID, "pic.png", tinyPNG(t), models.MediaTypeImage)
		require.Error(t, err)
		assert.Equal(t, 403, models.StatusForError(err))
	})

	t.Run("Image With Thumbnail", func(t *testing.T) {
		f := newPostFixture(t)
		post, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "mine"})
		require.NoError(t, err)

		media, err := f.svc.AttachMedia(context.Background(), 1, post.ID, "pic.png", tinyPNG(t), models.MediaTypeImage)
		require.NoError(t, err)
		assert.Equal(t, models.MediaTypeImage, media.Type)
		assert.Equal(t, 0, media.Position)
		assert.NotEmpty(t, media.Thumbnail)
		assert.True(t, strings.HasSuffix(media.Thumbnail, "_thumb.webp"))
	})

	t.Run("Attachment Limit", func(t *testing.T) {
		f := newPostFixture(t)
		post, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "mine"})
		require.NoError(t, err)

		f.media[post.ID] = make([]models.PostMedia, MaxMediaPerPost)
		_, err = f.svc.AttachMedia(context.Background(), 1, post.ID, "pic.png", tinyPNG(t), models.MediaTypeImage)
		require.Error(t, err)
		assert.Equal(t, 400, models.StatusForError(err))
	})

	t.Run("Extension Required", func(t *testing.T) {
		f := newPostFixture(t)
		post, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "mine"})
		require.NoError(t, err)

		_, err = f.svc.AttachMedia(context.Background(), 1, post.ID, "noext", tinyPNG(t), models.MediaTypeImage)
		require.Error(t, err)
	})

	t.Run("Unknown Media Type", func(t *testing.T) {
		f := newPostFixture(t)
		post, err := f.svc.CreatePost(context.Background(), 1, PostInput{Content: "mine"})
		require.NoError(t, err)

		_, err = f.svc.AttachMedia(context.Background(), 1, post.ID, "file.pdf", tinyPNG(t), models.MediaType("document"))
		require.Error(t, err)
	})
}
