package service

import (
	"context"
	"io"

	"bondtree/internal/models"
)

// Function-field stubs for the repository interfaces. Tests set only the
// methods they expect to be called; an unset method is a no-op returning
// zero values.

type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	getByIdentifierFn func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	deleteFn          func(context.Context, uint) error
	listFn            func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn == nil {
		return nil, nil
	}
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn == nil {
		return nil, nil
	}
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getByUsernameFn == nil {
		return nil, nil
	}
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	if s.getByIdentifierFn == nil {
		return nil, nil
	}
	return s.getByIdentifierFn(ctx, identifier)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type credRepoStub struct {
	createFn     func(context.Context, *models.Credential) error
	getByEmailFn func(context.Context, string) (*models.Credential, error)
	deleteFn     func(context.Context, uint) error
}

func (s *credRepoStub) Create(ctx context.Context, cred *models.Credential) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, cred)
}
func (s *credRepoStub) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	if s.getByEmailFn == nil {
		return nil, nil
	}
	return s.getByEmailFn(ctx, email)
}
func (s *credRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

type friendRepoStub struct {
	createFn                    func(context.Context, *models.Friendship) error
	getByIDFn                   func(context.Context, uint) (*models.Friendship, error)
	getFriendshipBetweenUsersFn func(context.Context, uint, uint) (*models.Friendship, error)
	getFriendsFn                func(context.Context, uint) ([]models.User, error)
	getPendingRequestsFn        func(context.Context, uint) ([]models.Friendship, error)
	getSentRequestsFn           func(context.Context, uint) ([]models.Friendship, error)
	updateStatusFn              func(context.Context, uint, models.FriendshipStatus) error
	deleteFn                    func(context.Context, uint) error
	removeFriendshipFn          func(context.Context, uint, uint) error
	areFriendsFn                func(context.Context, uint, uint) (bool, error)
}

func (s *friendRepoStub) Create(ctx context.Context, friendship *models.Friendship) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, friendship)
}
func (s *friendRepoStub) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	if s.getByIDFn == nil {
		return nil, nil
	}
	return s.getByIDFn(ctx, id)
}
func (s *friendRepoStub) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	if s.getFriendshipBetweenUsersFn == nil {
		return nil, nil
	}
	return s.getFriendshipBetweenUsersFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	if s.getFriendsFn == nil {
		return nil, nil
	}
	return s.getFriendsFn(ctx, userID)
}
func (s *friendRepoStub) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	if s.getPendingRequestsFn == nil {
		return nil, nil
	}
	return s.getPendingRequestsFn(ctx, userID)
}
func (s *friendRepoStub) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	if s.getSentRequestsFn == nil {
		return nil, nil
	}
	return s.getSentRequestsFn(ctx, userID)
}
func (s *friendRepoStub) UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error {
	if s.updateStatusFn == nil {
		return nil
	}
	return s.updateStatusFn(ctx, friendshipID, status)
}
func (s *friendRepoStub) Delete(ctx context.Context, friendshipID uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, friendshipID)
}
func (s *friendRepoStub) RemoveFriendship(ctx context.Context, userID1, userID2 uint) error {
	if s.removeFriendshipFn == nil {
		return nil
	}
	return s.removeFriendshipFn(ctx, userID1, userID2)
}
func (s *friendRepoStub) AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	if s.areFriendsFn == nil {
		return false, nil
	}
	return s.areFriendsFn(ctx, userID1, userID2)
}

type moodRepoStub struct {
	createEntryFn         func(context.Context, *models.MoodEntry) error
	getEntryByIDFn        func(context.Context, uint) (*models.MoodEntry, error)
	listEntriesFn         func(context.Context, uint, int, int) ([]models.MoodEntry, error)
	latestEntryFn         func(context.Context, uint) (*models.MoodEntry, error)
	latestEntriesFn       func(context.Context, []uint) (map[uint]models.MoodEntry, error)
	deleteEntryFn         func(context.Context, uint) error
	createCustomMoodFn    func(context.Context, *models.CustomMood) error
	getCustomMoodByIDFn   func(context.Context, uint) (*models.CustomMood, error)
	getCustomMoodByNameFn func(context.Context, uint, string) (*models.CustomMood, error)
	listCustomMoodsFn     func(context.Context, uint) ([]models.CustomMood, error)
	updateCustomMoodFn    func(context.Context, *models.CustomMood) error
	deleteCustomMoodFn    func(context.Context, uint) error
}

func (s *moodRepoStub) CreateEntry(ctx context.Context, entry *models.MoodEntry) error {
	if s.createEntryFn == nil {
		return nil
	}
	return s.createEntryFn(ctx, entry)
}
func (s *moodRepoStub) GetEntryByID(ctx context.Context, id uint) (*models.MoodEntry, error) {
	if s.getEntryByIDFn == nil {
		return nil, nil
	}
	return s.getEntryByIDFn(ctx, id)
}
func (s *moodRepoStub) ListEntries(ctx context.Context, userID uint, limit, offset int) ([]models.MoodEntry, error) {
	if s.listEntriesFn == nil {
		return nil, nil
	}
	return s.listEntriesFn(ctx, userID, limit, offset)
}
func (s *moodRepoStub) LatestEntry(ctx context.Context, userID uint) (*models.MoodEntry, error) {
	if s.latestEntryFn == nil {
		return nil, nil
	}
	return s.latestEntryFn(ctx, userID)
}
func (s *moodRepoStub) LatestEntries(ctx context.Context, userIDs []uint) (map[uint]models.MoodEntry, error) {
	if s.latestEntriesFn == nil {
		return map[uint]models.MoodEntry{}, nil
	}
	return s.latestEntriesFn(ctx, userIDs)
}
func (s *moodRepoStub) DeleteEntry(ctx context.Context, id uint) error {
	if s.deleteEntryFn == nil {
		return nil
	}
	return s.deleteEntryFn(ctx, id)
}
func (s *moodRepoStub) CreateCustomMood(ctx context.Context, mood *models.CustomMood) error {
	if s.createCustomMoodFn == nil {
		return nil
	}
	return s.createCustomMoodFn(ctx, mood)
}
func (s *moodRepoStub) GetCustomMoodByID(ctx context.Context, id uint) (*models.CustomMood, error) {
	if s.getCustomMoodByIDFn == nil {
		return nil, nil
	}
	return s.getCustomMoodByIDFn(ctx, id)
}
func (s *moodRepoStub) GetCustomMoodByName(ctx context.Context, userID uint, name string) (*models.CustomMood, error) {
	if s.getCustomMoodByNameFn == nil {
		return nil, nil
	}
	return s.getCustomMoodByNameFn(ctx, userID, name)
}
func (s *moodRepoStub) ListCustomMoods(ctx context.Context, userID uint) ([]models.CustomMood, error) {
	if s.listCustomMoodsFn == nil {
		return nil, nil
	}
	return s.listCustomMoodsFn(ctx, userID)
}
func (s *moodRepoStub) UpdateCustomMood(ctx context.Context, mood *models.CustomMood) error {
	if s.updateCustomMoodFn == nil {
		return nil
	}
	return s.updateCustomMoodFn(ctx, mood)
}
func (s *moodRepoStub) DeleteCustomMood(ctx context.Context, id uint) error {
	if s.deleteCustomMoodFn == nil {
		return nil
	}
	return s.deleteCustomMoodFn(ctx, id)
}

type postRepoStub struct {
	createFn           func(context.Context, *models.Post) error
	getByIDFn          func(context.Context, uint) (*models.Post, error)
	getByAuthorIDFn    func(context.Context, uint, int, int) ([]*models.Post, error)
	getByAuthorIDsFn   func(context.Context, []uint, int, int) ([]*models.Post, error)
	updateFn           func(context.Context, *models.Post) error
	deleteFn           func(context.Context, uint) error
	reactFn            func(context.Context, uint, uint, string) (bool, error)
	unreactFn          func(context.Context, uint, uint, string) error
	getReactionKindsFn func(context.Context, uint, uint) ([]string, error)
	createCommentFn    func(context.Context, *models.Comment) error
	getCommentByIDFn   func(context.Context, uint) (*models.Comment, error)
	getCommentsFn      func(context.Context, uint, int, int) ([]models.Comment, error)
	deleteCommentFn    func(context.Context, uint) error
	createMediaFn      func(context.Context, *models.PostMedia) error
	getMediaFn         func(context.Context, uint) ([]models.PostMedia, error)
	deleteMediaFn      func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	if s.createFn == nil {
		return nil
	}
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	if s.getByIDFn == nil {
		return nil, models.NewNotFoundError("Post", id)
	}
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetByAuthorID(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	if s.getByAuthorIDFn == nil {
		return nil, nil
	}
	return s.getByAuthorIDFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) GetByAuthorIDs(ctx context.Context, authorIDs []uint, limit, offset int) ([]*models.Post, error) {
	if s.getByAuthorIDsFn == nil {
		return nil, nil
	}
	return s.getByAuthorIDsFn(ctx, authorIDs, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	if s.updateFn == nil {
		return nil
	}
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) React(ctx context.Context, userID, postID uint, kind string) (bool, error) {
	if s.reactFn == nil {
		return true, nil
	}
	return s.reactFn(ctx, userID, postID, kind)
}
func (s *postRepoStub) Unreact(ctx context.Context, userID, postID uint, kind string) error {
	if s.unreactFn == nil {
		return nil
	}
	return s.unreactFn(ctx, userID, postID, kind)
}
func (s *postRepoStub) GetReactionKinds(ctx context.Context, userID, postID uint) ([]string, error) {
	if s.getReactionKindsFn == nil {
		return nil, nil
	}
	return s.getReactionKindsFn(ctx, userID, postID)
}
func (s *postRepoStub) CreateComment(ctx context.Context, comment *models.Comment) error {
	if s.createCommentFn == nil {
		return nil
	}
	return s.createCommentFn(ctx, comment)
}
func (s *postRepoStub) GetCommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	if s.getCommentByIDFn == nil {
		return nil, models.NewNotFoundError("Comment", id)
	}
	return s.getCommentByIDFn(ctx, id)
}
func (s *postRepoStub) GetComments(ctx context.Context, postID uint, limit, offset int) ([]models.Comment, error) {
	if s.getCommentsFn == nil {
		return nil, nil
	}
	return s.getCommentsFn(ctx, postID, limit, offset)
}
func (s *postRepoStub) DeleteComment(ctx context.Context, id uint) error {
	if s.deleteCommentFn == nil {
		return nil
	}
	return s.deleteCommentFn(ctx, id)
}
func (s *postRepoStub) CreateMedia(ctx context.Context, media *models.PostMedia) error {
	if s.createMediaFn == nil {
		return nil
	}
	return s.createMediaFn(ctx, media)
}
func (s *postRepoStub) GetMedia(ctx context.Context, postID uint) ([]models.PostMedia, error) {
	if s.getMediaFn == nil {
		return nil, nil
	}
	return s.getMediaFn(ctx, postID)
}
func (s *postRepoStub) DeleteMedia(ctx context.Context, id uint) error {
	if s.deleteMediaFn == nil {
		return nil
	}
	return s.deleteMediaFn(ctx, id)
}

type blobStoreStub struct {
	saveFn      func(io.Reader, string) (string, string, error)
	saveBytesFn func([]byte, string) (string, error)
	openFn      func(string) (io.ReadCloser, error)
	deleteFn    func(string) error
	urlFn       func(string) string
}

func (s *blobStoreStub) Save(r io.Reader, ext string) (string, string, error) {
	if s.saveFn == nil {
		return "aa/blob." + ext, "/media/aa/blob." + ext, nil
	}
	return s.saveFn(r, ext)
}
func (s *blobStoreStub) SaveBytes(data []byte, relPath string) (string, error) {
	if s.saveBytesFn == nil {
		return relPath, nil
	}
	return s.saveBytesFn(data, relPath)
}
func (s *blobStoreStub) Open(relPath string) (io.ReadCloser, error) {
	if s.openFn == nil {
		return nil, nil
	}
	return s.openFn(relPath)
}
func (s *blobStoreStub) Delete(relPath string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(relPath)
}
func (s *blobStoreStub) URL(relPath string) string {
	if s.urlFn == nil {
		return "/media/" + relPath
	}
	return s.urlFn(relPath)
}
