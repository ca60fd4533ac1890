package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"bondtree/internal/cache"
	"bondtree/internal/config"
	"bondtree/internal/database"
	"bondtree/internal/models"
	"bondtree/internal/storage"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

// The Prometheus middleware registers collectors in the default registry, so
// the app is built exactly once per test process and shared across tests.
var (
	testOnce sync.Once
	testApp  *fiber.App
	testSrv  *Server
	setupErr error
	userSeq  atomic.Uint64
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	testOnce.Do(func() {
		db, err := database.ConnectTest()
		if err != nil {
			setupErr = fmt.Errorf("test database: %w", err)
			return
		}

		mr, err := miniredis.Run()
		if err != nil {
			setupErr = fmt.Errorf("miniredis: %w", err)
			return
		}
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cache.SetClient(rdb)

		mediaDir, err := os.MkdirTemp("", "bondtree-test-media-*")
		if err != nil {
			setupErr = err
			return
		}
		store, err := storage.NewDiskStore(mediaDir, "/media")
		if err != nil {
			setupErr = err
			return
		}

		cfg := &config.Config{
			Port:                 "0",
			Env:                  "test",
			JWTSecret:            testJWTSecret,
			MediaDir:             mediaDir,
			MediaBaseURL:         "/media",
			MediaMaxUploadSizeMB: 10,
			UnlockTTLMinutes:     30,
		}

		srv, err := NewServerWithDeps(cfg, db, rdb, store)
		if err != nil {
			setupErr = err
			return
		}

		app := fiber.New(fiber.Config{
			BodyLimit: cfg.MediaMaxUploadSizeMB * 1024 * 1024,
		})
		srv.SetupRoutes(app)

		testApp = app
		testSrv = srv
	})

	if setupErr != nil {
		t.Skipf("test server unavailable: %v", setupErr)
	}
	return testApp
}

// testAccount is a signed-up user plus a valid bearer token.
type testAccount struct {
	ID       uint
	Username string
	Email    string
	Token    string
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// signupTestUser registers a fresh account through the real signup endpoint.
// Usernames are sequenced because the SQLite test database is shared.
func signupTestUser(t *testing.T) testAccount {
	t.Helper()
	app := setupTestApp(t)

	n := userSeq.Add(1)
	username := fmt.Sprintf("apiuser%d", n)
	email := fmt.Sprintf("apiuser%d@example.com", n)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "Password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeJSON(t, resp, &out)
	require.NotEmpty(t, out.Token)
	require.NotZero(t, out.User.ID)

	return testAccount{
		ID:       out.User.ID,
		Username: username,
		Email:    email,
		Token:    out.Token,
	}
}

// befriend runs the full request/accept cycle between two accounts.
func befriend(t *testing.T, requester, addressee testAccount) {
	t.Helper()
	app := setupTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/friends/requests", requester.Token,
		map[string]string{"identifier": addressee.Username})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var friendship models.Friendship
	decodeJSON(t, resp, &friendship)

	resp = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/friends/requests/%d/accept", friendship.ID), addressee.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()
}

// createTestPost creates a post as the given account and returns it.
func createTestPost(t *testing.T, author testAccount, body map[string]string) models.Post {
	t.Helper()
	app := setupTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/posts", author.Token, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var post models.Post
	decodeJSON(t, resp, &post)
	require.NotZero(t, post.ID)
	return post
}
