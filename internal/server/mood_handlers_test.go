package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"bondtree/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendMood_Endpoint(t *testing.T) {
	app := setupTestApp(t)
	account := signupTestUser(t)

	at := time.Date(2026, 3, 14, 9, 26, 0, 0, time.Local)
	resp := doJSON(t, app, http.MethodPost, "/api/moods", account.Token, map[string]any{
		"moods": []map[string]string{
			{"name": "calm", "color": "#88CCEE"},
			{"name": "grateful", "color": "#44AA99"},
		},
		"notes":     "quiet evening",
		"timestamp": at.UnixMilli(),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var entry models.MoodEntry
	decodeJSON(t, resp, &entry)
	assert.Len(t, entry.Moods, 2)
	assert.Equal(t, "quiet evening", entry.Notes)
	assert.Equal(t, "2026-03-14", entry.Date)
	assert.Equal(t, "09:26", entry.Time)
}

func TestAppendMood_Validation(t *testing.T) {
	app := setupTestApp(t)
	account := signupTestUser(t)

	t.Run("Empty Selection", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/moods", account.Token, map[string]any{
			"moods": []map[string]string{},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("Oversized Selection Keeps Last Three", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/moods", account.Token, map[string]any{
			"moods": []map[string]string{
				{"name": "a", "color": "#111111"},
				{"name": "b", "color": "#222222"},
				{"name": "c", "color": "#333333"},
				{"name": "d", "color": "#444444"},
				{"name": "e", "color": "#555555"},
			},
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var entry models.MoodEntry
		decodeJSON(t, resp, &entry)
		require.Len(t, entry.Moods, 3)
		assert.Equal(t, "c", entry.Moods[0].Name)
		assert.Equal(t, "e", entry.Moods[2].Name)
	})
}

func TestGetMoods_NewestFirst(t *testing.T) {
	app := setupTestApp(t)
	account := signupTestUser(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		resp := doJSON(t, app, http.MethodPost, "/api/moods", account.Token, map[string]any{
			"moods":     []map[string]string{{"name": fmt.Sprintf("mood%d", i), "color": "#000000"}},
			"timestamp": base.Add(time.Duration(i) * time.Minute).UnixMilli(),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/moods/", account.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []models.MoodEntry
	decodeJSON(t, resp, &entries)
	require.Len(t, entries, 3)
	assert.Equal(t, "mood2", entries[0].Moods[0].Name)
	assert.Equal(t, "mood0", entries[2].Moods[0].Name)
}

func TestDeleteMood_Endpoint(t *testing.T) {
	app := setupTestApp(t)
	account := signupTestUser(t)
	other := signupTestUser(t)

	resp := doJSON(t, app, http.MethodPost, "/api/moods", account.Token, map[string]any{
		"moods": []map[string]string{{"name": "tired", "color": "#999999"}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var entry models.MoodEntry
	decodeJSON(t, resp, &entry)

	// Someone else's entry is not deletable
	resp = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/moods/%d", entry.ID), other.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/moods/%d", entry.ID), account.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/moods/%d", entry.ID), account.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCustomMoods_Endpoint(t *testing.T) {
	app := setupTestApp(t)
	account := signupTestUser(t)

	resp := doJSON(t, app, http.MethodPost, "/api/custom-moods", account.Token, map[string]string{
		"name":  "cozy",
		"color": "#AA7744",
		"emoji": "🔥",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var mood models.CustomMood
	decodeJSON(t, resp, &mood)
	assert.Equal(t, "cozy", mood.Name)

	// Case-insensitive duplicate
	resp = doJSON(t, app, http.MethodPost, "/api/custom-moods", account.Token, map[string]string{
		"name":  "Cozy",
		"color": "#AA7744",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()

	// Another user can reuse the name
	other := signupTestUser(t)
	resp = doJSON(t, app, http.MethodPost, "/api/custom-moods", other.Token, map[string]string{
		"name":  "cozy",
		"color": "#112233",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	// Rename
	resp = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/custom-moods/%d", mood.ID), account.Token, map[string]string{
			"name":  "snug",
			"color": "#AA7744",
		})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var renamed models.CustomMood
	decodeJSON(t, resp, &renamed)
	assert.Equal(t, "snug", renamed.Name)

	// List and delete
	resp = doJSON(t, app, http.MethodGet, "/api/custom-moods/", account.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var moods []models.CustomMood
	decodeJSON(t, resp, &moods)
	require.Len(t, moods, 1)

	resp = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/custom-moods/%d", mood.ID), account.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/custom-moods/", account.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &moods)
	assert.Empty(t, moods)
}
