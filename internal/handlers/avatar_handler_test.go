package handlers_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps uploads in memory and answers with a fake URL.
type memStore struct {
	objects map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, key string, body []byte, _ string) (string, error) {
	s.objects[key] = body
	return "https://cdn.test/" + key, nil
}

func pngUpload(t *testing.T, field string) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, "avatar.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(fw, img))
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestUploadAvatar(t *testing.T) {
	store := newMemStore()
	r, _ := setupRouterWithMedia(t, store)

	userID := registerUser(t, r, "doc@example.com")
	psychID := createPsychologist(t, r, userID, nil)

	body, contentType := pngUpload(t, "file")
	req := httptest.NewRequest(http.MethodPost, "/psychologists/"+itoa(psychID)+"/avatar", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	profile := decodeBody(t, w)
	avatarURL := profile["avatar_url"].(string)
	assert.True(t, strings.HasPrefix(avatarURL, "https://cdn.test/avatars/"))
	assert.True(t, strings.HasSuffix(avatarURL, ".webp"))

	require.Len(t, store.objects, 1)
	for _, stored := range store.objects {
		assert.NotEmpty(t, stored)
	}
}

func TestUploadAvatarNotAnImage(t *testing.T) {
	store := newMemStore()
	r, _ := setupRouterWithMedia(t, store)

	userID := registerUser(t, r, "doc@example.com")
	psychID := createPsychologist(t, r, userID, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/psychologists/"+itoa(psychID)+"/avatar", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_image")
}

func TestUploadAvatarWithoutStore(t *testing.T) {
	r, _ := setupRouter(t)

	userID := registerUser(t, r, "doc@example.com")
	psychID := createPsychologist(t, r, userID, nil)

	body, contentType := pngUpload(t, "file")
	req := httptest.NewRequest(http.MethodPost, "/psychologists/"+itoa(psychID)+"/avatar", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUploadAvatarUnknownPsychologist(t *testing.T) {
	store := newMemStore()
	r, _ := setupRouterWithMedia(t, store)

	body, contentType := pngUpload(t, "file")
	req := httptest.NewRequest(http.MethodPost, "/psychologists/999/avatar", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
