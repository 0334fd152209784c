package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReviewRoundTrip(t *testing.T) {
	r, _ := setupRouter(t)

	docID := registerUser(t, r, "doc@example.com")
	clientID := registerUser(t, r, "client@example.com")
	psychID := createPsychologist(t, r, docID, nil)

	w := doJSON(r, http.MethodPost, "/reviews/", gin.H{
		"client_id":       clientID,
		"psychologist_id": psychID,
		"rating":          5,
		"comment":         "very helpful",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, float64(5), body["rating"])
	assert.Equal(t, "very helpful", body["comment"])

	w = doJSON(r, http.MethodGet, "/reviews/"+itoa(psychID), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	list := decodeBody(t, w)
	assert.Equal(t, float64(1), list["total"])
	first := list["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "very helpful", first["comment"])
}

func TestCreateReviewRatingOutOfRange(t *testing.T) {
	r, _ := setupRouter(t)

	docID := registerUser(t, r, "doc@example.com")
	clientID := registerUser(t, r, "client@example.com")
	psychID := createPsychologist(t, r, docID, nil)

	for _, rating := range []int{0, 6, -1} {
		w := doJSON(r, http.MethodPost, "/reviews/", gin.H{
			"client_id":       clientID,
			"psychologist_id": psychID,
			"rating":          rating,
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "rating %d", rating)
	}
}

func TestCreateReviewUnknownPsychologist(t *testing.T) {
	r, _ := setupRouter(t)

	clientID := registerUser(t, r, "client@example.com")

	w := doJSON(r, http.MethodPost, "/reviews/", gin.H{
		"client_id":       clientID,
		"psychologist_id": 999,
		"rating":          4,
	}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListReviewsEmpty(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(r, http.MethodGet, "/reviews/999", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(0), body["total"])
}
