package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bookingFixture wires a client and a psychologist with their tokens.
type bookingFixture struct {
	router      *gin.Engine
	clientToken string
	doctorToken string
	clientID    uint
	psychID     uint
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	r, _ := setupRouter(t)

	doctorID := registerUser(t, r, "doc@example.com")
	clientID := registerUser(t, r, "client@example.com")
	psychID := createPsychologist(t, r, doctorID, nil)

	return &bookingFixture{
		router:      r,
		clientToken: loginUser(t, r, "client@example.com"),
		doctorToken: loginUser(t, r, "doc@example.com"),
		clientID:    clientID,
		psychID:     psychID,
	}
}

func (f *bookingFixture) book(t *testing.T, start, end time.Time) uint {
	t.Helper()

	w := doJSON(f.router, http.MethodPost, "/appointments/", gin.H{
		"psychologist_id": f.psychID,
		"start_time":      start,
		"end_time":        end,
		"price":           90.0,
	}, f.clientToken)
	require.Equal(t, http.StatusOK, w.Code, "book: %s", w.Body.String())

	return uint(decodeBody(t, w)["id"].(float64))
}

func slot(hoursFromNow int) (time.Time, time.Time) {
	start := time.Now().UTC().Add(time.Duration(hoursFromNow) * time.Hour).Truncate(time.Second)
	return start, start.Add(time.Hour)
}

func TestCreateAppointmentRoundTrip(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	id := f.book(t, start, end)

	w := doJSON(f.router, http.MethodGet, "/appointments/"+itoa(id), nil, f.clientToken)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, float64(f.psychID), body["psychologist_id"])
	assert.Equal(t, float64(f.clientID), body["client_id"])
	assert.Equal(t, 90.0, body["price"])
}

func TestCreateAppointmentRequiresToken(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	w := doJSON(f.router, http.MethodPost, "/appointments/", gin.H{
		"psychologist_id": f.psychID,
		"start_time":      start,
		"end_time":        end,
		"price":           90.0,
	}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAppointmentStartInPast(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(-2)
	w := doJSON(f.router, http.MethodPost, "/appointments/", gin.H{
		"psychologist_id": f.psychID,
		"start_time":      start,
		"end_time":        end,
		"price":           90.0,
	}, f.clientToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "start_in_past")
}

func TestCreateAppointmentEndBeforeStart(t *testing.T) {
	f := newBookingFixture(t)

	start, _ := slot(24)
	w := doJSON(f.router, http.MethodPost, "/appointments/", gin.H{
		"psychologist_id": f.psychID,
		"start_time":      start,
		"end_time":        start.Add(-time.Hour),
		"price":           90.0,
	}, f.clientToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_time_range")
}

func TestCreateAppointmentUnknownPsychologist(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	w := doJSON(f.router, http.MethodPost, "/appointments/", gin.H{
		"psychologist_id": 999,
		"start_time":      start,
		"end_time":        end,
		"price":           90.0,
	}, f.clientToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAppointmentOverlapRejected(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	f.book(t, start, end)

	// Second booking starts halfway through the first.
	w := doJSON(f.router, http.MethodPost, "/appointments/", gin.H{
		"psychologist_id": f.psychID,
		"start_time":      start.Add(30 * time.Minute),
		"end_time":        end.Add(30 * time.Minute),
		"price":           90.0,
	}, f.clientToken)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "time_conflict")
}

func TestCreateAppointmentAdjacentSlotsAllowed(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	f.book(t, start, end)
	f.book(t, end, end.Add(time.Hour))
}

func TestGetAppointmentOutsiderForbidden(t *testing.T) {
	f := newBookingFixture(t)

	registerUser(t, f.router, "stranger@example.com")
	strangerToken := loginUser(t, f.router, "stranger@example.com")

	start, end := slot(24)
	id := f.book(t, start, end)

	w := doJSON(f.router, http.MethodGet, "/appointments/"+itoa(id), nil, strangerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetAppointmentAsPsychologist(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	id := f.book(t, start, end)

	w := doJSON(f.router, http.MethodGet, "/appointments/"+itoa(id), nil, f.doctorToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetAppointmentNotFound(t *testing.T) {
	f := newBookingFixture(t)

	w := doJSON(f.router, http.MethodGet, "/appointments/999", nil, f.clientToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfirmAppointment(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	id := f.book(t, start, end)

	w := doJSON(f.router, http.MethodPatch, "/appointments/"+itoa(id)+"/status", gin.H{
		"status": "confirmed",
	}, f.doctorToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", decodeBody(t, w)["status"])
}

func TestClientCannotChangeStatus(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	id := f.book(t, start, end)

	w := doJSON(f.router, http.MethodPatch, "/appointments/"+itoa(id)+"/status", gin.H{
		"status": "confirmed",
	}, f.clientToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStatusTransitions(t *testing.T) {
	f := newBookingFixture(t)

	patch := func(id uint, status string) int {
		w := doJSON(f.router, http.MethodPatch, "/appointments/"+itoa(id)+"/status", gin.H{
			"status": status,
		}, f.doctorToken)
		return w.Code
	}

	start, end := slot(24)
	id := f.book(t, start, end)

	assert.Equal(t, http.StatusOK, patch(id, "confirmed"))

	// Confirmed cannot go back to pending.
	assert.Equal(t, http.StatusBadRequest, patch(id, "pending"))

	assert.Equal(t, http.StatusOK, patch(id, "canceled"))

	// Canceled is terminal.
	assert.Equal(t, http.StatusBadRequest, patch(id, "confirmed"))
	assert.Equal(t, http.StatusBadRequest, patch(id, "pending"))
}

func TestStatusUnknownValue(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	id := f.book(t, start, end)

	w := doJSON(f.router, http.MethodPatch, "/appointments/"+itoa(id)+"/status", gin.H{
		"status": "done",
	}, f.doctorToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_status")
}

func TestDeleteAppointmentByClient(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	id := f.book(t, start, end)

	w := doJSON(f.router, http.MethodDelete, "/appointments/"+itoa(id), nil, f.clientToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(f.router, http.MethodGet, "/appointments/"+itoa(id), nil, f.clientToken)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAppointmentOutsiderForbidden(t *testing.T) {
	f := newBookingFixture(t)

	registerUser(t, f.router, "stranger@example.com")
	strangerToken := loginUser(t, f.router, "stranger@example.com")

	start, end := slot(24)
	id := f.book(t, start, end)

	w := doJSON(f.router, http.MethodDelete, "/appointments/"+itoa(id), nil, strangerToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCanceledSlotCanBeRebooked(t *testing.T) {
	f := newBookingFixture(t)

	start, end := slot(24)
	id := f.book(t, start, end)

	w := doJSON(f.router, http.MethodPatch, "/appointments/"+itoa(id)+"/status", gin.H{
		"status": "canceled",
	}, f.doctorToken)
	require.Equal(t, http.StatusOK, w.Code)

	// The canceled appointment no longer blocks the slot.
	f.book(t, start, end)
}
