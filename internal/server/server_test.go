package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"ambeauty/internal/config"
	"ambeauty/internal/database"
	"ambeauty/internal/domain"
	"ambeauty/internal/pkg/logging"
	"ambeauty/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@ambeauty.test"
	adminPassword = "admin-password"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testAPI struct {
	t      *testing.T
	srv    *Server
	admin  string
	logger *logging.Logger
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logging.Discard()
	db, err := database.Connect(":memory:", logger)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	cfg := &config.Config{
		AppEnv:    "test",
		JWTSecret: "router-test-secret",
		JWTTTL:    time.Hour,
	}
	srv := New(Options{DB: db, Config: cfg, Logger: logger})

	_, err = srv.Auth.EnsureAdmin(context.Background(), adminEmail, adminPassword)
	require.NoError(t, err)

	api := &testAPI{t: t, srv: srv, logger: logger}
	api.admin = api.login(adminEmail, adminPassword)
	return api
}

func (a *testAPI) do(method, path, token string, body any) (int, envelope) {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.srv.Engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func (a *testAPI) decode(env envelope, v any) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(env.Data, v))
}

func (a *testAPI) login(email, password string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(a.t, http.StatusOK, code, env.Error.Message)

	var out struct {
		Token string `json:"token"`
	}
	a.decode(env, &out)
	return out.Token
}

func (a *testAPI) registerClient(name string) string {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    name + "@example.com",
		"username": name,
		"password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, code, env.Error.Message)

	var out struct {
		Token string `json:"token"`
	}
	a.decode(env, &out)
	return out.Token
}

func (a *testAPI) createSlot(date, at, service string) domain.TimeSlot {
	a.t.Helper()
	code, env := a.do(http.MethodPost, "/api/time-slots", a.admin, map[string]string{
		"date": date, "time": at, "service": service,
	})
	require.Equal(a.t, http.StatusCreated, code, env.Error.Message)

	var out struct {
		TimeSlot domain.TimeSlot `json:"time_slot"`
	}
	a.decode(env, &out)
	return out.TimeSlot
}

func (a *testAPI) book(token string, slotID int64) (int, envelope) {
	return a.do(http.MethodPost, "/api/bookings", token, map[string]any{"time_slot_id": slotID})
}

func (a *testAPI) setStatus(bookingID int64, status domain.BookingStatus) (int, envelope) {
	return a.do(http.MethodPut, fmt.Sprintf("/api/bookings/%d", bookingID), a.admin, map[string]string{"status": string(status)})
}

func (a *testAPI) bookingID(env envelope) int64 {
	a.t.Helper()
	var out struct {
		Booking domain.Booking `json:"booking"`
	}
	a.decode(env, &out)
	return out.Booking.ID
}

func (a *testAPI) allSlots() []domain.TimeSlot {
	a.t.Helper()
	code, env := a.do(http.MethodGet, "/api/time-slots", a.admin, nil)
	require.Equal(a.t, http.StatusOK, code)
	var out struct {
		TimeSlots []domain.TimeSlot `json:"time_slots"`
	}
	a.decode(env, &out)
	return out.TimeSlots
}

func (a *testAPI) allBookings() []domain.Booking {
	a.t.Helper()
	code, env := a.do(http.MethodGet, "/api/bookings?limit=200", a.admin, nil)
	require.Equal(a.t, http.StatusOK, code)
	var out struct {
		Bookings []domain.Booking `json:"bookings"`
	}
	a.decode(env, &out)
	return out.Bookings
}

// assertBookedMatchesBookings checks that a slot is booked exactly when one
// non-cancelled booking holds it.
func (a *testAPI) assertBookedMatchesBookings() {
	a.t.Helper()
	active := make(map[int64]int)
	for _, b := range a.allBookings() {
		if b.Status != domain.BookingCancelled {
			active[b.TimeSlotID]++
		}
	}
	for _, s := range a.allSlots() {
		assert.LessOrEqual(a.t, active[s.ID], 1, "slot %d", s.ID)
		assert.Equal(a.t, active[s.ID] == 1, s.IsBooked, "slot %d", s.ID)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	api := newTestAPI(t)

	code, _ := api.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	api.srv.Engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ambeauty_http_requests_total")
}

func TestAuthRoundTrip(t *testing.T) {
	api := newTestAPI(t)
	token := api.registerClient("amina")

	code, env := api.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	var me struct {
		User domain.User `json:"user"`
	}
	api.decode(env, &me)
	assert.Equal(t, domain.RoleClient, me.User.Role)

	loginToken := api.login("amina@example.com", "secret123")
	principal, err := api.srv.Auth.Authorize(loginToken, "")
	require.NoError(t, err)
	assert.Equal(t, me.User.ID, principal.UserID)
	assert.Equal(t, domain.RoleClient, principal.Role)

	code, env = api.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "amina@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	code, _ = api.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "AMINA@example.com", "username": "again", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = api.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRoleGates(t *testing.T) {
	api := newTestAPI(t)
	client := api.registerClient("lina")

	code, env := api.do(http.MethodPost, "/api/time-slots", client, map[string]string{"date": "2030-01-07", "time": "10:00"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, _ = api.do(http.MethodGet, "/api/bookings", client, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = api.do(http.MethodGet, "/api/reviews/pending", client, nil)
	assert.Equal(t, http.StatusForbidden, code)

	s := api.createSlot("2030-01-07", "10:00", "")
	code, _ = api.book(api.admin, s.ID)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestBookingConflictAndWorkflow(t *testing.T) {
	api := newTestAPI(t)
	alice := api.registerClient("alice")
	bella := api.registerClient("bella")

	s := api.createSlot("2030-01-07", "10:00", "Nail Art")

	code, env := api.book(alice, s.ID)
	require.Equal(t, http.StatusCreated, code, env.Error.Message)
	id := api.bookingID(env)

	code, env = api.book(bella, s.ID)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)

	code, env = api.do(http.MethodGet, "/api/time-slots/available?date=2030-01-07", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var avail struct {
		TimeSlots []domain.TimeSlot `json:"time_slots"`
	}
	api.decode(env, &avail)
	assert.Empty(t, avail.TimeSlots)

	code, _ = api.setStatus(id, domain.BookingConfirmed)
	assert.Equal(t, http.StatusOK, code)
	code, _ = api.setStatus(id, domain.BookingCompleted)
	assert.Equal(t, http.StatusOK, code)

	code, env = api.setStatus(id, domain.BookingPending)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	code, env = api.setStatus(id, "archived")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, _ = api.setStatus(9999, domain.BookingConfirmed)
	assert.Equal(t, http.StatusNotFound, code)

	api.assertBookedMatchesBookings()
}

func TestCancellationReleasesSlot(t *testing.T) {
	api := newTestAPI(t)
	alice := api.registerClient("alice")
	bella := api.registerClient("bella")

	s := api.createSlot("2030-01-08", "14:00", "")

	code, env := api.book(alice, s.ID)
	require.Equal(t, http.StatusCreated, code)
	first := api.bookingID(env)

	code, env = api.do(http.MethodDelete, fmt.Sprintf("/api/time-slots/%d", s.ID), api.admin, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = api.setStatus(first, domain.BookingCancelled)
	require.Equal(t, http.StatusOK, code)
	api.assertBookedMatchesBookings()

	code, env = api.book(bella, s.ID)
	require.Equal(t, http.StatusCreated, code, env.Error.Message)
	api.assertBookedMatchesBookings()

	code, env = api.do(http.MethodGet, "/api/bookings/me", alice, nil)
	require.Equal(t, http.StatusOK, code)
	var mine struct {
		Bookings []domain.Booking `json:"bookings"`
	}
	api.decode(env, &mine)
	require.Len(t, mine.Bookings, 1)
	assert.Equal(t, domain.BookingCancelled, mine.Bookings[0].Status)
	assert.NotNil(t, mine.Bookings[0].CancelledAt)
}

func TestSlotAdministration(t *testing.T) {
	api := newTestAPI(t)
	client := api.registerClient("cora")

	s := api.createSlot("2030-01-09", "09:00", "Tous services")
	assert.Equal(t, "", s.Service)

	code, env := api.do(http.MethodPost, "/api/time-slots", api.admin, map[string]string{"date": "2030-01-09", "time": "09:00", "service": "universal"})
	assert.Equal(t, http.StatusConflict, code)

	code, env = api.do(http.MethodPost, "/api/time-slots", api.admin, map[string]string{"date": "2030-01-09", "time": "13:00"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	code, env = api.do(http.MethodPut, fmt.Sprintf("/api/time-slots/%d", s.ID), api.admin, map[string]bool{"is_available": false})
	require.Equal(t, http.StatusOK, code)

	code, _ = api.book(client, s.ID)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/time-slots/%d", s.ID), api.admin, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = api.do(http.MethodDelete, fmt.Sprintf("/api/time-slots/%d", s.ID), api.admin, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestConcurrentBookingsHaveOneWinner(t *testing.T) {
	api := newTestAPI(t)
	s := api.createSlot("2030-01-10", "11:00", "")

	const clients = 8
	tokens := make([]string, clients)
	for i := range tokens {
		tokens[i] = api.registerClient(fmt.Sprintf("client%d", i))
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		codes = map[int]int{}
	)
	for _, token := range tokens {
		wg.Add(1)
		go func(token string) {
			defer wg.Done()
			code, _ := api.book(token, s.ID)
			mu.Lock()
			codes[code]++
			mu.Unlock()
		}(token)
	}
	wg.Wait()

	assert.Equal(t, 1, codes[http.StatusCreated])
	assert.Equal(t, clients-1, codes[http.StatusConflict])
	api.assertBookedMatchesBookings()
}

func TestReviewLifecycle(t *testing.T) {
	api := newTestAPI(t)
	client := api.registerClient("dina")
	s := api.createSlot("2030-01-11", "15:00", "Pose Gel")

	code, env := api.book(client, s.ID)
	require.Equal(t, http.StatusCreated, code)
	id := api.bookingID(env)

	review := map[string]any{"booking_id": id, "rating": 5, "comment": "Magnifique"}

	code, env = api.do(http.MethodPost, "/api/reviews", client, review)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = api.do(http.MethodGet, "/api/reviews/my-eligible-bookings", client, nil)
	require.Equal(t, http.StatusOK, code)
	var eligible struct {
		Bookings []domain.Booking `json:"bookings"`
	}
	api.decode(env, &eligible)
	assert.Empty(t, eligible.Bookings)

	_, _ = api.setStatus(id, domain.BookingConfirmed)
	_, _ = api.setStatus(id, domain.BookingCompleted)

	code, env = api.do(http.MethodPost, "/api/reviews", client, review)
	require.Equal(t, http.StatusCreated, code, env.Error.Message)
	var created struct {
		Review domain.Review `json:"review"`
	}
	api.decode(env, &created)
	assert.Equal(t, domain.ReviewPending, created.Review.Status)
	assert.Equal(t, "dina", created.Review.Username)
	assert.Equal(t, "Pose Gel", created.Review.Service)

	code, _ = api.do(http.MethodPost, "/api/reviews", client, review)
	assert.Equal(t, http.StatusConflict, code)

	code, env = api.do(http.MethodGet, "/api/reviews", "", nil)
	require.Equal(t, http.StatusOK, code)
	var public struct {
		Reviews []domain.Review `json:"reviews"`
	}
	api.decode(env, &public)
	assert.Empty(t, public.Reviews)

	path := fmt.Sprintf("/api/reviews/%d", created.Review.ID)
	code, _ = api.do(http.MethodPut, path, api.admin, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, code)
	code, env = api.do(http.MethodPut, path, api.admin, map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	code, env = api.do(http.MethodGet, "/api/reviews/stats", "", nil)
	require.Equal(t, http.StatusOK, code)
	var stats domain.ReviewStats
	api.decode(env, &stats)
	assert.Equal(t, int64(1), stats.TotalReviews)
	assert.Equal(t, 5.0, stats.AverageRating)
	assert.Equal(t, int64(1), stats.Distribution[5])
}

// blockingConn is a feed connection whose peer stopped reading.
type blockingConn struct {
	release chan struct{}
	once    sync.Once
}

func (c *blockingConn) WriteJSON(any) error {
	<-c.release
	return errors.New("connection closed")
}

func (c *blockingConn) WriteControl(int, []byte, time.Time) error { return nil }

func (c *blockingConn) SetWriteDeadline(time.Time) error { return nil }

func (c *blockingConn) Close() error {
	c.once.Do(func() { close(c.release) })
	return nil
}

func TestBookingNotBlockedByStalledFeed(t *testing.T) {
	api := newTestAPI(t)
	t.Cleanup(api.srv.Hub.Close)
	client := api.registerClient("emma")

	stalled := &blockingConn{release: make(chan struct{})}
	api.srv.Hub.Register(99, stalled)

	var slotIDs []int64
	for i, at := range []string{"09:00", "10:00", "11:00", "12:00"} {
		slotIDs = append(slotIDs, api.createSlot(fmt.Sprintf("2030-02-0%d", i+1), at, "").ID)
	}

	done := make(chan int, len(slotIDs))
	go func() {
		for _, id := range slotIDs {
			code, _ := api.book(client, id)
			done <- code
		}
	}()

	for i := 0; i < 4; i++ {
		select {
		case code := <-done:
			assert.Equal(t, http.StatusCreated, code)
		case <-time.After(3 * time.Second):
			t.Fatal("booking request blocked by a stalled feed connection")
		}
	}
}
