package tests

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/propertybazaar/server/internal/auth"
	"github.com/propertybazaar/server/internal/config"
	"github.com/propertybazaar/server/internal/db"
	httphandler "github.com/propertybazaar/server/internal/http"
	"github.com/propertybazaar/server/internal/middleware"
	"github.com/propertybazaar/server/internal/model"
	"github.com/propertybazaar/server/internal/notify"
	"github.com/propertybazaar/server/internal/otp"
	"github.com/propertybazaar/server/internal/repo"
)

const otpBurst = 25

func TestMain(m *testing.M) {
	// Set env if unset. Do NOT set DATABASE_URL; integration tests skip if missing.
	if os.Getenv("JWT_SECRET") == "" {
		os.Setenv("JWT_SECRET", "test-jwt-secret-at-least-32-characters-long")
	}
	if os.Getenv("DEV_MODE") == "" {
		os.Setenv("DEV_MODE", "true")
	}

	code := m.Run()
	os.Exit(code)
}

// testServer holds the server and DB for integration tests
type testServer struct {
	Server *httptest.Server
	DB     *sql.DB
	Users  repo.UserRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg, err := config.Load()
	require.NoError(t, err, "config load must succeed for integration test")

	logger := zap.NewNop()
	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL, logger)
	require.NoError(t, err, "database open must succeed; check DATABASE_URL and that test DB exists")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.Migrate(database, logger), "migrations must run successfully")

	userRepo := repo.NewUserRepo(database)
	otpService := otp.NewService(otp.NewMemoryStore(cfg.OTPRetention), notify.NewLogDispatcher(logger), userRepo, logger, otp.WithDevEcho())

	router := httphandler.NewRouter(httphandler.Deps{
		OTPService:     otpService,
		JWTService:     auth.NewJWTService(cfg.JWTSecret),
		Properties:     repo.NewPropertyRepo(database),
		Appointments:   repo.NewAppointmentRepo(database),
		SavedLists:     repo.NewSavedListRepo(database),
		Users:          userRepo,
		OTPLimiter:     middleware.NewRateLimiter(10*time.Minute, otpBurst),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testServer{Server: server, DB: database, Users: userRepo}
}

func (s *testServer) Truncate(t *testing.T) {
	t.Helper()
	require.NoError(t, TruncateTables(context.Background(), s.DB), "truncate tables")
}

// call sends a JSON body and decodes the JSON response
func (s *testServer) call(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw := readBody(resp)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &out), "body: %s", raw)
	return resp.StatusCode, out
}

func (s *testServer) sendOTP(t *testing.T, contact, typ string) string {
	t.Helper()
	status, body := s.call(t, http.MethodPost, "/api/otp", "", map[string]string{"action": "send", "contact": contact, "type": typ})
	require.Equal(t, http.StatusOK, status, "send must return 200: %v", body)
	code, _ := body["dev_otp"].(string)
	require.NotEmpty(t, code, "dev_otp must be present when DEV_MODE=true")
	return code
}

func TestAPIIntegration(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}

	ts := newTestServer(t)

	t.Run("A_HealthCheck", func(t *testing.T) {
		resp, err := ts.Server.Client().Get(ts.Server.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, "GET /health must return 200")
		var body map[string]bool
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.True(t, body["ok"], "response must contain {\"ok\":true}")
	})

	t.Run("B_SendTwiceLatestWins", func(t *testing.T) {
		ts.Truncate(t)
		first := ts.sendOTP(t, "+919800000001", "mobile")
		second := ts.sendOTP(t, "+919800000001", "mobile")

		if first != second {
			status, body := ts.call(t, http.MethodPost, "/api/otp", "", map[string]string{
				"action": "verify", "contact": "+919800000001", "otp": first, "type": "mobile",
			})
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "Invalid OTP", body["message"])
		}

		status, body := ts.call(t, http.MethodPost, "/api/otp", "", map[string]string{
			"action": "verify", "contact": "+919800000001", "otp": second, "type": "mobile",
		})
		assert.Equal(t, http.StatusOK, status, "verify with latest code must succeed: %v", body)
	})

	t.Run("C_RegisterThenRegisterAgain", func(t *testing.T) {
		ts.Truncate(t)
		code := ts.sendOTP(t, "asha@example.com", "email")
		status, body := ts.call(t, http.MethodPost, "/api/otp", "", map[string]string{
			"action": "verify", "contact": "asha@example.com", "otp": code, "type": "email",
			"name": "Asha", "username": "asha1",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "created", body["registration"])

		u, err := ts.Users.GetByContact(context.Background(), "asha@example.com", model.ChannelEmail)
		require.NoError(t, err)
		assert.Equal(t, "Asha", u.Name)
		require.NotNil(t, u.Email)
		assert.Nil(t, u.Mobile)

		code = ts.sendOTP(t, "asha@example.com", "email")
		status, body = ts.call(t, http.MethodPost, "/api/otp", "", map[string]string{
			"action": "verify", "contact": "asha@example.com", "otp": code, "type": "email",
			"name": "Asha", "username": "asha1",
		})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "already_existed", body["registration"])
	})

	t.Run("D_TokenAndMe", func(t *testing.T) {
		ts.Truncate(t)
		code := ts.sendOTP(t, "+919800000002", "mobile")
		status, body := ts.call(t, http.MethodPost, "/api/otp", "", map[string]string{
			"action": "verify", "contact": "+919800000002", "otp": code, "type": "mobile",
		})
		require.Equal(t, http.StatusOK, status)
		token, _ := body["token"].(string)
		require.NotEmpty(t, token)

		status, body = ts.call(t, http.MethodGet, "/api/me", token, nil)
		assert.Equal(t, http.StatusOK, status)
		user := body["user"].(map[string]interface{})
		assert.Equal(t, "User", user["name"])
		assert.Equal(t, "+919800000002", user["contact"])
		assert.Equal(t, false, body["registered"], "login path does not create a user")
	})

	t.Run("E_ReplayIsNotFound", func(t *testing.T) {
		ts.Truncate(t)
		code := ts.sendOTP(t, "+919800000003", "mobile")
		verify := map[string]string{"action": "verify", "contact": "+919800000003", "otp": code, "type": "mobile"}
		status, _ := ts.call(t, http.MethodPost, "/api/otp", "", verify)
		require.Equal(t, http.StatusOK, status)
		status, body := ts.call(t, http.MethodPost, "/api/otp", "", verify)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "OTP not found. Resend it.", body["message"])
	})

	t.Run("F_Properties", func(t *testing.T) {
		ts.Truncate(t)
		for _, p := range []map[string]interface{}{
			{"title": "Old flat", "price": 5000000, "area": 700, "city": "Pune", "type": "Apartment", "purpose": "Sale"},
			{"title": "New flat", "price": 9000000, "area": 900, "city": "Navi Mumbai", "type": "Apartment", "purpose": "Sale"},
			{"title": "Beach villa", "price": 80000, "area": 2500, "city": "Goa", "type": "Villa", "purpose": "Rent"},
		} {
			status, body := ts.call(t, http.MethodPost, "/api/properties", "", p)
			require.Equal(t, http.StatusCreated, status, "%v", body)
		}

		status, body := ts.call(t, http.MethodGet, "/api/properties?purpose=SALE", "", nil)
		require.Equal(t, http.StatusOK, status)
		list := body["properties"].([]interface{})
		require.Len(t, list, 2)
		assert.Equal(t, "New flat", list[0].(map[string]interface{})["title"], "newest first")

		status, body = ts.call(t, http.MethodGet, "/api/properties?city=mumbai", "", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, body["properties"], 1)

		status, _ = ts.call(t, http.MethodGet, "/api/properties/3", "", nil)
		assert.Equal(t, http.StatusOK, status)
		status, _ = ts.call(t, http.MethodGet, "/api/properties/999", "", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("G_BookAppointment", func(t *testing.T) {
		ts.Truncate(t)
		status, body := ts.call(t, http.MethodPost, "/api/book-appointment", "", map[string]interface{}{
			"property_id": 1, "property_title": "Beach villa", "name": "Ravi", "email": "ravi@example.com",
			"phone": "+919800000004", "date": "2026-12-01", "message": "Morning please",
		})
		assert.Equal(t, http.StatusOK, status, "%v", body)
	})

	t.Run("H_SavedListLastWriteWins", func(t *testing.T) {
		ts.Truncate(t)
		code := ts.sendOTP(t, "+919800000005", "mobile")
		_, body := ts.call(t, http.MethodPost, "/api/otp", "", map[string]string{
			"action": "verify", "contact": "+919800000005", "otp": code, "type": "mobile",
		})
		token := body["token"].(string)

		t1 := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
		status, body := ts.call(t, http.MethodPut, "/api/saved", token, map[string]interface{}{"property_ids": []int64{42}, "updated_at": t1})
		require.Equal(t, http.StatusOK, status, "%v", body)

		status, body = ts.call(t, http.MethodPut, "/api/saved", token, map[string]interface{}{"property_ids": []int64{7}, "updated_at": t1.Add(-time.Minute)})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []interface{}{float64(42)}, body["property_ids"])

		status, body = ts.call(t, http.MethodGet, "/api/saved", token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, []interface{}{float64(42)}, body["property_ids"])
	})

	t.Run("I_RateLimit", func(t *testing.T) {
		send := map[string]string{"action": "send", "contact": "+919800000006", "type": "mobile"}
		var last int
		for i := 0; i <= otpBurst; i++ {
			last, _ = ts.call(t, http.MethodPost, "/api/otp", "", send)
			if last == http.StatusTooManyRequests {
				break
			}
		}
		assert.Equal(t, http.StatusTooManyRequests, last, "OTP endpoint must eventually return 429")
	})
}

// readBody reads and returns the response body (consumes it).
func readBody(resp *http.Response) string {
	if resp == nil || resp.Body == nil {
		return ""
	}
	b, _ := io.ReadAll(resp.Body)
	return string(b)
}
