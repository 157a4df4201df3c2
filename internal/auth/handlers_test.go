package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/akshayfabrics/backend-slip/internal/auth"
	"github.com/akshayfabrics/backend-slip/internal/common"
)

func newHandler(t *testing.T) *auth.Handler {
	t.Helper()
	hash, err := argon2id.CreateHash("shop-secret-1234", argon2id.DefaultParams)
	require.NoError(t, err)
	return &auth.Handler{
		PairingCodeHash: hash,
		Issuer: auth.TokenIssuer{
			Secret:   []byte("0123456789abcdef0123456789abcdef"),
			Issuer:   "backend-slip",
			Audience: "slip-devices",
			TTL:      time.Hour,
		},
		Logger: zerolog.Nop(),
	}
}

func TestPairSuccess(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/pair", strings.NewReader(`{"pairingCode":"shop-secret-1234","deviceName":"counter phone"}`))
	rec := httptest.NewRecorder()
	h.Pair(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data struct {
			DeviceID string `json:"deviceId"`
			Token    string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotEmpty(t, env.Data.DeviceID)

	deviceID, err := h.Issuer.Parse(env.Data.Token)
	require.NoError(t, err)
	require.Equal(t, env.Data.DeviceID, deviceID)
}

func TestPairWrongCode(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/pair", strings.NewReader(`{"pairingCode":"wrong"}`))
	rec := httptest.NewRecorder()
	h.Pair(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPairMissingCode(t *testing.T) {
	h := newHandler(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/pair", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Pair(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequireDevice(t *testing.T) {
	h := newHandler(t)
	mw := auth.Middleware{Issuer: h.Issuer}

	var seenDevice string
	protected := mw.RequireDevice(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenDevice, _ = common.DeviceID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/slips/x", nil)
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := h.Issuer.Sign("device-42")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/v1/slips/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "device-42", seenDevice)
}
