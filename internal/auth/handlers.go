package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/akshayfabrics/backend-slip/internal/common"
)

// Handler exposes the device pairing endpoint.
type Handler struct {
	// PairingCodeHash is the argon2id hash of the shop's pairing code.
	PairingCodeHash string
	Issuer          TokenIssuer
	Logger          zerolog.Logger
}

// Pair exchanges the shop's pairing code for a device token.
func (h *Handler) Pair(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		PairingCode string `json:"pairingCode"`
		DeviceName  string `json:"deviceName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	payload.PairingCode = strings.TrimSpace(payload.PairingCode)
	if payload.PairingCode == "" {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "pairingCode is required", nil)
		return
	}
	if h.PairingCodeHash == "" {
		common.JSONError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "pairing not configured", nil)
		return
	}

	match, err := argon2id.ComparePasswordAndHash(payload.PairingCode, h.PairingCodeHash)
	if err != nil || !match {
		h.Logger.Warn().
			Str("remote_addr", common.ClientIP(r)).
			Str("device_name", payload.DeviceName).
			Msg("pairing attempt rejected")
		common.JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid pairing code", nil)
		return
	}

	deviceID := uuid.NewString()
	token, expiresAt, err := h.Issuer.Sign(deviceID)
	if err != nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "unable to issue token", nil)
		return
	}
	h.Logger.Info().
		Str("device_id", deviceID).
		Str("device_name", payload.DeviceName).
		Msg("device paired")
	common.JSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"deviceId":  deviceID,
			"token":     token,
			"expiresAt": expiresAt,
		},
	})
}
