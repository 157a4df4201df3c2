package slip

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/akshayfabrics/backend-slip/internal/common"
	"github.com/akshayfabrics/backend-slip/internal/obs"
	"github.com/akshayfabrics/backend-slip/internal/upi"
)

// Handler wires the slip service to HTTP.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
	// Idem, when set, wraps the finalize endpoint so retried requests do not
	// consume extra slip numbers.
	Idem func(http.Handler) http.Handler
}

func (h *Handler) validate(v any) error {
	if h.Validate == nil {
		return nil
	}
	return h.Validate.Struct(v)
}

// Routes mounts the draft slip endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Create)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/header", h.UpdateHeader)
		r.Patch("/adjustment", h.SetAdjustment)
		r.Post("/items", h.AddItem)
		r.Patch("/items/{itemId}", h.UpdateItem)
		r.Delete("/items/{itemId}", h.RemoveItem)
		r.Post("/reset", h.Reset)
		r.Get("/payment-uri", h.PaymentURI)
		if h.Idem != nil {
			r.With(h.Idem).Post("/finalize", h.Finalize)
		} else {
			r.Post("/finalize", h.Finalize)
		}
	})
}

func (h *Handler) draftResponse(d Draft) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"draft":  d,
			"totals": ComputeTotals(d.Items, d.Adjustment),
		},
	}
}

// Create opens a new draft slip.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.CreateDraft(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, h.draftResponse(d))
}

// Get returns the draft with its derived totals.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.GetDraft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, h.draftResponse(d))
}

// UpdateHeader patches the customer header fields.
func (h *Handler) UpdateHeader(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mobile       *string `json:"mobile"`
		Date         *string `json:"date"`
		CustomerName *string `json:"customerName"`
		Bundles      *string `json:"bundles"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	d, err := h.Svc.UpdateHeader(r.Context(), chi.URLParam(r, "id"), HeaderPatch{
		Mobile:       payload.Mobile,
		Date:         payload.Date,
		CustomerName: payload.CustomerName,
		Bundles:      payload.Bundles,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, h.draftResponse(d))
}

// SetAdjustment replaces the balance-outstanding text.
func (h *Handler) SetAdjustment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Adjustment string `json:"balanceOutstanding"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	d, err := h.Svc.SetAdjustment(r.Context(), chi.URLParam(r, "id"), payload.Adjustment)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, h.draftResponse(d))
}

// AddItem appends a blank row to the draft.
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.AddItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, h.draftResponse(d))
}

// UpdateItem applies a single-field update to one row.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Field string `json:"field" validate:"required,oneof=name description pieces meters rate"`
		Value string `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return
	}
	if err := h.validate(payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "field must be one of name, description, pieces, meters, rate", nil)
		return
	}
	field, ok := ParseField(payload.Field)
	if !ok {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown field", nil)
		return
	}
	d, err := h.Svc.UpdateItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId"), field, payload.Value)
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, h.draftResponse(d))
}

// RemoveItem drops one row from the draft.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.RemoveItem(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemId"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, h.draftResponse(d))
}

// Reset discards the draft contents back to a blank slip.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	d, err := h.Svc.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	obs.ObserveDraftReset()
	common.JSON(w, http.StatusOK, h.draftResponse(d))
}

// PaymentURI returns a UPI payment link for the draft's net amount.
func (h *Handler) PaymentURI(w http.ResponseWriter, r *http.Request) {
	uri, err := h.Svc.PaymentURI(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, upi.ErrInvalidAmount) {
			obs.ObservePaymentURI("invalid")
		}
		h.writeError(w, err)
		return
	}
	obs.ObservePaymentURI("ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"paymentUri": uri}})
}

// Finalize issues the slip number and returns the finalized document.
func (h *Handler) Finalize(w http.ResponseWriter, r *http.Request) {
	out, err := h.Svc.Finalize(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	obs.ObserveSlipFinalized()
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusBadRequest
		}
		common.JSONError(w, status, appErr.Code, appErr.Message, appErr.Details)
		return
	}
	switch {
	case errors.Is(err, ErrDraftNotFound):
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "draft not found", nil)
	case errors.Is(err, upi.ErrInvalidAmount):
		common.JSONError(w, http.StatusUnprocessableEntity, "INVALID_AMOUNT", "net amount is not payable", nil)
	case errors.Is(err, upi.ErrInvalidPayee):
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "payee not configured", nil)
	default:
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", err.Error(), nil)
	}
}
