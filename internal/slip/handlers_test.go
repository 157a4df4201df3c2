package slip_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/akshayfabrics/backend-slip/internal/slip"
)

type draftEnvelope struct {
	Data struct {
		Draft  slip.Draft  `json:"draft"`
		Totals slip.Totals `json:"totals"`
	} `json:"data"`
}

func newTestRouter(t *testing.T) (*chi.Mux, *slip.Service) {
	t.Helper()
	svc := newTestService(newMemStore(), nil)
	h := &slip.Handler{Svc: svc, Validate: validator.New()}
	r := chi.NewRouter()
	r.Route("/api/v1/slips", h.Routes)
	return r, svc
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeDraft(t *testing.T, rec *httptest.ResponseRecorder) draftEnvelope {
	t.Helper()
	var env draftEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestCreateAndGetDraft(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/slips", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeDraft(t, rec)
	require.NotEmpty(t, created.Data.Draft.ID)
	require.Len(t, created.Data.Draft.Items, 1)
	require.Equal(t, "₹0.00", created.Data.Totals.NetAmount)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/slips/"+created.Data.Draft.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/slips/missing", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHeaderAndAdjustmentPatch(t *testing.T) {
	r, _ := newTestRouter(t)
	created := decodeDraft(t, doJSON(t, r, http.MethodPost, "/api/v1/slips", ""))
	id := created.Data.Draft.ID

	rec := doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/header", `{"customerName":"Ramesh Textiles"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeDraft(t, rec)
	require.Equal(t, "Ramesh Textiles", env.Data.Draft.Header.CustomerName)
	require.NotEmpty(t, env.Data.Draft.Header.Date)

	rec = doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/adjustment", `{"balanceOutstanding":"-800"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeDraft(t, rec)
	require.Equal(t, "-800", env.Data.Draft.Adjustment)
	require.Equal(t, "-₹800.00", env.Data.Totals.NetAmount)
}

func TestItemEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)
	created := decodeDraft(t, doJSON(t, r, http.MethodPost, "/api/v1/slips", ""))
	id := created.Data.Draft.ID
	itemID := created.Data.Draft.Items[0].ID

	rec := doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/items/"+itemID, `{"field":"meters","value":"25.5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/items/"+itemID, `{"field":"rate","value":"40"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeDraft(t, rec)
	require.Equal(t, 1020.0, env.Data.Draft.Items[0].Total)
	require.Equal(t, "₹1,020.00", env.Data.Totals.GrossAmount)

	// Description edits derive meters.
	rec = doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/items/"+itemID, `{"field":"description","value":"12+8×2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeDraft(t, rec)
	require.Equal(t, "28", env.Data.Draft.Items[0].Meters)

	rec = doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/items/"+itemID, `{"field":"total","value":"999"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/api/v1/slips/"+id+"/items", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeDraft(t, rec)
	require.Len(t, env.Data.Draft.Items, 2)

	rec = doJSON(t, r, http.MethodDelete, "/api/v1/slips/"+id+"/items/"+env.Data.Draft.Items[1].ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	env = decodeDraft(t, rec)
	require.Len(t, env.Data.Draft.Items, 1)
}

func TestPaymentURIEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	created := decodeDraft(t, doJSON(t, r, http.MethodPost, "/api/v1/slips", ""))
	id := created.Data.Draft.ID
	itemID := created.Data.Draft.Items[0].ID

	// Zero net is not payable.
	rec := doJSON(t, r, http.MethodGet, "/api/v1/slips/"+id+"/payment-uri", "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/items/"+itemID, `{"field":"meters","value":"10"}`)
	doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/items/"+itemID, `{"field":"rate","value":"250"}`)

	rec = doJSON(t, r, http.MethodGet, "/api/v1/slips/"+id+"/payment-uri", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data struct {
			PaymentURI string `json:"paymentUri"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "upi://pay?pa=merchant@bank&pn=Akshay%20Fabrics&am=2500.00&cu=INR", env.Data.PaymentURI)
}

func TestFinalizeEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	created := decodeDraft(t, doJSON(t, r, http.MethodPost, "/api/v1/slips", ""))
	id := created.Data.Draft.ID
	itemID := created.Data.Draft.Items[0].ID

	doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/items/"+itemID, `{"field":"pieces","value":"12"}`)
	doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/items/"+itemID, `{"field":"meters","value":"25.5"}`)
	doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/items/"+itemID, `{"field":"rate","value":"40"}`)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/slips/"+id+"/finalize", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var env struct {
		Data slip.FinalizedSlip `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, int64(1), env.Data.SlipNo)
	require.Equal(t, "₹1,020.00", env.Data.Totals.GrossAmount)

	// The draft is gone after finalize.
	rec = doJSON(t, r, http.MethodGet, "/api/v1/slips/"+id, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResetEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	created := decodeDraft(t, doJSON(t, r, http.MethodPost, "/api/v1/slips", ""))
	id := created.Data.Draft.ID

	doJSON(t, r, http.MethodPatch, "/api/v1/slips/"+id+"/header", `{"customerName":"Ramesh Textiles"}`)
	doJSON(t, r, http.MethodPost, "/api/v1/slips/"+id+"/items", "")

	rec := doJSON(t, r, http.MethodPost, "/api/v1/slips/"+id+"/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeDraft(t, rec)
	require.Empty(t, env.Data.Draft.Header.CustomerName)
	require.Len(t, env.Data.Draft.Items, 1)
}
