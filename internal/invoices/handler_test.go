package invoices

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

func newTestRouter(svc *Service) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(logger, svc)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(shared.ContextWithOwner(req.Context(), "owner-1")))
		})
	})
	r.Route("/api/invoices", handler.MountRoutes)
	r.Route("/api/payments", handler.MountPaymentRoutes)
	return r
}

func TestHandlerCreateInvoice(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	body := `{
		"customer_id": "cust-1",
		"invoice_number": "INV-001",
		"items": [
			{"description": "Design work", "quantity": 10, "rate": 100},
			{"description": "Hosting", "quantity": 1, "rate": 200}
		],
		"tax": 10,
		"discount": 5
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var inv Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inv))
	require.Equal(t, 1260.0, inv.Total)
	require.Equal(t, StatusDraft, inv.Status)
}

func TestHandlerCreateInvoiceBadPayload(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/", bytes.NewBufferString(`{"items": "nope"`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerCreateInvoiceMissingNumber(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/", bytes.NewBufferString(`{"customer_id": "cust-1"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerPaymentFlow(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)
	inv := createTestInvoice(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/"+inv.ID+"/payments",
		bytes.NewBufferString(`{"amount": 500, "payment_method": "upi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var payment Payment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payment))

	req = httptest.NewRequest(http.MethodGet, "/api/invoices/"+inv.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail InvoiceDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	require.Equal(t, StatusSent, detail.Status)
	require.Equal(t, 760.0, detail.Remaining)

	req = httptest.NewRequest(http.MethodDelete, "/api/payments/"+payment.ID, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlerInvoiceNotFound(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/nope", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerInvalidPaymentAmount(t *testing.T) {
	svc, _ := newTestService()
	router := newTestRouter(svc)
	inv := createTestInvoice(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices/"+inv.ID+"/payments",
		bytes.NewBufferString(`{"amount": -5, "payment_method": "upi"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
