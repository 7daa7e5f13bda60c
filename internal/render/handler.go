package render

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ledgerline/ledgerline/internal/customers"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/platform/httpx"
	"github.com/ledgerline/ledgerline/internal/shared"
	"github.com/ledgerline/ledgerline/internal/users"
)

// InvoiceRenderer converts an invoice document into PDF bytes.
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// Handler serves rendered invoice documents.
type Handler struct {
	logger    *slog.Logger
	invoices  *invoices.Service
	customers *customers.Service
	users     *users.Service
	renderer  InvoiceRenderer
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, invoiceSvc *invoices.Service, customerSvc *customers.Service, userSvc *users.Service, renderer InvoiceRenderer) *Handler {
	return &Handler{
		logger:    logger,
		invoices:  invoiceSvc,
		customers: customerSvc,
		users:     userSvc,
		renderer:  renderer,
	}
}

// MountRoutes registers render routes. Mounted under the invoices subtree.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{id}/pdf", h.invoicePDF)
}

func (h *Handler) invoicePDF(w http.ResponseWriter, r *http.Request) {
	ownerID := shared.OwnerFromContext(r.Context())
	id := chi.URLParam(r, "id")

	detail, err := h.invoices.Get(r.Context(), ownerID, id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	customer, err := h.customers.Get(r.Context(), ownerID, detail.CustomerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	issuer, err := h.users.Get(r.Context(), ownerID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	pdf, err := h.renderer.RenderInvoice(r.Context(), BuildDocument(*detail, *customer, *issuer))
	if err != nil {
		h.logger.Error("render invoice pdf",
			slog.String("invoice_id", id),
			slog.Any("error", err))
		httpx.Problem(w, http.StatusBadGateway, "Bad Gateway", "document rendering unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "invoice-"+detail.Number+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
