package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
	"unicode"

	"github.com/greenbasket/storefront/internal/cart"
	"github.com/greenbasket/storefront/internal/catalog"
	"github.com/greenbasket/storefront/internal/checkout"
	"github.com/greenbasket/storefront/internal/pricing"
)

type CheckoutHandler struct {
	store       *cart.Store
	snap        *catalog.Snapshot
	phone       string // the shop's WhatsApp number
	catalogWait time.Duration
	timeout     time.Duration
	log         *slog.Logger
}

func NewCheckoutHandler(store *cart.Store, snap *catalog.Snapshot, phone string, catalogWait, timeout time.Duration, log *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{store: store, snap: snap, phone: phone, catalogWait: catalogWait, timeout: timeout, log: log}
}

type CheckoutRequestDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type CheckoutResponse struct {
	Reference   string  `json:"reference"`
	Total       float64 `json:"total"`
	Message     string  `json:"message"`
	WhatsAppURL string  `json:"whatsapp_url"`
}

// Checkout reads a final snapshot of the cart, formats the outbound order
// message and clears the cart. There is no payment step and no persistent
// order record; the deep link is the whole handoff.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" || req.Phone == "" || req.Address == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", "name, phone and address are required")
		return
	}
	if digitCount(req.Phone) < 10 {
		respondError(w, http.StatusBadRequest, "invalid_phone", "phone must have at least 10 digits")
		return
	}

	// The order lines carry catalog names and prices, so wait for the
	// first load before composing the message.
	h.snap.WaitReady(ctx, h.catalogWait)

	items, err := h.store.Items(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}
	if len(items) == 0 {
		respondError(w, http.StatusConflict, "cart_empty", "cart is empty")
		return
	}

	lines := make([]checkout.Line, 0, len(items))
	for _, it := range items {
		name := it.ProductID
		p := h.snap.Find(it.ProductID)
		if p != nil && p.Name != "" {
			name = p.Name
		}
		unit := 0.0
		if it.Price != nil {
			unit = *it.Price
		} else {
			unit = pricing.UnitPrice(p, it.Weight)
		}
		lines = append(lines, checkout.Line{
			Name:      name,
			Grams:     it.Weight,
			Quantity:  it.Quantity,
			UnitPrice: unit,
		})
	}

	total, err := h.store.Total(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	ref := checkout.NewReference()
	msg := checkout.Message(ref, checkout.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}, lines, total)

	// The cart is cleared once the order message is produced. Checkout is
	// not transactional; a lost deep link means re-adding items.
	if err := h.store.Clear(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	h.log.Info("order checked out", "reference", ref, "items", len(items), "total", total,
		"request_id", getRequestID(r.Context()))

	respondJSON(w, http.StatusCreated, CheckoutResponse{
		Reference:   ref,
		Total:       total,
		Message:     msg,
		WhatsAppURL: checkout.WhatsAppURL(h.phone, msg),
	})
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
