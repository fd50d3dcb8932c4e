package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/greenbasket/storefront/internal/cart"
	"github.com/greenbasket/storefront/internal/catalog"
	"github.com/greenbasket/storefront/internal/pricing"
	"github.com/greenbasket/storefront/internal/weight"
)

type CartHandler struct {
	store *cart.Store
	snap  *catalog.Snapshot
	// how long a request waits for the first catalog load before serving
	// whatever state exists
	catalogWait time.Duration
	timeout     time.Duration
}

func NewCartHandler(store *cart.Store, snap *catalog.Snapshot, catalogWait, timeout time.Duration) *CartHandler {
	return &CartHandler{store: store, snap: snap, catalogWait: catalogWait, timeout: timeout}
}

// AddItemRequestDTO accepts weight as either a number of grams or a display
// string like "500g" or "1kg".
type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Weight    any    `json:"weight"`
	Quantity  int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	ProductID string `json:"product_id"`
	Weight    any    `json:"weight"`
	Quantity  int    `json:"quantity"`
}

type CartItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Weight    int     `json:"weight"`
	Label     string  `json:"label"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
	Unpriced  bool    `json:"unpriced,omitempty"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Count int                `json:"count"`
	Total float64            `json:"total"`
}

// Get renders the cart. Names and live prices come from the catalog, so the
// view waits for the first load up to the bounded timeout before resolving.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.snap.WaitReady(ctx, h.catalogWait)

	resp, err := h.buildCartResponse(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	// An unknown product is allowed (it resolves with an unpriced entry),
	// but one the catalog marks "out" is not. The stock check and the price
	// snapshot both need the catalog, so wait for the first load first.
	h.snap.WaitReady(ctx, h.catalogWait)
	if p := h.snap.Find(req.ProductID); p != nil && p.OutOfStock() {
		respondError(w, http.StatusConflict, "out_of_stock", "product is out of stock")
		return
	}

	if err := h.store.Add(ctx, req.ProductID, req.Weight, req.Quantity); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	resp, err := h.buildCartResponse(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	// Quantity 0 or below removes the entry; the store handles that.
	if err := h.store.SetQuantity(ctx, req.ProductID, req.Weight, req.Quantity); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	resp, err := h.buildCartResponse(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID := chi.URLParam(r, "productID")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	weightParam := r.URL.Query().Get("weight")

	if err := h.store.Remove(ctx, productID, weightParam); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}

	resp, err := h.buildCartResponse(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.store.Clear(ctx); err != nil {
		respondError(w, http.StatusInternalServerError, "cart_unavailable", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, CartResponse{Items: []CartItemResponse{}})
}

func (h *CartHandler) buildCartResponse(ctx context.Context) (CartResponse, error) {
	items, err := h.store.Items(ctx)
	if err != nil {
		return CartResponse{}, err
	}

	resp := CartResponse{Items: make([]CartItemResponse, 0, len(items))}
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

		resp.Items = append(resp.Items, CartItemResponse{
			ProductID: it.ProductID,
			Name:      name,
			Weight:    it.Weight,
			Label:     weight.Label(it.Weight),
			Quantity:  it.Quantity,
			UnitPrice: unit,
			LineTotal: unit * float64(it.Quantity),
			Unpriced:  it.Unpriced,
		})
		resp.Count += it.Quantity
		resp.Total += unit * float64(it.Quantity)
	}
	return resp, nil
}
