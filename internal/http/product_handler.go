package http

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/greenbasket/storefront/internal/catalog"
	"github.com/greenbasket/storefront/internal/domain"
	"github.com/greenbasket/storefront/internal/pricing"
	"github.com/greenbasket/storefront/internal/weight"
)

type ProductHandler struct {
	snap *catalog.Snapshot
	// how long a request waits for the first catalog load before serving
	// whatever state exists
	catalogWait time.Duration
}

func NewProductHandler(snap *catalog.Snapshot, catalogWait time.Duration) *ProductHandler {
	return &ProductHandler{snap: snap, catalogWait: catalogWait}
}

type ProductResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	OutOfStock  bool               `json:"out_of_stock"`
	Prices      map[string]float64 `json:"prices"`
}

type ProductsResponse struct {
	Products   []ProductResponse `json:"products"`
	Categories []string          `json:"categories"`
}

var displayTiers = []int{250, 500, 1000, 2000}

// List serves the catalog, optionally filtered by ?q= (name substring) and
// ?category=. It waits for catalog readiness up to the bounded timeout and
// then serves whatever is loaded, possibly nothing.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	h.snap.WaitReady(r.Context(), h.catalogWait)

	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	cat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category")))

	products := h.snap.Products()
	out := make([]ProductResponse, 0, len(products))
	catSet := map[string]struct{}{}
	for i := range products {
		p := &products[i]
		if p.Category != "" {
			catSet[p.Category] = struct{}{}
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if cat != "" && cat != "all" && p.Category != cat {
			continue
		}
		out = append(out, toProductResponse(p))
	}

	categories := make([]string, 0, len(catSet))
	for c := range catSet {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	respondJSON(w, http.StatusOK, ProductsResponse{Products: out, Categories: categories})
}

func toProductResponse(p *domain.Product) ProductResponse {
	prices := make(map[string]float64, len(displayTiers))
	for _, g := range displayTiers {
		if v := pricing.UnitPrice(p, g); v > 0 {
			prices[weight.Label(g)] = v
		}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Image:       p.Image,
		OutOfStock:  p.OutOfStock(),
		Prices:      prices,
	}
}
