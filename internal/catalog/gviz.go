package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/greenbasket/storefront/internal/domain"
)

// SheetURL builds the gviz JSON endpoint for a published Google Sheet tab.
func SheetURL(sheetID, sheetName string) string {
	return fmt.Sprintf(
		"https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:json&sheet=%s",
		sheetID, strings.ReplaceAll(sheetName, " ", "%20"),
	)
}

var (
	// ErrHTMLResponse means the sheet endpoint answered with a page instead
	// of data, which usually means the sheet is not shared publicly.
	ErrHTMLResponse = errors.New("sheet returned HTML; check that the sheet is public and the ID and tab name are correct")

	errNoTable = errors.New("unexpected sheet response format")
)

type gvizResponse struct {
	Table struct {
		Cols []struct {
			ID    string `json:"id"`
			Label string `json:"label"`
		} `json:"cols"`
		Rows []struct {
			C []*struct {
				V any `json:"v"`
			} `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

var (
	whitespace  = regexp.MustCompile(`\s+`)
	nonSlugRune = regexp.MustCompile(`[^a-z0-9]+`)
)

// Price columns that get coerced to numbers when the sheet delivers them as
// strings.
var priceColumns = []string{"price_250g", "price_500g", "price_1kg", "price_2kg", "base_price_1kg"}

// ParseSheet decodes a gviz response body into product records. The payload
// arrives wrapped in a google.visualization.Query.setResponse(...) call; the
// wrapper is stripped before decoding. Column labels become snake_case
// attribute keys, and each row keeps every cell in column order so price
// resolution can scan the record the way the sheet defined it.
func ParseSheet(body []byte) ([]domain.Product, error) {
	text := strings.TrimSpace(string(body))
	if strings.HasPrefix(text, "<") {
		return nil, ErrHTMLResponse
	}

	payload := text
	if start, end := strings.Index(text, "("), strings.LastIndex(text, ")"); start > -1 && end > start {
		payload = text[start+1 : end]
	}

	var resp gvizResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("decoding sheet response: %w", err)
	}
	if len(resp.Table.Cols) == 0 {
		return nil, errNoTable
	}

	keys := make([]string, len(resp.Table.Cols))
	for i, col := range resp.Table.Cols {
		label := strings.TrimSpace(col.Label)
		if label == "" {
			label = strings.TrimSpace(col.ID)
		}
		if label == "" {
			label = fmt.Sprintf("col%d", i)
		}
		keys[i] = whitespace.ReplaceAllString(strings.ToLower(label), "_")
	}

	products := make([]domain.Product, 0, len(resp.Table.Rows))
	for row, r := range resp.Table.Rows {
		attrs := make([]domain.Attr, 0, len(r.C))
		for i, cell := range r.C {
			if i >= len(keys) {
				break
			}
			var v any = ""
			if cell != nil && cell.V != nil {
				v = cell.V
			}
			attrs = append(attrs, domain.Attr{Key: keys[i], Value: v})
		}
		products = append(products, buildProduct(attrs, row))
	}
	return products, nil
}

// buildProduct applies the row defaults the storefront relies on: a
// deterministic identifier when the sheet has none, a lowercase category,
// coerced price numbers and a base price that falls back to the 1kg tier.
func buildProduct(attrs []domain.Attr, row int) domain.Product {
	p := domain.Product{Attrs: attrs}

	p.Name = stringAttr(&p, "name")
	p.ID = stringAttr(&p, "id")
	if p.ID == "" {
		// Content-derived fallback so identifiers stay stable across
		// reloads and cart entries keep resolving.
		p.ID = fallbackID(p.Name, row)
		setAttr(&p, "id", p.ID)
	}

	p.Category = strings.ToLower(strings.TrimSpace(stringAttr(&p, "category")))
	if p.Category == "" {
		p.Category = "others"
		setAttr(&p, "category", p.Category)
	}

	for _, col := range priceColumns {
		if raw, ok := p.Attr(col); ok {
			if s, isStr := raw.(string); isStr {
				if s = strings.TrimSpace(s); s != "" {
					if n, err := strconv.ParseFloat(s, 64); err == nil {
						setAttr(&p, col, n)
					}
				}
			}
		}
	}
	if v, ok := p.Attr("base_price_1kg"); !ok || !positiveNumber(v) {
		if kg, ok := p.Attr("price_1kg"); ok && positiveNumber(kg) {
			setAttr(&p, "base_price_1kg", kg)
		}
	}

	p.Stock = strings.TrimSpace(stringAttr(&p, "stock"))
	if p.Stock == "" {
		p.Stock = "available"
		setAttr(&p, "stock", p.Stock)
	}

	p.Image = stringAttr(&p, "image")
	if p.Image == "" {
		p.Image = fmt.Sprintf("images/%s.jpg", p.ID)
		setAttr(&p, "image", p.Image)
	}

	p.Description = stringAttr(&p, "description")
	if p.Description == "" {
		name := p.Name
		if name == "" {
			name = "product"
		}
		p.Description = fmt.Sprintf("Fresh %s - premium quality.", name)
		setAttr(&p, "description", p.Description)
	}

	return p
}

func fallbackID(name string, row int) string {
	base := strings.ToLower(strings.TrimSpace(name))
	if base == "" {
		base = "product"
	}
	base = strings.Trim(nonSlugRune.ReplaceAllString(base, "-"), "-")
	if base == "" {
		base = "product"
	}
	return fmt.Sprintf("%s-%d", base, row+1)
}

func stringAttr(p *domain.Product, key string) string {
	v, ok := p.Attr(key)
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func setAttr(p *domain.Product, key string, value any) {
	for i := range p.Attrs {
		if p.Attrs[i].Key == key {
			p.Attrs[i].Value = value
			return
		}
	}
	p.Attrs = append(p.Attrs, domain.Attr{Key: key, Value: value})
}

func positiveNumber(v any) bool {
	n, ok := v.(float64)
	return ok && n > 0
}
