// Package checkout turns a final cart snapshot into the outbound WhatsApp
// order message the shop owner receives.
package checkout

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/greenbasket/storefront/internal/weight"
)

// Customer is the contact block of an order.
type Customer struct {
	Name    string
	Phone   string
	Address string
}

// Line is one resolved order line: the display name (or the raw product id
// when the catalog no longer knows it), the canonical weight and the priced
// amounts.
type Line struct {
	Name      string
	Grams     int
	Quantity  int
	UnitPrice float64
}

// Total returns the line total.
func (l Line) Total() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// NewReference mints an order reference for the message and the response.
func NewReference() string {
	return uuid.NewString()
}

// Message renders the order text. The layout is fixed; the shop owner's
// tooling expects the numbered summary lines and the bold total.
func Message(ref string, c Customer, lines []Line, total float64) string {
	var b strings.Builder
	b.WriteString("🛒 *New Order*\n\n")
	fmt.Fprintf(&b, "*Ref:* %s\n", ref)
	fmt.Fprintf(&b, "*Customer:* %s\n", c.Name)
	fmt.Fprintf(&b, "*Phone:* %s\n", c.Phone)
	fmt.Fprintf(&b, "*Address:* %s\n\n", c.Address)
	b.WriteString("*Order Summary:*\n")
	for i, l := range lines {
		fmt.Fprintf(&b, "%d. %s (%s) x %d = %s\n",
			i+1, l.Name, weight.Label(l.Grams), l.Quantity, FormatINR(l.Total()))
	}
	fmt.Fprintf(&b, "\n*Total: %s*", FormatINR(total))
	return b.String()
}

// WhatsAppURL builds the wa.me deep link that opens a chat with the shop
// number and the order message pre-filled.
func WhatsAppURL(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(message))
}

// FormatINR renders an amount in the shop's single display currency, with
// Indian digit grouping: the last three integer digits, then groups of two
// (₹1,23,456.78).
func FormatINR(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	neg := v < 0
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)

	intPart, fracPart, _ := strings.Cut(s, ".")
	grouped := groupIndian(intPart)

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s₹%s.%s", sign, grouped, fracPart)
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return strings.Join(groups, ",") + "," + tail
}
