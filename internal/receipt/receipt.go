// Package receipt formats a completed sale for display or printing. It is a
// pure function of the sale snapshot and carries no business logic.
package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Mimieamichy/handy-dashboard/internal/domain"
)

const width = 38

// Render produces a plain-text receipt: header, one block per line item and
// the totals.
func Render(sale domain.Sale) string {
	var b strings.Builder

	center(&b, "POS System")
	center(&b, "Sales Receipt")
	divider(&b)

	row(&b, "Receipt #:", sale.ID.String())
	row(&b, "Date:", sale.Timestamp.Format("01/02/2006"))
	row(&b, "Time:", sale.Timestamp.Format("03:04:05 PM"))
	row(&b, "Cashier:", sale.Cashier)
	divider(&b)

	for _, item := range sale.Items {
		lineTotal := item.Price * float64(item.Quantity)
		row(&b, item.ProductName, fmt.Sprintf("$%.2f", lineTotal))
		fmt.Fprintf(&b, "  %d x $%.2f\n", item.Quantity, item.Price)
	}
	divider(&b)

	row(&b, "Subtotal:", fmt.Sprintf("$%.2f", sale.Subtotal))
	row(&b, "Total:", fmt.Sprintf("$%.2f", sale.Total))
	divider(&b)

	center(&b, "Thank you for your business!")
	center(&b, "Returns accepted within 30 days")
	center(&b, "with receipt")

	return b.String()
}

func center(b *strings.Builder, text string) {
	pad := (width - utf8.RuneCountInString(text)) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(text)
	b.WriteByte('\n')
}

func divider(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", width))
	b.WriteByte('\n')
}

func row(b *strings.Builder, label, value string) {
	gap := width - utf8.RuneCountInString(label) - utf8.RuneCountInString(value)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(label)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(value)
	b.WriteByte('\n')
}
