package notify

import (
	"fmt"
	"sort"
	"strings"

	"github.com/novaasia/ordering-service/internal/order"
)

// OrderText renders the human-readable summary sent to the chat and email
// channels and shown on the POS realtime view.
func OrderText(storeName string, o *order.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🧾 Nieuwe bestelling bij %s:\n\n", storeName)

	names := make([]string, 0, len(o.Items))
	for name := range o.Items {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " - %s x %d\n", name, o.Items[name].Qty)
	}
	b.WriteString("\n")

	if o.Type == order.TypePickup {
		b.WriteString("[Afhalen]\n")
		fmt.Fprintf(&b, "Naam: %s\n", o.CustomerName)
		fmt.Fprintf(&b, "Telefoon: %s\n", o.Phone)
		if o.Email != "" {
			fmt.Fprintf(&b, "Email: %s\n", o.Email)
		}
		fmt.Fprintf(&b, "Afhaaltijd: %s\n", o.PickupTime)
	} else {
		b.WriteString("[Bezorgen]\n")
		fmt.Fprintf(&b, "Naam: %s\n", o.CustomerName)
		fmt.Fprintf(&b, "Telefoon: %s\n", o.Phone)
		if o.Email != "" {
			fmt.Fprintf(&b, "Email: %s\n", o.Email)
		}
		fmt.Fprintf(&b, "Adres: %s %s, %s %s\n", o.Address.Street, o.Address.HouseNumber, o.Address.Postcode, o.Address.City)
		fmt.Fprintf(&b, "Bezorgtijd: %s\n", o.DeliveryTime)
	}

	fmt.Fprintf(&b, "Betaalwijze: %s\n", o.PaymentMethod)
	fmt.Fprintf(&b, "Totaal: €%.2f", o.Total)

	return b.String()
}
