package checkout

import (
	"fmt"
	"strings"

	"dotscent_back_end/internal/models"
)

const Brand = "DotScent"

// OrderMessage formate la commande pour WhatsApp : coordonnées du client,
// lignes numérotées puis total.
func OrderMessage(form models.OrderForm, lines []models.CartLine, total int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*New Order from %s*\n\n", Brand)
	b.WriteString("*Customer Details:*\n")
	fmt.Fprintf(&b, "Name: %s\n", form.Name)
	fmt.Fprintf(&b, "Phone: %s\n", form.Phone)
	fmt.Fprintf(&b, "Address: %s\n", form.Address)
	fmt.Fprintf(&b, "City: %s\n", form.City)
	if form.PostalCode != "" {
		fmt.Fprintf(&b, "Postal Code: %s\n", form.PostalCode)
	}
	b.WriteString("\n*Order Items:*\n")

	for i, l := range lines {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, l.Name)
		fmt.Fprintf(&b, "   Category: %s\n", l.Category)
		fmt.Fprintf(&b, "   Quantity: %d\n", l.Quantity)
		fmt.Fprintf(&b, "   Price: Rs%d each\n", l.Price)
		fmt.Fprintf(&b, "   Subtotal: Rs%d\n", l.Subtotal())
	}

	fmt.Fprintf(&b, "\n*Total Amount: Rs%d*\n", total)
	fmt.Fprintf(&b, "\nThank you for choosing %s! 🌟", Brand)

	return b.String()
}

// ContactMessage formate le formulaire de contact pour WhatsApp.
func ContactMessage(form models.ContactForm) string {
	return fmt.Sprintf(`Hello %[1]s! 👋

*New Contact Form Message*

*Name:* %[2]s
*Email:* %[3]s

*Message:*
%[4]s

---
Sent from %[1]s Website`, Brand, form.Name, form.Email, form.Message)
}
