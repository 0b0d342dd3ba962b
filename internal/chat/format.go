package chat

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatPrice affiche un prix comme la boutique : "Rs1,600".
func FormatPrice(price int) string {
	return "Rs" + printer.Sprintf("%d", price)
}
