package checkout

import (
	"net/url"
	"strings"

	"github.com/skip2/go-qrcode"
)

const whatsAppBaseURL = "https://wa.me/"

// WhatsAppLink construit le lien wa.me avec le message pré-rempli.
// Le numéro est réduit à ses chiffres (indicatif pays compris, sans "+").
func WhatsAppLink(number, text string) string {
	return whatsAppBaseURL + digitsOnly(number) + "?text=" + EncodeURIComponent(text)
}

// EncodeURIComponent encode comme le navigateur : espaces en %20 et !'()* laissés tels quels.
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	return uriComponentFixer.Replace(escaped)
}

var uriComponentFixer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// QRCode encode le lien en PNG pour le scanner depuis un téléphone.
func QRCode(link string, size int) ([]byte, error) {
	return qrcode.Encode(link, qrcode.Medium, size)
}
