package chat

import (
	"strings"
	"unicode/utf8"

	"dotscent_back_end/internal/models"
)

const (
	// FuzzyThreshold est la part minimale de caractères du mot présents dans le nom.
	FuzzyThreshold = 0.7
	// MinTokenLength : seuls les mots strictement plus longs sont cherchés dans le catalogue.
	MinTokenLength = 2
)

// FindProductByName cherche un produit pour un mot saisi, dans cet ordre :
// nom exact, inclusion dans un sens ou dans l'autre, puis correspondance approximative
// (caractères distincts du mot présents dans le nom, rapportés à la longueur du mot).
// Le premier produit du catalogue qui satisfait une étape l'emporte.
func FindProductByName(products []models.Product, term string) (models.Product, bool) {
	search := strings.ToLower(strings.TrimSpace(term))
	if search == "" {
		return models.Product{}, false
	}

	for _, p := range products {
		if strings.ToLower(p.Name) == search {
			return p, true
		}
	}

	for _, p := range products {
		name := strings.ToLower(p.Name)
		if strings.Contains(name, search) || strings.Contains(search, name) {
			return p, true
		}
	}

	length := float64(utf8.RuneCountInString(search))
	distinct := distinctRunes(search)
	for _, p := range products {
		name := strings.ToLower(p.Name)
		matched := 0
		for _, r := range distinct {
			if strings.ContainsRune(name, r) {
				matched++
			}
		}
		if float64(matched)/length >= FuzzyThreshold {
			return p, true
		}
	}

	return models.Product{}, false
}

func distinctRunes(s string) []rune {
	seen := make(map[rune]struct{}, len(s))
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// significant indique si un mot est assez long pour être cherché dans le catalogue.
func significant(token string) bool {
	return utf8.RuneCountInString(token) > MinTokenLength
}
