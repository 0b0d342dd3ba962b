// Package chat implémente l'assistant FAQ de la boutique : un répondeur à
// règles ordonnées (mots-clés et noms de produits), sans état entre deux appels.
package chat

import (
	"dotscent_back_end/internal/models"
)

// Catalog est la vue du catalogue utilisée par les règles.
type Catalog interface {
	All() []models.Product
	Featured() []models.Product
	Len() int
	PriceRange() (min, max int, ok bool)
}

// BusinessInfo alimente les réponses contact, horaires, livraison et présentation.
type BusinessInfo struct {
	Brand        string
	Phone        string
	Email        string
	Location     string
	City         string
	Country      string
	BusinessDays string
	CEO          string
	Founded      int
}

// DefaultBusinessInfo renvoie les coordonnées publiées sur le site.
func DefaultBusinessInfo() BusinessInfo {
	return BusinessInfo{
		Brand:        "DotScent",
		Phone:        "+92 319 463 5913",
		Email:        "dotscent2025@gmail.com",
		Location:     "Karachi, Sindh, Pakistan",
		City:         "Karachi, Pakistan",
		Country:      "Pakistan",
		BusinessDays: "Monday - Saturday",
		CEO:          "Mr. Rizwan Khalil",
		Founded:      2025,
	}
}

// Reply est la réponse du bot et la règle qui l'a produite.
type Reply struct {
	Text    string          `json:"text"`
	Rule    string          `json:"rule"`
	Product *models.Product `json:"product,omitempty"`
}

type Responder struct {
	rules []Rule
}

// NewResponder construit un répondeur avec les règles de la boutique.
func NewResponder(cat Catalog, info BusinessInfo) *Responder {
	return NewResponderWithRules(DefaultRules(cat, info))
}

func NewResponderWithRules(rules []Rule) *Responder {
	return &Responder{rules: append([]Rule(nil), rules...)}
}

// Respond applique les règles dans l'ordre; sans correspondance, renvoie l'aide par défaut.
func (r *Responder) Respond(message string) Reply {
	q := newQuery(message)
	for _, rule := range r.rules {
		if text, ok := rule.Respond(q); ok {
			return Reply{Text: text, Rule: rule.Name, Product: q.Product}
		}
	}
	return Reply{Text: defaultReply, Rule: RuleDefault}
}

// Rules renvoie le nom des règles dans leur ordre d'évaluation.
func (r *Responder) Rules() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}
