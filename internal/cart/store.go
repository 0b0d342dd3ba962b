// Package cart contient le panier d'une session et sa persistance.
//
// Store est la seule source de vérité du panier : les lignes ne sont jamais
// exposées directement, si bien que les invariants (une ligne par produit,
// quantité >= 1) sont garantis ici et nulle part ailleurs.
package cart

import (
	"errors"
	"fmt"

	"dotscent_back_end/internal/models"
)

var ErrInvalidLine = errors.New("cart: invalid line")

type Store struct {
	lines []models.CartLine
}

func NewStore() *Store {
	return &Store{}
}

// Restore reconstruit un panier à partir d'un snapshot persisté.
func Restore(lines []models.CartLine) (*Store, error) {
	s := &Store{lines: make([]models.CartLine, 0, len(lines))}
	seen := make(map[int]struct{}, len(lines))
	for _, l := range lines {
		if l.Quantity < 1 {
			return nil, fmt.Errorf("%w: product %d has quantity %d", ErrInvalidLine, l.ID, l.Quantity)
		}
		if _, dup := seen[l.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %d", ErrInvalidLine, l.ID)
		}
		seen[l.ID] = struct{}{}
		s.lines = append(s.lines, l)
	}
	return s, nil
}

// AddToCart incrémente la ligne du produit, ou l'ajoute en fin de panier avec la quantité 1.
func (s *Store) AddToCart(p models.Product) {
	if i := s.index(p.ID); i >= 0 {
		s.lines[i].Quantity++
		return
	}
	s.lines = append(s.lines, models.CartLine{Product: p, Quantity: 1})
}

// RemoveFromCart supprime la ligne du produit id. Sans effet si elle n'existe pas.
func (s *Store) RemoveFromCart(id int) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.lines = append(s.lines[:i], s.lines[i+1:]...)
}

// UpdateQuantity fixe la quantité d'une ligne existante; quantity <= 0 supprime la ligne.
func (s *Store) UpdateQuantity(id, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(id)
		return
	}
	if i := s.index(id); i >= 0 {
		s.lines[i].Quantity = quantity
	}
}

func (s *Store) ClearCart() {
	s.lines = nil
}

// Total est toujours recalculé depuis les lignes.
func (s *Store) Total() int {
	total := 0
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// Count renvoie le nombre d'articles (somme des quantités), pas le nombre de lignes.
func (s *Store) Count() int {
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// Lines renvoie une copie des lignes dans l'ordre d'ajout.
func (s *Store) Lines() []models.CartLine {
	return append([]models.CartLine{}, s.lines...)
}

func (s *Store) IsEmpty() bool {
	return len(s.lines) == 0
}

// Quantity renvoie la quantité du produit id (0 s'il n'est pas dans le panier).
func (s *Store) Quantity(id int) int {
	if i := s.index(id); i >= 0 {
		return s.lines[i].Quantity
	}
	return 0
}

// Summary construit la vue renvoyée au front. La livraison est toujours offerte.
func (s *Store) Summary() models.CartSummary {
	return models.CartSummary{
		Items:    s.Lines(),
		Count:    s.Count(),
		Total:    s.Total(),
		Shipping: "free",
	}
}

func (s *Store) index(id int) int {
	for i := range s.lines {
		if s.lines[i].ID == id {
			return i
		}
	}
	return -1
}
