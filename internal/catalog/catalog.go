// Package catalog expose le catalogue statique des parfums DotScent.
// Le catalogue est chargé une seule fois et n'est jamais modifié ensuite.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"dotscent_back_end/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var productsYAML []byte

var (
	ErrDuplicateID     = errors.New("catalog: duplicate product id")
	ErrInvalidPrice    = errors.New("catalog: price must be positive")
	ErrInvalidCategory = errors.New("catalog: unknown category")
	ErrEmptyName       = errors.New("catalog: empty product name")
)

type file struct {
	Products []models.Product `yaml:"products"`
	Slides   []models.Slide   `yaml:"slides"`
}

type Catalog struct {
	products []models.Product
	byID     map[int]int
	slides   []models.Slide
}

// New valide les produits et construit un catalogue en lecture seule.
func New(products []models.Product, slides []models.Slide) (*Catalog, error) {
	c := &Catalog{
		products: make([]models.Product, 0, len(products)),
		byID:     make(map[int]int, len(products)),
		slides:   append([]models.Slide(nil), slides...),
	}

	for _, p := range products {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("%w (id %d)", ErrEmptyName, p.ID)
		}
		if p.Price <= 0 {
			return nil, fmt.Errorf("%w (id %d)", ErrInvalidPrice, p.ID)
		}
		if !p.Category.Valid() {
			return nil, fmt.Errorf("%w %q (id %d)", ErrInvalidCategory, p.Category, p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// Parse décode un catalogue YAML.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: decode yaml: %w", err)
	}
	return New(f.Products, f.Slides)
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default renvoie le catalogue embarqué dans le binaire.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(productsYAML)
	})
	return defaultCat, defaultErr
}

// MustDefault est Default pour l'initialisation du programme et les tests.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// All renvoie une copie des produits, dans l'ordre du catalogue.
func (c *Catalog) All() []models.Product {
	return append([]models.Product(nil), c.products...)
}

func (c *Catalog) Len() int {
	return len(c.products)
}

// ByID renvoie le produit et true, ou false si l'id est inconnu.
func (c *Catalog) ByID(id int) (models.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// Featured renvoie les best-sellers mis en avant.
func (c *Catalog) Featured() []models.Product {
	var out []models.Product
	for _, p := range c.products {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// ByCategory applique le filtre de la boutique. CategoryAll (ou "") renvoie tout.
func (c *Catalog) ByCategory(cat models.Category) ([]models.Product, error) {
	if cat == "" || cat == models.CategoryAll {
		return c.All(), nil
	}
	if !cat.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidCategory, cat)
	}
	out := []models.Product{}
	for _, p := range c.products {
		if p.Category == cat {
			out = append(out, p)
		}
	}
	return out, nil
}

// PriceRange calcule le prix min et max sur le catalogue courant.
// ok vaut false si le catalogue est vide.
func (c *Catalog) PriceRange() (min, max int, ok bool) {
	if len(c.products) == 0 {
		return 0, 0, false
	}
	min, max = c.products[0].Price, c.products[0].Price
	for _, p := range c.products[1:] {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	return min, max, true
}

// Slides renvoie les bannières promotionnelles.
func (c *Catalog) Slides() []models.Slide {
	return append([]models.Slide(nil), c.slides...)
}
