package models

// Category d'un parfum dans le catalogue.
type Category string

const (
	CategoryMen    Category = "men"
	CategoryWomen  Category = "women"
	CategoryUnisex Category = "unisex"
	// CategoryAll n'est pas une catégorie de produit, seulement le filtre "tout" de la boutique.
	CategoryAll Category = "all"
)

// Valid indique si c est une catégorie de produit (CategoryAll exclu).
func (c Category) Valid() bool {
	switch c {
	case CategoryMen, CategoryWomen, CategoryUnisex:
		return true
	}
	return false
}

type Product struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Price       int      `json:"price" yaml:"price"`
	Category    Category `json:"category" yaml:"category"`
	Description string   `json:"description" yaml:"description"`
	Image       string   `json:"image,omitempty" yaml:"image"`
	Video       string   `json:"video,omitempty" yaml:"video"`
	Volume      string   `json:"volume,omitempty" yaml:"volume"`
	Featured    bool     `json:"featured,omitempty" yaml:"featured"`
}
