package models

// OrderForm contient les coordonnées saisies au checkout.
type OrderForm struct {
	Name       string `json:"name" form:"name" validate:"notblank"`
	Phone      string `json:"phone" form:"phone" validate:"notblank,phone"`
	Address    string `json:"address" form:"address" validate:"notblank"`
	City       string `json:"city" form:"city" validate:"notblank"`
	PostalCode string `json:"postalCode" form:"postalCode"`
}

// ContactForm est le formulaire de la page contact.
type ContactForm struct {
	Name    string `json:"name" form:"name" validate:"notblank"`
	Email   string `json:"email" form:"email" validate:"notblank"`
	Message string `json:"message" form:"message" validate:"notblank"`
}

// Slide est une bannière promotionnelle de la page d'accueil.
type Slide struct {
	ID    int    `json:"id" yaml:"id"`
	Image string `json:"image" yaml:"image"`
}
