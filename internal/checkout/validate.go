package checkout

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"dotscent_back_end/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ContactFormMessage est l'unique message du formulaire de contact.
const ContactFormMessage = "Please fill in all fields"

// phonePattern est volontairement permissif : chiffres, espaces, +, parenthèses et tirets.
var phonePattern = regexp.MustCompile(`^[\d\s+()-]+$`)

// orderMessages associe "champ.règle" au message affiché sous le champ.
var orderMessages = map[string]string{
	"name.notblank":    "Name is required",
	"phone.notblank":   "Phone number is required",
	"phone.phone":      "Please enter a valid phone number",
	"address.notblank": "Address is required",
	"city.notblank":    "City is required",
}

// Les règles sont portées par les tags `validate` de models.OrderForm et models.ContactForm.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// les erreurs sont indexées par le nom JSON du champ
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidationErrors associe un champ du formulaire à son message d'erreur.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "invalid fields: " + strings.Join(fields, ", ")
}

// ValidateOrder vérifie le formulaire de commande. Le code postal est facultatif.
func ValidateOrder(form models.OrderForm) ValidationErrors {
	return fieldErrors(validate.Struct(form), func(field, tag string) string {
		if msg, ok := orderMessages[field+"."+tag]; ok {
			return msg
		}
		return field + " is invalid"
	})
}

// ValidateContact exige les trois champs ; chaque champ manquant porte ContactFormMessage.
func ValidateContact(form models.ContactForm) ValidationErrors {
	return fieldErrors(validate.Struct(form), func(string, string) string {
		return ContactFormMessage
	})
}

func fieldErrors(err error, message func(field, tag string) string) ValidationErrors {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{"form": err.Error()}
	}
	out := make(ValidationErrors, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe.Field(), fe.Tag())
	}
	return out
}
