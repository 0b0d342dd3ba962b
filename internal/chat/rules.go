package chat

import (
	"fmt"
	"strings"

	"dotscent_back_end/internal/models"
)

// Query est le message utilisateur préparé pour les règles.
type Query struct {
	Raw    string
	Text   string   // message en minuscules
	Tokens []string // mots du message, séparés par les espaces

	// Product est renseigné par la règle produit quand elle répond.
	Product *models.Product
}

func newQuery(raw string) *Query {
	text := strings.ToLower(raw)
	return &Query{
		Raw:    raw,
		Text:   text,
		Tokens: strings.Fields(text),
	}
}

// ContainsAny indique si le message contient l'une des sous-chaînes.
func (q *Query) ContainsAny(keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(q.Text, k) {
			return true
		}
	}
	return false
}

// Rule produit une réponse si elle s'applique au message. Les règles sont
// évaluées dans l'ordre et la première qui répond l'emporte.
type Rule struct {
	Name    string
	Respond func(q *Query) (string, bool)
}

// Noms des règles, renvoyés avec chaque réponse.
const (
	RuleProduct    = "product"
	RuleCatalog    = "catalog"
	RulePriceRange = "price_range"
	RuleContact    = "contact"
	RuleHours      = "hours"
	RuleShipping   = "shipping"
	RuleAbout      = "about"
	RuleGreeting   = "greeting"
	RuleThanks     = "thanks"
	RuleHelp       = "help"
	RuleDefault    = "default"
)

var priceIntent = []string{"price", "cost", "how much"}

// keywordRule répond avec build quand le message contient l'un des mots-clés.
func keywordRule(name string, keywords []string, build func(q *Query) string) Rule {
	return Rule{
		Name: name,
		Respond: func(q *Query) (string, bool) {
			if !q.ContainsAny(keywords...) {
				return "", false
			}
			return build(q), true
		},
	}
}

// DefaultRules renvoie les règles de la boutique, dans l'ordre de priorité.
// La recherche de produit passe avant les groupes de mots-clés, pour que
// "what's the price of Jamaal" réponde sur Jamaal et non sur la gamme de prix.
func DefaultRules(cat Catalog, info BusinessInfo) []Rule {
	return []Rule{
		productRule(cat),
		keywordRule(RuleCatalog,
			[]string{"product", "perfume", "fragrance", "show", "what do you have", "collection"},
			func(*Query) string { return catalogReply(cat) }),
		{
			Name: RulePriceRange,
			Respond: func(q *Query) (string, bool) {
				if !q.ContainsAny("price range") && !(q.ContainsAny("price") && !q.ContainsAny("what")) {
					return "", false
				}
				return priceRangeReply(cat), true
			},
		},
		keywordRule(RuleContact,
			[]string{"contact", "phone", "email", "reach", "call"},
			func(*Query) string { return contactReply(info) }),
		keywordRule(RuleHours,
			[]string{"hour", "open", "timing", "available", "when"},
			func(*Query) string { return hoursReply(info) }),
		keywordRule(RuleShipping,
			[]string{"ship", "delivery", "deliver", "free"},
			func(*Query) string { return shippingReply(info) }),
		keywordRule(RuleAbout,
			[]string{"about", "who are you", "company", "dotscent"},
			func(*Query) string { return aboutReply(info) }),
		keywordRule(RuleGreeting,
			[]string{"hello", "hi", "hey", "good morning", "good evening"},
			func(*Query) string { return greetingReply(info) }),
		keywordRule(RuleThanks,
			[]string{"thank", "thanks"},
			func(*Query) string { return thanksReply }),
		keywordRule(RuleHelp,
			[]string{"help", "?"},
			func(*Query) string { return helpReply(info) }),
	}
}

func productRule(cat Catalog) Rule {
	return Rule{
		Name: RuleProduct,
		Respond: func(q *Query) (string, bool) {
			products := cat.All()
			for _, token := range q.Tokens {
				if !significant(token) {
					continue
				}
				p, ok := FindProductByName(products, token)
				if !ok {
					continue
				}
				q.Product = &p
				if q.ContainsAny(priceIntent...) {
					return productPriceReply(p), true
				}
				return productDescriptionReply(p), true
			}
			return "", false
		},
	}
}

func volumeOf(p models.Product) string {
	if p.Volume != "" {
		return p.Volume
	}
	return "50ml"
}

func productPriceReply(p models.Product) string {
	return fmt.Sprintf("%s is priced at %s for %s. 💰\n\nIt's a %s fragrance with this beautiful description:\n\"%s\"\n\nWould you like to add it to your cart or know more?",
		p.Name, FormatPrice(p.Price), volumeOf(p), p.Category, p.Description)
}

func productDescriptionReply(p models.Product) string {
	return fmt.Sprintf("%s ✨\n\nCategory: %s\nPrice: %s (%s)\n\nDescription:\n%s\n\nInterested? I can help you add it to your cart! 🛒",
		p.Name, capitalize(string(p.Category)), FormatPrice(p.Price), volumeOf(p), p.Description)
}

func catalogReply(cat Catalog) string {
	featured := cat.Featured()
	lines := make([]string, 0, len(featured))
	for _, p := range featured {
		lines = append(lines, fmt.Sprintf("✨ %s - %s (%s)", p.Name, FormatPrice(p.Price), p.Category))
	}
	return fmt.Sprintf("We have %d luxury perfumes! Here are our bestsellers:\n\n%s\n\nWant to know more about any specific fragrance? Just ask! 😊",
		cat.Len(), strings.Join(lines, "\n"))
}

func priceRangeReply(cat Catalog) string {
	min, max, _ := cat.PriceRange()
	return fmt.Sprintf("Our perfumes range from %s to %s for 50ml bottles. 💎\n\nAll our fragrances are premium quality luxury perfumes crafted with the finest ingredients.\n\nWould you like to know the price of a specific perfume? Just name it!",
		FormatPrice(min), FormatPrice(max))
}

func contactReply(info BusinessInfo) string {
	return fmt.Sprintf("You can reach us through:\n\n📞 Phone: %s\n📧 Email: %s\n📍 Location: %s\n💬 WhatsApp: Available 24/7\n\nFeel free to contact us anytime! We're here to help. 😊",
		info.Phone, info.Email, info.Location)
}

func hoursReply(info BusinessInfo) string {
	return fmt.Sprintf("We're available 24/7 to serve you! 🕐\n\nBusiness days: %s\nCustomer support: Round the clock\n\nYou can reach us anytime through WhatsApp, email, or phone. How can I help you today?",
		info.BusinessDays)
}

func shippingReply(info BusinessInfo) string {
	return fmt.Sprintf("We offer FREE delivery on all orders! 🚚✨\n\nDelivery is available across %s. Orders are typically processed within 24-48 hours.\n\nFor international shipping, please contact us directly at %s.",
		info.Country, info.Phone)
}

func aboutReply(info BusinessInfo) string {
	return fmt.Sprintf("%s is a luxury fragrance brand founded in %d in %s. 🌟\n\nCEO: %s\n\nWe specialize in premium, authentic perfumes crafted with the finest ingredients from around the world. Each bottle is a masterpiece of craftsmanship and passion!\n\nVisit our About page to learn more about our journey! 📖",
		info.Brand, info.Founded, info.City, info.CEO)
}

func greetingReply(info BusinessInfo) string {
	return fmt.Sprintf("Hello! 👋 Welcome to %s! I'm here to help you find the perfect luxury fragrance.\n\nYou can ask me about:\n• Our perfume collection\n• Specific product details\n• Prices and offers\n• Contact information\n• Shipping & delivery\n\nWhat would you like to know?",
		info.Brand)
}

const thanksReply = "You're very welcome! 😊 I'm always here to help.\n\nIs there anything else you'd like to know about our fragrances or services?"

func helpReply(info BusinessInfo) string {
	return fmt.Sprintf("I'm here to help! 🤗 I can assist you with:\n\n✨ Browsing our perfume collection\n💰 Pricing and product details\n📞 Contact information\n🕐 Business hours\n🚚 Shipping & delivery info\n📖 About %s\n\nJust ask me anything! For example:\n• \"Show products\"\n• \"What's the price of Jamaal?\"\n• \"Tell me about K.Soul\"\n• \"How can I contact you?\"",
		info.Brand)
}

const defaultReply = "I'd love to help you! 😊\n\nI can assist you with:\n✨ Our luxury perfume collection\n💰 Product prices and details\n📞 Contact information\n🕐 Business hours\n🚚 Shipping & delivery\n\nTry asking me:\n• \"Show me your products\"\n• \"What's the price of [perfume name]?\"\n• \"Tell me about [perfume name]\"\n• \"How can I contact you?\"\n\nWhat would you like to know?"

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
