// Package checkout transforme le panier ou le formulaire de contact en message
// WhatsApp. Aucun paiement ni commande n'est enregistré côté serveur : le lien
// est ouvert par le client et aucun accusé de réception n'est attendu.
package checkout

import (
	"context"
	"errors"

	"dotscent_back_end/internal/cart"
	"dotscent_back_end/internal/models"

	"go.uber.org/zap"
)

var ErrEmptyCart = errors.New("checkout: cart is empty")

const qrCodeSize = 256

// Result est le lien de transfert prêt à ouvrir dans un nouvel onglet.
type Result struct {
	URL     string `json:"whatsapp_url"`
	Message string `json:"message"`
	Total   int    `json:"total,omitempty"`
	Count   int    `json:"count,omitempty"`
	QRCode  []byte `json:"qr_code,omitempty"`
}

// ContactNotifier reçoit une copie des messages de contact (e-mail...).
type ContactNotifier interface {
	NotifyContact(ctx context.Context, form models.ContactForm) error
}

type Service struct {
	carts    *cart.Service
	number   string
	notifier ContactNotifier
	logger   *zap.Logger
}

func NewService(carts *cart.Service, whatsAppNumber string, notifier ContactNotifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:    carts,
		number:   whatsAppNumber,
		notifier: notifier,
		logger:   logger,
	}
}

// PlaceOrder construit le message de commande et vide le panier de la session
// avant même que le lien soit ouvert.
func (s *Service) PlaceOrder(ctx context.Context, sessionID string, form models.OrderForm) (Result, error) {
	var res Result

	_, err := s.carts.Mutate(ctx, sessionID, func(st *cart.Store) error {
		if st.IsEmpty() {
			return ErrEmptyCart
		}
		if errs := ValidateOrder(form); errs != nil {
			return errs
		}

		res.Total = st.Total()
		res.Count = st.Count()
		res.Message = OrderMessage(form, st.Lines(), res.Total)
		res.URL = WhatsAppLink(s.number, res.Message)

		st.ClearCart()
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res.QRCode = s.qrCode(res.URL)
	s.logger.Info("🛒 Commande transférée vers WhatsApp",
		zap.String("session_id", sessionID),
		zap.Int("items", res.Count),
		zap.Int("total", res.Total))
	return res, nil
}

// Contact construit le lien du formulaire de contact et envoie la copie e-mail si configurée.
func (s *Service) Contact(ctx context.Context, form models.ContactForm) (Result, error) {
	if errs := ValidateContact(form); errs != nil {
		return Result{}, errs
	}

	msg := ContactMessage(form)
	res := Result{
		URL:     WhatsAppLink(s.number, msg),
		Message: msg,
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyContact(ctx, form); err != nil {
			// le lien WhatsApp reste le canal principal
			s.logger.Warn("⚠️ Copie e-mail du contact non envoyée", zap.Error(err))
		}
	}
	return res, nil
}

func (s *Service) qrCode(link string) []byte {
	png, err := QRCode(link, qrCodeSize)
	if err != nil {
		s.logger.Debug("QR code non généré", zap.Int("url_length", len(link)), zap.Error(err))
		return nil
	}
	return png
}
