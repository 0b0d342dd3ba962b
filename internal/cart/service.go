package cart

import (
	"context"
	"errors"
	"sync"

	"dotscent_back_end/internal/models"

	"go.uber.org/zap"
)

var ErrUnknownProduct = errors.New("cart: unknown product")

// ProductLookup est la partie du catalogue dont le panier a besoin.
type ProductLookup interface {
	ByID(id int) (models.Product, bool)
}

// Service charge, modifie et sauvegarde le panier d'une session.
// Les requêtes concurrentes d'une même session sont sérialisées.
type Service struct {
	repo     Repository
	products ProductLookup
	logger   *zap.Logger
	locks    *keyedMutex
}

func NewService(repo Repository, products ProductLookup, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		products: products,
		logger:   logger,
		locks:    newKeyedMutex(),
	}
}

func (s *Service) Get(ctx context.Context, sessionID string) (models.CartSummary, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	store, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return models.CartSummary{}, err
	}
	return store.Summary(), nil
}

// Mutate applique fn au panier de la session puis le sauvegarde si fn réussit.
func (s *Service) Mutate(ctx context.Context, sessionID string, fn func(*Store) error) (models.CartSummary, error) {
	unlock := s.locks.lock(sessionID)
	defer unlock()

	store, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return models.CartSummary{}, err
	}
	if err := fn(store); err != nil {
		return models.CartSummary{}, err
	}
	if err := s.repo.Save(ctx, sessionID, store); err != nil {
		s.logger.Error("❌ Erreur sauvegarde panier", zap.String("session_id", sessionID), zap.Error(err))
		return models.CartSummary{}, err
	}
	return store.Summary(), nil
}

// Add ajoute une unité du produit du catalogue.
func (s *Service) Add(ctx context.Context, sessionID string, productID int) (models.CartSummary, error) {
	p, ok := s.products.ByID(productID)
	if !ok {
		return models.CartSummary{}, ErrUnknownProduct
	}
	return s.Mutate(ctx, sessionID, func(st *Store) error {
		st.AddToCart(p)
		s.logger.Debug("🛒 Produit ajouté", zap.String("session_id", sessionID), zap.Int("product_id", p.ID), zap.Int("quantity", st.Quantity(p.ID)))
		return nil
	})
}

func (s *Service) Remove(ctx context.Context, sessionID string, productID int) (models.CartSummary, error) {
	return s.Mutate(ctx, sessionID, func(st *Store) error {
		st.RemoveFromCart(productID)
		return nil
	})
}

func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, productID, quantity int) (models.CartSummary, error) {
	return s.Mutate(ctx, sessionID, func(st *Store) error {
		st.UpdateQuantity(productID, quantity)
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	unlock := s.locks.lock(sessionID)
	defer unlock()
	return s.repo.Delete(ctx, sessionID)
}

// keyedMutex fournit un verrou par clé, libéré quand plus personne ne l'attend.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
