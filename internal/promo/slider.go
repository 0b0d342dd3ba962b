// Package promo fait tourner les bannières promotionnelles de la page d'accueil.
package promo

import (
	"context"
	"errors"
	"sync"
	"time"

	"dotscent_back_end/internal/models"

	"go.uber.org/zap"
)

var ErrNoSlides = errors.New("promo: no slides")

// Direction du dernier changement de bannière (1 suivant, -1 précédent).
type Direction int

const (
	Forward  Direction = 1
	Backward Direction = -1
)

// State est l'état renvoyé au front.
type State struct {
	Slide     models.Slide `json:"slide"`
	Index     int          `json:"index"`
	Total     int          `json:"total"`
	Direction Direction    `json:"direction"`
	Paused    bool         `json:"paused"`
}

type Slider struct {
	mu        sync.Mutex
	slides    []models.Slide
	current   int
	direction Direction
	paused    bool
	interval  time.Duration
	logger    *zap.Logger
}

func NewSlider(slides []models.Slide, interval time.Duration, logger *zap.Logger) (*Slider, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Slider{
		slides:    append([]models.Slide(nil), slides...),
		direction: Forward,
		interval:  interval,
		logger:    logger,
	}, nil
}

func (s *Slider) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

// Next passe à la bannière suivante, en revenant à la première après la dernière.
func (s *Slider) Next() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.direction = Forward
	s.current = (s.current + 1) % len(s.slides)
	return s.stateLocked()
}

// Prev passe à la bannière précédente, en revenant à la dernière avant la première.
func (s *Slider) Prev() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.direction = Backward
	s.current = (s.current - 1 + len(s.slides)) % len(s.slides)
	return s.stateLocked()
}

// Pause suspend le défilement automatique (survol de la bannière).
func (s *Slider) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

func (s *Slider) Resume() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// Run fait défiler les bannières toutes les interval tant que ctx n'est pas terminé.
func (s *Slider) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("arrêt du défilement des bannières")
			return
		case <-ticker.C:
			s.mu.Lock()
			paused := s.paused
			s.mu.Unlock()
			if !paused {
				s.Next()
			}
		}
	}
}

func (s *Slider) stateLocked() State {
	return State{
		Slide:     s.slides[s.current],
		Index:     s.current,
		Total:     len(s.slides),
		Direction: s.direction,
		Paused:    s.paused,
	}
}
