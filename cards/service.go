package cards

import (
    "context"
    "fmt"
    "sync"
    "time"

    "github.com/alovak/cardflow-cards/cards/models"
    "github.com/alovak/cardflow-cards/internal/validation"
    "github.com/google/uuid"
)

type Service struct {
    store Store
    now   func() time.Time

    // mu serializes the load-modify-save cycle of Create and Update.
    mu sync.Mutex
}

func NewService(store Store) *Service {
    return &Service{
        store: store,
        now:   time.Now,
    }
}

// WithClock replaces the clock used for expiry validation.
func (s *Service) WithClock(now func() time.Time) *Service {
    s.now = now
    return s
}

func (s *Service) Create(ctx context.Context, req models.CreateCard) (*models.Card, error) {
    if err := validation.Card(req, s.now()).Err(); err != nil {
        return nil, err
    }

    s.mu.Lock()
    defer s.mu.Unlock()

    cards, err := s.store.Load(ctx)
    if err != nil {
        return nil, fmt.Errorf("loading cards: %w", err)
    }

    card := &models.Card{
        ID:         uuid.New().String(),
        CardNumber: req.CardNumber,
        ExpiryDate: req.ExpiryDate,
        CardHolder: req.CardHolder,
        CVV:        req.CVV,
    }

    if err := s.store.Save(ctx, append(cards, card)); err != nil {
        return nil, fmt.Errorf("saving cards: %w", err)
    }

    return card, nil
}

// List returns every card in insertion order.
func (s *Service) List(ctx context.Context) ([]*models.Card, error) {
    cards, err := s.store.Load(ctx)
    if err != nil {
        return nil, fmt.Errorf("loading cards: %w", err)
    }
    return cards, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Card, error) {
    card, ok, err := FindCard(ctx, s.store, id)
    if err != nil {
        return nil, fmt.Errorf("finding card: %w", err)
    }
    if !ok {
        return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
    }
    return card, nil
}

// Update merges the non-empty fields of req into the card with the given id
// and stores the result in place.
func (s *Service) Update(ctx context.Context, id string, req models.UpdateCard) (*models.Card, error) {
    s.mu.Lock()
    defer s.mu.Unlock()

    cards, err := s.store.Load(ctx)
    if err != nil {
        return nil, fmt.Errorf("loading cards: %w", err)
    }

    i := indexOf(cards, id)
    if i < 0 {
        return nil, fmt.Errorf("card %s: %w", id, ErrNotFound)
    }

    merged := req.Merge(cards[i])
    if err := validation.Card(merged, s.now()).Err(); err != nil {
        return nil, err
    }

    updated := &models.Card{
        ID:         id,
        CardNumber: merged.CardNumber,
        ExpiryDate: merged.ExpiryDate,
        CardHolder: merged.CardHolder,
        CVV:        merged.CVV,
    }
    cards[i] = updated

    if err := s.store.Save(ctx, cards); err != nil {
        return nil, fmt.Errorf("saving cards: %w", err)
    }

    return updated, nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
    return s.store.Ping(ctx)
}
