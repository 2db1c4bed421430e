package cards

import (
    "context"
    "errors"
    "fmt"

    "github.com/alovak/cardflow-cards/cards/models"
)

var (
    ErrNotFound = fmt.Errorf("not found")
    // ErrStorage wraps every failure to read or write the cards document.
    ErrStorage = errors.New("storage failure")
)

// Store keeps the whole card collection as one document. Save replaces the
// document; callers load, modify and save the full collection.
type Store interface {
    // Load returns the collection. A missing document is created empty.
    Load(ctx context.Context) ([]*models.Card, error)
    Save(ctx context.Context, cards []*models.Card) error
    Ping(ctx context.Context) error
}

// FindCard scans the collection for id. A missing card is reported with
// ok=false and a nil error.
func FindCard(ctx context.Context, s Store, id string) (card *models.Card, ok bool, err error) {
    cards, err := s.Load(ctx)
    if err != nil {
        return nil, false, err
    }
    if i := indexOf(cards, id); i >= 0 {
        return cards[i], true, nil
    }
    return nil, false, nil
}

func indexOf(cards []*models.Card, id string) int {
    for i, c := range cards {
        if c.ID == id {
            return i
        }
    }
    return -1
}

func storageError(op string, err error) error {
    return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
