package cards

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"

    "github.com/alovak/cardflow-cards/cards/models"
    "github.com/jackc/pgconn"
    "github.com/lib/pq"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS cards_documents (
    name       text PRIMARY KEY,
    body       json NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
)`

// PGStore keeps the collection as a single JSON document in one Postgres row.
type PGStore struct {
    db   *sql.DB
    name string
}

// NewPGStore constructs a db-backed store for the document called name.
func NewPGStore(db *sql.DB, name string) *PGStore {
    return &PGStore{db: db, name: name}
}

// EnsureSchema creates the documents table when it does not exist yet.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
    if _, err := s.db.ExecContext(ctx, pgSchema); err != nil {
        return storageError("creating schema", err)
    }
    return nil
}

func (s *PGStore) Load(ctx context.Context) ([]*models.Card, error) {
    var body []byte
    err := s.db.QueryRowContext(ctx, `SELECT body FROM cards_documents WHERE name=$1`, s.name).Scan(&body)
    if errors.Is(err, sql.ErrNoRows) {
        return s.initialize(ctx)
    }
    if err != nil {
        return nil, storageError("reading document "+s.name, err)
    }

    var cards []*models.Card
    if err := json.Unmarshal(body, &cards); err != nil {
        return nil, storageError("decoding document "+s.name, err)
    }
    if cards == nil {
        cards = make([]*models.Card, 0)
    }
    return cards, nil
}

// initialize inserts an empty document. Losing the insert race to another
// process is fine: the row exists either way.
func (s *PGStore) initialize(ctx context.Context) ([]*models.Card, error) {
    _, err := s.db.ExecContext(ctx, `INSERT INTO cards_documents(name, body) VALUES ($1, '[]')`, s.name)
    if err != nil && !isUniqueViolation(err) {
        return nil, storageError("creating document "+s.name, err)
    }
    if err != nil {
        return s.Load(ctx)
    }
    return make([]*models.Card, 0), nil
}

func (s *PGStore) Save(ctx context.Context, cards []*models.Card) error {
    if cards == nil {
        cards = make([]*models.Card, 0)
    }
    body, err := json.MarshalIndent(cards, "", "  ")
    if err != nil {
        return storageError("encoding cards", err)
    }
    _, err = s.db.ExecContext(ctx, `
        INSERT INTO cards_documents(name, body) VALUES ($1, $2)
        ON CONFLICT (name) DO UPDATE SET body = excluded.body, updated_at = now()
    `, s.name, string(body))
    if err != nil {
        return storageError("writing document "+s.name, err)
    }
    return nil
}

// Ping returns DB readiness
func (s *PGStore) Ping(ctx context.Context) error {
    return s.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
    var pe *pq.Error
    if errors.As(err, &pe) && pe.Code == "23505" { return true }
    var pgerr *pgconn.PgError
    if errors.As(err, &pgerr) && pgerr.Code == "23505" { return true }
    return false
}
