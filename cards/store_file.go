package cards

import (
    "context"
    "encoding/json"
    "errors"
    "os"
    "path/filepath"
    "sync"

    "github.com/alovak/cardflow-cards/cards/models"
    "github.com/spf13/afero"
)

// FileStore keeps the collection as a pretty-printed JSON array in one file.
type FileStore struct {
    fs   afero.Fs
    path string

    // mu orders writes so lazy creation cannot overwrite a saved document.
    mu sync.Mutex
}

func NewFileStore(fs afero.Fs, path string) *FileStore {
    return &FileStore{fs: fs, path: path}
}

// NewMemStore returns a FileStore on an in-memory filesystem.
func NewMemStore() *FileStore {
    return NewFileStore(afero.NewMemMapFs(), "/cards/data.json")
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) Load(ctx context.Context) ([]*models.Card, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }

    data, err := afero.ReadFile(s.fs, s.path)
    if errors.Is(err, os.ErrNotExist) {
        return s.initialize(ctx)
    }
    if err != nil {
        return nil, storageError("reading "+s.path, err)
    }

    var cards []*models.Card
    if err := json.Unmarshal(data, &cards); err != nil {
        return nil, storageError("decoding "+s.path, err)
    }
    if cards == nil {
        cards = make([]*models.Card, 0)
    }
    return cards, nil
}

func (s *FileStore) initialize(ctx context.Context) ([]*models.Card, error) {
    s.mu.Lock()
    exists, err := afero.Exists(s.fs, s.path)
    if err != nil {
        s.mu.Unlock()
        return nil, storageError("stat "+s.path, err)
    }
    if !exists {
        err = s.write(ctx, nil)
    }
    s.mu.Unlock()

    if err != nil {
        return nil, err
    }
    if exists {
        return s.Load(ctx)
    }
    return make([]*models.Card, 0), nil
}

// Save writes the collection to a temporary file next to the document and
// renames it over the document, so readers never see a partial write.
func (s *FileStore) Save(ctx context.Context, cards []*models.Card) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.write(ctx, cards)
}

func (s *FileStore) write(ctx context.Context, cards []*models.Card) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    if cards == nil {
        cards = make([]*models.Card, 0)
    }

    data, err := json.MarshalIndent(cards, "", "  ")
    if err != nil {
        return storageError("encoding cards", err)
    }

    dir := filepath.Dir(s.path)
    if err := s.fs.MkdirAll(dir, 0o755); err != nil {
        return storageError("creating "+dir, err)
    }

    tmp, err := afero.TempFile(s.fs, dir, filepath.Base(s.path)+".*.tmp")
    if err != nil {
        return storageError("writing "+s.path, err)
    }
    tmpName := tmp.Name()
    if _, err := tmp.Write(data); err != nil {
        tmp.Close()
        s.fs.Remove(tmpName)
        return storageError("writing "+s.path, err)
    }
    if err := tmp.Close(); err != nil {
        s.fs.Remove(tmpName)
        return storageError("writing "+s.path, err)
    }
    if err := s.fs.Rename(tmpName, s.path); err != nil {
        s.fs.Remove(tmpName)
        return storageError("writing "+s.path, err)
    }
    return nil
}

// Ping checks that the document directory is reachable.
func (s *FileStore) Ping(ctx context.Context) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    dir := filepath.Dir(s.path)
    if _, err := s.fs.Stat(dir); err != nil {
        if errors.Is(err, os.ErrNotExist) {
            // created on first save
            return nil
        }
        return storageError("stat "+dir, err)
    }
    return nil
}
