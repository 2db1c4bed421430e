package cards_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/alovak/cardflow-cards/cards"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestApp_ServesCardsFromFile(t *testing.T) {
	cfg := cards.DefaultConfig()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.DataFile = filepath.Join(t.TempDir(), "nested", "data.json")
	cfg.ShutdownTimeout = time.Second

	app := cards.NewApp(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	require.NoError(t, app.Start())
	defer app.Shutdown()

	base := "http://" + app.Addr

	resp, err := http.Get(base + "/-/live")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := json.Marshal(validCard())
	resp, err = http.Post(base+"/api/cards", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(base + "/-/ready")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.FileExists(t, cfg.DataFile)
}

func TestApp_RejectsUnknownBackend(t *testing.T) {
	cfg := cards.DefaultConfig()
	cfg.StoreBackend = "redis"

	app := cards.NewApp(slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
	require.ErrorContains(t, app.Start(), "unsupported store_backend")
}
