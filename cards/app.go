package cards

import (
    "context"
    "database/sql"
    "fmt"
    "net"
    "net/http"
    "sync"
    "time"

    "github.com/alovak/cardflow-cards/internal/expiry"
    "github.com/alovak/cardflow-cards/internal/middleware"
    "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"
    _ "github.com/lib/pq"
    "github.com/spf13/afero"
    "golang.org/x/exp/slog"
)

// App is the main application, it contains all the components of the cards service
// and is responsible for starting and stopping them.
type App struct {
    srv    *http.Server
    wg     *sync.WaitGroup
    Addr   string
    logger *slog.Logger
    config *Config
    db     *sql.DB
}

func NewApp(logger *slog.Logger, config *Config) *App {
    logger = logger.With(slog.String("app", "cards"))

    if config == nil {
        config = DefaultConfig()
    }

    return &App{
        wg:     &sync.WaitGroup{},
        logger: logger,
        config: config,
    }
}

func (a *App) Start() error {
    a.logger.Info("starting app...")

    if a.config.ExpiryTZ != "" {
        if loc, err := time.LoadLocation(a.config.ExpiryTZ); err == nil {
            expiry.SetDefaultExpiryLocation(loc)
        } else {
            a.logger.Info("invalid ExpiryTZ; using default UTC", slog.String("tz", a.config.ExpiryTZ), slog.Any("err", err))
        }
    }

    store, err := a.openStore()
    if err != nil {
        return err
    }
    svc := NewService(store)

    router := chi.NewRouter()
    router.Use(chimw.RequestID)
    router.Use(middleware.NewStructuredLogger(a.logger))
    router.Use(chimw.Recoverer)
    router.Use(middleware.RateLimit(a.config.RateLimit, a.config.RateBurst))

    api := NewAPI(svc, a.logger)
    api.AppendRoutes(router)

    router.Get("/-/live", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
    router.Get("/-/ready", func(w http.ResponseWriter, r *http.Request) {
        ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
        defer cancel()
        if err := svc.Ping(ctx); err != nil {
            http.Error(w, "store not ready", http.StatusServiceUnavailable)
            return
        }
        w.WriteHeader(http.StatusOK)
    })

    l, err := net.Listen("tcp", a.config.HTTPAddr)
    if err != nil {
        return fmt.Errorf("listening tcp port: %w", err)
    }

    a.Addr = l.Addr().String()

    a.srv = &http.Server{
        Handler:           router,
        ReadHeaderTimeout: a.config.ReadHeaderTimeout,
    }

    a.wg.Add(1)
    go func() {
        a.logger.Info("http server started", slog.String("addr", a.Addr))

        if err := a.srv.Serve(l); err != nil {
            if err != http.ErrServerClosed {
                a.logger.Error("starting http server", "err", err)
            }

            a.logger.Info("http server stopped")
        }

        a.wg.Done()
    }()

    return nil
}

// openStore builds the configured store backend.
func (a *App) openStore() (Store, error) {
    switch a.config.StoreBackend {
    case BackendFile, "":
        a.logger.Info("using file store", slog.String("path", a.config.DataFile))
        return NewFileStore(afero.NewOsFs(), a.config.DataFile), nil
    case BackendMem:
        a.logger.Info("using in-memory store; cards are lost on exit")
        return NewMemStore(), nil
    case BackendPG:
        if a.config.DBDSN == "" {
            return nil, fmt.Errorf("db_dsn is required for pg backend")
        }
        db, err := sql.Open("postgres", a.config.DBDSN)
        if err != nil {
            return nil, fmt.Errorf("open postgres: %w", err)
        }
        db.SetMaxIdleConns(5)
        db.SetMaxOpenConns(10)

        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        if err := db.PingContext(ctx); err != nil {
            db.Close()
            return nil, fmt.Errorf("ping postgres: %w", err)
        }
        store := NewPGStore(db, a.config.DocumentName)
        if err := store.EnsureSchema(ctx); err != nil {
            db.Close()
            return nil, err
        }
        a.db = db
        a.logger.Info("using postgres store", slog.String("document", a.config.DocumentName))
        return store, nil
    default:
        return nil, fmt.Errorf("unsupported store_backend=%s", a.config.StoreBackend)
    }
}

func (a *App) Shutdown() {
    a.logger.Info("shutting down app...")

    ctx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout)
    defer cancel()

    if a.srv != nil {
        if err := a.srv.Shutdown(ctx); err != nil {
            a.logger.Error("shutting down http server", "err", err)
        }
    }

    a.wg.Wait()

    if a.db != nil {
        if err := a.db.Close(); err != nil {
            a.logger.Error("closing database", "err", err)
        }
    }

    a.logger.Info("app stopped")
}
