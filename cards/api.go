package cards

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alovak/cardflow-cards/cards/models"
	"github.com/alovak/cardflow-cards/internal/cardfmt"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/exp/slog"
)

const maxBodyBytes = 1 << 20

// API is a HTTP API for the cards service
type API struct {
	cards  *Service
	logger *slog.Logger
}

func NewAPI(cards *Service, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		cards:  cards,
		logger: logger,
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Route("/api/cards", func(r chi.Router) {
		r.Post("/", a.createCard)
		r.Get("/", a.listCards)
		r.Get("/{id}", a.getCard)
		r.Put("/{id}", a.updateCard)
	})
}

type envelope struct {
	Status  string              `json:"status"`
	Results *int                `json:"results,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  []models.FieldError `json:"errors,omitempty"`
}

func (a *API) createCard(w http.ResponseWriter, r *http.Request) {
	var create models.CreateCard
	if !a.decode(w, r, &create) {
		return
	}

	card, err := a.cards.Create(r.Context(), create)
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	a.logger.Info("card created",
		slog.String("id", card.ID),
		slog.String("card", cardfmt.Mask(card.CardNumber)),
	)
	writeJSON(w, http.StatusCreated, envelope{Status: "success", Data: card})
}

func (a *API) listCards(w http.ResponseWriter, r *http.Request) {
	cards, err := a.cards.List(r.Context())
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")

	n := len(cards)
	writeJSON(w, http.StatusOK, envelope{Status: "success", Results: &n, Data: cards})
}

func (a *API) getCard(w http.ResponseWriter, r *http.Request) {
	card, err := a.cards.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: card})
}

func (a *API) updateCard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var update models.UpdateCard
	if !a.decode(w, r, &update) {
		return
	}

	card, err := a.cards.Update(r.Context(), id, update)
	if err != nil {
		a.respondError(w, r, err)
		return
	}

	a.logger.Info("card updated", slog.String("id", card.ID))
	writeJSON(w, http.StatusOK, envelope{Status: "success", Data: card})
}

func (a *API) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		a.logger.Debug("decoding request body", slog.Any("err", err))
		writeJSON(w, http.StatusBadRequest, envelope{Status: "error", Message: "invalid request body"})
		return false
	}
	return true
}

// respondError maps service errors to responses. Only validation and lookup
// failures reach the client verbatim; anything else is logged and hidden.
func (a *API) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		// message keeps the JSON-in-a-string encoding older clients parse
		encoded, _ := json.Marshal(verr.Errors)
		writeJSON(w, http.StatusBadRequest, envelope{
			Status:  "error",
			Message: string(encoded),
			Errors:  verr.Errors,
		})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, envelope{Status: "error", Message: "Card not found"})
	default:
		a.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", chimw.GetReqID(r.Context())),
			slog.Any("err", err),
		)
		writeJSON(w, http.StatusInternalServerError, envelope{Status: "error", Message: "internal server error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
