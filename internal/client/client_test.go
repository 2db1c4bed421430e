package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alovak/cardflow-cards/cards"
	"github.com/alovak/cardflow-cards/cards/models"
	"github.com/alovak/cardflow-cards/internal/client"
	"github.com/alovak/cardflow-cards/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	svc := cards.NewService(cards.NewMemStore()).WithClock(func() time.Time {
		return time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	})
	cards.NewAPI(svc, nil).AppendRoutes(router)
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient(t *testing.T) {
	srv := newServer(t)
	c := client.New(srv.URL+"/", nil)
	ctx := context.Background()

	list, err := c.ListCards(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	card, err := c.CreateCard(ctx, models.CreateCard{
		CardNumber: "4111 1111 1111 1111",
		ExpiryDate: "12/27",
		CardHolder: "JOHN DOE",
		CVV:        "123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, card.ID)

	got, err := c.GetCard(ctx, card.ID)
	require.NoError(t, err)
	require.Equal(t, card, got)

	updated, err := c.UpdateCard(ctx, card.ID, models.UpdateCard{CVV: "321"})
	require.NoError(t, err)
	require.Equal(t, "321", updated.CVV)
	require.Equal(t, card.CardHolder, updated.CardHolder)

	list, err = c.ListCards(ctx)
	require.NoError(t, err)
	require.Equal(t, []*models.Card{updated}, list)
}

func TestClient_ValidationMessage(t *testing.T) {
	c := client.New(newServer(t).URL, nil)

	_, err := c.CreateCard(context.Background(), models.CreateCard{
		CardNumber: "4111 1111 1111 1111",
		ExpiryDate: "12/27",
		CardHolder: "Al",
		CVV:        "12",
	})

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 2)
	require.Equal(t, validation.MsgHolderMin+", "+validation.MsgCVVFormat, err.Error())
}

func TestClient_LegacyValidationMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"[{\"field\":\"cvv\",\"message\":\"CVV es requerido\"},{\"field\":\"cardHolder\",\"message\":\"Solo se permiten letras y espacios\"}]"}`))
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, nil).CreateCard(context.Background(), models.CreateCard{})
	require.EqualError(t, err, "CVV es requerido, Solo se permiten letras y espacios")
}

func TestClient_NotFound(t *testing.T) {
	c := client.New(newServer(t).URL, nil)

	_, err := c.UpdateCard(context.Background(), "missing", models.UpdateCard{CVV: "321"})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "Card not found", apiErr.Message)
}

func TestClient_PlainErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, nil).ListCards(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, "bad gateway", apiErr.Message)
}

func TestClient_NoResponse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := client.New(base, nil).ListCards(context.Background())
	require.ErrorIs(t, err, client.ErrNoResponse)

	var apiErr *client.APIError
	require.False(t, errors.As(err, &apiErr))
}

func TestClient_InvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	_, err := client.New(srv.URL, nil).CreateCard(context.Background(), models.CreateCard{})
	require.ErrorIs(t, err, client.ErrInvalidResponse)
}
