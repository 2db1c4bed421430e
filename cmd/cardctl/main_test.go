package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alovak/cardflow-cards/cards"
	"github.com/alovak/cardflow-cards/cards/models"
	"github.com/alovak/cardflow-cards/internal/cardfmt"
	"github.com/alovak/cardflow-cards/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestBuildCreate(t *testing.T) {
	t.Run("formats input", func(t *testing.T) {
		req, err := buildCreate(&cardOptions{
			Number: "4111-1111-1111-1111",
			Expiry: "1227",
			Holder: "JOHN DOE",
			CVV:    "123",
		}, now)
		require.NoError(t, err)
		require.Equal(t, models.CreateCard{
			CardNumber: "4111 1111 1111 1111",
			ExpiryDate: "12/27",
			CardHolder: "JOHN DOE",
			CVV:        "123",
		}, req)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := buildCreate(&cardOptions{Number: "4111", Expiry: "12/27", Holder: "JOHN DOE", CVV: "1"}, now)

		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		require.Equal(t, []models.FieldError{
			{Field: validation.FieldCardNumber, Message: validation.MsgCardNumberFormat},
			{Field: validation.FieldCardNumber, Message: validation.MsgCardNumberLength},
			{Field: validation.FieldCVV, Message: validation.MsgCVVFormat},
		}, verr.Errors)
	})

	t.Run("no-validate sends as is", func(t *testing.T) {
		req, err := buildCreate(&cardOptions{Holder: "x", NoValidate: true}, now)
		require.NoError(t, err)
		require.Equal(t, "x", req.CardHolder)
	})
}

func TestBuildUpdate(t *testing.T) {
	_, err := buildUpdate(&cardOptions{}, now)
	require.ErrorContains(t, err, "nothing to update")

	req, err := buildUpdate(&cardOptions{CVV: "321"}, now)
	require.NoError(t, err)
	require.Equal(t, models.UpdateCard{CVV: "321"}, req)

	_, err = buildUpdate(&cardOptions{Expiry: "13/27", Holder: "Al"}, now)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []models.FieldError{
		{Field: validation.FieldExpiryDate, Message: validation.MsgExpiryMonth},
		{Field: validation.FieldCardHolder, Message: validation.MsgHolderMin},
	}, verr.Errors)
}

func TestGenerateCard(t *testing.T) {
	for _, product := range []string{"credit", "debit", "prepaid"} {
		req, err := generateCard(&generateOptions{BIN: "421234", Product: product, Holder: "  john   doe "}, now)
		require.NoError(t, err)
		require.True(t, validation.Card(req, now).Valid, "%s: %+v", product, req)
		require.True(t, cardfmt.LuhnValid(cardfmt.NormalizeNumber(req.CardNumber)))
		require.True(t, strings.HasPrefix(req.CardNumber, "4212 34"))
		require.Equal(t, "JOHN DOE", req.CardHolder)
	}

	req, err := generateCard(&generateOptions{BIN: "421234", Years: 2}, now)
	require.NoError(t, err)
	require.Equal(t, "06/27", req.ExpiryDate)

	_, err = generateCard(&generateOptions{BIN: "421234", Years: 6}, now)
	require.Error(t, err)

	_, err = generateCard(&generateOptions{BIN: "42"}, now)
	require.Error(t, err)
}

func TestRenderCards(t *testing.T) {
	list := []*models.Card{{
		ID:         "c1",
		CardNumber: "4111 1111 1111 1234",
		ExpiryDate: "12/27",
		CardHolder: "JOHN DOE",
		CVV:        "123",
	}}

	var buf bytes.Buffer
	renderCards(&buf, list, false)
	out := buf.String()
	require.Contains(t, out, "41** **** **** 1234")
	require.NotContains(t, out, "4111 1111 1111 1234")

	buf.Reset()
	renderCards(&buf, list, true)
	require.Contains(t, buf.String(), "4111 1111 1111 1234")
}

func TestCommands(t *testing.T) {
	router := chi.NewRouter()
	cards.NewAPI(cards.NewService(cards.NewMemStore()), nil).AppendRoutes(router)
	srv := httptest.NewServer(router)
	defer srv.Close()

	run := func(args ...string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs(append([]string{"--server", srv.URL}, args...))
		err := rootCmd.Execute()
		return out.String(), err
	}

	out, err := run("create", "--number", "4111111111111111", "--expiry", "12/27", "--holder", "JOHN DOE", "--cvv", "123")
	require.NoError(t, err)
	require.Contains(t, out, "Card created:")

	out, err = run("list")
	require.NoError(t, err)
	require.Contains(t, out, "41** **** **** 1111")
	require.Contains(t, out, "JOHN DOE")
}
