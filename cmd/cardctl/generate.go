package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/alovak/cardflow-cards/cards/models"
	"github.com/alovak/cardflow-cards/internal/cardfmt"
	"github.com/alovak/cardflow-cards/internal/expiry"
	"github.com/spf13/cobra"
)

var generateOpts = &generateOptions{}

type generateOptions struct {
	BIN     string
	Product string
	Years   int
	Holder  string
	Post    bool
}

func init() {
	flags := generateCmd.Flags()
	flags.StringVar(&generateOpts.BIN, "bin", "421234", "6, 8 or 9 digit BIN prefix.")
	flags.StringVar(&generateOpts.Product, "product", "debit",
		"Card product, credit or debit. Sets the validity period.")
	flags.IntVar(&generateOpts.Years, "years", 0, "Override the validity in years (1-5).")
	flags.StringVar(&generateOpts.Holder, "holder", "TEST CARDHOLDER", "Card holder name.")
	flags.BoolVar(&generateOpts.Post, "post", false, "Register the generated card on the server.")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Build a sample card that passes validation",
	Long: `Build a sample card with a Luhn valid number, an expiry date in the
accepted window, a random CVV and a normalised holder name.

Usage examples:

	cardctl generate --bin 411111 --holder "john doe"
	cardctl generate --product credit --post
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := generateCard(generateOpts, time.Now())
		if err != nil {
			return err
		}

		if !generateOpts.Post {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(req)
		}

		card, err := newClient().CreateCard(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Card created: %s\n", card.ID)
		renderCards(cmd.OutOrStdout(), []*models.Card{card}, false)
		return nil
	},
}

func generateCard(o *generateOptions, now time.Time) (models.CreateCard, error) {
	if o.Years < 0 || o.Years > expiry.WindowYears {
		return models.CreateCard{}, fmt.Errorf("--years must be at most %d", expiry.WindowYears)
	}

	number, err := cardfmt.GenerateNumber(o.BIN)
	if err != nil {
		return models.CreateCard{}, err
	}
	cvv, err := cardfmt.RandomDigits(3)
	if err != nil {
		return models.CreateCard{}, fmt.Errorf("generating cvv: %w", err)
	}

	years := expiry.YearsForProduct(o.Product, o.Years)
	return models.CreateCard{
		CardNumber: number,
		ExpiryDate: expiry.CardFace(now, years),
		CardHolder: cardfmt.NormalizeHolder(o.Holder),
		CVV:        cvv,
	}, nil
}
