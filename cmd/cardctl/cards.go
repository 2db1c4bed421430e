package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/alovak/cardflow-cards/cards/models"
	"github.com/alovak/cardflow-cards/internal/cardfmt"
	"github.com/alovak/cardflow-cards/internal/validation"
	"github.com/spf13/cobra"
)

type cardOptions struct {
	Number     string
	Expiry     string
	Holder     string
	CVV        string
	NoValidate bool
}

func (o *cardOptions) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.Number, "number", "",
		"Card number. Spaces and dashes are accepted and regrouped in blocks of four.")
	flags.StringVar(&o.Expiry, "expiry", "",
		"Expiry date as MM/YY. Digits only input such as 1227 is accepted.")
	flags.StringVar(&o.Holder, "holder", "", "Card holder name.")
	flags.StringVar(&o.CVV, "cvv", "", "Three digit security code.")
	flags.BoolVar(&o.NoValidate, "no-validate", false,
		"Send the input without checking it first. The server still validates.")
}

// fields applies the entry formatting of the card form to the raw flags.
func (o *cardOptions) fields() models.CreateCard {
	c := models.CreateCard{
		CardHolder: o.Holder,
		CVV:        o.CVV,
	}
	if o.Number != "" {
		c.CardNumber = cardfmt.FormatNumber(o.Number)
	}
	if o.Expiry != "" {
		c.ExpiryDate = cardfmt.FormatExpiry(o.Expiry)
	}
	return c
}

var (
	listOpts   struct{ ShowFull bool }
	getOpts    struct{ ShowFull bool }
	createOpts = &cardOptions{}
	updateOpts = &cardOptions{}
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all cards in registration order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := newClient().ListCards(cmd.Context())
		if err != nil {
			return err
		}
		renderCards(cmd.OutOrStdout(), list, listOpts.ShowFull)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := newClient().GetCard(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		renderCards(cmd.OutOrStdout(), []*models.Card{card}, getOpts.ShowFull)
		return nil
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a new card",
	Long: `Register a new card.

Usage examples:

	cardctl create --number "4111 1111 1111 1111" --expiry 12/27 --holder "JOHN DOE" --cvv 123
	cardctl create --number 4111111111111111 --expiry 1227 --holder "JOHN DOE" --cvv 123
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req, err := buildCreate(createOpts, time.Now())
		if err != nil {
			return err
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

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change some fields of a card",
	Long: `Change some fields of a card. Fields that are not given keep their value.

Usage examples:

	cardctl update 0b6f... --cvv 321
	cardctl update 0b6f... --holder "JANE DOE" --expiry 03/28
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildUpdate(updateOpts, time.Now())
		if err != nil {
			return err
		}
		card, err := newClient().UpdateCard(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Card updated: %s\n", card.ID)
		renderCards(cmd.OutOrStdout(), []*models.Card{card}, false)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listOpts.ShowFull, "show-full", false, "Print full card numbers.")
	getCmd.Flags().BoolVar(&getOpts.ShowFull, "show-full", false, "Print the full card number.")
	createOpts.register(createCmd)
	updateOpts.register(updateCmd)
}

func buildCreate(o *cardOptions, now time.Time) (models.CreateCard, error) {
	req := o.fields()
	if o.NoValidate {
		return req, nil
	}
	if err := validation.Card(req, now).Err(); err != nil {
		return models.CreateCard{}, err
	}
	return req, nil
}

// buildUpdate checks only the fields that were given; the server validates
// the merged card.
func buildUpdate(o *cardOptions, now time.Time) (models.UpdateCard, error) {
	f := o.fields()
	req := models.UpdateCard(f)
	if req == (models.UpdateCard{}) {
		return req, errors.New("nothing to update, give at least one of --number, --expiry, --holder, --cvv")
	}
	if o.NoValidate {
		return req, nil
	}

	var errs []models.FieldError
	if f.CardNumber != "" {
		errs = append(errs, validation.CardNumber(f.CardNumber).Errors...)
	}
	if f.ExpiryDate != "" {
		errs = append(errs, validation.ExpiryDate(f.ExpiryDate, now).Errors...)
	}
	if f.CardHolder != "" {
		errs = append(errs, validation.CardHolder(f.CardHolder).Errors...)
	}
	if f.CVV != "" {
		errs = append(errs, validation.CVV(f.CVV).Errors...)
	}
	if len(errs) > 0 {
		return models.UpdateCard{}, &models.ValidationError{Errors: errs}
	}
	return req, nil
}
