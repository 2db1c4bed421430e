// Package validation holds the field rules a card record must satisfy before
// it is stored. Every function returns a value and never fails: callers get the
// ordered list of violated rules and decide what to do with it.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/alovak/cardflow-cards/cards/models"
	"github.com/alovak/cardflow-cards/internal/expiry"
)

// Field names as they appear on the wire.
const (
	FieldCardNumber = "cardNumber"
	FieldExpiryDate = "expiryDate"
	FieldCardHolder = "cardHolder"
	FieldCVV        = "cvv"
)

// User-facing messages. Clients display these verbatim.
const (
	MsgCardNumberRequired = "Número de tarjeta es requerido"
	MsgCardNumberFormat   = "Debe contener 16 dígitos"
	MsgCardNumberLength   = "Debe contener exactamente 16 dígitos"

	MsgExpiryRequired = "Fecha de vencimiento es requerida"
	MsgExpiryFormat   = "Formato debe ser MM/YY"
	MsgExpiryMonth    = "Mes inválido (01-12)"
	MsgExpiryYear     = "Año inválido"

	MsgHolderRequired = "Nombre del titular es requerido"
	MsgHolderMin      = "El nombre debe tener al menos 3 caracteres"
	MsgHolderMax      = "El nombre debe tener máximo 20 caracteres"
	MsgHolderLetters  = "Solo se permiten letras y espacios"

	MsgCVVRequired = "CVV es requerido"
	MsgCVVFormat   = "CVV debe contener 3 dígitos"
)

const (
	cardNumberDigits = 16
	holderMinLen     = 3
	holderMaxLen     = 20
)

var (
	cardNumberRe = regexp.MustCompile(`^\d{4}\s\d{4}\s\d{4}\s\d{4}$`)
	holderRe     = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	cvvRe        = regexp.MustCompile(`^\d{3}$`)
)

// Result is the outcome of validating one field or a whole card.
type Result struct {
	Valid  bool
	Errors []models.FieldError
}

func result(errs []models.FieldError) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// CardNumber checks the grouped "#### #### #### ####" form. The grouping and
// the length checks are independent and can both fire.
func CardNumber(number string) Result {
	if number == "" {
		return result([]models.FieldError{{Field: FieldCardNumber, Message: MsgCardNumberRequired}})
	}

	var errs []models.FieldError
	if !cardNumberRe.MatchString(number) {
		errs = append(errs, models.FieldError{Field: FieldCardNumber, Message: MsgCardNumberFormat})
	}
	if utf8.RuneCountInString(stripSpaces(number)) != cardNumberDigits {
		errs = append(errs, models.FieldError{Field: FieldCardNumber, Message: MsgCardNumberLength})
	}
	return result(errs)
}

// ExpiryDate checks an MM/YY card face. A malformed face reports only the
// format error; otherwise month and year are checked separately. The accepted
// years slide with now.
func ExpiryDate(face string, now time.Time) Result {
	if face == "" {
		return result([]models.FieldError{{Field: FieldExpiryDate, Message: MsgExpiryRequired}})
	}

	month, year, err := expiry.SplitCardFace(face)
	if err != nil {
		return result([]models.FieldError{{Field: FieldExpiryDate, Message: MsgExpiryFormat}})
	}

	var errs []models.FieldError
	if month < 1 || month > 12 {
		errs = append(errs, models.FieldError{Field: FieldExpiryDate, Message: MsgExpiryMonth})
	}
	if !expiry.YearInWindow(year, now) {
		errs = append(errs, models.FieldError{Field: FieldExpiryDate, Message: MsgExpiryYear})
	}
	return result(errs)
}

// CardHolder checks length bounds and the letters-and-spaces alphabet.
func CardHolder(name string) Result {
	if name == "" {
		return result([]models.FieldError{{Field: FieldCardHolder, Message: MsgHolderRequired}})
	}

	var errs []models.FieldError
	n := utf8.RuneCountInString(name)
	if n < holderMinLen {
		errs = append(errs, models.FieldError{Field: FieldCardHolder, Message: MsgHolderMin})
	}
	if n > holderMaxLen {
		errs = append(errs, models.FieldError{Field: FieldCardHolder, Message: MsgHolderMax})
	}
	if !holderRe.MatchString(name) {
		errs = append(errs, models.FieldError{Field: FieldCardHolder, Message: MsgHolderLetters})
	}
	return result(errs)
}

func CVV(cvv string) Result {
	if cvv == "" {
		return result([]models.FieldError{{Field: FieldCVV, Message: MsgCVVRequired}})
	}
	if !cvvRe.MatchString(cvv) {
		return result([]models.FieldError{{Field: FieldCVV, Message: MsgCVVFormat}})
	}
	return result(nil)
}

// Card validates every field and concatenates the violations in field order:
// cardNumber, expiryDate, cardHolder, cvv.
func Card(c models.CreateCard, now time.Time) Result {
	var all []models.FieldError
	seen := make(map[models.FieldError]struct{})
	for _, r := range []Result{
		CardNumber(c.CardNumber),
		ExpiryDate(c.ExpiryDate, now),
		CardHolder(c.CardHolder),
		CVV(c.CVV),
	} {
		for _, fe := range r.Errors {
			if _, dup := seen[fe]; dup {
				continue
			}
			seen[fe] = struct{}{}
			all = append(all, fe)
		}
	}
	return result(all)
}

// Err returns a *models.ValidationError for an invalid result and nil otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &models.ValidationError{Errors: r.Errors}
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
