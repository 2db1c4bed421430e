package models

import "strings"

// Card is a stored payment card record.
type Card struct {
    ID         string `json:"id"`
    CardNumber string `json:"cardNumber"`
    ExpiryDate string `json:"expiryDate"`
    CardHolder string `json:"cardHolder"`
    CVV        string `json:"cvv"`
}

type CreateCard struct {
    CardNumber string `json:"cardNumber"`
    ExpiryDate string `json:"expiryDate"`
    CardHolder string `json:"cardHolder"`
    CVV        string `json:"cvv"`
}

// UpdateCard carries a partial update; empty fields keep the stored value.
type UpdateCard struct {
    CardNumber string `json:"cardNumber,omitempty"`
    ExpiryDate string `json:"expiryDate,omitempty"`
    CardHolder string `json:"cardHolder,omitempty"`
    CVV        string `json:"cvv,omitempty"`
}

// Merge applies the non-empty fields of u on top of card and returns the candidate.
func (u UpdateCard) Merge(card *Card) CreateCard {
    merged := CreateCard{
        CardNumber: card.CardNumber,
        ExpiryDate: card.ExpiryDate,
        CardHolder: card.CardHolder,
        CVV:        card.CVV,
    }
    if u.CardNumber != "" {
        merged.CardNumber = u.CardNumber
    }
    if u.ExpiryDate != "" {
        merged.ExpiryDate = u.ExpiryDate
    }
    if u.CardHolder != "" {
        merged.CardHolder = u.CardHolder
    }
    if u.CVV != "" {
        merged.CVV = u.CVV
    }
    return merged
}

// FieldError describes one violated rule.
type FieldError struct {
    Field   string `json:"field"`
    Message string `json:"message"`
}

// ValidationError is returned when a card candidate breaks one or more rules.
type ValidationError struct {
    Errors []FieldError
}

func (e *ValidationError) Error() string {
    msgs := make([]string, 0, len(e.Errors))
    for _, fe := range e.Errors {
        msgs = append(msgs, fe.Message)
    }
    return strings.Join(msgs, ", ")
}
