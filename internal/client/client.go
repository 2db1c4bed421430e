// Package client talks to the cards API and turns its failures into messages
// a user can act on.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alovak/cardflow-cards/cards/models"
)

const cardsPath = "/api/cards"

var (
	// ErrNoResponse is returned when the request never got an answer.
	ErrNoResponse = errors.New("no response from server, please check your connection")
	// ErrInvalidResponse is returned for a success reply without a card payload.
	ErrInvalidResponse = errors.New("invalid response from server")
)

// APIError is a non-validation error answered by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

type Client struct {
	Base string
	HTTP *http.Client
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: hc}
}

type response struct {
	Status  string              `json:"status"`
	Results int                 `json:"results"`
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Errors  []models.FieldError `json:"errors"`
}

func (c *Client) ListCards(ctx context.Context) ([]*models.Card, error) {
	resp, err := c.do(ctx, http.MethodGet, cardsPath, nil)
	if err != nil {
		return nil, err
	}
	cards := make([]*models.Card, 0)
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return cards, nil
	}
	if err := json.Unmarshal(resp.Data, &cards); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return cards, nil
}

func (c *Client) GetCard(ctx context.Context, id string) (*models.Card, error) {
	resp, err := c.do(ctx, http.MethodGet, cardsPath+"/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return decodeCard(resp)
}

func (c *Client) CreateCard(ctx context.Context, req models.CreateCard) (*models.Card, error) {
	resp, err := c.do(ctx, http.MethodPost, cardsPath, req)
	if err != nil {
		return nil, err
	}
	return decodeCard(resp)
}

func (c *Client) UpdateCard(ctx context.Context, id string, req models.UpdateCard) (*models.Card, error) {
	resp, err := c.do(ctx, http.MethodPut, cardsPath+"/"+url.PathEscape(id), req)
	if err != nil {
		return nil, err
	}
	return decodeCard(resp)
}

func decodeCard(resp *response) (*models.Card, error) {
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, ErrInvalidResponse
	}
	var card models.Card
	if err := json.Unmarshal(resp.Data, &card); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &card, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrNoResponse, method, path, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrNoResponse, err)
	}

	var resp response
	decodeErr := json.Unmarshal(raw, &resp)

	if httpResp.StatusCode/100 != 2 {
		return nil, apiError(httpResp.StatusCode, &resp, decodeErr, raw)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, decodeErr)
	}
	return &resp, nil
}

// apiError normalises an error reply. A 400 becomes a *models.ValidationError
// taken from the structured list or, for older servers, from the JSON array
// encoded in the message.
func apiError(status int, resp *response, decodeErr error, raw []byte) error {
	msg := resp.Message
	if decodeErr != nil || msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = "server error occurred"
	}

	if status == http.StatusBadRequest {
		if len(resp.Errors) > 0 {
			return &models.ValidationError{Errors: resp.Errors}
		}
		var fieldErrs []models.FieldError
		if err := json.Unmarshal([]byte(msg), &fieldErrs); err == nil && len(fieldErrs) > 0 {
			return &models.ValidationError{Errors: fieldErrs}
		}
	}

	return &APIError{StatusCode: status, Message: msg}
}
