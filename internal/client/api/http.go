package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/netx"
)

const maxResponseSize = 16 << 20

type HTTPClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the default http.Client, e.g. in tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

// NewHTTPClient returns a client for the service rooted at baseURL. A
// positive timeout bounds every request.
func NewHTTPClient(baseURL string, timeout time.Duration, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) ListDecks(ctx context.Context) ([]models.DeckSummary, error) {
	var decks []models.DeckSummary
	if err := c.do(ctx, http.MethodGet, "/get-flash-cards", nil, "", &decks); err != nil {
		return nil, err
	}
	if decks == nil {
		decks = []models.DeckSummary{}
	}
	return decks, nil
}

func (c *HTTPClient) GetDeck(ctx context.Context, id int64) (*models.Deck, error) {
	var deck *models.Deck
	if err := c.do(ctx, http.MethodGet, "/get-flash-cards/"+strconv.FormatInt(id, 10), nil, "", &deck); err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, fmt.Errorf("deck %d: %w", id, ErrNotFound)
	}
	return deck, nil
}

func (c *HTTPClient) CreateDeckFromDocument(ctx context.Context, file models.FileDescriptor) (*models.DeckSummary, error) {
	if file.Path == "" {
		return nil, validationError("file is required")
	}

	body, ct, err := netx.NewForm().
		AddFileFromPath("file", file.Name, file.ContentType(), file.Path).
		Finish()
	if err != nil {
		return nil, validationError("%v", err)
	}

	var created models.DeckSummary
	if err := c.do(ctx, http.MethodPost, "/create-flash-cards", body, ct, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *HTTPClient) UpdateDeck(ctx context.Context, deck models.Deck) error {
	if deck.Cards == nil {
		deck.Cards = []models.Card{}
	}
	payload, err := json.Marshal(deck)
	if err != nil {
		return fmt.Errorf("encode deck: %w", err)
	}
	return c.do(ctx, http.MethodPatch, "/edit-flash-cards", bytes.NewReader(payload), "application/json", nil)
}

func (c *HTTPClient) DeleteDeck(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/delete-flash-cards/"+strconv.FormatInt(id, 10), nil, "", nil)
}

func (c *HTTPClient) Chat(ctx context.Context, file models.FileDescriptor, action models.ChatAction) (string, error) {
	if file.Path == "" {
		return "", validationError("file is required")
	}
	if action == "" {
		return "", validationError("action is required")
	}

	body, ct, err := netx.NewForm().
		AddFileFromPath("file", file.Name, file.ContentType(), file.Path).
		AddField("action", string(action)).
		Finish()
	if err != nil {
		return "", validationError("%v", err)
	}

	var resp struct {
		Response string `json:"response"`
	}
	if err := c.do(ctx, http.MethodPost, "/chat", body, ct, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

func (c *HTTPClient) AskCalendar(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", validationError("question is required")
	}

	var resp struct {
		Response struct {
			Output string `json:"output"`
		} `json:"response"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/calendar", questionRequest{Question: question}, &resp); err != nil {
		return "", err
	}
	return resp.Response.Output, nil
}

func (c *HTTPClient) UploadDocuments(ctx context.Context, files []models.FileDescriptor) error {
	if len(files) == 0 {
		return validationError("at least one file is required")
	}

	form := netx.NewForm()
	for _, f := range files {
		form.AddFileFromPath("files", f.Name, f.ContentType(), f.Path)
	}
	body, ct, err := form.Finish()
	if err != nil {
		return validationError("%v", err)
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/upload", body, ct, &resp); err != nil {
		return err
	}
	if resp.Status != "" && resp.Status != "success" {
		return &ServerError{StatusCode: http.StatusOK, Message: "upload status " + resp.Status}
	}
	return nil
}

func (c *HTTPClient) AskUploads(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", validationError("question is required")
	}

	var resp struct {
		Answer string `json:"answer"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/upload/ask", questionRequest{Question: question}, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

type questionRequest struct {
	Question string `json:"question"`
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(payload), "application/json", out)
}

// do sends one request and decodes a successful JSON body into out (if not
// nil). Failures are mapped with mapError/statusError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return mapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return mapError(err)
	}

	if err := statusError(resp.StatusCode, data); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &ServerError{StatusCode: resp.StatusCode, Message: "malformed response: " + err.Error()}
	}
	return nil
}

func mapError(err error) error {
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}

// statusError classifies a response. 2xx bodies of the form {"error": "..."}
// are failures too.
func statusError(code int, body []byte) error {
	switch {
	case code == http.StatusNotFound:
		return ErrNotFound
	case code < 200 || code > 299:
		return &ServerError{StatusCode: code, Message: errorMessage(body)}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var e struct {
		Error *string `json:"error"`
	}
	if json.Unmarshal(trimmed, &e) == nil && e.Error != nil {
		return &ServerError{StatusCode: code, Message: *e.Error}
	}
	return nil
}

// errorMessage extracts a human-readable message from an error body.
func errorMessage(body []byte) string {
	var e struct {
		Error  string          `json:"error"`
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Error != "" {
			return e.Error
		}
		if len(e.Detail) > 0 {
			var s string
			if json.Unmarshal(e.Detail, &s) == nil {
				return s
			}
			return string(e.Detail)
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
