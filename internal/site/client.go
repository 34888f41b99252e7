package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"welfare-cms/internal/content/domain/model"

	"github.com/gofiber/fiber/v2"
)

// APIError is a non-2xx answer from the content API.
type APIError struct {
	Path    string
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned %d: %s", e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s returned %d", e.Path, e.Status)
}

// ContentSource is what the pages read from and the contact form writes to.
type ContentSource interface {
	Home(ctx context.Context) (*model.HomeDocument, error)
	About(ctx context.Context) (*model.AboutDocument, error)
	Contact(ctx context.Context) (*model.ContactDocument, error)
	Members(ctx context.Context) (*model.MembersDocument, error)
	Gallery(ctx context.Context) (*model.Gallery, error)
	Submit(ctx context.Context, in model.SubmissionInput) (string, error)
}

type clientIPKey struct{}

// WithClientIP records the visitor address that Submit forwards to the API.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

func clientIPFrom(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// ContentClient reads the content API over HTTP.
type ContentClient struct {
	baseURL string
	timeout time.Duration
}

// NewContentClient creates a client for the API served at baseURL.
func NewContentClient(baseURL string, timeout time.Duration) *ContentClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ContentClient{baseURL: baseURL, timeout: timeout}
}

func (c *ContentClient) Home(ctx context.Context) (*model.HomeDocument, error) {
	doc := &model.HomeDocument{}
	return doc, c.getJSON(ctx, "/api/home", doc)
}

func (c *ContentClient) About(ctx context.Context) (*model.AboutDocument, error) {
	doc := &model.AboutDocument{}
	return doc, c.getJSON(ctx, "/api/about", doc)
}

func (c *ContentClient) Contact(ctx context.Context) (*model.ContactDocument, error) {
	doc := &model.ContactDocument{}
	return doc, c.getJSON(ctx, "/api/contact", doc)
}

func (c *ContentClient) Members(ctx context.Context) (*model.MembersDocument, error) {
	doc := &model.MembersDocument{}
	return doc, c.getJSON(ctx, "/api/members", doc)
}

func (c *ContentClient) Gallery(ctx context.Context) (*model.Gallery, error) {
	doc := &model.Gallery{}
	return doc, c.getJSON(ctx, "/api/gallery", doc)
}

// Submit posts a contact form and returns the new submission id.
func (c *ContentClient) Submit(ctx context.Context, in model.SubmissionInput) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	in.SubmittedAt = ""
	agent := fiber.Post(c.baseURL + "/api/contact/submit").Timeout(c.timeout).JSON(in)
	if ip := clientIPFrom(ctx); ip != "" {
		agent.Set(fiber.HeaderXForwardedFor, ip)
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := decodeResponse(agent, "/api/contact/submit", &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *ContentClient) getJSON(ctx context.Context, path string, dst interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	agent := fiber.Get(c.baseURL + path).Timeout(c.timeout)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	return decodeResponse(agent, path, dst)
}

// decodeResponse runs agent and decodes a 2xx JSON body into dst. The agent
// is released.
func decodeResponse(agent *fiber.Agent, path string, dst interface{}) error {
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("request %s: %w", path, errors.Join(errs...))
	}
	if status < 200 || status > 299 {
		apiErr := &APIError{Path: path, Status: status}
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Code, apiErr.Message = payload.Error, payload.Message
		}
		return apiErr
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

var _ ContentSource = (*ContentClient)(nil)
