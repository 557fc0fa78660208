package gforms

import (
	"context"

	"google.golang.org/api/forms/v1"
	"google.golang.org/api/option"
)

// FormsAPI is the minimal Forms surface the orchestrator needs.
// *Client satisfies this interface.
type FormsAPI interface {
	Create(ctx context.Context, title string) (*forms.Form, error)
	BatchUpdate(ctx context.Context, formID string, reqs []*forms.Request) error
}

// Client wraps the Google Forms service.
type Client struct {
	svc *forms.Service
}

func NewClient(ctx context.Context, creds CredentialSource) (*Client, error) {
	ts, err := creds.TokenSource(ctx)
	if err != nil {
		return nil, err
	}
	svc, err := forms.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, newError(ErrAuth, "", err)
	}
	return &Client{svc: svc}, nil
}

// Create makes the form entity. Only the title may be set here; the
// provider rejects creation requests carrying any other field.
func (c *Client) Create(ctx context.Context, title string) (*forms.Form, error) {
	return c.svc.Forms.Create(&forms.Form{
		Info: &forms.Info{Title: title},
	}).Context(ctx).Do()
}

func (c *Client) BatchUpdate(ctx context.Context, formID string, reqs []*forms.Request) error {
	_, err := c.svc.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{
		Requests: reqs,
	}).Context(ctx).Do()
	return err
}
