// Package googletasks implements gateway.Gateway using the Google Tasks API.
// Completion patches the remote task's status; deletion deletes it. Tasks
// are created remotely first so actions address the remote ID.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/auth"
	"todo/internal/config"
	"todo/internal/gateway"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	statusCompleted = "completed"
)

// Client implements gateway.Gateway and gateway.Registrar against one task
// list.
type Client struct {
	svc    *tasks.Service
	listID string
}

// New creates a Google Tasks client from the stored OAuth credentials.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	httpClient, err := auth.HTTPClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithHTTPClient(ctx, httpClient, cfg.Gateway.ListID)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// Extra options, such as option.WithEndpoint, are passed to the API client.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if listID == "" {
		listID = DefaultListID
	}
	return &Client{svc: svc, listID: listID}, nil
}

// Confirm implements gateway.Gateway.
func (c *Client) Confirm(ctx context.Context, req gateway.Request) error {
	ref := req.RemoteRef()

	var err error
	switch req.Action {
	case gateway.ActionComplete:
		call := c.svc.Tasks.Patch(c.listID, ref, &tasks.Task{Status: statusCompleted}).Context(ctx)
		if req.RequestID != "" {
			call.Header().Set("X-Request-Id", req.RequestID)
		}
		_, err = call.Do()
	case gateway.ActionDelete:
		call := c.svc.Tasks.Delete(c.listID, ref).Context(ctx)
		if req.RequestID != "" {
			call.Header().Set("X-Request-Id", req.RequestID)
		}
		err = call.Do()
	default:
		return &gateway.RemoteFailure{Err: fmt.Errorf("unsupported action %q", req.Action)}
	}
	return wrapError(err)
}

// Register implements gateway.Registrar by inserting the task.
func (c *Client) Register(ctx context.Context, title string) (string, error) {
	t, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{Title: title}).Context(ctx).Do()
	if err != nil {
		return "", wrapError(err)
	}
	return t.Id, nil
}

// Open implements gateway.Registrar. Pages are followed until exhausted.
func (c *Client) Open(ctx context.Context) ([]gateway.RemoteTask, error) {
	var open []gateway.RemoteTask
	err := c.svc.Tasks.List(c.listID).
		ShowCompleted(false).
		ShowHidden(false).
		MaxResults(100).
		Pages(ctx, func(page *tasks.Tasks) error {
			for _, t := range page.Items {
				if t.Status == statusCompleted || t.Deleted {
					continue
				}
				open = append(open, gateway.RemoteTask{Ref: t.Id, Title: t.Title})
			}
			return nil
		})
	if err != nil {
		return nil, wrapError(err)
	}
	return open, nil
}

// wrapError maps API errors onto gateway.RemoteFailure.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.Code)
		}
		return &gateway.RemoteFailure{StatusCode: apiErr.Code, Err: errors.New(msg)}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &gateway.RemoteFailure{Err: fmt.Errorf("request timed out: %w", err)}
	}
	return &gateway.RemoteFailure{Err: err}
}
