package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/career-guide/internal/types"
)

// SubmitFeedback stores a feedback message for the current user.
func (c *Client) SubmitFeedback(ctx context.Context, message string) (*types.Feedback, error) {
	var resp types.FeedbackResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/feedback",
		body:   types.FeedbackRequest{Message: message},
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Feedback, nil
}

// Feedback returns the current user's feedback, newest first.
func (c *Client) Feedback(ctx context.Context) ([]types.Feedback, error) {
	var items []types.Feedback
	if err := c.do(ctx, call{method: http.MethodGet, path: "/feedback", out: &items}); err != nil {
		return nil, err
	}
	return items, nil
}

// AllFeedback returns feedback from every user (admin only).
func (c *Client) AllFeedback(ctx context.Context) ([]types.Feedback, error) {
	var items []types.Feedback
	if err := c.do(ctx, call{method: http.MethodGet, path: "/feedback/all", out: &items}); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteFeedback removes a feedback entry (admin only).
func (c *Client) DeleteFeedback(ctx context.Context, id int) error {
	var resp types.MessageResponse
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/feedback/%d", id), out: &resp})
}

// Users lists every account (admin only).
func (c *Client) Users(ctx context.Context) ([]types.User, error) {
	var users []types.User
	if err := c.do(ctx, call{method: http.MethodGet, path: "/users", out: &users}); err != nil {
		return nil, err
	}
	return users, nil
}
