package api

import (
	"context"
	"net/http"

	"github.com/jonathan/career-guide/internal/types"
	schemafiles "github.com/jonathan/career-guide/schemas"
)

// Recommendations returns the current user's recommendations, best match first.
func (c *Client) Recommendations(ctx context.Context) ([]types.Recommendation, error) {
	var recs []types.Recommendation
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/recommendations",
		out:    &recs,
		schema: schemafiles.RecommendationList,
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// GenerateRecommendations asks the backend to compute and store recommendations from the
// user's latest quiz response, and returns them.
func (c *Client) GenerateRecommendations(ctx context.Context) ([]types.Recommendation, error) {
	var resp types.GenerateResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/recommendations/generate",
		out:    &resp,
		schema: schemafiles.GenerateResponse,
	})
	if err != nil {
		return nil, err
	}
	return resp.Recommendations, nil
}

// AllRecommendations returns every user's recommendations (admin only).
func (c *Client) AllRecommendations(ctx context.Context) ([]types.Recommendation, error) {
	var recs []types.Recommendation
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/recommendations/all",
		out:    &recs,
		schema: schemafiles.RecommendationList,
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}
