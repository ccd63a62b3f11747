package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Details is the descriptive detail attached to a career recommendation.
type Details struct {
	Overview        string   `json:"overview"`
	WorkEnvironment string   `json:"workEnvironment"`
	Skills          []string `json:"skills"`
	Education       string   `json:"education"`
	Salary          string   `json:"salary"`
	Outlook         string   `json:"outlook"`
}

// Recommendation is a scored career match produced server-side.
// Rank is implied by position in the list returned by the backend.
type Recommendation struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id,omitempty"`
	Career      string    `json:"career"`
	Score       float64   `json:"score"`
	Description string    `json:"description"`
	Details     *Details  `json:"details"`
	CreatedAt   Timestamp `json:"created_at"`
}

// UnmarshalJSON accepts details as an object, a JSON-encoded string, or null.
// The admin listing returns details exactly as stored, which is serialized text.
func (r *Recommendation) UnmarshalJSON(data []byte) error {
	type recommendationAlias Recommendation
	var raw struct {
		recommendationAlias
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Recommendation(raw.recommendationAlias)
	r.Details = nil

	details := bytes.TrimSpace(raw.Details)
	if len(details) == 0 || bytes.Equal(details, []byte("null")) {
		return nil
	}
	if details[0] == '"' {
		var encoded string
		if err := json.Unmarshal(details, &encoded); err != nil {
			return err
		}
		if encoded == "" {
			return nil
		}
		details = []byte(encoded)
	}
	var d Details
	if err := json.Unmarshal(details, &d); err != nil {
		return fmt.Errorf("failed to decode recommendation details: %w", err)
	}
	r.Details = &d
	return nil
}

// GenerateResponse is returned by POST /recommendations/generate.
type GenerateResponse struct {
	Message         string           `json:"message"`
	Recommendations []Recommendation `json:"recommendations"`
}
