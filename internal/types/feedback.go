package types

import "github.com/go-playground/validator/v10"

// Feedback is a free-text message left by a user.
type Feedback struct {
	ID      int       `json:"id"`
	UserID  int       `json:"user_id"`
	Message string    `json:"message"`
	Date    Timestamp `json:"date"`
}

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	Message string `json:"message" validate:"required"`
}

// FeedbackResponse is returned after feedback is stored.
type FeedbackResponse struct {
	Message  string    `json:"message"`
	Feedback *Feedback `json:"feedback"`
}

// Validate validates the FeedbackRequest using the validator.
func (r *FeedbackRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
