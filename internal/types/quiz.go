package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Option is one selectable answer of a question.
type Option struct {
	Value string `json:"value" validate:"required"`
	Label string `json:"label" validate:"required"`
}

// Question is one quiz item. The ordered list returned by the backend is never mutated.
type Question struct {
	ID       int      `json:"id"`
	Prompt   string   `json:"question"`
	Category string   `json:"category"`
	Options  []Option `json:"options"`
}

// Key returns the answer-map key for the question.
func (q Question) Key() string {
	return QuestionKey(q.ID)
}

// HasOption reports whether value is one of the question's declared option values.
func (q Question) HasOption(value string) bool {
	for _, opt := range q.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// UnmarshalJSON accepts the prompt under either "question" or "question_text".
func (q *Question) UnmarshalJSON(data []byte) error {
	type questionAlias Question
	var raw struct {
		questionAlias
		QuestionText string `json:"question_text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*q = Question(raw.questionAlias)
	if q.Prompt == "" {
		q.Prompt = raw.QuestionText
	}
	return nil
}

// QuestionKey formats a question id the way answer maps key it.
func QuestionKey(id int) string {
	return strconv.Itoa(id)
}

// Answers maps a question key to the selected option value.
type Answers map[string]string

// Clone returns an independent copy of the answer map.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// UnmarshalJSON accepts either a JSON object or a JSON-encoded string holding an object.
// The backend stores answers as serialized text and returns them unparsed.
func (a *Answers) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		data = []byte(encoded)
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("failed to decode answers: %w", err)
	}
	*a = m
	return nil
}

// SubmitAnswersRequest is the body of POST /quiz/responses.
type SubmitAnswersRequest struct {
	Answers Answers `json:"answers" validate:"required,min=1"`
}

// QuizResponse is one stored submission of a user's answers.
type QuizResponse struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Timestamp Timestamp `json:"timestamp"`
	Answers   Answers   `json:"answers"`
}

// SubmitAnswersResponse is returned after answers are persisted.
type SubmitAnswersResponse struct {
	Message  string        `json:"message"`
	Response *QuizResponse `json:"response"`
}

// CreateQuestionRequest is the admin request body for POST /quiz/questions.
type CreateQuestionRequest struct {
	QuestionText string   `json:"question_text" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Options      []Option `json:"options" validate:"required,min=1,dive"`
}

// CreateQuestionResponse is returned after a question is created.
type CreateQuestionResponse struct {
	Message  string    `json:"message"`
	Question *Question `json:"question"`
}

// Validate validates the SubmitAnswersRequest using the validator.
func (r *SubmitAnswersRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateQuestionRequest using the validator.
func (r *CreateQuestionRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
