package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/career-guide/internal/types"
	schemafiles "github.com/jonathan/career-guide/schemas"
)

// Questions returns the ordered quiz question list. The endpoint is public.
func (c *Client) Questions(ctx context.Context) ([]types.Question, error) {
	var questions []types.Question
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/quiz/questions",
		out:    &questions,
		schema: schemafiles.QuestionList,
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

// SubmitAnswers persists the full answer map for the current user.
func (c *Client) SubmitAnswers(ctx context.Context, answers types.Answers) (*types.QuizResponse, error) {
	var resp types.SubmitAnswersResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/quiz/responses",
		body:   types.SubmitAnswersRequest{Answers: answers},
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Response, nil
}

// QuizResponses returns the current user's past submissions.
func (c *Client) QuizResponses(ctx context.Context) ([]types.QuizResponse, error) {
	var responses []types.QuizResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/quiz/responses", out: &responses}); err != nil {
		return nil, err
	}
	return responses, nil
}

// AllQuizResponses returns every user's submissions (admin only).
func (c *Client) AllQuizResponses(ctx context.Context) ([]types.QuizResponse, error) {
	var responses []types.QuizResponse
	if err := c.do(ctx, call{method: http.MethodGet, path: "/quiz/responses/all", out: &responses}); err != nil {
		return nil, err
	}
	return responses, nil
}

// CreateQuestion adds a question to the quiz (admin only).
func (c *Client) CreateQuestion(ctx context.Context, req types.CreateQuestionRequest) (*types.Question, error) {
	var resp types.CreateQuestionResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/quiz/questions",
		body:   req,
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Question, nil
}

// DeleteQuestion removes a question (admin only).
func (c *Client) DeleteQuestion(ctx context.Context, id int) error {
	var resp types.MessageResponse
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/quiz/questions/%d", id), out: &resp})
}
