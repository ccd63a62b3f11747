package apitest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/jonathan/career-guide/internal/types"
)

// SeedUser creates an account directly in the store.
func (s *Server) SeedUser(name, email, password string, role types.Role) (types.User, error) {
	rec, err := s.store.createUser(types.RegisterRequest{Name: name, Email: email, Password: password, Role: role})
	if err != nil {
		return types.User{}, err
	}
	return rec.user(), nil
}

// SetQuestions replaces the quiz with questions, renumbering ids from 1.
func (s *Server) SetQuestions(questions []types.Question) {
	s.store.replaceQuestions(questions)
}

// ActiveSessions returns the number of sessions that have not been revoked.
func (s *Server) ActiveSessions() int {
	return s.sessions.count()
}

func (u userRecord) user() types.User {
	return types.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: types.Timestamp{Time: u.CreatedAt},
	}
}

func (s *Server) startSession(w http.ResponseWriter, user userRecord) bool {
	token, _, err := s.sessions.issue(user.ID, user.Role)
	if err != nil {
		s.logger.Error("failed to issue session", zap.Int("user_id", user.ID), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to start session")
		return false
	}
	s.setSessionCookie(w, token)
	return true
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.validationFailed(w, err)
		return
	}

	user, err := s.store.createUser(req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if !s.startSession(w, user) {
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user.payload(),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.validationFailed(w, err)
		return
	}

	user, err := s.store.authenticate(req.Email, req.Password)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if !s.startSession(w, user) {
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    user.payload(),
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.revoke(sessionFrom(r).ID)
	s.clearSessionCookie(w)
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := sessionFrom(r)
	user, err := s.store.user(claims.UserID)
	if err != nil {
		s.sessions.revokeUser(claims.UserID)
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"user": user.payload()})
}

func (s *Server) handleListQuestions(w http.ResponseWriter, _ *http.Request) {
	questions := s.store.listQuestions()
	out := make([]map[string]any, 0, len(questions))
	for _, q := range questions {
		out = append(out, q.payload())
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req types.CreateQuestionRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.validationFailed(w, err)
		return
	}
	q := s.store.createQuestion(req)
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"message":  "Question created successfully",
		"question": q.payload(),
	})
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.deleteQuestion(id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Question deleted successfully"})
}

func (s *Server) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitAnswersRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.validationFailed(w, err)
		return
	}
	resp := s.store.saveResponse(sessionFrom(r).UserID, req.Answers)
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"message":  "Quiz response submitted successfully",
		"response": resp.payload(),
	})
}

func (s *Server) handleListResponses(w http.ResponseWriter, r *http.Request) {
	s.writeResponses(w, s.store.listResponses(sessionFrom(r).UserID))
}

func (s *Server) handleListAllResponses(w http.ResponseWriter, _ *http.Request) {
	s.writeResponses(w, s.store.listResponses(0))
}

func (s *Server) writeResponses(w http.ResponseWriter, responses []responseRecord) {
	out := make([]map[string]any, 0, len(responses))
	for _, resp := range responses {
		out = append(out, resp.payload())
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleListRecommendations(w http.ResponseWriter, r *http.Request) {
	s.writeRecommendations(w, http.StatusOK, s.store.listRecommendations(sessionFrom(r).UserID), false)
}

func (s *Server) handleListAllRecommendations(w http.ResponseWriter, _ *http.Request) {
	s.writeRecommendations(w, http.StatusOK, s.store.listRecommendations(0), true)
}

func (s *Server) handleGenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := sessionFrom(r).UserID
	latest, ok := s.store.latestResponse(userID)
	if !ok {
		err := &ErrNoQuizResponse{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.store.replaceRecommendations(userID, scoreCareers(latest.Answers))
	recs := s.store.listRecommendations(userID)
	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.payload(false))
	}
	s.logger.Debug("recommendations generated", zap.Int("user_id", userID), zap.Int("count", len(out)))
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"message":         "Recommendations generated successfully",
		"recommendations": out,
	})
}

// writeRecommendations writes a recommendation list. The admin listing passes details
// through as stored text.
func (s *Server) writeRecommendations(w http.ResponseWriter, status int, recs []recommendationRecord, rawDetails bool) {
	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.payload(rawDetails))
	}
	s.jsonResponse(w, status, out)
}

func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req types.FeedbackRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.validationFailed(w, err)
		return
	}
	fb := s.store.addFeedback(sessionFrom(r).UserID, req.Message)
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"message":  "Feedback submitted successfully",
		"feedback": fb.payload(),
	})
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	s.writeFeedback(w, s.store.listFeedback(sessionFrom(r).UserID))
}

func (s *Server) handleListAllFeedback(w http.ResponseWriter, _ *http.Request) {
	s.writeFeedback(w, s.store.listFeedback(0))
}

func (s *Server) writeFeedback(w http.ResponseWriter, items []feedbackRecord) {
	out := make([]map[string]any, 0, len(items))
	for _, fb := range items {
		out = append(out, fb.payload())
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleDeleteFeedback(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.deleteFeedback(id); err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Feedback deleted successfully"})
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	users := s.store.listUsers()
	out := make([]map[string]any, 0, len(users))
	for _, u := range users {
		out = append(out, u.payload())
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		s.errorResponse(w, http.StatusNotFound, "Not found")
		return 0, false
	}
	return id, true
}
