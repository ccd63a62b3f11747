package apitest

import (
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jonathan/career-guide/internal/types"
)

type userRecord struct {
	ID           int
	Name         string
	Email        string
	Role         types.Role
	PasswordHash string
	CreatedAt    time.Time
}

type questionRecord struct {
	ID        int
	Text      string
	Category  string
	Options   []types.Option
	CreatedAt time.Time
}

type responseRecord struct {
	ID        int
	UserID    int
	Answers   types.Answers
	Timestamp time.Time
}

type recommendationRecord struct {
	ID          int
	UserID      int
	Career      string
	Score       float64
	Description string
	Details     types.Details
	CreatedAt   time.Time
}

type feedbackRecord struct {
	ID      int
	UserID  int
	Message string
	Date    time.Time
}

// store is the in-memory database behind the fake backend. Every table keeps insertion
// order and its own id sequence.
type store struct {
	mu         sync.Mutex
	bcryptCost int
	now        func() time.Time

	users           []userRecord
	questions       []questionRecord
	responses       []responseRecord
	recommendations []recommendationRecord
	feedback        []feedbackRecord

	nextUser, nextQuestion, nextResponse, nextRecommendation, nextFeedback int
}

func newStore(bcryptCost int, now func() time.Time) *store {
	return &store{bcryptCost: bcryptCost, now: now}
}

func (s *store) timestamp() time.Time {
	return s.now().UTC()
}

func (s *store) createUser(req types.RegisterRequest) (userRecord, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return userRecord{}, err
	}
	role := req.Role
	if _, err := types.ParseRole(string(role)); err != nil {
		role = types.RoleStudent
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, req.Email) {
			return userRecord{}, &ErrEmailAlreadyExists{Email: req.Email}
		}
	}
	s.nextUser++
	user := userRecord{
		ID:           s.nextUser,
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    s.timestamp(),
	}
	s.users = append(s.users, user)
	return user, nil
}

func (s *store) authenticate(email, password string) (userRecord, error) {
	s.mu.Lock()
	var (
		found userRecord
		ok    bool
	)
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			found, ok = u, true
			break
		}
	}
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)) != nil {
		return userRecord{}, &ErrInvalidCredentials{}
	}
	return found, nil
}

func (s *store) user(id int) (userRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return userRecord{}, &ErrNotFound{Kind: "user", ID: id}
}

func (s *store) listUsers() []userRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]userRecord(nil), s.users...)
}

func (s *store) replaceQuestions(questions []types.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questions = nil
	s.nextQuestion = 0
	for _, q := range questions {
		s.insertQuestionLocked(q.Prompt, q.Category, q.Options)
	}
}

func (s *store) createQuestion(req types.CreateQuestionRequest) questionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertQuestionLocked(req.QuestionText, req.Category, req.Options)
}

func (s *store) insertQuestionLocked(text, category string, options []types.Option) questionRecord {
	s.nextQuestion++
	q := questionRecord{
		ID:        s.nextQuestion,
		Text:      text,
		Category:  category,
		Options:   append([]types.Option(nil), options...),
		CreatedAt: s.timestamp(),
	}
	s.questions = append(s.questions, q)
	return q
}

func (s *store) listQuestions() []questionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]questionRecord(nil), s.questions...)
}

func (s *store) deleteQuestion(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.questions {
		if q.ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return nil
		}
	}
	return &ErrNotFound{Kind: "question", ID: id}
}

// saveResponse replaces any earlier response of the user with the new answer map.
func (s *store) saveResponse(userID int, answers types.Answers) responseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.responses[:0]
	for _, r := range s.responses {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	s.responses = kept
	s.nextResponse++
	resp := responseRecord{
		ID:        s.nextResponse,
		UserID:    userID,
		Answers:   answers.Clone(),
		Timestamp: s.timestamp(),
	}
	s.responses = append(s.responses, resp)
	return resp
}

// listResponses returns the responses of userID, or every response when userID is 0.
func (s *store) listResponses(userID int) []responseRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []responseRecord{}
	for _, r := range s.responses {
		if userID == 0 || r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

func (s *store) latestResponse(userID int) (responseRecord, bool) {
	responses := s.listResponses(userID)
	if len(responses) == 0 {
		return responseRecord{}, false
	}
	latest := responses[0]
	for _, r := range responses[1:] {
		if !r.Timestamp.Before(latest.Timestamp) {
			latest = r
		}
	}
	return latest, true
}

// replaceRecommendations drops the user's previous recommendations and stores the new
// ranking.
func (s *store) replaceRecommendations(userID int, scored []scoredCareer) []recommendationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.recommendations[:0]
	for _, r := range s.recommendations {
		if r.UserID != userID {
			kept = append(kept, r)
		}
	}
	s.recommendations = kept

	created := make([]recommendationRecord, 0, len(scored))
	for _, sc := range scored {
		s.nextRecommendation++
		rec := recommendationRecord{
			ID:          s.nextRecommendation,
			UserID:      userID,
			Career:      sc.Career,
			Score:       sc.Score,
			Description: sc.Description,
			Details:     sc.Details,
			CreatedAt:   s.timestamp(),
		}
		s.recommendations = append(s.recommendations, rec)
		created = append(created, rec)
	}
	return created
}

// listRecommendations returns the user's recommendations ordered by score, highest first.
// userID 0 returns every stored recommendation in insertion order.
func (s *store) listRecommendations(userID int) []recommendationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []recommendationRecord{}
	for _, r := range s.recommendations {
		if userID == 0 || r.UserID == userID {
			out = append(out, r)
		}
	}
	if userID != 0 {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	}
	return out
}

func (s *store) addFeedback(userID int, message string) feedbackRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextFeedback++
	fb := feedbackRecord{ID: s.nextFeedback, UserID: userID, Message: message, Date: s.timestamp()}
	s.feedback = append(s.feedback, fb)
	return fb
}

// listFeedback returns feedback newest first, for one user or for everyone when userID is 0.
func (s *store) listFeedback(userID int) []feedbackRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []feedbackRecord{}
	for i := len(s.feedback) - 1; i >= 0; i-- {
		fb := s.feedback[i]
		if userID == 0 || fb.UserID == userID {
			out = append(out, fb)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

func (s *store) deleteFeedback(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, fb := range s.feedback {
		if fb.ID == id {
			s.feedback = append(s.feedback[:i], s.feedback[i+1:]...)
			return nil
		}
	}
	return &ErrNotFound{Kind: "feedback", ID: id}
}

// isoformat renders a zone-less timestamp the way the backend does, dropping the
// fractional part when it is zero.
func isoformat(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format("2006-01-02T15:04:05")
	}
	return t.Format("2006-01-02T15:04:05.000000")
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return isoformat(t)
}

func (u userRecord) payload() map[string]any {
	return map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": nullableTime(u.CreatedAt),
	}
}

func (q questionRecord) payload() map[string]any {
	return map[string]any{
		"id":            q.ID,
		"question_text": q.Text,
		"category":      q.Category,
		"options":       q.Options,
		"created_at":    nullableTime(q.CreatedAt),
	}
}

// payload encodes the answer map as text, matching how the backend stores it.
func (r responseRecord) payload() map[string]any {
	encoded, _ := json.Marshal(r.Answers)
	return map[string]any{
		"id":        r.ID,
		"user_id":   r.UserID,
		"timestamp": nullableTime(r.Timestamp),
		"answers":   string(encoded),
	}
}

// payload returns the recommendation with details as an object, or as stored text when
// rawDetails is set.
func (r recommendationRecord) payload(rawDetails bool) map[string]any {
	var details any = r.Details
	if rawDetails {
		encoded, _ := json.Marshal(r.Details)
		details = string(encoded)
	}
	return map[string]any{
		"id":          r.ID,
		"user_id":     r.UserID,
		"career":      r.Career,
		"score":       r.Score,
		"description": r.Description,
		"details":     details,
		"created_at":  nullableTime(r.CreatedAt),
	}
}

func (f feedbackRecord) payload() map[string]any {
	return map[string]any{
		"id":      f.ID,
		"user_id": f.UserID,
		"message": f.Message,
		"date":    nullableTime(f.Date),
	}
}
