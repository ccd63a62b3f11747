package apitest

import (
	"net/http"
	"sync"
)

// fault is a canned response served instead of the real handler.
type fault struct {
	status int
	body   string
	raw    bool
}

func routeKey(method, pattern string) string {
	return method + " " + pattern
}

// Fail makes every request to method+pattern answer status with {"error": message}.
// pattern is the route as registered below BasePath, e.g. "/quiz/responses".
func (s *Server) Fail(method, pattern string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[routeKey(method, pattern)] = fault{status: status, body: message}
}

// FailRaw makes every request to method+pattern answer status with body written verbatim.
func (s *Server) FailRaw(method, pattern string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[routeKey(method, pattern)] = fault{status: status, body: body, raw: true}
}

// ClearFaults removes every injected fault.
func (s *Server) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[string]fault)
}

// Calls returns how many requests reached method+pattern, including rejected ones.
func (s *Server) Calls(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[routeKey(method, pattern)]
}

// gate blocks requests until opened.
type gate struct {
	ch   chan struct{}
	once sync.Once
}

func (g *gate) open() {
	g.once.Do(func() { close(g.ch) })
}

// Hold parks requests to method+pattern until the returned release func is called or the
// client gives up. Release is safe to call more than once.
func (s *Server) Hold(method, pattern string) (release func()) {
	key := routeKey(method, pattern)
	g := &gate{ch: make(chan struct{})}
	s.mu.Lock()
	s.holds[key] = g
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		if s.holds[key] == g {
			delete(s.holds, key)
		}
		s.mu.Unlock()
		g.open()
	}
}

// ReleaseAll lets every held request proceed.
func (s *Server) ReleaseAll() {
	s.mu.Lock()
	holds := s.holds
	s.holds = make(map[string]*gate)
	s.mu.Unlock()
	for _, g := range holds {
		g.open()
	}
}

func (s *Server) instrument(key string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[key]++
		hold := s.holds[key]
		s.mu.Unlock()

		if hold != nil {
			select {
			case <-hold.ch:
			case <-r.Context().Done():
				return
			}
		}

		s.mu.Lock()
		f, failing := s.faults[key]
		s.mu.Unlock()
		if failing {
			if f.raw {
				w.WriteHeader(f.status)
				_, _ = w.Write([]byte(f.body))
				return
			}
			s.errorResponse(w, f.status, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}
