package navigation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/jonathan/career-guide/internal/types"
)

var (
	// ErrAuthRequired is returned by NavigateGuarded for auth-gated views without a session.
	ErrAuthRequired = errors.New("authentication required")
	// ErrNilUser is returned by CompleteAuth when no user is given.
	ErrNilUser = errors.New("user must not be nil")
)

// SessionEnder ends the server-side session.
type SessionEnder interface {
	Logout(ctx context.Context) error
}

// Listener is notified after every view change.
type Listener func(from, to View)

// Controller holds the single active view and the session user.
type Controller struct {
	sessions SessionEnder
	logger   *zap.Logger

	mu        sync.RWMutex
	current   View
	user      *types.User
	listeners []Listener
}

// NewController starts on the landing view with no user.
func NewController(sessions SessionEnder, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		sessions: sessions,
		logger:   logger.Named("navigation"),
		current:  ViewLanding,
	}
}

// OnChange registers a listener called after each navigation, outside the lock.
func (c *Controller) OnChange(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Current returns the active view.
func (c *Controller) Current() View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// User returns the session user, or nil when logged out.
func (c *Controller) User() *types.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// Authenticated reports whether a session user is held.
func (c *Controller) Authenticated() bool {
	return c.User() != nil
}

// Navigate makes target the active view. No authentication check is made.
func (c *Controller) Navigate(target View) {
	c.mu.Lock()
	from := c.current
	c.current = target
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	c.logger.Debug("navigated", zap.Stringer("from", from), zap.Stringer("to", target))
	for _, fn := range listeners {
		fn(from, target)
	}
}

// NavigateGuarded is Navigate with a session check for auth-gated views.
func (c *Controller) NavigateGuarded(target View) error {
	if target.RequiresAuth() && !c.Authenticated() {
		return fmt.Errorf("cannot open %s: %w", target, ErrAuthRequired)
	}
	c.Navigate(target)
	return nil
}

// CompleteAuth stores the authenticated user and routes to the role's home view.
func (c *Controller) CompleteAuth(user *types.User) error {
	if user == nil {
		return ErrNilUser
	}
	c.mu.Lock()
	c.user = user
	c.mu.Unlock()

	c.logger.Info("session started", zap.Int("user_id", user.ID), zap.String("role", string(user.Role)))
	if user.IsAdmin() {
		c.Navigate(ViewAdmin)
	} else {
		c.Navigate(ViewDashboard)
	}
	return nil
}

// Logout ends the server session, then clears the user and returns to landing. The local
// session is cleared even when the server call fails.
func (c *Controller) Logout(ctx context.Context) {
	if c.sessions != nil {
		if err := c.sessions.Logout(ctx); err != nil {
			c.logger.Warn("logout request failed", zap.Error(err))
		}
	}

	c.mu.Lock()
	c.user = nil
	c.mu.Unlock()

	c.logger.Info("session ended")
	c.Navigate(ViewLanding)
}
