// Package provider adapts external text-completion services to a single
// synchronous call contract.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ashureev/mira-chat/internal/domain"
)

// ErrProvider wraps every failure returned by a completion backend.
var ErrProvider = errors.New("completion provider error")

// DefaultTimeout bounds a single completion call when the caller sets no deadline.
const DefaultTimeout = 30 * time.Second

// Completer maps an ordered, role-tagged history to one completion.
type Completer interface {
	Complete(ctx context.Context, messages []domain.Message) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, messages []domain.Message) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	return f(ctx, messages)
}

type deadlineCompleter struct {
	next    Completer
	timeout time.Duration
}

// WithTimeout applies timeout to calls whose context carries no deadline and
// wraps errors with ErrProvider.
func WithTimeout(next Completer, timeout time.Duration) Completer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &deadlineCompleter{next: next, timeout: timeout}
}

func (d *deadlineCompleter) Complete(ctx context.Context, messages []domain.Message) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}
	reply, err := d.next.Complete(ctx, messages)
	if err != nil {
		if errors.Is(err, ErrProvider) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", ErrProvider, err)
	}
	return reply, nil
}

// Config selects and configures a completion backend.
type Config struct {
	Name    string // "groq" or "gemini"
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// New builds the configured backend wrapped with WithTimeout.
func New(ctx context.Context, cfg Config) (Completer, error) {
	var (
		c   Completer
		err error
	)
	switch cfg.Name {
	case "", "groq":
		c, err = NewGroq(GroqConfig{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL})
	case "gemini":
		c, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Name)
	}
	if err != nil {
		return nil, err
	}
	return WithTimeout(c, cfg.Timeout), nil
}
