// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/provider"
	"github.com/jeranaias/chatstudio/internal/session"
)

// DefaultSystemPrompt is prepended to every request when none is configured.
const DefaultSystemPrompt = "You are a helpful AI assistant."

var (
	// ErrBusy is returned by Send while another send is in flight. Nothing
	// is mutated.
	ErrBusy = errors.New("a message is already being sent")

	// ErrClosed is returned by Send after Close.
	ErrClosed = errors.New("chat controller closed")
)

// =============================================================================
// RESULT
// =============================================================================

// Outcome says what a Send did.
type Outcome int

const (
	// OutcomeIgnored means the content was blank and nothing changed.
	OutcomeIgnored Outcome = iota
	// OutcomeDelivered means a reply was appended.
	OutcomeDelivered
	// OutcomeFailed means a diagnostic message was appended in place of a
	// reply.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result describes a completed send.
type Result struct {
	Outcome Outcome

	// Session is the session as persisted at the end of the send.
	Session model.Session

	// Reply is the appended assistant message: the provider's reply, or the
	// diagnostic when Outcome is OutcomeFailed.
	Reply model.Message

	// Err is the provider failure behind OutcomeFailed.
	Err error
}

// =============================================================================
// COLLABORATORS
// =============================================================================

// Completer sends a payload through an adapter. *provider.Client
// implements it.
type Completer interface {
	Complete(ctx context.Context, adapter provider.Adapter, messages []provider.ChatMessage) (string, error)
}

// Config wires a Controller. Repository is required.
type Config struct {
	Repository *session.Repository

	// Completer dispatches requests (default: provider.NewClient()).
	Completer Completer

	// Settings configures both provider adapters.
	Settings provider.Settings

	// SystemPrompt is sent first in every request (default:
	// DefaultSystemPrompt).
	SystemPrompt string

	// Notifier receives a transient notification for every failed send.
	Notifier Notifier

	// OnLoading is called with true when a send starts and false when it
	// ends.
	OnLoading func(loading bool)

	// Clock returns the current time (default: time.Now).
	Clock func() time.Time

	Logger *slog.Logger
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller runs the send transaction: record the user turn, call the
// selected provider, record the reply or a diagnostic, persist.
//
// At most one send is in flight at a time. Close cancels any in-flight
// request.
type Controller struct {
	repo         *session.Repository
	completer    Completer
	settings     provider.Settings
	systemPrompt string
	notifier     Notifier
	onLoading    func(bool)
	clock        func() time.Time
	logger       *slog.Logger

	loading atomic.Bool

	// base is cancelled by Close; every request context follows it.
	base      context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New creates a Controller.
func New(cfg Config) *Controller {
	if cfg.Repository == nil {
		panic("chat: Config.Repository is required")
	}
	c := &Controller{
		repo:         cfg.Repository,
		completer:    cfg.Completer,
		settings:     cfg.Settings,
		systemPrompt: cfg.SystemPrompt,
		notifier:     cfg.Notifier,
		onLoading:    cfg.OnLoading,
		clock:        cfg.Clock,
		logger:       cfg.Logger,
	}
	if c.completer == nil {
		c.completer = provider.NewClientWithConfig(&provider.ClientConfig{Logger: cfg.Logger})
	}
	if c.systemPrompt == "" {
		c.systemPrompt = DefaultSystemPrompt
	}
	if c.clock == nil {
		c.clock = time.Now
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "chat")
	c.base, c.cancel = context.WithCancel(context.Background())
	return c
}

// Repository returns the repository the controller writes to.
func (c *Controller) Repository() *session.Repository {
	return c.repo
}

// Loading reports whether a send is in flight.
func (c *Controller) Loading() bool {
	return c.loading.Load()
}

// Close cancels in-flight requests and makes further sends fail with
// ErrClosed. A cancelled send still records its failure.
func (c *Controller) Close() {
	c.closeOnce.Do(c.cancel)
}

// Adapter returns the adapter for the currently selected provider.
func (c *Controller) Adapter() (provider.Adapter, error) {
	return provider.New(c.repo.Selection().Provider(), c.settings)
}

// Send submits content as a user turn in the active session, creating a
// session when none is active.
//
// Blank content returns OutcomeIgnored. Provider failures do not produce an
// error: they are recorded in the session and reported through
// Result.Outcome and Result.Err. The only errors are ErrBusy and ErrClosed.
func (c *Controller) Send(ctx context.Context, content string) (*Result, error) {
	if c.base.Err() != nil {
		return nil, ErrClosed
	}

	text := strings.TrimSpace(content)
	if text == "" {
		return &Result{Outcome: OutcomeIgnored}, nil
	}

	if !c.loading.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	c.fireLoading(true)
	defer func() {
		c.loading.Store(false)
		c.fireLoading(false)
	}()

	sel := c.repo.Selection()
	p := sel.Provider()

	// Optimistic write: the user turn is durable before the network call.
	sess, ok := c.repo.GetActive()
	if !ok {
		sess = model.NewSession(text, p, c.now())
		c.logger.Debug("starting new session", "session", sess.ID, "provider", p)
	}
	sess.Append(model.NewMessage(model.RoleUser, text, c.now()))
	sel.SetCurrentSessionID(sess.ID)
	c.repo.Upsert(sess)

	adapter, err := provider.New(p, c.settings)
	var reply string
	if err == nil {
		reply, err = c.complete(ctx, adapter, provider.BuildHistory(c.systemPrompt, sess.Messages))
	}

	var msg model.Message
	result := &Result{}
	if err != nil {
		msg = model.NewMessage(model.RoleAssistant, provider.Diagnose(err, adapter), c.now())
		msg.Failure = provider.KindOf(err).String()
		result.Outcome = OutcomeFailed
		result.Err = err
		c.logger.Warn("send failed", "session", sess.ID, "provider", p, "kind", msg.Failure, "error", err)
	} else {
		msg = model.NewMessage(model.RoleAssistant, reply, c.now())
		result.Outcome = OutcomeDelivered
	}

	sess.Append(msg)
	c.repo.Upsert(sess)

	if err != nil {
		c.notify(p, err, msg.Content)
	}

	result.Session = sess.Clone()
	result.Reply = msg
	return result, nil
}

// complete runs one request under a context that ends when either ctx or
// the controller is done.
func (c *Controller) complete(ctx context.Context, adapter provider.Adapter, messages []provider.ChatMessage) (string, error) {
	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(c.base, cancel)
	defer stop()

	return c.completer.Complete(reqCtx, adapter, messages)
}

func (c *Controller) now() int64 {
	return c.clock().UnixMilli()
}

func (c *Controller) fireLoading(loading bool) {
	if c.onLoading != nil {
		c.onLoading(loading)
	}
}
