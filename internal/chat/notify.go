// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jeranaias/chatstudio/internal/model"
	"github.com/jeranaias/chatstudio/internal/provider"
)

// Notification is a transient, user-visible alert raised when a send
// fails. It is shown once and never persisted.
type Notification struct {
	Title       string
	Description string
	Provider    model.Provider
	Kind        provider.Kind
}

// Notifier displays notifications.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// NotificationTitle returns the heading for a failure from p, e.g.
// "CLOUD API Connection Error" for network failures.
func NotificationTitle(p model.Provider, kind provider.Kind) string {
	// A Caser is stateful, so one is made per call.
	name := cases.Upper(language.Und).String(string(p))
	if kind == provider.KindNetwork {
		return name + " API Connection Error"
	}
	return name + " API Error"
}

func (c *Controller) notify(p model.Provider, err error, description string) {
	if c.notifier == nil {
		return
	}
	kind := provider.KindOf(err)
	c.notifier.Notify(Notification{
		Title:       NotificationTitle(p, kind),
		Description: description,
		Provider:    p,
		Kind:        kind,
	})
}
