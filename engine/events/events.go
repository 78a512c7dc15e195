// Package events delivers engine notifications to their consumers.
// Delivery is single pass: a sink never feeds notifications back into
// the engine.
package events

import (
	"fmt"

	"github.com/nathoo/templecore/types"
	"github.com/sirupsen/logrus"
)

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -destination=./mocks/notifier_mock.go -package=mocks . Notifier

// Notifier receives client-visible notifications from the core.
type Notifier interface {
	Notify(n types.Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(types.Notification)

// Notify calls f(n).
func (f NotifierFunc) Notify(n types.Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = NotifierFunc(func(types.Notification) {})

// Text builds a text_output notification.
func Text(style types.Style, msg string) types.Notification {
	return types.Notification{
		Kind:    types.KindText,
		Payload: types.TextOutput{Text: msg, Style: style},
	}
}

// Textf builds a formatted text_output notification.
func Textf(style types.Style, format string, args ...any) types.Notification {
	return Text(style, fmt.Sprintf(format, args...))
}

// Recorder collects notifications in order. Not safe for concurrent use;
// each player worker owns its own.
type Recorder struct {
	Notifications []types.Notification
}

// Notify appends n.
func (r *Recorder) Notify(n types.Notification) {
	r.Notifications = append(r.Notifications, n)
}

// Drain returns everything recorded so far and resets the recorder.
func (r *Recorder) Drain() []types.Notification {
	out := r.Notifications
	r.Notifications = nil
	return out
}

// Output returns the text lines among the recorded notifications.
func (r *Recorder) Output() []types.TextOutput {
	return TextLines(r.Notifications)
}

// Of returns the recorded notifications of one kind.
func (r *Recorder) Of(kind types.NotificationKind) []types.Notification {
	var out []types.Notification
	for _, n := range r.Notifications {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// TextLines extracts the text_output payloads from a notification list.
func TextLines(ns []types.Notification) []types.TextOutput {
	var out []types.TextOutput
	for _, n := range ns {
		if n.Kind != types.KindText {
			continue
		}
		if t, ok := n.Payload.(types.TextOutput); ok {
			out = append(out, t)
		}
	}
	return out
}

// Fanout delivers each notification to every sink once, in order.
type Fanout []Notifier

// Notify forwards n to every sink.
func (f Fanout) Notify(n types.Notification) {
	for _, sink := range f {
		if sink != nil {
			sink.Notify(n)
		}
	}
}

// TraceSink returns a LogSink on entry when its logger has debug enabled,
// and nil otherwise.
func TraceSink(entry *logrus.Entry) Notifier {
	if entry == nil || !entry.Logger.IsLevelEnabled(logrus.DebugLevel) {
		return nil
	}
	return LogSink{Entry: entry}
}

// LogSink writes a debug trace line per notification.
type LogSink struct {
	Entry *logrus.Entry
}

// Notify logs n at debug level.
func (s LogSink) Notify(n types.Notification) {
	if s.Entry == nil {
		return
	}
	e := s.Entry.WithField("kind", n.Kind)
	if t, ok := n.Payload.(types.TextOutput); ok {
		e = e.WithField("style", t.Style)
		e.Debug(t.Text)
		return
	}
	e.Debug("notification")
}
