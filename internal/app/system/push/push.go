// internal/app/system/push/push.go

// Package push wraps the push-delivery collaborator behind a small
// interface so workflow handlers can be tested with a fake sender.
package push

import "context"

// Message is one multicast: the same title/body/data fanned out to a set
// of device tokens.
type Message struct {
	Tokens []string
	Title  string
	Body   string
	Data   map[string]string
}

// Result summarizes a multicast. Per-token failures are not surfaced to
// callers individually; Dead carries tokens the provider reported as
// permanently unregistered so the registry can retire them.
type Result struct {
	Success int
	Failure int
	Dead    []string
}

// Sender delivers one multicast best-effort. A non-nil error means the
// multicast as a whole could not be attempted; partial per-token
// failures are reported through Result only.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}
