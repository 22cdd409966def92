package testutil

import (
	"context"
	"sync"

	"github.com/budgetbuddy/server/internal/app/system/push"
)

// FakeSender records push messages instead of delivering them. Safe for
// concurrent use. Dead lists tokens to report as unregistered; Err, when
// set, is returned from every Send.
type FakeSender struct {
	mu   sync.Mutex
	Dead []string
	Err  error

	sent []push.Message
}

func (f *FakeSender) Send(_ context.Context, msg push.Message) (push.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.Err != nil {
		return push.Result{}, f.Err
	}

	f.sent = append(f.sent, msg)

	dead := make(map[string]bool, len(f.Dead))
	for _, tok := range f.Dead {
		dead[tok] = true
	}

	res := push.Result{}
	for _, tok := range msg.Tokens {
		if dead[tok] {
			res.Failure++
			res.Dead = append(res.Dead, tok)
		} else {
			res.Success++
		}
	}
	return res, nil
}

// Sent returns a copy of the messages recorded so far.
func (f *FakeSender) Sent() []push.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]push.Message, len(f.sent))
	copy(out, f.sent)
	return out
}
