// Package providertest provides an in-memory Provider for tests.
package providertest

import (
	"context"
	"errors"
	"sync"

	"github.com/adalundhe/floyd/core/providers"
)

// ErrExhausted is returned when a scripted provider runs out of replies.
var ErrExhausted = errors.New("providertest: no scripted reply left")

// Reply is one scripted outcome.
type Reply struct {
	Content string
	Thread  string
	Err     error
}

// Fake records every request and answers from a script or a function.
type Fake struct {
	mu       sync.Mutex
	name     string
	requests []providers.Request
	script   []Reply
	respond  func(req *providers.Request) (string, error)
	closed   bool
}

// Scripted answers calls with replies, in order.
func Scripted(replies ...string) *Fake {
	script := make([]Reply, len(replies))
	for i, r := range replies {
		script[i] = Reply{Content: r}
	}
	return &Fake{name: "fake", script: script}
}

// ScriptedReplies answers calls with full replies, in order.
func ScriptedReplies(replies ...Reply) *Fake {
	return &Fake{name: "fake", script: replies}
}

// Func answers every call with respond.
func Func(respond func(req *providers.Request) (string, error)) *Fake {
	return &Fake{name: "fake", respond: respond}
}

// Named sets the provider name.
func (f *Fake) Named(name string) *Fake {
	f.name = name
	return f
}

func (f *Fake) Name() string {
	return f.name
}

func (f *Fake) Complete(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.requests = append(f.requests, *req)
	respond := f.respond
	var reply Reply
	scripted := respond == nil
	if scripted {
		if len(f.script) == 0 {
			f.mu.Unlock()
			return nil, ErrExhausted
		}
		reply, f.script = f.script[0], f.script[1:]
	}
	f.mu.Unlock()

	if !scripted {
		content, err := respond(req)
		reply = Reply{Content: content, Err: err}
	}
	if reply.Err != nil {
		return nil, reply.Err
	}

	thread := reply.Thread
	if thread == "" {
		thread = req.Thread
	}
	return &providers.Response{
		Content:    reply.Content,
		Model:      req.Model,
		StopReason: providers.StopReasonEndTurn,
		Thread:     thread,
	}, nil
}

func (f *Fake) ValidateConfig() error {
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Calls returns the number of Complete calls made.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// Requests returns copies of the requests received, in order.
func (f *Fake) Requests() []providers.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]providers.Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Closed reports whether Close was called.
func (f *Fake) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
