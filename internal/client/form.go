package client

import (
	"context"
	"errors"
	"sync"

	"accesslens/internal/audit"
)

// State is the audit form lifecycle: idle → loading → success or error, and
// error → loading again on an explicit retry.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// ErrSubmitInFlight rejects a duplicate submission while one is loading.
var ErrSubmitInFlight = errors.New("audit already in progress")

// Form serializes audit submissions for one form instance and preserves the
// typed input across every failure path — fields are never cleared here.
type Form struct {
	mu     sync.Mutex
	client *Client

	Input FormInput

	state     State
	result    audit.Result
	lastError string
}

func NewForm(c *Client) *Form {
	return &Form{client: c, state: StateIdle}
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Result returns the last successful audit result.
func (f *Form) Result() audit.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// LastError returns the display message from the most recent failure.
func (f *Form) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastError
}

// Submit runs one audit for the current input. Only one submission may be in
// flight; duplicates get ErrSubmitInFlight. A failed submission moves the
// form to StateError and a later Submit retries from there.
func (f *Form) Submit(ctx context.Context) (audit.Result, error) {
	f.mu.Lock()
	if f.state == StateLoading {
		f.mu.Unlock()
		return audit.Result{}, ErrSubmitInFlight
	}
	f.state = StateLoading
	in := f.Input
	f.mu.Unlock()

	res := f.client.RunAudit(ctx, in)

	f.mu.Lock()
	defer f.mu.Unlock()
	if res.Error != "" {
		f.state = StateError
		f.lastError = res.Error
	} else {
		f.state = StateSuccess
		f.result = res
		f.lastError = ""
	}
	return res, nil
}
