package contact

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var errRelayPanicked = errors.New("relay panicked")

// Form is one visitor's contact form: the entered values and the result of
// the latest submission. At most one submission is in flight at a time.
type Form struct {
	mu     sync.Mutex
	state  State
	fields Fields

	relay    Relay
	source   ConfigSource
	logger   *slog.Logger
	observer func(State)
}

type Option func(*Form)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) { f.logger = logger }
}

// WithObserver registers fn to be called after every state transition.
// It runs outside the form's lock.
func WithObserver(fn func(State)) Option {
	return func(f *Form) { f.observer = fn }
}

func NewForm(relay Relay, source ConfigSource, opts ...Option) *Form {
	f := &Form{
		state:  Idle(),
		relay:  relay,
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current result state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Fields returns the values currently held in the form.
func (f *Form) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Dismiss moves a terminal state back to idle. Pending and idle forms are
// left alone.
func (f *Form) Dismiss() {
	f.mu.Lock()
	if !f.state.Terminal() {
		f.mu.Unlock()
		return
	}
	f.state = Idle()
	f.mu.Unlock()
	f.notify(Idle())
}

// Submit runs one submission attempt.
//
// A form that is already pending rejects the attempt with ErrBusy. Missing
// relay configuration ends in the error state with ErrConfiguration and the
// relay is not called. Otherwise the relay is called exactly once: on success
// the fields are cleared, on failure they are kept and a *DeliveryError is
// returned.
func (f *Form) Submit(ctx context.Context, fields Fields) (State, error) {
	f.mu.Lock()
	if f.state.IsPending() {
		f.mu.Unlock()
		return Pending(), ErrBusy
	}
	f.fields = fields

	cfg := f.source.RelayConfig()
	if !cfg.Complete() {
		f.state = Failed(ConfigErrorMessage)
		f.mu.Unlock()
		f.logger.Error("contact relay is not configured", "missing", cfg.Missing())
		f.notify(Failed(ConfigErrorMessage))
		return Failed(ConfigErrorMessage), ErrConfiguration
	}

	f.state = Pending()
	f.mu.Unlock()
	f.notify(Pending())

	state, err := f.deliver(ctx, cfg, fields)
	if err != nil {
		f.logger.Error("contact message delivery failed", "error", err)
		return state, &DeliveryError{Cause: err}
	}
	f.logger.Info("contact message delivered")
	return state, nil
}

// deliver calls the relay and settles the pending state, also when the relay
// panics.
func (f *Form) deliver(ctx context.Context, cfg Config, fields Fields) (state State, err error) {
	err = errRelayPanicked
	defer func() {
		state = f.settle(err)
	}()
	err = f.relay.Send(ctx, cfg, fields)
	return state, err
}

func (f *Form) settle(err error) State {
	f.mu.Lock()
	if err != nil {
		f.state = Failed(DeliveryErrorMessage)
	} else {
		f.state = Succeeded()
		f.fields = Fields{}
	}
	state := f.state
	f.mu.Unlock()
	f.notify(state)
	return state
}

func (f *Form) notify(state State) {
	if f.observer != nil {
		f.observer(state)
	}
}
