package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fullConfig = Config{ServiceID: "service_x", TemplateID: "template_y", PublicKey: "pk_z"}

var annFields = Fields{Name: "Ann", Email: "ann@example.com", Message: "Hi"}

type stubRelay struct {
	mu    sync.Mutex
	calls int
	got   []Fields
	err   error
}

func (s *stubRelay) Send(ctx context.Context, cfg Config, fields Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.got = append(s.got, fields)
	return s.err
}

func (s *stubRelay) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func staticConfig(cfg Config) ConfigSource {
	return ConfigFunc(func() Config { return cfg })
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewFormStartsIdle(t *testing.T) {
	f := NewForm(&stubRelay{}, staticConfig(fullConfig))

	assert.Equal(t, StatusIdle, f.State().Status())
	assert.True(t, f.Fields().Empty())
}

func TestSubmitSuccessClearsFields(t *testing.T) {
	relay := &stubRelay{}
	f := NewForm(relay, staticConfig(fullConfig), WithLogger(quietLogger()))

	state, err := f.Submit(context.Background(), annFields)
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, state.Status())
	assert.Equal(t, StatusSuccess, f.State().Status())
	assert.True(t, f.Fields().Empty())
	assert.Equal(t, 1, relay.Calls())
	assert.Equal(t, []Fields{annFields}, relay.got)
}

func TestSubmitDeliveryFailureKeepsFields(t *testing.T) {
	cause := errors.New("smtp relay unavailable")
	relay := &stubRelay{err: cause}
	f := NewForm(relay, staticConfig(fullConfig), WithLogger(quietLogger()))

	state, err := f.Submit(context.Background(), annFields)

	var delivery *DeliveryError
	require.ErrorAs(t, err, &delivery)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, StatusError, state.Status())
	assert.Equal(t, DeliveryErrorMessage, state.Message())
	assert.NotContains(t, state.Message(), cause.Error())
	assert.Equal(t, annFields, f.Fields())
	assert.Equal(t, 1, relay.Calls())
}

func TestSubmitMissingConfigNeverCallsRelay(t *testing.T) {
	cases := map[string]Config{
		"service id":  {TemplateID: "t", PublicKey: "k"},
		"template id": {ServiceID: "s", PublicKey: "k"},
		"public key":  {ServiceID: "s", TemplateID: "t"},
		"all":         {},
		"whitespace":  {ServiceID: " ", TemplateID: "t", PublicKey: "k"},
	}

	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			relay := &stubRelay{}
			f := NewForm(relay, staticConfig(cfg), WithLogger(quietLogger()))

			state, err := f.Submit(context.Background(), annFields)

			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Equal(t, StatusError, state.Status())
			assert.Equal(t, ConfigErrorMessage, state.Message())
			assert.Zero(t, relay.Calls())
			assert.Equal(t, annFields, f.Fields())
		})
	}
}

func TestSubmitResolvesConfigOnEveryAttempt(t *testing.T) {
	var current atomic.Value
	current.Store(Config{ServiceID: "s", PublicKey: "k"})
	source := ConfigFunc(func() Config { return current.Load().(Config) })

	relay := &stubRelay{}
	f := NewForm(relay, source, WithLogger(quietLogger()))

	_, err := f.Submit(context.Background(), annFields)
	require.ErrorIs(t, err, ErrConfiguration)

	current.Store(fullConfig)
	state, err := f.Submit(context.Background(), annFields)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, state.Status())
	assert.Equal(t, 1, relay.Calls())
}

func TestSubmitWhilePendingIsRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	relay := RelayFunc(func(ctx context.Context, cfg Config, fields Fields) error {
		calls.Add(1)
		close(entered)
		<-release
		return nil
	})
	f := NewForm(relay, staticConfig(fullConfig), WithLogger(quietLogger()))

	done := make(chan State)
	go func() {
		state, _ := f.Submit(context.Background(), annFields)
		done <- state
	}()

	<-entered
	assert.True(t, f.State().IsPending())

	state, err := f.Submit(context.Background(), Fields{Name: "Bob", Email: "bob@example.com", Message: "Again"})
	assert.ErrorIs(t, err, ErrBusy)
	assert.True(t, state.IsPending())
	assert.Equal(t, annFields, f.Fields())

	close(release)
	assert.Equal(t, StatusSuccess, (<-done).Status())
	assert.Equal(t, int32(1), calls.Load())
}

func TestSubmitAfterTerminalStateStartsOver(t *testing.T) {
	relay := &stubRelay{err: errors.New("boom")}
	f := NewForm(relay, staticConfig(fullConfig), WithLogger(quietLogger()))

	state, _ := f.Submit(context.Background(), annFields)
	require.Equal(t, StatusError, state.Status())

	relay.err = nil
	state, err := f.Submit(context.Background(), f.Fields())
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, state.Status())
	assert.Equal(t, annFields, relay.got[1])
}

func TestObserverSeesPendingLeftOnce(t *testing.T) {
	for _, relayErr := range []error{nil, errors.New("rejected")} {
		var seen []State
		f := NewForm(&stubRelay{err: relayErr}, staticConfig(fullConfig),
			WithLogger(quietLogger()),
			WithObserver(func(s State) { seen = append(seen, s) }),
		)

		_, _ = f.Submit(context.Background(), annFields)

		require.Len(t, seen, 2)
		assert.True(t, seen[0].IsPending())
		assert.True(t, seen[1].Terminal())
	}
}

func TestRelayPanicStillLeavesPending(t *testing.T) {
	relay := RelayFunc(func(ctx context.Context, cfg Config, fields Fields) error {
		panic("vendor client exploded")
	})
	f := NewForm(relay, staticConfig(fullConfig), WithLogger(quietLogger()))

	assert.Panics(t, func() {
		_, _ = f.Submit(context.Background(), annFields)
	})

	state := f.State()
	assert.Equal(t, StatusError, state.Status())
	assert.Equal(t, DeliveryErrorMessage, state.Message())
	assert.Equal(t, annFields, f.Fields())
}

func TestDismiss(t *testing.T) {
	f := NewForm(&stubRelay{}, staticConfig(fullConfig), WithLogger(quietLogger()))

	f.Dismiss()
	assert.Equal(t, StatusIdle, f.State().Status())

	_, err := f.Submit(context.Background(), annFields)
	require.NoError(t, err)
	f.Dismiss()
	assert.Equal(t, StatusIdle, f.State().Status())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle().String())
	assert.Equal(t, "pending", Pending().String())
	assert.Equal(t, "success", Succeeded().String())
	assert.Equal(t, "error(oops)", Failed("oops").String())
	assert.Empty(t, Succeeded().Message())
}
