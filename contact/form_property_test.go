//go:build property

package contact

import (
	"context"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestFormSubmissionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1998)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("incomplete config never reaches the relay", prop.ForAll(
		func(service, template, key, name, email, message string) bool {
			cfg := Config{ServiceID: service, TemplateID: template, PublicKey: key}
			if cfg.Complete() {
				return true
			}

			relay := &stubRelay{}
			f := NewForm(relay, staticConfig(cfg), WithLogger(quietLogger()))
			state, err := f.Submit(context.Background(), Fields{Name: name, Email: email, Message: message})

			return errors.Is(err, ErrConfiguration) &&
				relay.Calls() == 0 &&
				state.Status() == StatusError &&
				state.Message() == ConfigErrorMessage
		},
		gen.OneConstOf("", "service_x"),
		gen.OneConstOf("", "template_y"),
		gen.OneConstOf("", "pk_z"),
		gen.AlphaString(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("successful delivery clears every field", prop.ForAll(
		func(name, email, message string) bool {
			f := NewForm(&stubRelay{}, staticConfig(fullConfig), WithLogger(quietLogger()))
			state, err := f.Submit(context.Background(), Fields{Name: name, Email: email, Message: message})

			return err == nil && state.Status() == StatusSuccess && f.Fields().Empty()
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("failed delivery keeps fields as entered", prop.ForAll(
		func(name, email, message string) bool {
			entered := Fields{Name: name, Email: email, Message: message}
			f := NewForm(&stubRelay{err: errors.New("rejected")}, staticConfig(fullConfig), WithLogger(quietLogger()))
			state, err := f.Submit(context.Background(), entered)

			var delivery *DeliveryError
			return errors.As(err, &delivery) &&
				state.Status() == StatusError &&
				state.Message() == DeliveryErrorMessage &&
				f.Fields() == entered
		},
		gen.AnyString(),
		gen.AnyString(),
		gen.AnyString(),
	))

	properties.Property("pending is left exactly once per attempt", prop.ForAll(
		func(outcomes []bool) bool {
			relay := &stubRelay{}
			var left int
			var previous State
			f := NewForm(relay, staticConfig(fullConfig),
				WithLogger(quietLogger()),
				WithObserver(func(s State) {
					if previous.IsPending() && !s.IsPending() {
						left++
					}
					previous = s
				}),
			)

			for _, ok := range outcomes {
				relay.err = nil
				if !ok {
					relay.err = errors.New("rejected")
				}
				_, _ = f.Submit(context.Background(), annFields)
				if f.State().IsPending() {
					return false
				}
			}
			return left == len(outcomes)
		},
		gen.SliceOf(gen.Bool()),
	))

	properties.TestingRun(t)
}
