package contact

import (
	"errors"
	"fmt"
)

// Fixed user-facing texts. Underlying causes never reach the visitor.
const (
	ConfigErrorMessage   = "Configuration error. Please contact the site administrator."
	DeliveryErrorMessage = "An error occurred while sending the message. Please try again."
	SuccessMessage       = "Message sent! I will get back to you shortly."
)

var (
	// ErrConfiguration means one or more relay configuration values are empty.
	ErrConfiguration = errors.New("contact: relay configuration incomplete")

	// ErrBusy is returned when a submission arrives while another one from
	// the same form is still pending.
	ErrBusy = errors.New("contact: submission already in flight")
)

// DeliveryError wraps whatever the relay returned.
type DeliveryError struct {
	Cause error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("contact: delivery failed: %v", e.Cause)
}

func (e *DeliveryError) Unwrap() error {
	return e.Cause
}
