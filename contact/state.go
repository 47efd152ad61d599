package contact

// Status is the phase of one contact-form interaction cycle.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the form's result state. Only the error variant carries a
// message; use the constructors below to build one.
type State struct {
	status  Status
	message string
}

func Idle() State      { return State{status: StatusIdle} }
func Pending() State   { return State{status: StatusPending} }
func Succeeded() State { return State{status: StatusSuccess} }

// Failed returns the error variant with a user-facing message.
func Failed(message string) State {
	return State{status: StatusError, message: message}
}

func (s State) Status() Status { return s.status }

// Message is the user-facing error text. Empty unless Status is StatusError.
func (s State) Message() string { return s.message }

func (s State) IsPending() bool { return s.status == StatusPending }

func (s State) Terminal() bool {
	return s.status == StatusSuccess || s.status == StatusError
}

func (s State) String() string {
	if s.status == StatusError {
		return "error(" + s.message + ")"
	}
	return s.status.String()
}
