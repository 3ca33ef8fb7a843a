package errcode

// Code is a stable, caller-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	NotReady      Code = "not_ready" // port absent or hardware busy on a non-blocking call
	NoData        Code = "no_data"   // receive attempted, nothing available
	Unsupported   Code = "unsupported"
	InvalidParams Code = "invalid_params"
	Timeout       Code = "timeout" // bounded waiter gave up

	UnknownTransport Code = "unknown_transport"

	Error Code = "error" // generic fallback
)

// E wraps a Code with the failing operation and an optional cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap returns an *E for op carrying code c. A nil cause is allowed.
func Wrap(c Code, op string, err error) error {
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	return Error
}

// Is reports whether err carries code c.
func Is(err error, c Code) bool { return Of(err) == c }
