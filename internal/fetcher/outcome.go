package fetcher

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrSummaryNotFound = errors.New("national summary not found")
)

// StatusError is a response status the fetcher cannot do anything with.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected http status %d", e.Status)
}

// TransientError wraps failures that may not recur on a later run: network
// errors, timeouts and server errors that outlasted the retry budget.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

type Kind int

const (
	Success Kind = iota
	NotFound
	Transient
	Permanent
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case NotFound:
		return "not_found"
	case Transient:
		return "transient"
	case Permanent:
		return "permanent"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Outcome is the classified result of fetching one report. Text is only set
// on Success, Cause is set for every other kind.
type Outcome struct {
	Kind  Kind
	Text  string
	Cause error
}

func (o Outcome) Succeeded() bool {
	return o.Kind == Success
}

func (o Outcome) String() string {
	if o.Kind == Success {
		return o.Kind.String()
	}
	return fmt.Sprintf("%s: %v", o.Kind, o.Cause)
}

func succeeded(text string) Outcome {
	return Outcome{Kind: Success, Text: text}
}

func notFound() Outcome {
	return Outcome{Kind: NotFound, Cause: ErrNotFound}
}

func transient(err error) Outcome {
	return Outcome{Kind: Transient, Cause: &TransientError{Err: err}}
}

func permanent(err error) Outcome {
	return Outcome{Kind: Permanent, Cause: err}
}
