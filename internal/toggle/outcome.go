package toggle

import (
	"errors"
	"fmt"
)

// Kind discriminates the result of a SetAvailability call.
type Kind int

const (
	// Confirmed means the registry accepted the new value.
	Confirmed Kind = iota
	// RolledBack means persistence failed and the previous value was restored.
	RolledBack
	// NotFound means the item is not in the list.
	NotFound
	// Unauthenticated means no user is logged in.
	Unauthenticated
	// Malformed means the stored record failed validation.
	Malformed
	// InFlight means the in-flight guard dropped the call because another
	// toggle for the same item is still waiting on the registry.
	InFlight
)

func (k Kind) String() string {
	switch k {
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled_back"
	case NotFound:
		return "not_found"
	case Unauthenticated:
		return "unauthenticated"
	case Malformed:
		return "malformed"
	case InFlight:
		return "in_flight"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// FailureKind classifies why persistence failed.
type FailureKind int

const (
	// NetworkError means the request never produced an HTTP response.
	NetworkError FailureKind = iota
	// ServerError means the registry answered with an error status.
	ServerError
	// Timeout means the deadline expired before the registry answered.
	Timeout
)

func (k FailureKind) String() string {
	switch k {
	case NetworkError:
		return "network_error"
	case ServerError:
		return "server_error"
	case Timeout:
		return "timeout"
	default:
		return fmt.Sprintf("FailureKind(%d)", int(k))
	}
}

// Failure carries the reason of a rollback. Code is the HTTP status for
// ServerError and zero otherwise.
type Failure struct {
	Kind    FailureKind
	Code    int
	Message string
}

func (f Failure) String() string {
	switch f.Kind {
	case ServerError:
		if f.Message == "" {
			return fmt.Sprintf("server error %d", f.Code)
		}
		return fmt.Sprintf("server error %d: %s", f.Code, f.Message)
	case Timeout:
		return "request timed out"
	default:
		if f.Message == "" {
			return "network error"
		}
		return "network error: " + f.Message
	}
}

// Outcome is the single result of a SetAvailability call.
//
// Value is the availability stored in the list once the call settled. It is
// meaningful for Confirmed and RolledBack only. Failure is set for RolledBack.
// Detail explains Malformed.
type Outcome struct {
	Kind    Kind
	ItemID  int64
	Value   bool
	Failure *Failure
	Detail  string
}

var (
	// ErrNotFound matches a NotFound outcome.
	ErrNotFound = errors.New("item not in list")
	// ErrUnauthenticated matches an Unauthenticated outcome.
	ErrUnauthenticated = errors.New("not logged in")
	// ErrMalformed matches a Malformed outcome.
	ErrMalformed = errors.New("malformed item record")
	// ErrInFlight matches an InFlight outcome.
	ErrInFlight = errors.New("availability change already in progress")
)

// RollbackError is the error form of a RolledBack outcome.
type RollbackError struct {
	ItemID  int64
	Failure Failure
}

func (e *RollbackError) Error() string {
	return fmt.Sprintf("item %d: availability change rolled back: %s", e.ItemID, e.Failure)
}

// Err adapts the outcome for callers that prefer errors.Is/As. Confirmed
// yields nil.
func (o Outcome) Err() error {
	switch o.Kind {
	case Confirmed:
		return nil
	case RolledBack:
		f := Failure{Kind: NetworkError}
		if o.Failure != nil {
			f = *o.Failure
		}
		return &RollbackError{ItemID: o.ItemID, Failure: f}
	case NotFound:
		return fmt.Errorf("item %d: %w", o.ItemID, ErrNotFound)
	case Unauthenticated:
		return ErrUnauthenticated
	case Malformed:
		return fmt.Errorf("item %d: %w: %s", o.ItemID, ErrMalformed, o.Detail)
	case InFlight:
		return fmt.Errorf("item %d: %w", o.ItemID, ErrInFlight)
	default:
		return fmt.Errorf("unknown outcome %v", o.Kind)
	}
}

// Message is the user-facing notification for the outcome.
func (o Outcome) Message() string {
	switch o.Kind {
	case Confirmed:
		if o.Value {
			return "Item status updated to Available"
		}
		return "Item status updated to Unavailable"
	case RolledBack:
		reason := "unknown error"
		if o.Failure != nil {
			reason = o.Failure.String()
		}
		return "Failed to update item status (" + reason + ")"
	case NotFound:
		return "Item is no longer in this list"
	case Unauthenticated:
		return "User not logged in"
	case Malformed:
		return "Item record is malformed: " + o.Detail
	case InFlight:
		return "Still saving the previous change"
	default:
		return o.Kind.String()
	}
}
