// Package notify provides desktop notifications via D-Bus.
package notify

import (
	"context"
	"errors"
)

// ID is the server-assigned identifier of a live notification.
// Servers never hand out 0, so 0 means "no notification".
type ID uint32

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

func (u Urgency) String() string {
	switch u {
	case UrgencyLow:
		return "low"
	case UrgencyNormal:
		return "normal"
	case UrgencyCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Path to image file or icon name (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID ID      // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
	Category   string  // "category" hint, e.g. "osd" (optional)
	Value      *int32  // "value" hint, progress in 0-100 (optional)
}

// CloseReason tells why a notification went away.
type CloseReason uint32

const (
	// ReasonNotShown is reported locally when nothing was on screen to begin with.
	ReasonNotShown CloseReason = iota
	ReasonExpired
	ReasonDismissedByUser
	ReasonClosedByCall
	ReasonUndefined
)

func (r CloseReason) String() string {
	switch r {
	case ReasonNotShown:
		return "NotShown"
	case ReasonExpired:
		return "Expired"
	case ReasonDismissedByUser:
		return "DismissedByUser"
	case ReasonClosedByCall:
		return "ClosedByCall"
	case ReasonUndefined:
		return "Undefined"
	default:
		return "Other"
	}
}

// Notifier sends desktop notifications and reports when they are closed.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are unavailable.
	Notify(ctx context.Context, n Notification) (ID, error)
	// Close closes a notification by ID.
	Close(ctx context.Context, id ID) error
	// WatchClose returns a channel that receives the close reason of id once.
	// The watch is dropped when ctx is done.
	WatchClose(ctx context.Context, id ID) (<-chan CloseReason, error)
}

// Error kinds, matched with errors.Is.
var (
	ErrConnection = errors.New("cannot reach the notification service")
	ErrShow       = errors.New("failed to show the notification")
	ErrClose      = errors.New("failed to close the notification")
	ErrWatch      = errors.New("failed to watch for the notification closing")
	ErrQuery      = errors.New("failed to query the notification server")
)

// Error is returned by Notifier implementations and by osd sessions.
type Error struct {
	Kind error // one of the Err* kinds above
	Err  error // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

// Is reports whether target is the error kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap tags err with kind unless it already carries one.
func Wrap(kind, err error) error {
	if err == nil {
		return nil
	}
	var ne *Error
	if errors.As(err, &ne) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

// ServerInfo is what GetServerInformation reports.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// Service is a Notifier bound to a connection that must be shut down.
type Service interface {
	Notifier
	// Capabilities lists the optional features the server implements.
	Capabilities(ctx context.Context) ([]string, error)
	// ServerInfo describes the running notification server.
	ServerInfo(ctx context.Context) (ServerInfo, error)
	// Shutdown stops close delivery and releases the connection.
	Shutdown() error
}
