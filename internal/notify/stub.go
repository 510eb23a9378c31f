//go:build !linux

package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// stubNotifier is a no-op notifier for non-Linux platforms.
type stubNotifier struct{}

// New returns a no-op notifier on non-Linux platforms.
// Desktop notifications are only supported on Linux via D-Bus.
func New(_ string, _ zerolog.Logger) (Service, error) {
	return &stubNotifier{}, nil
}

func (s *stubNotifier) Notify(_ context.Context, _ Notification) (ID, error) {
	return 0, nil
}

func (s *stubNotifier) Close(_ context.Context, _ ID) error {
	return nil
}

func (s *stubNotifier) WatchClose(_ context.Context, _ ID) (<-chan CloseReason, error) {
	ch := make(chan CloseReason)
	close(ch)
	return ch, nil
}

func (s *stubNotifier) Capabilities(_ context.Context) ([]string, error) {
	return nil, nil
}

func (s *stubNotifier) ServerInfo(_ context.Context) (ServerInfo, error) {
	return ServerInfo{}, nil
}

func (s *stubNotifier) Shutdown() error {
	return nil
}
