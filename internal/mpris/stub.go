//go:build !linux

package mpris

import (
	"context"

	"github.com/rs/zerolog"
)

// Client finds no players on non-Linux platforms.
type Client struct{}

// Connect returns a client without players on non-Linux platforms.
func Connect(_ zerolog.Logger) (*Client, error) {
	return &Client{}, nil
}

// Players returns nothing on non-Linux platforms.
func (c *Client) Players(_ context.Context) ([]string, error) {
	return nil, nil
}

// Status always fails on non-Linux platforms.
func (c *Client) Status(_ context.Context, _ string) (Status, error) {
	return Status{}, ErrNoPlayer
}

// Active always fails on non-Linux platforms.
func (c *Client) Active(_ context.Context) (Status, error) {
	return Status{}, ErrNoPlayer
}

// Close is a no-op on non-Linux platforms.
func (c *Client) Close() error {
	return nil
}
