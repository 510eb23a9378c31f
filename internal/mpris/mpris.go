//go:build linux

package mpris

import (
	"context"
	"errors"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

// Client lists and reads players on the session bus.
type Client struct {
	conn *dbus.Conn
	log  zerolog.Logger
}

// Connect opens a private session bus connection.
func Connect(log zerolog.Logger) (*Client, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect to the session bus: %w", err)
	}
	return &Client{conn: conn, log: log.With().Str("component", "mpris").Logger()}, nil
}

// Players returns the bus names of every MPRIS player, sorted.
func (c *Client) Players(ctx context.Context) ([]string, error) {
	var names []string
	err := c.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names)
	if err != nil {
		return nil, err
	}
	return playerNames(names), nil
}

// Status reads the player owning bus.
func (c *Client) Status(ctx context.Context, bus string) (Status, error) {
	var props map[string]dbus.Variant
	err := c.conn.Object(bus, objectPath).
		CallWithContext(ctx, "org.freedesktop.DBus.Properties.GetAll", 0, playerIface).
		Store(&props)
	if err != nil {
		return Status{}, err
	}
	return decodeStatus(bus, props), nil
}

// Active returns the first playing player, else the first player found.
// Players that fail to answer are skipped.
func (c *Client) Active(ctx context.Context) (Status, error) {
	names, err := c.Players(ctx)
	if err != nil {
		return Status{}, err
	}

	var players []Status
	var errs []error
	for _, name := range names {
		st, err := c.Status(ctx, name)
		if err != nil {
			c.log.Debug().Err(err).Str("player", name).Msg("player did not answer")
			errs = append(errs, err)
			continue
		}
		players = append(players, st)
	}

	st, ok := Pick(players)
	if !ok {
		return Status{}, errors.Join(append([]error{ErrNoPlayer}, errs...)...)
	}
	return st, nil
}

// Close releases the bus connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
