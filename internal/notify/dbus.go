//go:build linux

package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

const (
	dbusNotifyDest      = "org.freedesktop.Notifications"
	dbusNotifyPath      = "/org/freedesktop/Notifications"
	dbusNotifyInterface = "org.freedesktop.Notifications"

	memberNotificationClosed = "NotificationClosed"
	signalNotificationClosed = dbusNotifyInterface + "." + memberNotificationClosed

	signalBufferSize = 16
)

// dbusNotifier sends notifications via D-Bus.
type dbusNotifier struct {
	conn    *dbus.Conn
	obj     dbus.BusObject
	appName string
	log     zerolog.Logger
	closes  *closeRegistry

	subMu      sync.Mutex
	subscribed bool
	signals    chan *dbus.Signal
	done       chan struct{}
	stopOnce   sync.Once
}

// New connects to the session bus and returns a Service talking to the
// notification server there. appName is sent as app_name and desktop-entry.
func New(appName string, log zerolog.Logger) (Service, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, &Error{Kind: ErrConnection, Err: err}
	}

	n := &dbusNotifier{
		conn:    conn,
		obj:     conn.Object(dbusNotifyDest, dbusNotifyPath),
		appName: appName,
		log:     log.With().Str("component", "notify").Logger(),
		closes:  newCloseRegistry(recentClosesLimit),
		signals: make(chan *dbus.Signal, signalBufferSize),
		done:    make(chan struct{}),
	}

	// Subscribe before the first Notify so no close goes unseen.
	// WatchClose retries if this fails.
	if err := n.subscribe(); err != nil {
		n.log.Warn().Err(err).Msg("could not subscribe to NotificationClosed yet")
	}

	return n, nil
}

// Notify sends a notification via D-Bus.
func (n *dbusNotifier) Notify(ctx context.Context, notif Notification) (ID, error) {
	// Build hints map
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(notif.Urgency)),
		"desktop-entry": dbus.MakeVariant(n.appName),
	}
	if notif.Category != "" {
		hints["category"] = dbus.MakeVariant(notif.Category)
	}
	if notif.Value != nil {
		hints["value"] = dbus.MakeVariant(*notif.Value)
	}

	// D-Bus Notify method signature:
	// Notify(app_name, replaces_id, icon, summary, body, actions, hints, timeout) -> id
	call := n.obj.CallWithContext(
		ctx,
		dbusNotifyInterface+".Notify",
		0,                        // flags
		n.appName,                // app_name
		uint32(notif.ReplacesID), // replaces_id
		notif.Icon,               // app_icon (path or icon name)
		notif.Title,              // summary
		notif.Body,               // body
		[]string{},               // actions
		hints,                    // hints
		notif.Timeout,            // expire_timeout
	)
	if call.Err != nil {
		return 0, callError(ErrShow, call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, &Error{Kind: ErrShow, Err: err}
	}

	n.closes.forget(ID(id))
	n.log.Trace().Uint32("id", id).Uint32("replaces", uint32(notif.ReplacesID)).Msg("notification shown")
	return ID(id), nil
}

// Close closes a notification by ID.
// The server answers with a NotificationClosed signal.
func (n *dbusNotifier) Close(ctx context.Context, id ID) error {
	if id == 0 {
		return &Error{Kind: ErrClose, Err: errors.New("notification IDs must be greater than zero")}
	}
	call := n.obj.CallWithContext(ctx, dbusNotifyInterface+".CloseNotification", 0, uint32(id))
	if call.Err != nil {
		return callError(ErrClose, call.Err)
	}
	return nil
}

// WatchClose registers interest in the NotificationClosed signal for id.
func (n *dbusNotifier) WatchClose(ctx context.Context, id ID) (<-chan CloseReason, error) {
	if err := n.subscribe(); err != nil {
		return nil, &Error{Kind: ErrWatch, Err: err}
	}
	return n.closes.watch(ctx, id), nil
}

func (n *dbusNotifier) subscribe() error {
	n.subMu.Lock()
	defer n.subMu.Unlock()

	if n.subscribed {
		return nil
	}
	if err := n.conn.AddMatchSignal(
		dbus.WithMatchObjectPath(dbusNotifyPath),
		dbus.WithMatchInterface(dbusNotifyInterface),
		dbus.WithMatchMember(memberNotificationClosed),
	); err != nil {
		return err
	}
	n.conn.Signal(n.signals)
	go n.receiveSignals()
	n.subscribed = true
	return nil
}

func (n *dbusNotifier) receiveSignals() {
	for {
		select {
		case <-n.done:
			return
		case signal, ok := <-n.signals:
			if !ok {
				// connection went away
				n.closes.close()
				return
			}
			n.handleSignal(signal)
		}
	}
}

func (n *dbusNotifier) handleSignal(signal *dbus.Signal) {
	if signal.Name != signalNotificationClosed || len(signal.Body) < 2 {
		return
	}
	id, ok := signal.Body[0].(uint32)
	if !ok {
		n.log.Debug().Interface("body", signal.Body).Msg("malformed NotificationClosed signal")
		return
	}
	reason, ok := signal.Body[1].(uint32)
	if !ok {
		reason = uint32(ReasonUndefined)
	}
	n.log.Trace().Uint32("id", id).Stringer("reason", CloseReason(reason)).Msg("notification closed")
	n.closes.dispatch(ID(id), CloseReason(reason))
}

// Capabilities queries GetCapabilities.
func (n *dbusNotifier) Capabilities(ctx context.Context) ([]string, error) {
	call := n.obj.CallWithContext(ctx, dbusNotifyInterface+".GetCapabilities", 0)
	if call.Err != nil {
		return nil, callError(ErrQuery, call.Err)
	}
	var caps []string
	if err := call.Store(&caps); err != nil {
		return nil, &Error{Kind: ErrQuery, Err: err}
	}
	return caps, nil
}

// ServerInfo queries GetServerInformation.
func (n *dbusNotifier) ServerInfo(ctx context.Context) (ServerInfo, error) {
	var info ServerInfo
	call := n.obj.CallWithContext(ctx, dbusNotifyInterface+".GetServerInformation", 0)
	if call.Err != nil {
		return info, callError(ErrQuery, call.Err)
	}
	if err := call.Store(&info.Name, &info.Vendor, &info.Version, &info.SpecVersion); err != nil {
		return ServerInfo{}, &Error{Kind: ErrQuery, Err: err}
	}
	return info, nil
}

// Shutdown drops the signal subscription and closes the connection.
func (n *dbusNotifier) Shutdown() error {
	var err error
	n.stopOnce.Do(func() {
		close(n.done)
		n.closes.close()

		n.subMu.Lock()
		if n.subscribed {
			n.conn.RemoveSignal(n.signals)
			err = n.conn.RemoveMatchSignal(
				dbus.WithMatchObjectPath(dbusNotifyPath),
				dbus.WithMatchInterface(dbusNotifyInterface),
				dbus.WithMatchMember(memberNotificationClosed),
			)
		}
		n.subMu.Unlock()

		if cerr := n.conn.Close(); err == nil {
			err = cerr
		}
	})
	return err
}

// callError classifies a failed method call; a dead connection is reported
// as ErrConnection rather than as a rejected request.
func callError(kind, err error) error {
	if errors.Is(err, dbus.ErrClosed) {
		return &Error{Kind: ErrConnection, Err: err}
	}
	return &Error{Kind: kind, Err: err}
}
