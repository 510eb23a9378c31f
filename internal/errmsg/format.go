// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Notification operations
	OpNotificationShow  Op = "show the notification"
	OpNotificationClose Op = "close the notification"
	OpNotificationWatch Op = "watch the notification"
	OpNotifierConnect   Op = "connect to the notification service"

	// Battery
	OpBatteryRead    Op = "read the battery state"
	OpThresholdParse Op = "parse the battery threshold"

	// Bluetooth
	OpBluetoothRead Op = "list bluetooth devices"

	// Backlight
	OpBacklightOpen Op = "find the backlight"
	OpBacklightRead Op = "read the backlight brightness"

	// Volume
	OpPulseConnect Op = "connect to the pulseaudio server"
	OpSinkRead     Op = "read the default sink"

	// Media players
	OpPlayerFind Op = "find a media player"
	OpPlayerRead Op = "read the media player status"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
