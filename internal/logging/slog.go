package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyComponent = "component"
	KeyOperation = "operation"
	KeyMessageID = "message_id"
	KeyCategory  = "category"
	KeyAgent     = "agent"
	KeyAction    = "action"
	KeyStatus    = "status"
	KeyError     = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// New returns a text-handler logger writing to stderr at the given level.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// WithComponent returns a logger with the component attribute set.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String(KeyComponent, component))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// MessageID returns a slog attribute for a mailbox message identifier.
func MessageID(id string) slog.Attr {
	return slog.String(KeyMessageID, id)
}

// Category returns a slog attribute for a classification category.
func Category(category string) slog.Attr {
	return slog.String(KeyCategory, category)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from
// output, so Err(maybeNilErr) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeSender returns a hashed representation of a sender address for
// logging purposes. This allows correlation of log entries without exposing
// PII.
func AnonymizeSender(addr string) string {
	if addr == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(addr))
	return "sender:" + hex.EncodeToString(hash[:8])
}

// Sender returns a slog attribute with the anonymized sender address.
func Sender(addr string) slog.Attr {
	return slog.String("sender_hash", AnonymizeSender(addr))
}
