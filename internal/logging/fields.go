package logging

import "log/slog"

// Common field names for consistent logging across the relay.
const (
	FieldComponent = "component"
	FieldSignalID  = "signal_id"
	FieldTicker    = "ticker"
	FieldBackend   = "backend"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldError     = "error"
)

// Component returns a slog attribute naming the emitting component.
func Component(name string) slog.Attr {
	return slog.String(FieldComponent, name)
}

// SignalID returns a slog attribute for a signal record ID.
func SignalID(id string) slog.Attr {
	return slog.String(FieldSignalID, id)
}

// Ticker returns a slog attribute for an instrument symbol.
func Ticker(symbol string) slog.Attr {
	return slog.String(FieldTicker, symbol)
}

// Backend returns a slog attribute for the storage backend in use.
func Backend(name string) slog.Attr {
	return slog.String(FieldBackend, name)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
