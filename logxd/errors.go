package logxd

import "errors"

// Error taxonomy carried in dispatcher responses, per the documented
// ASCII status-line contract ("OK" or "ERR|<code>|<message>").
var (
	ErrInvalidVersion = errors.New("INVALID_VERSION")
	ErrInvalidMagic   = errors.New("INVALID_MAGIC")
	ErrInvalidCmd     = errors.New("INVALID_CMD")
	ErrInvalidLevel   = errors.New("INVALID_LEVEL")
	ErrInvalidConfig  = errors.New("INVALID_CONFIG")
	ErrLoggerNotFound = errors.New("LOGGER_NOT_FOUND")
	ErrLoggerExists   = errors.New("LOGGER_EXISTS")
	ErrCreateFailed   = errors.New("CREATE_FAILED")
	ErrDispatchFailed = errors.New("DISPATCH_FAILED")
)

// errorCode maps a sentinel (or wrapped) error to its wire-level code,
// defaulting to DISPATCH_FAILED for anything unrecognized. A malformed
// payload_len has no dedicated taxonomy entry; it is reported as
// INVALID_CMD, the closest protocol-level error.
func errorCode(err error) string {
	if errors.Is(err, ErrInvalidPayloadLen) {
		return ErrInvalidCmd.Error()
	}
	for _, sentinel := range []error{
		ErrInvalidVersion, ErrInvalidMagic, ErrInvalidCmd, ErrInvalidLevel,
		ErrInvalidConfig, ErrLoggerNotFound, ErrLoggerExists, ErrCreateFailed,
		ErrDispatchFailed,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ErrDispatchFailed.Error()
}
