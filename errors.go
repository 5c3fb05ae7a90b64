package hxtag

import "errors"

// Sentinel errors for tag operations.
var (
	ErrMalformedOverride = errors.New("hxtag: malformed override")
	ErrUnknownSlot       = errors.New("hxtag: unknown slot")
	ErrUnknownKind       = errors.New("hxtag: unknown kind")
	ErrUnknownVariant    = errors.New("hxtag: unknown variant")
	ErrNotMounted        = errors.New("hxtag: tag not mounted")
	ErrInvalidEvent      = errors.New("hxtag: invalid event")
	ErrDecryptFailed     = errors.New("hxtag: reference decryption failed")
	ErrSignatureInvalid  = errors.New("hxtag: signature verification failed")
	ErrInvalidFormat     = errors.New("hxtag: invalid reference format")
)

// IsNotMounted checks if err is a not-mounted error.
func IsNotMounted(err error) bool {
	return errors.Is(err, ErrNotMounted)
}

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}

// IsBadRequest checks if err stems from a malformed client request.
func IsBadRequest(err error) bool {
	return IsDecryptionError(err) || errors.Is(err, ErrInvalidFormat) ||
		errors.Is(err, ErrInvalidEvent) || errors.Is(err, ErrUnknownSlot)
}
