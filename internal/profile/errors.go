package profile

import "errors"

// SaveError is a store failure carrying a message fit for display.
type SaveError struct {
	Message string
	Err     error
}

func (e *SaveError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *SaveError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a local validation failure with the given reason.
func IsValidation(err error, reason Reason) bool {
	var ve *ValidationError
	return errors.As(err, &ve) && ve.Reason == reason
}

func saveErrorMessage(err error) string {
	var se *SaveError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return "Failed to save profile"
}
