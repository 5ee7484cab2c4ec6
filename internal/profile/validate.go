package profile

import (
	"strings"
	"unicode/utf8"
)

// MinHandleLength is the shortest accepted handle, counted after trimming.
const MinHandleLength = 3

// Reason classifies a local validation failure.
type Reason int

const (
	ReasonTooShort Reason = iota + 1
	ReasonNoAvatarSelected
)

func (r Reason) String() string {
	switch r {
	case ReasonTooShort:
		return "too_short"
	case ReasonNoAvatarSelected:
		return "no_avatar_selected"
	default:
		return "unknown"
	}
}

// ValidationError is a field-level failure that never reaches the store.
type ValidationError struct {
	Reason Reason
}

func (e *ValidationError) Error() string {
	switch e.Reason {
	case ReasonTooShort:
		return "Handle must be at least 3 characters"
	case ReasonNoAvatarSelected:
		return "Please select an avatar before saving"
	default:
		return "invalid profile"
	}
}

// ValidateHandle accepts handles whose trimmed length is at least MinHandleLength.
func ValidateHandle(handle string) error {
	if utf8.RuneCountInString(strings.TrimSpace(handle)) < MinHandleLength {
		return &ValidationError{Reason: ReasonTooShort}
	}
	return nil
}

// ValidateAvatar rejects the unset selection.
func ValidateAvatar(id AvatarID) error {
	if id == NoAvatar {
		return &ValidationError{Reason: ReasonNoAvatarSelected}
	}
	return nil
}
