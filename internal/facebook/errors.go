package facebook

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotLinked means no Facebook Page has been linked for the user.
	ErrNotLinked = errors.New("facebook account not linked")

	// ErrTokenExpired means the stored credentials can no longer be
	// refreshed; the admin has to go through the link flow again.
	ErrTokenExpired = errors.New("facebook token expired, re-link your account")

	// ErrPermission means the token lacks a permission the Page needs.
	ErrPermission = errors.New("facebook permission missing")

	// ErrUnsupportedFormat is returned for media Facebook will not accept.
	ErrUnsupportedFormat = errors.New("unsupported media format")

	// ErrFileTooLarge is returned when a video exceeds Facebook's limit.
	ErrFileTooLarge = errors.New("media file too large")
)

// GraphError is the error object Graph API responses carry.
type GraphError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Subcode int    `json:"error_subcode"`
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("graph error %d (subcode %d): %s", e.Code, e.Subcode, e.Message)
}

// translateError maps Graph error codes onto the sentinel errors callers
// branch on. Unknown codes come back wrapped so the message survives.
func translateError(ge *GraphError) error {
	switch {
	case ge.Code == 190:
		return fmt.Errorf("%w: %s", ErrTokenExpired, ge.Message)
	case ge.Subcode == 1363030:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ge.Message)
	case ge.Subcode == 1363019:
		return fmt.Errorf("%w: %s", ErrFileTooLarge, ge.Message)
	case ge.Code == 200:
		return fmt.Errorf("%w: %s", ErrPermission, ge.Message)
	case ge.Code == 100 && strings.Contains(strings.ToLower(ge.Message), "permission"):
		return fmt.Errorf("%w: %s", ErrPermission, ge.Message)
	}
	return ge
}
