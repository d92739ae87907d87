package facebook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   *GraphError
		want error
	}{
		{"expired token", &GraphError{Code: 190, Message: "Error validating access token"}, ErrTokenExpired},
		{"unsupported format subcode", &GraphError{Code: 352, Subcode: 1363030, Message: "bad video"}, ErrUnsupportedFormat},
		{"file too large subcode", &GraphError{Code: 352, Subcode: 1363019, Message: "too big"}, ErrFileTooLarge},
		{"permission code", &GraphError{Code: 200, Message: "requires pages_manage_posts"}, ErrPermission},
		{"permission in message", &GraphError{Code: 100, Message: "Missing Permission for this action"}, ErrPermission},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.in), tt.want)
		})
	}
}

func TestTranslateErrorUnknownCode(t *testing.T) {
	ge := &GraphError{Code: 1, Message: "unknown"}
	err := translateError(ge)

	assert.NotErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrPermission)
	assert.Contains(t, err.Error(), "unknown")
}
