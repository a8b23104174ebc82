package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want []string
	}{
		{
			name: "message only",
			err:  New(ErrSSH, "can't reach pi.local", ""),
			want: []string{"can't reach pi.local"},
		},
		{
			name: "with suggestion",
			err:  New(ErrConfig, "key file missing", "check the path given to --key"),
			want: []string{"key file missing", "check the path given to --key"},
		},
		{
			name: "with cause",
			err:  Wrap(fmt.Errorf("dial tcp: timeout"), ErrSSH, "connection failed"),
			want: []string{"connection failed", "dial tcp: timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, fragment := range tt.want {
				assert.Contains(t, msg, fragment)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Wrap(cause, ErrStore, "write failed")

	assert.True(t, stderrors.Is(err, cause))
}

func TestIsCode(t *testing.T) {
	err := New(ErrSSH, "handshake failed", "")

	assert.True(t, IsCode(err, ErrSSH))
	assert.False(t, IsCode(err, ErrStore))
	assert.False(t, IsCode(nil, ErrSSH))
	assert.False(t, IsCode(stderrors.New("plain"), ErrSSH))
}

func TestIsCodeThroughWrapping(t *testing.T) {
	inner := New(ErrSSH, "session dropped", "")
	outer := fmt.Errorf("cycle aborted: %w", inner)

	assert.True(t, IsCode(outer, ErrSSH))
}
