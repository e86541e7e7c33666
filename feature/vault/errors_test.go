package vault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{"Presign", KindPresign, "presign_error"},
		{"Metadata", KindMetadata, "metadata_error"},
		{"Write", KindWrite, "write_error"},
		{"NotFound", KindNotFound, "not_found"},
		{"Unknown", KindUnknown, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestError_Message(t *testing.T) {
	cause := errors.New("AccessDenied: request signature mismatch")

	err := newError(KindPresign, "failed to generate upload url", cause)
	assert.Equal(t, "[presign_error] failed to generate upload url", err.Error())
	// the cause stays reachable for logging but out of the rendered message
	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestError_FailedKeys(t *testing.T) {
	err := &Error{
		Kind:       KindWrite,
		Message:    "failed to delete folder contents",
		FailedKeys: []string{"t/a.txt", "t/b.txt"},
	}
	assert.Equal(t, "[write_error] failed to delete folder contents (2 keys failed)", err.Error())
}

func TestPredicates(t *testing.T) {
	presign := newError(KindPresign, "p", nil)
	metadata := newError(KindMetadata, "m", nil)
	write := newError(KindWrite, "w", nil)
	notFound := newError(KindNotFound, "n", nil)

	assert.True(t, IsPresign(presign))
	assert.True(t, IsMetadata(metadata))
	assert.True(t, IsWrite(write))
	assert.True(t, IsNotFound(notFound))

	assert.False(t, IsNotFound(write))
	assert.False(t, IsPresign(errors.New("plain")))
	assert.False(t, IsWrite(nil))
}

func TestPredicates_WrappedChain(t *testing.T) {
	inner := newError(KindNotFound, "folder does not exist", nil)
	wrapped := fmt.Errorf("delete failed: %w", inner)

	assert.True(t, IsNotFound(wrapped))
}
