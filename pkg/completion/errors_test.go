package completion

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceErrorMessageFormats(t *testing.T) {
	cause := errors.New("connection refused")

	testCases := []struct {
		name     string
		err      *ServiceError
		expected string
	}{
		{
			name:     "message and cause",
			err:      NewNetworkError("dial failed", cause),
			expected: "network error: dial failed: connection refused",
		},
		{
			name:     "message only",
			err:      NewAuthError("invalid API key", nil),
			expected: "authentication error: invalid API key",
		},
		{
			name:     "cause only",
			err:      &ServiceError{Kind: KindRemote, Cause: cause},
			expected: "service error: connection refused",
		},
		{
			name:     "empty response",
			err:      NewEmptyResponseError("no candidates returned"),
			expected: "empty response: no candidates returned",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestServiceErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewRemoteError("bad status", cause)

	assert.ErrorIs(t, err, cause)
}

func TestClassificationThroughWrapping(t *testing.T) {
	err := NewNetworkError("timeout", nil)
	wrapped := errors.Wrap(err, "completing conversation")

	serviceErr, ok := AsServiceError(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNetwork, serviceErr.Kind)

	assert.True(t, IsNetworkError(wrapped))
	assert.False(t, IsAuthError(wrapped))
	assert.False(t, IsRemoteError(wrapped))
	assert.False(t, IsEmptyResponseError(wrapped))
}

func TestKindOfPlainError(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, IsNetworkError(errors.New("plain")))
}

func TestKindHelpers(t *testing.T) {
	assert.True(t, IsAuthError(NewAuthError("nope", nil)))
	assert.True(t, IsRemoteError(NewRemoteError("500", nil)))
	assert.True(t, IsEmptyResponseError(NewEmptyResponseError("blank")))
}
