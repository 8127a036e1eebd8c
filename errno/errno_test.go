package errno

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrnoError(t *testing.T) {
	tests := []struct {
		name     string
		input    Errno
		expected string
	}{
		{name: "success", input: ESUCCESS, expected: "ESUCCESS"},
		{name: "bad descriptor", input: EBADF, expected: "EBADF"},
		{name: "interrupted", input: EINTR, expected: "EINTR"},
		{name: "last known code", input: ESPIPE, expected: "ESPIPE"},
		{name: "out of range", input: Errno(87), expected: "errno(87)"},
	}

	for _, tt := range tests {
		tc := tt

		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.input.Error())
			require.Equal(t, tc.expected, tc.input.Name())
		})
	}
}

func TestErrnoIsError(t *testing.T) {
	var err error = EFAULT
	require.EqualError(t, err, "EFAULT")
}
