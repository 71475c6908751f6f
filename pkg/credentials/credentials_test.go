package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	encoded := Encode("alice", "hunter2")

	user, pass, err := Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "hunter2", pass)
}

func TestDecodeRejectsInvalidBase64(t *testing.T) {
	_, _, err := Decode("not valid base64!!")
	assert.Error(t, err)
}
