//go:build integration

package serial_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mklimuk/z906/amp"
	"github.com/mklimuk/z906/serial"
)

// Needs an amplifier on the port named by Z906_PORT.
func TestAmplifier(t *testing.T) {
	name := os.Getenv("Z906_PORT")
	if name == "" {
		t.Skip("Z906_PORT not set")
	}
	port, err := serial.Open(name)
	require.NoError(t, err)
	defer func() { _ = port.Close() }()
	z := amp.New(port)
	ctx := context.Background()

	require.NoError(t, z.Refresh(ctx))
	assert.Equal(t, amp.StatusFrameLength, z.Status().Len())

	version, err := z.Request(ctx, amp.Version)
	assert.NoError(t, err)
	assert.Positive(t, version)

	_, err = z.MainSensor(ctx)
	assert.NoError(t, err)
}
