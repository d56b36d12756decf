package gpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireSuccess(t *testing.T) {
	p := NewMockProvider(DefaultMockDevice())
	dev, err := Acquire(p, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.InitCalls)
	assert.Equal(t, "Mock GPU 24GB", dev.Info().Name)
	assert.Equal(t, uint64(24576), dev.Info().MemoryTotalMB)

	require.NoError(t, dev.Release())
	assert.Equal(t, 1, p.Shutdowns)
}

func TestAcquireInitFailureIsFatal(t *testing.T) {
	p := NewMockProvider(DefaultMockDevice())
	p.InitErr = errors.New("driver mismatch")
	dev, err := Acquire(p, 0)
	require.Error(t, err)
	assert.Nil(t, dev)
	assert.Contains(t, err.Error(), "driver mismatch")
	// Shutdown must not run when Init failed.
	assert.Equal(t, 0, p.Shutdowns)
}

func TestAcquireNoDevices(t *testing.T) {
	p := NewMockProvider() // zero devices
	dev, err := Acquire(p, 0)
	require.Error(t, err)
	assert.Nil(t, dev)
	assert.Contains(t, err.Error(), "no GPU devices")
	// Provider was initialized, so it must be shut back down.
	assert.Equal(t, 1, p.Shutdowns)
}

func TestAcquireIndexOutOfRange(t *testing.T) {
	p := NewMockProvider(DefaultMockDevice())
	dev, err := Acquire(p, 3)
	require.Error(t, err)
	assert.Nil(t, dev)
	assert.Equal(t, 1, p.Shutdowns)
}

func TestRefreshUpdatesUsedMemory(t *testing.T) {
	p := NewMockProvider(DefaultMockDevice())
	dev, err := Acquire(p, 0)
	require.NoError(t, err)

	p.Devices[0].MemoryUsedMB = 9001
	info, err := dev.Refresh()
	require.NoError(t, err)
	assert.Equal(t, uint64(9001), info.MemoryUsedMB)
	assert.Equal(t, uint64(9001), dev.Info().MemoryUsedMB)
}

func TestAcquireIsIdempotentAcrossRestarts(t *testing.T) {
	// Restarting with identical configuration reproduces the same result.
	for i := 0; i < 3; i++ {
		p := NewMockProvider(DefaultMockDevice())
		dev, err := Acquire(p, 0)
		require.NoError(t, err)
		assert.Equal(t, "GPU-mock-0000", dev.Info().UUID)
		require.NoError(t, dev.Release())
	}
}
