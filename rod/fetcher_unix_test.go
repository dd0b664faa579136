//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/zealgen/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// processAlive sends signal 0, which checks for existence without delivering anything.
func processAlive(pid int) bool {
	return syscall.Kill(pid, syscall.Signal(0)) == nil
}

func TestFetcher_Close_KillsBrowserProcess(t *testing.T) {
	t.Parallel()

	fetcher, err := rod.NewFetcher()
	require.NoError(t, err)

	pid := fetcher.LauncherPID()
	require.NotZero(t, pid)
	require.True(t, processAlive(pid))

	require.NoError(t, fetcher.Close())

	assert.Eventually(t, func() bool { return !processAlive(pid) }, 2*time.Second, 50*time.Millisecond)
}

func TestBrowserManager_Recycle_KillsOldProcess(t *testing.T) {
	t.Parallel()

	manager, err := rod.NewBrowserManager(rod.WithRecycleAfter(1))
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })

	old := manager.LauncherPID()
	_, release := manager.Acquire()
	release()
	_, release = manager.Acquire()
	defer release()

	assert.Eventually(t, func() bool { return !processAlive(old) }, 2*time.Second, 50*time.Millisecond)
}
