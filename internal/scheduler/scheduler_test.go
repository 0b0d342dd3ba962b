package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAfter_Fires(t *testing.T) {
	done := make(chan struct{})
	After(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not fire")
	}
}

func TestAfter_Stop(t *testing.T) {
	var fired atomic.Bool
	task := After(time.Hour, func() { fired.Store(true) })

	assert.True(t, task.Stop())
	assert.False(t, task.Stop())
	assert.False(t, fired.Load())

	var nilTask *Task
	assert.False(t, nilTask.Stop())
}

func TestGroup_FiresAndForgets(t *testing.T) {
	g := NewGroup()
	defer g.Close()

	done := make(chan struct{})
	g.After(5*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not fire")
	}
	require.Eventually(t, func() bool { return g.Pending() == 0 }, time.Second, time.Millisecond)
}

func TestGroup_CloseCancelsPending(t *testing.T) {
	g := NewGroup()

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		g.After(time.Hour, func() { fired.Add(1) })
	}

	assert.Equal(t, 5, g.Pending())
	assert.Equal(t, 5, g.Close())
	assert.Equal(t, 0, g.Close())
	assert.Nil(t, g.After(time.Millisecond, func() { fired.Add(1) }))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestGroup_CloseWaitsForRunningTask(t *testing.T) {
	g := NewGroup()

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	g.After(time.Millisecond, func() {
		close(started)
		<-release
		finished.Store(true)
	})

	<-started
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()

	g.Close()
	assert.True(t, finished.Load())
}
