package platform

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireSingleInstance_SecondLaunchActivatesFirst(t *testing.T) {
	name := "tomodoro-test-" + t.Name()
	activated := make(chan struct{}, 1)

	guard, err := AcquireSingleInstance(name, func() { activated <- struct{}{} })
	require.NoError(t, err)
	t.Cleanup(func() { _ = guard.Release() })

	second, err := AcquireSingleInstance(name, nil)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Nil(t, second)

	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("first instance was not activated")
	}
}

func TestAcquireSingleInstance_ForeignListenerIsNotAnInstance(t *testing.T) {
	name := "tomodoro-test-" + t.Name()
	listener, err := net.Listen("tcp", instanceAddress(name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	guard, err := AcquireSingleInstance(name, nil)
	assert.Nil(t, guard)
	assert.ErrorIs(t, err, ErrInstanceUnreachable)
	assert.NotErrorIs(t, err, ErrAlreadyRunning)
}

func TestAcquireSingleInstance_ReleaseFreesLock(t *testing.T) {
	name := "tomodoro-test-" + t.Name()

	guard, err := AcquireSingleInstance(name, nil)
	require.NoError(t, err)
	require.NoError(t, guard.Release())

	again, err := AcquireSingleInstance(name, nil)
	require.NoError(t, err)
	assert.Equal(t, guard.Address(), again.Address())
	require.NoError(t, again.Release())
}

func TestPortFromNameIsStable(t *testing.T) {
	port := portFromName("tomodoro")
	assert.Equal(t, port, portFromName("tomodoro"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}
