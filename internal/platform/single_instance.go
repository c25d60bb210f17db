package platform

import (
	"bufio"
	"errors"
	"fmt"
	"hash/fnv"
	"net"
	"strings"
	"sync"
	"time"
)

var (
	// ErrAlreadyRunning indicates another instance already holds the lock.
	ErrAlreadyRunning = errors.New("instance already running")
	// ErrInstanceUnreachable indicates the lock port is taken but nothing on
	// it acknowledged the activation request.
	ErrInstanceUnreachable = errors.New("lock port in use but no instance answered")
)

const (
	activateMessage = "activate"
	ackMessage      = "ok"
	signalTimeout   = time.Second
)

// InstanceGuard holds the single-instance lock and accepts activation
// requests from later launches.
type InstanceGuard struct {
	listener net.Listener
	address  string
	wg       sync.WaitGroup
}

// AcquireSingleInstance binds a localhost port derived from appName. When
// another instance holds it, that instance is asked to activate and
// ErrAlreadyRunning is returned. If the port is held by something that does
// not acknowledge the request, ErrInstanceUnreachable is returned instead.
// onActivate may be nil.
func AcquireSingleInstance(appName string, onActivate func()) (*InstanceGuard, error) {
	address := instanceAddress(appName)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		if signalErr := signalActivate(address); signalErr != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInstanceUnreachable, address, signalErr)
		}
		return nil, ErrAlreadyRunning
	}

	guard := &InstanceGuard{listener: listener, address: address}
	guard.wg.Add(1)
	go guard.serve(onActivate)
	return guard, nil
}

// Release frees the single instance lock.
func (guard *InstanceGuard) Release() error {
	if guard == nil || guard.listener == nil {
		return nil
	}
	err := guard.listener.Close()
	guard.wg.Wait()
	return err
}

// Address returns the bound address.
func (guard *InstanceGuard) Address() string {
	if guard == nil {
		return ""
	}
	return guard.address
}

func (guard *InstanceGuard) serve(onActivate func()) {
	defer guard.wg.Done()
	for {
		conn, err := guard.listener.Accept()
		if err != nil {
			return
		}
		_ = conn.SetDeadline(time.Now().Add(signalTimeout))
		line, _ := bufio.NewReader(conn).ReadString('\n')
		if strings.TrimSpace(line) != activateMessage {
			conn.Close()
			continue
		}
		_, _ = fmt.Fprintln(conn, ackMessage)
		conn.Close()
		if onActivate != nil {
			onActivate()
		}
	}
}

func signalActivate(address string) error {
	conn, err := net.DialTimeout("tcp", address, signalTimeout)
	if err != nil {
		return err
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(signalTimeout))
	if _, err := fmt.Fprintln(conn, activateMessage); err != nil {
		return err
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading acknowledgement: %w", err)
	}
	if strings.TrimSpace(reply) != ackMessage {
		return fmt.Errorf("unexpected reply %q", strings.TrimSpace(reply))
	}
	return nil
}

func instanceAddress(appName string) string {
	return fmt.Sprintf("127.0.0.1:%d", portFromName(appName))
}

func portFromName(appName string) int {
	const (
		minPort = 20000
		maxPort = 39999
	)
	hash := fnv.New32a()
	_, _ = hash.Write([]byte(appName))
	rangeSize := maxPort - minPort + 1
	return minPort + int(hash.Sum32()%uint32(rangeSize))
}
