package signals

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
)

// sigChan is buffered to avoid missing signals delivered while no receiver is ready.
var sigChan = make(chan os.Signal, 1)

// Handler is a function called when an interrupt is received.
type Handler func()

// HandlerID identifies a registered handler so it can be removed again.
type HandlerID int

type registeredHandler struct {
	id HandlerID
	fn Handler
}

var (
	mu           sync.RWMutex
	interrupters []registeredHandler
	nextID       HandlerID
	stopOnce     sync.Once
)

// RegisterInterruptHandler registers a handler called on SIGINT/SIGTERM.
// Nil handlers are ignored and return -1.
func RegisterInterruptHandler(f Handler) HandlerID {
	if f == nil {
		return -1
	}
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	interrupters = append(interrupters, registeredHandler{id: id, fn: f})
	return id
}

// DeregisterInterruptHandler removes a previously registered handler by ID.
func DeregisterInterruptHandler(id HandlerID) {
	mu.Lock()
	defer mu.Unlock()
	for i, h := range interrupters {
		if h.id == id {
			interrupters = append(interrupters[:i], interrupters[i+1:]...)
			return
		}
	}
}

func init() {
	signal.Notify(sigChan, interruptSignals...)
}

// Handle dispatches interrupts to the registered handlers until StopHandle
// is called.
func Handle() {
	for sig := range sigChan {
		if isInterrupt(sig) {
			handleInterrupted()
		}
	}
}

func isInterrupt(sig os.Signal) bool {
	for _, s := range interruptSignals {
		if sig == s {
			return true
		}
	}
	return false
}

func handleInterrupted() {
	mu.RLock()
	snapshot := make([]registeredHandler, len(interrupters))
	copy(snapshot, interrupters)
	mu.RUnlock()
	for _, h := range snapshot {
		func() {
			defer func() {
				if r := recover(); r != nil {
					// The chat owns stdout; panics go to stderr.
					fmt.Fprintf(os.Stderr, "signals: panic in interrupt handler: %v\n", r)
				}
			}()
			h.fn()
		}()
	}
}

// StopHandle closes the signal channel, causing Handle() to return.
// Safe to call multiple times.
func StopHandle() {
	stopOnce.Do(func() {
		signal.Stop(sigChan)
		close(sigChan)
	})
}
