package qctx

import "sync"

var (
	muGlobal sync.RWMutex
	global   = Default
)

// Global returns a snapshot of the process-wide default context.
//
// Concurrency: reads are protected by a mutex, so Global is itself safe
// to call from many goroutines. The snapshot it returns is immutable, as
// with any Context. What is NOT defended against is another goroutine
// calling SetGlobal between the time a caller reads Global and the time
// it finishes using the snapshot in a long-running dispatch call — that
// race is the caller's responsibility to avoid: the context observed by
// a call is whatever was current at call entry, and concurrent mutation
// by other callers is a documented, undefended race.
func Global() Context {
	muGlobal.RLock()
	defer muGlobal.RUnlock()
	return global
}

// SetGlobal replaces the process-wide default context. Intended for
// script-friendly callers that configure the library once at startup and
// never touch qctx again; libraries and concurrent services should
// prefer threading an explicit Context through dispatch calls instead.
func SetGlobal(c Context) {
	muGlobal.Lock()
	defer muGlobal.Unlock()
	global = c
}
