// Copyright (c) 2025, Oracle and/or its affiliates.
// Licensed under the Universal Permissive License v 1.0 as shown at https://oss.oracle.com/licenses/upl.

package probe

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"sync/atomic"
)

// floodRuntimeThreadCeiling is what the worker raises the Go runtime's
// own thread cap to, so the kernel limit is what actually gets probed.
// The runtime's default of 10000 would otherwise mask it.
const floodRuntimeThreadCeiling = 1 << 20

// Flood is the body of the hidden flood-worker command.  It pins one
// goroutine per OS thread and blocks it forever, printing the running
// count after every successful start.  It returns the count when the
// cap is reached; when the OS refuses a new thread the Go runtime
// aborts this process with a diagnostic on stderr, which the parent
// recovers.
//
// Only the spawning loop writes the counter, but it is atomic anyway:
// the count must be coherent if the runtime ever dumps goroutine state
// while aborting.
func Flood(w io.Writer, maxThreads int) int64 {
	debug.SetMaxThreads(floodRuntimeThreadCeiling)

	var count int64
	for maxThreads < 0 || atomic.LoadInt64(&count) < int64(maxThreads) {
		started := make(chan struct{})
		go func() {
			// Pinning makes this goroutine cost a real OS thread for
			// the life of the process.
			runtime.LockOSThread()
			close(started)
			select {}
		}()
		<-started

		fmt.Fprintf(w, "thread-count %d\n", atomic.AddInt64(&count, 1))
	}

	fmt.Fprintln(w, "flood-complete cap-reached")
	return atomic.LoadInt64(&count)
}
