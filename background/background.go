// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package background - run long lived processes until told to stop
package background

import (
	"sync"
)

// Process - anything that runs until shutdown is closed
type Process interface {
	Run(args interface{}, shutdown <-chan struct{})
}

// Processes - list of processes to start
type Processes []Process

// T - handle to a started set of processes
type T struct {
	sync.Mutex
	shutdown []chan struct{}
	finished []chan struct{}
	stopped  bool
}

// Start - start each process in its own goroutine
func Start(processes Processes, args interface{}) *T {
	t := &T{
		shutdown: make([]chan struct{}, len(processes)),
		finished: make([]chan struct{}, len(processes)),
	}

	for i, p := range processes {
		shutdown := make(chan struct{})
		finished := make(chan struct{})
		t.shutdown[i] = shutdown
		t.finished[i] = finished

		go func(p Process) {
			defer close(finished)
			p.Run(args, shutdown)
		}(p)
	}
	return t
}

// Stop - signal every process then wait for all to return
//
// stopping twice is harmless
func (t *T) Stop() {
	t.Lock()
	defer t.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true

	for _, shutdown := range t.shutdown {
		close(shutdown)
	}
	for _, finished := range t.finished {
		<-finished
	}
}
