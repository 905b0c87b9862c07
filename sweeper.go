// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package qtcache

import (
	"sync"
	"time"
)

// sweeper runs tick on a fixed interval in its own goroutine. start and stop
// are both idempotent: a second start never spawns a competing ticker, and
// stop on a never-started or already-stopped sweeper is a no-op. stop is
// synchronous: when it returns the goroutine is gone.
type sweeper struct {
	interval time.Duration
	tick     func()

	mu     sync.Mutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func newSweeper(interval time.Duration, tick func()) *sweeper {
	return &sweeper{interval: interval, tick: tick}
}

func (s *sweeper) start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		return
	}
	s.stopCh = make(chan struct{})
	s.wg.Add(1)
	go s.loop(s.stopCh)
}

func (s *sweeper) stop() {
	s.mu.Lock()
	ch := s.stopCh
	s.stopCh = nil
	s.mu.Unlock()
	if ch == nil {
		return
	}
	close(ch)
	s.wg.Wait()
}

func (s *sweeper) loop(stop <-chan struct{}) {
	defer s.wg.Done()
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			s.tick()
		case <-stop:
			return
		}
	}
}
