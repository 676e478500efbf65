// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package resilience

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// HostBreakers keeps one CircuitBreaker per script host, created on first use.
type HostBreakers struct {
	mu        sync.Mutex
	threshold int
	cooldown  time.Duration
	opts      []Option
	byHost    map[string]*CircuitBreaker
}

func NewHostBreakers(threshold int, cooldown time.Duration, opts ...Option) *HostBreakers {
	return &HostBreakers{
		threshold: threshold,
		cooldown:  cooldown,
		opts:      opts,
		byHost:    make(map[string]*CircuitBreaker),
	}
}

// For returns the breaker for host. Hosts compare case-insensitively.
func (h *HostBreakers) For(host string) *CircuitBreaker {
	host = strings.ToLower(host)
	h.mu.Lock()
	defer h.mu.Unlock()
	cb, ok := h.byHost[host]
	if !ok {
		cb = NewCircuitBreaker(host, h.threshold, h.cooldown, h.opts...)
		h.byHost[host] = cb
	}
	return cb
}

// Open lists hosts whose breaker is currently open, sorted.
func (h *HostBreakers) Open() []string {
	h.mu.Lock()
	breakers := make(map[string]*CircuitBreaker, len(h.byHost))
	for host, cb := range h.byHost {
		breakers[host] = cb
	}
	h.mu.Unlock()

	var open []string
	for host, cb := range breakers {
		if cb.State() == StateOpen {
			open = append(open, host)
		}
	}
	sort.Strings(open)
	return open
}
