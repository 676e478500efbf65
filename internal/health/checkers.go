// SPDX-License-Identifier: MIT

package health

import (
	"context"
)

// PingChecker wraps a ping function. A failing optional component is reported as
// degraded instead of unhealthy.
type PingChecker struct {
	name     string
	ping     func(ctx context.Context) error
	optional bool
}

func NewPingChecker(name string, ping func(ctx context.Context) error, optional bool) *PingChecker {
	return &PingChecker{name: name, ping: ping, optional: optional}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if c.ping == nil {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}
	if err := c.ping(ctx); err != nil {
		status := StatusUnhealthy
		if c.optional {
			status = StatusDegraded
		}
		return CheckResult{Status: status, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy}
}

// CountChecker is unhealthy while count reports zero, e.g. an empty media catalog.
type CountChecker struct {
	name  string
	what  string
	count func() int
}

func NewCountChecker(name, what string, count func() int) *CountChecker {
	return &CountChecker{name: name, what: what, count: count}
}

func (c *CountChecker) Name() string { return c.name }

func (c *CountChecker) Check(context.Context) CheckResult {
	if c.count() == 0 {
		return CheckResult{Status: StatusUnhealthy, Message: "no " + c.what + " loaded"}
	}
	return CheckResult{Status: StatusHealthy}
}
