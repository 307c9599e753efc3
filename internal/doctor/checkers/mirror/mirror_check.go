// Package mirrorchecker provides a checker for the live session mirror
// listen address.
package mirrorchecker

import (
	"context"
	"net"

	"github.com/smykla-skalski/codemate/internal/doctor"
)

const checkName = "Mirror address"

// Checker verifies the mirror address parses and is free to bind.
type Checker struct {
	address string
	enabled bool
}

// NewChecker creates a mirror address checker.
func NewChecker(address string, enabled bool) *Checker {
	return &Checker{address: address, enabled: enabled}
}

// Name returns the name of the check.
func (*Checker) Name() string {
	return checkName
}

// Category returns the category of the check.
func (*Checker) Category() doctor.Category {
	return doctor.CategoryMirror
}

// Check binds the address briefly and releases it.
func (c *Checker) Check(ctx context.Context) doctor.CheckResult {
	if !c.enabled {
		return doctor.Skip(checkName, "Mirror disabled")
	}

	host, _, err := net.SplitHostPort(c.address)
	if err != nil {
		return doctor.FailError(checkName, "Invalid address "+c.address).WithDetails(err.Error())
	}

	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", c.address)
	if err != nil {
		return doctor.FailError(checkName, "Cannot listen on "+c.address).
			WithDetails(err.Error(), "Pick another mirror.address")
	}

	_ = ln.Close()

	result := doctor.Pass(checkName, "Available at "+c.address)

	if ip := net.ParseIP(host); host == "" || (ip != nil && !ip.IsLoopback()) {
		result = doctor.FailWarning(checkName, "Listening beyond loopback on "+c.address).
			WithDetails("The mirror has no authentication; bind to 127.0.0.1 unless shared on purpose")
	}

	return result
}
