// Package servicechecker provides checkers for the compile service and the
// severity display attached to it.
package servicechecker

import (
	"context"
	"fmt"
	"time"

	"github.com/hako/durafmt"

	"github.com/smykla-skalski/codemate/internal/doctor"
	"github.com/smykla-skalski/codemate/internal/service"
)

const (
	healthName   = "Backend reachable"
	hardwareName = "Severity display"
)

// HealthChecker probes the service health endpoint.
type HealthChecker struct {
	client  service.Client
	baseURL string
	now     func() time.Time
}

// NewHealthChecker creates a health checker for the service at baseURL.
func NewHealthChecker(client service.Client, baseURL string) *HealthChecker {
	return &HealthChecker{client: client, baseURL: baseURL, now: time.Now}
}

// Name returns the name of the check
func (*HealthChecker) Name() string {
	return healthName
}

// Category returns the category of the check
func (*HealthChecker) Category() doctor.Category {
	return doctor.CategoryService
}

// Check calls the health endpoint and reports the round trip time.
func (c *HealthChecker) Check(ctx context.Context) doctor.CheckResult {
	start := c.now()

	resp, err := c.client.Health(ctx)
	if err != nil {
		return failure(healthName, c.baseURL, err)
	}

	elapsed := durafmt.Parse(c.now().Sub(start).Round(time.Millisecond)).LimitFirstN(1)

	result := doctor.Pass(healthName, fmt.Sprintf("%s responded in %s", c.baseURL, elapsed))
	if resp.Message != "" {
		result = result.WithDetails(resp.Message)
	}

	return result
}

// HardwareChecker reports whether the severity display is attached.
type HardwareChecker struct {
	client  service.Client
	baseURL string
}

// NewHardwareChecker creates a severity display checker.
func NewHardwareChecker(client service.Client, baseURL string) *HardwareChecker {
	return &HardwareChecker{client: client, baseURL: baseURL}
}

// Name returns the name of the check
func (*HardwareChecker) Name() string {
	return hardwareName
}

// Category returns the category of the check
func (*HardwareChecker) Category() doctor.Category {
	return doctor.CategoryService
}

// Check asks the service for the device status. An unreachable service skips
// the check since HealthChecker already reports it.
func (c *HardwareChecker) Check(ctx context.Context) doctor.CheckResult {
	status, err := c.client.HardwareStatus(ctx)
	if err != nil {
		if service.IsTransport(err) {
			return doctor.Skip(hardwareName, "Backend unreachable")
		}

		return doctor.FailWarning(hardwareName, "Status unavailable").WithDetails(err.Error())
	}

	if !status.Connected {
		return doctor.FailWarning(hardwareName, "Not connected").
			WithDetails("The severity meter is shown on screen only")
	}

	msg := "Connected"
	if status.Port != "" {
		msg = "Connected on " + status.Port
	}

	return doctor.Pass(hardwareName, msg)
}

func failure(name, baseURL string, err error) doctor.CheckResult {
	if service.IsTransport(err) {
		return doctor.FailError(name, "Cannot reach "+baseURL).
			WithDetails(
				err.Error(),
				"Start the backend server or set service.base_url",
			)
	}

	msg := "Service error"
	if remote, ok := service.AsRemote(err); ok && remote.Message != "" {
		msg = remote.Message
	}

	return doctor.FailError(name, msg).WithDetails(err.Error())
}
