package infrastructure

import (
	"context"
	"sync"

	"briefsky.app/internal/ports"
)

// SystemHealthChecker aggregates all health checks
type SystemHealthChecker struct {
	checkers map[string]ports.HealthChecker
}

// NewSystemHealthChecker creates a system health checker. Nil checkers are skipped.
func NewSystemHealthChecker(checkers map[string]ports.HealthChecker) *SystemHealthChecker {
	active := make(map[string]ports.HealthChecker, len(checkers))
	for name, checker := range checkers {
		if checker != nil {
			active[name] = checker
		}
	}
	return &SystemHealthChecker{checkers: active}
}

// CheckAll runs every check concurrently
func (s *SystemHealthChecker) CheckAll(ctx context.Context) map[string]ports.HealthStatus {
	var (
		mutex   sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]ports.HealthStatus, len(s.checkers))
	)

	for name, checker := range s.checkers {
		wg.Add(1)
		go func(name string, checker ports.HealthChecker) {
			defer wg.Done()
			status := checker.Check(ctx)

			mutex.Lock()
			results[name] = status
			mutex.Unlock()
		}(name, checker)
	}
	wg.Wait()

	return results
}

// Healthy reports whether every component is healthy
func Healthy(results map[string]ports.HealthStatus) bool {
	for _, status := range results {
		if status.Status != StatusHealthy {
			return false
		}
	}
	return true
}
