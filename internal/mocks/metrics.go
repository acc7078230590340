package mocks

import (
	"time"

	"github.com/stretchr/testify/mock"
)

// MetricsCollector is a testify mock of ports.MetricsCollector
type MetricsCollector struct {
	mock.Mock
}

// NewMetricsCollector creates a MetricsCollector mock that asserts its expectations on cleanup
func NewMetricsCollector(t interface {
	mock.TestingT
	Cleanup(func())
}) *MetricsCollector {
	m := &MetricsCollector{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MetricsCollector) RecordFetch(provider, outcome string, duration time.Duration) {
	m.Called(provider, outcome, duration)
}

func (m *MetricsCollector) RecordFallback(requested string) {
	m.Called(requested)
}

func (m *MetricsCollector) RecordSettingsSave(storage string) {
	m.Called(storage)
}
