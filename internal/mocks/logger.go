package mocks

import (
	"github.com/stretchr/testify/mock"

	"briefsky.app/internal/ports"
)

// Logger is a testify mock of ports.Logger. Fields are passed as a single
// slice argument so expectations take exactly two matchers.
type Logger struct {
	mock.Mock
}

// NewLogger creates a Logger mock that asserts its expectations on cleanup
func NewLogger(t interface {
	mock.TestingT
	Cleanup(func())
}) *Logger {
	m := &Logger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// Quiet allows any log call
func (m *Logger) Quiet() *Logger {
	for _, level := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(level, mock.Anything, mock.Anything).Maybe()
	}
	return m
}

func (m *Logger) Debug(msg string, fields ...ports.Field) { m.Called(msg, fields) }
func (m *Logger) Info(msg string, fields ...ports.Field)  { m.Called(msg, fields) }
func (m *Logger) Warn(msg string, fields ...ports.Field)  { m.Called(msg, fields) }
func (m *Logger) Error(msg string, fields ...ports.Field) { m.Called(msg, fields) }
