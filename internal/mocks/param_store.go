package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// ParamStore is a testify mock of ports.ParamStore
type ParamStore struct {
	mock.Mock
}

// NewParamStore creates a ParamStore mock that asserts its expectations on cleanup
func NewParamStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *ParamStore {
	m := &ParamStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *ParamStore) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *ParamStore) Put(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}
