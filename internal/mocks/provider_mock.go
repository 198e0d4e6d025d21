package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fabula-server/internal/ai"
)

// MockProvider is a mock type for the ai.Provider type
type MockProvider struct {
	mock.Mock
}

// GenerateText provides a mock function with given fields: ctx, prompt, params
func (_m *MockProvider) GenerateText(ctx context.Context, prompt string, params ai.Params) (*ai.Result, error) {
	ret := _m.Called(ctx, prompt, params)

	var r0 *ai.Result
	if rf, ok := ret.Get(0).(func(context.Context, string, ai.Params) *ai.Result); ok {
		r0 = rf(ctx, prompt, params)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*ai.Result)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, ai.Params) error); ok {
		r1 = rf(ctx, prompt, params)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// GenerateTextStream provides a mock function with given fields: ctx, prompt, params
func (_m *MockProvider) GenerateTextStream(ctx context.Context, prompt string, params ai.Params) (<-chan ai.Fragment, error) {
	ret := _m.Called(ctx, prompt, params)

	var r0 <-chan ai.Fragment
	if rf, ok := ret.Get(0).(func(context.Context, string, ai.Params) <-chan ai.Fragment); ok {
		r0 = rf(ctx, prompt, params)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(<-chan ai.Fragment)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, ai.Params) error); ok {
		r1 = rf(ctx, prompt, params)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// IsAvailable provides a mock function with given fields: ctx
func (_m *MockProvider) IsAvailable(ctx context.Context) bool {
	ret := _m.Called(ctx)

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context) bool); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Bool(0)
	}

	return r0
}

// EstimateTokens provides a mock function with given fields: text
func (_m *MockProvider) EstimateTokens(text string) int {
	ret := _m.Called(text)

	var r0 int
	if rf, ok := ret.Get(0).(func(string) int); ok {
		r0 = rf(text)
	} else {
		r0 = ret.Int(0)
	}

	return r0
}

// Info provides a mock function with no fields
func (_m *MockProvider) Info() ai.ModelInfo {
	ret := _m.Called()

	var r0 ai.ModelInfo
	if rf, ok := ret.Get(0).(func() ai.ModelInfo); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(ai.ModelInfo)
	}

	return r0
}

// NewMockProvider creates a new instance of MockProvider. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockProvider(t interface {
	mock.TestingT
	Cleanup(func())
	Helper()
}) *MockProvider {
	m := &MockProvider{}
	m.Mock.Test(t)
	t.Helper()
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ ai.Provider = (*MockProvider)(nil)
