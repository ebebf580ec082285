package mocks

import (
	"context"

	"postsweeper/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSweepService struct {
	mock.Mock
}

func (m *MockSweepService) Run(ctx context.Context) model.SweepResult {
	args := m.Called(ctx)
	return args.Get(0).(model.SweepResult)
}
