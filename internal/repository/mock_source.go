package repository

import (
	"context"

	"github.com/stretchr/testify/mock"

	"go-admin-panel/internal/model"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Select(ctx context.Context, q Query) ([]model.Row, int, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]model.Row), args.Int(1), args.Error(2)
}

func (m *MockSource) Get(ctx context.Context, table string, id string) (model.Row, error) {
	args := m.Called(ctx, table, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Row), args.Error(1)
}

func (m *MockSource) Insert(ctx context.Context, table string, row model.Row) (model.Row, error) {
	args := m.Called(ctx, table, row)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Row), args.Error(1)
}

func (m *MockSource) Update(ctx context.Context, table string, id string, fields model.Row) (model.Row, error) {
	args := m.Called(ctx, table, id, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(model.Row), args.Error(1)
}

func (m *MockSource) Delete(ctx context.Context, table string, id string) error {
	args := m.Called(ctx, table, id)
	return args.Error(0)
}

func (m *MockSource) Count(ctx context.Context, table string) (int, error) {
	args := m.Called(ctx, table)
	return args.Int(0), args.Error(1)
}

func (m *MockSource) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSource) Close() error {
	return nil
}
