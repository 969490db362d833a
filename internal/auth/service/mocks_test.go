package service_test

import (
	"bytes"
	"context"

	"github.com/google/uuid"

	authrepo "github.com/AlibekovAA/crudik/internal/auth/repository"
	"github.com/AlibekovAA/crudik/internal/common/logger"
	userdomain "github.com/AlibekovAA/crudik/internal/user/domain"
	userrepo "github.com/AlibekovAA/crudik/internal/user/repository"
)

func testLogger() *logger.Logger {
	return logger.NewWithWriter(&bytes.Buffer{}, "test", "debug")
}

type mockAuthUserIDProvider struct {
	authUserIDFunc func(ctx context.Context) (string, error)
}

func (m *mockAuthUserIDProvider) AuthUserID(ctx context.Context) (string, error) {
	if m.authUserIDFunc != nil {
		return m.authUserIDFunc(ctx)
	}
	return "", nil
}

func staticIDP(id string) *mockAuthUserIDProvider {
	return &mockAuthUserIDProvider{authUserIDFunc: func(context.Context) (string, error) { return id, nil }}
}

type mockAuthUserGateway struct {
	existsFunc  func(ctx context.Context, authUserID string) (bool, error)
	getUserFunc func(ctx context.Context, authUserID string) (userdomain.User, error)
}

func (m *mockAuthUserGateway) Exists(ctx context.Context, authUserID string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, authUserID)
	}
	return false, nil
}

func (m *mockAuthUserGateway) GetUser(ctx context.Context, authUserID string) (userdomain.User, error) {
	if m.getUserFunc != nil {
		return m.getUserFunc(ctx, authUserID)
	}
	return userdomain.User{}, authrepo.ErrAuthUserNotFound
}

type mockUserGateway struct {
	getFunc func(ctx context.Context, id uuid.UUID) (userdomain.User, error)
}

func (m *mockUserGateway) Get(ctx context.Context, id uuid.UUID) (userdomain.User, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return userdomain.User{ID: id}, nil
}

var _ userrepo.Gateway = (*mockUserGateway)(nil)

type mockUoW struct {
	added     []any
	flushFunc func(ctx context.Context) error
	flushes   int
}

func (m *mockUoW) Add(entity any) {
	m.added = append(m.added, entity)
}

func (m *mockUoW) Flush(ctx context.Context) error {
	m.flushes++
	if m.flushFunc != nil {
		return m.flushFunc(ctx)
	}
	return nil
}
