package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	identityerrors "domus/internal/identity/errors"
	"domus/pkg/logger"
	"domus/pkg/model"
)

type mockUserRepository struct {
	calls       int
	findByIDErr error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	m.calls++
	if m.findByIDErr != nil {
		return nil, m.findByIDErr
	}
	return &model.User{ID: id, Name: "Noa Levi", Phone: "+972501234567", Type: model.UserTypeBuyer}, nil
}

func (m *mockUserRepository) FindByType(ctx context.Context, userType string) ([]*model.User, error) {
	return nil, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: logger.JSON, Service: "test"})
}

func TestResolveFallsThroughWithoutCache(t *testing.T) {
	repo := &mockUserRepository{}
	resolver := NewCachedResolver(repo, nil, time.Minute, testLogger())

	u, err := resolver.Resolve(context.Background(), "buyer-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID != "buyer-1" || u.Name != "Noa Levi" {
		t.Errorf("unexpected user: %+v", u)
	}
	if repo.calls != 1 {
		t.Errorf("expected one store lookup, got %d", repo.calls)
	}
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	repo := &mockUserRepository{findByIDErr: identityerrors.ErrNotFound}
	resolver := NewCachedResolver(repo, nil, time.Minute, testLogger())

	_, err := resolver.Resolve(context.Background(), "missing")
	if !errors.Is(err, identityerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
