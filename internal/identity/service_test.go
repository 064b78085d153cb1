package identity

import (
	"context"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
	"github.com/lifelog-labs/lifelog/backend/internal/ids"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, name string) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		t.Fatalf("failed to migrate user schema: %v", err)
	}
	service, err := NewService(ServiceConfig{
		Database:   db,
		IDProvider: ids.NewUUIDProvider(),
		Clock: func() time.Time {
			return time.Unix(1700000000, 0)
		},
	})
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return service
}

func TestResolveProvisionsOnFirstSight(t *testing.T) {
	service := newTestService(t, "identity_provision")

	userID, err := service.Resolve(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if userID == "" {
		t.Fatalf("expected non-empty user id")
	}

	again, err := service.Resolve(context.Background(), "token-abc")
	if err != nil {
		t.Fatalf("second resolve failed: %v", err)
	}
	if again != userID {
		t.Fatalf("expected stable user id, got %q then %q", userID, again)
	}

	var count int64
	if err := service.db.Model(&User{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one user record, got %d", count)
	}
}

func TestResolveDistinctTokensGetDistinctUsers(t *testing.T) {
	service := newTestService(t, "identity_distinct")

	first, err := service.Resolve(context.Background(), "token-a")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	second, err := service.Resolve(context.Background(), "token-b")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct user ids for distinct tokens")
	}
}

func TestResolveMissingTokenIsAuthenticationError(t *testing.T) {
	service := newTestService(t, "identity_missing")

	if _, err := service.Resolve(context.Background(), "   "); err == nil {
		t.Fatalf("expected error for blank token")
	} else if apperrors.KindOf(err) != apperrors.KindAuthentication {
		t.Fatalf("expected authentication kind, got %d", apperrors.KindOf(err))
	}
}

func TestResolveTrimsToken(t *testing.T) {
	service := newTestService(t, "identity_trim")

	first, err := service.Resolve(context.Background(), "token-x")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	second, err := service.Resolve(context.Background(), "  token-x  ")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected whitespace-padded token to resolve to the same user")
	}
}
