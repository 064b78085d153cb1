package notes

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
	if err := db.AutoMigrate(&Note{}); err != nil {
		t.Fatalf("failed to migrate note schema: %v", err)
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

func TestCreateTrimsTitle(t *testing.T) {
	service := newTestService(t, "notes_trim")

	note, err := service.Create(context.Background(), "user-1", CreateInput{Title: "  x  "})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if note.Title != "x" {
		t.Fatalf("expected trimmed title, got %q", note.Title)
	}
	if note.Images == nil {
		t.Fatalf("expected images to default to an empty list")
	}
}

func TestCreateRejectsWhitespaceTitle(t *testing.T) {
	service := newTestService(t, "notes_whitespace")

	_, err := service.Create(context.Background(), "user-1", CreateInput{Title: "   "})
	if err == nil {
		t.Fatalf("expected error for whitespace-only title")
	}
	if apperrors.KindOf(err) != apperrors.KindInvalidArgument {
		t.Fatalf("expected invalid-argument kind, got %d", apperrors.KindOf(err))
	}
}

func TestGetForeignOwnerReportsNotFound(t *testing.T) {
	service := newTestService(t, "notes_foreign")

	created, err := service.Create(context.Background(), "user-a", CreateInput{Title: "secret"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = service.Get(context.Background(), "user-b", created.ID)
	if err == nil {
		t.Fatalf("expected error for foreign-owned note")
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not-found kind, got %d", apperrors.KindOf(err))
	}
}

func TestGetMalformedIDReportsInvalidArgument(t *testing.T) {
	service := newTestService(t, "notes_malformed")

	_, err := service.Get(context.Background(), "user-a", "not-a-uuid")
	if err == nil {
		t.Fatalf("expected error for malformed id")
	}
	if apperrors.KindOf(err) != apperrors.KindInvalidArgument {
		t.Fatalf("expected invalid-argument kind, got %d", apperrors.KindOf(err))
	}
}

func TestListSearchIsCaseInsensitiveAndScoped(t *testing.T) {
	service := newTestService(t, "notes_search")
	ctx := context.Background()

	if _, err := service.Create(ctx, "user-a", CreateInput{Title: "Shopping ABC"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.Create(ctx, "user-a", CreateInput{Title: "plain", Content: "contains abc inside"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.Create(ctx, "user-a", CreateInput{Title: "unrelated"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.Create(ctx, "user-b", CreateInput{Title: "abc but foreign"}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	results, total, err := service.List(ctx, "user-a", ListQuery{Search: "abc"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 matches, got %d", total)
	}
	for _, note := range results {
		if note.UserID != "user-a" {
			t.Fatalf("search leaked a foreign note: %+v", note)
		}
	}
}

func TestListPaginates(t *testing.T) {
	service := newTestService(t, "notes_paginate")
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := service.Create(ctx, "user-a", CreateInput{Title: "note"}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	page, total, err := service.List(ctx, "user-a", ListQuery{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected total 5, got %d", total)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 notes on page 2, got %d", len(page))
	}
}

func TestListSortsByTitleAscending(t *testing.T) {
	service := newTestService(t, "notes_sort")
	ctx := context.Background()

	for _, title := range []string{"banana", "apple", "cherry"} {
		if _, err := service.Create(ctx, "user-a", CreateInput{Title: title}); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	results, _, err := service.List(ctx, "user-a", ListQuery{Sort: "title"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(results) != 3 || results[0].Title != "apple" || results[2].Title != "cherry" {
		t.Fatalf("unexpected order: %+v", results)
	}
}

func TestUpdateAppliesOnlySuppliedFields(t *testing.T) {
	service := newTestService(t, "notes_patch")
	ctx := context.Background()

	created, err := service.Create(ctx, "user-a", CreateInput{Title: "original", Content: "body"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newContent := "revised"
	updated, err := service.Update(ctx, "user-a", created.ID, PatchInput{Content: &newContent})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Title != "original" {
		t.Fatalf("expected title untouched, got %q", updated.Title)
	}
	if updated.Content != "revised" {
		t.Fatalf("expected content replaced, got %q", updated.Content)
	}
}

func TestUpdateRejectsSuppliedBlankTitle(t *testing.T) {
	service := newTestService(t, "notes_patch_blank")
	ctx := context.Background()

	created, err := service.Create(ctx, "user-a", CreateInput{Title: "original"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	blank := "   "
	_, err = service.Update(ctx, "user-a", created.ID, PatchInput{Title: &blank})
	if err == nil {
		t.Fatalf("expected error for blank supplied title")
	}
	if apperrors.KindOf(err) != apperrors.KindInvalidArgument {
		t.Fatalf("expected invalid-argument kind, got %d", apperrors.KindOf(err))
	}
}

func TestDeleteReturnsDocumentAndRemovesIt(t *testing.T) {
	service := newTestService(t, "notes_delete")
	ctx := context.Background()

	created, err := service.Create(ctx, "user-a", CreateInput{Title: "doomed"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	deleted, err := service.Delete(ctx, "user-a", created.ID)
	if err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if deleted.Title != "doomed" {
		t.Fatalf("expected deleted document back, got %+v", deleted)
	}

	if _, err := service.Get(ctx, "user-a", created.ID); apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected note to be gone, got %v", err)
	}
}
