package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/lifelog-labs/lifelog/backend/internal/diaries"
	"github.com/lifelog-labs/lifelog/backend/internal/habits"
	"github.com/lifelog-labs/lifelog/backend/internal/identity"
	"github.com/lifelog-labs/lifelog/backend/internal/ids"
	"github.com/lifelog-labs/lifelog/backend/internal/notes"
	"github.com/lifelog-labs/lifelog/backend/internal/uploads"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestHandler(t *testing.T, name string) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	err = db.AutoMigrate(&identity.User{}, &notes.Note{}, &habits.Habit{}, &diaries.Diary{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	idProvider := ids.NewUUIDProvider()
	identityService, err := identity.NewService(identity.ServiceConfig{Database: db, IDProvider: idProvider})
	if err != nil {
		t.Fatalf("failed to build identity service: %v", err)
	}
	notesService, err := notes.NewService(notes.ServiceConfig{Database: db, IDProvider: idProvider})
	if err != nil {
		t.Fatalf("failed to build notes service: %v", err)
	}
	habitsService, err := habits.NewService(habits.ServiceConfig{Database: db, IDProvider: idProvider})
	if err != nil {
		t.Fatalf("failed to build habits service: %v", err)
	}
	diariesService, err := diaries.NewService(diaries.ServiceConfig{Database: db, IDProvider: idProvider})
	if err != nil {
		t.Fatalf("failed to build diaries service: %v", err)
	}
	uploadStorage, err := uploads.NewStorage(uploads.StorageConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("failed to build upload storage: %v", err)
	}

	handler, err := NewHTTPHandler(Dependencies{
		Identity:      identityService,
		Notes:         notesService,
		Habits:        habitsService,
		Diaries:       diariesService,
		Uploads:       uploadStorage,
		Logger:        zap.NewNop(),
		PublicBaseURL: "http://cdn.test",
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}
	return handler
}

func doJSON(t *testing.T, handler http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	request := httptest.NewRequest(method, path, reader)
	if body != "" {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set(identityHeader, token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
	return payload
}

func dataObject(t *testing.T, payload map[string]any) map[string]any {
	t.Helper()
	data, ok := payload["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data field, got %T", payload["data"])
	}
	return data
}
