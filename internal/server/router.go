package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lifelog-labs/lifelog/backend/internal/diaries"
	"github.com/lifelog-labs/lifelog/backend/internal/habits"
	"github.com/lifelog-labs/lifelog/backend/internal/identity"
	"github.com/lifelog-labs/lifelog/backend/internal/metrics"
	"github.com/lifelog-labs/lifelog/backend/internal/notes"
	"github.com/lifelog-labs/lifelog/backend/internal/uploads"
	"go.uber.org/zap"
)

const (
	userIDContextKey = "lifelog_user_id"
	identityHeader   = "X-User-Token"
)

var (
	errMissingIdentityService = errors.New("identity service dependency required")
	errMissingNotesService    = errors.New("notes service dependency required")
	errMissingHabitsService   = errors.New("habits service dependency required")
	errMissingDiariesService  = errors.New("diaries service dependency required")
	errMissingUploadStorage   = errors.New("upload storage dependency required")
)

// Dependencies wires the resource services into the HTTP boundary.
type Dependencies struct {
	Identity *identity.Service
	Notes    *notes.Service
	Habits   *habits.Service
	Diaries  *diaries.Service
	Uploads  *uploads.Storage
	Metrics  *metrics.Metrics
	Logger   *zap.Logger

	// PublicBaseURL overrides the request host when building upload URLs.
	PublicBaseURL string
}

// NewHTTPHandler builds the gin router serving the full API surface.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Identity == nil {
		return nil, errMissingIdentityService
	}
	if deps.Notes == nil {
		return nil, errMissingNotesService
	}
	if deps.Habits == nil {
		return nil, errMissingHabitsService
	}
	if deps.Diaries == nil {
		return nil, errMissingDiariesService
	}
	if deps.Uploads == nil {
		return nil, errMissingUploadStorage
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{"Origin", "Content-Type", identityHeader},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		identity: deps.Identity,
		notes:    deps.Notes,
		habits:   deps.Habits,
		diaries:  deps.Diaries,
		uploads:  deps.Uploads,
		logger:   logger,
		baseURL:  deps.PublicBaseURL,
	}

	router.GET("/", handler.handleRoot)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}
	router.Static("/uploads", deps.Uploads.Dir())

	api := router.Group("/api")
	api.Use(handler.authenticateRequest)
	api.GET("/notes", handler.handleListNotes)
	api.GET("/notes/:id", handler.handleGetNote)
	api.POST("/notes", handler.handleCreateNote)
	api.PUT("/notes/:id", handler.handleReplaceNote)
	api.PATCH("/notes/:id", handler.handlePatchNote)
	api.DELETE("/notes/:id", handler.handleDeleteNote)
	api.GET("/habits", handler.handleListHabits)
	api.POST("/habits", handler.handleCreateHabit)
	api.POST("/habits/:id/checkin", handler.handleCheckInHabit)
	api.GET("/diaries", handler.handleListDiaries)
	api.POST("/diaries", handler.handleUpsertDiary)
	api.POST("/upload", handler.handleUpload)

	return router, nil
}

type httpHandler struct {
	identity *identity.Service
	notes    *notes.Service
	habits   *habits.Service
	diaries  *diaries.Service
	uploads  *uploads.Storage
	logger   *zap.Logger
	baseURL  string
}

func (h *httpHandler) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "lifelog backend API"})
}

// authenticateRequest resolves the anonymous token header to a user id
// and stores it in the request context. A missing header is the only
// unauthenticated outcome; an unseen token provisions a user.
func (h *httpHandler) authenticateRequest(c *gin.Context) {
	userID, err := h.identity.Resolve(c.Request.Context(), c.GetHeader(identityHeader))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Set(userIDContextKey, userID)
	c.Next()
}
