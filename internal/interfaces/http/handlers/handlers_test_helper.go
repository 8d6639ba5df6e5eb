package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"bitwill.backend/internal/domain/entities"
	"bitwill.backend/internal/infrastructure/repositories"
	"bitwill.backend/internal/interfaces/http/middleware"
	"bitwill.backend/internal/usecases"
	"bitwill.backend/pkg/jwt"
	"bitwill.backend/pkg/token"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")

	for _, q := range []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT,
			password_hash TEXT,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		);`,
		`CREATE TABLE wills (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			personal_info TEXT,
			bitcoin_assets TEXT,
			beneficiaries TEXT,
			instructions TEXT,
			document_path TEXT,
			generated_at DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		);`,
		`CREATE TABLE subscriptions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			plan TEXT NOT NULL,
			status TEXT NOT NULL,
			current_period_start DATETIME,
			current_period_end DATETIME,
			created_at DATETIME,
			updated_at DATETIME,
			deleted_at DATETIME
		);`,
	} {
		require.NoError(t, db.Exec(q).Error)
	}
	return db
}

// fakeDocGenerator writes a small file so download endpoints have
// something real to serve.
type fakeDocGenerator struct {
	dir string
	err error
}

func (g fakeDocGenerator) Generate(will *entities.Will) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	path := filepath.Join(g.dir, fmt.Sprintf("bitcoin_will_%s.html", will.ID))
	if err := os.WriteFile(path, []byte("<html>will of "+will.PersonalInfo.FullName+"</html>"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// willHarness wires real usecases over a sqlite database, with routes
// registered both authenticated (user injected) and anonymous.
type willHarness struct {
	router  *gin.Engine
	userID  uuid.UUID
	subRepo *repositories.SubscriptionRepository
}

func newWillHarness(t *testing.T) *willHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	willRepo := repositories.NewWillRepository(db)
	subRepo := repositories.NewSubscriptionRepository(db)
	generator := fakeDocGenerator{dir: t.TempDir()}
	signer := token.NewDownloadSigner("download-secret", time.Minute)

	willUsecase := usecases.NewWillUsecase(willRepo, subRepo, generator, signer)
	willHandler := NewWillHandler(willUsecase)
	subHandler := NewSubscriptionHandler(usecases.NewSubscriptionUsecase(subRepo))

	h := &willHarness{userID: uuid.New(), subRepo: subRepo}

	r := gin.New()
	authed := r.Group("/api/v1", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, h.userID)
	})
	authed.GET("/wills/template", willHandler.Template)
	authed.POST("/wills", willHandler.Create)
	authed.GET("/wills", willHandler.List)
	authed.GET("/wills/:id", willHandler.Get)
	authed.PUT("/wills/:id", willHandler.Update)
	authed.POST("/wills/:id/generate", willHandler.Generate)
	authed.GET("/wills/:id/download", willHandler.Download)
	authed.DELETE("/wills/:id", willHandler.Delete)

	authed.GET("/subscriptions/plans", subHandler.Plans)
	authed.GET("/subscriptions/status", subHandler.Status)
	authed.POST("/subscriptions/checkout", subHandler.Checkout)
	authed.POST("/subscriptions/cancel", subHandler.Cancel)

	// Anonymous variant of the download route for token access
	r.GET("/public/wills/:id/download", willHandler.Download)

	h.router = r
	return h
}

func (h *willHarness) activateSubscription(t *testing.T) {
	t.Helper()
	now := time.Now()
	sub := &entities.Subscription{
		UserID:             h.userID,
		Plan:               entities.PlanMonthly,
		Status:             entities.SubscriptionActive,
		CurrentPeriodStart: null.TimeFrom(now),
		CurrentPeriodEnd:   null.TimeFrom(now.AddDate(0, 1, 0)),
	}
	require.NoError(t, h.subRepo.Create(context.Background(), sub))
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// authHarness wires the auth handler over a real user repository and
// the production auth middleware.
type authHarness struct {
	router *gin.Engine
	jwtSvc *jwt.JWTService
}

func newAuthHarness(t *testing.T) *authHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := newTestDB(t)
	userRepo := repositories.NewUserRepository(db)
	jwtSvc := jwt.NewJWTService("test-secret", time.Minute, time.Hour)
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtSvc, nil, 0)
	handler := NewAuthHandler(authUsecase)

	r := gin.New()
	r.POST("/api/v1/auth/register", handler.Register)
	r.POST("/api/v1/auth/login", handler.Login)
	r.POST("/api/v1/auth/refresh", handler.Refresh)
	r.GET("/api/v1/auth/me", middleware.AuthMiddleware(jwtSvc), handler.Me)
	r.POST("/api/v1/auth/change-password", middleware.AuthMiddleware(jwtSvc), handler.ChangePassword)

	return &authHarness{router: r, jwtSvc: jwtSvc}
}

func doAuthedJSON(t *testing.T, r *gin.Engine, method, path, accessToken string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.AuthorizationHeader, middleware.BearerPrefix+accessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
