package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/creativityhunt/creahunt/internal/config"
	"github.com/creativityhunt/creahunt/internal/filestore"
	"github.com/creativityhunt/creahunt/internal/handler"
	"github.com/creativityhunt/creahunt/internal/middleware"
	"github.com/creativityhunt/creahunt/internal/oauth"
	"github.com/creativityhunt/creahunt/internal/repo"
	"github.com/creativityhunt/creahunt/internal/service"
	"github.com/creativityhunt/creahunt/test/testutil"
)

var codePattern = regexp.MustCompile(`\d{6}`)

type capturingSender struct {
	mu       sync.Mutex
	lastBody string
}

func (s *capturingSender) Send(to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastBody = body
	return nil
}

func (s *capturingSender) VerifyConfig() error {
	return nil
}

func (s *capturingSender) sentCode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return codePattern.FindString(s.lastBody)
}

type testEnv struct {
	router       http.Handler
	sender       *capturingSender
	categoryRepo *repo.CategoryRepo
	toolRepo     *repo.ToolRepo
}

func setupRouter(t *testing.T) (*testEnv, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, cleanup := testutil.OpenTestDB(t)
	userRepo := repo.NewUserRepo(db)
	oauthRepo := repo.NewOAuthRepo(db)
	categoryRepo := repo.NewCategoryRepo(db)
	toolRepo := repo.NewToolRepo(db)

	jwtSecret := []byte("test-secret")
	sender := &capturingSender{}
	authService := service.NewAuthService(userRepo, sender, jwtSecret, time.Hour)
	oauthService := service.NewOAuthService(userRepo, oauthRepo, jwtSecret, time.Hour, map[string]oauth.Provider{})
	toolService, err := service.NewToolService(toolRepo, categoryRepo)
	require.NoError(t, err)
	categoryService := service.NewCategoryService(categoryRepo)

	tmpDir, err := os.MkdirTemp("", "creahunt-upload-*")
	require.NoError(t, err)

	store, err := filestore.New(config.AssetStoreConfig{
		Type: "local",
		Data: map[string]interface{}{
			"dir": tmpDir,
		},
	})
	require.NoError(t, err)

	deps := handler.RouterDeps{
		Auth:           handler.NewAuthHandler(authService),
		OAuth:          handler.NewOAuthHandler(oauthService),
		Tools:          handler.NewToolHandler(toolService),
		Categories:     handler.NewCategoryHandler(categoryService),
		Assets:         handler.NewAssetHandler(store),
		JWTSecret:      jwtSecret,
		SigninInterval: -1,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)

	env := &testEnv{
		router:       engine,
		sender:       sender,
		categoryRepo: categoryRepo,
		toolRepo:     toolRepo,
	}
	return env, func() {
		cleanup()
		_ = os.RemoveAll(tmpDir)
	}
}

type envelope struct {
	Code        int64           `json:"code"`
	Message     string          `json:"message"`
	Data        json.RawMessage `json:"data"`
	TraceID     string          `json:"trace_id"`
	RequestID   string          `json:"request_id"`
	RequestTime int64           `json:"request_time"`
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return resp, env
}
