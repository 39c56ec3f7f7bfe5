package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/docvault/server/config"
	"github.com/docvault/server/middleware"
	"github.com/docvault/server/model"
	"github.com/docvault/server/service"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:        "test-secret",
		TokenExpireHours: 24,
	}
}

// fakeBlobStore implements service.BlobStore without a MinIO server
type fakeBlobStore struct {
	uploaded map[string][]byte
	deleted  []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploaded: make(map[string][]byte)}
}

func (f *fakeBlobStore) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.uploaded[objectName] = data
	return nil
}

func (f *fakeBlobStore) GetPresignedURL(ctx context.Context, objectName string) (string, error) {
	return "http://blob.test/" + objectName, nil
}

func (f *fakeBlobStore) DeleteFile(ctx context.Context, objectName string) error {
	f.deleted = append(f.deleted, objectName)
	delete(f.uploaded, objectName)
	return nil
}

type testServer struct {
	router *gin.Engine
	store  *service.MemoryStore
	blobs  *fakeBlobStore
	cfg    *config.AuthConfig
}

// newTestServer assembles the full route surface the way main does,
// against an in-memory store and a fake blob store. ingestURL points at
// the stand-in for the external ingestion endpoint.
func newTestServer(t *testing.T, ingestURL string) *testServer {
	t.Helper()

	store := service.NewMemoryStore()
	blobs := newFakeBlobStore()
	authCfg := testAuthConfig()

	authSvc := service.NewAuthService(store)
	ingestClient := service.NewIngestClient(&config.IngestConfig{
		EndpointURL:    ingestURL,
		TimeoutSeconds: 5,
	})
	ingestionSvc := service.NewIngestionService(store, ingestClient)

	authHandler := NewAuthHandler(authSvc, authCfg)
	userHandler := NewUserHandler(store)
	documentHandler := NewDocumentHandler(store, blobs)
	ingestionHandler := NewIngestionHandler(ingestionSvc)

	policy := middleware.DefaultPolicy()

	router := gin.New()
	api := router.Group("/api/v1")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(authCfg, store))
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/auth/me", authHandler.Me)
	protected.GET("/users", middleware.RequireRole(policy, "users.list"), userHandler.List)
	protected.PATCH("/users/:id/role", middleware.RequireRole(policy, "users.updateRole"), userHandler.UpdateRole)
	protected.DELETE("/users/:id", middleware.RequireRole(policy, "users.delete"), userHandler.Delete)
	protected.POST("/documents", middleware.RequireRole(policy, "documents.create"), documentHandler.Create)
	protected.GET("/documents", documentHandler.List)
	protected.GET("/documents/:id", documentHandler.Get)
	protected.PATCH("/documents/:id", middleware.RequireRole(policy, "documents.update"), documentHandler.Update)
	protected.DELETE("/documents/:id", middleware.RequireRole(policy, "documents.delete"), documentHandler.Delete)
	protected.POST("/ingestion/trigger/:documentId", middleware.RequireRole(policy, "ingestion.trigger"), ingestionHandler.Trigger)
	protected.GET("/ingestion/status/:id", middleware.RequireRole(policy, "ingestion.status"), ingestionHandler.Status)
	protected.POST("/ingestion/retry/:id", middleware.RequireRole(policy, "ingestion.retry"), ingestionHandler.Retry)
	protected.GET("/ingestion/all", middleware.RequireRole(policy, "ingestion.list"), ingestionHandler.All)

	return &testServer{router: router, store: store, blobs: blobs, cfg: authCfg}
}

// seedUserWithToken creates an account directly in the store and returns
// a valid bearer token for it
func (s *testServer) seedUserWithToken(t *testing.T, username, email, role string) (*model.User, string) {
	t.Helper()

	user := &model.User{
		ID:           "id-" + username,
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
	}
	if err := s.store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	token, _, err := middleware.GenerateToken(user, s.cfg)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return user, token
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to parse response %s: %v", w.Body.String(), err)
	}
}
