package app

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"assessment_builder/internal/config"
	"assessment_builder/internal/document"
	"assessment_builder/internal/model"
	"assessment_builder/internal/service"
	"assessment_builder/internal/util"
	"assessment_builder/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-test-secret-test-secret"

type draftResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    service.DraftView `json:"data"`
}

type testServer struct {
	t     *testing.T
	app   *App
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(dir, "app.db")},
		JWT:      config.JWTConfig{Secret: testSecret},
		Storage: config.StorageConfig{
			Type:         util.StorageLocal,
			LocalPath:    filepath.Join(dir, "uploads"),
			MaxImageSize: 1 << 20,
		},
		Authoring: config.AuthoringConfig{DraftCacheTTL: time.Hour, SessionIdle: time.Hour},
	}
	db, err := database.InitDB(&cfg.Database)
	require.NoError(t, err)

	a, err := New(cfg, db, nil)
	require.NoError(t, err)

	token, err := util.GenerateJWT(7, model.Teacher, testSecret, time.Hour)
	require.NoError(t, err)
	return &testServer{t: t, app: a, token: token}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)
	return w
}

func decodeDraft(t *testing.T, w *httptest.ResponseRecorder) service.DraftView {
	t.Helper()
	var resp draftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp.Data
}

func TestDraftLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/teacher/drafts", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	draft := decodeDraft(t, w)
	require.Len(t, draft.Assessment.Pages, 1)
	base := "/api/teacher/drafts/" + draft.Assessment.ID
	pageID := draft.Assessment.Pages[0].ID

	w = s.do(http.MethodPost, base+"/actions", map[string]any{
		"type":    document.ActionSetTitle,
		"payload": map[string]any{"title": "Unit 4 check-in"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Unit 4 check-in", decodeDraft(t, w).Assessment.Title)

	w = s.do(http.MethodPost, base+"/actions", map[string]any{"type": "NOT_AN_ACTION"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, base+"/editor", map[string]any{"pageId": pageID, "type": "multiple_choice"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodPost, base+"/editor", map[string]any{"pageId": pageID, "type": "identification"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, base+"/editor/commit", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var invalid struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &invalid))
	assert.Contains(t, invalid.Data, "question")
	assert.Contains(t, invalid.Data, "choices")
	assert.Contains(t, invalid.Data, "answer")

	w = s.do(http.MethodPost, base+"/editor/actions", map[string]any{
		"type":    "SET_QUESTION",
		"payload": map[string]any{"question": "Which are prime?"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodDelete, base+"/editor", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decodeDraft(t, w).Editing)

	w = s.do(http.MethodGet, base+"/editor", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPut, base, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.do(http.MethodDelete, base+"/session", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Unit 4 check-in", decodeDraft(t, w).Assessment.Title)
}

func TestImageUpload(t *testing.T) {
	s := newTestServer(t)
	draft := decodeDraft(t, s.do(http.MethodPost, "/api/teacher/drafts", nil))
	base := "/api/teacher/drafts/" + draft.Assessment.ID
	pageID := draft.Assessment.Pages[0].ID

	upload := func(method, path string, data []byte) *httptest.ResponseRecorder {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "diagram.png")
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(method, path, &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+s.token)
		w := httptest.NewRecorder()
		s.app.Router.ServeHTTP(w, req)
		return w
	}

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

	w := upload(http.MethodPost, base+"/pages/"+pageID+"/images", []byte("not an image"))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = upload(http.MethodPost, base+"/pages/"+pageID+"/images", png)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	contents := decodeDraft(t, w).Assessment.Pages[0].Contents
	require.Len(t, contents, 1)
	img := contents[0]
	assert.Equal(t, document.ContentImage, img.Type)
	assert.NotEmpty(t, img.Image.PublicID)

	w = s.do(http.MethodGet, img.Image.URL, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodDelete, base+"/pages/"+pageID+"/contents/"+img.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeDraft(t, w).Assessment.Pages[0].Contents)
}

func TestTeacherRoutesRequireRole(t *testing.T) {
	s := newTestServer(t)

	s.token = ""
	w := s.do(http.MethodPost, "/api/teacher/drafts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	student, err := util.GenerateJWT(9, model.Student, testSecret, time.Hour)
	require.NoError(t, err)
	s.token = student
	w = s.do(http.MethodPost, "/api/teacher/drafts", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	other, err := util.GenerateJWT(8, model.Teacher, testSecret, time.Hour)
	require.NoError(t, err)
	owner, err := util.GenerateJWT(7, model.Teacher, testSecret, time.Hour)
	require.NoError(t, err)

	s.token = owner
	draft := decodeDraft(t, s.do(http.MethodPost, "/api/teacher/drafts", nil))

	s.token = other
	w = s.do(http.MethodGet, "/api/teacher/drafts/"+draft.Assessment.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/teacher/drafts/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	w := s.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConfigReload(t *testing.T) {
	s := newTestServer(t)
	next := *s.app.Config
	next.Storage.MaxImageSize = 10
	next.CORS.AllowedOrigins = []string{"https://authoring.example.com"}
	s.app.reloadConfig(&next)

	assert.Equal(t, int64(10), s.app.Images.MaxSize())
	assert.True(t, s.app.origins.Allowed("https://authoring.example.com"))
}
