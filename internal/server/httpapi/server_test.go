package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dishubaceh/damprah/internal/common"
	"github.com/dishubaceh/damprah/internal/logging"
	"github.com/dishubaceh/damprah/internal/server/documents"
	"github.com/dishubaceh/damprah/internal/server/models"
	"github.com/dishubaceh/damprah/internal/server/storage"
	"github.com/dishubaceh/damprah/internal/server/users"
)

const testSecret = "test-secret"

// -------- test fakes --------

type fakeUserRepo struct {
	user *models.User
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = "u-1"
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, common.ErrNotFound
	}
	return f.user, nil
}

type fakeDocRepo struct {
	docs   []*models.Document
	getDoc *models.Document
}

func (f *fakeDocRepo) Insert(ctx context.Context, doc *models.Document) (*models.Document, error) {
	doc.ID = "doc-1"
	doc.UploadedAt = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f.docs = append(f.docs, doc)
	return doc, nil
}

func (f *fakeDocRepo) SelectByPort(ctx context.Context, portID string) ([]*models.Document, error) {
	return f.docs, nil
}

func (f *fakeDocRepo) SelectByPortAndTemplate(ctx context.Context, portID, templateID string) ([]*models.Document, error) {
	return f.docs, nil
}

func (f *fakeDocRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	if f.getDoc == nil {
		return nil, common.ErrNotFound
	}
	return f.getDoc, nil
}

func (f *fakeDocRepo) DeleteByPath(ctx context.Context, path string) (int64, error) {
	return 1, nil
}

func (f *fakeDocRepo) DeleteByID(ctx context.Context, id string) (int64, error) {
	return 1, nil
}

type fakeGateway struct{}

func (fakeGateway) Put(ctx context.Context, path string, body io.Reader, contentType string) error {
	return nil
}
func (fakeGateway) Remove(ctx context.Context, path string) error { return nil }
func (fakeGateway) List(ctx context.Context, prefix string) ([]storage.Entry, error) {
	return nil, nil
}
func (fakeGateway) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	return "https://signed.example/" + path, nil
}

// -------- harness --------

func mustHash(t *testing.T, password string) []byte {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return hash
}

func newTestServer(t *testing.T, docRepo *fakeDocRepo) *Server {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	userRepo := &fakeUserRepo{user: &models.User{
		ID:           "u-1",
		Email:        "admin@dishub.acehprov.go.id",
		Name:         "Admin Dishub",
		PasswordHash: mustHash(t, "rahasia"),
		Role:         models.RoleAdmin,
	}}

	us := users.NewService(userRepo, []byte(testSecret), 24*time.Hour)
	ds := documents.NewService(docRepo, fakeGateway{}, logger, time.Hour)

	return NewServer(":0", logger, us, ds, testSecret)
}

func loginToken(t *testing.T, h http.Handler) string {
	t.Helper()
	body := `{"email":"admin@dishub.acehprov.go.id","password":"rahasia"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func doJSON(t *testing.T, h http.Handler, method, target, token string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// -------- tests --------

func TestHealthz(t *testing.T) {
	h := newTestServer(t, &fakeDocRepo{}).Handler()
	rec := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newTestServer(t, &fakeDocRepo{}).Handler()
	body := `{"email":"admin@dishub.acehprov.go.id","password":"salah"}`
	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", strings.NewReader(body))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_ReturnsIdentity(t *testing.T) {
	h := newTestServer(t, &fakeDocRepo{}).Handler()
	body := `{"email":"admin@dishub.acehprov.go.id","password":"rahasia"}`
	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", strings.NewReader(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Admin Dishub", resp.User.Name)
	assert.Equal(t, models.RoleAdmin, resp.User.Role)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), resp.ExpiresAt, time.Minute)
}

func TestAuthRequired(t *testing.T) {
	h := newTestServer(t, &fakeDocRepo{}).Handler()

	rec := doJSON(t, h, http.MethodGet, "/api/ports", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/ports", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPorts_ListsRegistry(t *testing.T) {
	h := newTestServer(t, &fakeDocRepo{}).Handler()
	token := loginToken(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/ports", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ports []portResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ports))
	require.Len(t, ports, 6)
	assert.Equal(t, "ulee-lheue", ports[0].ID)
	assert.NotZero(t, ports[0].Lat)
}

func TestPortDocuments_FullTable(t *testing.T) {
	docRepo := &fakeDocRepo{docs: []*models.Document{{
		ID: "doc-1", PortID: "ulee-lheue", TemplateID: "d1",
		FileName: "induk.pdf", Path: "ulee-lheue/d1/100_induk.pdf",
		UploadedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}}}
	h := newTestServer(t, docRepo).Handler()
	token := loginToken(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/ports/ulee-lheue/documents", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp portDocumentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ulee-lheue", resp.Port.ID)
	assert.False(t, resp.Stale)
	require.Len(t, resp.Rows, 9)
	assert.Equal(t, "d1", resp.Rows[0].TemplateID)
	assert.Equal(t, "uploaded", resp.Rows[0].Status)
	assert.Equal(t, "not_uploaded", resp.Rows[1].Status)
}

func TestPortDocuments_UnknownPort(t *testing.T) {
	h := newTestServer(t, &fakeDocRepo{}).Handler()
	token := loginToken(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/ports/atlantis/documents", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartBody(t *testing.T, fileName, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload_CreatesDocument(t *testing.T) {
	docRepo := &fakeDocRepo{}
	h := newTestServer(t, docRepo).Handler()
	token := loginToken(t, h)

	body, contentType := multipartBody(t, "induk.pdf", "content")
	req := httptest.NewRequest(http.MethodPost, "/api/ports/ulee-lheue/templates/d1/files", body)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp fileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "doc-1", resp.ID)
	assert.Equal(t, "induk.pdf", resp.FileName)
	require.Len(t, docRepo.docs, 1)
}

func TestUpload_MissingFileField(t *testing.T) {
	h := newTestServer(t, &fakeDocRepo{}).Handler()
	token := loginToken(t, h)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "no file here"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/ports/ulee-lheue/templates/d1/files", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFiles_IncludesSignedURL(t *testing.T) {
	docRepo := &fakeDocRepo{docs: []*models.Document{{
		ID: "doc-1", PortID: "ulee-lheue", TemplateID: "d1",
		FileName: "induk.pdf", Path: "ulee-lheue/d1/100_induk.pdf",
		UploadedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}}}
	h := newTestServer(t, docRepo).Handler()
	token := loginToken(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/ports/ulee-lheue/templates/d1/files", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var files []fileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &files))
	require.Len(t, files, 1)
	assert.Equal(t, "https://signed.example/ulee-lheue/d1/100_induk.pdf", files[0].URL)
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	docRepo := &fakeDocRepo{getDoc: &models.Document{
		ID: "doc-1", PortID: "ulee-lheue", TemplateID: "d1",
		FileName: "induk.pdf", Path: "ulee-lheue/d1/100_induk.pdf",
	}}
	h := newTestServer(t, docRepo).Handler()
	token := loginToken(t, h)

	rec := doJSON(t, h, http.MethodDelete, "/api/documents/doc-1", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/documents/doc-1?confirm=true", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDelete_NotFound(t *testing.T) {
	h := newTestServer(t, &fakeDocRepo{}).Handler()
	token := loginToken(t, h)

	rec := doJSON(t, h, http.MethodDelete, "/api/documents/missing?confirm=true", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreview_ReturnsRenderPlan(t *testing.T) {
	docRepo := &fakeDocRepo{getDoc: &models.Document{
		ID: "doc-1", PortID: "ulee-lheue", TemplateID: "d1",
		FileName: "induk.pdf", Path: "ulee-lheue/d1/100_induk.pdf",
		UploadedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}}
	h := newTestServer(t, docRepo).Handler()
	token := loginToken(t, h)

	rec := doJSON(t, h, http.MethodGet, "/api/documents/doc-1/preview", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp previewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pdf", resp.Kind)
	assert.Equal(t, "embed", resp.Mode)
	assert.Equal(t, "https://signed.example/ulee-lheue/d1/100_induk.pdf", resp.URL)
}
