package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobhunt_backend/internal/auth"
	"jobhunt_backend/internal/models"
	"jobhunt_backend/internal/services"
	"jobhunt_backend/internal/services/dto"
	"jobhunt_backend/internal/storage"
	"jobhunt_backend/internal/validator"
	"jobhunt_backend/pkg/apperrors"
	"jobhunt_backend/pkg/contextkeys"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------------------------------------------------------------------------
// fake services
// ---------------------------------------------------------------------------

type fakeAuthService struct {
	signupReq    *dto.SignupRequest
	signupResume *multipart.FileHeader
	loginErr     error
}

func (s *fakeAuthService) Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest, resume *multipart.FileHeader) (*dto.MessageResponse, error) {
	s.signupReq = req
	s.signupResume = resume
	return &dto.MessageResponse{Message: "OTP sent to email"}, nil
}

func (s *fakeAuthService) VerifyOTP(ctx context.Context, db *gorm.DB, req *dto.VerifyOTPRequest) (*dto.AuthResponse, error) {
	return &dto.AuthResponse{Token: "t", Role: "user"}, nil
}

func (s *fakeAuthService) ResendOTP(ctx context.Context, db *gorm.DB, req *dto.ResendOTPRequest) (*dto.MessageResponse, error) {
	return &dto.MessageResponse{Message: "OTP sent to email"}, nil
}

func (s *fakeAuthService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &dto.AuthResponse{Token: "t", Role: "user", User: dto.AuthUser{Email: req.Email}}, nil
}

type fakeProfileService struct{}

func (fakeProfileService) GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	return &dto.ProfileResponse{ID: userID, Skills: []string{}}, nil
}

func (fakeProfileService) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	return &dto.ProfileResponse{ID: userID, Skills: req.Skills}, nil
}

type fakeJobService struct {
	lastQuery *dto.JobListQuery
	created   *dto.CreateJobRequest
}

func (s *fakeJobService) ListJobs(ctx context.Context, db *gorm.DB, q *dto.JobListQuery) ([]models.Job, int64, error) {
	s.lastQuery = q
	return []models.Job{{Title: "Go Developer"}}, 42, nil
}

func (s *fakeJobService) GetJob(ctx context.Context, db *gorm.DB, jobID string) (*models.Job, error) {
	if jobID == "missing" {
		return nil, apperrors.ErrJobNotFound
	}
	job := &models.Job{Title: "Go Developer"}
	job.ID = jobID
	return job, nil
}

func (s *fakeJobService) CreateJob(ctx context.Context, db *gorm.DB, req *dto.CreateJobRequest) (*models.Job, error) {
	s.created = req
	return &models.Job{Title: req.Title, Type: req.Type}, nil
}

func (s *fakeJobService) DeleteJob(ctx context.Context, db *gorm.DB, jobID string) error {
	return nil
}

func (s *fakeJobService) SaveJob(ctx context.Context, db *gorm.DB, userID, jobID string) ([]string, error) {
	return []string{jobID}, nil
}

func (s *fakeJobService) UnsaveJob(ctx context.Context, db *gorm.DB, userID, jobID string) ([]string, error) {
	return []string{}, nil
}

type fakeApplicationService struct {
	applyResume   *multipart.FileHeader
	applyCover    string
	statusResp    *dto.StatusUpdateResponse
	resumeAllowed bool
}

func (s *fakeApplicationService) Apply(ctx context.Context, db *gorm.DB, userID, jobID string, req *dto.ApplyRequest, resume *multipart.FileHeader) (*models.Application, error) {
	s.applyResume = resume
	s.applyCover = req.CoverLetter
	if resume == nil {
		return nil, apperrors.ErrResumeRequired
	}
	return &models.Application{JobID: jobID, UserID: userID, Status: models.ApplicationStatusPending}, nil
}

func (s *fakeApplicationService) ListApplicants(ctx context.Context, db *gorm.DB, jobID string) (*dto.ApplicantsResponse, error) {
	return &dto.ApplicantsResponse{JobTitle: "Go Developer", Applications: []dto.ApplicantView{}}, nil
}

func (s *fakeApplicationService) GetApplication(ctx context.Context, db *gorm.DB, appID, requesterID string, role auth.Role) (*dto.ApplicationView, error) {
	return &dto.ApplicationView{ID: appID, UserID: requesterID}, nil
}

func (s *fakeApplicationService) UpdateStatus(ctx context.Context, db *gorm.DB, appID string, req *dto.UpdateStatusRequest) (*dto.StatusUpdateResponse, error) {
	return s.statusResp, nil
}

func (s *fakeApplicationService) Dashboard(ctx context.Context, db *gorm.DB, userID string) (*dto.DashboardResponse, error) {
	return &dto.DashboardResponse{Saved: []models.Job{}, Applied: []dto.ApplicationView{}}, nil
}

func (s *fakeApplicationService) AuthorizeResumeAccess(ctx context.Context, db *gorm.DB, key, requesterID string, role auth.Role) error {
	if s.resumeAllowed || auth.IsAdmin(role) {
		return nil
	}
	return apperrors.NewForbiddenError("Access denied")
}

type fakeAnalyticsService struct{}

func (fakeAnalyticsService) GetAdminStats(ctx context.Context, db *gorm.DB) (*dto.AdminStatsResponse, error) {
	return &dto.AdminStatsResponse{TotalUsers: 3}, nil
}

type memStorage struct {
	files map[string][]byte
}

func (s *memStorage) Save(ctx context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.files[key] = data
	return nil
}

func (s *memStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.files[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStorage) Delete(ctx context.Context, key string) error {
	delete(s.files, key)
	return nil
}

// ---------------------------------------------------------------------------
// harness
// ---------------------------------------------------------------------------

type testEnv struct {
	router    *gin.Engine
	tokens    *auth.TokenManager
	auth      *fakeAuthService
	jobs      *fakeJobService
	apps      *fakeApplicationService
	storage   *memStorage
	userToken string
	admToken  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		tokens:  auth.NewTokenManager("handler-secret", time.Hour),
		auth:    &fakeAuthService{},
		jobs:    &fakeJobService{},
		apps:    &fakeApplicationService{statusResp: &dto.StatusUpdateResponse{Application: &models.Application{}}},
		storage: &memStorage{files: map[string][]byte{}},
	}

	base := NewBaseHandler(validator.New(), env.tokens)
	appHandlers := &AppHandlers{
		AuthHandler:        NewAuthHandler(base, env.auth),
		ProfileHandler:     NewProfileHandler(base, fakeProfileService{}),
		JobHandler:         NewJobHandler(base, env.jobs),
		ApplicationHandler: NewApplicationHandler(base, env.apps),
		AnalyticsHandler:   NewAnalyticsHandler(base, fakeAnalyticsService{}),
		FileHandler:        NewFileHandler(base, env.storage, env.apps),
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(string(contextkeys.DBContextKey), nil)
		c.Next()
	})
	api := r.Group("/api")
	appHandlers.AuthHandler.RegisterRoutes(api)
	appHandlers.ProfileHandler.RegisterRoutes(api)
	appHandlers.JobHandler.RegisterRoutes(api)
	appHandlers.ApplicationHandler.RegisterRoutes(api)
	appHandlers.AnalyticsHandler.RegisterRoutes(api)
	appHandlers.FileHandler.RegisterRoutes(api)
	env.router = r

	var err error
	env.userToken, err = env.tokens.GenerateToken("user-1", auth.RoleUser)
	require.NoError(t, err)
	env.admToken, err = env.tokens.GenerateToken(auth.AdminSubject, auth.RoleAdmin)
	require.NoError(t, err)
	return env
}

func (e *testEnv) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	return e.do(method, path, token, body, "application/json")
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

type errorEnvelope struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

func TestSignup_MultipartWithResume(t *testing.T) {
	env := newTestEnv(t)
	body, ct := multipartBody(t, map[string]string{
		"name": "Jane Doe", "email": "jane@example.com", "password": "secret123",
	}, "resume", "cv.pdf", []byte("%PDF-1.4"))

	w := env.do(http.MethodPost, "/api/auth/signup", "", body, ct)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"OTP sent to email"}`, w.Body.String())

	require.NotNil(t, env.auth.signupReq)
	assert.Equal(t, "jane@example.com", env.auth.signupReq.Email)
	require.NotNil(t, env.auth.signupResume)
	assert.Equal(t, "cv.pdf", env.auth.signupResume.Filename)
}

func TestSignup_JSONWithoutResume(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Jane Doe", "email": "jane@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, env.auth.signupResume)
}

func TestSignup_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Jane", "email": "not-an-email", "password": "secret123",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "email")
	assert.Nil(t, env.auth.signupReq)
}

func TestLogin_ServiceErrorRendered(t *testing.T) {
	env := newTestEnv(t)
	env.auth.loginErr = apperrors.ErrInvalidCredentials

	w := env.doJSON(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jane@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, w).Error.Message)
}

// ---------------------------------------------------------------------------
// profile / jobs
// ---------------------------------------------------------------------------

func TestProfile_RequiresUserToken(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/auth/profile", "", nil, "").Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/auth/profile", env.admToken, nil, "").Code)

	w := env.do(http.MethodGet, "/api/auth/profile", env.userToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"user-1"`)

	w = env.doJSON(http.MethodPut, "/api/auth/profile", env.userToken, map[string]any{"skills": []string{"Go"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"skills":["Go"]`)
}

func TestListJobs_FiltersAndTotalHeader(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/jobs?q=go&type=Full-time&page=2&page_size=5", "", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Header().Get("X-Total-Count"))
	assert.Equal(t, &dto.JobListQuery{Query: "go", Type: "Full-time", Page: 2, PageSize: 5}, env.jobs.lastQuery)

	env.do(http.MethodGet, "/api/jobs", "", nil, "")
	assert.Equal(t, 0, env.jobs.lastQuery.PageSize, "no pagination params returns everything")
}

func TestGetJob_NotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/jobs/missing", "", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Job not found", decodeError(t, w).Error.Message)
}

func TestCreateJob_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	payload := map[string]any{
		"title": "Go Developer", "company": "Acme", "location": "Remote",
		"type": "Full-time", "description": "APIs",
	}

	assert.Equal(t, http.StatusUnauthorized, env.doJSON(http.MethodPost, "/api/jobs", "", payload).Code)

	w := env.doJSON(http.MethodPost, "/api/jobs", env.userToken, payload)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied: Admins only", decodeError(t, w).Error.Message)

	w = env.doJSON(http.MethodPost, "/api/jobs", env.admToken, payload)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Go Developer", env.jobs.created.Title)

	payload["type"] = "Freelance"
	w = env.doJSON(http.MethodPost, "/api/jobs", env.admToken, payload)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Error.Details, "type")
}

func TestSaveJob(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/jobs/save/job-1", env.userToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["job-1"]`, w.Body.String())

	w = env.do(http.MethodDelete, "/api/jobs/save/job-1", env.userToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/jobs/save/job-1", env.admToken, nil, "").Code)
}

// ---------------------------------------------------------------------------
// applications
// ---------------------------------------------------------------------------

func TestApply(t *testing.T) {
	env := newTestEnv(t)

	body, ct := multipartBody(t, map[string]string{"coverLetter": "Hire me"}, "resume", "cv.pdf", []byte("%PDF"))
	w := env.do(http.MethodPost, "/api/jobs/apply/job-1", env.userToken, body, ct)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Hire me", env.apps.applyCover)
	require.NotNil(t, env.apps.applyResume)

	body, ct = multipartBody(t, map[string]string{"coverLetter": "no file"}, "", "", nil)
	w = env.do(http.MethodPost, "/api/jobs/apply/job-1", env.userToken, body, ct)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Resume is required", decodeError(t, w).Error.Message)

	body, ct = multipartBody(t, nil, "resume", "cv.pdf", []byte("%PDF"))
	w = env.do(http.MethodPost, "/api/jobs/apply/job-1", env.admToken, body, ct)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestApply_WithoutFormReportsMissingResume(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/jobs/apply/job-1", env.userToken, nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "Resume is required", decodeError(t, w).Error.Message)

	w = env.doJSON(http.MethodPost, "/api/jobs/apply/job-1", env.userToken, map[string]string{"coverLetter": "hi"})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "Resume is required", decodeError(t, w).Error.Message)
	assert.Nil(t, env.apps.applyResume)
	assert.Empty(t, env.apps.applyCover)
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t)
	env.apps.statusResp = &dto.StatusUpdateResponse{
		Application: &models.Application{Status: models.ApplicationStatusRejected},
		Warning:     services.StatusEmailWarning,
	}

	w := env.doJSON(http.MethodPatch, "/api/jobs/application/app-1/status", env.admToken, map[string]string{"status": "Rejected"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, services.StatusEmailWarning, resp["warning"])

	w = env.doJSON(http.MethodPatch, "/api/jobs/application/app-1/status", env.admToken, map[string]string{"status": "Hired"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(http.MethodPatch, "/api/jobs/application/app-1/status", env.userToken, map[string]string{"status": "Rejected"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStaticRoutesBeatJobID(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/jobs/user/dashboard", env.userToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"saved":[],"applied":[]}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/jobs/admin/stats", env.admToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalUsers":3`)

	assert.Equal(t, http.StatusForbidden, env.do(http.MethodGet, "/api/jobs/admin/stats", env.userToken, nil, "").Code)

	w = env.do(http.MethodGet, "/api/jobs/job-1/applicants", env.admToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"jobTitle":"Go Developer"`)

	w = env.do(http.MethodGet, "/api/jobs/application/app-9", env.userToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"app-9"`)
}

// ---------------------------------------------------------------------------
// files
// ---------------------------------------------------------------------------

func TestServeResume(t *testing.T) {
	env := newTestEnv(t)
	env.storage.files["resumes/abc.pdf"] = []byte("%PDF-1.4 content")

	w := env.do(http.MethodGet, "/api/files/resumes/abc.pdf", env.userToken, nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodGet, "/api/files/resumes/abc.pdf", env.admToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 content", w.Body.String())

	env.apps.resumeAllowed = true
	w = env.do(http.MethodGet, "/api/files/resumes/abc.pdf?download=true", env.userToken, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment"))

	w = env.do(http.MethodGet, "/api/files/resumes/missing.pdf", env.admToken, nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "File not found", decodeError(t, w).Error.Message)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/api/files/resumes/abc.pdf", "", nil, "").Code)
}
