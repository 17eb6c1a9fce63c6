package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jobhunt_backend/internal/models"
	"jobhunt_backend/internal/repositories"
	"jobhunt_backend/internal/storage"
)

// noTx выполняет fn без транзакции; фейковые репозитории игнорируют *gorm.DB
func noTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return fn(db)
}

// ---------------------------------------------------------------------------
// users
// ---------------------------------------------------------------------------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	failAddApplied error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	cp.Skills = append([]string(nil), u.Skills...)
	cp.SavedJobs = append([]string(nil), u.SavedJobs...)
	cp.AppliedJobs = append([]string(nil), u.AppliedJobs...)
	return &cp
}

func (r *fakeUserRepo) FindByID(db *gorm.DB, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *fakeUserRepo) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) Save(db *gorm.DB, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *fakeUserRepo) MarkVerified(db *gorm.DB, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.IsVerified = true
	u.OTP = ""
	u.OTPExpires = 0
	return nil
}

func (r *fakeUserRepo) UpdateOTP(db *gorm.DB, userID, otp string, expiresMs int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.OTP = otp
	u.OTPExpires = expiresMs
	return nil
}

func (r *fakeUserRepo) AddSavedJob(db *gorm.DB, userID, jobID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	if !u.HasSaved(jobID) {
		u.SavedJobs = append(u.SavedJobs, jobID)
	}
	return append([]string(nil), u.SavedJobs...), nil
}

func (r *fakeUserRepo) RemoveSavedJob(db *gorm.DB, userID, jobID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	kept := []string{}
	for _, id := range u.SavedJobs {
		if id != jobID {
			kept = append(kept, id)
		}
	}
	u.SavedJobs = kept
	return append([]string(nil), kept...), nil
}

func (r *fakeUserRepo) AddAppliedJob(db *gorm.DB, userID, jobID string) error {
	if r.failAddApplied != nil {
		return r.failAddApplied
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if !u.HasApplied(jobID) {
		u.AppliedJobs = append(u.AppliedJobs, jobID)
	}
	return nil
}

func (r *fakeUserRepo) ClearExpiredOTPs(db *gorm.DB, expiredBeforeMs int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if !u.IsVerified && u.OTP != "" && u.OTPExpires < expiredBeforeMs {
			u.OTP = ""
			u.OTPExpires = 0
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// addUser сохраняет пользователя и возвращает его с выданным ID
func (r *fakeUserRepo) addUser(t *testing.T, u *models.User) *models.User {
	t.Helper()
	require.NoError(t, r.Create(nil, u))
	return u
}

// ---------------------------------------------------------------------------
// jobs
// ---------------------------------------------------------------------------

type fakeJobRepo struct {
	mu   sync.Mutex
	jobs map[string]*models.Job
	seq  int
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[string]*models.Job{}}
}

func (r *fakeJobRepo) Create(db *gorm.DB, job *models.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	r.seq++
	job.CreatedAt = time.Unix(int64(r.seq), 0)
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *fakeJobRepo) FindByID(db *gorm.DB, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, repositories.ErrJobNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) FindByIDs(db *gorm.DB, ids []string) ([]models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Job{}
	for _, id := range ids {
		if j, ok := r.jobs[id]; ok {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) List(db *gorm.DB, filter repositories.JobFilter) ([]models.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Job
	for _, j := range r.jobs {
		if filter.Type != "" && j.Type != filter.Type {
			continue
		}
		if q := strings.ToLower(filter.Query); q != "" &&
			!strings.Contains(strings.ToLower(j.Title+" "+j.Company+" "+j.Location), q) {
			continue
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt.After(out[b].CreatedAt) })
	total := int64(len(out))
	if filter.PageSize > 0 {
		from := (filter.Page - 1) * filter.PageSize
		if from > len(out) {
			from = len(out)
		}
		to := from + filter.PageSize
		if to > len(out) {
			to = len(out)
		}
		out = out[from:to]
	}
	return out, total, nil
}

func (r *fakeJobRepo) Delete(db *gorm.DB, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[id]; !ok {
		return repositories.ErrJobNotFound
	}
	delete(r.jobs, id)
	return nil
}

func (r *fakeJobRepo) addJob(t *testing.T, title string) *models.Job {
	t.Helper()
	j := &models.Job{Title: title, Company: "Acme", Location: "Remote", Type: "Full-time", Description: "desc"}
	require.NoError(t, r.Create(nil, j))
	return j
}

// ---------------------------------------------------------------------------
// applications
// ---------------------------------------------------------------------------

type fakeApplicationRepo struct {
	mu    sync.Mutex
	apps  map[string]*models.Application
	seq   int
	users *fakeUserRepo
	jobs  *fakeJobRepo

	// имитирует гонку: pre-check не видит конкурирующую запись
	hideExisting bool
}

func newFakeApplicationRepo(users *fakeUserRepo, jobs *fakeJobRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[string]*models.Application{}, users: users, jobs: jobs}
}

func (r *fakeApplicationRepo) withRelations(a *models.Application) *models.Application {
	cp := *a
	if u, err := r.users.FindByID(nil, a.UserID); err == nil {
		cp.User = u
	}
	if j, err := r.jobs.FindByID(nil, a.JobID); err == nil {
		cp.Job = j
	}
	return &cp
}

func (r *fakeApplicationRepo) Create(db *gorm.DB, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID == app.UserID && a.JobID == app.JobID {
			return repositories.ErrApplicationExists
		}
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	r.seq++
	app.CreatedAt = time.Unix(int64(r.seq), 0)
	app.UpdatedAt = app.CreatedAt
	cp := *app
	r.apps[app.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) FindByID(db *gorm.DB, id string) (*models.Application, error) {
	r.mu.Lock()
	a, ok := r.apps[id]
	r.mu.Unlock()
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	return r.withRelations(a), nil
}

func (r *fakeApplicationRepo) Exists(db *gorm.DB, userID, jobID string) (bool, error) {
	if r.hideExisting {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID == userID && a.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) list(match func(*models.Application) bool) []models.Application {
	r.mu.Lock()
	var picked []*models.Application
	for _, a := range r.apps {
		if match(a) {
			picked = append(picked, a)
		}
	}
	r.mu.Unlock()

	sort.Slice(picked, func(i, j int) bool { return picked[i].CreatedAt.After(picked[j].CreatedAt) })
	out := make([]models.Application, 0, len(picked))
	for _, a := range picked {
		out = append(out, *r.withRelations(a))
	}
	return out
}

func (r *fakeApplicationRepo) FindByJob(db *gorm.DB, jobID string) ([]models.Application, error) {
	return r.list(func(a *models.Application) bool { return a.JobID == jobID }), nil
}

func (r *fakeApplicationRepo) FindByUser(db *gorm.DB, userID string) ([]models.Application, error) {
	return r.list(func(a *models.Application) bool { return a.UserID == userID }), nil
}

func (r *fakeApplicationRepo) UpdateStatus(db *gorm.DB, id string, status models.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return repositories.ErrApplicationNotFound
	}
	a.Status = status
	return nil
}

func (r *fakeApplicationRepo) ExistsByResume(db *gorm.DB, userID, resume string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.UserID == userID && a.Resume == resume {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeApplicationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

// ---------------------------------------------------------------------------
// analytics
// ---------------------------------------------------------------------------

type fakeAnalyticsRepo struct {
	totals *repositories.PlatformTotals
	rows   []repositories.StatusCount
	err    error
}

func (r *fakeAnalyticsRepo) GetTotals(db *gorm.DB) (*repositories.PlatformTotals, error) {
	return r.totals, r.err
}

func (r *fakeAnalyticsRepo) GetStatusBreakdown(db *gorm.DB) ([]repositories.StatusCount, error) {
	return r.rows, r.err
}

// ---------------------------------------------------------------------------
// storage / mail / extractor
// ---------------------------------------------------------------------------

type fakeStorage struct {
	mu       sync.Mutex
	files    map[string][]byte
	failSave error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) Save(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if s.failSave != nil {
		return s.failSave
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = data
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.files[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, key)
	return nil
}

func (s *fakeStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[key]
	return ok
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}

type sentMail struct {
	Kind   string
	To     string
	OTP    string
	Status models.ApplicationStatus
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) record(mail sentMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *fakeMailer) SendOTP(ctx context.Context, to, name, otp string) error {
	return m.record(sentMail{Kind: "otp", To: to, OTP: otp})
}

func (m *fakeMailer) SendWelcome(ctx context.Context, to, name string) error {
	return m.record(sentMail{Kind: "welcome", To: to})
}

func (m *fakeMailer) SendApplicationStatus(ctx context.Context, to, name string, job *models.Job, status models.ApplicationStatus) error {
	return m.record(sentMail{Kind: "status", To: to, Status: status})
}

func (m *fakeMailer) all() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeExtractor struct {
	text  string
	err   error
	calls int
}

func (e *fakeExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	e.calls++
	return e.text, e.err
}

var errBoom = errors.New("boom")

// newFileHeader собирает настоящий *multipart.FileHeader через multipart.Reader
func newFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="resume"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["resume"][0]
}
