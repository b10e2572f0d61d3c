package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

var testTokens = map[string]*models.JWTClaims{
	"admin":    {UserID: "admin-1", Role: models.RoleAdmin},
	"hod":      {UserID: "hod-1", Role: models.RoleHOD, Department: "Computer Science"},
	"lecturer": {UserID: "lect-1", Role: models.RoleLecturer},
	"student":  {UserID: "user-stu-1", Role: models.RoleStudent},
}

type tokenStub struct{}

func (tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	claims, ok := testTokens[token]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return claims, nil
}

type resultServiceStub struct {
	recordErr  error
	recorded   dto.RecordScoreRequest
	imported   dto.CourseTermQuery
	sheet      string
	filter     models.ResultFilter
	mineUserID string
}

func (s *resultServiceStub) RecordScore(ctx context.Context, req dto.RecordScoreRequest, actor models.Actor) (*models.Result, error) {
	if s.recordErr != nil {
		return nil, s.recordErr
	}
	s.recorded = req
	return &models.Result{ID: "res-1", StudentID: req.StudentID, CourseID: req.CourseID, Grade: "A", GradePoint: 5, Status: models.ResultStatusDraft}, nil
}

func (s *resultServiceStub) BulkRecord(ctx context.Context, req dto.BulkRecordRequest, actor models.Actor) (*dto.BulkOutcome, error) {
	return &dto.BulkOutcome{Processed: len(req.Entries)}, nil
}

func (s *resultServiceStub) ImportCSV(ctx context.Context, query dto.CourseTermQuery, sheet io.Reader, actor models.Actor) (*dto.ImportOutcome, error) {
	s.imported = query
	body, err := io.ReadAll(sheet)
	if err != nil {
		return nil, err
	}
	s.sheet = string(body)
	return &dto.ImportOutcome{Uploaded: 1}, nil
}

func (s *resultServiceStub) ScoreSheetTemplate(ctx context.Context, query dto.CourseTermQuery) ([]byte, error) {
	return []byte("matricNumber,CA,exam\n"), nil
}

func (s *resultServiceStub) Override(ctx context.Context, id string, req dto.OverrideRequest, actor models.Actor) (*dto.OverrideOutcome, error) {
	return &dto.OverrideOutcome{Result: &models.Result{ID: id}}, nil
}

func (s *resultServiceStub) Get(ctx context.Context, id string, actor models.Actor) (*models.ResultDetail, error) {
	if id == "missing" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
	}
	return &models.ResultDetail{Result: models.Result{ID: id}}, nil
}

func (s *resultServiceStub) List(ctx context.Context, filter models.ResultFilter, actor models.Actor) ([]models.ResultDetail, *models.Pagination, error) {
	s.filter = filter
	return []models.ResultDetail{}, &models.Pagination{Page: 1, PageSize: 50}, nil
}

func (s *resultServiceStub) ForStudent(ctx context.Context, studentID string) ([]models.ResultDetail, error) {
	return []models.ResultDetail{}, nil
}

func (s *resultServiceStub) Mine(ctx context.Context, userID string) ([]models.ResultDetail, error) {
	s.mineUserID = userID
	return []models.ResultDetail{}, nil
}

func (s *resultServiceStub) ByCourse(ctx context.Context, query dto.CourseTermQuery) ([]models.ResultDetail, error) {
	return []models.ResultDetail{}, nil
}

type lifecycleServiceStub struct {
	submitErr error
	reason    string
	ids       []string
}

func (s *lifecycleServiceStub) Submit(ctx context.Context, query dto.CourseTermQuery, actor models.Actor) (*dto.TransitionOutcome, error) {
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return &dto.TransitionOutcome{Processed: 2}, nil
}

func (s *lifecycleServiceStub) Approve(ctx context.Context, ids []string, actor models.Actor) (*dto.TransitionOutcome, error) {
	s.ids = ids
	return &dto.TransitionOutcome{Processed: len(ids)}, nil
}

func (s *lifecycleServiceStub) Reject(ctx context.Context, ids []string, reason string, actor models.Actor) (*dto.TransitionOutcome, error) {
	s.ids, s.reason = ids, reason
	return &dto.TransitionOutcome{Processed: len(ids)}, nil
}

func (s *lifecycleServiceStub) Publish(ctx context.Context, ids []string, actor models.Actor) (*dto.TransitionOutcome, error) {
	s.ids = ids
	return &dto.TransitionOutcome{Processed: len(ids)}, nil
}

type gpaServiceStub struct {
	term       models.StudentTerm
	reconciled *string
}

func (s *gpaServiceStub) GetStudentGPA(ctx context.Context, term models.StudentTerm) (*models.GPARecord, error) {
	s.term = term
	return &models.GPARecord{StudentID: term.StudentID, Session: term.Session, Semester: term.Semester, GPA: 4.6, CGPA: 4.6}, nil
}

func (s *gpaServiceStub) Mine(ctx context.Context, userID, session string, semester models.Semester) (*models.GPARecord, error) {
	return &models.GPARecord{Session: session, Semester: semester}, nil
}

func (s *gpaServiceStub) History(ctx context.Context, studentID string) ([]models.GPARecord, error) {
	return []models.GPARecord{}, nil
}

func (s *gpaServiceStub) Recompute(ctx context.Context, studentID string) ([]models.GPARecord, error) {
	return []models.GPARecord{}, nil
}

func (s *gpaServiceStub) Reconcile(ctx context.Context, session string) (int, []string, error) {
	s.reconciled = &session
	return 3, nil, nil
}

type gradingServiceStub struct{}

func (gradingServiceStub) List(ctx context.Context) ([]models.GradingBand, error) {
	return []models.GradingBand{}, nil
}

func (gradingServiceStub) Create(ctx context.Context, req dto.GradingBandRequest, actor models.Actor) (*models.GradingBand, error) {
	return &models.GradingBand{ID: "band-1", Grade: req.Grade}, nil
}

func (gradingServiceStub) Update(ctx context.Context, id string, req dto.GradingBandRequest, actor models.Actor) (*models.GradingBand, error) {
	return &models.GradingBand{ID: id, Grade: req.Grade}, nil
}

func (gradingServiceStub) Delete(ctx context.Context, id string, actor models.Actor) error {
	return nil
}

func (gradingServiceStub) InitializeDefaults(ctx context.Context, actor models.Actor) ([]models.GradingBand, error) {
	return nil, appErrors.Clone(appErrors.ErrConflict, "grading scale already initialized")
}

type sessionServiceStub struct {
	semester models.Semester
	active   *models.AcademicSession
}

func (s *sessionServiceStub) Create(ctx context.Context, req dto.CreateSessionRequest, actor models.Actor) (*models.AcademicSession, error) {
	return &models.AcademicSession{ID: "sess-1", Name: req.Name}, nil
}

func (s *sessionServiceStub) List(ctx context.Context) ([]models.AcademicSession, error) {
	return []models.AcademicSession{}, nil
}

func (s *sessionServiceStub) Active(ctx context.Context) (*models.AcademicSession, error) {
	if s.active == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active session")
	}
	return s.active, nil
}

func (s *sessionServiceStub) Activate(ctx context.Context, id string, actor models.Actor) (*models.AcademicSession, error) {
	return &models.AcademicSession{ID: id, IsActive: true}, nil
}

func (s *sessionServiceStub) Lock(ctx context.Context, id string, semester models.Semester, actor models.Actor) (*models.AcademicSession, error) {
	s.semester = semester
	return &models.AcademicSession{ID: id}, nil
}

func (s *sessionServiceStub) Unlock(ctx context.Context, id string, semester models.Semester, actor models.Actor) (*models.AcademicSession, error) {
	s.semester = semester
	return &models.AcademicSession{ID: id}, nil
}

type settingsServiceStub struct{}

func (settingsServiceStub) List(ctx context.Context) ([]dto.ConfigurationItem, error) {
	return []dto.ConfigurationItem{{Key: models.SettingHODApprovalRequired, Value: "false", Type: "BOOLEAN"}}, nil
}

func (settingsServiceStub) Get(ctx context.Context, key string) (*dto.ConfigurationItem, error) {
	return &dto.ConfigurationItem{Key: key, Value: "true"}, nil
}

func (settingsServiceStub) Update(ctx context.Context, key, value string, actor models.Actor) (*dto.ConfigurationItem, error) {
	return &dto.ConfigurationItem{Key: key, Value: value}, nil
}

type reportServiceStub struct {
	query dto.DepartmentReportQuery
}

func (s *reportServiceStub) DepartmentReport(ctx context.Context, query dto.DepartmentReportQuery, actor models.Actor) (*models.DepartmentReport, error) {
	s.query = query
	return &models.DepartmentReport{Department: actor.Department, Session: query.Session}, nil
}

type auditServiceStub struct {
	query dto.AuditLogQuery
}

func (s *auditServiceStub) List(ctx context.Context, query dto.AuditLogQuery) ([]models.AuditLog, *models.Pagination, error) {
	s.query = query
	return []models.AuditLog{{ID: "log-1", Action: models.AuditActionPublishResults, Resource: "result"}}, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 1}, nil
}

type apiFixture struct {
	router    *gin.Engine
	results   *resultServiceStub
	lifecycle *lifecycleServiceStub
	gpa       *gpaServiceStub
	sessions  *sessionServiceStub
	reports   *reportServiceStub
	audit     *auditServiceStub
}

func newAPIFixture(maxSheetSize int64) *apiFixture {
	gin.SetMode(gin.TestMode)
	f := &apiFixture{
		results:   &resultServiceStub{},
		lifecycle: &lifecycleServiceStub{},
		gpa:       &gpaServiceStub{},
		sessions:  &sessionServiceStub{},
		reports:   &reportServiceStub{},
		audit:     &auditServiceStub{},
	}
	f.router = gin.New()
	RegisterRoutes(f.router.Group("/api/v1"), tokenStub{}, Handlers{
		Results:  NewResultHandler(f.results, f.lifecycle, maxSheetSize),
		GPA:      NewGPAHandler(f.gpa),
		Grading:  NewGradingScaleHandler(gradingServiceStub{}),
		Sessions: NewSessionHandler(f.sessions),
		Settings: NewSettingsHandler(settingsServiceStub{}),
		Reports:  NewReportHandler(f.reports),
		Audit:    NewAuditHandler(f.audit),
	})
	return f
}

func (f *apiFixture) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}
