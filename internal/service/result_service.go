package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/grading"
	"github.com/noah-isme/result-processing-api/internal/models"
	"github.com/noah-isme/result-processing-api/pkg/csvsheet"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

// Score sheet columns, in file order.
var scoreSheetColumns = []string{"matricNumber", "CA", "exam"}

// Row level messages of a score sheet import.
const (
	importStudentNotFound = "Student not found"
	importInvalidCA       = "Invalid CA score"
	importInvalidExam     = "Invalid exam score"
)

type resultRepository interface {
	Upsert(ctx context.Context, result *models.Result) (bool, error)
	FindByKey(ctx context.Context, key models.ResultKey) (*models.Result, error)
	FindByID(ctx context.Context, id string) (*models.ResultDetail, error)
	List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, int, error)
	ListByCourse(ctx context.Context, courseID, session string, semester models.Semester) ([]models.ResultDetail, error)
	ListByStudent(ctx context.Context, studentID string, statuses []models.ResultStatus) ([]models.ResultDetail, error)
	Override(ctx context.Context, result *models.Result) error
}

type courseDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type studentDirectory interface {
	studentReader
	FindByMatrics(ctx context.Context, matrics []string) (map[string]models.Student, error)
}

type editPolicy interface {
	AllowResultEdit(ctx context.Context) (bool, error)
}

type scaleProvider interface {
	ActiveScale(ctx context.Context) (grading.Scale, error)
}

type draftSubmitter interface {
	Submit(ctx context.Context, query dto.CourseTermQuery, actor models.Actor) (*dto.TransitionOutcome, error)
}

// ResultServiceConfig bounds score sheet imports.
type ResultServiceConfig struct {
	MaxImportRows int
}

// ResultService records scores and serves result reads.
type ResultService struct {
	results   resultRepository
	courses   courseDirectory
	students  studentDirectory
	locks     semesterLockChecker
	policy    editPolicy
	scales    scaleProvider
	submitter draftSubmitter
	gpa       gpaRefresher
	audit     auditLogger
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	maxRows   int
}

// ResultServiceDeps groups the collaborators of ResultService.
type ResultServiceDeps struct {
	Results   resultRepository
	Courses   courseDirectory
	Students  studentDirectory
	Locks     semesterLockChecker
	Policy    editPolicy
	Scales    scaleProvider
	Submitter draftSubmitter
	GPA       gpaRefresher
	Audit     auditLogger
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewResultService constructs a ResultService.
func NewResultService(deps ResultServiceDeps, cfg ResultServiceConfig) *ResultService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if cfg.MaxImportRows <= 0 {
		cfg.MaxImportRows = 1000
	}
	return &ResultService{
		results:   deps.Results,
		courses:   deps.Courses,
		students:  deps.Students,
		locks:     deps.Locks,
		policy:    deps.Policy,
		scales:    deps.Scales,
		submitter: deps.Submitter,
		gpa:       deps.GPA,
		audit:     deps.Audit,
		metrics:   deps.Metrics,
		validator: deps.Validator,
		logger:    deps.Logger,
		maxRows:   cfg.MaxImportRows,
	}
}

// scoreBatch carries what every score of one course term shares.
type scoreBatch struct {
	course    *models.Course
	session   string
	semester  models.Semester
	scale     grading.Scale
	allowEdit bool
}

// RecordScore creates or corrects the score of one student in one course term.
func (s *ResultService) RecordScore(ctx context.Context, req dto.RecordScoreRequest, actor models.Actor) (*models.Result, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	if err := grading.ValidateScores(*req.CA, *req.Exam); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	batch, err := s.prepareBatch(ctx, req.CourseID, req.Session, req.Semester)
	if err != nil {
		return nil, err
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		return nil, lookupFailure(err, "student")
	}
	result, _, err := s.record(ctx, batch, req.StudentID, *req.CA, *req.Exam, strPtr(strings.TrimSpace(req.Remarks)), actor)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// BulkRecord records many scores of one course term. Entries fail
// independently and, when requested, the actor's drafts are submitted
// afterwards.
func (s *ResultService) BulkRecord(ctx context.Context, req dto.BulkRecordRequest, actor models.Actor) (*dto.BulkOutcome, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	batch, err := s.prepareBatch(ctx, req.CourseID, req.Session, req.Semester)
	if err != nil {
		return nil, err
	}

	outcome := &dto.BulkOutcome{Errors: []dto.ItemError{}}
	fail := func(row int, studentID, message string) {
		outcome.Failed++
		outcome.Errors = append(outcome.Errors, dto.ItemError{Row: row, StudentID: studentID, Message: message})
	}
	for i, entry := range req.Entries {
		row := i + 1
		if err := s.validator.Struct(entry); err != nil {
			fail(row, entry.StudentID, missingEntryField(err))
			continue
		}
		if err := grading.ValidateScores(*entry.CA, *entry.Exam); err != nil {
			fail(row, entry.StudentID, err.Error())
			continue
		}
		if _, err := s.students.FindByID(ctx, entry.StudentID); err != nil {
			fail(row, entry.StudentID, appErrors.FromError(lookupFailure(err, "student")).Message)
			continue
		}
		if _, _, err := s.record(ctx, batch, entry.StudentID, *entry.CA, *entry.Exam, nil, actor); err != nil {
			fail(row, entry.StudentID, appErrors.FromError(err).Message)
			continue
		}
		outcome.Processed++
	}

	if req.Submit && outcome.Processed > 0 {
		submitted, err := s.submitter.Submit(ctx, dto.CourseTermQuery{CourseID: req.CourseID, Session: batch.session, Semester: req.Semester}, actor)
		if err != nil {
			return nil, err
		}
		outcome.Submitted = submitted.Processed
	}
	return outcome, nil
}

// ImportCSV records a score sheet of matricNumber, CA and exam columns. Rows
// fail independently; a sheet over the row limit is refused as a whole.
func (s *ResultService) ImportCSV(ctx context.Context, query dto.CourseTermQuery, sheet io.Reader, actor models.Actor) (*dto.ImportOutcome, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "courseId, session and semester are required")
	}
	rows, err := csvsheet.Read(sheet, scoreSheetColumns, s.maxRows)
	if err != nil {
		if errors.Is(err, csvsheet.ErrTooManyRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("score sheet exceeds %d rows", s.maxRows))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score sheet")
	}
	batch, err := s.prepareBatch(ctx, query.CourseID, query.Session, query.Semester)
	if err != nil {
		return nil, err
	}

	matrics := make([]string, 0, len(rows))
	for _, row := range rows {
		if matric := normalizeMatric(row.Get("matricNumber")); matric != "" {
			matrics = append(matrics, matric)
		}
	}
	students, err := s.students.FindByMatrics(ctx, matrics)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve matric numbers")
	}

	outcome := &dto.ImportOutcome{Errors: []dto.ItemError{}}
	for _, row := range rows {
		matric := normalizeMatric(row.Get("matricNumber"))
		message := ""
		student, found := students[matric]
		ca, caErr := parseScore(row.Get("CA"), grading.ValidateCA)
		exam, examErr := parseScore(row.Get("exam"), grading.ValidateExam)
		switch {
		case matric == "" || !found:
			message = importStudentNotFound
		case caErr != nil:
			message = importInvalidCA
		case examErr != nil:
			message = importInvalidExam
		default:
			if _, _, err := s.record(ctx, batch, student.ID, ca, exam, nil, actor); err != nil {
				message = appErrors.FromError(err).Message
			}
		}
		if message != "" {
			outcome.Failed++
			outcome.Errors = append(outcome.Errors, dto.ItemError{Row: row.Line, MatricNumber: matric, Message: message})
			continue
		}
		outcome.Uploaded++
	}
	s.metrics.RecordImportRows(outcome.Uploaded, outcome.Failed)
	s.logger.Info("score sheet imported",
		zap.String("course_id", query.CourseID),
		zap.String("session", batch.session),
		zap.String("semester", string(query.Semester)),
		zap.Int("uploaded", outcome.Uploaded),
		zap.Int("failed", outcome.Failed))
	return outcome, nil
}

// ScoreSheetTemplate renders a score sheet for a course term, prefilled with
// the scores recorded so far.
func (s *ResultService) ScoreSheetTemplate(ctx context.Context, query dto.CourseTermQuery) ([]byte, error) {
	details, err := s.ByCourse(ctx, query)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(details))
	for _, d := range details {
		rows = append(rows, []string{
			d.MatricNumber,
			strconv.FormatFloat(d.CA, 'f', -1, 64),
			strconv.FormatFloat(d.Exam, 'f', -1, 64),
		})
	}
	sheet, err := csvsheet.Render(scoreSheetColumns, rows)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render score sheet")
	}
	return sheet, nil
}

// Override corrects the scores of any result, bypassing the semester lock and
// status immutability. Finalized results trigger a GPA refresh.
func (s *ResultService) Override(ctx context.Context, id string, req dto.OverrideRequest, actor models.Actor) (*dto.OverrideOutcome, error) {
	if !actor.IsAdmin() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only an admin can override results")
	}
	if req.CA == nil || req.Exam == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ca and exam are required")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "override reason is required")
	}
	if err := grading.ValidateScores(*req.CA, *req.Exam); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	detail, err := s.results.FindByID(ctx, id)
	if err != nil {
		return nil, lookupFailure(err, "result")
	}
	scale, err := s.scales.ActiveScale(ctx)
	if err != nil {
		return nil, err
	}

	result := detail.Result
	before := scoreSnapshot(result)
	applyScores(&result, scale, *req.CA, *req.Exam)
	if err := s.results.Override(ctx, &result); err != nil {
		return nil, lookupFailure(err, "result")
	}

	outcome := &dto.OverrideOutcome{Result: &result}
	if result.Status.Finalized() {
		outcome.Warnings = s.gpa.RefreshStudents(ctx, []models.StudentTerm{{
			StudentID: result.StudentID, Session: result.Session, Semester: result.Semester,
		}})
	}
	after := scoreSnapshot(result)
	after["reason"] = reason
	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      models.AuditActionOverrideGrade,
		Resource:    "result",
		ResourceID:  strPtr(result.ID),
		Description: fmt.Sprintf("override %s/%s: %s", detail.MatricNumber, detail.CourseCode, reason),
		OldValues:   auditPayload(before),
		NewValues:   auditPayload(after),
	})
	return outcome, nil
}

// Get returns one result. HODs only see their department; students only see
// their own published results.
func (s *ResultService) Get(ctx context.Context, id string, actor models.Actor) (*models.ResultDetail, error) {
	detail, err := s.results.FindByID(ctx, id)
	if err != nil {
		return nil, lookupFailure(err, "result")
	}
	switch actor.Role {
	case models.RoleHOD:
		if !strings.EqualFold(detail.CourseDepartment, actor.Department) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "result is outside your department")
		}
	case models.RoleStudent:
		student, err := s.students.FindByUserID(ctx, actor.ID)
		if err != nil || student.ID != detail.StudentID || detail.Status != models.ResultStatusPublished {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "result not found")
		}
	}
	return detail, nil
}

// List pages through results. HOD listings are confined to their department.
func (s *ResultService) List(ctx context.Context, filter models.ResultFilter, actor models.Actor) ([]models.ResultDetail, *models.Pagination, error) {
	if filter.Semester != "" && !filter.Semester.Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "semester must be First or Second")
	}
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", status))
		}
	}
	if actor.IsHOD() {
		filter.Department = actor.Department
	}
	filter.Page, filter.PageSize = resultPage(filter.Page, filter.PageSize)

	details, total, err := s.results.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list results")
	}
	if details == nil {
		details = []models.ResultDetail{}
	}
	return details, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ForStudent lists every result of a student regardless of status.
func (s *ResultService) ForStudent(ctx context.Context, studentID string) ([]models.ResultDetail, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		return nil, lookupFailure(err, "student")
	}
	return s.listByStudent(ctx, studentID, nil)
}

// Mine lists the published results of the student behind userID.
func (s *ResultService) Mine(ctx context.Context, userID string) ([]models.ResultDetail, error) {
	student, err := s.students.FindByUserID(ctx, userID)
	if err != nil {
		return nil, lookupFailure(err, "student profile")
	}
	return s.listByStudent(ctx, student.ID, []models.ResultStatus{models.ResultStatusPublished})
}

// ByCourse lists a course term's results, highest total first.
func (s *ResultService) ByCourse(ctx context.Context, query dto.CourseTermQuery) ([]models.ResultDetail, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "courseId, session and semester are required")
	}
	if _, err := s.courses.FindByID(ctx, query.CourseID); err != nil {
		return nil, lookupFailure(err, "course")
	}
	details, err := s.results.ListByCourse(ctx, query.CourseID, strings.TrimSpace(query.Session), query.Semester)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course results")
	}
	if details == nil {
		details = []models.ResultDetail{}
	}
	return details, nil
}

func (s *ResultService) listByStudent(ctx context.Context, studentID string, statuses []models.ResultStatus) ([]models.ResultDetail, error) {
	details, err := s.results.ListByStudent(ctx, studentID, statuses)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student results")
	}
	if details == nil {
		details = []models.ResultDetail{}
	}
	return details, nil
}

// prepareBatch checks the lock once and loads what every score of the course
// term needs.
func (s *ResultService) prepareBatch(ctx context.Context, courseID, session string, semester models.Semester) (*scoreBatch, error) {
	session = strings.TrimSpace(session)
	if err := ensureUnlocked(ctx, s.locks, session, semester); err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, lookupFailure(err, "course")
	}
	allowEdit, err := s.policy.AllowResultEdit(ctx)
	if err != nil {
		return nil, err
	}
	scale, err := s.scales.ActiveScale(ctx)
	if err != nil {
		return nil, err
	}
	return &scoreBatch{course: course, session: session, semester: semester, scale: scale, allowEdit: allowEdit}, nil
}

// record derives total and grade and upserts the result by its natural key.
// The returned bool is true when the result was created.
func (s *ResultService) record(ctx context.Context, batch *scoreBatch, studentID string, ca, exam float64, remarks *string, actor models.Actor) (*models.Result, bool, error) {
	key := models.ResultKey{StudentID: studentID, CourseID: batch.course.ID, Session: batch.session, Semester: batch.semester}
	if !batch.allowEdit {
		existing, err := s.results.FindByKey(ctx, key)
		switch {
		case err == nil && existing.Status.Immutable():
			return nil, false, immutableResult(existing.Status)
		case err == nil && existing.Status != models.ResultStatusRejected:
			return nil, false, appErrors.Clone(appErrors.ErrForbidden, "editing recorded results is disabled")
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result")
		}
	}

	result := &models.Result{
		StudentID:   key.StudentID,
		CourseID:    key.CourseID,
		Session:     key.Session,
		Semester:    key.Semester,
		Remarks:     remarks,
		SubmittedBy: actorIDPtr(actor),
	}
	applyScores(result, batch.scale, ca, exam)
	created, err := s.results.Upsert(ctx, result)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, immutableResult("")
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save result")
	}
	s.metrics.RecordScore(created)

	action := models.AuditActionUpdateScore
	if created {
		action = models.AuditActionUploadScore
	}
	recordAudit(ctx, s.audit, s.logger, &models.AuditLog{
		ActorID:     actorIDPtr(actor),
		Action:      action,
		Resource:    "result",
		ResourceID:  strPtr(result.ID),
		Description: fmt.Sprintf("%s %s %s: CA %.2f, exam %.2f", batch.course.Code, key.Session, key.Semester, ca, exam),
		NewValues:   auditPayload(scoreSnapshot(*result)),
	})
	return result, created, nil
}

// applyScores is the only place total, grade and grade point are derived.
func applyScores(result *models.Result, scale grading.Scale, ca, exam float64) {
	result.CA = grading.RoundScore(ca)
	result.Exam = grading.RoundScore(exam)
	result.Total = grading.Total(result.CA, result.Exam)
	outcome := scale.Grade(result.Total)
	result.Grade = outcome.Grade
	result.GradePoint = outcome.GradePoint
}

func scoreSnapshot(r models.Result) map[string]interface{} {
	return map[string]interface{}{
		"ca":         r.CA,
		"exam":       r.Exam,
		"total":      r.Total,
		"grade":      r.Grade,
		"gradePoint": r.GradePoint,
		"status":     r.Status,
	}
}

func immutableResult(status models.ResultStatus) error {
	if status == "" {
		return appErrors.Clone(appErrors.ErrImmutableState, "approved or published results cannot be modified")
	}
	return appErrors.Clone(appErrors.ErrImmutableState, fmt.Sprintf("%s results cannot be modified", status))
}

func parseScore(raw string, check func(float64) error) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if err := check(value); err != nil {
		return 0, err
	}
	return value, nil
}

// missingEntryField names the first required field a bulk entry left out.
func missingEntryField(err error) string {
	var fields validator.ValidationErrors
	if errors.As(err, &fields) && len(fields) > 0 {
		switch fields[0].Field() {
		case "CA":
			return "ca is required"
		case "Exam":
			return "exam is required"
		}
	}
	return "studentId is required"
}

func normalizeMatric(matric string) string {
	return strings.ToUpper(strings.TrimSpace(matric))
}

func resultPage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 50
	}
	return page, size
}

// lookupFailure maps a directory or store read error onto NotFound or Internal.
func lookupFailure(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, what+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+what)
}
