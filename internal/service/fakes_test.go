package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/result-processing-api/internal/grading"
	"github.com/noah-isme/result-processing-api/internal/models"
	"github.com/noah-isme/result-processing-api/pkg/jobs"
)

// fakeResultStore keeps results in memory with the same key, immutability and
// transition rules as the Postgres repository.
type fakeResultStore struct {
	mu       sync.Mutex
	seq      int
	rows     map[string]*models.Result
	courses  map[string]models.Course
	students map[string]models.Student

	gradesErr  error
	upsertErrs map[string]error
}

func newFakeResultStore(courses []models.Course, students []models.Student) *fakeResultStore {
	store := &fakeResultStore{
		rows:       map[string]*models.Result{},
		courses:    map[string]models.Course{},
		students:   map[string]models.Student{},
		upsertErrs: map[string]error{},
	}
	for _, c := range courses {
		store.courses[c.ID] = c
	}
	for _, s := range students {
		store.students[s.ID] = s
	}
	return store
}

func (f *fakeResultStore) findKey(key models.ResultKey) *models.Result {
	for _, r := range f.rows {
		if r.StudentID == key.StudentID && r.CourseID == key.CourseID && r.Session == key.Session && r.Semester == key.Semester {
			return r
		}
	}
	return nil
}

func (f *fakeResultStore) Upsert(ctx context.Context, result *models.Result) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.upsertErrs[result.StudentID]; err != nil {
		return false, err
	}
	now := time.Now().UTC()
	existing := f.findKey(models.ResultKey{StudentID: result.StudentID, CourseID: result.CourseID, Session: result.Session, Semester: result.Semester})
	if existing == nil {
		f.seq++
		stored := *result
		stored.ID = fmt.Sprintf("res-%d", f.seq)
		stored.Status = models.ResultStatusDraft
		stored.CreatedAt, stored.UpdatedAt = now, now
		f.rows[stored.ID] = &stored
		*result = stored
		return true, nil
	}
	if existing.Status.Immutable() {
		return false, sql.ErrNoRows
	}
	existing.CA, existing.Exam, existing.Total = result.CA, result.Exam, result.Total
	existing.Grade, existing.GradePoint = result.Grade, result.GradePoint
	existing.SubmittedBy = result.SubmittedBy
	if result.Remarks != nil {
		existing.Remarks = result.Remarks
	}
	if existing.Status == models.ResultStatusRejected {
		existing.Status = models.ResultStatusDraft
		existing.RejectionReason = nil
	}
	existing.UpdatedAt = now
	*result = *existing
	return false, nil
}

func (f *fakeResultStore) FindByKey(ctx context.Context, key models.ResultKey) (*models.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r := f.findKey(key); r != nil {
		found := *r
		return &found, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeResultStore) detail(r *models.Result) models.ResultDetail {
	course := f.courses[r.CourseID]
	student := f.students[r.StudentID]
	return models.ResultDetail{
		Result:           *r,
		MatricNumber:     student.MatricNumber,
		StudentName:      student.FullName,
		CourseCode:       course.Code,
		CourseTitle:      course.Title,
		CreditUnit:       course.CreditUnit,
		CourseDepartment: course.Department,
	}
}

func (f *fakeResultStore) FindByID(ctx context.Context, id string) (*models.ResultDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := f.detail(r)
	return &d, nil
}

func (f *fakeResultStore) ListByIDs(ctx context.Context, ids []string) ([]models.ResultDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ResultDetail
	for _, id := range ids {
		if r, ok := f.rows[id]; ok {
			out = append(out, f.detail(r))
		}
	}
	return out, nil
}

func (f *fakeResultStore) sorted() []*models.Result {
	rows := make([]*models.Result, 0, len(f.rows))
	for _, r := range f.rows {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func (f *fakeResultStore) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ResultDetail
	for _, r := range f.sorted() {
		d := f.detail(r)
		if filter.Department != "" && d.CourseDepartment != filter.Department {
			continue
		}
		if filter.CourseID != "" && r.CourseID != filter.CourseID {
			continue
		}
		if filter.StudentID != "" && r.StudentID != filter.StudentID {
			continue
		}
		out = append(out, d)
	}
	return out, len(out), nil
}

func (f *fakeResultStore) ListByCourse(ctx context.Context, courseID, session string, semester models.Semester) ([]models.ResultDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ResultDetail
	for _, r := range f.sorted() {
		if r.CourseID == courseID && r.Session == session && r.Semester == semester {
			out = append(out, f.detail(r))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

func (f *fakeResultStore) ListByStudent(ctx context.Context, studentID string, statuses []models.ResultStatus) ([]models.ResultDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ResultDetail
	for _, r := range f.sorted() {
		if r.StudentID != studentID {
			continue
		}
		if len(statuses) > 0 && !statusIn(r.Status, statuses) {
			continue
		}
		out = append(out, f.detail(r))
	}
	return out, nil
}

func (f *fakeResultStore) Override(ctx context.Context, result *models.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.rows[result.ID]
	if !ok {
		return sql.ErrNoRows
	}
	existing.CA, existing.Exam, existing.Total = result.CA, result.Exam, result.Total
	existing.Grade, existing.GradePoint = result.Grade, result.GradePoint
	existing.UpdatedAt = time.Now().UTC()
	return nil
}

func moved(r *models.Result) models.TransitionedResult {
	return models.TransitionedResult{ID: r.ID, StudentID: r.StudentID, CourseID: r.CourseID, Session: r.Session, Semester: r.Semester, Status: r.Status}
}

func (f *fakeResultStore) SubmitDrafts(ctx context.Context, courseID, session string, semester models.Semester, actorID string, at time.Time) ([]models.TransitionedResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TransitionedResult
	for _, r := range f.sorted() {
		if r.CourseID != courseID || r.Session != session || r.Semester != semester || r.Status != models.ResultStatusDraft {
			continue
		}
		if r.SubmittedBy == nil || *r.SubmittedBy != actorID {
			continue
		}
		stamp := at
		r.Status = models.ResultStatusSubmitted
		r.SubmittedAt = &stamp
		out = append(out, moved(r))
	}
	return out, nil
}

func (f *fakeResultStore) Transition(ctx context.Context, ids []string, from []models.ResultStatus, to models.ResultStatus, stamp models.TransitionStamp) ([]models.TransitionedResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TransitionedResult
	for _, id := range ids {
		r, ok := f.rows[id]
		if !ok || !statusIn(r.Status, from) {
			continue
		}
		at, actor := stamp.At, stamp.Actor
		r.Status = to
		switch to {
		case models.ResultStatusHODApproved:
			r.HODApprovedAt, r.HODApprovedBy = &at, &actor
			if stamp.AdminApproval {
				r.ApprovedAt, r.ApprovedBy = &at, &actor
			}
		case models.ResultStatusRejected:
			reason := stamp.Reason
			r.RejectedAt, r.RejectedBy, r.RejectionReason = &at, &actor, &reason
		case models.ResultStatusPublished:
			r.PublishedAt, r.PublishedBy = &at, &actor
		}
		out = append(out, moved(r))
	}
	return out, nil
}

func (f *fakeResultStore) ListCreditedGrades(ctx context.Context, studentID string) ([]models.CreditedGrade, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gradesErr != nil {
		return nil, f.gradesErr
	}
	var out []models.CreditedGrade
	for _, r := range f.sorted() {
		if r.StudentID != studentID || !r.Status.Finalized() {
			continue
		}
		out = append(out, models.CreditedGrade{
			ResultID:   r.ID,
			CourseID:   r.CourseID,
			Session:    r.Session,
			Semester:   r.Semester,
			GradePoint: r.GradePoint,
			CreditUnit: f.courses[r.CourseID].CreditUnit,
		})
	}
	return out, nil
}

func (f *fakeResultStore) ListFinalizedTerms(ctx context.Context, session string) ([]models.StudentTerm, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.StudentTerm
	for _, r := range f.sorted() {
		if r.Session == session && r.Status.Finalized() {
			out = append(out, models.StudentTerm{StudentID: r.StudentID, Session: r.Session, Semester: r.Semester})
		}
	}
	return uniqueTerms(out), nil
}

func (f *fakeResultStore) status(id string) models.ResultStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[id].Status
}

func (f *fakeResultStore) get(id string) models.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.rows[id]
}

func (f *fakeResultStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeCourses map[string]models.Course

func (f fakeCourses) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := f[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type fakeStudents map[string]models.Student

func (f fakeStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := f[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f fakeStudents) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	for _, s := range f {
		if s.UserID == userID {
			student := s
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeStudents) FindByMatrics(ctx context.Context, matrics []string) (map[string]models.Student, error) {
	out := map[string]models.Student{}
	for _, m := range matrics {
		for _, s := range f {
			if strings.EqualFold(s.MatricNumber, m) {
				out[strings.ToUpper(m)] = s
			}
		}
	}
	return out, nil
}

type fakeGPARecords struct {
	mu        sync.Mutex
	records   map[models.StudentTerm]models.GPARecord
	upsertErr error
	upserts   int
}

func newFakeGPARecords() *fakeGPARecords {
	return &fakeGPARecords{records: map[models.StudentTerm]models.GPARecord{}}
}

func (f *fakeGPARecords) Upsert(ctx context.Context, record *models.GPARecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserts++
	key := models.StudentTerm{StudentID: record.StudentID, Session: record.Session, Semester: record.Semester}
	if existing, ok := f.records[key]; ok {
		record.ID = existing.ID
	} else if record.ID == "" {
		record.ID = "gpa-" + key.CacheKey()
	}
	f.records[key] = *record
	return nil
}

func (f *fakeGPARecords) Get(ctx context.Context, term models.StudentTerm) (*models.GPARecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r, ok := f.records[term]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeGPARecords) ListByStudent(ctx context.Context, studentID string) ([]models.GPARecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.GPARecord
	for _, r := range f.records {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Session != out[j].Session {
			return out[i].Session < out[j].Session
		}
		return out[i].Semester.Order() < out[j].Semester.Order()
	})
	return out, nil
}

func (f *fakeGPARecords) record(term models.StudentTerm) (models.GPARecord, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[term]
	return r, ok
}

type fakeActiveSession struct {
	session *models.AcademicSession
}

func (f fakeActiveSession) FindActive(ctx context.Context) (*models.AcademicSession, error) {
	if f.session == nil {
		return nil, sql.ErrNoRows
	}
	return f.session, nil
}

type fakeLocks map[string]bool

func (f fakeLocks) IsLocked(ctx context.Context, session string, semester models.Semester) (bool, error) {
	return f[session+"/"+string(semester)], nil
}

type fakePolicy struct {
	hodRequired bool
	allowEdit   bool
}

func (f *fakePolicy) HODApprovalRequired(ctx context.Context) (bool, error) {
	return f.hodRequired, nil
}

func (f *fakePolicy) AllowResultEdit(ctx context.Context) (bool, error) {
	return f.allowEdit, nil
}

type fixedScale struct {
	scale grading.Scale
}

func (f fixedScale) ActiveScale(ctx context.Context) (grading.Scale, error) {
	return f.scale, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AuditLog
	err     error
}

func (f *fakeAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, *log)
	return nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.entries))
	for i, e := range f.entries {
		out[i] = e.Action
	}
	return out
}

type fakeEnqueuer struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeEnqueuer) Enqueue(job jobs.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, job.Key)
	return nil
}

func floatPtr(v float64) *float64 { return &v }
