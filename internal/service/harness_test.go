package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/grading"
	"github.com/noah-isme/result-processing-api/internal/models"
)

const (
	testSession = "2023/2024"
	deptCS      = "Computer Science"
	deptMath    = "Mathematics"
)

var (
	courseCSC101 = models.Course{ID: "course-1", Code: "CSC101", Title: "Introduction to Computing", CreditUnit: 3, Department: deptCS}
	courseCSC102 = models.Course{ID: "course-2", Code: "CSC102", Title: "Programming I", CreditUnit: 2, Department: deptCS}
	courseMTH101 = models.Course{ID: "course-3", Code: "MTH101", Title: "Algebra", CreditUnit: 3, Department: deptMath}

	studentAda   = models.Student{ID: "stu-1", UserID: "user-stu-1", MatricNumber: "CSC/2020/001", FullName: "Ada Obi", Department: deptCS}
	studentBayo  = models.Student{ID: "stu-2", UserID: "user-stu-2", MatricNumber: "CSC/2020/002", FullName: "Bayo Ade", Department: deptCS}
	lecturer     = models.Actor{ID: "lect-1", Role: models.RoleLecturer}
	otherLect    = models.Actor{ID: "lect-2", Role: models.RoleLecturer}
	hodCS        = models.Actor{ID: "hod-1", Role: models.RoleHOD, Department: deptCS}
	hodMath      = models.Actor{ID: "hod-2", Role: models.RoleHOD, Department: deptMath}
	admin        = models.Actor{ID: "admin-1", Role: models.RoleAdmin}
	studentActor = models.Actor{ID: "user-stu-1", Role: models.RoleStudent}
)

type harness struct {
	store     *fakeResultStore
	records   *fakeGPARecords
	locks     fakeLocks
	policy    *fakePolicy
	audit     *fakeAudit
	retries   *fakeEnqueuer
	gpa       *GPAService
	lifecycle *LifecycleService
	results   *ResultService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	courses := []models.Course{courseCSC101, courseCSC102, courseMTH101}
	students := []models.Student{studentAda, studentBayo}

	h := &harness{
		store:   newFakeResultStore(courses, students),
		records: newFakeGPARecords(),
		locks:   fakeLocks{},
		policy:  &fakePolicy{allowEdit: true},
		audit:   &fakeAudit{},
		retries: &fakeEnqueuer{},
	}
	courseDir := fakeCourses{}
	for _, c := range courses {
		courseDir[c.ID] = c
	}
	studentDir := fakeStudents{}
	for _, s := range students {
		studentDir[s.ID] = s
	}

	h.gpa = NewGPAService(h.store, h.records, studentDir, fakeActiveSession{}, nil, nil, zap.NewNop(), GPAServiceConfig{Concurrency: 2})
	h.gpa.UseRetryQueue(h.retries)
	h.lifecycle = NewLifecycleService(h.store, h.locks, h.policy, h.gpa, h.audit, nil, zap.NewNop())
	h.results = NewResultService(ResultServiceDeps{
		Results:   h.store,
		Courses:   courseDir,
		Students:  studentDir,
		Locks:     h.locks,
		Policy:    h.policy,
		Scales:    fixedScale{scale: grading.Default()},
		Submitter: h.lifecycle,
		GPA:       h.gpa,
		Audit:     h.audit,
		Logger:    zap.NewNop(),
	}, ResultServiceConfig{MaxImportRows: 10})
	return h
}

func scoreRequest(studentID, courseID string, ca, exam float64) dto.RecordScoreRequest {
	return dto.RecordScoreRequest{
		StudentID: studentID,
		CourseID:  courseID,
		Session:   testSession,
		Semester:  models.SemesterFirst,
		CA:        floatPtr(ca),
		Exam:      floatPtr(exam),
	}
}

func courseTerm(courseID string) dto.CourseTermQuery {
	return dto.CourseTermQuery{CourseID: courseID, Session: testSession, Semester: models.SemesterFirst}
}

func (h *harness) record(t *testing.T, actor models.Actor, studentID, courseID string, ca, exam float64) *models.Result {
	t.Helper()
	result, err := h.results.RecordScore(context.Background(), scoreRequest(studentID, courseID, ca, exam), actor)
	require.NoError(t, err)
	return result
}

func (h *harness) submit(t *testing.T, actor models.Actor, courseID string) {
	t.Helper()
	_, err := h.lifecycle.Submit(context.Background(), courseTerm(courseID), actor)
	require.NoError(t, err)
}

// recordSubmitted records a score and submits it as lecturer.
func (h *harness) recordSubmitted(t *testing.T, studentID, courseID string, ca, exam float64) *models.Result {
	t.Helper()
	result := h.record(t, lecturer, studentID, courseID, ca, exam)
	h.submit(t, lecturer, courseID)
	return result
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
