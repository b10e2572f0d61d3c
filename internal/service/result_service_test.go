package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/result-processing-api/internal/dto"
	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

func TestRecordScoreDerivesGradeAndCreatesDraft(t *testing.T) {
	h := newHarness(t)

	result := h.record(t, lecturer, studentAda.ID, courseCSC101.ID, 25, 50)

	assert.Equal(t, 75.0, result.Total)
	assert.Equal(t, "A", result.Grade)
	assert.Equal(t, 5.0, result.GradePoint)
	assert.Equal(t, models.ResultStatusDraft, result.Status)
	require.NotNil(t, result.SubmittedBy)
	assert.Equal(t, lecturer.ID, *result.SubmittedBy)
	assert.Equal(t, []string{models.AuditActionUploadScore}, h.audit.actions())
}

func TestRecordScoreUpsertsByNaturalKey(t *testing.T) {
	h := newHarness(t)

	first := h.record(t, lecturer, studentAda.ID, courseCSC101.ID, 25, 50)
	second := h.record(t, lecturer, studentAda.ID, courseCSC101.ID, 10, 38)

	assert.Equal(t, 1, h.store.count())
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 48.0, second.Total)
	assert.Equal(t, "D", second.Grade)
	assert.Equal(t, []string{models.AuditActionUploadScore, models.AuditActionUpdateScore}, h.audit.actions())
}

func TestRecordScoreTotalIsAlwaysCAPlusExam(t *testing.T) {
	h := newHarness(t)
	for _, ca := range []float64{0, 7.5, 12.25, 30} {
		for _, exam := range []float64{0, 33.5, 69.75, 70} {
			result := h.record(t, lecturer, studentAda.ID, courseCSC101.ID, ca, exam)
			assert.Equal(t, ca+exam, result.Total)
			again := h.results.scales.(fixedScale).scale.Grade(result.Total)
			assert.Equal(t, again.Grade, result.Grade)
			assert.Equal(t, again.GradePoint, result.GradePoint)
		}
	}
}

func TestRecordScoreRejectsOutOfRangeScores(t *testing.T) {
	h := newHarness(t)
	cases := map[string]dto.RecordScoreRequest{
		"ca above 30":   scoreRequest(studentAda.ID, courseCSC101.ID, 31, 50),
		"negative exam": scoreRequest(studentAda.ID, courseCSC101.ID, 20, -1),
		"exam above 70": scoreRequest(studentAda.ID, courseCSC101.ID, 20, 70.5),
	}
	missing := scoreRequest(studentAda.ID, courseCSC101.ID, 0, 0)
	missing.CA = nil
	cases["missing ca"] = missing

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.results.RecordScore(context.Background(), req, lecturer)
			require.Error(t, err)
			assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
		})
	}
	assert.Zero(t, h.store.count())
}

func TestRecordScoreLockedSemesterForEveryRole(t *testing.T) {
	h := newHarness(t)
	h.locks[testSession+"/First"] = true

	for _, actor := range []models.Actor{lecturer, hodCS, admin} {
		_, err := h.results.RecordScore(context.Background(), scoreRequest(studentAda.ID, courseCSC101.ID, 20, 40), actor)
		require.Error(t, err)
		assert.True(t, appErrors.Is(err, appErrors.ErrLockedSemester), "role %s", actor.Role)
	}
	assert.Zero(t, h.store.count())

	req := scoreRequest(studentAda.ID, courseCSC101.ID, 20, 40)
	req.Semester = models.SemesterSecond
	_, err := h.results.RecordScore(context.Background(), req, lecturer)
	require.NoError(t, err)
}

func TestRecordScoreRefusesApprovedResults(t *testing.T) {
	h := newHarness(t)
	result := h.recordSubmitted(t, studentAda.ID, courseCSC101.ID, 25, 50)
	_, err := h.lifecycle.Approve(context.Background(), []string{result.ID}, hodCS)
	require.NoError(t, err)

	_, err = h.results.RecordScore(context.Background(), scoreRequest(studentAda.ID, courseCSC101.ID, 1, 1), lecturer)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrImmutableState))
	assert.Equal(t, 75.0, h.store.get(result.ID).Total)
}

func TestRecordScoreMovesRejectedBackToDraft(t *testing.T) {
	h := newHarness(t)
	result := h.recordSubmitted(t, studentAda.ID, courseCSC101.ID, 25, 50)
	_, err := h.lifecycle.Reject(context.Background(), []string{result.ID}, "CA sheet missing", hodCS)
	require.NoError(t, err)

	corrected := h.record(t, lecturer, studentAda.ID, courseCSC101.ID, 28, 50)
	assert.Equal(t, result.ID, corrected.ID)
	assert.Equal(t, models.ResultStatusDraft, corrected.Status)
	assert.Nil(t, corrected.RejectionReason)
}

func TestRecordScoreHonoursEditPolicy(t *testing.T) {
	h := newHarness(t)
	h.policy.allowEdit = false

	h.record(t, lecturer, studentAda.ID, courseCSC101.ID, 25, 50)
	_, err := h.results.RecordScore(context.Background(), scoreRequest(studentAda.ID, courseCSC101.ID, 20, 50), lecturer)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	rejected := h.record(t, lecturer, studentBayo.ID, courseCSC101.ID, 10, 20)
	h.submit(t, lecturer, courseCSC101.ID)
	_, err = h.lifecycle.Reject(context.Background(), []string{rejected.ID}, "recheck", hodCS)
	require.NoError(t, err)
	corrected := h.record(t, lecturer, studentBayo.ID, courseCSC101.ID, 15, 30)
	assert.Equal(t, models.ResultStatusDraft, corrected.Status)
}

func TestRecordScoreUnknownReferences(t *testing.T) {
	h := newHarness(t)

	_, err := h.results.RecordScore(context.Background(), scoreRequest("ghost", courseCSC101.ID, 10, 10), lecturer)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = h.results.RecordScore(context.Background(), scoreRequest(studentAda.ID, "no-course", 10, 10), lecturer)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestBulkRecordCollectsPerEntryErrors(t *testing.T) {
	h := newHarness(t)
	req := dto.BulkRecordRequest{
		CourseID: courseCSC101.ID,
		Session:  testSession,
		Semester: models.SemesterFirst,
		Submit:   true,
		Entries: []dto.ScoreEntry{
			{StudentID: studentAda.ID, CA: floatPtr(25), Exam: floatPtr(50)},
			{StudentID: "", CA: floatPtr(10), Exam: floatPtr(10)},
			{StudentID: studentBayo.ID, CA: floatPtr(40), Exam: floatPtr(10)},
			{StudentID: "ghost", CA: floatPtr(10), Exam: floatPtr(10)},
		},
	}

	outcome, err := h.results.BulkRecord(context.Background(), req, lecturer)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Processed)
	assert.Equal(t, 3, outcome.Failed)
	assert.Equal(t, 1, outcome.Submitted)
	require.Len(t, outcome.Errors, 3)
	assert.Equal(t, 2, outcome.Errors[0].Row)
	assert.Equal(t, "studentId is required", outcome.Errors[0].Message)
	assert.Equal(t, 3, outcome.Errors[1].Row)
	assert.Contains(t, outcome.Errors[1].Message, "CA score")
	assert.Equal(t, "student not found", outcome.Errors[2].Message)
}

func TestBulkRecordRequiresBothScores(t *testing.T) {
	h := newHarness(t)
	req := dto.BulkRecordRequest{
		CourseID: courseCSC101.ID,
		Session:  testSession,
		Semester: models.SemesterFirst,
		Entries: []dto.ScoreEntry{
			{StudentID: studentAda.ID, Exam: floatPtr(50)},
			{StudentID: studentBayo.ID, CA: floatPtr(20)},
		},
	}

	outcome, err := h.results.BulkRecord(context.Background(), req, lecturer)
	require.NoError(t, err)
	assert.Zero(t, outcome.Processed)
	require.Len(t, outcome.Errors, 2)
	assert.Equal(t, dto.ItemError{Row: 1, StudentID: studentAda.ID, Message: "ca is required"}, outcome.Errors[0])
	assert.Equal(t, dto.ItemError{Row: 2, StudentID: studentBayo.ID, Message: "exam is required"}, outcome.Errors[1])
	assert.Zero(t, h.store.count())
}

func TestImportCSVReportsRowErrors(t *testing.T) {
	h := newHarness(t)
	sheet := strings.Join([]string{
		"Matric Number,CA,Exam",
		"csc/2020/001, 20, 45",
		"UNKNOWN/1,10,10",
		"CSC/2020/002,abc,10",
		"CSC/2020/002,10,71",
		"CSC/2020/002,NaN,50",
		"CSC/2020/002,20,Inf",
	}, "\n")

	outcome, err := h.results.ImportCSV(context.Background(), courseTerm(courseCSC101.ID), strings.NewReader(sheet), lecturer)
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.Uploaded)
	assert.Equal(t, 5, outcome.Failed)
	require.Len(t, outcome.Errors, 5)
	assert.Equal(t, dto.ItemError{Row: 3, MatricNumber: "UNKNOWN/1", Message: importStudentNotFound}, outcome.Errors[0])
	assert.Equal(t, importInvalidCA, outcome.Errors[1].Message)
	assert.Equal(t, importInvalidExam, outcome.Errors[2].Message)
	assert.Equal(t, dto.ItemError{Row: 6, MatricNumber: "CSC/2020/002", Message: importInvalidCA}, outcome.Errors[3])
	assert.Equal(t, importInvalidExam, outcome.Errors[4].Message)

	listed, err := h.results.ByCourse(context.Background(), courseTerm(courseCSC101.ID))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, studentAda.ID, listed[0].StudentID)
	assert.Equal(t, 65.0, listed[0].Total)
}

func TestRecordScoreRoundsComponentsBeforeTotal(t *testing.T) {
	h := newHarness(t)

	result := h.record(t, lecturer, studentAda.ID, courseCSC101.ID, 10.005, 50.005)
	assert.Equal(t, 10.01, result.CA)
	assert.Equal(t, 50.01, result.Exam)
	assert.Equal(t, 60.02, result.Total)
	assert.Equal(t, "B", result.Grade)
}

func TestImportCSVRejectsOversizedSheet(t *testing.T) {
	h := newHarness(t)
	h.results.maxRows = 2
	sheet := "CSC/2020/001,1,1\nCSC/2020/002,1,1\nCSC/2020/003,1,1\n"

	_, err := h.results.ImportCSV(context.Background(), courseTerm(courseCSC101.ID), strings.NewReader(sheet), lecturer)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Zero(t, h.store.count())
}

func TestImportCSVLockedSemester(t *testing.T) {
	h := newHarness(t)
	h.locks[testSession+"/First"] = true

	_, err := h.results.ImportCSV(context.Background(), courseTerm(courseCSC101.ID), strings.NewReader("CSC/2020/001,1,1"), lecturer)
	assert.True(t, appErrors.Is(err, appErrors.ErrLockedSemester))
}

func TestScoreSheetTemplatePrefillsScores(t *testing.T) {
	h := newHarness(t)
	h.record(t, lecturer, studentAda.ID, courseCSC101.ID, 25, 50.5)

	sheet, err := h.results.ScoreSheetTemplate(context.Background(), courseTerm(courseCSC101.ID))
	require.NoError(t, err)
	assert.Equal(t, "matricNumber,CA,exam\nCSC/2020/001,25,50.5\n", string(sheet))
}

func TestOverrideRefreshesGPAOfFinalizedResult(t *testing.T) {
	h := newHarness(t)
	result := h.recordSubmitted(t, studentAda.ID, courseCSC101.ID, 25, 50)
	_, err := h.lifecycle.Approve(context.Background(), []string{result.ID}, hodCS)
	require.NoError(t, err)

	term := models.StudentTerm{StudentID: studentAda.ID, Session: testSession, Semester: models.SemesterFirst}
	before, ok := h.records.record(term)
	require.True(t, ok)
	assert.Equal(t, 5.0, before.GPA)

	outcome, err := h.results.Override(context.Background(), result.ID, dto.OverrideRequest{CA: floatPtr(10), Exam: floatPtr(40), Reason: "script re-marked"}, admin)
	require.NoError(t, err)
	assert.Empty(t, outcome.Warnings)
	assert.Equal(t, "C", outcome.Result.Grade)
	assert.Equal(t, models.ResultStatusHODApproved, h.store.status(result.ID))

	after, ok := h.records.record(term)
	require.True(t, ok)
	assert.Equal(t, 3.0, after.GPA)
	assert.Contains(t, h.audit.actions(), models.AuditActionOverrideGrade)
}

func TestOverrideGuards(t *testing.T) {
	h := newHarness(t)
	result := h.record(t, lecturer, studentAda.ID, courseCSC101.ID, 25, 50)

	_, err := h.results.Override(context.Background(), result.ID, dto.OverrideRequest{CA: floatPtr(1), Exam: floatPtr(1), Reason: "x"}, hodCS)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	_, err = h.results.Override(context.Background(), result.ID, dto.OverrideRequest{CA: floatPtr(1), Exam: floatPtr(1), Reason: " "}, admin)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))

	_, err = h.results.Override(context.Background(), "missing", dto.OverrideRequest{CA: floatPtr(1), Exam: floatPtr(1), Reason: "x"}, admin)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	h.locks[testSession+"/First"] = true
	outcome, err := h.results.Override(context.Background(), result.ID, dto.OverrideRequest{CA: floatPtr(1), Exam: floatPtr(1), Reason: "locked but allowed"}, admin)
	require.NoError(t, err)
	assert.Equal(t, 2.0, outcome.Result.Total)
}

func TestGetScopesByRole(t *testing.T) {
	h := newHarness(t)
	result := h.recordSubmitted(t, studentAda.ID, courseCSC101.ID, 25, 50)

	_, err := h.results.Get(context.Background(), result.ID, hodMath)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	detail, err := h.results.Get(context.Background(), result.ID, hodCS)
	require.NoError(t, err)
	assert.Equal(t, "CSC101", detail.CourseCode)

	_, err = h.results.Get(context.Background(), result.ID, studentActor)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))

	_, err = h.lifecycle.Publish(context.Background(), []string{result.ID}, admin)
	require.NoError(t, err)
	_, err = h.results.Get(context.Background(), result.ID, studentActor)
	require.NoError(t, err)

	other := models.Actor{ID: studentBayo.UserID, Role: models.RoleStudent}
	_, err = h.results.Get(context.Background(), result.ID, other)
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestListConfinesHODToDepartment(t *testing.T) {
	h := newHarness(t)
	h.record(t, lecturer, studentAda.ID, courseCSC101.ID, 25, 50)
	h.record(t, lecturer, studentAda.ID, courseMTH101.ID, 20, 40)

	details, page, err := h.results.List(context.Background(), models.ResultFilter{Department: deptMath}, hodCS)
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, courseCSC101.ID, details[0].CourseID)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, 1, page.TotalCount)

	all, _, err := h.results.List(context.Background(), models.ResultFilter{}, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, _, err = h.results.List(context.Background(), models.ResultFilter{Semester: "Third"}, admin)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestMineReturnsOnlyPublished(t *testing.T) {
	h := newHarness(t)
	published := h.recordSubmitted(t, studentAda.ID, courseCSC101.ID, 25, 50)
	h.record(t, lecturer, studentAda.ID, courseCSC102.ID, 20, 40)
	_, err := h.lifecycle.Publish(context.Background(), []string{published.ID}, admin)
	require.NoError(t, err)

	mine, err := h.results.Mine(context.Background(), studentAda.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, published.ID, mine[0].ID)

	all, err := h.results.ForStudent(context.Background(), studentAda.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = h.results.Mine(context.Background(), "nobody")
	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}
