package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/result-processing-api/internal/models"
)

const resultColumns = `id, student_id, course_id, session, semester, ca, exam, total, grade, grade_point, status, remarks,
submitted_by, submitted_at, hod_approved_by, hod_approved_at, approved_by, approved_at, rejected_by, rejected_at,
rejection_reason, published_by, published_at, created_at, updated_at`

const resultDetailSelect = `SELECT r.id, r.student_id, r.course_id, r.session, r.semester, r.ca, r.exam, r.total, r.grade,
r.grade_point, r.status, r.remarks, r.submitted_by, r.submitted_at, r.hod_approved_by, r.hod_approved_at, r.approved_by,
r.approved_at, r.rejected_by, r.rejected_at, r.rejection_reason, r.published_by, r.published_at, r.created_at, r.updated_at,
s.matric_number, s.full_name AS student_name, c.course_code, c.title AS course_title, c.credit_unit,
c.department AS course_department
FROM results r
JOIN students s ON s.id = r.student_id
JOIN courses c ON c.id = r.course_id`

const transitionReturning = `RETURNING id, student_id, course_id, session, semester, status`

// ResultRepository persists results keyed by (student, course, session, semester).
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs the repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

type upsertedResult struct {
	models.Result
	Inserted bool `db:"inserted"`
}

// Upsert creates the result or updates scores of the existing row for its key in a
// single statement. Rows in hod_approved or published are left untouched, in which
// case sql.ErrNoRows is returned. Editing a rejected row moves it back to draft.
// The returned bool is true when a new row was inserted.
func (r *ResultRepository) Upsert(ctx context.Context, result *models.Result) (bool, error) {
	now := time.Now().UTC()
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.Status == "" {
		result.Status = models.ResultStatusDraft
	}
	result.CreatedAt = now
	result.UpdatedAt = now

	const query = `INSERT INTO results (id, student_id, course_id, session, semester, ca, exam, total, grade, grade_point,
status, remarks, submitted_by, created_at, updated_at)
VALUES (:id, :student_id, :course_id, :session, :semester, :ca, :exam, :total, :grade, :grade_point,
:status, :remarks, :submitted_by, :created_at, :updated_at)
ON CONFLICT (student_id, course_id, session, semester)
DO UPDATE SET ca = EXCLUDED.ca, exam = EXCLUDED.exam, total = EXCLUDED.total, grade = EXCLUDED.grade,
              grade_point = EXCLUDED.grade_point, remarks = COALESCE(EXCLUDED.remarks, results.remarks),
              submitted_by = EXCLUDED.submitted_by,
              status = CASE WHEN results.status = 'rejected' THEN 'draft' ELSE results.status END,
              rejection_reason = CASE WHEN results.status = 'rejected' THEN NULL ELSE results.rejection_reason END,
              updated_at = EXCLUDED.updated_at
WHERE results.status NOT IN ('hod_approved', 'published')
RETURNING ` + resultColumns + `, (xmax = 0) AS inserted`

	rows, err := r.db.NamedQueryContext(ctx, query, result)
	if err != nil {
		return false, fmt.Errorf("upsert result: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return false, fmt.Errorf("upsert result: %w", err)
		}
		return false, sql.ErrNoRows
	}
	var stored upsertedResult
	if err := rows.StructScan(&stored); err != nil {
		return false, fmt.Errorf("scan upserted result: %w", err)
	}
	*result = stored.Result
	return stored.Inserted, nil
}

// FindByKey returns the result for the natural key.
func (r *ResultRepository) FindByKey(ctx context.Context, key models.ResultKey) (*models.Result, error) {
	query := `SELECT ` + resultColumns + ` FROM results
WHERE student_id = $1 AND course_id = $2 AND session = $3 AND semester = $4`
	var result models.Result
	if err := r.db.GetContext(ctx, &result, query, key.StudentID, key.CourseID, key.Session, key.Semester); err != nil {
		return nil, err
	}
	return &result, nil
}

// FindByID returns a result joined with its student and course.
func (r *ResultRepository) FindByID(ctx context.Context, id string) (*models.ResultDetail, error) {
	var detail models.ResultDetail
	if err := r.db.GetContext(ctx, &detail, resultDetailSelect+` WHERE r.id = $1`, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByIDs returns the results with the given ids. Unknown ids are omitted.
func (r *ResultRepository) ListByIDs(ctx context.Context, ids []string) ([]models.ResultDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var details []models.ResultDetail
	if err := r.db.SelectContext(ctx, &details, resultDetailSelect+` WHERE r.id = ANY($1)`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list results by ids: %w", err)
	}
	return details, nil
}

// List returns results matching filter plus the total count before pagination.
func (r *ResultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.ResultDetail, int, error) {
	where, args := buildResultFilter(filter)

	countQuery := `SELECT COUNT(*) FROM results r JOIN students s ON s.id = r.student_id JOIN courses c ON c.id = r.course_id` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count results: %w", err)
	}

	page, size := normalizePage(filter.Page, filter.PageSize)
	query := resultDetailSelect + where +
		fmt.Sprintf(" ORDER BY r.session DESC, r.semester DESC, c.course_code ASC, r.total DESC LIMIT %d OFFSET %d", size, (page-1)*size)

	var details []models.ResultDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list results: %w", err)
	}
	return details, total, nil
}

// ListByCourse returns every result of a course for a term ordered by total, highest first.
func (r *ResultRepository) ListByCourse(ctx context.Context, courseID, session string, semester models.Semester) ([]models.ResultDetail, error) {
	query := resultDetailSelect + ` WHERE r.course_id = $1 AND r.session = $2 AND r.semester = $3
ORDER BY r.total DESC, s.matric_number ASC`
	var details []models.ResultDetail
	if err := r.db.SelectContext(ctx, &details, query, courseID, session, semester); err != nil {
		return nil, fmt.Errorf("list course results: %w", err)
	}
	return details, nil
}

// ListByStudent returns a student's results, optionally limited to statuses.
func (r *ResultRepository) ListByStudent(ctx context.Context, studentID string, statuses []models.ResultStatus) ([]models.ResultDetail, error) {
	query := resultDetailSelect + ` WHERE r.student_id = $1`
	args := []interface{}{studentID}
	if len(statuses) > 0 {
		args = append(args, pq.Array(statusStrings(statuses)))
		query += ` AND r.status = ANY($2)`
	}
	query += ` ORDER BY r.session ASC, r.semester ASC, c.course_code ASC`
	var details []models.ResultDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("list student results: %w", err)
	}
	return details, nil
}

// SubmitDrafts moves the actor's draft results of a course term to submitted.
func (r *ResultRepository) SubmitDrafts(ctx context.Context, courseID, session string, semester models.Semester, actorID string, at time.Time) ([]models.TransitionedResult, error) {
	query := `UPDATE results SET status = 'submitted', submitted_at = $1, updated_at = $1
WHERE course_id = $2 AND session = $3 AND semester = $4 AND status = 'draft' AND submitted_by = $5
` + transitionReturning
	var moved []models.TransitionedResult
	if err := r.db.SelectContext(ctx, &moved, query, at, courseID, session, semester, actorID); err != nil {
		return nil, fmt.Errorf("submit results: %w", err)
	}
	return moved, nil
}

// Transition moves the given results from any of the from statuses to to, writing
// the stamp columns that belong to the target status. Rows not currently in a from
// status are skipped, so repeating a transition changes nothing.
func (r *ResultRepository) Transition(ctx context.Context, ids []string, from []models.ResultStatus, to models.ResultStatus, stamp models.TransitionStamp) ([]models.TransitionedResult, error) {
	if len(ids) == 0 || len(from) == 0 {
		return nil, nil
	}
	args := []interface{}{to, stamp.At}
	set := []string{"status = $1", "updated_at = $2"}
	actorArg := func() string {
		args = append(args, stamp.Actor)
		return fmt.Sprintf("$%d", len(args))
	}

	switch to {
	case models.ResultStatusHODApproved:
		actor := actorArg()
		set = append(set, "hod_approved_by = "+actor, "hod_approved_at = $2")
		if stamp.AdminApproval {
			set = append(set, "approved_by = "+actor, "approved_at = $2")
		}
	case models.ResultStatusRejected:
		set = append(set, "rejected_by = "+actorArg(), "rejected_at = $2")
		args = append(args, stamp.Reason)
		set = append(set, fmt.Sprintf("rejection_reason = $%d", len(args)))
	case models.ResultStatusPublished:
		set = append(set, "published_by = "+actorArg(), "published_at = $2")
	case models.ResultStatusSubmitted:
		set = append(set, "submitted_at = $2")
	}

	args = append(args, pq.Array(ids))
	idsArg := len(args)
	args = append(args, pq.Array(statusStrings(from)))
	fromArg := len(args)

	query := fmt.Sprintf("UPDATE results SET %s WHERE id = ANY($%d) AND status = ANY($%d) %s",
		strings.Join(set, ", "), idsArg, fromArg, transitionReturning)

	var moved []models.TransitionedResult
	if err := r.db.SelectContext(ctx, &moved, query, args...); err != nil {
		return nil, fmt.Errorf("transition results to %s: %w", to, err)
	}
	return moved, nil
}

// Override rewrites scores of a result regardless of its status.
func (r *ResultRepository) Override(ctx context.Context, result *models.Result) error {
	result.UpdatedAt = time.Now().UTC()
	const query = `UPDATE results SET ca = :ca, exam = :exam, total = :total, grade = :grade, grade_point = :grade_point,
remarks = :remarks, updated_at = :updated_at
WHERE id = :id`
	return execAffectingOne(ctx, r.db, query, result, "override result")
}

// ListCreditedGrades returns every finalized result of a student with its course credit units.
func (r *ResultRepository) ListCreditedGrades(ctx context.Context, studentID string) ([]models.CreditedGrade, error) {
	const query = `SELECT r.id AS result_id, r.course_id, r.session, r.semester, r.grade_point, c.credit_unit
FROM results r
JOIN courses c ON c.id = r.course_id
WHERE r.student_id = $1 AND r.status = ANY($2)
ORDER BY r.session ASC, r.semester ASC, r.course_id ASC`
	var grades []models.CreditedGrade
	if err := r.db.SelectContext(ctx, &grades, query, studentID, pq.Array(statusStrings(models.FinalizedStatuses))); err != nil {
		return nil, fmt.Errorf("list credited grades: %w", err)
	}
	return grades, nil
}

// ListFinalizedTerms returns the distinct student terms with finalized results in a session.
func (r *ResultRepository) ListFinalizedTerms(ctx context.Context, session string) ([]models.StudentTerm, error) {
	const query = `SELECT DISTINCT student_id, session, semester FROM results
WHERE session = $1 AND status = ANY($2)
ORDER BY student_id ASC, semester ASC`
	var terms []models.StudentTerm
	if err := r.db.SelectContext(ctx, &terms, query, session, pq.Array(statusStrings(models.FinalizedStatuses))); err != nil {
		return nil, fmt.Errorf("list finalized terms: %w", err)
	}
	return terms, nil
}

func buildResultFilter(filter models.ResultFilter) (string, []interface{}) {
	conditions := make([]string, 0, 6)
	args := make([]interface{}, 0, 6)
	if filter.StudentID != "" {
		args = append(args, filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("r.student_id = $%d", len(args)))
	}
	if filter.CourseID != "" {
		args = append(args, filter.CourseID)
		conditions = append(conditions, fmt.Sprintf("r.course_id = $%d", len(args)))
	}
	if filter.Session != "" {
		args = append(args, filter.Session)
		conditions = append(conditions, fmt.Sprintf("r.session = $%d", len(args)))
	}
	if filter.Semester != "" {
		args = append(args, filter.Semester)
		conditions = append(conditions, fmt.Sprintf("r.semester = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conditions = append(conditions, fmt.Sprintf("c.department = $%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		args = append(args, pq.Array(statusStrings(filter.Statuses)))
		conditions = append(conditions, fmt.Sprintf("r.status = ANY($%d)", len(args)))
	}
	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func statusStrings(statuses []models.ResultStatus) []string {
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}
	return values
}

func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 50
	}
	return page, size
}
