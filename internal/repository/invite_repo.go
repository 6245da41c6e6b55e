package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/matleal/fit-pro/internal/models"
)

type InviteCodeRepository struct {
	db DBTX
}

func NewInviteCodeRepository(db DBTX) *InviteCodeRepository {
	return &InviteCodeRepository{db: db}
}

func (r *InviteCodeRepository) Create(ctx context.Context, code string, teacherID int64, courseID *int64) (*models.InviteCode, error) {
	query := `
		INSERT INTO invite_codes (code, teacher_id, course_id)
		VALUES ($1, $2, $3)
		RETURNING id, code, teacher_id, course_id, used, used_by_email, used_at, created_at, expires_at
	`
	return r.scanInvite(r.db.QueryRow(ctx, query, code, teacherID, courseID))
}

func (r *InviteCodeRepository) GetByID(ctx context.Context, id int64) (*models.InviteCode, error) {
	query := `
		SELECT id, code, teacher_id, course_id, used, used_by_email, used_at, created_at, expires_at
		FROM invite_codes
		WHERE id = $1
	`
	return r.scanInvite(r.db.QueryRow(ctx, query, id))
}

func (r *InviteCodeRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invite_codes WHERE code = $1)`, code).
		Scan(&exists)
	return exists, err
}

// GetByCode returns the invite with its teacher and, when course-bound, the
// course projection shown on the invite landing page.
func (r *InviteCodeRepository) GetByCode(ctx context.Context, code string) (*models.InviteCodeDetail, error) {
	query := `
		SELECT i.id, i.code, i.teacher_id, i.course_id, i.used, i.used_by_email, i.used_at, i.created_at, i.expires_at,
		       u.id, u.name, u.image,
		       c.id, c.name, c.description
		FROM invite_codes i
		JOIN users u ON u.id = i.teacher_id
		LEFT JOIN courses c ON c.id = i.course_id
		WHERE i.code = $1
	`
	var detail models.InviteCodeDetail
	var teacher models.UserRef
	var courseID *int64
	var courseName *string
	var courseDescription *string
	err := r.db.QueryRow(ctx, query, code).Scan(
		&detail.ID,
		&detail.Code,
		&detail.TeacherID,
		&detail.CourseID,
		&detail.Used,
		&detail.UsedByEmail,
		&detail.UsedAt,
		&detail.CreatedAt,
		&detail.ExpiresAt,
		&teacher.ID,
		&teacher.Name,
		&teacher.Image,
		&courseID,
		&courseName,
		&courseDescription,
	)
	if err != nil {
		return nil, err
	}
	detail.Teacher = &teacher
	if courseID != nil && courseName != nil {
		detail.Course = &models.CourseRef{ID: *courseID, Name: *courseName, Description: courseDescription}
	}
	return &detail, nil
}

func (r *InviteCodeRepository) ListByTeacherID(ctx context.Context, teacherID int64) ([]models.InviteCodeDetail, error) {
	query := `
		SELECT i.id, i.code, i.teacher_id, i.course_id, i.used, i.used_by_email, i.used_at, i.created_at, i.expires_at,
		       c.id, c.name
		FROM invite_codes i
		LEFT JOIN courses c ON c.id = i.course_id
		WHERE i.teacher_id = $1
		ORDER BY i.created_at DESC, i.id DESC
	`
	rows, err := r.db.Query(ctx, query, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := make([]models.InviteCodeDetail, 0)
	for rows.Next() {
		var detail models.InviteCodeDetail
		var courseID *int64
		var courseName *string
		if err := rows.Scan(
			&detail.ID,
			&detail.Code,
			&detail.TeacherID,
			&detail.CourseID,
			&detail.Used,
			&detail.UsedByEmail,
			&detail.UsedAt,
			&detail.CreatedAt,
			&detail.ExpiresAt,
			&courseID,
			&courseName,
		); err != nil {
			return nil, err
		}
		if courseID != nil && courseName != nil {
			detail.Course = &models.CourseRef{ID: *courseID, Name: *courseName}
		}
		invites = append(invites, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return invites, nil
}

// MarkUsed stamps the terminal used state. It never fires twice: the WHERE
// clause skips invites already consumed.
func (r *InviteCodeRepository) MarkUsed(ctx context.Context, id int64, email string) error {
	query := `
		UPDATE invite_codes
		SET used = TRUE, used_at = NOW(), used_by_email = $2
		WHERE id = $1 AND NOT used
	`
	_, err := r.db.Exec(ctx, query, id, email)
	return err
}

func (r *InviteCodeRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM invite_codes WHERE id = $1`, id)
	return err
}

func (r *InviteCodeRepository) scanInvite(row pgx.Row) (*models.InviteCode, error) {
	var invite models.InviteCode
	err := row.Scan(
		&invite.ID,
		&invite.Code,
		&invite.TeacherID,
		&invite.CourseID,
		&invite.Used,
		&invite.UsedByEmail,
		&invite.UsedAt,
		&invite.CreatedAt,
		&invite.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return &invite, nil
}
