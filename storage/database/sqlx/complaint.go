package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/complaint"
)

type complaintRow struct {
	ID        int64       `db:"id"`
	StudentID null.Int64  `db:"student_id"`
	Student   null.String `db:"student"`
	Category  null.String `db:"category"`
	Details   null.String `db:"details"`
	Status    string      `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r complaintRow) toComplaint() complaint.Complaint {
	return complaint.Complaint{
		ID:        r.ID,
		StudentID: int64Ptr(r.StudentID),
		Student:   r.Student.String,
		Category:  r.Category.String,
		Details:   r.Details.String,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type complaintRepository struct {
	exec core.DBExecutor
}

var _ complaint.Repository = (*complaintRepository)(nil) // interface compliance check

func NewComplaintRepository(exec core.DBExecutor) *complaintRepository {
	return &complaintRepository{exec: exec}
}

// selectComplaints joins the student email onto every complaint.
func (repo *complaintRepository) selectComplaints() sq.SelectBuilder {
	return psql.
		Select("c.id", "c.student_id", "s.email AS student", "c.category", "c.details", "c.status", "c.created_at").
		From("complaints c").
		LeftJoin("students s ON s.id = c.student_id")
}

func (repo *complaintRepository) CreateComplaint(ctx context.Context, c complaint.Complaint) (complaint.Complaint, error) {
	q, args, err := psql.Insert("complaints").
		Columns("student_id", "category", "details", "status", "created_at").
		Values(c.StudentID, nullString(c.Category), nullString(c.Details), c.Status, c.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "building complaint insert")
	}
	var id int64
	if err = sqlx.GetContext(ctx, repo.exec, &id, q, args...); err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "inserting complaint")
	}
	return repo.GetComplaintByID(ctx, id)
}

func (repo *complaintRepository) QueryAllComplaints(ctx context.Context) ([]complaint.Complaint, error) {
	q, args, err := repo.selectComplaints().OrderBy("c.created_at DESC", "c.id DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building complaints query")
	}
	var rows []complaintRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting complaints")
	}
	comps := make([]complaint.Complaint, 0, len(rows))
	for _, r := range rows {
		comps = append(comps, r.toComplaint())
	}
	return comps, nil
}

func (repo *complaintRepository) GetComplaintByID(ctx context.Context, id int64) (complaint.Complaint, error) {
	q, args, err := repo.selectComplaints().Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "building complaint query")
	}
	var row complaintRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		if isNoRows(err) {
			return complaint.Complaint{}, complaint.ErrNotFound
		}
		return complaint.Complaint{}, errors.Wrap(err, "selecting complaint")
	}
	return row.toComplaint(), nil
}

func (repo *complaintRepository) UpdateComplaint(ctx context.Context, id int64, uc complaint.UpdateComplaint) (complaint.Complaint, error) {
	b := psql.Update("complaints").Where(sq.Eq{"id": id})
	var set bool
	if uc.Category != nil {
		b, set = b.Set("category", *uc.Category), true
	}
	if uc.Details != nil {
		b, set = b.Set("details", *uc.Details), true
	}
	if uc.Status != nil {
		b, set = b.Set("status", *uc.Status), true
	}
	if !set {
		return repo.GetComplaintByID(ctx, id)
	}

	q, args, err := b.ToSql()
	if err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "building complaint update")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return complaint.Complaint{}, errors.Wrap(err, "updating complaint")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	return repo.GetComplaintByID(ctx, id)
}
