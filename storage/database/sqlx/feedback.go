package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/feedback"
)

type feedbackRow struct {
	ID        int64       `db:"id"`
	StudentID null.Int64  `db:"student_id"`
	Student   null.String `db:"student"`
	Mess      null.String `db:"mess"`
	Rating    int         `db:"rating"`
	Comments  null.String `db:"comments"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r feedbackRow) toFeedback() feedback.Feedback {
	return feedback.Feedback{
		ID:        r.ID,
		StudentID: int64Ptr(r.StudentID),
		Student:   r.Student.String,
		Mess:      r.Mess.String,
		Rating:    r.Rating,
		Comments:  r.Comments.String,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type feedbackRepository struct {
	exec core.DBExecutor
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(exec core.DBExecutor) *feedbackRepository {
	return &feedbackRepository{exec: exec}
}

func (repo *feedbackRepository) selectFeedbacks() sq.SelectBuilder {
	return psql.
		Select("f.id", "f.student_id", "s.email AS student", "f.mess", "f.rating", "f.comments", "f.created_at").
		From("feedbacks f").
		LeftJoin("students s ON s.id = f.student_id")
}

func (repo *feedbackRepository) CreateFeedback(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	q, args, err := psql.Insert("feedbacks").
		Columns("student_id", "mess", "rating", "comments", "created_at").
		Values(f.StudentID, nullString(f.Mess), f.Rating, nullString(f.Comments), f.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "building feedback insert")
	}
	var id int64
	if err = sqlx.GetContext(ctx, repo.exec, &id, q, args...); err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "inserting feedback")
	}

	q, args, err = repo.selectFeedbacks().Where(sq.Eq{"f.id": id}).ToSql()
	if err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "building feedback query")
	}
	var row feedbackRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		return feedback.Feedback{}, errors.Wrap(err, "selecting feedback")
	}
	return row.toFeedback(), nil
}

func (repo *feedbackRepository) QueryAllFeedbacks(ctx context.Context) ([]feedback.Feedback, error) {
	q, args, err := repo.selectFeedbacks().OrderBy("f.id DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building feedbacks query")
	}
	var rows []feedbackRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting feedbacks")
	}
	fbs := make([]feedback.Feedback, 0, len(rows))
	for _, r := range rows {
		fbs = append(fbs, r.toFeedback())
	}
	return fbs, nil
}
