package sqlxrepos

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/outpass"
)

type outpassRow struct {
	ID        int64       `db:"id"`
	StudentID null.Int64  `db:"student_id"`
	Student   null.String `db:"student"`
	FromDate  null.Time   `db:"from_date"`
	ToDate    null.Time   `db:"to_date"`
	Reason    null.String `db:"reason"`
	Status    string      `db:"status"`
	CreatedAt time.Time   `db:"created_at"`
}

func (r outpassRow) toOutpass() outpass.Outpass {
	return outpass.Outpass{
		ID:        r.ID,
		StudentID: int64Ptr(r.StudentID),
		Student:   r.Student.String,
		FromDate:  formatDate(r.FromDate),
		ToDate:    formatDate(r.ToDate),
		Reason:    r.Reason.String,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

type outpassRepository struct {
	exec core.DBExecutor
}

var _ outpass.Repository = (*outpassRepository)(nil) // interface compliance check

func NewOutpassRepository(exec core.DBExecutor) *outpassRepository {
	return &outpassRepository{exec: exec}
}

func (repo *outpassRepository) selectOutpasses() sq.SelectBuilder {
	return psql.
		Select("o.id", "o.student_id", "s.email AS student", "o.from_date", "o.to_date", "o.reason", "o.status", "o.created_at").
		From("outpasses o").
		LeftJoin("students s ON s.id = o.student_id")
}

func (repo *outpassRepository) CreateOutpass(ctx context.Context, o outpass.Outpass) (outpass.Outpass, error) {
	q, args, err := psql.Insert("outpasses").
		Columns("student_id", "from_date", "to_date", "reason", "status", "created_at").
		Values(o.StudentID, nullDate(o.FromDate), nullDate(o.ToDate), nullString(o.Reason), o.Status, o.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return outpass.Outpass{}, errors.Wrap(err, "building outpass insert")
	}
	var id int64
	if err = sqlx.GetContext(ctx, repo.exec, &id, q, args...); err != nil {
		return outpass.Outpass{}, errors.Wrap(err, "inserting outpass")
	}
	return repo.GetOutpassByID(ctx, id)
}

func (repo *outpassRepository) QueryAllOutpasses(ctx context.Context) ([]outpass.Outpass, error) {
	q, args, err := repo.selectOutpasses().OrderBy("o.created_at DESC", "o.id DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building outpasses query")
	}
	var rows []outpassRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting outpasses")
	}
	outs := make([]outpass.Outpass, 0, len(rows))
	for _, r := range rows {
		outs = append(outs, r.toOutpass())
	}
	return outs, nil
}

func (repo *outpassRepository) GetOutpassByID(ctx context.Context, id int64) (outpass.Outpass, error) {
	q, args, err := repo.selectOutpasses().Where(sq.Eq{"o.id": id}).ToSql()
	if err != nil {
		return outpass.Outpass{}, errors.Wrap(err, "building outpass query")
	}
	var row outpassRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		if isNoRows(err) {
			return outpass.Outpass{}, outpass.ErrNotFound
		}
		return outpass.Outpass{}, errors.Wrap(err, "selecting outpass")
	}
	return row.toOutpass(), nil
}

func (repo *outpassRepository) UpdateOutpass(ctx context.Context, id int64, uo outpass.UpdateOutpass) (outpass.Outpass, error) {
	b := psql.Update("outpasses").Where(sq.Eq{"id": id})
	if uo.FromStatus != "" {
		b = b.Where(sq.Eq{"status": uo.FromStatus})
	}
	var set bool
	if uo.FromDate != nil {
		b, set = b.Set("from_date", nullDate(*uo.FromDate)), true
	}
	if uo.ToDate != nil {
		b, set = b.Set("to_date", nullDate(*uo.ToDate)), true
	}
	if uo.Reason != nil {
		b, set = b.Set("reason", *uo.Reason), true
	}
	if uo.Status != nil {
		b, set = b.Set("status", *uo.Status), true
	}
	if !set {
		return repo.GetOutpassByID(ctx, id)
	}

	q, args, err := b.ToSql()
	if err != nil {
		return outpass.Outpass{}, errors.Wrap(err, "building outpass update")
	}
	res, err := repo.exec.ExecContext(ctx, q, args...)
	if err != nil {
		return outpass.Outpass{}, errors.Wrap(err, "updating outpass")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if uo.FromStatus == "" {
			return outpass.Outpass{}, outpass.ErrNotFound
		}
		if _, err = repo.GetOutpassByID(ctx, id); err != nil {
			return outpass.Outpass{}, err
		}
		return outpass.Outpass{}, outpass.ErrStatusChanged
	}
	return repo.GetOutpassByID(ctx, id)
}
