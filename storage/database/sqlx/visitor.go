package sqlxrepos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/visitor"
)

const visitorCols = "id, name, visitor_for, id_proof, phone, in_time, out_time"

type visitorRow struct {
	ID         int64       `db:"id"`
	Name       string      `db:"name"`
	VisitorFor null.String `db:"visitor_for"`
	IDProof    null.String `db:"id_proof"`
	Phone      null.String `db:"phone"`
	InTime     time.Time   `db:"in_time"`
	OutTime    null.Time   `db:"out_time"`
}

func (r visitorRow) toVisitor() visitor.Visitor {
	v := visitor.Visitor{
		ID:         r.ID,
		Name:       r.Name,
		VisitorFor: r.VisitorFor.String,
		IDProof:    r.IDProof.String,
		Phone:      r.Phone.String,
		InTime:     r.InTime.UTC(),
	}
	if r.OutTime.Valid {
		out := r.OutTime.Time.UTC()
		v.OutTime = &out
	}
	return v
}

type visitorRepository struct {
	exec core.DBExecutor
}

var _ visitor.Repository = (*visitorRepository)(nil) // interface compliance check

func NewVisitorRepository(exec core.DBExecutor) *visitorRepository {
	return &visitorRepository{exec: exec}
}

func (repo *visitorRepository) CreateVisitor(ctx context.Context, v visitor.Visitor) (visitor.Visitor, error) {
	q, args, err := psql.Insert("visitors").
		Columns("name", "visitor_for", "id_proof", "phone", "in_time", "out_time").
		Values(v.Name, nullString(v.VisitorFor), nullString(v.IDProof), nullString(v.Phone), v.InTime, null.TimeFromPtr(v.OutTime)).
		Suffix("RETURNING " + visitorCols).
		ToSql()
	if err != nil {
		return visitor.Visitor{}, errors.Wrap(err, "building visitor insert")
	}
	var row visitorRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		return visitor.Visitor{}, errors.Wrap(err, "inserting visitor")
	}
	return row.toVisitor(), nil
}

func (repo *visitorRepository) QueryAllVisitors(ctx context.Context) ([]visitor.Visitor, error) {
	q, args, err := psql.Select(visitorCols).From("visitors").OrderBy("in_time DESC", "id DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building visitors query")
	}
	var rows []visitorRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting visitors")
	}
	visitors := make([]visitor.Visitor, 0, len(rows))
	for _, r := range rows {
		visitors = append(visitors, r.toVisitor())
	}
	return visitors, nil
}
