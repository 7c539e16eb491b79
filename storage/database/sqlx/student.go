package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/student"
)

const studentCols = "id, name, room, email, phone"

type studentRow struct {
	ID    int64       `db:"id"`
	Name  string      `db:"name"`
	Room  null.String `db:"room"`
	Email null.String `db:"email"`
	Phone null.String `db:"phone"`
}

func (r studentRow) toStudent() student.Student {
	return student.Student{
		ID:    r.ID,
		Name:  r.Name,
		Room:  r.Room.String,
		Email: r.Email.String,
		Phone: r.Phone.String,
	}
}

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{exec: exec}
}

func (repo *studentRepository) get(ctx context.Context, where interface{}) (student.Student, error) {
	q, args, err := psql.Select(studentCols).From("students").Where(where).ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student query")
	}
	var row studentRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		if isNoRows(err) {
			return student.Student{}, student.ErrNotFound
		}
		return student.Student{}, errors.Wrap(err, "selecting student")
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	q, args, err := psql.Insert("students").
		Columns("name", "room", "email", "phone").
		Values(s.Name, nullString(s.Room), nullString(s.Email), nullString(s.Phone)).
		Suffix("RETURNING " + studentCols).
		ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student insert")
	}
	var row studentRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		if isUniqueViolation(err) {
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return row.toStudent(), nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	q, args, err := psql.Select(studentCols).From("students").OrderBy("id DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building students query")
	}
	var rows []studentRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	studs := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		studs = append(studs, r.toStudent())
	}
	return studs, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id int64) (student.Student, error) {
	return repo.get(ctx, sq.Eq{"id": id})
}

func (repo *studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	return repo.get(ctx, sq.Eq{"email": email})
}

// EnsureStudentByEmail inserts `s` unless its email is taken, then reads the winner back.
// A unique violation from a concurrent insert is retried once as a lookup.
func (repo *studentRepository) EnsureStudentByEmail(ctx context.Context, s student.Student) (student.Student, error) {
	q, args, err := psql.Insert("students").
		Columns("name", "email").
		Values(s.Name, s.Email).
		Suffix("ON CONFLICT (email) DO NOTHING RETURNING " + studentCols).
		ToSql()
	if err != nil {
		return student.Student{}, errors.Wrap(err, "building student upsert")
	}

	var row studentRow
	err = sqlx.GetContext(ctx, repo.exec, &row, q, args...)
	switch {
	case err == nil:
		return row.toStudent(), nil
	case isNoRows(err), isUniqueViolation(err):
		return repo.GetStudentByEmail(ctx, s.Email)
	default:
		return student.Student{}, errors.Wrap(err, "upserting student")
	}
}
