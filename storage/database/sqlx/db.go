package sqlxrepos

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shms/core"
)

const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func isNoRows(err error) bool {
	return errors.Cause(err) == sql.ErrNoRows
}

func nullString(s string) null.String {
	return null.NewString(s, s != "")
}

// nullDate maps an empty YYYY-MM-DD string to NULL.
func nullDate(d string) null.String {
	return nullString(d)
}

func formatDate(t null.Time) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(core.DateLayout)
}

func int64Ptr(i null.Int64) *int64 {
	return i.Ptr()
}
