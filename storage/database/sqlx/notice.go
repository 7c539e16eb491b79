package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/notice"
)

const noticeCols = "id, title, category, date, content, archived"

type noticeRow struct {
	ID       int64       `db:"id"`
	Title    string      `db:"title"`
	Category string      `db:"category"`
	Date     null.Time   `db:"date"`
	Content  null.String `db:"content"`
	Archived bool        `db:"archived"`
}

func (r noticeRow) toNotice() notice.Notice {
	return notice.Notice{
		ID:       r.ID,
		Title:    r.Title,
		Category: r.Category,
		Date:     formatDate(r.Date),
		Content:  r.Content.String,
		Archived: r.Archived,
	}
}

type noticeRepository struct {
	exec core.DBExecutor
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(exec core.DBExecutor) *noticeRepository {
	return &noticeRepository{exec: exec}
}

func (repo *noticeRepository) CreateNotice(ctx context.Context, n notice.Notice) (notice.Notice, error) {
	q, args, err := psql.Insert("notices").
		Columns("title", "category", "date", "content", "archived").
		Values(n.Title, n.Category, n.Date, nullString(n.Content), n.Archived).
		Suffix("RETURNING " + noticeCols).
		ToSql()
	if err != nil {
		return notice.Notice{}, errors.Wrap(err, "building notice insert")
	}
	var row noticeRow
	if err = sqlx.GetContext(ctx, repo.exec, &row, q, args...); err != nil {
		return notice.Notice{}, errors.Wrap(err, "inserting notice")
	}
	return row.toNotice(), nil
}

func (repo *noticeRepository) QueryAllNotices(ctx context.Context) ([]notice.Notice, error) {
	q, args, err := psql.Select(noticeCols).From("notices").OrderBy("date DESC", "id DESC").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building notices query")
	}
	var rows []noticeRow
	if err = sqlx.SelectContext(ctx, repo.exec, &rows, q, args...); err != nil {
		return nil, errors.Wrap(err, "selecting notices")
	}
	notices := make([]notice.Notice, 0, len(rows))
	for _, r := range rows {
		notices = append(notices, r.toNotice())
	}
	return notices, nil
}
