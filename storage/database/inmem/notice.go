package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shms/core/notice"
)

type noticeRepository struct {
	db *noticeTable
}

var _ notice.Repository = (*noticeRepository)(nil) // interface compliance check

func NewNoticeRepository(db *DB) *noticeRepository {
	return &noticeRepository{db: db.notice}
}

func (repo *noticeRepository) CreateNotice(_ context.Context, n notice.Notice) (notice.Notice, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pk++
	n.ID = repo.db.pk
	repo.db.table[n.ID] = &n
	return n, nil
}

func (repo *noticeRepository) QueryAllNotices(context.Context) ([]notice.Notice, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	notices := make([]notice.Notice, 0, len(repo.db.table))
	for _, n := range repo.db.table {
		notices = append(notices, *n)
	}
	// YYYY-MM-DD sorts lexically
	sort.Slice(notices, func(i, j int) bool {
		if notices[i].Date == notices[j].Date {
			return notices[i].ID > notices[j].ID
		}
		return notices[i].Date > notices[j].Date
	})
	return notices, nil
}
