package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shms/core/visitor"
)

type visitorRepository struct {
	db *visitorTable
}

var _ visitor.Repository = (*visitorRepository)(nil) // interface compliance check

func NewVisitorRepository(db *DB) *visitorRepository {
	return &visitorRepository{db: db.visitor}
}

func (repo *visitorRepository) CreateVisitor(_ context.Context, v visitor.Visitor) (visitor.Visitor, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pk++
	v.ID = repo.db.pk
	repo.db.table[v.ID] = &v
	return v, nil
}

func (repo *visitorRepository) QueryAllVisitors(context.Context) ([]visitor.Visitor, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	visitors := make([]visitor.Visitor, 0, len(repo.db.table))
	for _, v := range repo.db.table {
		visitors = append(visitors, *v)
	}
	sort.Slice(visitors, func(i, j int) bool {
		if visitors[i].InTime.Equal(visitors[j].InTime) {
			return visitors[i].ID > visitors[j].ID
		}
		return visitors[i].InTime.After(visitors[j].InTime)
	})
	return visitors, nil
}
