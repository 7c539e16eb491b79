package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shms/core/outpass"
)

type outpassRepository struct {
	db       *outpassTable
	students *studentTable
}

var _ outpass.Repository = (*outpassRepository)(nil) // interface compliance check

func NewOutpassRepository(db *DB) *outpassRepository {
	return &outpassRepository{db: db.outpass, students: db.student}
}

func (repo *outpassRepository) withStudent(o outpass.Outpass) outpass.Outpass {
	if email := repo.students.emailOf(o.StudentID); email != "" {
		o.Student = email
	}
	return o
}

func (repo *outpassRepository) CreateOutpass(_ context.Context, o outpass.Outpass) (outpass.Outpass, error) {
	repo.db.mutex.Lock()
	repo.db.pk++
	o.ID = repo.db.pk
	repo.db.table[o.ID] = &o
	repo.db.mutex.Unlock()
	return repo.withStudent(o), nil
}

func (repo *outpassRepository) QueryAllOutpasses(context.Context) ([]outpass.Outpass, error) {
	repo.db.mutex.RLock()
	outs := make([]outpass.Outpass, 0, len(repo.db.table))
	for _, o := range repo.db.table {
		outs = append(outs, *o)
	}
	repo.db.mutex.RUnlock()

	sort.Slice(outs, func(i, j int) bool {
		if outs[i].CreatedAt.Equal(outs[j].CreatedAt) {
			return outs[i].ID > outs[j].ID
		}
		return outs[i].CreatedAt.After(outs[j].CreatedAt)
	})
	for i := range outs {
		outs[i] = repo.withStudent(outs[i])
	}
	return outs, nil
}

func (repo *outpassRepository) GetOutpassByID(_ context.Context, id int64) (outpass.Outpass, error) {
	repo.db.mutex.RLock()
	o, ok := repo.db.table[id]
	var found outpass.Outpass
	if ok {
		found = *o
	}
	repo.db.mutex.RUnlock()

	if !ok {
		return outpass.Outpass{}, outpass.ErrNotFound
	}
	return repo.withStudent(found), nil
}

func (repo *outpassRepository) UpdateOutpass(_ context.Context, id int64, uo outpass.UpdateOutpass) (outpass.Outpass, error) {
	repo.db.mutex.Lock()
	o, ok := repo.db.table[id]
	if !ok {
		repo.db.mutex.Unlock()
		return outpass.Outpass{}, outpass.ErrNotFound
	}
	if uo.FromStatus != "" && o.Status != uo.FromStatus {
		repo.db.mutex.Unlock()
		return outpass.Outpass{}, outpass.ErrStatusChanged
	}
	// only save set fields
	if uo.FromDate != nil {
		o.FromDate = *uo.FromDate
	}
	if uo.ToDate != nil {
		o.ToDate = *uo.ToDate
	}
	if uo.Reason != nil {
		o.Reason = *uo.Reason
	}
	if uo.Status != nil {
		o.Status = *uo.Status
	}
	updated := *o
	repo.db.mutex.Unlock()
	return repo.withStudent(updated), nil
}
