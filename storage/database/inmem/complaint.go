package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shms/core/complaint"
)

type complaintRepository struct {
	db       *complaintTable
	students *studentTable
}

var _ complaint.Repository = (*complaintRepository)(nil) // interface compliance check

func NewComplaintRepository(db *DB) *complaintRepository {
	return &complaintRepository{db: db.complaint, students: db.student}
}

func (repo *complaintRepository) withStudent(c complaint.Complaint) complaint.Complaint {
	if email := repo.students.emailOf(c.StudentID); email != "" {
		c.Student = email
	}
	return c
}

func (repo *complaintRepository) CreateComplaint(_ context.Context, c complaint.Complaint) (complaint.Complaint, error) {
	repo.db.mutex.Lock()
	repo.db.pk++
	c.ID = repo.db.pk
	repo.db.table[c.ID] = &c
	repo.db.mutex.Unlock()
	return repo.withStudent(c), nil
}

func (repo *complaintRepository) QueryAllComplaints(context.Context) ([]complaint.Complaint, error) {
	repo.db.mutex.RLock()
	comps := make([]complaint.Complaint, 0, len(repo.db.table))
	for _, c := range repo.db.table {
		comps = append(comps, *c)
	}
	repo.db.mutex.RUnlock()

	sort.Slice(comps, func(i, j int) bool {
		if comps[i].CreatedAt.Equal(comps[j].CreatedAt) {
			return comps[i].ID > comps[j].ID
		}
		return comps[i].CreatedAt.After(comps[j].CreatedAt)
	})
	for i := range comps {
		comps[i] = repo.withStudent(comps[i])
	}
	return comps, nil
}

func (repo *complaintRepository) GetComplaintByID(_ context.Context, id int64) (complaint.Complaint, error) {
	repo.db.mutex.RLock()
	c, ok := repo.db.table[id]
	var found complaint.Complaint
	if ok {
		found = *c
	}
	repo.db.mutex.RUnlock()

	if !ok {
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	return repo.withStudent(found), nil
}

func (repo *complaintRepository) UpdateComplaint(_ context.Context, id int64, uc complaint.UpdateComplaint) (complaint.Complaint, error) {
	repo.db.mutex.Lock()
	c, ok := repo.db.table[id]
	if !ok {
		repo.db.mutex.Unlock()
		return complaint.Complaint{}, complaint.ErrNotFound
	}
	// only save set fields
	if uc.Category != nil {
		c.Category = *uc.Category
	}
	if uc.Details != nil {
		c.Details = *uc.Details
	}
	if uc.Status != nil {
		c.Status = *uc.Status
	}
	updated := *c
	repo.db.mutex.Unlock()
	return repo.withStudent(updated), nil
}
