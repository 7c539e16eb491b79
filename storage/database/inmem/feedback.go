package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shms/core/feedback"
)

type feedbackRepository struct {
	db       *feedbackTable
	students *studentTable
}

var _ feedback.Repository = (*feedbackRepository)(nil) // interface compliance check

func NewFeedbackRepository(db *DB) *feedbackRepository {
	return &feedbackRepository{db: db.feedback, students: db.student}
}

func (repo *feedbackRepository) CreateFeedback(_ context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	repo.db.mutex.Lock()
	repo.db.pk++
	f.ID = repo.db.pk
	repo.db.table[f.ID] = &f
	repo.db.mutex.Unlock()

	if email := repo.students.emailOf(f.StudentID); email != "" {
		f.Student = email
	}
	return f, nil
}

func (repo *feedbackRepository) QueryAllFeedbacks(context.Context) ([]feedback.Feedback, error) {
	repo.db.mutex.RLock()
	fbs := make([]feedback.Feedback, 0, len(repo.db.table))
	for _, f := range repo.db.table {
		fbs = append(fbs, *f)
	}
	repo.db.mutex.RUnlock()

	sort.Slice(fbs, func(i, j int) bool { return fbs[i].ID > fbs[j].ID })
	for i := range fbs {
		if email := repo.students.emailOf(fbs[i].StudentID); email != "" {
			fbs[i].Student = email
		}
	}
	return fbs, nil
}
