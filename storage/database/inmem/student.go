package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/shms/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db.student}
}

// insert must be called with the table lock held.
func (repo *studentRepository) insert(s student.Student) (student.Student, error) {
	if s.Email != "" {
		if _, ok := repo.findByEmail(s.Email); ok {
			return student.Student{}, student.ErrEmailExists
		}
	}
	repo.db.pk++
	s.ID = repo.db.pk
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *studentRepository) findByEmail(email string) (student.Student, bool) {
	for _, s := range repo.db.table {
		if s.Email == email {
			return *s, true
		}
	}
	return student.Student{}, false
}

func (repo *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	return repo.insert(s)
}

func (repo *studentRepository) QueryAllStudents(context.Context) ([]student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	studs := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		studs = append(studs, *s)
	}
	sort.Slice(studs, func(i, j int) bool { return studs[i].ID > studs[j].ID })
	return studs, nil
}

func (repo *studentRepository) GetStudentByID(_ context.Context, id int64) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByEmail(_ context.Context, email string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.findByEmail(email); ok {
		return s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) EnsureStudentByEmail(_ context.Context, s student.Student) (student.Student, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if existing, ok := repo.findByEmail(s.Email); ok {
		return existing, nil
	}
	return repo.insert(s)
}
