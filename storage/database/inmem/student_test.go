package inmemdb

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shms/core/student"
)

func TestStudentRepository_EnsureStudentByEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(NewDB())

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[int64]struct{})
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := repo.EnsureStudentByEmail(ctx, student.Student{Name: "new", Email: "new@uni.edu"})
			if assert.NoError(t, err) {
				mu.Lock()
				ids[s.ID] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1)
	studs, err := repo.QueryAllStudents(ctx)
	require.NoError(t, err)
	assert.Len(t, studs, 1)
}

func TestStudentRepository_CreateStudent(t *testing.T) {
	ctx := context.Background()
	repo := NewStudentRepository(NewDB())

	s1, err := repo.CreateStudent(ctx, student.Student{Name: "A", Email: "a@uni.edu"})
	require.NoError(t, err)
	s2, err := repo.CreateStudent(ctx, student.Student{Name: "No Email"})
	require.NoError(t, err)
	_, err = repo.CreateStudent(ctx, student.Student{Name: "Also No Email"})
	require.NoError(t, err, "students without email do not collide")

	_, err = repo.CreateStudent(ctx, student.Student{Name: "Dup", Email: "a@uni.edu"})
	assert.Equal(t, student.ErrEmailExists, err)

	studs, err := repo.QueryAllStudents(ctx)
	require.NoError(t, err)
	require.Len(t, studs, 3)
	assert.True(t, studs[0].ID > s2.ID && s2.ID > s1.ID, "newest first")

	_, err = repo.GetStudentByID(ctx, 99)
	assert.Equal(t, student.ErrNotFound, err)

	got, err := repo.GetStudentByEmail(ctx, "a@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, s1, got)
}
