package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shms/core/complaint"
	"github.com/trezcool/shms/core/user"
)

type complaintResponse struct {
	Success   bool                `json:"success"`
	Complaint complaint.Complaint `json:"complaint"`
}

func Test_complaintApi(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	student := app.token(t, user.RoleStudent)
	staff := app.token(t, user.RoleStaff)

	t.Run("empty list", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/complaints", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("category or details required", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/complaints", student, map[string]string{"student": "x@uni.edu"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var res errorResponse
		decode(t, rec, &res)
		assert.Contains(t, res.Errors, "category")
		assert.Contains(t, res.Errors, "details")
	})

	var first complaint.Complaint
	t.Run("unknown email creates one student", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rec := app.do(http.MethodPost, "/api/complaints", student, map[string]string{"student": "New@Uni.edu", "category": "water"})
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			var res complaintResponse
			decode(t, rec, &res)
			assert.True(t, res.Success)
			assert.Equal(t, complaint.StatusPending, res.Complaint.Status)
			require.NotNil(t, res.Complaint.StudentID)
			if i == 0 {
				first = res.Complaint
			} else {
				assert.Equal(t, *first.StudentID, *res.Complaint.StudentID)
			}
		}

		studs, err := app.store.Students.QueryAllStudents(ctx)
		require.NoError(t, err)
		require.Len(t, studs, 1)
		assert.Equal(t, "new@uni.edu", studs[0].Email)
		assert.Equal(t, "new", studs[0].Name)
	})

	t.Run("non-email student stays unlinked", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/complaints", student, map[string]string{"student": "Room 12", "details": "leak"})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		var res complaintResponse
		decode(t, rec, &res)
		assert.Nil(t, res.Complaint.StudentID)
	})

	t.Run("resolve", func(t *testing.T) {
		rec := app.do(http.MethodPut, "/api/complaints/"+itoa(first.ID), staff, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res complaintResponse
		decode(t, rec, &res)
		assert.Equal(t, complaint.StatusResolved, res.Complaint.Status)
		assert.Equal(t, first.Category, res.Complaint.Category)
	})

	t.Run("patch", func(t *testing.T) {
		rec := app.do(http.MethodPut, "/api/complaints/"+itoa(first.ID), staff, map[string]string{"status": "closed", "details": "fixed pump"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res complaintResponse
		decode(t, rec, &res)
		assert.Equal(t, "closed", res.Complaint.Status)
		assert.Equal(t, "fixed pump", res.Complaint.Details)
		assert.Equal(t, "water", res.Complaint.Category)
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := app.do(http.MethodPut, "/api/complaints/999", staff, nil)
		checkError(t, rec, http.StatusNotFound, "")
		rec = app.do(http.MethodPut, "/api/complaints/lol", staff, nil)
		checkError(t, rec, http.StatusNotFound, "")
	})

	t.Run("list is newest first", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/api/complaints", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var comps []complaint.Complaint
		decode(t, rec, &comps)
		require.Len(t, comps, 3)
		assert.Equal(t, first.ID, comps[2].ID)
		assert.Equal(t, "new@uni.edu", comps[2].Student)
	})
}
