package echoapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/feedback"
	"github.com/trezcool/shms/core/notice"
	"github.com/trezcool/shms/core/room"
	"github.com/trezcool/shms/core/student"
	"github.com/trezcool/shms/core/user"
	"github.com/trezcool/shms/core/visitor"
)

func TestLists_neverNull(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{
		"/api/notices", "/api/students", "/api/complaints", "/api/outpasses",
		"/api/visitors", "/api/rooms", "/api/feedbacks",
	} {
		t.Run(path, func(t *testing.T) {
			rec := app.do(http.MethodGet, path, "", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			notNull(t, rec)
			assert.JSONEq(t, `[]`, rec.Body.String())
		})
	}
}

func Test_noticeApi(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, user.RoleAdmin)

	rec := app.do(http.MethodPost, "/api/notices", admin, map[string]string{"title": "  Water cut  ", "content": "Sunday 9-12"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		Success bool          `json:"success"`
		Notice  notice.Notice `json:"notice"`
	}
	decode(t, rec, &res)
	assert.Equal(t, "Water cut", res.Notice.Title)
	assert.Equal(t, notice.DefaultCategory, res.Notice.Category)
	assert.Equal(t, time.Now().Format(core.DateLayout), res.Notice.Date)

	rec = app.do(http.MethodPost, "/api/notices", admin, map[string]string{"title": "Old", "date": "2026-01-02", "category": "Mess"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(http.MethodPost, "/api/notices", admin, map[string]string{"title": "Bad", "date": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.do(http.MethodPost, "/api/notices", admin, map[string]string{"content": "untitled"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodGet, "/api/notices", "", nil)
	var notices []notice.Notice
	decode(t, rec, &notices)
	require.Len(t, notices, 2)
	assert.Equal(t, "Water cut", notices[0].Title)
	assert.Equal(t, "Old", notices[1].Title)
}

func Test_studentApi(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, user.RoleAdmin)

	rec := app.do(http.MethodPost, "/api/students", admin, map[string]string{"name": "Ravi Kumar", "room": "101", "email": "Ravi@Uni.edu", "phone": "98450"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		Success bool            `json:"success"`
		Student student.Student `json:"student"`
	}
	decode(t, rec, &res)
	assert.Equal(t, "ravi@uni.edu", res.Student.Email)

	rec = app.do(http.MethodPost, "/api/students", admin, map[string]string{"name": "Ravi Again", "email": "ravi@uni.edu"})
	checkError(t, rec, http.StatusConflict, "")

	rec = app.do(http.MethodPost, "/api/students", admin, map[string]string{"email": "anon@uni.edu"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// no email is fine
	rec = app.do(http.MethodPost, "/api/students", admin, map[string]string{"name": "Day Scholar"})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func Test_roomApi(t *testing.T) {
	app := newTestApp(t)
	admin := app.token(t, user.RoleAdmin)

	rec := app.do(http.MethodPost, "/api/rooms", admin, map[string]string{"number": "101"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		Success bool      `json:"success"`
		Room    room.Room `json:"room"`
	}
	decode(t, rec, &res)
	assert.Equal(t, room.Room{ID: res.Room.ID, Number: "101", Capacity: 1, Occupancy: 0}, res.Room)

	rec = app.do(http.MethodPost, "/api/rooms", admin, map[string]interface{}{"number": "102", "capacity": 2, "occupancy": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.do(http.MethodPost, "/api/rooms", admin, map[string]interface{}{"number": "103", "capacity": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(http.MethodGet, "/api/rooms", "", nil)
	var rooms []room.Room
	decode(t, rec, &rooms)
	assert.Len(t, rooms, 1)
}

func Test_visitorApi(t *testing.T) {
	app := newTestApp(t)
	security := app.token(t, user.RoleSecurity)

	before := time.Now().UTC().Add(-time.Second)
	rec := app.do(http.MethodPost, "/api/visitors", security, map[string]string{"name": "Uncle Raj", "visitor_for": "ravi@uni.edu", "id_proof": "DL-42"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		Success bool            `json:"success"`
		Visitor visitor.Visitor `json:"visitor"`
	}
	decode(t, rec, &res)
	assert.True(t, res.Visitor.InTime.After(before))
	assert.Nil(t, res.Visitor.OutTime)

	rec = app.do(http.MethodPost, "/api/visitors", security, map[string]string{
		"name":     "Late",
		"in_time":  "2026-10-20T10:00:00Z",
		"out_time": "2026-10-20T09:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_feedbackApi(t *testing.T) {
	app := newTestApp(t)
	student := app.token(t, user.RoleStudent)

	for _, rating := range []int{0, 6} {
		rec := app.do(http.MethodPost, "/api/feedbacks", student, map[string]interface{}{"rating": rating})
		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	}

	rec := app.do(http.MethodPost, "/api/feedbacks", student, map[string]interface{}{"student": "ravi@uni.edu", "mess": "North", "rating": 4, "comments": "good dal"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		Success  bool              `json:"success"`
		Feedback feedback.Feedback `json:"feedback"`
	}
	decode(t, rec, &res)
	assert.Equal(t, 4, res.Feedback.Rating)
	require.NotNil(t, res.Feedback.StudentID)
	assert.Equal(t, "ravi@uni.edu", res.Feedback.Student)
}

func TestSubmissions_studentID(t *testing.T) {
	app := newTestApp(t)
	token := app.token(t, user.RoleStudent)
	tests := []struct {
		path string
		key  string
		body map[string]interface{}
	}{
		{path: "/api/complaints", key: "complaint", body: map[string]interface{}{"category": "water"}},
		{path: "/api/outpasses", key: "outpass", body: map[string]interface{}{"reason": "family visit"}},
		{path: "/api/feedbacks", key: "feedback", body: map[string]interface{}{"rating": 3}},
	}

	t.Run("unknown id", func(t *testing.T) {
		for _, tt := range tests {
			tt.body["student_id"] = 999
			rec := app.do(http.MethodPost, tt.path, token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, tt.path)
			var res errorResponse
			decode(t, rec, &res)
			assert.Contains(t, res.Errors, "student_id", tt.path)
		}

		studs, err := app.store.Students.QueryAllStudents(context.Background())
		require.NoError(t, err)
		assert.Empty(t, studs)
	})

	t.Run("known id", func(t *testing.T) {
		stud, err := app.store.Students.CreateStudent(context.Background(), student.Student{Name: "Ravi", Email: "ravi@uni.edu"})
		require.NoError(t, err)

		for _, tt := range tests {
			tt.body["student_id"] = stud.ID
			rec := app.do(http.MethodPost, tt.path, token, tt.body)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

			var res map[string]json.RawMessage
			decode(t, rec, &res)
			var linked struct {
				StudentID *int64 `json:"student_id"`
				Student   string `json:"student"`
			}
			require.NoError(t, json.Unmarshal(res[tt.key], &linked), tt.path)
			require.NotNil(t, linked.StudentID, tt.path)
			assert.Equal(t, stud.ID, *linked.StudentID, tt.path)
			assert.Equal(t, "ravi@uni.edu", linked.Student, tt.path)
		}
	})
}
