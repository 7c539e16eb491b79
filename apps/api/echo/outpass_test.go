package echoapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/outpass"
	"github.com/trezcool/shms/core/user"
)

type outpassResponse struct {
	Success bool            `json:"success"`
	Outpass outpass.Outpass `json:"outpass"`
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func requestOutpass(t *testing.T, app *testApp) outpass.Outpass {
	t.Helper()
	rec := app.do(http.MethodPost, "/api/outpasses", app.token(t, user.RoleStudent), map[string]string{
		"student":   "ravi@uni.edu",
		"from_date": "2026-10-20",
		"to_date":   "2026-10-22",
		"reason":    "family visit",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res outpassResponse
	decode(t, rec, &res)
	return res.Outpass
}

func setOutpassStatus(app *testApp, token string, id int64, status string) (outpassResponse, int) {
	rec := app.do(http.MethodPut, "/api/outpasses/"+itoa(id), token, map[string]string{"status": status})
	var res outpassResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &res)
	return res, rec.Code
}

func Test_outpassApi_lifecycle(t *testing.T) {
	app := newTestApp(t)
	staff := app.token(t, user.RoleStaff)
	security := app.token(t, user.RoleSecurity)

	out := requestOutpass(t, app)
	assert.Equal(t, outpass.StatusPending, out.Status)
	assert.Equal(t, "2026-10-20", out.FromDate)
	assert.Equal(t, "ravi@uni.edu", out.Student)
	require.NotNil(t, out.StudentID)

	for _, step := range []struct {
		token, status string
	}{
		{staff, outpass.StatusApproved},
		{security, outpass.StatusCheckedOut},
		{security, outpass.StatusReturned},
	} {
		res, code := setOutpassStatus(app, step.token, out.ID, step.status)
		require.Equal(t, http.StatusOK, code)
		assert.True(t, res.Success)
		assert.Equal(t, step.status, res.Outpass.Status)
		assert.Equal(t, "family visit", res.Outpass.Reason)
	}
	assert.Empty(t, app.logger.Warnings())
}

func Test_outpassApi_validation(t *testing.T) {
	app := newTestApp(t)
	student := app.token(t, user.RoleStudent)

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{name: "reason required", body: map[string]string{"student": "a@uni.edu"}, field: "reason"},
		{name: "bad date", body: map[string]string{"reason": "r", "from_date": "20/10/2026"}, field: "from_date"},
		{name: "to before from", body: map[string]string{"reason": "r", "from_date": "2026-10-20", "to_date": "2026-10-19"}, field: "to_date"},
		{name: "unknown status", body: map[string]string{"reason": "r", "status": "lost"}, field: "status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/api/outpasses", student, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			var res errorResponse
			decode(t, rec, &res)
			assert.Contains(t, res.Errors, tt.field)
		})
	}

	rec := app.do(http.MethodPut, "/api/outpasses/42", app.token(t, user.RoleStaff), map[string]string{"status": "approved"})
	checkError(t, rec, http.StatusNotFound, "")
}

func Test_outpassApi_transitions(t *testing.T) {
	t.Run("lenient by default", func(t *testing.T) {
		app := newTestApp(t)
		out := requestOutpass(t, app)

		res, code := setOutpassStatus(app, app.token(t, user.RoleStaff), out.ID, outpass.StatusReturned)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, outpass.StatusReturned, res.Outpass.Status)
		assert.Len(t, app.logger.Warnings(), 1)
	})

	t.Run("strict", func(t *testing.T) {
		app := newTestApp(t, func(conf *core.Config) { conf.Outpass.StrictTransitions = true })
		staff := app.token(t, user.RoleStaff)
		out := requestOutpass(t, app)

		_, code := setOutpassStatus(app, staff, out.ID, outpass.StatusReturned)
		assert.Equal(t, http.StatusBadRequest, code)

		res, code := setOutpassStatus(app, staff, out.ID, outpass.StatusRejected)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, outpass.StatusRejected, res.Outpass.Status)

		_, code = setOutpassStatus(app, staff, out.ID, outpass.StatusCheckedOut)
		assert.Equal(t, http.StatusBadRequest, code)
	})
}
