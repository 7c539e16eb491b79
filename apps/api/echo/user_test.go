package echoapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/user"
)

func Test_userApi_login(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		httpTest
		wantMsg string
	}{
		{httpTest: httpTest{name: "empty body", body: LoginRequest{}, wantCode: http.StatusBadRequest}, wantMsg: "missing credentials"},
		{httpTest: httpTest{name: "missing password", body: LoginRequest{Email: "a@uni.edu"}, wantCode: http.StatusBadRequest}, wantMsg: "missing credentials"},
		{httpTest: httpTest{name: "email without @", body: LoginRequest{Email: "bob", Password: "1234"}, wantCode: http.StatusUnauthorized}, wantMsg: "invalid credentials"},
		{httpTest: httpTest{name: "short password", body: LoginRequest{Email: "bob@uni.edu", Password: "123"}, wantCode: http.StatusUnauthorized}, wantMsg: "invalid credentials"},
		{httpTest: httpTest{name: "unknown role", body: LoginRequest{Email: "bob@uni.edu", Password: "1234", Role: "king"}, wantCode: http.StatusBadRequest}},
		{httpTest: httpTest{name: "malformed json", body: `{"email": 5}`, wantCode: http.StatusBadRequest}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/api/login", "", tt.body)
			checkError(t, rec, tt.wantCode, tt.wantMsg)
		})
	}

	t.Run("demo student", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/login", "", LoginRequest{Email: " Asha@Uni.edu ", Password: "1234"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res SessionResponse
		decode(t, rec, &res)
		assert.True(t, res.Success)
		assert.Equal(t, "asha@uni.edu", res.User.Email)
		assert.Equal(t, "asha", res.User.Name)
		assert.Equal(t, user.RoleStudent, res.User.Role)
		assert.NotZero(t, res.User.ID)

		stud, err := app.store.Students.GetStudentByEmail(context.Background(), "asha@uni.edu")
		require.NoError(t, err)
		assert.Equal(t, stud.ID, res.User.ID)

		ident, err := app.srv.deps.Sessions.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "asha@uni.edu", ident.Email)
		assert.Equal(t, user.RoleStudent, ident.Role)
	})

	t.Run("demo warden is staff", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/login", "", LoginRequest{Email: "meera@uni.edu", Password: "1234", Role: "Warden"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res SessionResponse
		decode(t, rec, &res)
		assert.Equal(t, user.RoleStaff, res.User.Role)
		assert.Zero(t, res.User.ID)

		_, err := app.store.Students.GetStudentByEmail(context.Background(), "meera@uni.edu")
		assert.True(t, core.IsNotFound(err), "staff logins must not create students")
	})

	t.Run("stored user", func(t *testing.T) {
		_, err := app.srv.deps.UserSvc.Register(context.Background(), user.NewUser{Name: "Root", Email: "root@uni.edu", Password: "s3cret", Role: user.RoleAdmin})
		require.NoError(t, err)

		rec := app.do(http.MethodPost, "/api/login", "", LoginRequest{Email: "Root@uni.edu", Password: "s3cret", Role: "student"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res SessionResponse
		decode(t, rec, &res)
		assert.Equal(t, user.RoleAdmin, res.User.Role)
		assert.NotZero(t, res.User.ID)

		// a stored email never falls back to a demo identity
		rec = app.do(http.MethodPost, "/api/login", "", LoginRequest{Email: "root@uni.edu", Password: "wrong"})
		checkError(t, rec, http.StatusUnauthorized, "invalid credentials")
	})

	t.Run("demo roles limited", func(t *testing.T) {
		limited := newTestApp(t, func(conf *core.Config) { conf.Auth.DemoRoles = []string{"student"} })

		rec := limited.do(http.MethodPost, "/api/login", "", LoginRequest{Email: "anyone@x.y", Password: "1234", Role: "admin"})
		checkError(t, rec, http.StatusUnauthorized, "invalid credentials")
		rec = limited.do(http.MethodPost, "/api/login", "", LoginRequest{Email: "meera@uni.edu", Password: "1234", Role: "warden"})
		checkError(t, rec, http.StatusUnauthorized, "invalid credentials")

		rec = limited.do(http.MethodPost, "/api/login", "", LoginRequest{Email: "asha@uni.edu", Password: "1234"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		// stored users keep their role
		_, err := limited.srv.deps.UserSvc.Register(context.Background(), user.NewUser{Name: "Root", Email: "root@uni.edu", Password: "s3cret", Role: user.RoleAdmin})
		require.NoError(t, err)
		rec = limited.do(http.MethodPost, "/api/login", "", LoginRequest{Email: "root@uni.edu", Password: "s3cret"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("demo login disabled", func(t *testing.T) {
		strict := newTestApp(t, func(conf *core.Config) { conf.Auth.DemoLogin = false })
		rec := strict.do(http.MethodPost, "/api/login", "", LoginRequest{Email: "asha@uni.edu", Password: "1234"})
		checkError(t, rec, http.StatusUnauthorized, "invalid credentials")
	})
}

func Test_userApi_register(t *testing.T) {
	app := newTestApp(t)
	newUsr := user.NewUser{Name: "Asha", Email: "Asha@Uni.edu", Password: "pass", Role: "student"}

	rec := app.do(http.MethodPost, "/api/register", "", newUsr)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res SessionResponse
	decode(t, rec, &res)
	assert.True(t, res.Success)
	assert.Equal(t, "asha@uni.edu", res.User.Email)
	assert.Equal(t, "Asha", res.User.Name)
	assert.NotEmpty(t, res.Token)

	stud, err := app.store.Students.GetStudentByEmail(context.Background(), "asha@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, stud.ID, res.User.ID)

	sent := app.mailSvc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "asha@uni.edu", sent[0].To[0].Address)
	assert.Contains(t, sent[0].TextContent, "Hi Asha")

	t.Run("duplicate email", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/register", "", newUsr)
		checkError(t, rec, http.StatusConflict, "user already exists")
	})

	t.Run("invalid payload", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/register", "", user.NewUser{Email: "nope", Password: "1"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var res errorResponse
		decode(t, rec, &res)
		assert.Contains(t, res.Errors, "name")
		assert.Contains(t, res.Errors, "email")
		assert.Contains(t, res.Errors, "password")
	})

	t.Run("login with stored credentials", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/api/login", "", LoginRequest{Email: "asha@uni.edu", Password: "wrong"})
		checkError(t, rec, http.StatusUnauthorized, "invalid credentials")

		rec = app.do(http.MethodPost, "/api/login", "", LoginRequest{Email: "asha@uni.edu", Password: "pass", Role: "admin"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var res SessionResponse
		decode(t, rec, &res)
		// the stored role wins over the requested one
		assert.Equal(t, user.RoleStudent, res.User.Role)
		assert.Equal(t, stud.ID, res.User.ID)
	})
}
