package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shms/core"
	"github.com/trezcool/shms/core/student"
	"github.com/trezcool/shms/core/user"
	"github.com/trezcool/shms/storage/database"
	testutil "github.com/trezcool/shms/tests"
)

var store *database.Store

func setup(t *testing.T) *commandLine {
	t.Helper()
	store = database.NewMemoryStore()

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	return &commandLine{
		validate: validate,
		usrSvc:   user.NewService(store.Users, nil),
		studSvc:  student.NewService(store.Students),
	}
}

func mockPassword(pwd string) {
	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte(pwd), nil
	}
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	pwd        string
}

func Test_commandLine_migrate(t *testing.T) {
	cli := setup(t)

	gooseRunFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}
	defer func() { gooseRunFunc = database.Migrate }()

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "redo", args: []string{"migrate", "redo"}},
		{name: "reset", args: []string{"migrate", "reset"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
		{name: "create", args: []string{"migrate", "create", "rooms_floor", "sql"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				if assert.Error(t, err) {
					assert.Equal(t, tt.wantErrStr, err.Error())
				}
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func Test_commandLine_addUser(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	tests := []cliTest{
		{name: "no args", args: []string{"adduser"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"adduser", "-email", "root@uni.edu"}, wantErr: errHelp},
		{name: "admin", args: []string{"adduser", "-name", "Root", "-email", "root@uni.edu"}, pwd: "secret"},
		{name: "warden", args: []string{"adduser", "-name", "Meera", "-email", "meera@uni.edu", "-role", "Warden"}, pwd: "secret"},
		{name: "student", args: []string{"adduser", "-name", "Asha", "-email", "asha@uni.edu", "-role", "student"}, pwd: "secret"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt.pwd)

		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, cli.run(args))
		})
	}

	usr, err := cli.usrSvc.FindByEmail(ctx, "meera@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, user.RoleStaff, usr.Role)

	usr, err = cli.usrSvc.FindByEmail(ctx, "root@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, usr.Role)

	stud, err := store.Students.GetStudentByEmail(ctx, "asha@uni.edu")
	require.NoError(t, err)
	assert.Equal(t, "Asha", stud.Name)

	t.Run("existing user gets a new password", func(t *testing.T) {
		mockPassword("changed")
		require.NoError(t, cli.run([]string{"admin", "adduser", "-name", "Root", "-email", "root@uni.edu"}))
		assert.True(t, cli.usrSvc.VerifyPassword(ctx, "root@uni.edu", "changed"))
	})
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)
	ctx := context.Background()

	usr := testutil.CreateUser(t, store.Users, "Awe", "awe@uni.edu", "mdrr", user.RoleStaff)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@uni.edu"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-email", "lol@uni.edu"}, pwd: "lol", wantErr: user.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", usr.Email}, pwd: "lmao"},
		{name: "reset with uppercase email", args: []string{"resetpassword", "-email", "AWE@uni.edu"}, pwd: "lmfao"},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		mockPassword(tt.pwd)

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			refreshed, err := cli.usrSvc.GetByID(ctx, usr.ID)
			require.NoError(t, err)
			assert.False(t, bytes.Equal(refreshed.PasswordHash, usr.PasswordHash), "failed to update new password")
			assert.True(t, cli.usrSvc.VerifyPassword(ctx, usr.Email, tt.pwd))
		})
	}
}
