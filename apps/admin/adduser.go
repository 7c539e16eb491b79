package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/shms/core/user"
)

// addUser creates a user; an existing user with the same email only gets a new password.
func (cli *commandLine) addUser(name, email, role, pwd string) error {
	ctx := context.Background()
	nu := user.NewUser{Name: name, Email: email, Role: role, Password: pwd}
	if nu.Name == "" {
		nu.Name = email
	}
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}

	usr, err := cli.usrSvc.Register(ctx, nu)
	if err == user.ErrEmailExists {
		return cli.resetPassword(nu.Email, pwd)
	}
	if err != nil {
		return err
	}
	if usr.IsStudent() {
		if _, err := cli.studSvc.EnsureByEmail(ctx, usr.Email, usr.Name); err != nil {
			return errors.Wrap(err, "ensuring student")
		}
	}
	return nil
}
