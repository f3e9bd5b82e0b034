package main

import (
	"context"

	"github.com/guicardoso0404/sigeas/core/user"
)

// addUser creates a user.User, applying the same validation as the API.
func (cli *commandLine) addUser(name, email, role, pwd string) (user.User, error) {
	ctx := context.Background()
	nu := user.NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     role,
	}
	if err := nu.Validate(ctx, cli.validate, cli.usrSvc); err != nil {
		return user.User{}, err
	}
	return cli.usrSvc.Create(ctx, nu)
}
