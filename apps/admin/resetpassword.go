package main

import (
	"context"

	"github.com/guicardoso0404/sigeas/core/user"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	// the password policy needs the user's name and email
	uu := user.UpdateUser{Password: pwd}
	if err = uu.Validate(ctx, usr, cli.validate, cli.usrSvc); err != nil {
		return err
	}
	return cli.usrSvc.SetPassword(ctx, usr.Email, pwd)
}
