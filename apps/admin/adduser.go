package main

import (
	"context"

	"github.com/farmwise/farmwise/core/user"
)

// addUser updates or creates an active user.User
func (cli *commandLine) addUser(email, first, last, pwd string) error {
	_, err := cli.usrSvc.UpsertFromProvider(
		context.Background(),
		user.User{Email: email, FirstName: first, LastName: last, IsActive: true},
		pwd,
	)
	return err
}
