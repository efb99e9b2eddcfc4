package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/farmwise/farmwise/core/user"
)

func CreateUser(
	t *testing.T,
	repo user.Repository,
	first, last, email, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		Email:     email,
		PhotoURL:  user.DefaultPhotoURL(email),
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	usr.SetNames(first, last)
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}
