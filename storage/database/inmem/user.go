package inmemdb

import (
	"context"

	"github.com/farmwise/farmwise/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func copyUser(usr *user.User) user.User {
	cp := *usr
	cp.PasswordHash = append([]byte(nil), usr.PasswordHash...)
	cp.Progress = usr.Progress.Copy()
	return cp
}

func (repo *userRepository) CheckEmailUniqueness(_ context.Context, email string, excludedUsers ...user.User) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := make(map[string]struct{}, len(excludedUsers))
	for _, u := range excludedUsers {
		excluded[u.ID] = struct{}{}
	}
	for id, usr := range repo.db.table {
		if _, ok := excluded[id]; !ok && usr.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, u := range repo.db.table {
		if u.Email == usr.Email {
			return user.User{}, user.ErrEmailExists
		}
	}
	stored := copyUser(&usr)
	repo.db.table[usr.ID] = &stored
	return copyUser(&stored), nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return copyUser(usr), nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.table {
		if usr.Email == email {
			return copyUser(usr), nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.table[usr.ID]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	orig.DisplayName = usr.DisplayName
	orig.FirstName = usr.FirstName
	orig.LastName = usr.LastName
	orig.PhotoURL = usr.PhotoURL
	orig.Interests = usr.Interests
	orig.IsActive = usr.IsActive
	if usr.PasswordHash != nil {
		orig.PasswordHash = append([]byte(nil), usr.PasswordHash...)
	}
	orig.UpdatedAt = usr.UpdatedAt
	orig.LastLogin = usr.LastLogin
	return copyUser(orig), nil
}
