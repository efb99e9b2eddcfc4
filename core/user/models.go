package user

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/progress"
)

const defaultPhotoURLBase = "https://i.pravatar.cc/150?u="

type User struct {
	ID           string            `json:"id" bson:"_id"`
	Email        string            `json:"email" bson:"email"`
	DisplayName  string            `json:"display_name" bson:"displayName"`
	FirstName    string            `json:"first_name" bson:"firstName"`
	LastName     string            `json:"last_name" bson:"lastName"`
	PhotoURL     string            `json:"photo_url" bson:"photoUrl"`
	Interests    string            `json:"interests" bson:"interests"`
	IsActive     bool              `json:"is_active" bson:"isActive"`
	PasswordHash []byte            `json:"-" bson:"passwordHash"`
	Progress     progress.Progress `json:"progress" bson:"progress"`
	CreatedAt    time.Time         `json:"created_at" bson:"createdAt"` // UTC
	UpdatedAt    time.Time         `json:"updated_at" bson:"updatedAt"` // UTC
	LastLogin    time.Time         `json:"last_login" bson:"lastLogin"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// SetNames sets first and last name and derives the display name from them.
func (u *User) SetNames(first, last string) {
	u.FirstName = first
	u.LastName = last
	u.DisplayName = strings.TrimSpace(first + " " + last)
}

// Profile returns the non-secret part of the user cached for the session.
func (u User) Profile() Profile {
	return Profile{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhotoURL:    u.PhotoURL,
		Interests:   u.Interests,
	}
}

func DefaultPhotoURL(email string) string {
	return defaultPhotoURLBase + email
}

// Profile is what clients get back for the signed-in user.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhotoURL    string `json:"photo_url"`
	Interests   string `json:"interests"`
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Interests       string `json:"interests"`
}

func (nu *NewUser) Clean() {
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Interests = core.CleanString(nu.Interests)
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Clean()
	return validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Empty fields keep their current value.
type UpdateUser struct {
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Interests       string `json:"interests"`
	PhotoURL        string `json:"photo_url" validate:"omitempty,url"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate) error {
	uu.FirstName = core.CleanString(uu.FirstName)
	uu.LastName = core.CleanString(uu.LastName)
	uu.Interests = core.CleanString(uu.Interests)
	uu.PhotoURL = core.CleanString(uu.PhotoURL)
	return validate.Struct(uu)
}

type ResetUserPassword struct {
	Token           string `json:"token,omitempty" validate:"required"`
	UID             string `json:"uid,omitempty" validate:"required"`
	Password        string `json:"password,omitempty" validate:"required"`
	PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
}

func (rp ResetUserPassword) Validate(validate *validator.Validate) error { return validate.Struct(rp) }
