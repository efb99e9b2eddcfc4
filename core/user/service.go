package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/farmwise/farmwise/core"
)

var (
	// errors
	ErrNotFound           = core.NewNotFoundError("user not found")
	ErrEmailExists        = errors.New("User with this email already exists.")
	ErrInvalidCredentials = errors.New("Invalid email or password.")
	ErrAccountDeactivated = errors.New("account deactivated")

	errInvalidValue = errors.New("invalid value")
)

type (
	Repository interface {
		// CheckEmailUniqueness returns ErrEmailExists when another user already has email.
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers ...User) error
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// UpdateUser saves profile fields, password hash, activity flag and last login.
		// Progress is only ever written by the progress repository.
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service interface {
		Register(ctx context.Context, nu NewUser) (User, error)
		Authenticate(ctx context.Context, email, pwd string) (User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Update(ctx context.Context, id string, uu UpdateUser) (User, error)
		SetPhoto(ctx context.Context, id, photoURL string) (User, error)
		// UpsertFromProvider creates the user or merges the non-empty fields of usr into the existing one.
		// The password is only set when pwd is not empty.
		UpsertFromProvider(ctx context.Context, usr User, pwd string) (User, error)
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, data ResetUserPassword) error
	}

	service struct {
		repo      Repository
		mailSvc   core.EmailService
		publisher core.EventPublisher
		logger    core.Logger
		tokens    *TokenGenerator
		nowFunc   func() time.Time
	}
)

var _ Service = (*service)(nil)

func NewService(
	conf *core.Config,
	repo Repository,
	mailSvc core.EmailService,
	publisher core.EventPublisher,
	logger core.Logger,
) Service {
	return &service{
		repo:      repo,
		mailSvc:   mailSvc,
		publisher: publisher,
		logger:    logger,
		tokens:    NewTokenGenerator(conf.SecretKey, conf.PasswordResetTimeoutDelta),
		nowFunc:   time.Now,
	}
}

func (svc *service) checkUniqueness(ctx context.Context, email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(ctx, email, exclUsers...); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	nu.Clean()
	if err := svc.checkUniqueness(ctx, nu.Email); err != nil {
		return User{}, err
	}

	now := svc.nowFunc().UTC()
	usr := User{
		ID:        uuid.NewString(),
		Email:     nu.Email,
		PhotoURL:  DefaultPhotoURL(nu.Email),
		Interests: nu.Interests,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	usr.SetNames(nu.FirstName, nu.LastName)
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return User{}, errors.Wrap(err, "creating user")
	}

	svc.publish(ctx, core.NewEvent(core.EventUserRegistered, usr.ID, usr.Profile()))
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.DisplayName, Address: usr.Email}},
		Subject:      "Welcome!",
		TemplateName: "welcome",
		TemplateData: struct{ Name string }{Name: usr.FirstName},
	})
	return usr, nil
}

func (svc *service) Authenticate(ctx context.Context, email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}

	usr.LastLogin = svc.nowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	first, last := usr.FirstName, usr.LastName
	if uu.FirstName != "" {
		first = uu.FirstName
	}
	if uu.LastName != "" {
		last = uu.LastName
	}
	usr.SetNames(first, last)
	if uu.Interests != "" {
		usr.Interests = uu.Interests
	}
	if uu.PhotoURL != "" {
		usr.PhotoURL = uu.PhotoURL
	}
	if uu.Password != "" {
		if err = usr.SetPassword(uu.Password); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	usr.UpdatedAt = svc.nowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) SetPhoto(ctx context.Context, id, photoURL string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	usr.PhotoURL = photoURL
	usr.UpdatedAt = svc.nowFunc().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) UpsertFromProvider(ctx context.Context, in User, pwd string) (User, error) {
	email := core.CleanString(in.Email, true /* lower */)
	now := svc.nowFunc().UTC()

	usr, err := svc.repo.GetUserByEmail(ctx, email)
	switch {
	case core.IsNotFound(err):
		usr = User{
			ID:        uuid.NewString(),
			Email:     email,
			PhotoURL:  DefaultPhotoURL(email),
			IsActive:  true,
			CreatedAt: now,
		}
		mergeProfile(&usr, in)
		usr.UpdatedAt = now
		if pwd != "" {
			if err = usr.SetPassword(pwd); err != nil {
				return User{}, errors.Wrap(err, "hashing password")
			}
		}
		if usr, err = svc.repo.CreateUser(ctx, usr); err != nil {
			return User{}, errors.Wrap(err, "creating user")
		}
		svc.publish(ctx, core.NewEvent(core.EventUserRegistered, usr.ID, usr.Profile()))
		return usr, nil
	case err != nil:
		return User{}, err
	}

	mergeProfile(&usr, in)
	if pwd != "" {
		if err = usr.SetPassword(pwd); err != nil {
			return User{}, errors.Wrap(err, "hashing password")
		}
	}
	usr.UpdatedAt = now
	return svc.repo.UpdateUser(ctx, usr)
}

func mergeProfile(usr *User, in User) {
	first, last := usr.FirstName, usr.LastName
	if in.FirstName != "" {
		first = core.CleanString(in.FirstName)
	}
	if in.LastName != "" {
		last = core.CleanString(in.LastName)
	}
	usr.SetNames(first, last)
	if in.DisplayName != "" {
		usr.DisplayName = core.CleanString(in.DisplayName)
	}
	if in.PhotoURL != "" {
		usr.PhotoURL = in.PhotoURL
	}
	if in.Interests != "" {
		usr.Interests = core.CleanString(in.Interests)
	}
	if in.IsActive {
		usr.IsActive = true
	}
}

func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !usr.IsActive {
		return ErrNotFound
	}

	token, err := svc.tokens.MakeToken(usr)
	if err != nil {
		return errors.Wrap(err, "making password reset token")
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: usr.DisplayName, Address: usr.Email}},
		Subject:      "Password Reset",
		TemplateName: "password_reset",
		TemplateData: struct {
			Name  string
			UID   string
			Token string
		}{
			Name:  usr.FirstName,
			UID:   EncodeUID(usr),
			Token: token,
		},
	})
	return nil
}

func (svc *service) ResetPassword(ctx context.Context, data ResetUserPassword) error {
	invalidUID := core.NewValidationError(errInvalidValue, core.FieldError{Field: "uid", Error: errInvalidValue.Error()})

	id, err := decodeUID(data.UID)
	if err != nil {
		return invalidUID
	}
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return invalidUID
		}
		return err
	}
	if err = svc.tokens.verifyToken(usr, data.Token); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "token", Error: errInvalidValue.Error()})
	}

	if err = usr.SetPassword(data.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	usr.UpdatedAt = svc.nowFunc().UTC()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}

func (svc *service) publish(ctx context.Context, event core.Event) {
	if err := svc.publisher.Publish(ctx, event); err != nil {
		svc.logger.Warn(fmt.Sprintf("publishing %s event: %v", event.Type, err), err)
	}
}
