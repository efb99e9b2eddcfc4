package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmwise/farmwise/core"
	"github.com/farmwise/farmwise/core/user"
	emailsvc "github.com/farmwise/farmwise/services/email"
	eventsvc "github.com/farmwise/farmwise/services/events"
	inmemdb "github.com/farmwise/farmwise/storage/database/inmem"
	"github.com/farmwise/farmwise/testutil"
)

const testPwd = "Pa$$w0rd"

type fixture struct {
	conf     *core.Config
	repo     user.Repository
	svc      user.Service
	recorder *eventsvc.Recorder
}

func setup(t *testing.T) fixture {
	conf := testutil.NewConfig()
	logger := testutil.NewLogger(conf)
	core.ParseEmailTemplates(conf, logger)
	emailsvc.ResetSentMessages()

	repo := inmemdb.NewUserRepository(inmemdb.Open())
	recorder := eventsvc.NewRecorder()
	return fixture{
		conf:     conf,
		repo:     repo,
		svc:      user.NewService(conf, repo, emailsvc.NewConsoleServiceMock(conf, logger), recorder, logger),
		recorder: recorder,
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	usr, err := f.svc.Register(ctx, user.NewUser{
		FirstName:       " Amina ",
		LastName:        "Odhiambo",
		Email:           " Amina@Farm.TEST ",
		Password:        testPwd,
		PasswordConfirm: testPwd,
		Interests:       "tilapia",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "amina@farm.test", usr.Email)
	assert.Equal(t, "Amina Odhiambo", usr.DisplayName)
	assert.Equal(t, user.DefaultPhotoURL("amina@farm.test"), usr.PhotoURL)
	assert.True(t, usr.IsActive)
	assert.NoError(t, usr.CheckPassword(testPwd))

	events := f.recorder.Events()
	require.Len(t, events, 1)
	assert.Equal(t, core.EventUserRegistered, events[0].Type)
	assert.Equal(t, usr.ID, events[0].UserID)

	msgs := emailsvc.SentMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "amina@farm.test", msgs[0].To[0].Address)
	assert.Equal(t, "welcome", msgs[0].TemplateName)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.svc.Register(ctx, user.NewUser{
			FirstName: "Other", LastName: "Person", Email: "AMINA@farm.test",
			Password: "Xy9$abcd", PasswordConfirm: "Xy9$abcd",
		})
		require.Error(t, err)
		var verr *core.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []core.FieldError{{Field: "email", Error: user.ErrEmailExists.Error()}}, verr.Fields)

		// existing record untouched
		stored, err := f.repo.GetUserByEmail(ctx, "amina@farm.test")
		require.NoError(t, err)
		assert.Equal(t, usr.ID, stored.ID)
		assert.Equal(t, "Amina Odhiambo", stored.DisplayName)
		assert.NoError(t, stored.CheckPassword(testPwd))
	})
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	active := testutil.CreateUser(t, f.repo, "Kwame", "Asante", "kwame@farm.test", testPwd, true)
	testutil.CreateUser(t, f.repo, "Esi", "Owusu", "esi@farm.test", testPwd, false)

	tests := []struct {
		name    string
		email   string
		pwd     string
		wantErr error
	}{
		{name: "unknown email", email: "nobody@farm.test", pwd: testPwd, wantErr: user.ErrInvalidCredentials},
		{name: "wrong password", email: "kwame@farm.test", pwd: "wrong", wantErr: user.ErrInvalidCredentials},
		{name: "inactive", email: "esi@farm.test", pwd: testPwd, wantErr: user.ErrAccountDeactivated},
		{name: "valid, mixed-case email", email: " Kwame@Farm.test", pwd: testPwd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := f.svc.Authenticate(ctx, tt.email, tt.pwd)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, active.ID, usr.ID)
			assert.False(t, usr.LastLogin.IsZero())
		})
	}
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	usr := testutil.CreateUser(t, f.repo, "Kwame", "Asante", "kwame@farm.test", testPwd, true)

	updated, err := f.svc.Update(ctx, usr.ID, user.UpdateUser{LastName: "Mensah", Interests: "maize"})
	require.NoError(t, err)
	assert.Equal(t, "Kwame", updated.FirstName)
	assert.Equal(t, "Kwame Mensah", updated.DisplayName)
	assert.Equal(t, "maize", updated.Interests)
	assert.Equal(t, usr.PhotoURL, updated.PhotoURL)
	assert.NoError(t, updated.CheckPassword(testPwd))

	updated, err = f.svc.Update(ctx, usr.ID, user.UpdateUser{Password: "N3wPa$$word", PasswordConfirm: "N3wPa$$word"})
	require.NoError(t, err)
	assert.NoError(t, updated.CheckPassword("N3wPa$$word"))

	updated, err = f.svc.SetPhoto(ctx, usr.ID, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AAAA", updated.PhotoURL)

	_, err = f.svc.Update(ctx, "nobody", user.UpdateUser{})
	assert.True(t, core.IsNotFound(err))
	_, err = f.svc.SetPhoto(ctx, "nobody", "x")
	assert.True(t, core.IsNotFound(err))
}

func TestService_UpsertFromProvider(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	created, err := f.svc.UpsertFromProvider(ctx, user.User{Email: "Abena@farm.test", DisplayName: "Abena K.", PhotoURL: "https://photos.test/abena.png"}, "")
	require.NoError(t, err)
	assert.Equal(t, "abena@farm.test", created.Email)
	assert.Equal(t, "Abena K.", created.DisplayName)
	assert.Equal(t, "https://photos.test/abena.png", created.PhotoURL)
	assert.True(t, created.IsActive)
	assert.Empty(t, created.PasswordHash)
	require.Len(t, f.recorder.Events(), 1)

	merged, err := f.svc.UpsertFromProvider(ctx, user.User{Email: "abena@farm.test", FirstName: "Abena", LastName: "Kyei"}, testPwd)
	require.NoError(t, err)
	assert.Equal(t, created.ID, merged.ID)
	assert.Equal(t, "Abena Kyei", merged.DisplayName)
	assert.Equal(t, "https://photos.test/abena.png", merged.PhotoURL)
	assert.NoError(t, merged.CheckPassword(testPwd))
	assert.Len(t, f.recorder.Events(), 1) // no new registration
}

func TestService_passwordReset(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	usr := testutil.CreateUser(t, f.repo, "Yaw", "Darko", "yaw@farm.test", testPwd, true)
	testutil.CreateUser(t, f.repo, "Ama", "Serwaa", "ama@farm.test", testPwd, false)

	t.Run("request: unknown email", func(t *testing.T) {
		assert.True(t, core.IsNotFound(f.svc.RequestPasswordReset(ctx, "nobody@farm.test")))
	})

	t.Run("request: inactive user", func(t *testing.T) {
		assert.True(t, core.IsNotFound(f.svc.RequestPasswordReset(ctx, "ama@farm.test")))
	})

	t.Run("request: valid", func(t *testing.T) {
		emailsvc.ResetSentMessages()
		require.NoError(t, f.svc.RequestPasswordReset(ctx, "YAW@farm.test"))
		msgs := emailsvc.SentMessages()
		require.Len(t, msgs, 1)
		assert.Equal(t, "password_reset", msgs[0].TemplateName)
		assert.Contains(t, msgs[0].TextContent, "/password-reset/"+user.EncodeUID(usr)+"/")
	})

	token, err := user.NewTokenGenerator(f.conf.SecretKey, f.conf.PasswordResetTimeoutDelta).MakeToken(usr)
	require.NoError(t, err)
	uid := user.EncodeUID(usr)

	invalidField := func(t *testing.T, err error, field string) {
		var verr *core.ValidationError
		require.True(t, errors.As(err, &verr), "err = %v", err)
		assert.Equal(t, []core.FieldError{{Field: field, Error: "invalid value"}}, verr.Fields)
	}

	t.Run("confirm: bad uid", func(t *testing.T) {
		err := f.svc.ResetPassword(ctx, user.ResetUserPassword{UID: "lol", Token: token, Password: "N3wPa$$word", PasswordConfirm: "N3wPa$$word"})
		invalidField(t, err, "uid")
	})

	t.Run("confirm: bad token", func(t *testing.T) {
		err := f.svc.ResetPassword(ctx, user.ResetUserPassword{UID: uid, Token: "lol-lol", Password: "N3wPa$$word", PasswordConfirm: "N3wPa$$word"})
		invalidField(t, err, "token")
	})

	t.Run("confirm: valid", func(t *testing.T) {
		err := f.svc.ResetPassword(ctx, user.ResetUserPassword{UID: uid, Token: token, Password: "N3wPa$$word", PasswordConfirm: "N3wPa$$word"})
		require.NoError(t, err)
		stored, err := f.repo.GetUserByID(ctx, usr.ID)
		require.NoError(t, err)
		assert.NoError(t, stored.CheckPassword("N3wPa$$word"))
	})

	t.Run("confirm: token already used", func(t *testing.T) {
		err := f.svc.ResetPassword(ctx, user.ResetUserPassword{UID: uid, Token: token, Password: "An0therPa$$", PasswordConfirm: "An0therPa$$"})
		invalidField(t, err, "token")
	})
}

func TestPasswordPolicy(t *testing.T) {
	validate, translator := testutil.NewValidator()

	tests := []struct {
		name    string
		pwd     string
		wantErr string
	}{
		{name: "too short", pwd: "Ab1$", wantErr: "password must contain at least 6 characters"},
		{name: "whitespace", pwd: "Pa$$ w0rd", wantErr: "password must not contain whitespace"},
		{name: "numeric", pwd: "12345678", wantErr: "password cannot be entirely numeric"},
		{name: "similar to name", pwd: "Amina1", wantErr: "password cannot be similar to user attributes"},
		{name: "valid", pwd: testPwd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nu := user.NewUser{FirstName: "Amina", LastName: "Odhiambo", Email: "amina@farm.test", Password: tt.pwd, PasswordConfirm: tt.pwd}
			err := nu.Validate(validate)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantErr, verrs[0].Translate(translator))
		})
	}
}
