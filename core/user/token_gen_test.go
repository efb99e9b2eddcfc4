package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMakeVerifyToken(t *testing.T) {
	timeout := 3 * 24 * time.Hour
	gen := NewTokenGenerator("secret", timeout)

	now := time.Now()
	usr := User{
		ID:        "6f1c0a3e-2d7b-4a55-9a57-0c1b8c5e0f11",
		Email:     "ama@farm.test",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
		LastLogin: now,
	}
	usr.SetNames("Ama", "Mensah")
	_ = usr.SetPassword("pwd")

	validToken, err := gen.MakeToken(usr)
	assert.NoError(t, err)

	// generate an expired token
	dayLate := timeout + (24 * time.Hour)
	gen.NowFunc = func() time.Time { return time.Now().Add(-dayLate) }
	expiredToken, err := gen.MakeToken(usr)
	assert.NoError(t, err)
	gen.NowFunc = time.Now // reset

	loggedIn := usr
	loggedIn.LastLogin = now.Add(time.Hour)

	other := NewTokenGenerator("other-secret", timeout)

	tests := []struct {
		name    string
		gen     *TokenGenerator
		usr     User
		token   string
		wantErr error
	}{
		{name: "no token", gen: gen, usr: usr, wantErr: errInvalidToken},
		{name: "invalid parts len", gen: gen, usr: usr, token: "lmaooolol", wantErr: errInvalidToken},
		{name: "invalid base32", gen: gen, usr: usr, token: "hahaha-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid timestamp", gen: gen, usr: usr, token: "NRXWY-sigsig-sig", wantErr: errInvalidToken},
		{name: "invalid token", gen: gen, usr: usr, token: "HE4TS-sigsig-sig", wantErr: errInvalidToken},
		{name: "expired token", gen: gen, usr: usr, token: expiredToken, wantErr: errTokenExpired},
		{name: "user logged in since", gen: gen, usr: loggedIn, token: validToken, wantErr: errInvalidToken},
		{name: "other secret key", gen: other, usr: usr, token: validToken, wantErr: errInvalidToken},
		{name: "valid token", gen: gen, usr: usr, token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, tt.gen.verifyToken(tt.usr, tt.token))
		})
	}
}

func TestEncodeDecodeUID(t *testing.T) {
	usr := User{ID: "6f1c0a3e-2d7b-4a55-9a57-0c1b8c5e0f11"}
	id, err := decodeUID(EncodeUID(usr))
	assert.NoError(t, err)
	assert.Equal(t, usr.ID, id)

	_, err = decodeUID("%%%")
	assert.Error(t, err)
}
