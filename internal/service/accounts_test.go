// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatherly/internal/auth"
	"gatherly/internal/model"
	"gatherly/internal/service"
	"gatherly/internal/store"
	"gatherly/internal/testutil"
)

func signupParams(email string) service.SignupParams {
	return service.SignupParams{
		Name:            "Alice",
		Email:           email,
		Phone:           "5550100",
		Location:        "Springfield",
		Password:        "correct horse battery",
		ConfirmPassword: "correct horse battery",
		Role:            model.RoleAttendee,
	}
}

func TestSignup(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := service.NewAccountService(store.New(db), testutil.TestLogger())

	user, err := svc.Signup(context.Background(), signupParams("alice@example.com"))
	require.NoError(t, err)

	assert.Equal(t, auth.DeriveUserID("alice@example.com"), user.ID)
	assert.Equal(t, model.RoleAttendee, user.Role)
	assert.NotEqual(t, "correct horse battery", user.PasswordHash)
}

func TestSignupPasswordMismatch(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	queries := store.New(db)
	svc := service.NewAccountService(queries, testutil.TestLogger())

	params := signupParams("alice@example.com")
	params.ConfirmPassword = "something else"

	_, err := svc.Signup(context.Background(), params)
	assert.ErrorIs(t, err, service.ErrPasswordMismatch)

	// A rejected form must not leave a row behind.
	n, err := queries.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSignupDuplicateEmail(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := service.NewAccountService(store.New(db), testutil.TestLogger())
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupParams("alice@example.com"))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupParams("alice@example.com"))
	assert.ErrorIs(t, err, service.ErrDuplicateUser)
}

func TestSignupInvalidRole(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := service.NewAccountService(store.New(db), testutil.TestLogger())

	params := signupParams("alice@example.com")
	params.Role = "SUPERUSER"

	_, err := svc.Signup(context.Background(), params)
	assert.ErrorIs(t, err, service.ErrInvalidRole)
}

func TestAuthenticate(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := service.NewAccountService(store.New(db), testutil.TestLogger())
	ctx := context.Background()

	created, err := svc.Signup(ctx, signupParams("alice@example.com"))
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice@example.com", "correct horse battery")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.True(t, user.LastLoginAt.Valid)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := service.NewAccountService(store.New(db), testutil.TestLogger())
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupParams("alice@example.com"))
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredential)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := service.NewAccountService(store.New(db), testutil.TestLogger())

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
