package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"civiceye-be/models"
	"civiceye-be/store"
)

// EnsureBootstrapOfficer creates an admin account for email when none exists.
// It reports whether an account was created.
func EnsureBootstrapOfficer(ctx context.Context, officers store.OfficerStore, name, email, password string) (bool, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return false, nil
	}

	_, err := officers.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return false, &StorageError{Op: "find officer", Err: err}
	}

	now := time.Now().UTC()
	officer := &models.Officer{
		Name:      name,
		Email:     email,
		Password:  password,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := officer.HashPassword(); err != nil {
		return false, fmt.Errorf("hash bootstrap password: %w", err)
	}

	err = officers.Insert(ctx, officer)
	if errors.Is(err, store.ErrDuplicate) {
		// Another instance created it first.
		return false, nil
	}
	if err != nil {
		return false, &StorageError{Op: "insert officer", Err: err}
	}
	return true, nil
}
