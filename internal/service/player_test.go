package service

import (
	"context"
	"errors"
	"testing"
)

func TestCreatePlayerRejectsInvalidEmail(t *testing.T) {
	svc := NewPlayerAdminService()
	_, err := svc.CreatePlayer(context.Background(), CreatePlayerInput{
		FirstName: "Anna", Email: "not-an-email", Password: "s3cret-pass",
	})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("error: %v, want ErrInvalidEmail", err)
	}
}

func TestCreatePlayerRejectsInvalidPhone(t *testing.T) {
	svc := NewPlayerAdminService()
	_, err := svc.CreatePlayer(context.Background(), CreatePlayerInput{
		FirstName: "Anna", Email: "anna@example.dk", Phone: "12345", Password: "s3cret-pass",
	})
	if !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("error: %v, want ErrInvalidPhone", err)
	}
}

func TestCreatePlayerRejectsWeakPassword(t *testing.T) {
	svc := NewPlayerAdminService()
	_, err := svc.CreatePlayer(context.Background(), CreatePlayerInput{
		FirstName: "Anna", Email: "anna@example.dk", Password: "short",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("error: %v, want ErrWeakPassword", err)
	}
}

func TestCreatePlayerRequiresName(t *testing.T) {
	svc := NewPlayerAdminService()
	_, err := svc.CreatePlayer(context.Background(), CreatePlayerInput{
		Email: "anna@example.dk", Password: "s3cret-pass",
	})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("error: %v, want ErrBadRequest", err)
	}
}

func TestCreateOperatorRejectsWeakPassword(t *testing.T) {
	svc := NewPlayerAdminService()
	_, err := svc.CreateOperator(context.Background(), CreateOperatorInput{
		Username: "ops2", Password: "short",
	})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("error: %v, want ErrWeakPassword", err)
	}
}
