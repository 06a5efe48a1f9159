package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"ontrackr/internal/models"
)

func TestInviteService_CreateAndAccept(t *testing.T) {
	projects := newFakeProjects(models.Project{ID: "p1", Name: "Demo"})
	invites := newFakeInvites()
	svc := NewInviteService(invites, projects, LogMailer{Log: zerolog.Nop()}, zerolog.Nop())

	inv, err := svc.Create(context.Background(), "p1", "dev@example.com", "lead")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Token == "" || inv.Status != models.InvitePending {
		t.Fatalf("unexpected invite: %+v", inv)
	}

	accepted, err := svc.Accept(context.Background(), inv.Token, "u9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted.Status != models.InviteAccepted || accepted.AcceptedBy != "u9" {
		t.Fatalf("unexpected invite: %+v", accepted)
	}

	members := projects.projects["p1"].Members
	if len(members) != 1 || members[0] != "u9" {
		t.Fatalf("expected u9 added to project, got %v", members)
	}
}

func TestInviteService_AcceptIsOneShot(t *testing.T) {
	projects := newFakeProjects(models.Project{ID: "p1", Name: "Demo"})
	invites := newFakeInvites()
	svc := NewInviteService(invites, projects, LogMailer{Log: zerolog.Nop()}, zerolog.Nop())

	inv, _ := svc.Create(context.Background(), "p1", "dev@example.com", "lead")
	if _, err := svc.Accept(context.Background(), inv.Token, "u9"); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}
	if _, err := svc.Accept(context.Background(), inv.Token, "u10"); !errors.Is(err, ErrInviteUsed) {
		t.Fatalf("expected ErrInviteUsed, got %v", err)
	}
}

func TestInviteService_UnknownToken(t *testing.T) {
	projects := newFakeProjects(models.Project{ID: "p1", Name: "Demo"})
	svc := NewInviteService(newFakeInvites(), projects, LogMailer{Log: zerolog.Nop()}, zerolog.Nop())

	if _, err := svc.Accept(context.Background(), "nope", "u9"); !errors.Is(err, ErrInviteNotFound) {
		t.Fatalf("expected ErrInviteNotFound, got %v", err)
	}
}

func TestInviteService_UnknownProject(t *testing.T) {
	svc := NewInviteService(newFakeInvites(), newFakeProjects(), LogMailer{Log: zerolog.Nop()}, zerolog.Nop())
	if _, err := svc.Create(context.Background(), "ghost", "dev@example.com", "lead"); err == nil {
		t.Fatal("expected error for unknown project")
	}
}
