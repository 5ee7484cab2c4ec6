package server

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/playercard/internal/profile"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := OpenRepository(filepath.Join(t.TempDir(), "data", "profiles.db"))
	if err != nil {
		t.Fatalf("OpenRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestRepository_EnsureAccountIsStable(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	first, err := repo.EnsureAccount(ctx, "tok", "a@example.com")
	if err != nil {
		t.Fatalf("EnsureAccount: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("EnsureAccount returned empty id")
	}
	if _, err := repo.UpdateProfile(ctx, first.ID, "alice", "C2"); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	again, err := repo.EnsureAccount(ctx, "tok", "new@example.com")
	if err != nil {
		t.Fatalf("EnsureAccount again: %v", err)
	}
	want := profile.Record{ID: first.ID, Email: "new@example.com", Handle: "alice", AvatarID: "C2"}
	if diff := cmp.Diff(want, again); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_ByTokenUnknown(t *testing.T) {
	repo := openTestRepo(t)
	if _, err := repo.ByToken(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ByToken err = %v, want ErrNotFound", err)
	}
}

func TestRepository_UpdateProfileReportsChange(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	rec, err := repo.EnsureAccount(ctx, "tok", "a@example.com")
	if err != nil {
		t.Fatalf("EnsureAccount: %v", err)
	}

	steps := []struct {
		handle string
		avatar profile.AvatarID
		want   bool
	}{
		{"alice", "C1", true},
		{"alice", "C1", false},
		{"alice", "C3", true},
		{"alicia", "C3", true},
	}
	for i, s := range steps {
		changed, err := repo.UpdateProfile(ctx, rec.ID, s.handle, s.avatar)
		if err != nil {
			t.Fatalf("step %d: UpdateProfile: %v", i, err)
		}
		if changed != s.want {
			t.Fatalf("step %d: changed = %v, want %v", i, changed, s.want)
		}
	}

	got, err := repo.ByToken(ctx, "tok")
	if err != nil {
		t.Fatalf("ByToken: %v", err)
	}
	if got.Handle != "alicia" || got.AvatarID != "C3" {
		t.Fatalf("stored = %+v, want alicia/C3", got)
	}
}

func TestRepository_UpdateProfileUnknownID(t *testing.T) {
	repo := openTestRepo(t)
	if _, err := repo.UpdateProfile(context.Background(), "nope", "alice", "C1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("UpdateProfile err = %v, want ErrNotFound", err)
	}
}

func TestRepository_SignOutEvents(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	rec, err := repo.EnsureAccount(ctx, "tok", "")
	if err != nil {
		t.Fatalf("EnsureAccount: %v", err)
	}

	for i := 0; i < 2; i++ {
		id, err := repo.RecordSignOut(ctx, rec.ID)
		if err != nil {
			t.Fatalf("RecordSignOut: %v", err)
		}
		if id == "" {
			t.Fatalf("RecordSignOut returned empty id")
		}
	}
	n, err := repo.SignOutCount(ctx, rec.ID)
	if err != nil {
		t.Fatalf("SignOutCount: %v", err)
	}
	if n != 2 {
		t.Fatalf("SignOutCount = %d, want 2", n)
	}

	if _, err := repo.RecordSignOut(ctx, "unknown"); err == nil {
		t.Fatalf("RecordSignOut for unknown profile succeeded; foreign keys not enforced")
	}
}
