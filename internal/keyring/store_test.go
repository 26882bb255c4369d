package keyring

import (
	"errors"
	"testing"

	zk "github.com/zalando/go-keyring"
)

func TestIdentityRoundTrip(t *testing.T) {
	zk.MockInit()

	if _, err := LoadIdentity(); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}

	want := Identity{ID: 12, Username: "ada", Email: "ada@example.com", CSRFToken: "tok"}
	if err := SaveIdentity(want); err != nil {
		t.Fatalf("SaveIdentity: %v", err)
	}
	got, err := LoadIdentity()
	if err != nil {
		t.Fatalf("LoadIdentity: %v", err)
	}
	if got != want {
		t.Fatalf("identity mismatch: %+v vs %+v", got, want)
	}

	if err := DeleteIdentity(); err != nil {
		t.Fatalf("DeleteIdentity: %v", err)
	}
	if err := DeleteIdentity(); err != nil {
		t.Fatalf("second DeleteIdentity should be a no-op: %v", err)
	}
	if _, err := LoadIdentity(); !errors.Is(err, ErrNoIdentity) {
		t.Fatalf("expected ErrNoIdentity after delete, got %v", err)
	}
}

func TestSaveIdentityRequiresFields(t *testing.T) {
	zk.MockInit()
	if err := SaveIdentity(Identity{Username: "ada"}); err == nil {
		t.Fatalf("expected error without id")
	}
	if err := SaveIdentity(Identity{ID: 1}); err == nil {
		t.Fatalf("expected error without username")
	}
}
