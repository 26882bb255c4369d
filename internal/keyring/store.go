package keyring

import (
	"encoding/json"
	"errors"
	"fmt"

	zk "github.com/zalando/go-keyring"
)

const (
	serviceName = "weekhours"
	identityKey = "identity"
)

var ErrNoIdentity = errors.New("no signed-in user")

// Identity is the last signed-in user, kept between runs.
type Identity struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CSRFToken string `json:"csrf_token,omitempty"`
}

func SaveIdentity(id Identity) error {
	if id.ID <= 0 {
		return errors.New("user id is required")
	}
	if id.Username == "" {
		return errors.New("username is required")
	}
	data, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := zk.Set(serviceName, identityKey, string(data)); err != nil {
		return fmt.Errorf("save identity to keyring: %w", err)
	}
	return nil
}

func LoadIdentity() (Identity, error) {
	raw, err := zk.Get(serviceName, identityKey)
	if err != nil {
		if errors.Is(err, zk.ErrNotFound) {
			return Identity{}, ErrNoIdentity
		}
		return Identity{}, fmt.Errorf("read identity from keyring: %w", err)
	}

	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return Identity{}, fmt.Errorf("decode identity: %w", err)
	}
	if id.ID <= 0 {
		return Identity{}, ErrNoIdentity
	}
	return id, nil
}

func DeleteIdentity() error {
	if err := zk.Delete(serviceName, identityKey); err != nil && !errors.Is(err, zk.ErrNotFound) {
		return fmt.Errorf("delete identity from keyring: %w", err)
	}
	return nil
}
