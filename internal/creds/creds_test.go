package creds

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvAddress, EnvEntityID, EnvAPIKey} {
		t.Setenv(k, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "creds.json")
	data := `{"address": "rig.local.viam.cloud", "entity_id": "key-id", "api_key": "secret"}`
	test.That(t, os.WriteFile(path, []byte(data), 0o600), test.ShouldBeNil)

	c, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Address, test.ShouldEqual, "rig.local.viam.cloud")
	test.That(t, c.EntityID, test.ShouldEqual, "key-id")
	test.That(t, c.APIKey, test.ShouldEqual, "secret")
}

func TestLoadEnvFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "from-env")
	path := filepath.Join(t.TempDir(), "creds.json")
	test.That(t, os.WriteFile(path, []byte(`{"address": "a", "entity_id": "b"}`), 0o600), test.ShouldBeNil)

	c, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.APIKey, test.ShouldEqual, "from-env")

	t.Setenv(EnvAddress, "env-address")
	t.Setenv(EnvEntityID, "env-id")
	c, err = Load("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.Address, test.ShouldEqual, "env-address")
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)
	_, err := Load("")
	test.That(t, errors.Is(err, ErrIncomplete), test.ShouldBeTrue)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	path := filepath.Join(t.TempDir(), "bad.json")
	test.That(t, os.WriteFile(path, []byte("{"), 0o600), test.ShouldBeNil)
	_, err = Load(path)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, ErrIncomplete), test.ShouldBeFalse)
}
