package usm

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"testing"
)

const testEngineID = "80 00 0a 4c 04 61 64 6d 69 6e"

func TestDeriveSHA1(t *testing.T) {
	keys, err := DeriveSHA1(testEngineID, "Sup3rSecret!")
	if err != nil {
		t.Fatalf("DeriveSHA1() error: %v", err)
	}
	if got, want := keys.AuthHex(), "0222a0459298c7c8d29751d46b22b29d10348ce1"; got != want {
		t.Errorf("auth key = %s, want %s", got, want)
	}
	if got, want := keys.PrivHex(), "0222a0459298c7c8d29751d46b22b29d"; got != want {
		t.Errorf("priv key = %s, want %s", got, want)
	}
}

func TestDeriveKeyLengths(t *testing.T) {
	keys, err := DeriveSHA1(testEngineID, "anything")
	if err != nil {
		t.Fatalf("DeriveSHA1() error: %v", err)
	}
	if len(keys.Auth) != 20 {
		t.Errorf("auth key length = %d, want 20", len(keys.Auth))
	}
	if len(keys.Priv) != 16 {
		t.Errorf("priv key length = %d, want 16", len(keys.Priv))
	}
}

func TestDeriveDeterministic(t *testing.T) {
	k1, err := DeriveSHA1(testEngineID, "repeatable")
	if err != nil {
		t.Fatalf("DeriveSHA1() error: %v", err)
	}
	k2, err := DeriveSHA1(testEngineID, "repeatable")
	if err != nil {
		t.Fatalf("DeriveSHA1() error: %v", err)
	}
	if !bytes.Equal(k1.Auth, k2.Auth) || !bytes.Equal(k1.Priv, k2.Priv) {
		t.Error("same inputs should produce byte-identical keys")
	}
}

func TestDeriveKnownVector(t *testing.T) {
	// Classic RFC-style localization vector for this kernel.
	keys, err := DeriveSHA1("8000000001020304", "maplesyrup")
	if err != nil {
		t.Fatalf("DeriveSHA1() error: %v", err)
	}
	if got, want := keys.AuthHex(), "893790b309daca26bea3240f307f1526358c3d5d"; got != want {
		t.Errorf("auth key = %s, want %s", got, want)
	}
}

func TestDeriveEmptyPassphrase(t *testing.T) {
	keys, err := DeriveSHA1(testEngineID, "")
	if err != nil {
		t.Fatalf("DeriveSHA1() with empty passphrase should not fail: %v", err)
	}
	if got, want := keys.AuthHex(), "a26fa8e81005a86a0e4aa829b7861668e097ea96"; got != want {
		t.Errorf("auth key = %s, want %s", got, want)
	}
}

func TestDeriveNonSHA1NoTruncation(t *testing.T) {
	keys, err := DeriveKeys(testEngineID, "Sup3rSecret!", sha256.New)
	if err != nil {
		t.Fatalf("DeriveKeys() error: %v", err)
	}
	if len(keys.Priv) != sha256.Size {
		t.Errorf("non-SHA-1 priv key should be the full digest, got %d bytes", len(keys.Priv))
	}
}

func TestDeriveBadEngineID(t *testing.T) {
	cases := []struct {
		name     string
		engineID string
		want     error
	}{
		{"non-hex", "80 00 zz 4c", ErrInvalidEngineID},
		{"odd length", "80 00 0a 4", ErrInvalidEngineID},
		{"empty", "", ErrEmptyEngineID},
		{"whitespace only", "  \t ", ErrEmptyEngineID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DeriveSHA1(tc.engineID, "pass")
			if !errors.Is(err, tc.want) {
				t.Errorf("DeriveSHA1(%q) error = %v, want %v", tc.engineID, err, tc.want)
			}
		})
	}
}

func TestCleanEngineID(t *testing.T) {
	raw, err := CleanEngineID("80 00 0a 4c 04 61 64 6d 69 6e")
	if err != nil {
		t.Fatalf("CleanEngineID() error: %v", err)
	}
	want := []byte{0x80, 0x00, 0x0a, 0x4c, 0x04, 0x61, 0x64, 0x6d, 0x69, 0x6e}
	if !bytes.Equal(raw, want) {
		t.Errorf("CleanEngineID() = %x, want %x", raw, want)
	}
}

func TestLocalEngineID(t *testing.T) {
	if got, want := LocalEngineID("admin"), "80000a4c0461646d696e"; got != want {
		t.Errorf("LocalEngineID(admin) = %s, want %s", got, want)
	}
}

func TestEngineIDUnsupportedType(t *testing.T) {
	_, err := EngineID("admin", "mac")
	if !errors.Is(err, ErrUnsupportedEngineType) {
		t.Errorf("EngineID with type mac should fail, got %v", err)
	}

	id, err := EngineID("admin", "local")
	if err != nil {
		t.Fatalf("EngineID(local) error: %v", err)
	}
	if id != "80000a4c0461646d696e" {
		t.Errorf("EngineID(local) = %s", id)
	}
}
