package profile

import (
	"errors"
	"path/filepath"
	"testing"
)

func testProfile() Profile {
	return Profile{
		Name:     "lab",
		Server:   "apstra.lab.example:443",
		Username: "admin",
		Password: "hunter2",
	}
}

func TestStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.enc")

	s, err := NewFileStore(path, []byte("master"))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if err := s.Add(testProfile()); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	// Reopen with the same password.
	s2, err := NewFileStore(path, []byte("master"))
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	p, err := s2.Get("lab")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if p.Server != "apstra.lab.example:443" || p.Password != "hunter2" {
		t.Errorf("round-trip profile = %+v", p)
	}
}

func TestStoreWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.enc")
	s, err := NewFileStore(path, []byte("right"))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if err := s.Add(testProfile()); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	_, err = NewFileStore(path, []byte("wrong"))
	if !errors.Is(err, ErrDecrypt) {
		t.Errorf("opening with wrong password = %v, want ErrDecrypt", err)
	}
}

func TestStoreDuplicateAndMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.enc")
	s, err := NewFileStore(path, []byte(""))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	if err := s.Add(testProfile()); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := s.Add(testProfile()); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Add() = %v, want ErrDuplicate", err)
	}
	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope) = %v, want ErrNotFound", err)
	}
	if err := s.Remove("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Remove(nope) = %v, want ErrNotFound", err)
	}
}

func TestStoreUpdateRename(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.enc")
	s, err := NewFileStore(path, []byte(""))
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}
	if err := s.Add(testProfile()); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	p := testProfile()
	p.Name = "lab2"
	if err := s.Update("lab", p); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if _, err := s.Get("lab"); !errors.Is(err, ErrNotFound) {
		t.Error("old name should be gone after rename")
	}
	if _, err := s.Get("lab2"); err != nil {
		t.Errorf("Get(lab2) error: %v", err)
	}
}

func TestSummaryOmitsPassword(t *testing.T) {
	p := testProfile()
	sum := p.Summarize()
	if sum.Name != "lab" || sum.Username != "admin" {
		t.Errorf("Summary = %+v", sum)
	}
}
