package profile

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/crypto/argon2"
)

var (
	ErrNotFound  = errors.New("profile not found")
	ErrDuplicate = errors.New("profile already exists")
	ErrDecrypt   = errors.New("failed to decrypt profile store (wrong password?)")
)

const (
	saltLen      = 16
	keyLen       = 32 // AES-256
	argonTime    = 1
	argonMem     = 64 * 1024 // 64 MB
	argonThreads = 4
)

type storeFile struct {
	Salt []byte `json:"salt"`
	Data []byte `json:"data"`
}

// FileStore implements Provider with argon2id + AES-256-GCM sealed JSON
// persistence.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	key      []byte
	salt     []byte
	profiles map[string]Profile
}

// NewFileStore opens or creates an encrypted profile store at path. A new
// store gets a fresh salt; an existing one is unsealed with the password.
func NewFileStore(path string, password []byte) (*FileStore, error) {
	s := &FileStore{
		path:     path,
		profiles: make(map[string]Profile),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			s.salt = make([]byte, saltLen)
			if _, err := io.ReadFull(rand.Reader, s.salt); err != nil {
				return nil, err
			}
			s.key = sealKey(password, s.salt)
			return s, s.save()
		}
		return nil, err
	}

	var sf storeFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("corrupt profile store: %w", err)
	}

	s.salt = sf.Salt
	s.key = sealKey(password, sf.Salt)

	plaintext, err := unseal(s.key, sf.Data)
	if err != nil {
		return nil, ErrDecrypt
	}
	if err := json.Unmarshal(plaintext, &s.profiles); err != nil {
		return nil, fmt.Errorf("corrupt profile data: %w", err)
	}
	return s, nil
}

// sealKey derives the 32-byte sealing key from the master password.
func sealKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMem, argonThreads, keyLen)
}

// seal encrypts plaintext with AES-256-GCM, returning nonce + ciphertext.
func seal(key, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// unseal decrypts nonce-prefixed AES-256-GCM data.
func unseal(key, data []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(data) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

// save seals and writes the profile map to disk.
func (s *FileStore) save() error {
	plaintext, err := json.Marshal(s.profiles)
	if err != nil {
		return err
	}
	sealed, err := seal(s.key, plaintext)
	if err != nil {
		return err
	}
	data, err := json.Marshal(storeFile{Salt: s.salt, Data: sealed})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// List returns summaries of all stored profiles.
func (s *FileStore) List() ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]Summary, 0, len(s.profiles))
	for _, p := range s.profiles {
		summaries = append(summaries, p.Summarize())
	}
	return summaries, nil
}

// Get returns the profile with the given name, or ErrNotFound.
func (s *FileStore) Get(name string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[name]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Add stores a new profile. Returns ErrDuplicate if the name already exists.
func (s *FileStore) Add(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[p.Name]; exists {
		return ErrDuplicate
	}
	s.profiles[p.Name] = p
	return s.save()
}

// Update replaces an existing profile. Returns ErrNotFound if the name does
// not exist.
func (s *FileStore) Update(name string, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[name]; !exists {
		return ErrNotFound
	}
	if name != p.Name {
		delete(s.profiles, name)
	}
	s.profiles[p.Name] = p
	return s.save()
}

// Remove deletes a profile by name. Returns ErrNotFound if it does not
// exist.
func (s *FileStore) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[name]; !exists {
		return ErrNotFound
	}
	delete(s.profiles, name)
	return s.save()
}
