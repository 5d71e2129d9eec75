package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/tonhe/fabkey/internal/apstra"
	"github.com/tonhe/fabkey/internal/config"
	"github.com/tonhe/fabkey/internal/profile"
)

func loadConfig() (*config.Config, error) {
	path, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}
	return config.LoadConfig(path)
}

// openStore opens the encrypted profile store. The master key comes from
// FABKEY_MASTER_KEY when set; otherwise the store is tried with an empty
// key first so users who never set one are not prompted.
func openStore() (*profile.FileStore, error) {
	if err := config.EnsureDirs(); err != nil {
		return nil, err
	}
	path, err := config.GetProfileStorePath()
	if err != nil {
		return nil, err
	}

	if key := os.Getenv("FABKEY_MASTER_KEY"); key != "" {
		return profile.NewFileStore(path, []byte(key))
	}

	store, err := profile.NewFileStore(path, nil)
	if err == nil {
		return store, nil
	}
	if !errors.Is(err, profile.ErrDecrypt) {
		return nil, err
	}

	key, err := promptSecret("Profile store master key")
	if err != nil {
		return nil, err
	}
	return profile.NewFileStore(path, []byte(key))
}

// loginClient resolves controller credentials and returns a logged-in
// client. FABKEY_SERVER/USERNAME/PASSWORD take precedence over profiles.
func loginClient(cfg *config.Config, profileName string) (*apstra.Client, error) {
	server := os.Getenv("FABKEY_SERVER")
	username := os.Getenv("FABKEY_USERNAME")
	password := os.Getenv("FABKEY_PASSWORD")

	if server == "" {
		name := profileName
		if name == "" {
			name = cfg.DefaultProfile
		}
		if name != "" {
			store, err := openStore()
			if err != nil {
				return nil, fmt.Errorf("opening profile store: %w", err)
			}
			p, err := store.Get(name)
			if err != nil {
				return nil, fmt.Errorf("profile %s: %w", name, err)
			}
			server, username, password = p.Server, p.Username, p.Password
		}
	}

	if server == "" {
		server = promptLine("Apstra server")
	}
	if username == "" {
		username = promptLine("Username")
	}
	if password == "" {
		var err error
		password, err = promptSecret("Password")
		if err != nil {
			return nil, err
		}
	}

	client := apstra.NewClient(server, apstra.Options{
		SkipVerify:   cfg.SkipVerify,
		PollInterval: cfg.PollInterval,
		PollAttempts: cfg.PollAttempts,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := client.Login(ctx, username, password); err != nil {
		return nil, fmt.Errorf("login to %s: %w", server, err)
	}
	fmt.Printf("Logged in to %s as %s\n", server, username)
	return client, nil
}
