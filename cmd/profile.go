package cmd

import (
	"fmt"
	"os"

	"github.com/tonhe/fabkey/internal/profile"
)

func profileCmd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: fabkey profile <list|add|remove NAME>")
		os.Exit(1)
	}

	store, err := openStore()
	if err != nil {
		fatal("opening profile store: %v", err)
	}

	switch args[0] {
	case "list":
		listProfiles(store)
	case "add":
		addProfile(store)
	case "remove":
		if len(args) != 2 {
			fatal("remove requires a profile name")
		}
		if err := store.Remove(args[1]); err != nil {
			fatal("removing %s: %v", args[1], err)
		}
		fmt.Printf("Removed profile %s\n", args[1])
	default:
		fatal("unknown profile command: %s", args[0])
	}
}

func listProfiles(store *profile.FileStore) {
	summaries, err := store.List()
	if err != nil {
		fatal("listing profiles: %v", err)
	}
	if len(summaries) == 0 {
		fmt.Println("No profiles saved.")
		return
	}
	for _, s := range summaries {
		fmt.Printf("%-20s %s@%s\n", s.Name, s.Username, s.Server)
	}
}

func addProfile(store *profile.FileStore) {
	p := profile.Profile{
		Name:     promptLine("Profile name"),
		Server:   promptLine("Apstra server"),
		Username: promptLine("Username"),
	}
	password, err := promptSecret("Password")
	if err != nil {
		fatal("reading password: %v", err)
	}
	p.Password = password

	if err := store.Add(p); err != nil {
		fatal("saving profile: %v", err)
	}
	fmt.Printf("Saved profile %s\n", p.Name)
}
