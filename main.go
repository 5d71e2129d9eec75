package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tonhe/fabkey/cmd"
	"github.com/tonhe/fabkey/internal/config"
	"github.com/tonhe/fabkey/tui"
)

func main() {
	if len(os.Args) > 1 {
		if !cmd.IsSubcommand(os.Args[1]) {
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
			os.Exit(1)
		}
		cmd.Execute(os.Args[1:])
		return
	}

	cfg := config.DefaultConfig()
	cfgDir, err := config.GetConfigDir()
	if err == nil {
		loaded, loadErr := config.LoadConfig(filepath.Join(cfgDir, "config.toml"))
		if loadErr == nil {
			cfg = loaded
		}
	}

	model := tui.NewAppModel(cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
