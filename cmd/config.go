package cmd

import (
	"fmt"
	"os"

	"github.com/tonhe/fabkey/internal/config"
)

func configCmd(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: fabkey config <path|profile NAME|property-set NAME|theme NAME>")
		os.Exit(1)
	}

	switch args[0] {
	case "path":
		dir, err := config.GetConfigDir()
		if err != nil {
			fatal("%v", err)
		}
		fmt.Println(dir)
	case "profile":
		setConfigField(args, func(cfg *config.Config, value string) {
			cfg.DefaultProfile = value
		})
	case "property-set":
		setConfigField(args, func(cfg *config.Config, value string) {
			cfg.PropertySetName = value
		})
	case "theme":
		setConfigField(args, func(cfg *config.Config, value string) {
			cfg.Theme = value
		})
	default:
		fatal("unknown config command: %s", args[0])
	}
}

func setConfigField(args []string, set func(*config.Config, string)) {
	if len(args) != 2 {
		fatal("%s requires a value", args[0])
	}
	if err := config.EnsureDirs(); err != nil {
		fatal("%v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		fatal("loading config: %v", err)
	}
	set(cfg, args[1])
	path, err := config.GetConfigPath()
	if err != nil {
		fatal("%v", err)
	}
	if err := config.SaveConfig(cfg, path); err != nil {
		fatal("saving config: %v", err)
	}
	fmt.Printf("Set %s to %s\n", args[0], args[1])
}
