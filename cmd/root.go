package cmd

import (
	"fmt"
	"os"
)

// knownSubcommands is the set of CLI subcommands that bypass the TUI.
var knownSubcommands = map[string]bool{
	"run":     true,
	"derive":  true,
	"encode":  true,
	"verify":  true,
	"profile": true,
	"config":  true,
	"version": true,
	"help":    true,
}

// IsSubcommand returns true if the argument is a known CLI subcommand.
func IsSubcommand(arg string) bool {
	return knownSubcommands[arg]
}

// Execute dispatches to the appropriate CLI subcommand handler.
func Execute(args []string) {
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "run":
		runCmd(args[1:])
	case "derive":
		deriveCmd(args[1:])
	case "encode":
		encodeCmd(args[1:])
	case "verify":
		verifyCmd(args[1:])
	case "profile":
		profileCmd(args[1:])
	case "config":
		configCmd(args[1:])
	case "version":
		fmt.Println("fabkey v0.1.0")
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`fabkey - SNMPv3 key tool for Apstra-managed fabrics

Usage:
  fabkey                     Launch TUI
  fabkey run [flags]         Retrieve or derive keys across a blueprint
  fabkey derive [flags]      Derive keys for one engine-id locally
  fabkey encode [flags] VAL  Junos $9$-encode a value
  fabkey verify USER HOST    Test derived SNMPv3 credentials on a device
  fabkey profile <cmd>       Manage controller login profiles
  fabkey config <cmd>        Manage configuration
  fabkey version             Show version
  fabkey help                Show this help

Run flags:
  --profile NAME     Controller profile (default from config)
  --blueprint LABEL  Blueprint to process (omit with --all-blueprints)
  --all-blueprints   Process every blueprint
  --mode MODE        extract (device keys) or derive (from passphrase)
  --batch NAME       Load parameters from a saved batch file
  --upload           Upsert results into a controller property set
  --no-overwrite     With --upload, skip blueprints whose set already exists
  --output FILE      Also write results to a JSON file
  --salt C           Fixed $9$ salt character (derive mode)
  --rand S           Fixed $9$ random prefix (derive mode, needs --salt)

Derive flags:
  --engine-id ID     Engine-id hex (spaces allowed, quote it)
  --identifier NAME  Build a local engine-id from an identifier instead
  --salt C / --rand S  As above

Profile commands:
  fabkey profile list            List profiles
  fabkey profile add             Add a profile (interactive)
  fabkey profile remove NAME     Remove a profile

Config commands:
  fabkey config path                 Show config directory path
  fabkey config profile NAME         Set default profile
  fabkey config property-set NAME    Set default property-set label

Environment:
  FABKEY_SERVER / FABKEY_USERNAME / FABKEY_PASSWORD   Controller login
  FABKEY_SNMP_PASSPHRASE                              Derivation passphrase
  FABKEY_MASTER_KEY                                   Profile store password`)
}
