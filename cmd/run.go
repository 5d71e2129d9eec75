package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/tonhe/fabkey/internal/apstra"
	"github.com/tonhe/fabkey/internal/batch"
	"github.com/tonhe/fabkey/internal/config"
	"github.com/tonhe/fabkey/internal/engine"
)

func runCmd(args []string) {
	profileName, args, _ := flagValue(args, "--profile")
	blueprintLabel, args, haveBlueprint := flagValue(args, "--blueprint")
	mode, args, haveMode := flagValue(args, "--mode")
	batchName, args, haveBatch := flagValue(args, "--batch")
	outputFile, args, haveOutput := flagValue(args, "--output")
	salt, args, haveSalt := flagValue(args, "--salt")
	randPrefix, args, haveRand := flagValue(args, "--rand")
	args, upload := flagBool(args, "--upload")
	args, noOverwrite := flagBool(args, "--no-overwrite")
	args, allBlueprints := flagBool(args, "--all-blueprints")

	if len(args) != 0 {
		fatal("unexpected argument: %s", args[0])
	}
	if haveSalt && len(salt) != 1 {
		fatal("--salt takes a single character")
	}
	if haveRand && !haveSalt {
		fatal("--rand requires --salt")
	}

	cfg, err := loadConfig()
	if err != nil {
		fatal("loading config: %v", err)
	}

	var b *batch.Batch
	if haveBatch {
		path := batchName
		if _, statErr := os.Stat(path); statErr != nil {
			dir, dirErr := config.GetBatchesDir()
			if dirErr != nil {
				fatal("%v", dirErr)
			}
			path = filepath.Join(dir, batchName+".toml")
		}
		b, err = batch.LoadBatch(path)
		if err != nil {
			fatal("loading batch %s: %v", batchName, err)
		}
		if !haveBlueprint {
			blueprintLabel = b.Blueprint
			haveBlueprint = blueprintLabel != ""
		}
		if !haveMode {
			mode = b.Mode
			haveMode = true
		}
		if !haveSalt && b.Salt != "" {
			salt = b.Salt
			haveSalt = true
		}
		if !haveRand && b.Rand != "" {
			randPrefix = b.Rand
			haveRand = true
		}
	}
	if !haveMode {
		mode = string(engine.ModeExtract)
	}
	if mode != string(engine.ModeExtract) && mode != string(engine.ModeDerive) {
		fatal("--mode must be extract or derive")
	}
	if !haveBlueprint && !allBlueprints {
		fatal("either --blueprint or --all-blueprints is required")
	}

	client, err := loginClient(cfg, profileName)
	if err != nil {
		fatal("%v", err)
	}

	passphrase := ""
	if mode == string(engine.ModeDerive) {
		passphrase = os.Getenv("FABKEY_SNMP_PASSPHRASE")
		if passphrase == "" {
			passphrase, err = promptSecret("SNMPv3 passphrase")
			if err != nil {
				fatal("reading passphrase: %v", err)
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	blueprints, err := client.Blueprints(ctx)
	if err != nil {
		fatal("listing blueprints: %v", err)
	}

	var targets []apstra.Blueprint
	if allBlueprints {
		targets = blueprints
	} else {
		for _, bp := range blueprints {
			if bp.Label == blueprintLabel || bp.ID == blueprintLabel {
				targets = append(targets, bp)
				break
			}
		}
		if len(targets) == 0 {
			fatal("blueprint %q not found", blueprintLabel)
		}
	}

	var allResults []engine.SystemResult
	for _, bp := range targets {
		results, failures, runErr := runBlueprint(ctx, client, cfg, bp, b, engine.Mode(mode), passphrase, salt, randPrefix, haveSalt, upload, noOverwrite)
		allResults = append(allResults, results...)
		for _, f := range failures {
			fmt.Fprintf(os.Stderr, "  failed %s: %s\n", f.Hostname, f.Reason)
		}
		if runErr != nil {
			fatal("run cancelled: %v", runErr)
		}
	}

	if haveOutput || cfg.OutputFile != "" {
		path := outputFile
		if path == "" {
			path = cfg.OutputFile
		}
		if err := engine.WriteResults(path, allResults); err != nil {
			fatal("writing %s: %v", path, err)
		}
		fmt.Printf("Wrote %d results to %s\n", len(allResults), path)
	}
}

func runBlueprint(ctx context.Context, client *apstra.Client, cfg *config.Config, bp apstra.Blueprint, b *batch.Batch, mode engine.Mode, passphrase, salt, randPrefix string, haveSalt, upload, noOverwrite bool) ([]engine.SystemResult, []engine.Failure, error) {
	fmt.Printf("Blueprint %s\n", bp.Label)

	systems, err := client.SwitchSystems(ctx, bp.ID)
	if err != nil {
		fatal("listing systems for %s: %v", bp.Label, err)
	}
	if b != nil {
		kept := systems[:0]
		for _, s := range systems {
			if b.WantsSystem(s.Hostname) {
				kept = append(kept, s)
			}
		}
		systems = kept
	}
	fmt.Printf("  %d switches\n", len(systems))

	params := engine.Params{
		Blueprint:  bp.ID,
		Systems:    systems,
		Mode:       mode,
		Passphrase: passphrase,
		Rand:       randPrefix,
		Workers:    cfg.Workers,
	}
	if haveSalt {
		params.Salt = salt[0]
	}
	if b != nil && b.Command != "" {
		params.Command = b.Command
	}

	runner, err := engine.NewRunner(client, params)
	if err != nil {
		fatal("%v", err)
	}

	start := time.Now()
	runErr := runner.Run(ctx)
	snap := runner.Snapshot()
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "  cancelled after %d/%d systems, nothing uploaded\n", snap.Done, snap.Total)
		return snap.Results, snap.Failures, runErr
	}
	fmt.Printf("  %d ok, %d failed in %s\n", len(snap.Results), len(snap.Failures), time.Since(start).Round(time.Second))

	if upload && len(snap.Results) > 0 {
		label := bp.Label + "-" + cfg.PropertySetName
		if b != nil && b.PropertySet != "" {
			label = b.PropertySet
		}
		if noOverwrite {
			sets, err := client.PropertySets(ctx)
			if err != nil {
				fatal("listing property sets: %v", err)
			}
			if apstra.FindPropertySet(sets, label) != nil {
				fmt.Printf("  property set %s exists, skipping (--no-overwrite)\n", label)
				return snap.Results, snap.Failures, nil
			}
		}
		if err := client.UpsertPropertySet(ctx, label, engine.PayloadValues(snap.Results)); err != nil {
			fatal("uploading property set %s: %v", label, err)
		}
		fmt.Printf("  uploaded property set %s\n", label)
	}

	return snap.Results, snap.Failures, nil
}
