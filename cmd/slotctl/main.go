// slotctl inspects and administers the AutoNumber stores while the bot is
// stopped. It reads the same configuration as the bot; flags override the
// storage locations.
//
//	slotctl status
//	slotctl missing --count 25
//	slotctl leaderboard
//	slotctl slot 7
//	slotctl ledger
//	slotctl documents
//	slotctl reset --yes
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/flor3z/autonumber-bot/internal/config"
	"github.com/flor3z/autonumber-bot/internal/game"
	"github.com/flor3z/autonumber-bot/internal/ledger"
	"github.com/flor3z/autonumber-bot/internal/storage"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	backend   string
	dataFile  string
	stateFile string
	dbPath    string
	maxSlots  int
	count     int
	yes       bool
	logLevel  string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, err := config.LoadStorage()
	if err != nil {
		return err
	}

	var opts options
	flagSet := pflag.NewFlagSet("slotctl", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&opts.backend, "backend", cfg.StorageBackend, "storage backend (file or sqlite)")
	flagSet.StringVar(&opts.dataFile, "data-file", cfg.DataFile, "game data file")
	flagSet.StringVar(&opts.stateFile, "state-file", cfg.StateFile, "bot state file")
	flagSet.StringVar(&opts.dbPath, "db", cfg.DatabasePath, "SQLite database path")
	flagSet.IntVar(&opts.maxSlots, "max-slots", cfg.MaxSlots, "highest slot number")
	flagSet.IntVarP(&opts.count, "count", "n", 10, "number of entries to list")
	flagSet.BoolVar(&opts.yes, "yes", false, "confirm destructive commands")
	flagSet.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// Flags bypass the environment checks, so validate the merged values
	cfg.StorageBackend = opts.backend
	cfg.MaxSlots = opts.maxSlots
	if err := cfg.Validate(); err != nil {
		return err
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		return fmt.Errorf("missing command (status, missing, leaderboard, slot, ledger, documents, reset)")
	}

	logger := config.NewLogger(opts.logLevel, stderr)
	stores, err := storage.Open(storage.Options{
		Backend:      opts.backend,
		GameFile:     opts.dataFile,
		LedgerFile:   opts.stateFile,
		DatabasePath: opts.dbPath,
	})
	if err != nil {
		return err
	}
	defer stores.Close()

	registry := game.NewRegistry(opts.maxSlots)
	gateway := storage.NewGateway(stores.Game, logger)
	if err := gateway.Initialize(ctx, registry); err != nil {
		return err
	}

	switch cmd := rest[0]; cmd {
	case "status":
		st := registry.Stats()
		fmt.Fprintf(stdout, "claimed:     %d/%d\n", st.Claimed, st.MaxSlots)
		fmt.Fprintf(stdout, "remaining:   %d\n", st.Remaining)
		fmt.Fprintf(stdout, "players:     %d\n", st.Players)
		fmt.Fprintf(stdout, "complete:    %t\n", registry.IsComplete())
		fmt.Fprintf(stdout, "last update: %s\n", storage.FormatTimestamp(st.LastUpdate))
	case "missing":
		missing := registry.FirstMissing(opts.count)
		if len(missing) == 0 {
			fmt.Fprintln(stdout, "all numbers found")
			return nil
		}
		fmt.Fprintln(stdout, strings.Join(missing, ", "))
	case "leaderboard":
		counts := registry.OwnerCounts()
		if opts.count > 0 && len(counts) > opts.count {
			counts = counts[:opts.count]
		}
		tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RANK\tOWNER\tCOUNT\tFIRST CLAIM")
		for idx, oc := range counts {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", idx+1, oc.OwnerID, oc.Count, storage.FormatTimestamp(oc.FirstClaim))
		}
		return tw.Flush()
	case "slot":
		if len(rest) < 2 {
			return fmt.Errorf("slot requires a number")
		}
		if !registry.IsValidSlot(rest[1]) {
			return fmt.Errorf("invalid slot %q", rest[1])
		}
		slot, ok := registry.Slot(rest[1])
		if !ok {
			key, _ := registry.Normalize(rest[1])
			fmt.Fprintf(stdout, "%s: unclaimed\n", key)
			return nil
		}
		fmt.Fprintf(stdout, "%s: claimed by %s at %s\n", slot.Key, slot.OwnerID, storage.FormatTimestamp(slot.ClaimedAt))
	case "ledger":
		st, err := ledger.New(stores.Ledger).Load(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "last update id:     %d\n", st.LastUpdateID)
		fmt.Fprintf(stdout, "last activity:      %s\n", storage.FormatTimestamp(st.LastActivity))
		fmt.Fprintf(stdout, "last message:       %s\n", storage.FormatTimestamp(st.LastMessageTime))
		fmt.Fprintf(stdout, "messages processed: %d\n", st.TotalMessagesProcessed)
	case "documents":
		repo := stores.Repository()
		if repo == nil {
			return fmt.Errorf("documents requires the sqlite backend")
		}
		docs, err := repo.ListDocuments(ctx)
		if err != nil {
			return err
		}
		for _, d := range docs {
			fmt.Fprintf(stdout, "%s\t%d bytes\t%s\n", d.Name, d.Size, storage.FormatTimestamp(d.UpdatedAt))
		}
	case "reset":
		if !opts.yes {
			return fmt.Errorf("reset deletes every claim; rerun with --yes")
		}
		registry.Reset()
		if err := gateway.Save(ctx, registry); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "game reset")
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	return nil
}
