// Package main is the entry point for the mudlark automation core.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/mudlark/internal/config"
	"github.com/dshills/mudlark/internal/event"
	"github.com/dshills/mudlark/internal/kit"
	"github.com/dshills/mudlark/internal/room"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath  string
	writeConfig bool
	whoFile     string
	lookFile    string
	scripts     []string
	fixture     bool
	tap         bool
	showNames   bool
	showRoom    bool
	showCatalog bool
	showStatus  bool
	exportLog   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	if opts.writeConfig {
		if err := config.WriteDefault(opts.configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Printf("wrote %s\n", opts.configPath)
		return 0
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	core, err := kit.New(kit.Options{Config: cfg})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer core.Close()

	ctx := context.Background()

	if opts.tap {
		if _, err := core.Diag().TapOn(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.fixture {
		if err := core.Room().IngestFixture(ctx, room.FixtureOptions{Source: cfg.Source}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	if opts.whoFile != "" {
		text, err := readInput(opts.whoFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		if err := core.Who().IngestText(ctx, text, event.Meta{Source: cfg.Source}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: who ingest: %v\n", err)
			return 1
		}
	}

	if opts.lookFile != "" {
		text, err := readInput(opts.lookFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		lookOpts := room.LookOptions{
			CapitalizedArePlayers: cfg.CapitalizedArePlayers,
			Source:                cfg.Source,
		}
		if err := core.Room().IngestLook(ctx, text, lookOpts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: look ingest: %v\n", err)
			return 1
		}
		if _, err := core.Room().ReclassifyFromWho(ctx, room.ReclassifyOptions{Source: cfg.Source}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: reclassify: %v\n", err)
			return 1
		}
	}

	for _, script := range opts.scripts {
		path := script
		if !filepath.IsAbs(path) && cfg.ScriptDir != "" {
			if _, err := os.Stat(path); err != nil {
				path = filepath.Join(cfg.ScriptDir, script)
			}
		}
		if err := core.Scripts().RunFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: script %s: %v\n", script, err)
			return 1
		}
	}

	if opts.showNames {
		for _, name := range core.Who().Names() {
			fmt.Println(name)
		}
	}

	if opts.showRoom {
		printRoom(core)
	}

	if opts.showCatalog {
		fmt.Print(core.Registry().Markdown())
	}

	if opts.exportLog {
		doc, err := core.Diag().ExportJSON()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(doc)
	}

	if opts.showStatus {
		if err := core.Diag().WriteStatus(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	return 0
}

func printRoom(core *kit.Kit) {
	state := core.Room().State()
	sections := []struct {
		label  string
		bucket room.Bucket
	}{
		{"players", room.BucketPlayers},
		{"mobs", room.BucketMobs},
		{"items", room.BucketItems},
		{"unknown", room.BucketUnknown},
	}
	for _, sec := range sections {
		ids := state.Sorted(sec.bucket)
		if len(ids) == 0 {
			continue
		}
		fmt.Printf("%s: %s\n", sec.label, strings.Join(ids, ", "))
	}
}

// readInput reads a capture file, or stdin when the path is "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func parseFlags() options {
	var opts options
	var scripts string
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "mudlark.json", "Path to configuration file")
	flag.StringVar(&opts.configPath, "c", "mudlark.json", "Path to configuration file (shorthand)")
	flag.BoolVar(&opts.writeConfig, "write-config", false, "Write the default configuration file and exit")
	flag.StringVar(&opts.whoFile, "who", "", "Who-list capture file to ingest (- for stdin)")
	flag.StringVar(&opts.lookFile, "look", "", "Room description file to ingest (- for stdin)")
	flag.StringVar(&scripts, "run", "", "Comma-separated Lua scripts to run")
	flag.BoolVar(&opts.fixture, "fixture", false, "Seed the room with the built-in fixture")
	flag.BoolVar(&opts.tap, "tap", false, "Record all event traffic")
	flag.BoolVar(&opts.showNames, "names", false, "Print the who-list names")
	flag.BoolVar(&opts.showRoom, "room", false, "Print the room occupant buckets")
	flag.BoolVar(&opts.showCatalog, "catalog", false, "Print the event catalog as Markdown")
	flag.BoolVar(&opts.showStatus, "status", false, "Print diagnostic status")
	flag.BoolVar(&opts.exportLog, "export-log", false, "Print the recorded event log as JSON")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Mudlark - MUD session automation core\n\n")
		fmt.Fprintf(os.Stderr, "Usage: mudlark [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  mudlark -who who.txt -names           Ingest a who capture and list names\n")
		fmt.Fprintf(os.Stderr, "  mudlark -who who.txt -look room.txt -room\n")
		fmt.Fprintf(os.Stderr, "                                        Classify room occupants against the who list\n")
		fmt.Fprintf(os.Stderr, "  mudlark -tap -who who.txt -export-log Record and dump event traffic\n")
		fmt.Fprintf(os.Stderr, "  mudlark -run watch.lua -status        Run an automation script\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("mudlark %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if scripts != "" {
		for _, s := range strings.Split(scripts, ",") {
			if s = strings.TrimSpace(s); s != "" {
				opts.scripts = append(opts.scripts, s)
			}
		}
	}

	return opts
}
