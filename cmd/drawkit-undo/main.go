// ABOUTME: CLI entry point for the drawkit undo demo
// ABOUTME: Loads settings, then runs the Bubble Tea host on a terminal or scripted mode otherwise

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"golang.org/x/term"

	// termfix must be imported before any package that imports bubbletea.
	_ "github.com/mauromedda/drawkit-undo-go/internal/termfix"

	"github.com/mauromedda/drawkit-undo-go/internal/canvas"
	"github.com/mauromedda/drawkit-undo-go/internal/config"
	"github.com/mauromedda/drawkit-undo-go/internal/keybindings"
	dklog "github.com/mauromedda/drawkit-undo-go/internal/log"
	"github.com/mauromedda/drawkit-undo-go/internal/mode/interactive/btea"
	"github.com/mauromedda/drawkit-undo-go/internal/mode/script"
	"github.com/mauromedda/drawkit-undo-go/pkg/undo"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("drawkit-undo %s (%s)\n", version, commit)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run loads settings and dispatches to the selected mode.
func run(args cliArgs) error {
	root := args.project
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		root = cwd
	}

	settings, err := config.Load(root)
	if err != nil {
		return err
	}
	if args.lang != "" {
		settings.Language = args.lang
	}
	if err := setupLogging(args, settings); err != nil {
		return err
	}

	opts, err := settings.Options()
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	interactive := !args.scripted && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if interactive {
		return runInteractive(args, root, settings, opts)
	}
	return runScripted(args, opts)
}

func setupLogging(args cliArgs, settings *config.Settings) error {
	lvl, err := dklog.ParseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	if args.verbose {
		lvl = dklog.LevelDebug
	}
	dklog.SetLevel(lvl)
	return nil
}

func runInteractive(args cliArgs, root string, settings *config.Settings, opts []undo.Option) error {
	keys, err := keybindings.New(settings.Keys)
	if err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	for _, c := range keys.Conflicts() {
		dklog.Warn("key %q is bound to %v", c.Key, c.Actions)
	}

	// Log records would corrupt the alt screen.
	var out io.Writer = io.Discard
	if args.logFile != "" {
		f, err := os.OpenFile(args.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	dklog.SetOutput(out)
	defer dklog.SetOutput(os.Stderr)

	doc := canvas.New("untitled", undo.NewManager(opts...))
	return btea.Run(btea.AppDeps{Doc: doc, Keys: keys}, root)
}

func runScripted(args cliArgs, opts []undo.Option) error {
	src := script.DefaultScript
	if args.script != "" {
		data, err := os.ReadFile(args.script)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}
		src = string(data)
	}
	steps, err := script.ParseString(src)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	dklog.Debug("running %d steps on %d documents", len(steps), args.docs)
	cfg := script.Config{Docs: args.docs, Options: opts, Width: args.width}
	return script.Run(ctx, cfg, steps, os.Stdout)
}
