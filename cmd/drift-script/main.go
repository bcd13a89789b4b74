// Command drift-script is an interactive harness for the driftwm
// scripting core. It stands in for the compositor process during script
// development: it builds the property registry, loads an optional TOML
// config, seeds fake live state, and evaluates Lua read from stdin on a
// single cooperative loop, the same way the compositor drives event,
// timer, and IPC scripting.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/driftwm/driftwm/internal/config"
	"github.com/driftwm/driftwm/internal/config/loader"
	"github.com/driftwm/driftwm/internal/config/schema"
	"github.com/driftwm/driftwm/internal/event"
	"github.com/driftwm/driftwm/internal/loop"
	"github.com/driftwm/driftwm/internal/script"
	"github.com/driftwm/driftwm/internal/state"
)

// Options configures the harness. The options file is the harness's own
// concern and is not part of the compositor configuration tree.
type Options struct {
	// ConfigPath is the TOML configuration file to load at startup.
	ConfigPath string `yaml:"config"`
	// Seed populates fake windows, workspaces, and outputs at startup.
	Seed bool `yaml:"seed"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose"`
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log, err := newLogger(opts.Verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
		return 1
	}
	defer func() { _ = log.Sync() }()

	reg := schema.Global()
	notifier := event.New(log)
	store := config.NewState(reg,
		config.WithSink(notifier),
		config.WithLogger(log))

	if opts.ConfigPath != "" {
		warnings, err := loader.New(log).Load(store, opts.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "warning: unknown config key %s\n", w)
		}
		// The whole file went through one load; report it as a single
		// reconfiguration rather than leaving per-write categories for
		// the first tick to chew through.
		_ = store.Drain()
	}

	handle := state.New()
	if opts.Seed {
		seedState(handle)
	}

	env, err := script.New(store,
		script.WithLogger(log),
		script.WithStateHandle(handle.Clone()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer env.Close()

	notifier.Subscribe(func(c event.Change) {
		fmt.Printf("signal: %s = %v\n", c.Path, c.Value)
	})

	l := loop.New(log)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return l.Run(ctx)
	})
	g.Go(func() error {
		defer cancel()
		return readLines(ctx, l, env, handle)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// readLines feeds stdin to the loop one line at a time. Each line runs
// as its own task, exactly like an IPC-triggered evaluation would.
func readLines(ctx context.Context, l *loop.Loop, env *script.Env, handle state.Handle) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("drift> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":quit" {
			return nil
		}

		done := make(chan struct{})
		err := l.Post(func() {
			defer close(done)
			runLine(line, env, handle)
		})
		if err != nil {
			return nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func runLine(line string, env *script.Env, handle state.Handle) {
	switch {
	case line == ":dump":
		doc, err := env.Store().ExportJSON()
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Println(doc)
	case strings.HasPrefix(line, ":load "):
		data, err := os.ReadFile(strings.TrimSpace(strings.TrimPrefix(line, ":load ")))
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		warnings, err := env.Store().ImportJSON(string(data))
		for _, w := range warnings {
			fmt.Printf("warning: unknown config key %s\n", w)
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
	case line == ":dirty":
		cats := env.Store().Drain()
		if len(cats) == 0 {
			fmt.Println("clean")
			return
		}
		names := make([]string, len(cats))
		for i, c := range cats {
			names[i] = c.String()
		}
		fmt.Println(strings.Join(names, ", "))
	case line == ":state":
		for _, w := range handle.Windows() {
			fmt.Printf("window %d %q on workspace %d\n", w.ID, w.Title, w.WorkspaceID)
		}
		for _, o := range handle.Outputs() {
			fmt.Printf("output %s %dx%d @%gx\n", o.Name, o.LogicalWidth, o.LogicalHeight, o.Scale)
		}
		if p, ok := handle.CursorPosition(); ok {
			fmt.Printf("cursor %g,%g\n", p.X, p.Y)
		}
		fmt.Printf("focus %s\n", handle.FocusMode())
	case line == ":seed":
		seedState(handle)
		fmt.Println("seeded")
	case strings.HasPrefix(line, ":"):
		fmt.Printf("unknown command %s (try :dump :load :dirty :state :seed :quit)\n", line)
	default:
		if err := env.Eval(line); err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

// seedState installs a plausible desktop so state queries have something
// to answer with.
func seedState(h state.Handle) {
	h.UpsertOutput(state.Output{
		Name: "eDP-1", Make: "BOE", Model: "NE135FBM-N41",
		Scale: 2, LogicalWidth: 1440, LogicalHeight: 960,
	})
	h.UpsertWorkspace(state.Workspace{
		ID: 1, Idx: 1, Name: "main", Output: "eDP-1", IsActive: true, IsFocused: true,
	})
	h.UpsertWorkspace(state.Workspace{
		ID: 2, Idx: 2, Name: "chat", Output: "eDP-1",
	})
	h.UpsertWindow(state.Window{
		ID: 1, Title: "Terminal", AppID: "org.wezfurlong.wezterm",
		WorkspaceID: 1, IsFocused: true,
	})
	h.UpsertWindow(state.Window{
		ID: 2, Title: "Browser", AppID: "org.mozilla.firefox", WorkspaceID: 2,
	})
	h.SetKeyboardLayouts(state.KeyboardLayouts{Names: []string{"us", "de"}, CurrentIdx: 0})
	h.SetCursorPosition(&state.Point{X: 720, Y: 480})
	h.SetFocusMode(state.FocusNormal)
}

func parseOptions() (Options, error) {
	var opts Options
	var optsPath string
	flag.StringVar(&opts.ConfigPath, "config", "", "Path to TOML configuration file")
	flag.StringVar(&optsPath, "opts", "", "Path to harness options file (YAML)")
	flag.BoolVar(&opts.Seed, "seed", false, "Seed fake live state at startup")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	if optsPath != "" {
		data, err := os.ReadFile(optsPath)
		if err != nil {
			return opts, fmt.Errorf("reading options file: %w", err)
		}
		var fileOpts Options
		if err := yaml.Unmarshal(data, &fileOpts); err != nil {
			return opts, fmt.Errorf("parsing options file: %w", err)
		}
		if opts.ConfigPath == "" {
			opts.ConfigPath = fileOpts.ConfigPath
		}
		opts.Seed = opts.Seed || fileOpts.Seed
		opts.Verbose = opts.Verbose || fileOpts.Verbose
	}
	return opts, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
