package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/term"

	"github.com/handiism/xspf-curator/internal/config"
	"github.com/handiism/xspf-curator/internal/curator"
	"github.com/handiism/xspf-curator/internal/output"
)

// app carries what every subcommand needs.
type app struct {
	settings *config.Settings
	logger   hclog.Logger
	verbose  bool
	terminal bool

	// colorErrors is set when stderr is a terminal.
	colorErrors bool
}

func main() {
	// Command line flags
	var (
		configFlag  = flag.String("config", "", "Path to config file (default: $XSPF_CONFIG or the user config dir)")
		musicFlag   = flag.String("music", "", "Music library root(s), overrides config")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
	)

	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}

	configPath := *configFlag
	if configPath == "" {
		configPath = config.DefaultPath()
	}

	settings, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	settings.ApplyEnv()
	if *musicFlag != "" {
		settings.MusicLocation = *musicFlag
	}

	a := &app{
		settings: settings,
		logger:   newLogger(*verboseFlag),
		verbose:  *verboseFlag,
		terminal: term.IsTerminal(int(os.Stdout.Fd())),

		colorErrors: term.IsTerminal(int(os.Stderr.Fd())),
	}
	a.logger.Debug("settings loaded", "path", configPath)

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cancelling...")
		cancel()
	}()

	command, args := flag.Arg(0), flag.Args()[1:]
	switch command {
	case "discover":
		err = a.discover(ctx, args)
	case "build":
		err = a.build(ctx, args)
	case "sync":
		err = a.sync(ctx, args)
	case "show":
		err = a.show(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q\n\n", command)
		usage()
		os.Exit(1)
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, a.errorText(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("xspf-curator - Build VLC playlists from album folders")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  xspf-curator [options] discover [-tree] [-watch]")
	fmt.Println("  xspf-curator [options] build -o <file> [-title <title>] [-filter <query>] [album...]")
	fmt.Println("  xspf-curator [options] sync [-filter <query>] <file> [album...]")
	fmt.Println("  xspf-curator [options] show [-filter <query>] <file>")
	fmt.Println()
	fmt.Println("For interactive mode, use: xspf-tui")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
}

// newLogger builds the stderr logger. XSPF_LOG_LEVEL overrides -verbose.
func newLogger(verbose bool) hclog.Logger {
	level := hclog.Warn
	if verbose {
		level = hclog.Debug
	}
	if env := os.Getenv("XSPF_LOG_LEVEL"); env != "" {
		if l := hclog.LevelFromString(env); l != hclog.NoLevel {
			level = l
		}
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "xspf-curator",
		Level:  level,
		Output: os.Stderr,
	})
}

// reporter prints progress events the way the CLI shows them.
func (a *app) reporter() func(curator.ProgressEvent) {
	return func(event curator.ProgressEvent) {
		if event.Level == curator.LevelVerbose && !a.verbose {
			return
		}

		prefix := ""
		switch event.Level {
		case curator.LevelError:
			prefix = "✗ "
		case curator.LevelWarning:
			prefix = "! "
		case curator.LevelSuccess:
			prefix = "✓ "
		case curator.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		line := prefix + event.Message
		if event.Level == curator.LevelError {
			line = a.errorText(line)
		}
		fmt.Fprintln(os.Stderr, line)
	}
}

func (a *app) errorText(text string) string {
	if a.colorErrors {
		return output.TerminalFormatAsError(text)
	}
	return text
}

func (a *app) roots() string {
	return strings.Join(config.MusicRoots(a.settings), ", ")
}
