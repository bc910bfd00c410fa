package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/handiism/xspf-curator/internal/config"
	"github.com/handiism/xspf-curator/internal/playlist"
	"github.com/handiism/xspf-curator/internal/tui"
)

func main() {
	var (
		configFlag = flag.String("config", "", "Path to config file")
		watchFlag  = flag.Bool("watch", true, "Rediscover albums when the library changes")
		logFlag    = flag.String("log", "", "Write debug log to this file")
	)
	flag.Parse()

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

	logger := hclog.NewNullLogger()
	if *logFlag != "" {
		f, err := os.OpenFile(*logFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = hclog.New(&hclog.LoggerOptions{Name: "xspf-tui", Level: hclog.Debug, Output: f})
	}

	store := playlist.NewStore(playlist.WithLogger(logger.Named("playlist")))
	if flag.NArg() > 0 {
		if err := store.Load(flag.Arg(0)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if err := tui.Run(tui.Options{
		Settings: settings,
		Store:    store,
		Logger:   logger,
		Watch:    *watchFlag,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
