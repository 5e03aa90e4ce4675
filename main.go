/*
File: main.go
Version: 1.0.0
Description: Command line entry point. Loads configuration, initializes the
             logger and the analyzer, scores the URLs given as arguments and
             prints one JSON result per line.
*/

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	os.Exit(run())
}

// run exists so deferred cleanup still fires before the process exits.
func run() int {
	configPath := flag.String("config", "", "path to YAML configuration file")
	pretty := flag.Bool("pretty", false, "indent JSON output")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: phishguard [-config file] [-pretty] URL [URL...]")
		return 2
	}

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		return 1
	}

	if err := InitLogger(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 1
	}
	defer ShutdownLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyzer := NewAnalyzer(cfg)

	encoder := json.NewEncoder(os.Stdout)
	if *pretty {
		encoder.SetIndent("", "  ")
	}

	exitCode := 0
	for _, rawURL := range flag.Args() {
		result := analyzer.Analyze(ctx, rawURL)
		if err := encoder.Encode(result); err != nil {
			LogError("[MAIN] encoding result for %s failed: %v", rawURL, err)
			exitCode = 1
		}
		if ctx.Err() != nil {
			LogWarn("[MAIN] interrupted, stopping")
			exitCode = 1
			break
		}
	}

	return exitCode
}
