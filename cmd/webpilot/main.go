// Package main is the webpilot runner: it wires configuration, logging,
// the Playwright engine, and the operator prompt channel into a harness
// and executes a demo automation against the configured base URL.
//
// The process always exits 0. Run failures are reported through the log
// and the diagnostic screenshot, never through the exit status, so an
// unattended scheduler never sees a crashed job. Operators monitoring
// exit codes should watch the logs instead.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/webpilot/pkg/browser"
	"github.com/entrhq/webpilot/pkg/config"
	"github.com/entrhq/webpilot/pkg/harness"
	"github.com/entrhq/webpilot/pkg/logging"
	"github.com/entrhq/webpilot/pkg/prompt"
)

const version = "0.1.0"

type cliOptions struct {
	configFile  string
	headless    bool
	showVersion bool
}

func main() {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("webpilot v%s\n", version)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	// Failures are logged inside run; the exit code stays 0 either way.
	run(ctx, opts)
}

func parseFlags() *cliOptions {
	opts := &cliOptions{}

	flag.StringVar(&opts.configFile, "config", "", "Path to configuration file (YAML)")
	flag.BoolVar(&opts.headless, "headless", true, "Run the browser without a visible window")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "webpilot - scripted browser session harness\n\n")
		fmt.Fprintf(os.Stderr, "Usage: webpilot [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nConfiguration comes from the environment (BASE_URL is required);\n")
		fmt.Fprintf(os.Stderr, "a YAML file supplies the same keys, with environment values winning.\n")
	}

	flag.Parse()
	return opts
}

func run(ctx context.Context, opts *cliOptions) {
	// Config resolution logs to stderr: the logs directory is itself a
	// configuration parameter, so file logging starts after this.
	bootLog := logging.Stderr("config", nil)

	var fileCfg *config.FileConfig
	if opts.configFile != "" {
		loaded, err := config.LoadFile(opts.configFile)
		if err != nil {
			bootLog.Errorf("failed to load config file: %v", err)
			return
		}
		fileCfg = loaded
	}

	cfg, err := config.Load(os.Getenv, fileCfg, bootLog)
	if err != nil {
		bootLog.Errorf("failed to resolve configuration: %v", err)
		return
	}
	cfg.Headless = opts.headless

	if err := cfg.Validate(); err != nil {
		bootLog.Errorf("configuration invalid: %v", err)
		return
	}
	if err := cfg.EnsureDirectories(); err != nil {
		bootLog.Errorf("configuration invalid: %v", err)
		return
	}

	logging.SetDirectory(cfg.LogsDir)
	log, logErr := logging.NewLogger("webpilot")
	if logErr != nil {
		log.Warnf("continuing with stderr logging")
	}
	defer log.Close()

	engine := browser.NewPlaywright()
	if err := engine.Initialize(); err != nil {
		log.Errorf("failed to initialize browser engine: %v", err)
		return
	}
	defer func() {
		if err := engine.Stop(); err != nil {
			log.Warnf("failed to stop browser engine: %v", err)
		}
	}()

	channel := prompt.New(os.Stdin, os.Stdout, cfg.QuestionTimeout)

	h := harness.New(cfg, engine, channel, log)
	if err := h.Run(ctx, demoAutomation(ctx, log)); err != nil {
		log.Errorf("run finished with failure: %v", err)
		return
	}
	log.Infof("run finished successfully")
}

// demoAutomation is a small example of caller-supplied automation logic:
// it confirms with the operator and takes a snapshot of the landed page.
func demoAutomation(ctx context.Context, log *logging.Logger) harness.AutomationFunc {
	return func(page browser.Page, caps *harness.Capabilities) error {
		log.Infof("landed on %s", page.URL())

		resp, err := caps.AskUser(ctx, "Take a snapshot of this page? (y/n)")
		if err != nil {
			return err
		}
		if resp.TimedOut {
			log.Warnf("operator did not answer, taking the snapshot anyway")
		} else if resp.Answer != "y" {
			log.Infof("operator declined, skipping snapshot")
			return nil
		}

		if path := caps.Screenshot("demo"); path != "" {
			log.Infof("snapshot written to %s", path)
		}
		return nil
	}
}
