// Command fairsplit splits amounts and runs the property harness from the shell.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"fairsplit/config"
	"fairsplit/internal/service"
	"fairsplit/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	verbose    bool

	cfg *config.Config
	log zerolog.Logger
	out io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "fairsplit",
		Short: "Exact money splitting with a built-in property harness",
		Long: `fairsplit divides an amount among recipients at a fixed scale without
losing or inventing a single smallest unit, and checks that guarantee with a
seeded property harness that shrinks every failure to a minimal reproducer.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if a.verbose {
				cfg.Log.Level = "debug"
			}
			a.cfg = cfg
			a.log = logger.New(cfg.Log.Level, cfg.Log.Pretty)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: ./config.yaml or ./config/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		a.splitCmd(),
		a.runCmd(),
		a.replayCmd(),
		a.reportCmd(),
		a.tokenCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// splitter builds the splitter from the configured policy.
func (a *app) splitter() *service.SplitService {
	return service.NewSplitService(a.cfg.Splitter.Policy())
}

func (a *app) harness() *service.HarnessService {
	policy := a.cfg.Splitter.Policy()
	return service.NewHarnessService(service.NewSplitService(policy), policy, logger.Component(a.log, "harness"))
}

func (a *app) writeJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
