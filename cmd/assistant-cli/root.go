package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bitsa-assistant/internal/assistant/retriever"
	"bitsa-assistant/internal/bootstrap"
	"bitsa-assistant/internal/common/config"
	"bitsa-assistant/internal/common/logger"
	"bitsa-assistant/internal/store/memstore"
)

// app carries the flag values and lazily built dependencies for one invocation.
type app struct {
	cfgFile  string
	fixtures string
	output   string
	verbose  bool

	cfg      *config.Config
	log      logger.Logger
	services *bootstrap.Services
	closers  []func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "assistant-cli",
		Short: "Run the BITSA assistant operations from a terminal",
		Long: `assistant-cli runs the club assistant against the configured record store
and completion service, without a Zeebe broker.

Example usage:
  assistant-cli ask "when is the next hackathon?"
  assistant-cli context "latest blogs" --fixtures testdata/club.yaml
  assistant-cli generate blog --topic "Go concurrency" --category Tutorials
  assistant-cli activities export --out configs/activity-registry.json`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./configs/config.yaml)")
	root.PersistentFlags().StringVar(&a.fixtures, "fixtures", "", "read records from a YAML fixture file instead of the configured store")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "yaml", "output format: yaml or json")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level to stderr")

	root.AddCommand(
		newAskCmd(a),
		newSearchCmd(a),
		newClassifyCmd(a),
		newContextCmd(a),
		newSlugifyCmd(a),
		newGenerateCmd(a),
		newActivitiesCmd(a),
	)
	return root
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.LoadFromFile(a.cfgFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return a.cfg, nil
}

func (a *app) logFor() logger.Logger {
	if a.log != nil {
		return a.log
	}
	level := "warn"
	if a.verbose {
		level = "debug"
	}
	l, err := logger.New(level, "console", "stderr")
	if err != nil {
		a.log = logger.NewNoOpLogger()
	} else {
		a.log = logger.NewZapAdapter(l)
	}
	return a.log
}

// store returns the fixture store when --fixtures is set, nil otherwise.
func (a *app) store() (retriever.RecordStore, error) {
	if a.fixtures == "" {
		return nil, nil
	}
	s, err := memstore.Load(a.fixtures)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) build(cmd *cobra.Command) (*bootstrap.Services, error) {
	if a.services != nil {
		return a.services, nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := a.store()
	if err != nil {
		return nil, err
	}
	a.services, err = bootstrap.Build(cmd.Context(), cfg, store, a.logFor())
	if err != nil {
		return nil, err
	}
	return a.services, nil
}

// recordStore opens only the record store, for commands that never call the model.
func (a *app) recordStore(ctx context.Context, cmd *cobra.Command) (retriever.RecordStore, error) {
	if s, err := a.store(); s != nil || err != nil {
		return s, err
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	s, _, closer, err := bootstrap.OpenRecordStore(ctx, cfg, 1, a.logFor())
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closer)
	return s, nil
}

func (a *app) close() {
	if a.services != nil {
		a.services.Close()
		a.services = nil
	}
	for _, c := range a.closers {
		c()
	}
	a.closers = nil
}

func (a *app) print(w io.Writer, v interface{}) error {
	switch a.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}
}
