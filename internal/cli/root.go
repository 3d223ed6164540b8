// Package cli assembles the workmate command tree.
package cli

import (
	"strings"

	"github.com/go-logr/logr"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/workmate-dev/workmate/pkg/chat/config"
	apperrors "github.com/workmate-dev/workmate/pkg/chat/errors"
	"github.com/workmate-dev/workmate/pkg/chat/service"
)

// Options holds the global flags shared by every subcommand.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogFile    string
}

// NewRootCmd creates the root workmate command
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "workmate",
		Short: "Terminal client for workplace assistant services",
		Long: `Workmate is a terminal client for workplace assistant services.

It connects one conversation at a time to one of the predefined services
(timesheet management, HR policy) and keeps local transcripts of finished
sessions.

Examples:
  workmate chat
  workmate ask timesheet --email dana@example.com "Log 8 hours on Tuesday"
  workmate services --probe
  workmate sessions list
  workmate mock`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Path to the config file (default: "+config.DefaultConfigPath()+")")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "Log file override (default: workmate.log in the data directory)")

	cmd.AddCommand(NewChatCmd(opts))
	cmd.AddCommand(NewAskCmd(opts))
	cmd.AddCommand(NewServicesCmd(opts))
	cmd.AddCommand(NewSessionsCmd(opts))
	cmd.AddCommand(NewMockCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. A .env file in the working directory is
// loaded first so service endpoints can be overridden per checkout.
func Execute() error {
	_ = godotenv.Load()
	return NewRootCmd().Execute()
}

// runtime bundles what a subcommand needs after bootstrap.
type runtime struct {
	cfg      *config.Config
	logger   logr.Logger
	registry service.Registry
	cleanup  func()
}

// bootstrap loads and validates configuration, builds the logger, and
// registers the predefined services with their configured endpoints.
func (o *Options) bootstrap() (*runtime, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.LogLevel != "" {
		cfg.Logging.Level = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.Logging.File = o.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeConfigInvalid, "configuration is invalid", err)
	}

	logger, cleanup, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	registry := service.NewRegistry()
	for _, svc := range []service.Service{
		service.NewTimesheet(cfg.ServiceOptions(service.TimesheetID)...),
		service.NewHRPolicy(cfg.ServiceOptions(service.HRPolicyID)...),
	} {
		if err := registry.Register(svc); err != nil {
			cleanup()
			return nil, err
		}
	}

	return &runtime{cfg: cfg, logger: logger, registry: registry, cleanup: cleanup}, nil
}
