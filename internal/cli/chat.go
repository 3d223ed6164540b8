package cli

import (
	"github.com/spf13/cobra"

	"github.com/workmate-dev/workmate/internal/store"
	"github.com/workmate-dev/workmate/internal/tui"
	"github.com/workmate-dev/workmate/pkg/chat/session"
)

// ChatConfig holds chat command configuration
type ChatConfig struct {
	Service string
	Email   string
}

// NewChatCmd creates the interactive chat command
func NewChatCmd(opts *Options) *cobra.Command {
	cfg := &ChatConfig{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat client",
		Long: `Start the interactive chat client.

The client opens on an entry screen asking for your email address and a
service to talk to. Pass --service together with --email to skip the entry
screen. Finished conversations are saved locally unless history is disabled
in the configuration.

Examples:
  workmate chat
  workmate chat --service timesheet --email dana@example.com
  workmate chat --log-level debug`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer rt.cleanup()

			controller := session.NewController(rt.registry,
				session.WithLogger(rt.logger.WithName("session")))

			tuiOpts := []tui.Option{
				tui.WithLogger(rt.logger.WithName("tui")),
				tui.WithNoticeTTL(rt.cfg.NoticeTTL),
			}
			switch {
			case cfg.Service != "":
				if err := controller.SelectService(cfg.Service, cfg.Email); err != nil {
					return err
				}
			case cfg.Email != "":
				tuiOpts = append(tuiOpts, tui.WithIdentity(cfg.Email))
			}
			if rt.cfg.History.Enabled {
				history, err := store.Open(rt.cfg.Database)
				if err != nil {
					return err
				}
				defer history.Close()
				tuiOpts = append(tuiOpts, tui.WithHistory(history))
			}

			return tui.Run(controller, rt.registry.List(), tuiOpts...)
		},
	}

	cmd.Flags().StringVar(&cfg.Service, "service", "", "Service to connect to immediately (requires --email)")
	cmd.Flags().StringVar(&cfg.Email, "email", "", "Email address identifying the user")

	return cmd
}
