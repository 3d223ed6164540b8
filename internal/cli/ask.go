package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/workmate-dev/workmate/internal/store"
	"github.com/workmate-dev/workmate/pkg/chat/session"
)

// AskConfig holds configuration for the ask command
type AskConfig struct {
	Email string
	Plain bool
}

// NewAskCmd creates the one-shot ask command
func NewAskCmd(opts *Options) *cobra.Command {
	cfg := &AskConfig{}

	cmd := &cobra.Command{
		Use:   "ask [service] [prompt...]",
		Short: "Send a single prompt to a service and print the reply",
		Long: `Send a single prompt to a service and print the reply.

The email address gates the exchange the same way it gates the interactive
client; services that take identity receive it in the request payload.
The command exits non-zero when the exchange fails.

Examples:
  workmate ask timesheet --email dana@example.com "Log 8 hours on project X"
  workmate ask hr-policy --email dana@example.com "How many vacation days do I get?"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, opts, cfg, args[0], strings.Join(args[1:], " "))
		},
	}

	cmd.Flags().StringVar(&cfg.Email, "email", "", "Email address identifying the user (required)")
	cmd.Flags().BoolVar(&cfg.Plain, "plain", false, "Disable the progress spinner and colors")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runAsk(cmd *cobra.Command, opts *Options, cfg *AskConfig, serviceID, prompt string) error {
	rt, err := opts.bootstrap()
	if err != nil {
		return err
	}
	defer rt.cleanup()

	if cfg.Plain {
		color.NoColor = true
	}

	controller := session.NewController(rt.registry,
		session.WithLogger(rt.logger.WithName("session")))
	if err := controller.SelectService(serviceID, cfg.Email); err != nil {
		return err
	}

	var spin *spinner.Spinner
	if !cfg.Plain {
		spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond,
			spinner.WithWriter(cmd.ErrOrStderr()))
		spin.Suffix = " Waiting for a reply..."
		spin.Start()
	}

	reply, err := controller.Send(cmd.Context(), prompt)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	if svc, ok := controller.Service(); ok {
		color.New(color.Bold, color.FgCyan).Fprintf(cmd.OutOrStdout(), "%s\n\n", svc.Name())
	}
	fmt.Fprintln(cmd.OutOrStdout(), wordwrap.String(reply.DisplayText(), 100))

	if rt.cfg.History.Enabled {
		saveAskTranscript(rt, controller.Snapshot())
	}
	return nil
}

// saveAskTranscript persists the one-shot exchange alongside the interactive
// ones. Persistence failures never fail a turn that already succeeded.
func saveAskTranscript(rt *runtime, snap session.State) {
	history, err := store.Open(rt.cfg.Database)
	if err != nil {
		rt.logger.Error(err, "failed to open transcript store")
		return
	}
	defer history.Close()
	if _, err := history.SaveTranscript(snap); err != nil {
		rt.logger.Error(err, "failed to save transcript")
	}
}
