package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/workmate-dev/workmate/internal/store"
)

// NewSessionsCmd creates the transcript management command
func NewSessionsCmd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage saved conversation transcripts",
		Long: `Manage the conversation transcripts saved by the chat client.

Examples:
  workmate sessions list
  workmate sessions show Kwz74Tn3eqPfDG5uWYpMdH
  workmate sessions export Kwz74Tn3eqPfDG5uWYpMdH --format markdown
  workmate sessions delete Kwz74Tn3eqPfDG5uWYpMdH`,
	}

	cmd.AddCommand(newSessionsListCmd(opts))
	cmd.AddCommand(newSessionsShowCmd(opts))
	cmd.AddCommand(newSessionsExportCmd(opts))
	cmd.AddCommand(newSessionsDeleteCmd(opts))

	return cmd
}

// runWithHistory bootstraps the runtime, opens the transcript store, and
// closes both around fn.
func runWithHistory(opts *Options, fn func(history *store.Store) error) error {
	rt, err := opts.bootstrap()
	if err != nil {
		return err
	}
	defer rt.cleanup()

	history, err := store.Open(rt.cfg.Database)
	if err != nil {
		return err
	}
	defer history.Close()

	return fn(history)
}

func newSessionsListCmd(opts *Options) *cobra.Command {
	limit := 20

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved transcripts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithHistory(opts, func(history *store.Store) error {
				transcripts, err := history.ListTranscripts(limit)
				if err != nil {
					return err
				}

				t := table.NewWriter()
				t.SetOutputMirror(cmd.OutOrStdout())
				t.SetStyle(table.StyleLight)
				t.AppendHeader(table.Row{"UID", "SERVICE", "EMAIL", "MESSAGES", "SAVED"})
				for _, tr := range transcripts {
					t.AppendRow(table.Row{
						tr.UID, tr.ServiceID, tr.Email, len(tr.Messages),
						tr.CreatedAt.Format(time.RFC3339),
					})
				}
				t.Render()
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of transcripts to list (0 for all)")
	return cmd
}

func newSessionsShowCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "show [uid]",
		Short: "Print one transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithHistory(opts, func(history *store.Store) error {
				tr, err := history.GetTranscript(args[0])
				if err != nil {
					return err
				}
				return store.ExportMarkdown(tr, cmd.OutOrStdout())
			})
		},
	}
}

func newSessionsExportCmd(opts *Options) *cobra.Command {
	format := "yaml"
	output := ""

	cmd := &cobra.Command{
		Use:   "export [uid]",
		Short: "Export one transcript as YAML or Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithHistory(opts, func(history *store.Store) error {
				tr, err := history.GetTranscript(args[0])
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if output != "" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					out = f
				}

				switch format {
				case "yaml":
					return store.ExportYAML(tr, out)
				case "markdown", "md":
					return store.ExportMarkdown(tr, out)
				default:
					return fmt.Errorf("unsupported format %q (yaml, markdown)", format)
				}
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "Export format: yaml or markdown")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func newSessionsDeleteCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [uid]",
		Short: "Delete one transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithHistory(opts, func(history *store.Store) error {
				if err := history.DeleteTranscript(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted transcript %s\n", args[0])
				return nil
			})
		},
	}
}
