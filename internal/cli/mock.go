package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/workmate-dev/workmate/internal/mockagent"
)

// MockConfig holds configuration for the mock command
type MockConfig struct {
	TimesheetAddr string
	PolicyAddr    string
	Latency       time.Duration
}

// NewMockCmd creates the development fixture command
func NewMockCmd() *cobra.Command {
	cfg := &MockConfig{}

	cmd := &cobra.Command{
		Use:   "mock",
		Short: "Serve canned assistant services for local development",
		Long: `Serve canned assistant services for local development.

The fixture answers both service protocols on the conventional local ports,
so a default-configured client works against it out of the box.

Examples:
  workmate mock
  workmate mock --latency 2s
  workmate mock --timesheet-addr :9000 --policy-addr :9001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMock(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.TimesheetAddr, "timesheet-addr", ":8000", "Listen address for the timesheet fixture")
	cmd.Flags().StringVar(&cfg.PolicyAddr, "policy-addr", ":8001", "Listen address for the HR policy fixture")
	cmd.Flags().DurationVar(&cfg.Latency, "latency", 0, "Artificial delay before each reply")

	return cmd
}

func runMock(cmd *cobra.Command, cfg *MockConfig) error {
	agent := mockagent.New()
	agent.SetLatency(cfg.Latency)

	servers := []*http.Server{
		newFixtureServer(cfg.TimesheetAddr, agent.TimesheetRouter()),
		newFixtureServer(cfg.PolicyAddr, agent.PolicyRouter()),
	}

	errChan := make(chan error, len(servers))
	fmt.Fprintf(cmd.OutOrStdout(), "timesheet fixture listening on %s\n", cfg.TimesheetAddr)
	fmt.Fprintf(cmd.OutOrStdout(), "hr policy fixture listening on %s\n", cfg.PolicyAddr)
	for _, srv := range servers {
		srv := srv
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errChan <- err
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sigChan:
	case <-cmd.Context().Done():
	}

	fmt.Fprintln(cmd.OutOrStdout(), "shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		_ = srv.Shutdown(shutdownCtx)
	}
	return nil
}

func newFixtureServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}
