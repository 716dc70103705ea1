package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/careerforge/onboarding-portal/internal/board"
	"github.com/careerforge/onboarding-portal/internal/domain"
)

func newBoardCmd(a *app) *cobra.Command {
	var column string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "List the columns you can see",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace(cmd)
			if err != nil {
				return err
			}
			visible := ws.viewer.VisibleColumns()
			if column != "" {
				status, err := parseStatusArg(column)
				if err != nil {
					return err
				}
				visible = []domain.OnboardingStatus{status}
			}
			renderColumns(a.out, ws.store.Columns(visible))
			return nil
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "only show this status")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show a job with its comments, history and files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace(cmd)
			if err != nil {
				return err
			}
			job, err := ws.cache.Open(cmd.Context(), ws.store, args[0])
			if err != nil {
				return err
			}
			renderJob(a.out, job)
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reprint the board every poll interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace(cmd)
			if err != nil {
				return err
			}
			poller := ws.poller
			if interval > 0 {
				poller = board.NewPoller(ws.store, a.api, interval, a.logger)
			}
			err = poller.Run(cmd.Context(), func() {
				fmt.Fprintf(a.out, "\n-- %s --\n", time.Now().Format("15:04:05"))
				renderColumns(a.out, ws.store.Columns(ws.viewer.VisibleColumns()))
			})
			if cmd.Context().Err() != nil {
				return nil
			}
			return err
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (defaults to BOARDCTL_POLL_INTERVAL)")
	return cmd
}
