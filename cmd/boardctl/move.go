package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/careerforge/onboarding-portal/internal/pipeline"
)

func newTargetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "targets <job-id>",
		Short: "List the stages a job can be moved to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace(cmd)
			if err != nil {
				return err
			}
			targets, err := ws.mover.Targets(args[0])
			if err != nil {
				return err
			}
			if len(targets) == 0 {
				fmt.Fprintln(a.out, "no moves available")
				return nil
			}
			for _, status := range targets {
				fmt.Fprintln(a.out, statusLabel(status))
			}
			return nil
		},
	}
}

func newMoveCmd(a *app) *cobra.Command {
	var jump bool

	cmd := &cobra.Command{
		Use:   "move <job-id> <status>",
		Short: "Move a job, or file a move request when you cannot move it yourself",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseStatusArg(args[1])
			if err != nil {
				return err
			}
			mode := pipeline.ModeAdjacent
			if jump {
				mode = pipeline.ModeJump
			}
			ws, err := a.workspace(cmd)
			if err != nil {
				return err
			}
			outcome, err := ws.mover.Move(cmd.Context(), args[0], target, mode)
			if err != nil {
				return err
			}
			if outcome.Decision == pipeline.DecisionRequest {
				fmt.Fprintf(a.out, "%s move to %s is awaiting approval\n", color.YellowString("requested"), statusLabel(target))
				return nil
			}
			fmt.Fprintf(a.out, "%s job #%d is now %s\n", color.GreenString("moved"), outcome.Job.JobNumber, statusLabel(outcome.Job.Status))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jump, "jump", false, "allow skipping stages (admins and team leads)")
	return cmd
}

func newCommentCmd(a *app) *cobra.Command {
	var issue bool
	var edit, resolve string

	cmd := &cobra.Command{
		Use:   "comment <job-id> [body]",
		Short: "Add, edit or resolve a comment",
		Long: `Add a comment to a job. Mention teammates with @name. Use --issue to flag
the comment as an issue, --edit <comment-id> to rewrite an existing comment,
or --resolve <comment-id> to close an issue.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobID := args[0]
			body := ""
			if len(args) == 2 {
				body = strings.TrimSpace(args[1])
			}

			switch {
			case resolve != "":
				if _, err := a.api.ResolveComment(cmd.Context(), jobID, resolve); err != nil {
					return err
				}
				fmt.Fprintln(a.out, color.GreenString("resolved"))
				return nil
			case body == "":
				return errors.New("comment body is required")
			case edit != "":
				ws, err := a.workspace(cmd)
				if err != nil {
					return err
				}
				if err := ws.mover.EditComment(cmd.Context(), jobID, edit, body); err != nil {
					return err
				}
				fmt.Fprintln(a.out, color.GreenString("edited"))
				return nil
			}

			job, err := a.api.AddComment(cmd.Context(), jobID, body, issue)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s job #%d has %d comments\n", color.GreenString("posted"), job.JobNumber, len(job.Comments))
			return nil
		},
	}
	cmd.Flags().BoolVar(&issue, "issue", false, "flag the comment as an issue")
	cmd.Flags().StringVar(&edit, "edit", "", "comment id to rewrite")
	cmd.Flags().StringVar(&resolve, "resolve", "", "issue comment id to resolve")
	cmd.MarkFlagsMutuallyExclusive("edit", "resolve")
	return cmd
}

func newRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <job-id> <client-name>",
		Short: "Change the client name on a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace(cmd)
			if err != nil {
				return err
			}
			if err := ws.mover.RenameClient(cmd.Context(), args[0], strings.TrimSpace(args[1])); err != nil {
				return err
			}
			fmt.Fprintln(a.out, color.GreenString("renamed"))
			return nil
		},
	}
}

func newRequestsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "List and review pending move requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := a.workspace(cmd)
			if err != nil {
				return err
			}
			renderRequests(a.out, ws.store.Jobs())
			return nil
		},
	}

	var note string
	approve := &cobra.Command{
		Use:   "approve <job-id>",
		Short: "Approve the pending move request on a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := a.api.ApproveMove(cmd.Context(), args[0], note)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s job #%d is now %s\n", color.GreenString("approved"), job.JobNumber, statusLabel(job.Status))
			return nil
		},
	}
	reject := &cobra.Command{
		Use:   "reject <job-id>",
		Short: "Reject the pending move request on a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := a.api.RejectMove(cmd.Context(), args[0], note)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s move to %s\n", color.RedString("rejected"), statusLabel(req.ToStatus))
			return nil
		},
	}
	for _, sub := range []*cobra.Command{approve, reject} {
		sub.Flags().StringVar(&note, "note", "", "review note")
	}
	cmd.AddCommand(approve, reject)
	return cmd
}
