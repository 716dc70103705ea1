package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newInboxCmd(a *app) *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List your mention and issue notifications",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			items, err := a.api.Notifications(cmd.Context(), unread)
			if err != nil {
				return err
			}
			renderNotifications(a.out, items)
			return nil
		},
	}
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")

	cmd.AddCommand(&cobra.Command{
		Use:   "read <notification-id>...",
		Short: "Mark notifications as read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range args {
				if err := a.api.MarkNotificationRead(cmd.Context(), id); err != nil {
					return err
				}
			}
			fmt.Fprintf(a.out, "%s %d marked read\n", color.GreenString("ok"), len(args))
			return nil
		},
	})
	return cmd
}

func newIssuesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "issues",
		Short: "List unresolved issue comments across your jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			issues, err := a.api.UnresolvedIssues(cmd.Context())
			if err != nil {
				return err
			}
			renderIssues(a.out, issues)
			return nil
		},
	}
}

func newAttachCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "attach <job-id> <file>",
		Short: "Upload a file and attach it to a job",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.viewer(); err != nil {
				return err
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			job, err := a.api.UploadAttachment(cmd.Context(), args[0], filepath.Base(args[1]), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s job #%d now has %d attachments\n", color.GreenString("uploaded"), job.JobNumber, len(job.Attachments))
			return nil
		},
	}
}
