package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/board"
	"github.com/careerforge/onboarding-portal/internal/domain"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

// statusLabel renders resume_in_progress as "Resume In Progress".
func statusLabel(status domain.OnboardingStatus) string {
	words := strings.Split(string(status), "_")
	for i, word := range words {
		switch word {
		case "linkedin":
			words[i] = "LinkedIn"
		case "":
		default:
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func renderColumns(w io.Writer, columns []board.Column) {
	for _, col := range columns {
		fmt.Fprintf(w, "%s (%d)\n", color.CyanString(statusLabel(col.Status)), len(col.Cards))
		if len(col.Cards) == 0 {
			continue
		}
		table := newTable(w, "ID", "#", "Client", "Plan", "CSM", "Flags")
		for _, card := range col.Cards {
			job := card.Job
			var flags []string
			if card.Forked {
				flags = append(flags, "linkedin")
			}
			if job.PendingMoveRequest != nil {
				flags = append(flags, "pending:"+string(job.PendingMoveRequest.ToStatus))
			}
			if n := openIssues(job); n > 0 {
				flags = append(flags, fmt.Sprintf("issues:%d", n))
			}
			table.Append([]string{
				job.ID,
				strconv.FormatInt(job.JobNumber, 10),
				job.ClientName,
				string(job.PlanType),
				deref(job.CSMEmail),
				strings.Join(flags, " "),
			})
		}
		table.Render()
		fmt.Fprintln(w)
	}
}

func openIssues(job domain.Job) int {
	n := 0
	for _, c := range job.Comments {
		if c.IsIssue && !c.Resolved {
			n++
		}
	}
	return n
}

func renderJob(w io.Writer, job domain.Job) {
	fmt.Fprintf(w, "Job #%d  %s <%s>\n", job.JobNumber, job.ClientName, job.ClientEmail)
	fmt.Fprintf(w, "Status:   %s\n", statusLabel(job.Status))
	fmt.Fprintf(w, "Plan:     %s\n", job.PlanType)
	fmt.Fprintf(w, "CSM:      %s\n", deref(job.CSMEmail))
	fmt.Fprintf(w, "Resume:   %s\n", deref(job.ResumeMakerEmail))
	fmt.Fprintf(w, "LinkedIn: %s\n", deref(job.LinkedInMemberEmail))
	fmt.Fprintf(w, "Manager:  %s\n", deref(job.DashboardManager))
	if req := job.PendingMoveRequest; req != nil {
		fmt.Fprintf(w, "%s %s -> %s by %s\n", color.YellowString("Pending:"), statusLabel(req.FromStatus), statusLabel(req.ToStatus), req.RequestedBy)
	}

	if len(job.Comments) > 0 {
		fmt.Fprintln(w, "\nComments")
		table := newTable(w, "ID", "Author", "When", "Kind", "Body")
		for _, c := range job.Comments {
			kind := ""
			if c.IsIssue {
				kind = "issue"
				if c.Resolved {
					kind = "resolved"
				}
			}
			table.Append([]string{c.ID, c.AuthorName, c.CreatedAt.Format(timeLayout), kind, c.Body})
		}
		table.Render()
	}

	if len(job.MoveHistory) > 0 {
		fmt.Fprintln(w, "\nHistory")
		table := newTable(w, "When", "From", "To", "By")
		for _, h := range job.MoveHistory {
			table.Append([]string{h.CreatedAt.Format(timeLayout), statusLabel(h.FromStatus), statusLabel(h.ToStatus), h.MovedBy})
		}
		table.Render()
	}

	if len(job.Attachments) > 0 {
		fmt.Fprintln(w, "\nAttachments")
		table := newTable(w, "File", "Size", "By")
		for _, a := range job.Attachments {
			table.Append([]string{a.FileName, strconv.FormatInt(a.SizeBytes, 10), a.UploadedBy})
		}
		table.Render()
	}
}

func renderRequests(w io.Writer, jobs []domain.Job) {
	table := newTable(w, "Job", "Client", "From", "To", "Requested By", "When")
	rows := 0
	for _, job := range jobs {
		req := job.PendingMoveRequest
		if req == nil {
			continue
		}
		table.Append([]string{job.ID, job.ClientName, statusLabel(req.FromStatus), statusLabel(req.ToStatus), req.RequestedBy, req.CreatedAt.Format(timeLayout)})
		rows++
	}
	if rows == 0 {
		fmt.Fprintln(w, "No pending move requests.")
		return
	}
	table.Render()
}

func renderNotifications(w io.Writer, items []dto.NotificationResponse) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No notifications.")
		return
	}
	table := newTable(w, "ID", "Kind", "Job", "Message", "When", "")
	for _, n := range items {
		state := ""
		if !n.Read {
			state = "new"
		}
		table.Append([]string{n.ID, n.Kind, n.JobID, n.Message, n.CreatedAt.Format(timeLayout), state})
	}
	table.Render()
}

func renderIssues(w io.Writer, issues []dto.IssueResponse) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "No unresolved issues.")
		return
	}
	table := newTable(w, "Job", "Client", "Status", "Comment", "Author", "Body")
	for _, issue := range issues {
		table.Append([]string{
			issue.JobID,
			issue.ClientName,
			statusLabel(domain.OnboardingStatus(issue.Status)),
			issue.Comment.ID,
			issue.Comment.AuthorName,
			issue.Comment.Body,
		})
	}
	table.Render()
}
