package domain

// Clone returns a deep copy of the job so callers can snapshot and restore it.
func (j Job) Clone() Job {
	out := j
	out.CSMEmail = cloneString(j.CSMEmail)
	out.ResumeMakerEmail = cloneString(j.ResumeMakerEmail)
	out.LinkedInMemberEmail = cloneString(j.LinkedInMemberEmail)
	out.DashboardManager = cloneString(j.DashboardManager)
	if j.Comments != nil {
		out.Comments = make([]Comment, len(j.Comments))
		for i, c := range j.Comments {
			c.Mentions = append([]string(nil), c.Mentions...)
			c.ResolvedBy = cloneString(c.ResolvedBy)
			out.Comments[i] = c
		}
	}
	if j.MoveHistory != nil {
		out.MoveHistory = append([]MoveHistoryEntry(nil), j.MoveHistory...)
	}
	if j.Attachments != nil {
		out.Attachments = append([]Attachment(nil), j.Attachments...)
	}
	if j.PendingMoveRequest != nil {
		req := *j.PendingMoveRequest
		out.PendingMoveRequest = &req
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
