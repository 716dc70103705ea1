package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/export"
	"github.com/careerforge/onboarding-portal/internal/service"
)

const defaultReportWindow = 30 * 24 * time.Hour

// OperationsHandler serves manager, operator and analytics views.
type OperationsHandler struct {
	operations *service.OperationsService
	analytics  *service.AnalyticsService
	pdf        *export.PDFExporter
}

// NewOperationsHandler constructs handler.
func NewOperationsHandler(operations *service.OperationsService, analytics *service.AnalyticsService, pdf *export.PDFExporter) *OperationsHandler {
	return &OperationsHandler{operations: operations, analytics: analytics, pdf: pdf}
}

// Managers handles GET /api/managers.
func (h *OperationsHandler) Managers(c *fiber.Ctx) error {
	managers, err := h.operations.Managers(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.ManagerResponse, 0, len(managers))
	for _, m := range managers {
		resp = append(resp, dto.ManagerResponse{
			Name:    m.User.Name,
			Email:   m.User.Email,
			Role:    string(m.User.Role),
			Clients: m.Clients,
		})
	}
	return data(c, fiber.StatusOK, resp)
}

// PublicManagers handles GET /api/managers/public. Only names and client
// counts are exposed.
func (h *OperationsHandler) PublicManagers(c *fiber.Ctx) error {
	managers, err := h.operations.Managers(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.ManagerResponse, 0, len(managers))
	for _, m := range managers {
		resp = append(resp, dto.ManagerResponse{Name: m.User.Name, Clients: m.Clients})
	}
	return data(c, fiber.StatusOK, resp)
}

// Operators handles GET /api/operations.
func (h *OperationsHandler) Operators(c *fiber.Ctx) error {
	operators, err := h.operations.Operators(c.UserContext())
	if err != nil {
		return err
	}
	resp := make([]dto.OperatorResponse, 0, len(operators))
	for _, u := range operators {
		resp = append(resp, dto.OperatorResponse{
			Name:    u.Name,
			Email:   u.Email,
			Role:    string(u.Role),
			SubRole: string(u.SubRole),
		})
	}
	return data(c, fiber.StatusOK, resp)
}

// PerformanceReport handles GET /api/operations/performance-report. The
// window defaults to the last 30 days; format=pdf returns a document.
func (h *OperationsHandler) PerformanceReport(c *fiber.Ctx) error {
	to := time.Now().UTC()
	if t := parseTime(c.Query("to")); t != nil {
		to = *t
	}
	from := to.Add(-defaultReportWindow)
	if t := parseTime(c.Query("from")); t != nil {
		from = *t
	}

	report, err := h.operations.PerformanceReport(c.UserContext(), from, to)
	if err != nil {
		return err
	}

	if c.Query("format") == "pdf" {
		out, err := h.pdf.Render(report.Table())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="performance-report.pdf"`)
		return c.Send(out)
	}

	resp := dto.PerformanceReportResponse{
		From:      report.From,
		To:        report.To,
		Total:     report.Total,
		Operators: make([]dto.OperatorPerformance, 0, len(report.Operators)),
	}
	for _, op := range report.Operators {
		resp.Operators = append(resp.Operators, dto.OperatorPerformance{
			OperatorEmail: op.Email,
			OperatorName:  op.Name,
			Applied:       op.Applied,
			Interviewing:  op.Interviewing,
			Offers:        op.Offers,
			Rejected:      op.Rejected,
			Total:         op.Total,
		})
	}
	return data(c, fiber.StatusOK, resp)
}

// ClientStats handles GET /api/operations/client-stats.
func (h *OperationsHandler) ClientStats(c *fiber.Ctx) error {
	stats, err := h.operations.ClientStats(c.UserContext())
	if err != nil {
		return err
	}
	resp := dto.ClientStatsResponse{
		TotalClients: stats.TotalClients,
		ByPlan:       make(map[string]int, len(stats.ByPlan)),
		ByStatus:     make(map[string]int, len(stats.ByStatus)),
		Completed:    stats.Completed,
		PendingMoves: stats.PendingMoves,
	}
	for plan, n := range stats.ByPlan {
		resp.ByPlan[string(plan)] = n
	}
	for status, n := range stats.ByStatus {
		resp.ByStatus[string(status)] = n
	}
	return data(c, fiber.StatusOK, resp)
}

// RecordApplication handles POST /api/operations/applications.
func (h *OperationsHandler) RecordApplication(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.CreateApplicationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	app, err := h.operations.RecordApplication(c.UserContext(), actor, service.ApplicationInput{
		ClientEmail: req.ClientEmail,
		Company:     req.Company,
		Position:    req.Position,
		Status:      domain.ApplicationStatus(req.Status),
		AppliedAt:   req.AppliedAt,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, dto.NewApplicationResponse(*app))
}

// ClientJobAnalysis handles POST /api/analytics/client-job-analysis.
func (h *OperationsHandler) ClientJobAnalysis(c *fiber.Ctx) error {
	var req dto.ClientJobAnalysisRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	analysis, err := h.analytics.ClientJobAnalysis(c.UserContext(), req.ClientEmail, req.From, req.To)
	if err != nil {
		return err
	}
	resp := dto.ClientJobAnalysisResponse{
		ClientEmail:  analysis.ClientEmail,
		Total:        analysis.Total,
		ByStatus:     make(map[string]int, len(analysis.ByStatus)),
		TopCompanies: make([]dto.CompanyCount, 0, len(analysis.TopCompanies)),
	}
	for status, n := range analysis.ByStatus {
		resp.ByStatus[string(status)] = n
	}
	for _, cc := range analysis.TopCompanies {
		resp.TopCompanies = append(resp.TopCompanies, dto.CompanyCount{Company: cc.Company, Count: cc.Count})
	}
	return data(c, fiber.StatusOK, resp)
}

// AppliedByDate handles POST /api/analytics/applied-by-date.
func (h *OperationsHandler) AppliedByDate(c *fiber.Ctx) error {
	var req dto.AppliedByDateRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	days, total, err := h.analytics.AppliedByDate(c.UserContext(), req.ClientEmail, req.From, req.To)
	if err != nil {
		return err
	}
	resp := dto.AppliedByDateResponse{Total: total, Days: make([]dto.DayCount, 0, len(days))}
	for _, d := range days {
		resp.Days = append(resp.Days, dto.DayCount{Date: d.Date, Count: d.Count})
	}
	return data(c, fiber.StatusOK, resp)
}
