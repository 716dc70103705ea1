package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/repository"
)

const topCompanyLimit = 10

// AnalyticsService answers job-application analytics queries.
type AnalyticsService struct {
	applications repository.ApplicationRepository
}

// ClientJobAnalysis summarizes one client's applications.
type ClientJobAnalysis struct {
	ClientEmail  string
	Total        int
	ByStatus     map[domain.ApplicationStatus]int
	TopCompanies []CompanyCount
}

// CompanyCount is the number of applications sent to one company.
type CompanyCount struct {
	Company string
	Count   int
}

// DayCount is the number of applications submitted on one day.
type DayCount struct {
	Date  string
	Count int
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(applications repository.ApplicationRepository) *AnalyticsService {
	return &AnalyticsService{applications: applications}
}

// ClientJobAnalysis returns status totals and the most targeted companies.
func (s *AnalyticsService) ClientJobAnalysis(ctx context.Context, clientEmail string, from, to *time.Time) (*ClientJobAnalysis, error) {
	email := normalizeEmail(clientEmail)
	apps, err := s.applications.List(ctx, repository.ApplicationFilter{ClientEmail: &email, From: from, To: to})
	if err != nil {
		return nil, err
	}

	analysis := &ClientJobAnalysis{
		ClientEmail:  email,
		Total:        len(apps),
		ByStatus:     make(map[domain.ApplicationStatus]int),
		TopCompanies: []CompanyCount{},
	}
	companies := make(map[string]*CompanyCount)
	for _, app := range apps {
		analysis.ByStatus[app.Status]++
		key := strings.ToLower(strings.TrimSpace(app.Company))
		entry, ok := companies[key]
		if !ok {
			entry = &CompanyCount{Company: strings.TrimSpace(app.Company)}
			companies[key] = entry
		}
		entry.Count++
	}
	for _, entry := range companies {
		analysis.TopCompanies = append(analysis.TopCompanies, *entry)
	}
	sort.Slice(analysis.TopCompanies, func(i, j int) bool {
		a, b := analysis.TopCompanies[i], analysis.TopCompanies[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Company < b.Company
	})
	if len(analysis.TopCompanies) > topCompanyLimit {
		analysis.TopCompanies = analysis.TopCompanies[:topCompanyLimit]
	}
	return analysis, nil
}

// AppliedByDate buckets applications by UTC day, oldest first. An empty
// clientEmail covers every client.
func (s *AnalyticsService) AppliedByDate(ctx context.Context, clientEmail string, from, to *time.Time) ([]DayCount, int, error) {
	filter := repository.ApplicationFilter{From: from, To: to}
	if email := normalizeEmail(clientEmail); email != "" {
		filter.ClientEmail = &email
	}
	apps, err := s.applications.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	counts := make(map[string]int)
	for _, app := range apps {
		counts[app.AppliedAt.UTC().Format("2006-01-02")]++
	}
	days := make([]DayCount, 0, len(counts))
	for date, count := range counts {
		days = append(days, DayCount{Date: date, Count: count})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })
	return days, len(apps), nil
}
