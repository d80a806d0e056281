package orchestrator

import (
	"sort"
	"strings"

	"peerprep/interview/internal/models"
	"peerprep/interview/internal/utils"
)

type DashboardQuery struct {
	Search string
	Sort   string
}

// Dashboard lists sessions for observers, filtered by a case-insensitive search
// over name, email, phone and final remark.
func (o *Orchestrator) Dashboard(q DashboardQuery) []models.DashboardRow {
	term := strings.ToLower(strings.TrimSpace(q.Search))

	rows := []models.DashboardRow{}
	for _, rec := range o.repo.List() {
		if term != "" && !strings.Contains(haystack(rec), term) {
			continue
		}
		rows = append(rows, dashboardRow(rec))
	}

	switch utils.NormalizeSort(q.Sort) {
	case models.SortRecent:
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].UpdatedAt.After(rows[j].UpdatedAt) })
	case models.SortScoreAsc:
		sort.SliceStable(rows, func(i, j int) bool { return scoreOf(rows[i]) < scoreOf(rows[j]) })
	default:
		sort.SliceStable(rows, func(i, j int) bool { return scoreOf(rows[i]) > scoreOf(rows[j]) })
	}
	return rows
}

func haystack(rec *models.CandidateRecord) string {
	parts := []string{rec.Profile.Name, rec.Profile.Email, rec.Profile.Phone}
	if rec.Summary != nil {
		parts = append(parts, rec.Summary.FinalRemark)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func dashboardRow(rec *models.CandidateRecord) models.DashboardRow {
	row := models.DashboardRow{
		ID:        rec.ID,
		Name:      rec.Profile.Name,
		Email:     rec.Profile.Email,
		Phone:     rec.Profile.Phone,
		Status:    rec.Interview.Status,
		Progress:  models.InterviewProgress(rec),
		UpdatedAt: rec.UpdatedAt,
	}
	if rec.Summary != nil {
		score := rec.Summary.OverallScore
		row.Score = &score
		row.FinalRemark = rec.Summary.FinalRemark
	}
	return row
}

// unscored sessions sort as zero
func scoreOf(row models.DashboardRow) int {
	if row.Score == nil {
		return 0
	}
	return *row.Score
}
