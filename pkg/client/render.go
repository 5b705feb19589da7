package client

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"compboard/internal/domain"
)

// NotAvailable is rendered wherever a score is missing. The dashboard makes no
// distinction between "not computed" and "not applicable".
const NotAvailable = "N/A"

// FormatScore renders an optional score to a fixed number of decimals, or N/A.
// Combined and submission scores use 8 decimals, per-task board scores use 4.
func FormatScore(score *float64, decimals int) string {
	if score == nil {
		return NotAvailable
	}
	return FormatFixed(*score, decimals)
}

// FormatFixed renders a score to a fixed number of decimals.
func FormatFixed(score float64, decimals int) string {
	return strconv.FormatFloat(score, 'f', decimals, 64)
}

// ShowPrivateTaskColumn decides whether a per-task board renders its private
// score column: visibility must be on and the first entry must actually carry
// the field. The first entry acts as the existence probe for the whole page.
func ShowPrivateTaskColumn(settings domain.LeaderboardSettings, entries []domain.LeaderboardEntry) bool {
	return settings.ShowPrivateScores && len(entries) > 0 && entries[0].PrivateScore != nil
}

// ShowPrivateCombinedColumns is the combined-board variant of the probe.
func ShowPrivateCombinedColumns(settings domain.LeaderboardSettings, entries []domain.CombinedLeaderboardEntry) bool {
	return settings.ShowPrivateScores && len(entries) > 0 && entries[0].PrivateCombinedScore != nil
}

// SortByPrivateCombined returns the entries re-sorted by private combined
// score, strictly descending, with missing scores last. Only the combined view
// does this; per-task boards keep the server order.
func SortByPrivateCombined(entries []domain.CombinedLeaderboardEntry) []domain.CombinedLeaderboardEntry {
	sorted := make([]domain.CombinedLeaderboardEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return privateOrInf(sorted[i]) > privateOrInf(sorted[j])
	})
	return sorted
}

func privateOrInf(entry domain.CombinedLeaderboardEntry) float64 {
	if entry.PrivateCombinedScore == nil {
		return math.Inf(-1)
	}
	return *entry.PrivateCombinedScore
}

// TeamCredential is one row of the batch-import preview.
type TeamCredential struct {
	Name     string
	Password string
}

// ParseTeamsCSV builds the import preview from raw CSV text: blank lines are
// dropped, the first remaining line is treated as the header, each line is
// split on commas and the first two fields trimmed as name and password. Rows
// missing either field are excluded. Quoted commas are not handled; the server
// re-parses the raw file with a proper CSV reader on submit.
func ParseTeamsCSV(text string) []TeamCredential {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) <= 1 {
		return []TeamCredential{}
	}

	rows := make([]TeamCredential, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := strings.Split(line, ",")
		var name, password string
		if len(fields) > 0 {
			name = strings.TrimSpace(fields[0])
		}
		if len(fields) > 1 {
			password = strings.TrimSpace(fields[1])
		}
		if name == "" || password == "" {
			continue
		}
		rows = append(rows, TeamCredential{Name: name, Password: password})
	}
	return rows
}

// MaskPassword renders one bullet per input character for the import preview.
func MaskPassword(password string) string {
	return strings.Repeat("•", utf8.RuneCountInString(password))
}

// DetailsPreview derives a short label from a submission's details blob:
// a status field wins over a score field; anything else gets a generic label.
func DetailsPreview(details string) string {
	fields, ok := parseDetails(details)
	if !ok {
		return "View details"
	}
	if status, ok := fields["status"]; ok {
		return "Status: " + renderDetailValue(status)
	}
	if score, ok := fields["score"]; ok {
		return "Score: " + renderDetailValue(score)
	}
	return "View details"
}

// FormatDetails expands a details blob into key: value lines with keys sorted.
// Numeric values under 1 render to 8 decimals; everything else as-is. A blob
// that is not a JSON object is shown raw.
func FormatDetails(details string) string {
	fields, ok := parseDetails(details)
	if !ok {
		return details
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+": "+renderDetailValue(fields[key]))
	}
	return strings.Join(lines, "\n")
}

func parseDetails(details string) (map[string]interface{}, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(details), &fields); err != nil {
		return nil, false
	}
	return fields, true
}

func renderDetailValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		if v < 1 {
			return strconv.FormatFloat(v, 'f', 8, 64)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return "null"
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}

// MergeImportStatus folds a batch-import response into one status line.
func MergeImportStatus(result domain.BatchImportResult) string {
	parts := []string{
		fmt.Sprintf("Created: %d", result.Created),
		fmt.Sprintf("Updated: %d", result.Updated),
		fmt.Sprintf("Skipped: %d", result.Skipped),
	}
	status := strings.Join(parts, ", ")
	if len(result.Errors) > 0 {
		status += fmt.Sprintf("; Errors: %s", strings.Join(result.Errors, "; "))
	}
	return status
}
