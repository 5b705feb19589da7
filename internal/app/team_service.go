package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"compboard/internal/auth"
	"compboard/internal/domain"
)

// TeamService covers admin team management, including the CSV batch import.
type TeamService struct {
	teams  TeamRepository
	subs   SubmissionRepository
	boards *LeaderboardService
}

func NewTeamService(teams TeamRepository, subs SubmissionRepository, boards *LeaderboardService) *TeamService {
	return &TeamService{teams: teams, subs: subs, boards: boards}
}

// List returns all registered teams.
func (s *TeamService) List(ctx context.Context) ([]domain.Team, error) {
	return s.teams.List(ctx)
}

// Create registers a single team with a hashed password.
func (s *TeamService) Create(ctx context.Context, name, password string) (domain.Team, error) {
	if _, err := s.teams.GetByName(ctx, name); err == nil {
		return domain.Team{}, domain.ErrTeamExists
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.Team{}, fmt.Errorf("hash password: %w", err)
	}
	return s.teams.Create(ctx, name, hash, false)
}

// Delete removes a team and all of its submissions, then refreshes the boards.
func (s *TeamService) Delete(ctx context.Context, id int64) (domain.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return domain.Team{}, err
	}
	if err := s.subs.DeleteByTeam(ctx, id); err != nil {
		return domain.Team{}, fmt.Errorf("delete submissions: %w", err)
	}
	if err := s.teams.Delete(ctx, id); err != nil {
		return domain.Team{}, err
	}
	if s.boards != nil {
		s.boards.NotifyBoardsChanged(ctx, "team-deleted")
	}
	return team, nil
}

// BatchImport creates or updates teams from a name,password CSV with a header row.
//
// Per row: a missing team is created; an existing team with a different password
// gets the new password; an existing team whose password already matches is
// skipped. Malformed rows are reported in Errors without aborting the import.
func (s *TeamService) BatchImport(ctx context.Context, r io.Reader) (domain.BatchImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return domain.BatchImportResult{}, fmt.Errorf("read csv header: %w", err)
	}
	nameCol, passwordCol := -1, -1
	for i, col := range header {
		switch strings.ToLower(strings.TrimSpace(col)) {
		case "name":
			nameCol = i
		case "password":
			passwordCol = i
		}
	}
	if nameCol < 0 || passwordCol < 0 {
		return domain.BatchImportResult{}, fmt.Errorf("csv header must contain name and password columns")
	}

	result := domain.BatchImportResult{
		Teams:        []string{},
		UpdatedTeams: []string{},
		SkippedTeams: []string{},
		Errors:       []string{},
	}

	// Header is row 1; data rows are numbered from 2 in error messages.
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}

		var name, password string
		if nameCol < len(record) {
			name = strings.TrimSpace(record[nameCol])
		}
		if passwordCol < len(record) {
			password = strings.TrimSpace(record[passwordCol])
		}
		if name == "" || password == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: Missing name or password", rowNum))
			continue
		}

		existing, err := s.teams.GetByName(ctx, name)
		switch {
		case err == nil && auth.VerifyPassword(password, existing.PasswordHash):
			result.Skipped++
			result.SkippedTeams = append(result.SkippedTeams, name+" (unchanged)")
		case err == nil:
			hash, hashErr := auth.HashPassword(password)
			if hashErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, hashErr))
				continue
			}
			if err := s.teams.UpdatePasswordHash(ctx, existing.ID, hash); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				continue
			}
			result.Updated++
			result.UpdatedTeams = append(result.UpdatedTeams, name)
		default:
			hash, hashErr := auth.HashPassword(password)
			if hashErr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, hashErr))
				continue
			}
			if _, err := s.teams.Create(ctx, name, hash, false); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
				continue
			}
			result.Created++
			result.Teams = append(result.Teams, name)
		}
	}

	return result, nil
}
