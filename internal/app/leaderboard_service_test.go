package app_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"compboard/internal/app"
	"compboard/internal/auth"
	"compboard/internal/domain"
	"compboard/internal/infra/memory"
)

func TestTaskBoardRanksByBestPublicScore(t *testing.T) {
	ctx := context.Background()
	env := newBoardEnv(t)

	alpha := env.addTeam(t, "alpha")
	beta := env.addTeam(t, "beta")

	env.addSubmission(t, alpha.ID, 1, 0.5, 0.4)
	env.addSubmission(t, alpha.ID, 1, 0.7, 0.6) // best
	env.addSubmission(t, beta.ID, 1, 0.9, 0.8)

	entries, err := env.boards.TaskBoard(ctx, 1)
	if err != nil {
		t.Fatalf("task board: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].TeamName != "beta" || entries[0].Rank != 1 || entries[0].Score != 0.9 {
		t.Fatalf("expected beta first with 0.9, got %+v", entries[0])
	}
	if entries[1].TeamName != "alpha" || entries[1].Score != 0.7 {
		t.Fatalf("expected alpha second with best score 0.7, got %+v", entries[1])
	}
	if entries[0].PrivateScore != nil {
		t.Fatalf("private scores must stay hidden by default, got %+v", entries[0])
	}
}

func TestTaskBoardAttachesPrivateScoresWhenVisible(t *testing.T) {
	ctx := context.Background()
	env := newBoardEnv(t)

	alpha := env.addTeam(t, "alpha")
	env.addSubmission(t, alpha.ID, 1, 0.5, 0.3)

	if _, err := env.boards.UpdateSettings(ctx, true); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	entries, err := env.boards.TaskBoard(ctx, 1)
	if err != nil {
		t.Fatalf("task board: %v", err)
	}
	if entries[0].PrivateScore == nil || *entries[0].PrivateScore != 0.3 {
		t.Fatalf("expected private score 0.3, got %+v", entries[0])
	}
}

func TestCombinedBoardWeightsScores(t *testing.T) {
	ctx := context.Background()
	env := newBoardEnv(t)

	alpha := env.addTeam(t, "alpha")
	if err := env.teams.SetIRLScore(ctx, alpha.ID, 1.0); err != nil {
		t.Fatalf("set irl score: %v", err)
	}
	env.addSubmission(t, alpha.ID, 1, 0.8, 0.7)
	env.addSubmission(t, alpha.ID, 2, 0.6, 0.5)

	entries, err := env.boards.CombinedBoard(ctx)
	if err != nil {
		t.Fatalf("combined board: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	want := 0.6*0.8 + 0.3*0.6 + 0.1*1.0
	if math.Abs(entries[0].CombinedScore-want) > 1e-9 {
		t.Fatalf("expected combined score %v, got %v", want, entries[0].CombinedScore)
	}
	if entries[0].Task1Score == nil || *entries[0].Task1Score != 0.8 {
		t.Fatalf("expected task1 score 0.8, got %+v", entries[0])
	}
	if entries[0].PrivateCombinedScore != nil {
		t.Fatalf("private combined must stay hidden by default, got %+v", entries[0])
	}
}

func TestCombinedBoardIncludesTeamsWithOneTask(t *testing.T) {
	ctx := context.Background()
	env := newBoardEnv(t)

	alpha := env.addTeam(t, "alpha")
	beta := env.addTeam(t, "beta")
	env.addSubmission(t, alpha.ID, 1, 0.9, 0.9)
	env.addSubmission(t, beta.ID, 2, 0.9, 0.9)

	entries, err := env.boards.CombinedBoard(ctx)
	if err != nil {
		t.Fatalf("combined board: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected both teams on the board, got %d entries", len(entries))
	}
	// alpha: 0.6*0.9 > beta: 0.3*0.9
	if entries[0].TeamName != "alpha" || entries[1].TeamName != "beta" {
		t.Fatalf("expected alpha before beta, got %v then %v", entries[0].TeamName, entries[1].TeamName)
	}
	if entries[0].Task2Score != nil {
		t.Fatalf("alpha has no task 2 submission, got %+v", entries[0].Task2Score)
	}
	if entries[1].Task1Score != nil {
		t.Fatalf("beta has no task 1 submission, got %+v", entries[1].Task1Score)
	}
}

func TestCombinedBoardRanksFollowPublicScore(t *testing.T) {
	ctx := context.Background()
	env := newBoardEnv(t)

	alpha := env.addTeam(t, "alpha")
	beta := env.addTeam(t, "beta")
	// beta wins on public, alpha wins on private: ranks still follow public.
	env.addSubmission(t, alpha.ID, 1, 0.5, 0.9)
	env.addSubmission(t, beta.ID, 1, 0.8, 0.1)

	if _, err := env.boards.UpdateSettings(ctx, true); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	entries, err := env.boards.CombinedBoard(ctx)
	if err != nil {
		t.Fatalf("combined board: %v", err)
	}
	if entries[0].TeamName != "beta" || entries[0].Rank != 1 {
		t.Fatalf("expected beta ranked first by public score, got %+v", entries[0])
	}
	if entries[0].PrivateCombinedScore == nil || entries[1].PrivateCombinedScore == nil {
		t.Fatalf("expected private fields attached while visible")
	}
	if *entries[1].PrivateCombinedScore < *entries[0].PrivateCombinedScore {
		t.Fatalf("expected alpha to carry the higher private score")
	}
}

func TestRecomputeCountsTeamsWithSubmissions(t *testing.T) {
	ctx := context.Background()
	env := newBoardEnv(t)

	alpha := env.addTeam(t, "alpha")
	env.addTeam(t, "idle")
	admin, err := env.teams.Create(ctx, "admin", mustHash(t, "secret123"), true)
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	env.addSubmission(t, alpha.ID, 1, 0.5, 0.5)
	env.addSubmission(t, admin.ID, 1, 0.9, 0.9)

	result, err := env.boards.RecomputePrivate(ctx)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if result.TeamsProcessed != 1 {
		t.Fatalf("expected only alpha counted, got %d", result.TeamsProcessed)
	}
	if result.Message != "Private leaderboard recalculated for 1 teams" {
		t.Fatalf("unexpected message %q", result.Message)
	}
}

func TestSettingsUpdateBroadcasts(t *testing.T) {
	ctx := context.Background()
	env := newBoardEnv(t)

	ch, cancel := env.hub.Subscribe()
	defer cancel()

	if _, err := env.boards.UpdateSettings(ctx, true); err != nil {
		t.Fatalf("update settings: %v", err)
	}

	event := <-ch
	if event.Reason != "settings" {
		t.Fatalf("expected settings event, got %q", event.Reason)
	}

	settings, err := env.boards.Settings(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if !settings.ShowPrivateScores {
		t.Fatalf("expected private scores visible")
	}
}

type boardEnv struct {
	teams  *memory.TeamStore
	subs   *memory.SubmissionStore
	boards *app.LeaderboardService
	hub    *app.UpdateHub
}

func newBoardEnv(t *testing.T) *boardEnv {
	t.Helper()
	teams := memory.NewTeamStore()
	subs := memory.NewSubmissionStore(teams)
	hub := app.NewUpdateHub()
	boards := app.NewLeaderboardService(teams, subs, memory.NewSettingsStore(), app.DefaultWeights, nil, hub)
	return &boardEnv{teams: teams, subs: subs, boards: boards, hub: hub}
}

func (e *boardEnv) addTeam(t *testing.T, name string) domain.Team {
	t.Helper()
	team, err := e.teams.Create(context.Background(), name, mustHash(t, name+"-pass"), false)
	if err != nil {
		t.Fatalf("create team %s: %v", name, err)
	}
	return team
}

func (e *boardEnv) addSubmission(t *testing.T, teamID int64, taskID int, public, private float64) {
	t.Helper()
	_, err := e.subs.Create(context.Background(), domain.Submission{
		TeamID:       teamID,
		TaskID:       taskID,
		Filename:     "solution.csv",
		PublicScore:  public,
		PrivateScore: private,
	})
	if err != nil {
		t.Fatalf("create submission: %v", err)
	}
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func TestHistoryRejectsUnknownTask(t *testing.T) {
	env := newBoardEnv(t)
	svc := app.NewSubmissionService(env.subs, env.boards)

	if _, err := svc.History(context.Background(), 1, 3); err == nil {
		t.Fatalf("expected error for unknown task id")
	}
}

func TestRecordNotifiesBoards(t *testing.T) {
	ctx := context.Background()
	env := newBoardEnv(t)
	svc := app.NewSubmissionService(env.subs, env.boards)
	alpha := env.addTeam(t, "alpha")

	ch, cancel := env.hub.Subscribe()
	defer cancel()

	if _, err := svc.Record(ctx, domain.Submission{TeamID: alpha.ID, TaskID: 1, PublicScore: 0.5}); err != nil {
		t.Fatalf("record: %v", err)
	}
	event := <-ch
	if event.Reason != "submission" {
		t.Fatalf("expected submission event, got %q", event.Reason)
	}
}

func TestChangePasswordPolicy(t *testing.T) {
	ctx := context.Background()
	env := newBoardEnv(t)
	tokens := authTokens()
	svc := app.NewAuthService(env.teams, tokens)

	team, err := env.teams.Create(ctx, "admin", mustHash(t, "oldsecret"), true)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	if err := svc.ChangePassword(ctx, team.ID, "wrong", "newsecret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, team.ID, "oldsecret", "short"); !errors.Is(err, domain.ErrPasswordPolicy) {
		t.Fatalf("expected policy error for short password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, team.ID, "oldsecret", "oldsecret"); !errors.Is(err, domain.ErrPasswordPolicy) {
		t.Fatalf("expected policy error for unchanged password, got %v", err)
	}
	if err := svc.ChangePassword(ctx, team.ID, "oldsecret", "newsecret"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.Login(ctx, "admin", "newsecret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := svc.Login(ctx, "admin", "oldsecret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}
}

func authTokens() *auth.TokenService {
	return auth.NewTokenService("test-secret", "compboard-test", 0)
}
