package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"sync"

	"compboard/internal/domain"
)

// APIError is a non-2xx response carrying the backend's detail message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client is a typed wrapper over the /api contract. Every request attaches the
// persisted bearer token when one exists.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore

	mu      sync.RWMutex
	current *domain.Team
}

func New(baseURL string, tokens TokenStore) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		tokens:  tokens,
	}
}

// CurrentTeam returns the cached identity, or nil when logged out.
func (c *Client) CurrentTeam() *domain.Team {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Load restores the session from a persisted token. An invalid or expired
// token is cleared and a nil team returned; this is the only automatic
// recovery in the client.
func (c *Client) Load(ctx context.Context) (*domain.Team, error) {
	token, err := c.tokens.Token()
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}
	team, err := c.Me(ctx)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok && (apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden) {
			_ = c.tokens.Clear()
			c.setCurrent(nil)
			return nil, nil
		}
		return nil, err
	}
	c.setCurrent(&team)
	return &team, nil
}

// Login obtains a bearer token, persists it and caches the identity.
func (c *Client) Login(ctx context.Context, name, password string) (domain.Team, error) {
	var token struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"name": name, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &token); err != nil {
		return domain.Team{}, err
	}
	if err := c.tokens.Save(token.AccessToken); err != nil {
		return domain.Team{}, fmt.Errorf("persist token: %w", err)
	}
	team, err := c.Me(ctx)
	if err != nil {
		return domain.Team{}, err
	}
	c.setCurrent(&team)
	return team, nil
}

// Logout clears the persisted token and cached identity. No network call.
func (c *Client) Logout() {
	_ = c.tokens.Clear()
	c.setCurrent(nil)
}

// Me fetches the identity the current token belongs to.
func (c *Client) Me(ctx context.Context) (domain.Team, error) {
	var team domain.Team
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &team)
	return team, err
}

// TaskLeaderboard fetches the ranked entries for task 1 or 2.
func (c *Client) TaskLeaderboard(ctx context.Context, taskID int) ([]domain.LeaderboardEntry, error) {
	var entries []domain.LeaderboardEntry
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/leaderboard/task%d", taskID), nil, &entries)
	return entries, err
}

// CombinedLeaderboard fetches the weighted cross-task board.
func (c *Client) CombinedLeaderboard(ctx context.Context) ([]domain.CombinedLeaderboardEntry, error) {
	var entries []domain.CombinedLeaderboardEntry
	err := c.do(ctx, http.MethodGet, "/leaderboard/combined", nil, &entries)
	return entries, err
}

// LeaderboardSettings fetches the private score visibility flag.
func (c *Client) LeaderboardSettings(ctx context.Context) (domain.LeaderboardSettings, error) {
	var settings domain.LeaderboardSettings
	err := c.do(ctx, http.MethodGet, "/leaderboard/settings", nil, &settings)
	return settings, err
}

// MySubmissions fetches the caller's submission history; taskID 0 means all tasks.
func (c *Client) MySubmissions(ctx context.Context, taskID int) ([]domain.Submission, error) {
	path := "/teams/me/submissions"
	if taskID != 0 {
		path += "/" + strconv.Itoa(taskID)
	}
	var subs []domain.Submission
	err := c.do(ctx, http.MethodGet, path, nil, &subs)
	return subs, err
}

// Teams lists all registered teams. Admin only.
func (c *Client) Teams(ctx context.Context) ([]domain.Team, error) {
	var teams []domain.Team
	err := c.do(ctx, http.MethodGet, "/admin/teams", nil, &teams)
	return teams, err
}

// CreateTeam registers a single team. Admin only.
func (c *Client) CreateTeam(ctx context.Context, name, password string) (domain.Team, error) {
	var team domain.Team
	err := c.do(ctx, http.MethodPost, "/admin/teams", map[string]string{"name": name, "password": password}, &team)
	return team, err
}

// DeleteTeam removes a team and its submissions. Admin only.
func (c *Client) DeleteTeam(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/teams/%d", id), nil, nil)
}

// BatchImportTeams uploads the raw CSV file as multipart form data.
// The parsed preview is display-only; the server re-parses the raw file.
func (c *Client) BatchImportTeams(ctx context.Context, filename string, file io.Reader) (domain.BatchImportResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return domain.BatchImportResult{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return domain.BatchImportResult{}, err
	}
	if err := writer.Close(); err != nil {
		return domain.BatchImportResult{}, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/admin/teams/batch", &buf)
	if err != nil {
		return domain.BatchImportResult{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result domain.BatchImportResult
	err = c.send(req, &result)
	return result, err
}

// AllSubmissions lists every submission. Admin only.
func (c *Client) AllSubmissions(ctx context.Context) ([]domain.Submission, error) {
	var subs []domain.Submission
	err := c.do(ctx, http.MethodGet, "/admin/submissions", nil, &subs)
	return subs, err
}

// DeleteSubmission removes one submission. Admin only.
func (c *Client) DeleteSubmission(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/admin/submissions/%d", id), nil, nil)
}

// AdminLeaderboardSettings reads the visibility flag via the admin route.
func (c *Client) AdminLeaderboardSettings(ctx context.Context) (domain.LeaderboardSettings, error) {
	var settings domain.LeaderboardSettings
	err := c.do(ctx, http.MethodGet, "/admin/settings/leaderboard", nil, &settings)
	return settings, err
}

// UpdateLeaderboardSettings flips private score visibility. Admin only.
func (c *Client) UpdateLeaderboardSettings(ctx context.Context, showPrivate bool) (domain.LeaderboardSettings, error) {
	var settings domain.LeaderboardSettings
	path := "/admin/settings/leaderboard?show_private=" + strconv.FormatBool(showPrivate)
	err := c.do(ctx, http.MethodPost, path, nil, &settings)
	return settings, err
}

// CalculatePrivateLeaderboard triggers the server-side recompute. Admin only.
func (c *Client) CalculatePrivateLeaderboard(ctx context.Context) (domain.RecomputeResult, error) {
	var result domain.RecomputeResult
	err := c.do(ctx, http.MethodPost, "/admin/calculate-private-leaderboard", nil, &result)
	return result, err
}

// ChangePassword validates the new password locally before calling the
// backend: minimum six characters, must match its confirmation and must
// differ from the old password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword, confirmPassword string) error {
	if len([]rune(newPassword)) < 6 {
		return fmt.Errorf("new password must be at least 6 characters")
	}
	if newPassword != confirmPassword {
		return fmt.Errorf("new password and confirmation do not match")
	}
	if newPassword == oldPassword {
		return fmt.Errorf("new password must differ from the old password")
	}
	body := map[string]string{"old_password": oldPassword, "new_password": newPassword}
	return c.do(ctx, http.MethodPost, "/admin/password/change", body, nil)
}

// Questions lists all forum questions with answer previews.
func (c *Client) Questions(ctx context.Context) ([]domain.Question, error) {
	var questions []domain.Question
	err := c.do(ctx, http.MethodGet, "/qa/questions", nil, &questions)
	return questions, err
}

// Question fetches one question with its full answer thread.
func (c *Client) Question(ctx context.Context, id int64) (domain.QuestionDetail, error) {
	var detail domain.QuestionDetail
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/qa/questions/%d", id), nil, &detail)
	return detail, err
}

// CreateQuestion posts a new question.
func (c *Client) CreateQuestion(ctx context.Context, title, content string) (domain.Question, error) {
	var question domain.Question
	err := c.do(ctx, http.MethodPost, "/qa/questions", map[string]string{"title": title, "content": content}, &question)
	return question, err
}

// CreateAnswer posts a reply to a question.
func (c *Client) CreateAnswer(ctx context.Context, questionID int64, content string) (domain.Answer, error) {
	var answer domain.Answer
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/qa/questions/%d/answers", questionID), map[string]string{"content": content}, &answer)
	return answer, err
}

// DeleteQuestion removes a question and its answers. Admin only.
func (c *Client) DeleteQuestion(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/qa/questions/%d", id), nil, nil)
}

// DeleteAnswer removes one answer. Admin only.
func (c *Client) DeleteAnswer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/qa/answers/%d", id), nil, nil)
}

func (c *Client) setCurrent(team *domain.Team) {
	c.mu.Lock()
	c.current = team
	c.mu.Unlock()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api"+path, body)
	if err != nil {
		return nil, err
	}
	if token, err := c.tokens.Token(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		return &APIError{Status: resp.StatusCode, Detail: envelope.Detail}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
