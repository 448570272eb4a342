package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the backend has no record for the request.
var ErrNotFound = errors.New("not found")

// Client talks to the job-tracker HTTP backend. It holds no per-user
// state: the caller passes the openid or record id on every call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the backend root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetUser fetches a user profile by openid.
func (c *Client) GetUser(ctx context.Context, openid string) (*User, error) {
	var u User
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(openid), &u); err != nil {
		return nil, fmt.Errorf("get user %s: %w", openid, err)
	}
	return &u, nil
}

// ListOpportunities returns every opportunity owned by openid, in backend order.
func (c *Client) ListOpportunities(ctx context.Context, openid string) ([]Opportunity, error) {
	var opps []Opportunity
	if err := c.getJSON(ctx, "/opportunities/"+url.PathEscape(openid), &opps); err != nil {
		return nil, fmt.Errorf("list opportunities %s: %w", openid, err)
	}
	return opps, nil
}

// LatestAssessments returns the two most recent ability assessments of openid.
func (c *Client) LatestAssessments(ctx context.Context, openid string) (*LatestAssessments, error) {
	var a LatestAssessments
	if err := c.getJSON(ctx, "/assessments/latest/"+url.PathEscape(openid), &a); err != nil {
		return nil, fmt.Errorf("latest assessments %s: %w", openid, err)
	}
	return &a, nil
}

// GetOpportunity fetches a single opportunity.
func (c *Client) GetOpportunity(ctx context.Context, id int) (*Opportunity, error) {
	var o Opportunity
	if err := c.getJSON(ctx, fmt.Sprintf("/opportunity/%d", id), &o); err != nil {
		return nil, fmt.Errorf("get opportunity %d: %w", id, err)
	}
	return &o, nil
}

// ListInterviewSessions returns the practice sessions recorded for an opportunity.
func (c *Client) ListInterviewSessions(ctx context.Context, opportunityID int) ([]InterviewSession, error) {
	var sessions []InterviewSession
	if err := c.getJSON(ctx, fmt.Sprintf("/opportunity/%d/interview_sessions", opportunityID), &sessions); err != nil {
		return nil, fmt.Errorf("list interview sessions %d: %w", opportunityID, err)
	}
	return sessions, nil
}

// LatestInterviewSession returns the most recent session for an opportunity.
// The backend answers 200 with only a message when there is none; that is
// reported as ErrNotFound.
func (c *Client) LatestInterviewSession(ctx context.Context, opportunityID int) (*InterviewSession, error) {
	var s InterviewSession
	if err := c.getJSON(ctx, fmt.Sprintf("/opportunity/%d/interview_sessions/latest", opportunityID), &s); err != nil {
		return nil, fmt.Errorf("latest interview session %d: %w", opportunityID, err)
	}
	if s.ID == 0 {
		return nil, fmt.Errorf("latest interview session %d: %w", opportunityID, ErrNotFound)
	}
	return &s, nil
}

// GetInterviewSession fetches one session with its answers.
func (c *Client) GetInterviewSession(ctx context.Context, id int) (*InterviewSession, error) {
	var s InterviewSession
	if err := c.getJSON(ctx, fmt.Sprintf("/interview_session/%d", id), &s); err != nil {
		return nil, fmt.Errorf("get interview session %d: %w", id, err)
	}
	return &s, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
