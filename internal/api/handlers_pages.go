package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/dgallion1/towxml/internal/backend"
	"github.com/dgallion1/towxml/internal/doctree"
	"github.com/dgallion1/towxml/internal/opportunity"
	"github.com/go-chi/chi/v5"
)

const noJobDescription = "暂无职位描述"

type profileResponse struct {
	backend.User
	Profile []doctree.Node `json:"profile"`
}

type opportunityItem struct {
	backend.Opportunity
	DisplayProgress string `json:"display_progress"`
}

type opportunityDetail struct {
	backend.Opportunity
	DisplayProgress    string           `json:"display_progress"`
	JobDescriptionTree []doctree.Node   `json:"job_description_tree"`
	ResumeTree         []doctree.Node   `json:"resume_tree,omitempty"`
	QA                 []backend.QAItem `json:"qa"`
}

type radarPoint struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// abilityPoint compares one radar dimension across the two newest assessments.
type abilityPoint struct {
	Key           string  `json:"key"`
	LatestValue   float64 `json:"latest_value"`
	PreviousValue float64 `json:"previous_value"`
}

type answerView struct {
	backend.SessionAnswer
	AIFeedbackTree []doctree.Node `json:"ai_feedback_tree"`
}

type sessionView struct {
	ID                int            `json:"id"`
	OpportunityID     int            `json:"opportunity_id"`
	SessionDate       string         `json:"session_date"`
	ReportSummary     string         `json:"report_summary"`
	ReportSummaryTree []doctree.Node `json:"report_summary_tree"`
	Radar             []radarPoint   `json:"radar"`
	Answers           []answerView   `json:"answers"`
}

type historyItem struct {
	ID            int    `json:"id"`
	OpportunityID int    `json:"opportunity_id"`
	SessionDate   string `json:"session_date"`
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	openid := chi.URLParam(r, "openid")
	user, err := s.backend.GetUser(r.Context(), openid)
	if err != nil {
		s.backendError(w, "get user", err)
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		User:    *user,
		Profile: s.render(user.ProfileContent).Nodes,
	})
}

func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	openid := chi.URLParam(r, "openid")
	opps, err := s.backend.ListOpportunities(r.Context(), openid)
	if err != nil {
		s.backendError(w, "list opportunities", err)
		return
	}

	q := r.URL.Query()
	filtered := opportunity.Filter(opps, q.Get("status"), q.Get("q"))
	items := make([]opportunityItem, 0, len(filtered))
	for _, o := range filtered {
		items = append(items, opportunityItem{Opportunity: o, DisplayProgress: opportunity.DisplayProgress(o)})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"opportunities": items,
		"total":         len(items),
		"statuses":      append([]string{opportunity.AllStatuses}, opportunity.Statuses...),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	openid := chi.URLParam(r, "openid")
	a, err := s.backend.LatestAssessments(r.Context(), openid)
	if err != nil {
		s.backendError(w, "latest assessments", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"abilities": mergeAbilities(a.Latest, a.Previous)})
}

// mergeAbilities lists every dimension of latest in key order next to its
// previous score. Dimensions the previous assessment lacks score 0.
func mergeAbilities(latest, previous *backend.Assessment) []abilityPoint {
	if latest == nil {
		return []abilityPoint{}
	}
	var prev map[string]float64
	if previous != nil {
		prev = previous.RadarChartData
	}
	points := make([]abilityPoint, 0, len(latest.RadarChartData))
	for _, p := range radarPoints(latest.RadarChartData) {
		points = append(points, abilityPoint{Key: p.Key, LatestValue: p.Value, PreviousValue: prev[p.Key]})
	}
	return points
}

func (s *Server) handleOpportunityDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	o, err := s.backend.GetOpportunity(r.Context(), id)
	if err != nil {
		s.backendError(w, "get opportunity", err)
		return
	}

	jd := o.JobDescription
	if jd == "" {
		jd = noJobDescription
	}
	resp := opportunityDetail{
		Opportunity:        *o,
		DisplayProgress:    opportunity.DisplayProgress(*o),
		JobDescriptionTree: s.render(jd).Nodes,
		QA:                 []backend.QAItem{},
	}
	if o.GeneratedResumeMD != "" {
		resp.ResumeTree = s.render(o.GeneratedResumeMD).Nodes
	}
	if o.GeneratedQAJSON != "" {
		var qa []backend.QAItem
		if err := json.Unmarshal([]byte(o.GeneratedQAJSON), &qa); err != nil {
			s.log.Warn("invalid generated qa json", "opportunity_id", id, "error", err)
		} else if qa != nil {
			resp.QA = qa
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLatestInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	session, err := s.backend.LatestInterviewSession(r.Context(), id)
	if err != nil {
		s.backendError(w, "latest interview session", err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(session))
}

func (s *Server) handleInterviewHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	sessions, err := s.backend.ListInterviewSessions(r.Context(), id)
	if err != nil {
		s.backendError(w, "list interview sessions", err)
		return
	}

	// Newest first. session_date is an ISO timestamp, so string order works.
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].SessionDate > sessions[j].SessionDate
	})
	items := make([]historyItem, 0, len(sessions))
	for _, sess := range sessions {
		items = append(items, historyItem{ID: sess.ID, OpportunityID: sess.OpportunityID, SessionDate: sess.SessionDate})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": items})
}

func (s *Server) handleInterviewSession(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	session, err := s.backend.GetInterviewSession(r.Context(), id)
	if err != nil {
		s.backendError(w, "get interview session", err)
		return
	}
	writeJSON(w, http.StatusOK, s.sessionView(session))
}

func (s *Server) sessionView(sess *backend.InterviewSession) sessionView {
	v := sessionView{
		ID:                sess.ID,
		OpportunityID:     sess.OpportunityID,
		SessionDate:       sess.SessionDate,
		ReportSummary:     sess.ReportSummary,
		ReportSummaryTree: s.render(sess.ReportSummary).Nodes,
		Radar:             radarPoints(sess.RadarChartData),
		Answers:           make([]answerView, 0, len(sess.Answers)),
	}
	for _, a := range sess.Answers {
		v.Answers = append(v.Answers, answerView{SessionAnswer: a, AIFeedbackTree: s.render(a.AIFeedback).Nodes})
	}
	return v
}

// radarPoints flattens radar scores into a list ordered by dimension name.
func radarPoints(data map[string]float64) []radarPoint {
	points := make([]radarPoint, 0, len(data))
	for k, v := range data {
		points = append(points, radarPoint{Key: k, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Key < points[j].Key })
	return points
}

func idParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		jsonError(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) backendError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, backend.ErrNotFound) {
		jsonError(w, "not found", http.StatusNotFound)
		return
	}
	s.log.Error("backend request failed", "op", op, "error", err)
	jsonError(w, "backend unavailable", http.StatusBadGateway)
}
