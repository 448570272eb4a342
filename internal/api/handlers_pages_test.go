package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgallion1/towxml/internal/doctree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/u1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 1, "openid": "u1", "name": "Jane",
			"profile_content": "# Jane\n* Go\n**Senior** engineer",
		})
	})
	mux.HandleFunc("GET /opportunities/u1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "position_name": "Backend Engineer", "company_name": "Acme", "status": "已投递", "latest_progress": "一面", "created_at": "2024-05-01T10:00:00"},
			{"id": 2, "position_name": "Frontend Engineer", "company_name": "Globex", "status": "待投递", "created_at": "2024-05-02T10:00:00"},
			{"id": 3, "position_name": "Data Analyst", "company_name": "Initech", "status": "已投递", "created_at": "2024-05-03T10:00:00"},
		})
	})
	mux.HandleFunc("GET /opportunity/1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 1, "position_name": "Backend Engineer", "company_name": "Acme",
			"status": "已投递", "job_description": "",
			"generated_resume_md": "# Resume\n---\n* Go",
			"generated_qa_json":   `[{"question":"Why Go?","suggested_answer":"**Speed**"}]`,
		})
	})
	mux.HandleFunc("GET /opportunity/2", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 2, "job_description": "## Duties\n* ship", "generated_qa_json": "{broken",
		})
	})
	mux.HandleFunc("GET /opportunity/1/interview_sessions/latest", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 7, "opportunity_id": 1, "session_date": "2024-05-10T09:00:00",
			"report_summary":   "## Summary\nSolid **fundamentals**",
			"radar_chart_data": map[string]float64{"沟通": 80, "技术": 90, "逻辑": 70},
			"session_answers": []map[string]any{
				{"id": 1, "question_text": "Q1", "user_answer_transcript": "A1", "ai_feedback": "* clear"},
			},
		})
	})
	mux.HandleFunc("GET /opportunity/2/interview_sessions/latest", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "no sessions"})
	})
	mux.HandleFunc("GET /opportunity/1/interview_sessions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 5, "opportunity_id": 1, "session_date": "2024-05-01T09:00:00"},
			{"id": 7, "opportunity_id": 1, "session_date": "2024-05-10T09:00:00"},
			{"id": 6, "opportunity_id": 1, "session_date": "2024-05-05T09:00:00"},
		})
	})
	mux.HandleFunc("GET /interview_session/7", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id": 7, "opportunity_id": 1, "report_summary": "ok",
			"radar_chart_data": map[string]float64{"b": 2, "a": 1},
		})
	})
	mux.HandleFunc("GET /interview_session/500", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /assessments/latest/u1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"latest_assessment":   map[string]any{"id": 2, "radar_chart_data": map[string]float64{"逻辑": 75, "技术": 85, "沟通": 65}},
			"previous_assessment": map[string]any{"id": 1, "radar_chart_data": map[string]float64{"技术": 70, "沟通": 60}},
		})
	})
	mux.HandleFunc("GET /assessments/latest/newcomer", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"latest_assessment":   map[string]any{"id": 1, "radar_chart_data": map[string]float64{"技术": 50}},
			"previous_assessment": nil,
		})
	})
	mux.HandleFunc("GET /assessments/latest/blank", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"latest_assessment": nil, "previous_assessment": nil})
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestProfile(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	rec := get(t, srv, "/api/users/u1/profile")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Name    string         `json:"name"`
		Profile []doctree.Node `json:"profile"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Jane", resp.Name)
	require.Len(t, resp.Profile, 3)
	assert.Equal(t, doctree.KindHeading1, resp.Profile[0].Kind)
	assert.Equal(t, doctree.KindListItem, resp.Profile[1].Kind)
	assert.Equal(t, doctree.KindParagraph, resp.Profile[2].Kind)
	assert.Equal(t, doctree.KindBold, resp.Profile[2].Children[1].Kind)
}

func TestProfileUnknownUser(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	rec := get(t, srv, "/api/users/nobody/profile")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type listResponse struct {
	Opportunities []struct {
		ID              int    `json:"id"`
		DisplayProgress string `json:"display_progress"`
	} `json:"opportunities"`
	Total    int      `json:"total"`
	Statuses []string `json:"statuses"`
}

func TestOpportunitiesList(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	rec := get(t, srv, "/api/users/u1/opportunities")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, "全部", resp.Statuses[0])
	assert.Equal(t, "✈️ \u00a0 一面", resp.Opportunities[0].DisplayProgress)
	assert.Equal(t, "🕒 \u00a0 2024-05-02", resp.Opportunities[1].DisplayProgress)
}

func TestOpportunitiesFiltered(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	rec := get(t, srv, "/api/users/u1/opportunities?status=%E5%B7%B2%E6%8A%95%E9%80%92&q=acme")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, 1, resp.Opportunities[0].ID)
}

func TestOpportunityDetail(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	rec := get(t, srv, "/api/opportunities/1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		JobDescriptionTree []doctree.Node `json:"job_description_tree"`
		ResumeTree         []doctree.Node `json:"resume_tree"`
		QA                 []struct {
			Question string `json:"question"`
		} `json:"qa"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.JobDescriptionTree, 1)
	assert.Equal(t, "暂无职位描述", resp.JobDescriptionTree[0].PlainText())
	require.Len(t, resp.ResumeTree, 3)
	assert.Equal(t, doctree.KindRule, resp.ResumeTree[1].Kind)
	require.Len(t, resp.QA, 1)
	assert.Equal(t, "Why Go?", resp.QA[0].Question)
}

func TestOpportunityDetailInvalidQA(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	rec := get(t, srv, "/api/opportunities/2")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.JSONEq(t, `[]`, string(resp["qa"]))
	_, hasResume := resp["resume_tree"]
	assert.False(t, hasResume)
}

func TestOpportunityDetailBadID(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/opportunities/abc").Code)
	assert.Equal(t, http.StatusBadRequest, get(t, srv, "/api/opportunities/0").Code)
}

func TestLatestInterview(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	rec := get(t, srv, "/api/opportunities/1/interview/latest")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp sessionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 7, resp.ID)
	require.Len(t, resp.ReportSummaryTree, 2)
	assert.Equal(t, doctree.KindHeading2, resp.ReportSummaryTree[0].Kind)
	require.Len(t, resp.Radar, 3)
	assert.Equal(t, "技术", resp.Radar[0].Key)
	require.Len(t, resp.Answers, 1)
	require.Len(t, resp.Answers[0].AIFeedbackTree, 1)
	assert.Equal(t, doctree.KindListItem, resp.Answers[0].AIFeedbackTree[0].Kind)
}

func TestLatestInterviewNone(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/opportunities/2/interview/latest").Code)
}

func TestInterviewHistoryNewestFirst(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	rec := get(t, srv, "/api/opportunities/1/interview/sessions")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Sessions []historyItem `json:"sessions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Sessions, 3)
	assert.Equal(t, []int{7, 6, 5}, []int{resp.Sessions[0].ID, resp.Sessions[1].ID, resp.Sessions[2].ID})
}

func TestInterviewSession(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	rec := get(t, srv, "/api/interview_sessions/7")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sessionView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []radarPoint{{Key: "a", Value: 1}, {Key: "b", Value: 2}}, resp.Radar)
	assert.Empty(t, resp.Answers)
}

func TestInterviewSessionBackendFailure(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	assert.Equal(t, http.StatusBadGateway, get(t, srv, "/api/interview_sessions/500").Code)
}

func dashboardAbilities(t *testing.T, srv *Server, openid string) []abilityPoint {
	t.Helper()
	rec := get(t, srv, "/api/users/"+openid+"/dashboard")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Abilities []abilityPoint `json:"abilities"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Abilities
}

func TestDashboardMergesAssessments(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	assert.Equal(t, []abilityPoint{
		{Key: "技术", LatestValue: 85, PreviousValue: 70},
		{Key: "沟通", LatestValue: 65, PreviousValue: 60},
		{Key: "逻辑", LatestValue: 75, PreviousValue: 0},
	}, dashboardAbilities(t, srv, "u1"))
}

func TestDashboardWithoutPreviousAssessment(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	assert.Equal(t, []abilityPoint{{Key: "技术", LatestValue: 50, PreviousValue: 0}}, dashboardAbilities(t, srv, "newcomer"))
}

func TestDashboardWithoutAssessments(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	abilities := dashboardAbilities(t, srv, "blank")
	assert.NotNil(t, abilities)
	assert.Empty(t, abilities)
}

func TestDashboardUnknownUser(t *testing.T) {
	srv := newTestServer(t, fakeBackend(t).URL)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/api/users/nobody/dashboard").Code)
}
