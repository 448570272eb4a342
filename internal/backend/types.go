package backend

// User mirrors the backend user record. ProfileContent is Markdown.
type User struct {
	ID             int    `json:"id"`
	OpenID         string `json:"openid"`
	Name           string `json:"name"`
	AvatarURL      string `json:"avatar_url"`
	ProfileContent string `json:"profile_content"`
}

// Opportunity is one tracked job application.
type Opportunity struct {
	ID             int    `json:"id"`
	UserID         int    `json:"user_id"`
	PositionName   string `json:"position_name"`
	CompanyName    string `json:"company_name"`
	JobDescription string `json:"job_description"`
	Source         string `json:"source"`
	Status         string `json:"status"`
	LatestProgress string `json:"latest_progress"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`

	// Generated content, Markdown and a JSON-encoded question list.
	GeneratedResumeMD string `json:"generated_resume_md,omitempty"`
	GeneratedQAJSON   string `json:"generated_qa_json,omitempty"`
}

// InterviewSession is one interview practice run and its evaluation.
type InterviewSession struct {
	ID             int                `json:"id"`
	OpportunityID  int                `json:"opportunity_id"`
	SessionDate    string             `json:"session_date"`
	ReportSummary  string             `json:"report_summary"`
	RadarChartData map[string]float64 `json:"radar_chart_data"`
	Answers        []SessionAnswer    `json:"session_answers"`
	Message        string             `json:"message,omitempty"`
}

// SessionAnswer is the user's answer to one practice question.
type SessionAnswer struct {
	ID                   int    `json:"id"`
	QuestionText         string `json:"question_text"`
	UserAnswerTranscript string `json:"user_answer_transcript"`
	UserAudioURL         string `json:"user_audio_url,omitempty"`
	AIFeedback           string `json:"ai_feedback"`
}

// QAItem is one generated interview question with a suggested answer.
type QAItem struct {
	Question        string `json:"question"`
	SuggestedAnswer string `json:"suggested_answer"`
}

// Assessment is one ability evaluation, scored per dimension.
type Assessment struct {
	ID             int                `json:"id"`
	AssessmentDate string             `json:"assessment_date,omitempty"`
	RadarChartData map[string]float64 `json:"radar_chart_data"`
}

// LatestAssessments pairs a user's newest assessment with the one before it.
// Either may be nil.
type LatestAssessments struct {
	Latest   *Assessment `json:"latest_assessment"`
	Previous *Assessment `json:"previous_assessment"`
}
