package models

// AnalysisRequest is the body of POST /analyze.
type AnalysisRequest struct {
	ResumeID       string `json:"resumeId"`
	JobDescription string `json:"jobDescription"`
}

// AnalysisResult is replaced wholesale on every successful analysis.
type AnalysisResult struct {
	MatchScore  float64  `json:"matchScore"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// AnalyzeResponse carries the result and, when the server includes it, the
// authoritative number of analyses used so far.
type AnalyzeResponse struct {
	Data          AnalysisResult `json:"data"`
	AnalysisCount *int           `json:"analysisCount,omitempty"`
}
