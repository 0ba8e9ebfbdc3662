package dto

import "time"

type RunResponse struct {
	ID              int64     `json:"id"`
	Instance        string    `json:"instance"`
	Solution        string    `json:"solution"`
	Ordinal         int       `json:"ordinal"`
	Verdict         string    `json:"verdict"`
	Message         string    `json:"message"`
	ReportedSeconds float64   `json:"reported_seconds"`
	AllowedSeconds  float64   `json:"allowed_seconds"`
	CreatedAt       time.Time `json:"created_at"`
}

type ListRunsResponse struct {
	Runs []RunResponse `json:"runs"`
}
