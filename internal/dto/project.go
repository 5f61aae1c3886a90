package dto

import "time"

// ProjectResponse is one project visible to the signed-in user.
type ProjectResponse struct {
	ID         string    `json:"id"`
	Acronym    string    `json:"acronym"`
	Title      string    `json:"title"`
	Workstream int       `json:"workstream"`
	CreatedAt  time.Time `json:"created_at"`
}

// ProjectListResponse wraps the project listing.
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
}

// WorkstreamCountsResponse reports how many tracking entries each
// workstream holds.
type WorkstreamCountsResponse struct {
	Counts map[string]int64 `json:"counts"`
}
