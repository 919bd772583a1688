package models

// ProcessRequest is the payload for POST /api/process.
type ProcessRequest struct {
	// URL is the YouTube video or LeetCode problem page to solve. Required.
	URL string `json:"url" binding:"required"`
}
