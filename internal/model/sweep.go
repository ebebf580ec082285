package model

// SweepResult summarises one sweep. It is produced once per run and never persisted.
type SweepResult struct {
	Success           bool   `json:"success"`
	Message           string `json:"message,omitempty"`
	DeletedPosts      int    `json:"deletedPosts"`
	DeletedMediaFiles int    `json:"deletedMediaFiles"`
	CleanupTime       string `json:"cleanupTime"`
	Error             string `json:"error,omitempty"`
}
