package model

import "math"

// JobRecord is a backend-owned snapshot of one clipping job.
type JobRecord struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	ViralScore  *float64 `json:"viral_score,omitempty"`
	DownloadURL string   `json:"download_url,omitempty"`
	SubtitleURL string   `json:"subtitle_url,omitempty"`
}

// JobList is the GET /api/jobs envelope. A missing items key decodes to nil.
type JobList struct {
	Items []JobRecord `json:"items"`
}

func (j JobRecord) HasScore() bool {
	return j.ViralScore != nil && !math.IsNaN(*j.ViralScore)
}

// RoundedScore returns the viral score rounded to the nearest integer.
func (j JobRecord) RoundedScore() (int, bool) {
	if !j.HasScore() {
		return 0, false
	}
	return int(math.Round(*j.ViralScore)), true
}
