package types

// Job holds the raw, not yet validated inputs for one mailed-attachment cron job.
type Job struct {
	Schedule string `json:"schedule" yaml:"schedule"`
	Email    string `json:"email" yaml:"email"`
	File     string `json:"file" yaml:"file"`
}

// Merge returns j with empty fields filled from fallback.
func (j Job) Merge(fallback Job) Job {
	if j.Schedule == "" {
		j.Schedule = fallback.Schedule
	}
	if j.Email == "" {
		j.Email = fallback.Email
	}
	if j.File == "" {
		j.File = fallback.File
	}
	return j
}
