package constants

// JobStatus is the canonical lifecycle status of a research job.
type JobStatus string

// Stable values (exposed verbatim in API responses).
const (
	JobStatusWaiting    JobStatus = "waiting"    // created, not yet dispatched
	JobStatusProcessing JobStatus = "processing" // pipeline running
	JobStatusCompleted  JobStatus = "completed"  // terminal: report available
	JobStatusFailed     JobStatus = "failed"     // terminal failure
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Valid reports whether s is one of the known statuses.
func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusWaiting, JobStatusProcessing, JobStatusCompleted, JobStatusFailed:
		return true
	}
	return false
}

// UnknownJobError is recorded when a job fails without a usable message.
const UnknownJobError = "Unknown error occurred"
