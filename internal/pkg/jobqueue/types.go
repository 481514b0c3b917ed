package jobqueue

import (
	"encoding/json"
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypeConfirmTransaction JobType = "confirm_transaction"
)

// JobStatus defines the status of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusRetrying   JobStatus = "retrying"
)

// Confirmation kinds. They decide which demo counter ticks once the
// transaction finalizes.
const (
	ConfirmKindMandateCreate  = "mandate_create"
	ConfirmKindMandateExecute = "mandate_execute"
	ConfirmKindTransfer       = "transfer"
)

// Job represents a background job
type Job struct {
	ID          string                 `json:"id"`
	Type        JobType                `json:"type"`
	Status      JobStatus              `json:"status"`
	Payload     map[string]interface{} `json:"payload"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	ProcessedAt *time.Time             `json:"processed_at,omitempty"`
	CompletedAt *time.Time             `json:"completed_at,omitempty"`
	ErrorMsg    string                 `json:"error_msg,omitempty"`
	RetryCount  int                    `json:"retry_count"`
	MaxRetries  int                    `json:"max_retries"`
}

// ConfirmTransactionJobPayload contains the payload for confirmation jobs.
// The worker polls the cluster until the signature finalizes or the
// deadline passes and records the outcome in the status cache.
type ConfirmTransactionJobPayload struct {
	Signature string `json:"signature"`
	Kind      string `json:"kind"`
	Wallet    string `json:"wallet"`
	PlanID    string `json:"plan_id,omitempty"`
}

// ToMap converts the payload to a map for storage
func (p ConfirmTransactionJobPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"signature": p.Signature,
		"kind":      p.Kind,
		"wallet":    p.Wallet,
		"plan_id":   p.PlanID,
	}
}

// ConfirmTransactionJobPayloadFromMap creates a payload from a map
func ConfirmTransactionJobPayloadFromMap(data map[string]interface{}) (*ConfirmTransactionJobPayload, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	var payload ConfirmTransactionJobPayload
	err = json.Unmarshal(jsonData, &payload)
	return &payload, err
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.UpdatedAt = now
	j.ProcessedAt = &now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.UpdatedAt = now
	j.CompletedAt = &now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.UpdatedAt = time.Now()
	j.ErrorMsg = errorMsg
	j.RetryCount++
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.UpdatedAt = time.Now()
}
