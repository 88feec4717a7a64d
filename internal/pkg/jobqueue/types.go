package jobqueue

import (
	"time"
)

// JobType defines the type of job
type JobType string

const (
	JobTypePackageExpirySweep JobType = "package_expiry_sweep"
	JobTypeSMSDispatch        JobType = "sms_dispatch"
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

// SMSDispatchPayload contains the payload for SMS dispatch jobs
type SMSDispatchPayload struct {
	NotificationID uint   `json:"notification_id"`
	Phone          string `json:"phone"`
	Message        string `json:"message"`
}

// ToMap converts the payload to a map for storage
func (p SMSDispatchPayload) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"notification_id": p.NotificationID,
		"phone":           p.Phone,
		"message":         p.Message,
	}
}

// SMSDispatchPayloadFromMap reads an SMS dispatch payload back out of a job
func SMSDispatchPayloadFromMap(m map[string]interface{}) SMSDispatchPayload {
	p := SMSDispatchPayload{}
	if v, ok := m["notification_id"].(float64); ok {
		p.NotificationID = uint(v)
	}
	if v, ok := m["phone"].(string); ok {
		p.Phone = v
	}
	if v, ok := m["message"].(string); ok {
		p.Message = v
	}
	return p
}

// IsRetryable checks if the job can be retried
func (j *Job) IsRetryable() bool {
	return j.RetryCount < j.MaxRetries
}

// MarkAsProcessing updates the job status to processing
func (j *Job) MarkAsProcessing() {
	now := time.Now()
	j.Status = JobStatusProcessing
	j.ProcessedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted updates the job status to completed
func (j *Job) MarkAsCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.CompletedAt = &now
	j.UpdatedAt = now
	j.ErrorMsg = ""
}

// MarkAsFailed updates the job status to failed
func (j *Job) MarkAsFailed(errorMsg string) {
	j.Status = JobStatusFailed
	j.ErrorMsg = errorMsg
	j.UpdatedAt = time.Now()
}

// MarkAsRetrying updates the job status to retrying
func (j *Job) MarkAsRetrying() {
	j.Status = JobStatusRetrying
	j.RetryCount++
	j.UpdatedAt = time.Now()
}
