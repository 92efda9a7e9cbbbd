package models

// TaskStatus is the progress of a task. Values are ordered; see Rank.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Rank returns the position of s in pending < in_progress < completed, or -1 if unknown.
func (s TaskStatus) Rank() int {
	switch s {
	case TaskStatusPending:
		return 0
	case TaskStatusInProgress:
		return 1
	case TaskStatusCompleted:
		return 2
	}
	return -1
}

// Active reports whether the task counts against a rescuer's capacity.
func (s TaskStatus) Active() bool {
	return s == TaskStatusPending || s == TaskStatusInProgress
}

// Task binds a rescuer to exactly one request or one offer.
// Exactly one of RequestID and OfferID is non-nil.
type Task struct {
	ID          int64      `db:"id" json:"id"`
	RescuerID   int64      `db:"rescuer_id" json:"rescuer_id"`
	RequestID   *int64     `db:"request_id" json:"request_id,omitempty"`
	OfferID     *int64     `db:"offer_id" json:"offer_id,omitempty"`
	Status      TaskStatus `db:"status" json:"status"`
	Description string     `db:"description" json:"description,omitempty"`
	CreatedAt   string     `db:"created_at" json:"created_at"`
	UpdatedAt   string     `db:"updated_at" json:"updated_at"`
}
