package Models

import (
	"encoding/json"

	"TapirTwins/AbstractFunctions"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task statuses
const (
	TaskStatusPending   = "pending"
	TaskStatusSubmitted = "submitted"
	TaskStatusApproved  = "approved"
	TaskStatusRejected  = "rejected"
)

// Task is a recurring obligation checked in once per calendar day.
// SpaceId empty means a personal task owned by SubmitterId.
type Task struct {
	Id                    string         `json:"id" gorm:"primaryKey"`
	SpaceId               string         `json:"space_id,omitempty" gorm:"index"`
	Title                 string         `json:"title"`
	Description           string         `json:"description"`
	DueDate               string         `json:"due_date"`
	CreatedAt             string         `json:"created_at"`
	UpdatedAt             string         `json:"updated_at"`
	RequiredImages        int            `json:"required_images"`
	Status                string         `json:"status"`
	SubmitterId           string         `json:"submitter_id" gorm:"index"`
	ApproverId            string         `json:"approver_id,omitempty"`
	AssignedSubmitterId   string         `json:"assigned_submitter_id,omitempty"`
	AssignedSubmitterName string         `json:"assigned_submitter_name,omitempty"`
	AssignedApproverIds   datatypes.JSON `json:"assigned_approver_ids,omitempty"`
	AssignedApproverNames datatypes.JSON `json:"assigned_approver_names,omitempty"`
	// Reserved for missed check-in tracking, never mutated by any handler
	MissedDates datatypes.JSON `json:"missed_dates,omitempty"`

	// Derived per request, not stored
	CompletedToday bool `json:"completed_today" gorm:"-"`
}

// TaskRecord is one calendar-day submission for a task, reviewed at most once.
type TaskRecord struct {
	Id                    string         `json:"id" gorm:"primaryKey"`
	TaskId                string         `json:"task_id" gorm:"index"`
	SpaceId               string         `json:"space_id,omitempty" gorm:"index"`
	Date                  string         `json:"date" gorm:"index"`
	CreatedAt             string         `json:"created_at"`
	Images                datatypes.JSON `json:"images"`
	SubmitterId           string         `json:"submitter_id" gorm:"index"`
	SubmitterName         string         `json:"submitter_name"`
	Status                string         `json:"status"`
	ApproverId            string         `json:"approver_id,omitempty"`
	ApproverName          string         `json:"approver_name,omitempty"`
	ApprovedAt            string         `json:"approved_at,omitempty"`
	ApprovalComment       string         `json:"approval_comment,omitempty"`
	RejectionReason       string         `json:"rejection_reason,omitempty"`
	AssignedApproverIds   datatypes.JSON `json:"assigned_approver_ids,omitempty"`
	AssignedApproverNames datatypes.JSON `json:"assigned_approver_names,omitempty"`
}

// HistoryRecord is an append-only audit entry, written on approval only
type HistoryRecord struct {
	Id          string `json:"id" gorm:"primaryKey"`
	TaskId      string `json:"task_id" gorm:"index"`
	SpaceId     string `json:"space_id" gorm:"index"`
	Date        string `json:"date"`
	CreatedAt   string `json:"created_at"`
	UserId      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Action      string `json:"action"`
	Description string `json:"description"`
}

// JSONStringList packs a string slice into a JSON column value
func JSONStringList(values []string) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	data, _ := json.Marshal(values)
	return datatypes.JSON(data)
}

// StringList unpacks a JSON column value back into a string slice
func StringList(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}
	return values
}

// TaskCompletedToday reports whether a record already exists for the task
// dated today (server-local). Evaluated fresh on every call.
func TaskCompletedToday(db *gorm.DB, taskId string) bool {
	var count int64
	db.Model(&TaskRecord{}).
		Where("task_id = ? AND date = ?", taskId, AbstractFunctions.GetTodayDate()).
		Count(&count)
	return count > 0
}
