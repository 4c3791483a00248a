package request

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("approval request not found")
	ErrRequestClosed      = errors.New("approval request already closed")
	ErrNotAssigned        = errors.New("no actionable assignment for approver")
	ErrAssignmentResolved = errors.New("assignment already resolved")
	ErrCommentsRequired   = errors.New("comments required by policy")
	ErrInvalidResponse    = errors.New("response label not allowed by policy")
	ErrForbidden          = errors.New("actor not allowed to perform this action")
	ErrDelegationDisabled = errors.New("policy does not allow delegation")
	ErrRecallDisabled     = errors.New("policy does not allow recall")
	ErrAlreadyResponded   = errors.New("request already has responses")
	ErrEmptyApprovers     = errors.New("policy has no approvers configured")
	ErrAmbiguousRole      = errors.New("role resolves to zero or multiple users")
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusCancelled  Status = "cancelled"
)

// Open reports whether the request still accepts mutations. Once Terminal,
// the status never changes again.
func (s Status) Open() bool     { return s == StatusPending || s == StatusInProgress }
func (s Status) Terminal() bool { return !s.Open() }

type AssignmentStatus string

const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentNotified  AssignmentStatus = "notified"
	AssignmentResponded AssignmentStatus = "responded"
	AssignmentDelegated AssignmentStatus = "delegated"
)

// Actionable reports whether the assignment can still receive a response or
// delegation. responded/delegated are terminal leaf states.
func (s AssignmentStatus) Actionable() bool {
	return s == AssignmentPending || s == AssignmentNotified
}

type Action string

const (
	ActionCreated    Action = "created"
	ActionResponded  Action = "responded"
	ActionDelegated  Action = "delegated"
	ActionCancelled  Action = "cancelled"
	ActionRolledBack Action = "rolled_back"
)

// Final-response labels stamped on non-aggregated terminations.
const (
	FinalCancelled = "cancelled"
	FinalRecalled  = "recalled"
)

// Table: approval_requests. Rows are never hard-deleted; terminal requests
// stay queryable for audit.
type ApprovalRequest struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	RequestID      string `gorm:"column:request_id;type:char(32);not null;uniqueIndex:ux_approval_requests_request_id"`
	TenantID       string `gorm:"column:tenant_id;type:char(32);not null;index:idx_approval_requests_tenant"`
	ApprovalTypeID uint64 `gorm:"column:approval_type_id;not null;index"`
	TargetTable    string `gorm:"column:target_table;size:64;not null"`
	TargetRecordID string `gorm:"column:target_record_id;size:64;not null"`
	Title          string `gorm:"column:title;size:255;not null"`
	Status         Status `gorm:"column:status;type:enum('pending','in_progress','approved','rejected','cancelled');default:'pending';index"`
	// Stamped only when Status turns terminal
	FinalResponse    string     `gorm:"column:final_response;size:64"`
	FinalResponseAt  *time.Time `gorm:"column:final_response_at"`
	FinalResponderID string     `gorm:"column:final_responder_id;type:char(32)"`
	RequestedBy      string     `gorm:"column:requested_by;type:char(32);not null"`
	// Optional point-in-time copies of the record under review
	TargetRecordSnapshot string    `gorm:"column:target_record_snapshot;type:json"`
	ChangesSummary       string    `gorm:"column:changes_summary;type:json"`
	CreatedAt            time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ApprovalRequest) TableName() string { return "approval_requests" }

// Table: approval_assignments. One row per approver slot; delegation spawns
// a successor row at the same sequence_order instead of editing this one back
// to pending.
type Assignment struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	AssignmentID      string           `gorm:"column:assignment_id;type:char(32);not null;uniqueIndex:ux_approval_assignments_assignment_id"`
	TenantID          string           `gorm:"column:tenant_id;type:char(32);not null;index"`
	ApprovalRequestID uint64           `gorm:"column:approval_request_id;not null;index:idx_approval_assignments_request"`
	ApproverID        string           `gorm:"column:approver_id;type:char(32);not null;index:idx_approval_assignments_approver"`
	ApproverRole      string           `gorm:"column:approver_role;size:64"`
	SequenceOrder     int              `gorm:"column:sequence_order;not null"`
	Status            AssignmentStatus `gorm:"column:status;type:enum('pending','notified','responded','delegated');default:'pending';index"`
	Response          string           `gorm:"column:response;size:64"`
	ResponseComments  string           `gorm:"column:response_comments;type:text"`
	RespondedAt       *time.Time       `gorm:"column:responded_at"`
	DelegatedTo       string           `gorm:"column:delegated_to;type:char(32)"`
	DelegatedAt       *time.Time       `gorm:"column:delegated_at"`
	DelegationReason  string           `gorm:"column:delegation_reason;type:text"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Assignment) TableName() string { return "approval_assignments" }

// Table: approval_history. Append-only; the repository exposes no update or
// delete. Never read by aggregation, only by audit/replay queries.
type HistoryEntry struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	EntryID           string         `gorm:"column:entry_id;type:char(32);not null;uniqueIndex:ux_approval_history_entry_id"`
	TenantID          string         `gorm:"column:tenant_id;type:char(32);not null;index"`
	ApprovalRequestID uint64         `gorm:"column:approval_request_id;not null;index:idx_approval_history_request"`
	Action            Action         `gorm:"column:action;type:enum('created','responded','delegated','cancelled','rolled_back');not null"`
	ActionBy          string         `gorm:"column:action_by;type:char(32);not null"`
	ActionAt          time.Time      `gorm:"column:action_at;not null"`
	ActionData        map[string]any `gorm:"column:action_data;type:json;serializer:json"`
}

func (HistoryEntry) TableName() string { return "approval_history" }
