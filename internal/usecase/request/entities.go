package request

import (
	"time"

	domainRequest "approval-engine/internal/domain/request"
)

type CreateInput struct {
	TenantID string
	// Public policy_id of the approval type
	PolicyID       string
	TargetTable    string // defaults to the policy's target table when empty
	TargetRecordID string
	Title          string
	RequestedBy    string
	// Optional point-in-time JSON copies of the record under review
	TargetRecordSnapshot string
	ChangesSummary       string
}

type RespondInput struct {
	RequestID  string
	ApproverID string
	Response   string
	Comments   string
}

type DelegateInput struct {
	RequestID  string
	ApproverID string
	DelegateTo string
	Reason     string
}

type CancelInput struct {
	RequestID string
	ActorID   string
	Reason    string
	// Authorization is enforced upstream; the transport layer tells us
	// whether the actor holds the administrator role.
	AsAdmin bool
}

type RequestDTO struct {
	RequestID        string     `json:"request_id"`
	TenantID         string     `json:"tenant_id"`
	PolicyID         string     `json:"policy_id,omitempty"`
	TargetTable      string     `json:"target_table"`
	TargetRecordID   string     `json:"target_record_id"`
	Title            string     `json:"title"`
	Status           string     `json:"status"`
	FinalResponse    string     `json:"final_response,omitempty"`
	FinalResponseAt  *time.Time `json:"final_response_at,omitempty"`
	FinalResponderID string     `json:"final_responder_id,omitempty"`
	RequestedBy      string     `json:"requested_by"`
	CreatedAt        time.Time  `json:"created_at"`
}

type AssignmentDTO struct {
	AssignmentID     string     `json:"assignment_id"`
	ApproverID       string     `json:"approver_id"`
	ApproverRole     string     `json:"approver_role,omitempty"`
	SequenceOrder    int        `json:"sequence_order"`
	Status           string     `json:"status"`
	Response         string     `json:"response,omitempty"`
	ResponseComments string     `json:"response_comments,omitempty"`
	RespondedAt      *time.Time `json:"responded_at,omitempty"`
	DelegatedTo      string     `json:"delegated_to,omitempty"`
	DelegatedAt      *time.Time `json:"delegated_at,omitempty"`
	DelegationReason string     `json:"delegation_reason,omitempty"`
}

type HistoryDTO struct {
	EntryID    string         `json:"entry_id"`
	Action     string         `json:"action"`
	ActionBy   string         `json:"action_by"`
	ActionAt   time.Time      `json:"action_at"`
	ActionData map[string]any `json:"action_data,omitempty"`
}

type RequestDetailDTO struct {
	Request     RequestDTO      `json:"request"`
	Assignments []AssignmentDTO `json:"assignments"`
	History     []HistoryDTO    `json:"history"`
}

// PendingItemDTO pairs an approver's open assignment with its request, for
// inbox-style listings.
type PendingItemDTO struct {
	Assignment AssignmentDTO `json:"assignment"`
	Request    RequestDTO    `json:"request"`
}

// OverdueItemDTO is one open request past its policy's SLA warning or due
// threshold. The external escalation scheduler polls these; the engine never
// times anything out itself.
type OverdueItemDTO struct {
	Request RequestDTO `json:"request"`
	DueAt   time.Time  `json:"due_at"`
	// false while only the warning threshold has passed
	Overdue bool `json:"overdue"`
}

func toRequestDTO(r *domainRequest.ApprovalRequest) RequestDTO {
	return RequestDTO{
		RequestID:        r.RequestID,
		TenantID:         r.TenantID,
		TargetTable:      r.TargetTable,
		TargetRecordID:   r.TargetRecordID,
		Title:            r.Title,
		Status:           string(r.Status),
		FinalResponse:    r.FinalResponse,
		FinalResponseAt:  r.FinalResponseAt,
		FinalResponderID: r.FinalResponderID,
		RequestedBy:      r.RequestedBy,
		CreatedAt:        r.CreatedAt,
	}
}

func toAssignmentDTO(a *domainRequest.Assignment) AssignmentDTO {
	return AssignmentDTO{
		AssignmentID:     a.AssignmentID,
		ApproverID:       a.ApproverID,
		ApproverRole:     a.ApproverRole,
		SequenceOrder:    a.SequenceOrder,
		Status:           string(a.Status),
		Response:         a.Response,
		ResponseComments: a.ResponseComments,
		RespondedAt:      a.RespondedAt,
		DelegatedTo:      a.DelegatedTo,
		DelegatedAt:      a.DelegatedAt,
		DelegationReason: a.DelegationReason,
	}
}

func toHistoryDTO(e *domainRequest.HistoryEntry) HistoryDTO {
	return HistoryDTO{
		EntryID:    e.EntryID,
		Action:     string(e.Action),
		ActionBy:   e.ActionBy,
		ActionAt:   e.ActionAt,
		ActionData: e.ActionData,
	}
}
