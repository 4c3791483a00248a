package policy

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("approval type not found")
	ErrInactive         = errors.New("approval type is inactive")
	ErrDuplicateCode    = errors.New("approval type code already exists for tenant")
	ErrStructuralChange = errors.New("structural fields are frozen while requests reference the approval type")
)

type Mode string

const (
	ModeSequential Mode = "sequential"
	ModeParallel   Mode = "parallel"
	ModeQuorum     Mode = "quorum"
)

type CommentsRule string

const (
	CommentsNever    CommentsRule = "never"
	CommentsOnReject CommentsRule = "on_reject"
	CommentsAlways   CommentsRule = "always"
)

// Canonical decision labels. Policies may add more via ResponseOptions, but
// aggregation only gives these two any weight.
const (
	ResponseApproved = "approved"
	ResponseRejected = "rejected"
)

func DefaultResponseOptions() []string { return []string{ResponseApproved, ResponseRejected} }

// ApproverSpec is a tagged variant: exactly one of UserID or Role is set.
// A role is resolved to a single user through identity.Resolver at request
// creation time.
type ApproverSpec struct {
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
}

func (s ApproverSpec) ByUser() bool { return s.UserID != "" }
func (s ApproverSpec) ByRole() bool { return s.UserID == "" && s.Role != "" }

func (s ApproverSpec) Valid() bool {
	return (s.UserID == "") != (s.Role == "")
}

type ApproverConfig struct {
	Approvers []ApproverSpec `json:"approvers"`
}

// Table: approval_types
type ApprovalType struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	PolicyID string `gorm:"column:policy_id;type:char(32);not null;uniqueIndex:ux_approval_types_policy_id"`
	TenantID string `gorm:"column:tenant_id;type:char(32);not null;uniqueIndex:ux_approval_types_tenant_code,priority:1"`
	// Unique per tenant
	Code string `gorm:"column:code;size:64;not null;uniqueIndex:ux_approval_types_tenant_code,priority:2"`
	Name string `gorm:"column:name;size:255;not null"`
	// Business table the requests of this type target
	TargetTable      string         `gorm:"column:target_table;size:64;not null"`
	ApprovalMode     Mode           `gorm:"column:approval_mode;type:enum('sequential','parallel','quorum');default:'parallel'"`
	QuorumPercentage int            `gorm:"column:quorum_percentage;default:100"`
	ApproverConfig   ApproverConfig `gorm:"column:approver_config;type:json;serializer:json"`
	ResponseOptions  []string       `gorm:"column:response_options;type:json;serializer:json"`
	RequireComments  CommentsRule   `gorm:"column:require_comments;type:enum('never','on_reject','always');default:'never'"`
	AllowDelegate    bool           `gorm:"column:allow_delegate;default:true"`
	AllowRecall      bool           `gorm:"column:allow_recall;default:false"`
	SLAHours         int            `gorm:"column:sla_hours;default:0"`
	SLAWarningHours  int            `gorm:"column:sla_warning_hours;default:0"`
	IsActive         bool           `gorm:"column:is_active;default:true"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (ApprovalType) TableName() string { return "approval_types" }

// Options returns the allowed decision labels, falling back to the default
// pair when the policy never set any.
func (t *ApprovalType) Options() []string {
	if len(t.ResponseOptions) == 0 {
		return DefaultResponseOptions()
	}
	return t.ResponseOptions
}

func (t *ApprovalType) AllowsResponse(label string) bool {
	for _, o := range t.Options() {
		if o == label {
			return true
		}
	}
	return false
}

// CommentsRequiredFor reports whether the policy demands a comment for the
// given decision label.
func (t *ApprovalType) CommentsRequiredFor(label string) bool {
	switch t.RequireComments {
	case CommentsAlways:
		return true
	case CommentsOnReject:
		return label == ResponseRejected
	default:
		return false
	}
}
