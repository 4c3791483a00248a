package request

import (
	"time"

	domainRequest "approval-engine/internal/domain/request"
)

// delegate rewrites asg into its terminal delegated state and returns the
// successor assignment at the same sequence_order. The successor participates
// in aggregation exactly like an original slot, so delegation chains nest
// without limit. asg must still be actionable.
func delegate(asg *domainRequest.Assignment, delegateTo, reason string, at time.Time, newID string) (*domainRequest.Assignment, error) {
	if !asg.Status.Actionable() {
		return nil, domainRequest.ErrAssignmentResolved
	}

	asg.Status = domainRequest.AssignmentDelegated
	asg.DelegatedTo = delegateTo
	asg.DelegatedAt = &at
	asg.DelegationReason = reason

	return &domainRequest.Assignment{
		AssignmentID:      newID,
		TenantID:          asg.TenantID,
		ApprovalRequestID: asg.ApprovalRequestID,
		ApproverID:        delegateTo,
		ApproverRole:      asg.ApproverRole,
		SequenceOrder:     asg.SequenceOrder,
		Status:            domainRequest.AssignmentPending,
	}, nil
}
