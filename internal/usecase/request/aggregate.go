package request

import (
	domainPolicy "approval-engine/internal/domain/policy"
	domainRequest "approval-engine/internal/domain/request"
)

// Tally is the partition of a request's full assignment set. Delegated
// assignments count toward nothing; their successor rows do.
type Tally struct {
	Active   int // pending or notified
	Approved int // responded with "approved"
	Rejected int // responded with "rejected"
	Other    int // responded with a custom label
}

func Count(assignments []domainRequest.Assignment) Tally {
	var t Tally
	for _, a := range assignments {
		switch a.Status {
		case domainRequest.AssignmentPending, domainRequest.AssignmentNotified:
			t.Active++
		case domainRequest.AssignmentResponded:
			switch a.Response {
			case domainPolicy.ResponseApproved:
				t.Approved++
			case domainPolicy.ResponseRejected:
				t.Rejected++
			default:
				t.Other++
			}
		}
	}
	return t
}

// Recompute derives the request status from the full current assignment set.
// Rules, in order:
//
//  1. any rejection is terminal, regardless of remaining approvals
//  2. everything resolved and at least one approval -> approved
//  3. otherwise the request is still in progress
//
// approvalMode and quorumPercentage are declared on the policy but carry no
// weight here; the quorum fields are an extension point, not an input.
// A set where every response used a custom label (no approval, no rejection)
// stays in_progress rather than guessing an outcome.
func Recompute(assignments []domainRequest.Assignment) domainRequest.Status {
	t := Count(assignments)
	switch {
	case t.Rejected > 0:
		return domainRequest.StatusRejected
	case t.Active == 0 && t.Approved > 0:
		return domainRequest.StatusApproved
	default:
		return domainRequest.StatusInProgress
	}
}
