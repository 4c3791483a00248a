package request

import (
	"context"
	"errors"
	"strings"
	"time"

	"approval-engine/internal/domain/identity"
	domainPolicy "approval-engine/internal/domain/policy"
	domainRequest "approval-engine/internal/domain/request"
	"approval-engine/internal/domain/uow"
	"approval-engine/pkg/id"

	"gorm.io/gorm"
)

var errNoUoW = errors.New("request usecase: unit of work not configured")

// Usecase is the single entry point for the request lifecycle: create,
// respond, delegate, cancel, recall, notify, plus the read queries. Every
// mutating operation runs inside one per-request transaction so the
// read-transition-recompute-write sequence commits or rolls back as a unit.
type Usecase struct {
	policyRepo     domainPolicy.Repository
	requestRepo    domainRequest.Repository
	assignmentRepo domainRequest.AssignmentRepository
	historyRepo    domainRequest.HistoryRepository
	uow            uow.UnitOfWork
	resolver       *Resolver
	now            func() time.Time
}

func NewUsecase(
	policies domainPolicy.Repository,
	requests domainRequest.Repository,
	assignments domainRequest.AssignmentRepository,
	history domainRequest.HistoryRepository,
	tx uow.UnitOfWork,
	ids identity.Resolver,
) *Usecase {
	return &Usecase{
		policyRepo:     policies,
		requestRepo:    requests,
		assignmentRepo: assignments,
		historyRepo:    history,
		uow:            tx,
		resolver:       NewResolver(ids),
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source (tests).
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

func notFoundAs(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

// inRequestTx wraps WithinRequestTx, translating a missing request row into
// the domain sentinel.
func (u *Usecase) inRequestTx(ctx context.Context, requestID string, fn func(r uow.Repos, req *domainRequest.ApprovalRequest) error) error {
	if u.uow == nil {
		return errNoUoW
	}
	return notFoundAs(u.uow.WithinRequestTx(ctx, requestID, fn), domainRequest.ErrNotFound)
}

// Create loads the active policy, resolves the approver config into the
// initial assignment set and persists request + assignments + history
// atomically. The request starts in pending.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*RequestDTO, error) {
	if u.uow == nil {
		return nil, errNoUoW
	}

	pol, err := u.policyRepo.GetByPolicyID(ctx, in.PolicyID)
	if err != nil {
		return nil, notFoundAs(err, domainPolicy.ErrNotFound)
	}
	// A policy is only visible within its own tenant.
	if in.TenantID != "" && pol.TenantID != in.TenantID {
		return nil, domainPolicy.ErrNotFound
	}

	specs, err := u.resolver.Resolve(ctx, pol)
	if err != nil {
		return nil, err
	}

	now := u.now()
	tenantID := in.TenantID
	if tenantID == "" {
		tenantID = pol.TenantID
	}
	targetTable := in.TargetTable
	if targetTable == "" {
		targetTable = pol.TargetTable
	}

	req := &domainRequest.ApprovalRequest{
		RequestID:            id.NewID32(),
		TenantID:             tenantID,
		ApprovalTypeID:       pol.ID,
		TargetTable:          targetTable,
		TargetRecordID:       in.TargetRecordID,
		Title:                in.Title,
		Status:               domainRequest.StatusPending,
		RequestedBy:          in.RequestedBy,
		TargetRecordSnapshot: in.TargetRecordSnapshot,
		ChangesSummary:       in.ChangesSummary,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Requests.Create(ctx, req); err != nil {
			return err
		}
		batch := make([]*domainRequest.Assignment, 0, len(specs))
		for _, s := range specs {
			batch = append(batch, &domainRequest.Assignment{
				AssignmentID:      id.NewID32(),
				TenantID:          tenantID,
				ApprovalRequestID: req.ID,
				ApproverID:        s.ApproverID,
				ApproverRole:      s.ApproverRole,
				SequenceOrder:     s.SequenceOrder,
				Status:            domainRequest.AssignmentPending,
			})
		}
		if err := r.Assignments.CreateBatch(ctx, batch); err != nil {
			return err
		}
		return r.History.Append(ctx, &domainRequest.HistoryEntry{
			EntryID:           id.NewID32(),
			TenantID:          tenantID,
			ApprovalRequestID: req.ID,
			Action:            domainRequest.ActionCreated,
			ActionBy:          in.RequestedBy,
			ActionAt:          now,
			ActionData: map[string]any{
				"policy_id":        pol.PolicyID,
				"target_record_id": in.TargetRecordID,
				"approver_count":   len(specs),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	dto := toRequestDTO(req)
	dto.PolicyID = pol.PolicyID
	return &dto, nil
}

// Respond records one approver's decision and recomputes the aggregate
// status under the per-request lock. Final-response fields are stamped only
// when the new status is terminal.
func (u *Usecase) Respond(ctx context.Context, in RespondInput) (*RequestDTO, error) {
	var dto *RequestDTO

	err := u.inRequestTx(ctx, in.RequestID, func(r uow.Repos, req *domainRequest.ApprovalRequest) error {
		if !req.Status.Open() {
			return domainRequest.ErrRequestClosed
		}

		pol, err := r.Policies.GetByID(ctx, req.ApprovalTypeID)
		if err != nil {
			return notFoundAs(err, domainPolicy.ErrNotFound)
		}
		if !pol.AllowsResponse(in.Response) {
			return domainRequest.ErrInvalidResponse
		}
		if pol.CommentsRequiredFor(in.Response) && strings.TrimSpace(in.Comments) == "" {
			return domainRequest.ErrCommentsRequired
		}

		asg, err := r.Assignments.GetActionableForApprover(ctx, req.ID, in.ApproverID)
		if err != nil {
			return notFoundAs(err, domainRequest.ErrNotAssigned)
		}

		now := u.now()
		asg.Status = domainRequest.AssignmentResponded
		asg.Response = in.Response
		asg.ResponseComments = in.Comments
		asg.RespondedAt = &now
		if err := r.Assignments.Save(ctx, asg); err != nil {
			return err
		}

		all, err := r.Assignments.ListByRequestID(ctx, req.ID)
		if err != nil {
			return err
		}
		next := Recompute(all)
		req.Status = next
		if next.Terminal() {
			req.FinalResponse = string(next)
			req.FinalResponseAt = &now
			req.FinalResponderID = in.ApproverID
		}
		if err := r.Requests.Save(ctx, req); err != nil {
			return err
		}

		if err := r.History.Append(ctx, &domainRequest.HistoryEntry{
			EntryID:           id.NewID32(),
			TenantID:          req.TenantID,
			ApprovalRequestID: req.ID,
			Action:            domainRequest.ActionResponded,
			ActionBy:          in.ApproverID,
			ActionAt:          now,
			ActionData: map[string]any{
				"assignment_id": asg.AssignmentID,
				"response":      in.Response,
				"comments":      in.Comments,
			},
		}); err != nil {
			return err
		}

		d := toRequestDTO(req)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Delegate hands the caller's slot to another user. The original assignment
// ends in delegated; a successor at the same sequence_order takes its place
// in the aggregate counts. Chains of delegations are fine.
func (u *Usecase) Delegate(ctx context.Context, in DelegateInput) (*RequestDTO, error) {
	var dto *RequestDTO

	err := u.inRequestTx(ctx, in.RequestID, func(r uow.Repos, req *domainRequest.ApprovalRequest) error {
		if !req.Status.Open() {
			return domainRequest.ErrRequestClosed
		}

		pol, err := r.Policies.GetByID(ctx, req.ApprovalTypeID)
		if err != nil {
			return notFoundAs(err, domainPolicy.ErrNotFound)
		}
		if !pol.AllowDelegate {
			return domainRequest.ErrDelegationDisabled
		}

		asg, err := r.Assignments.GetActionableForApprover(ctx, req.ID, in.ApproverID)
		if err != nil {
			return notFoundAs(err, domainRequest.ErrNotAssigned)
		}

		now := u.now()
		succ, err := delegate(asg, in.DelegateTo, in.Reason, now, id.NewID32())
		if err != nil {
			return err
		}
		if err := r.Assignments.Save(ctx, asg); err != nil {
			return err
		}
		if err := r.Assignments.Create(ctx, succ); err != nil {
			return err
		}

		// Delegation swaps one active slot for another, so the aggregate can
		// only move pending -> in_progress here; run it anyway for uniformity.
		all, err := r.Assignments.ListByRequestID(ctx, req.ID)
		if err != nil {
			return err
		}
		req.Status = Recompute(all)
		if err := r.Requests.Save(ctx, req); err != nil {
			return err
		}

		if err := r.History.Append(ctx, &domainRequest.HistoryEntry{
			EntryID:           id.NewID32(),
			TenantID:          req.TenantID,
			ApprovalRequestID: req.ID,
			Action:            domainRequest.ActionDelegated,
			ActionBy:          in.ApproverID,
			ActionAt:          now,
			ActionData: map[string]any{
				"assignment_id": asg.AssignmentID,
				"delegated_to":  in.DelegateTo,
				"reason":        in.Reason,
				"successor_id":  succ.AssignmentID,
			},
		}); err != nil {
			return err
		}

		d := toRequestDTO(req)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Cancel terminates an open request on behalf of the requester or an
// administrator. Whoever wins the per-request lock race against a concurrent
// respond decides the outcome.
func (u *Usecase) Cancel(ctx context.Context, in CancelInput) (*RequestDTO, error) {
	var dto *RequestDTO

	err := u.inRequestTx(ctx, in.RequestID, func(r uow.Repos, req *domainRequest.ApprovalRequest) error {
		if !req.Status.Open() {
			return domainRequest.ErrRequestClosed
		}
		if in.ActorID != req.RequestedBy && !in.AsAdmin {
			return domainRequest.ErrForbidden
		}

		now := u.now()
		req.Status = domainRequest.StatusCancelled
		req.FinalResponse = domainRequest.FinalCancelled
		req.FinalResponseAt = &now
		req.FinalResponderID = in.ActorID
		if err := r.Requests.Save(ctx, req); err != nil {
			return err
		}

		if err := r.History.Append(ctx, &domainRequest.HistoryEntry{
			EntryID:           id.NewID32(),
			TenantID:          req.TenantID,
			ApprovalRequestID: req.ID,
			Action:            domainRequest.ActionCancelled,
			ActionBy:          in.ActorID,
			ActionAt:          now,
			ActionData:        map[string]any{"reason": in.Reason},
		}); err != nil {
			return err
		}

		d := toRequestDTO(req)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Recall lets the requester withdraw an open request before anyone has
// responded, when the policy allows it. Ends cancelled with
// final_response=recalled and a rolled_back history entry; it never reopens
// anything.
func (u *Usecase) Recall(ctx context.Context, requestID, actorID string) (*RequestDTO, error) {
	var dto *RequestDTO

	err := u.inRequestTx(ctx, requestID, func(r uow.Repos, req *domainRequest.ApprovalRequest) error {
		if !req.Status.Open() {
			return domainRequest.ErrRequestClosed
		}

		pol, err := r.Policies.GetByID(ctx, req.ApprovalTypeID)
		if err != nil {
			return notFoundAs(err, domainPolicy.ErrNotFound)
		}
		if !pol.AllowRecall {
			return domainRequest.ErrRecallDisabled
		}
		if actorID != req.RequestedBy {
			return domainRequest.ErrForbidden
		}

		all, err := r.Assignments.ListByRequestID(ctx, req.ID)
		if err != nil {
			return err
		}
		for _, a := range all {
			if a.Status == domainRequest.AssignmentResponded {
				return domainRequest.ErrAlreadyResponded
			}
		}

		now := u.now()
		req.Status = domainRequest.StatusCancelled
		req.FinalResponse = domainRequest.FinalRecalled
		req.FinalResponseAt = &now
		req.FinalResponderID = actorID
		if err := r.Requests.Save(ctx, req); err != nil {
			return err
		}

		if err := r.History.Append(ctx, &domainRequest.HistoryEntry{
			EntryID:           id.NewID32(),
			TenantID:          req.TenantID,
			ApprovalRequestID: req.ID,
			Action:            domainRequest.ActionRolledBack,
			ActionBy:          actorID,
			ActionAt:          now,
			ActionData:        map[string]any{"request_id": req.RequestID},
		}); err != nil {
			return err
		}

		d := toRequestDTO(req)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// MarkNotified flips the approver's pending assignment to notified. Called by
// the external notifier after delivery; idempotent for an already notified
// slot and writes no history (delivery is not an audit action).
func (u *Usecase) MarkNotified(ctx context.Context, requestID, approverID string) (*AssignmentDTO, error) {
	var dto *AssignmentDTO

	err := u.inRequestTx(ctx, requestID, func(r uow.Repos, req *domainRequest.ApprovalRequest) error {
		if !req.Status.Open() {
			return domainRequest.ErrRequestClosed
		}
		asg, err := r.Assignments.GetActionableForApprover(ctx, req.ID, approverID)
		if err != nil {
			return notFoundAs(err, domainRequest.ErrNotAssigned)
		}
		if asg.Status != domainRequest.AssignmentNotified {
			asg.Status = domainRequest.AssignmentNotified
			if err := r.Assignments.Save(ctx, asg); err != nil {
				return err
			}
		}
		d := toAssignmentDTO(asg)
		dto = &d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// ListPendingFor returns the approver's open (assignment, request) pairs.
// Read-only, no lock.
func (u *Usecase) ListPendingFor(ctx context.Context, tenantID, approverID string) ([]PendingItemDTO, error) {
	asgs, err := u.assignmentRepo.ListActionableForApprover(ctx, tenantID, approverID)
	if err != nil {
		return nil, err
	}

	items := make([]PendingItemDTO, 0, len(asgs))
	for i := range asgs {
		req, err := u.requestRepo.GetByID(ctx, asgs[i].ApprovalRequestID)
		if err != nil {
			return nil, notFoundAs(err, domainRequest.ErrNotFound)
		}
		if !req.Status.Open() {
			continue
		}
		items = append(items, PendingItemDTO{
			Assignment: toAssignmentDTO(&asgs[i]),
			Request:    toRequestDTO(req),
		})
	}
	return items, nil
}

// ListOverdue returns open requests past their policy's SLA warning or due
// threshold as of the given instant. Policies without SLA hours never appear.
func (u *Usecase) ListOverdue(ctx context.Context, tenantID string, asOf time.Time) ([]OverdueItemDTO, error) {
	reqs, err := u.requestRepo.ListOpen(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	pols := map[uint64]*domainPolicy.ApprovalType{}
	var items []OverdueItemDTO
	for i := range reqs {
		req := &reqs[i]
		pol, ok := pols[req.ApprovalTypeID]
		if !ok {
			pol, err = u.policyRepo.GetByID(ctx, req.ApprovalTypeID)
			if err != nil {
				return nil, notFoundAs(err, domainPolicy.ErrNotFound)
			}
			pols[req.ApprovalTypeID] = pol
		}
		if pol.SLAHours <= 0 && pol.SLAWarningHours <= 0 {
			continue
		}

		dueAt := req.CreatedAt.Add(time.Duration(pol.SLAHours) * time.Hour)
		warnAt := req.CreatedAt.Add(time.Duration(pol.SLAWarningHours) * time.Hour)
		overdue := pol.SLAHours > 0 && !asOf.Before(dueAt)
		warned := pol.SLAWarningHours > 0 && !asOf.Before(warnAt)
		if !overdue && !warned {
			continue
		}
		if pol.SLAHours <= 0 {
			dueAt = warnAt
		}
		items = append(items, OverdueItemDTO{
			Request: toRequestDTO(req),
			DueAt:   dueAt,
			Overdue: overdue,
		})
	}
	return items, nil
}

// Get returns the request with its full assignment set and audit history.
func (u *Usecase) Get(ctx context.Context, requestID string) (*RequestDetailDTO, error) {
	req, err := u.requestRepo.GetByRequestID(ctx, requestID)
	if err != nil {
		return nil, notFoundAs(err, domainRequest.ErrNotFound)
	}

	detail := RequestDetailDTO{Request: toRequestDTO(req)}

	if pol, err := u.policyRepo.GetByID(ctx, req.ApprovalTypeID); err == nil {
		detail.Request.PolicyID = pol.PolicyID
	}

	asgs, err := u.assignmentRepo.ListByRequestID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	for i := range asgs {
		detail.Assignments = append(detail.Assignments, toAssignmentDTO(&asgs[i]))
	}

	hist, err := u.historyRepo.ListByRequestID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	for i := range hist {
		detail.History = append(detail.History, toHistoryDTO(&hist[i]))
	}
	return &detail, nil
}
