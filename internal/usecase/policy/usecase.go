package policy

import (
	"context"
	"errors"
	"fmt"

	domainPolicy "approval-engine/internal/domain/policy"
	domainRequest "approval-engine/internal/domain/request"
	"approval-engine/pkg/id"

	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("invalid approval type configuration")

// Usecase is the policy CRUD collaborator. Structural fields (mode, approver
// config, response options) freeze once any request references the policy;
// behavioural toggles and SLA hours stay editable. Deactivation never touches
// in-flight requests.
type Usecase struct {
	repo     domainPolicy.Repository
	requests domainRequest.Repository
}

func NewUsecase(repo domainPolicy.Repository, requests domainRequest.Repository) *Usecase {
	return &Usecase{repo: repo, requests: requests}
}

// CreateInput carries a new policy; QuorumPercentage nil means the 100
// default, an explicit value (zero included) is kept as sent.
type CreateInput struct {
	TenantID         string
	Code             string
	Name             string
	TargetTable      string
	ApprovalMode     string
	QuorumPercentage *int
	Approvers        []domainPolicy.ApproverSpec
	ResponseOptions  []string
	RequireComments  string
	AllowDelegate    bool
	AllowRecall      bool
	SLAHours         int
	SLAWarningHours  int
}

// UpdateInput patches a policy; nil means leave unchanged. Approvers,
// ResponseOptions and ApprovalMode are structural.
type UpdateInput struct {
	Name             *string
	ApprovalMode     *string
	QuorumPercentage *int
	Approvers        []domainPolicy.ApproverSpec
	ResponseOptions  []string
	RequireComments  *string
	AllowDelegate    *bool
	AllowRecall      *bool
	SLAHours         *int
	SLAWarningHours  *int
	IsActive         *bool
}

func validMode(m string) bool {
	switch domainPolicy.Mode(m) {
	case domainPolicy.ModeSequential, domainPolicy.ModeParallel, domainPolicy.ModeQuorum:
		return true
	}
	return false
}

func validCommentsRule(r string) bool {
	switch domainPolicy.CommentsRule(r) {
	case domainPolicy.CommentsNever, domainPolicy.CommentsOnReject, domainPolicy.CommentsAlways:
		return true
	}
	return false
}

func validateApprovers(specs []domainPolicy.ApproverSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: empty approver list", ErrInvalidConfig)
	}
	for i, s := range specs {
		if !s.Valid() {
			return fmt.Errorf("%w: approver %d must set exactly one of user_id or role", ErrInvalidConfig, i)
		}
	}
	return nil
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domainPolicy.ApprovalType, error) {
	if in.Code == "" || in.TenantID == "" || in.TargetTable == "" {
		return nil, fmt.Errorf("%w: code, tenant_id and target_table are required", ErrInvalidConfig)
	}
	mode := in.ApprovalMode
	if mode == "" {
		mode = string(domainPolicy.ModeParallel)
	}
	if !validMode(mode) {
		return nil, fmt.Errorf("%w: unknown approval mode %q", ErrInvalidConfig, in.ApprovalMode)
	}
	quorum := 100
	if in.QuorumPercentage != nil {
		if *in.QuorumPercentage < 0 || *in.QuorumPercentage > 100 {
			return nil, fmt.Errorf("%w: quorum percentage out of range", ErrInvalidConfig)
		}
		quorum = *in.QuorumPercentage
	}
	comments := in.RequireComments
	if comments == "" {
		comments = string(domainPolicy.CommentsNever)
	}
	if !validCommentsRule(comments) {
		return nil, fmt.Errorf("%w: unknown comments rule %q", ErrInvalidConfig, in.RequireComments)
	}
	if err := validateApprovers(in.Approvers); err != nil {
		return nil, err
	}

	// App-level duplicate check; the tenant+code unique index backstops races.
	if _, err := u.repo.GetByCode(ctx, in.TenantID, in.Code); err == nil {
		return nil, domainPolicy.ErrDuplicateCode
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	options := in.ResponseOptions
	if len(options) == 0 {
		options = domainPolicy.DefaultResponseOptions()
	}
	t := &domainPolicy.ApprovalType{
		PolicyID:         id.NewID32(),
		TenantID:         in.TenantID,
		Code:             in.Code,
		Name:             in.Name,
		TargetTable:      in.TargetTable,
		ApprovalMode:     domainPolicy.Mode(mode),
		QuorumPercentage: quorum,
		ApproverConfig:   domainPolicy.ApproverConfig{Approvers: in.Approvers},
		ResponseOptions:  options,
		RequireComments:  domainPolicy.CommentsRule(comments),
		AllowDelegate:    in.AllowDelegate,
		AllowRecall:      in.AllowRecall,
		SLAHours:         in.SLAHours,
		SLAWarningHours:  in.SLAWarningHours,
		IsActive:         true,
	}
	if err := u.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *Usecase) Update(ctx context.Context, policyID string, in UpdateInput) (*domainPolicy.ApprovalType, error) {
	t, err := u.repo.GetByPolicyID(ctx, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainPolicy.ErrNotFound
		}
		return nil, err
	}

	structural := in.ApprovalMode != nil || in.Approvers != nil || in.ResponseOptions != nil
	if structural {
		n, err := u.requests.CountByApprovalTypeID(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, domainPolicy.ErrStructuralChange
		}
	}

	if in.Name != nil {
		t.Name = *in.Name
	}
	if in.ApprovalMode != nil {
		if !validMode(*in.ApprovalMode) {
			return nil, fmt.Errorf("%w: unknown approval mode %q", ErrInvalidConfig, *in.ApprovalMode)
		}
		t.ApprovalMode = domainPolicy.Mode(*in.ApprovalMode)
	}
	if in.QuorumPercentage != nil {
		if *in.QuorumPercentage < 0 || *in.QuorumPercentage > 100 {
			return nil, fmt.Errorf("%w: quorum percentage out of range", ErrInvalidConfig)
		}
		t.QuorumPercentage = *in.QuorumPercentage
	}
	if in.Approvers != nil {
		if err := validateApprovers(in.Approvers); err != nil {
			return nil, err
		}
		t.ApproverConfig = domainPolicy.ApproverConfig{Approvers: in.Approvers}
	}
	if in.ResponseOptions != nil {
		t.ResponseOptions = in.ResponseOptions
	}
	if in.RequireComments != nil {
		if !validCommentsRule(*in.RequireComments) {
			return nil, fmt.Errorf("%w: unknown comments rule %q", ErrInvalidConfig, *in.RequireComments)
		}
		t.RequireComments = domainPolicy.CommentsRule(*in.RequireComments)
	}
	if in.AllowDelegate != nil {
		t.AllowDelegate = *in.AllowDelegate
	}
	if in.AllowRecall != nil {
		t.AllowRecall = *in.AllowRecall
	}
	if in.SLAHours != nil {
		t.SLAHours = *in.SLAHours
	}
	if in.SLAWarningHours != nil {
		t.SLAWarningHours = *in.SLAWarningHours
	}
	if in.IsActive != nil {
		t.IsActive = *in.IsActive
	}

	if err := u.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Deactivate stops new requests from being created under the policy;
// in-flight requests keep running to completion.
func (u *Usecase) Deactivate(ctx context.Context, policyID string) (*domainPolicy.ApprovalType, error) {
	t, err := u.repo.GetByPolicyID(ctx, policyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainPolicy.ErrNotFound
		}
		return nil, err
	}
	if t.IsActive {
		t.IsActive = false
		if err := u.repo.Save(ctx, t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (u *Usecase) GetByCode(ctx context.Context, tenantID, code string) (*domainPolicy.ApprovalType, error) {
	t, err := u.repo.GetByCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainPolicy.ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (u *Usecase) List(ctx context.Context, tenantID string) ([]domainPolicy.ApprovalType, error) {
	return u.repo.List(ctx, tenantID)
}
