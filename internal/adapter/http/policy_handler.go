package http

import (
	"net/http"

	domainPolicy "approval-engine/internal/domain/policy"
	ucPolicy "approval-engine/internal/usecase/policy"

	"github.com/labstack/echo/v4"
)

type PolicyHandler struct{ uc *ucPolicy.Usecase }

func NewPolicyHandler(uc *ucPolicy.Usecase) *PolicyHandler { return &PolicyHandler{uc: uc} }

type approverSpecReq struct {
	UserID string `json:"user_id" validate:"omitempty,hex32"`
	Role   string `json:"role"    validate:"omitempty,max=64"`
}

type createPolicyReq struct {
	Code             string            `json:"code"              validate:"required,slug"`
	Name             string            `json:"name"              validate:"required,max=255"`
	TargetTable      string            `json:"target_table"      validate:"required,max=64"`
	ApprovalMode     string            `json:"approval_mode"     validate:"omitempty,oneof=sequential parallel quorum"`
	QuorumPercentage *int              `json:"quorum_percentage" validate:"omitempty,gte=0,lte=100"`
	Approvers        []approverSpecReq `json:"approvers"         validate:"required,min=1,dive"`
	ResponseOptions  []string          `json:"response_options"  validate:"omitempty,min=1"`
	RequireComments  string            `json:"require_comments"  validate:"omitempty,oneof=never on_reject always"`
	AllowDelegate    bool              `json:"allow_delegate"`
	AllowRecall      bool              `json:"allow_recall"`
	SLAHours         int               `json:"sla_hours"         validate:"gte=0"`
	SLAWarningHours  int               `json:"sla_warning_hours" validate:"gte=0"`
}

type policyResp struct {
	PolicyID         string                      `json:"policy_id"`
	TenantID         string                      `json:"tenant_id"`
	Code             string                      `json:"code"`
	Name             string                      `json:"name"`
	TargetTable      string                      `json:"target_table"`
	ApprovalMode     string                      `json:"approval_mode"`
	QuorumPercentage int                         `json:"quorum_percentage"`
	Approvers        []domainPolicy.ApproverSpec `json:"approvers"`
	ResponseOptions  []string                    `json:"response_options"`
	RequireComments  string                      `json:"require_comments"`
	AllowDelegate    bool                        `json:"allow_delegate"`
	AllowRecall      bool                        `json:"allow_recall"`
	SLAHours         int                         `json:"sla_hours"`
	SLAWarningHours  int                         `json:"sla_warning_hours"`
	IsActive         bool                        `json:"is_active"`
}

func toPolicyResp(t *domainPolicy.ApprovalType) policyResp {
	return policyResp{
		PolicyID:         t.PolicyID,
		TenantID:         t.TenantID,
		Code:             t.Code,
		Name:             t.Name,
		TargetTable:      t.TargetTable,
		ApprovalMode:     string(t.ApprovalMode),
		QuorumPercentage: t.QuorumPercentage,
		Approvers:        t.ApproverConfig.Approvers,
		ResponseOptions:  t.Options(),
		RequireComments:  string(t.RequireComments),
		AllowDelegate:    t.AllowDelegate,
		AllowRecall:      t.AllowRecall,
		SLAHours:         t.SLAHours,
		SLAWarningHours:  t.SLAWarningHours,
		IsActive:         t.IsActive,
	}
}

func toApproverSpecs(in []approverSpecReq) []domainPolicy.ApproverSpec {
	out := make([]domainPolicy.ApproverSpec, 0, len(in))
	for _, a := range in {
		out = append(out, domainPolicy.ApproverSpec{UserID: a.UserID, Role: a.Role})
	}
	return out
}

func (h *PolicyHandler) CreatePolicy(c echo.Context) error {
	tenant := tenantID(c)
	if tenant == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing tenant id"})
	}
	var req createPolicyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	t, err := h.uc.Create(c.Request().Context(), ucPolicy.CreateInput{
		TenantID:         tenant,
		Code:             req.Code,
		Name:             req.Name,
		TargetTable:      req.TargetTable,
		ApprovalMode:     req.ApprovalMode,
		QuorumPercentage: req.QuorumPercentage,
		Approvers:        toApproverSpecs(req.Approvers),
		ResponseOptions:  req.ResponseOptions,
		RequireComments:  req.RequireComments,
		AllowDelegate:    req.AllowDelegate,
		AllowRecall:      req.AllowRecall,
		SLAHours:         req.SLAHours,
		SLAWarningHours:  req.SLAWarningHours,
	})
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, toPolicyResp(t))
}

type updatePolicyReq struct {
	Name             *string           `json:"name"              validate:"omitempty,max=255"`
	ApprovalMode     *string           `json:"approval_mode"     validate:"omitempty,oneof=sequential parallel quorum"`
	QuorumPercentage *int              `json:"quorum_percentage" validate:"omitempty,gte=0,lte=100"`
	Approvers        []approverSpecReq `json:"approvers"         validate:"omitempty,min=1,dive"`
	ResponseOptions  []string          `json:"response_options"  validate:"omitempty,min=1"`
	RequireComments  *string           `json:"require_comments"  validate:"omitempty,oneof=never on_reject always"`
	AllowDelegate    *bool             `json:"allow_delegate"`
	AllowRecall      *bool             `json:"allow_recall"`
	SLAHours         *int              `json:"sla_hours"         validate:"omitempty,gte=0"`
	SLAWarningHours  *int              `json:"sla_warning_hours" validate:"omitempty,gte=0"`
	IsActive         *bool             `json:"is_active"`
}

func (h *PolicyHandler) UpdatePolicy(c echo.Context) error {
	policyID := c.Param("policy_id")
	if !reHex32.MatchString(policyID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid policy_id path param"})
	}
	var req updatePolicyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := ucPolicy.UpdateInput{
		Name:             req.Name,
		ApprovalMode:     req.ApprovalMode,
		QuorumPercentage: req.QuorumPercentage,
		ResponseOptions:  req.ResponseOptions,
		RequireComments:  req.RequireComments,
		AllowDelegate:    req.AllowDelegate,
		AllowRecall:      req.AllowRecall,
		SLAHours:         req.SLAHours,
		SLAWarningHours:  req.SLAWarningHours,
		IsActive:         req.IsActive,
	}
	if req.Approvers != nil {
		in.Approvers = toApproverSpecs(req.Approvers)
	}

	t, err := h.uc.Update(c.Request().Context(), policyID, in)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, toPolicyResp(t))
}

func (h *PolicyHandler) DeactivatePolicy(c echo.Context) error {
	policyID := c.Param("policy_id")
	if !reHex32.MatchString(policyID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid policy_id path param"})
	}
	t, err := h.uc.Deactivate(c.Request().Context(), policyID)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, toPolicyResp(t))
}

func (h *PolicyHandler) GetPolicy(c echo.Context) error {
	tenant := tenantID(c)
	if tenant == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing tenant id"})
	}
	t, err := h.uc.GetByCode(c.Request().Context(), tenant, c.Param("code"))
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, toPolicyResp(t))
}

func (h *PolicyHandler) ListPolicies(c echo.Context) error {
	tenant := tenantID(c)
	if tenant == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing tenant id"})
	}
	ts, err := h.uc.List(c.Request().Context(), tenant)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	out := make([]policyResp, 0, len(ts))
	for i := range ts {
		out = append(out, toPolicyResp(&ts[i]))
	}
	return c.JSON(http.StatusOK, out)
}
