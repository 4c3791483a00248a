package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"strings"
	"testing"

	domainPolicy "approval-engine/internal/domain/policy"
	"approval-engine/internal/testutil/policymock"
	"approval-engine/internal/testutil/requestmock"
	ucPolicy "approval-engine/internal/usecase/policy"

	"gorm.io/gorm"
)

func policyHandlerWith(repo *policymock.Repo, requests *requestmock.Repo) *PolicyHandler {
	if repo == nil {
		repo = &policymock.Repo{}
	}
	if requests == nil {
		requests = &requestmock.Repo{}
	}
	return NewPolicyHandler(ucPolicy.NewUsecase(repo, requests))
}

func TestCreatePolicy_Success(t *testing.T) {
	e := newEchoWithValidator()
	var created *domainPolicy.ApprovalType
	repo := &policymock.Repo{
		CreateFn: func(_ context.Context, pt *domainPolicy.ApprovalType) error {
			created = pt
			return nil
		},
	}
	h := policyHandlerWith(repo, nil)

	rec, c := doJSON(e, stdhttp.MethodPost, "/policies", mustJSON(map[string]any{
		"code":         "expense-approval",
		"name":         "Expense approval",
		"target_table": "expenses",
		"approvers": []map[string]any{
			{"user_id": hApprover},
			{"role": "finance-lead"},
		},
		"require_comments": "on_reject",
		"allow_delegate":   true,
	}), map[string]string{HeaderTenantID: hTenant}, nil, nil)

	if err := h.CreatePolicy(c); err != nil {
		t.Fatalf("CreatePolicy error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if created == nil || created.TenantID != hTenant {
		t.Fatalf("policy not persisted with tenant scope: %+v", created)
	}
	var resp policyResp
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if resp.Code != "expense-approval" || resp.ApprovalMode != "parallel" || !resp.IsActive {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if len(resp.ResponseOptions) != 2 {
		t.Fatalf("default options not applied: %+v", resp.ResponseOptions)
	}
}

func TestCreatePolicy_MissingTenant(t *testing.T) {
	e := newEchoWithValidator()
	h := policyHandlerWith(nil, nil)

	rec, c := doJSON(e, stdhttp.MethodPost, "/policies", mustJSON(map[string]any{
		"code": "x",
	}), nil, nil, nil)

	if err := h.CreatePolicy(c); err != nil {
		t.Fatalf("CreatePolicy error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreatePolicy_ValidationError(t *testing.T) {
	e := newEchoWithValidator()
	h := policyHandlerWith(nil, nil)

	rec, c := doJSON(e, stdhttp.MethodPost, "/policies", mustJSON(map[string]any{
		"code":          "Bad Code!",
		"name":          "n",
		"target_table":  "expenses",
		"approval_mode": "voting",
		"approvers":     []map[string]any{},
	}), map[string]string{HeaderTenantID: hTenant}, nil, nil)

	if err := h.CreatePolicy(c); err != nil {
		t.Fatalf("CreatePolicy error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", rec.Code, rec.Body.String())
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if !containsFieldMsg(er.Details, "Code", "lowercase slug") {
		t.Fatalf("missing slug detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "ApprovalMode", "must be one of") {
		t.Fatalf("missing oneof detail: %+v", er.Details)
	}
}

func TestCreatePolicy_DuplicateCode(t *testing.T) {
	e := newEchoWithValidator()
	repo := &policymock.Repo{
		GetByCodeFn: func(_ context.Context, _, _ string) (*domainPolicy.ApprovalType, error) {
			return &domainPolicy.ApprovalType{}, nil
		},
	}
	h := policyHandlerWith(repo, nil)

	rec, c := doJSON(e, stdhttp.MethodPost, "/policies", mustJSON(map[string]any{
		"code":         "expense-approval",
		"name":         "Expense approval",
		"target_table": "expenses",
		"approvers":    []map[string]any{{"user_id": hApprover}},
	}), map[string]string{HeaderTenantID: hTenant}, nil, nil)

	if err := h.CreatePolicy(c); err != nil {
		t.Fatalf("CreatePolicy error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdatePolicy_StructuralConflict(t *testing.T) {
	e := newEchoWithValidator()
	repo := &policymock.Repo{
		GetByPolicyIDFn: func(_ context.Context, policyID string) (*domainPolicy.ApprovalType, error) {
			return &domainPolicy.ApprovalType{ID: 7, PolicyID: policyID, TenantID: hTenant, Code: "x", TargetTable: "t", IsActive: true}, nil
		},
	}
	requests := &requestmock.Repo{
		CountByApprovalTypeIDFn: func(_ context.Context, _ uint64) (int64, error) { return 2, nil },
	}
	h := policyHandlerWith(repo, requests)

	rec, c := doJSON(e, stdhttp.MethodPatch, "/policies/"+hPolicyID, mustJSON(map[string]any{
		"approval_mode": "sequential",
	}), nil, []string{"policy_id"}, []string{hPolicyID})

	if err := h.UpdatePolicy(c); err != nil {
		t.Fatalf("UpdatePolicy error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdatePolicy_BadPathParam(t *testing.T) {
	e := newEchoWithValidator()
	h := policyHandlerWith(nil, nil)

	rec, c := doJSON(e, stdhttp.MethodPatch, "/policies/xyz", mustJSON(map[string]any{}),
		nil, []string{"policy_id"}, []string{"xyz"})

	if err := h.UpdatePolicy(c); err != nil {
		t.Fatalf("UpdatePolicy error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeactivatePolicy_Success(t *testing.T) {
	e := newEchoWithValidator()
	pol := &domainPolicy.ApprovalType{ID: 7, PolicyID: hPolicyID, TenantID: hTenant, Code: "x", TargetTable: "t", IsActive: true}
	repo := &policymock.Repo{
		GetByPolicyIDFn: func(_ context.Context, policyID string) (*domainPolicy.ApprovalType, error) {
			if policyID == pol.PolicyID {
				return pol, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := policyHandlerWith(repo, nil)

	rec, c := doJSON(e, stdhttp.MethodDelete, "/policies/"+hPolicyID, nil, nil, []string{"policy_id"}, []string{hPolicyID})

	if err := h.DeactivatePolicy(c); err != nil {
		t.Fatalf("DeactivatePolicy error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp policyResp
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.IsActive {
		t.Fatalf("policy still active: %+v", resp)
	}
}

func TestGetPolicy_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	h := policyHandlerWith(nil, nil)

	rec, c := doJSON(e, stdhttp.MethodGet, "/policies/nope", nil,
		map[string]string{HeaderTenantID: hTenant}, []string{"code"}, []string{"nope"})

	if err := h.GetPolicy(c); err != nil {
		t.Fatalf("GetPolicy error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListPolicies(t *testing.T) {
	e := newEchoWithValidator()
	repo := &policymock.Repo{
		ListFn: func(_ context.Context, tenantID string) ([]domainPolicy.ApprovalType, error) {
			return []domainPolicy.ApprovalType{
				{PolicyID: hPolicyID, TenantID: tenantID, Code: "aa", TargetTable: "t"},
				{PolicyID: strings.Repeat("d", 32), TenantID: tenantID, Code: "bb", TargetTable: "t"},
			}, nil
		},
	}
	h := policyHandlerWith(repo, nil)

	rec, c := doJSON(e, stdhttp.MethodGet, "/policies", nil,
		map[string]string{HeaderTenantID: hTenant}, nil, nil)

	if err := h.ListPolicies(c); err != nil {
		t.Fatalf("ListPolicies error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out []policyResp
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(out) != 2 || out[0].Code != "aa" {
		t.Fatalf("unexpected listing: %+v", out)
	}
}
