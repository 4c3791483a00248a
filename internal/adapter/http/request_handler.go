package http

import (
	"net/http"
	"time"

	ucRequest "approval-engine/internal/usecase/request"

	"github.com/labstack/echo/v4"
)

// Actor identity and tenant scope arrive as headers; authn/z is enforced
// upstream of this service.
const (
	HeaderActorID    = "X-Actor-Id"
	HeaderActorAdmin = "X-Actor-Admin"
	HeaderTenantID   = "X-Tenant-Id"
)

type RequestHandler struct{ uc *ucRequest.Usecase }

func NewRequestHandler(uc *ucRequest.Usecase) *RequestHandler { return &RequestHandler{uc: uc} }

func actorID(c echo.Context) (string, bool) {
	v := c.Request().Header.Get(HeaderActorID)
	return v, reHex32.MatchString(v)
}

func tenantID(c echo.Context) string {
	if v := c.Request().Header.Get(HeaderTenantID); v != "" {
		return v
	}
	return c.QueryParam("tenant_id")
}

type createRequestReq struct {
	PolicyID             string `json:"policy_id"        validate:"required,hex32"`
	TargetTable          string `json:"target_table"     validate:"omitempty,max=64"`
	TargetRecordID       string `json:"target_record_id" validate:"required,max=64"`
	Title                string `json:"title"            validate:"required,max=255"`
	TargetRecordSnapshot string `json:"target_record_snapshot"`
	ChangesSummary       string `json:"changes_summary"`
}

func (h *RequestHandler) CreateRequest(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderActorID})
	}
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), ucRequest.CreateInput{
		TenantID:             tenantID(c),
		PolicyID:             req.PolicyID,
		TargetTable:          req.TargetTable,
		TargetRecordID:       req.TargetRecordID,
		Title:                req.Title,
		RequestedBy:          actor,
		TargetRecordSnapshot: req.TargetRecordSnapshot,
		ChangesSummary:       req.ChangesSummary,
	})
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *RequestHandler) GetRequest(c echo.Context) error {
	requestID := c.Param("request_id")
	if requestID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing request_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), requestID)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

type respondReq struct {
	Response string `json:"response" validate:"required,max=64"`
	Comments string `json:"comments"`
}

func (h *RequestHandler) Respond(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderActorID})
	}
	var req respondReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Respond(c.Request().Context(), ucRequest.RespondInput{
		RequestID:  c.Param("request_id"),
		ApproverID: actor,
		Response:   req.Response,
		Comments:   req.Comments,
	})
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

type delegateReq struct {
	DelegateTo string `json:"delegate_to" validate:"required,hex32"`
	Reason     string `json:"reason"      validate:"max=1024"`
}

func (h *RequestHandler) Delegate(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderActorID})
	}
	var req delegateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Delegate(c.Request().Context(), ucRequest.DelegateInput{
		RequestID:  c.Param("request_id"),
		ApproverID: actor,
		DelegateTo: req.DelegateTo,
		Reason:     req.Reason,
	})
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

type cancelReq struct {
	Reason string `json:"reason" validate:"max=1024"`
}

func (h *RequestHandler) Cancel(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderActorID})
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	dto, err := h.uc.Cancel(c.Request().Context(), ucRequest.CancelInput{
		RequestID: c.Param("request_id"),
		ActorID:   actor,
		Reason:    req.Reason,
		AsAdmin:   c.Request().Header.Get(HeaderActorAdmin) == "true",
	})
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequestHandler) Recall(c echo.Context) error {
	actor, ok := actorID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing or invalid " + HeaderActorID})
	}
	dto, err := h.uc.Recall(c.Request().Context(), c.Param("request_id"), actor)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

type markNotifiedReq struct {
	ApproverID string `json:"approver_id" validate:"required,hex32"`
}

// MarkNotified is called by the external notifier after delivering an
// assignment notification.
func (h *RequestHandler) MarkNotified(c echo.Context) error {
	var req markNotifiedReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.MarkNotified(c.Request().Context(), c.Param("request_id"), req.ApproverID)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *RequestHandler) ListPending(c echo.Context) error {
	approverID := c.Param("approver_id")
	if !reHex32.MatchString(approverID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid approver_id path param"})
	}
	tenant := tenantID(c)
	if tenant == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing tenant id"})
	}
	items, err := h.uc.ListPendingFor(c.Request().Context(), tenant, approverID)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}

func (h *RequestHandler) ListOverdue(c echo.Context) error {
	tenant := tenantID(c)
	if tenant == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing tenant id"})
	}
	asOf := time.Now().UTC()
	if raw := c.QueryParam("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "as_of must be RFC3339"})
		}
		asOf = t.UTC()
	}
	items, err := h.uc.ListOverdue(c.Request().Context(), tenant, asOf)
	if err != nil {
		return c.JSON(statusFor(err), ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, items)
}
