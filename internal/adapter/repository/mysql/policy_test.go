package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "approval-engine/internal/domain/policy"
	"approval-engine/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schema only for tests (no ENUM) ---

type approvalTypeSQLite struct {
	ID               uint64         `gorm:"primaryKey;column:id"`
	PolicyID         string         `gorm:"size:32;column:policy_id"`
	TenantID         string         `gorm:"size:32;column:tenant_id"`
	Code             string         `gorm:"size:64;column:code"`
	Name             string         `gorm:"size:255;column:name"`
	TargetTable      string         `gorm:"size:64;column:target_table"`
	ApprovalMode     string         `gorm:"type:text;column:approval_mode"` // no enum
	QuorumPercentage int            `gorm:"column:quorum_percentage"`
	ApproverConfig   string         `gorm:"type:text;column:approver_config"`
	ResponseOptions  string         `gorm:"type:text;column:response_options"`
	RequireComments  string         `gorm:"type:text;column:require_comments"` // no enum
	AllowDelegate    bool           `gorm:"column:allow_delegate"`
	AllowRecall      bool           `gorm:"column:allow_recall"`
	SLAHours         int            `gorm:"column:sla_hours"`
	SLAWarningHours  int            `gorm:"column:sla_warning_hours"`
	IsActive         bool           `gorm:"column:is_active"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (approvalTypeSQLite) TableName() string { return "approval_types" }

// openPolicyTestDB creates an in-memory sqlite DB and migrates ONLY the
// sqlite-safe schema.
func openPolicyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&approvalTypeSQLite{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeApprovalType(tenantID, code string) *domain.ApprovalType {
	return &domain.ApprovalType{
		PolicyID:         id.NewID32(),
		TenantID:         tenantID,
		Code:             code,
		Name:             "Expense approval",
		TargetTable:      "expenses",
		ApprovalMode:     domain.ModeParallel,
		QuorumPercentage: 100,
		ApproverConfig: domain.ApproverConfig{Approvers: []domain.ApproverSpec{
			{UserID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"},
			{Role: "finance-lead"},
		}},
		ResponseOptions: domain.DefaultResponseOptions(),
		RequireComments: domain.CommentsOnReject,
		AllowDelegate:   true,
		IsActive:        true,
	}
}

func TestPolicyCreateAndGet(t *testing.T) {
	db := openPolicyTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	tenant := id.NewID32()
	pt := makeApprovalType(tenant, "expense-approval")
	if err := repo.Create(ctx, pt); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if pt.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByPolicyID(ctx, pt.PolicyID)
	if err != nil {
		t.Fatalf("GetByPolicyID: %v", err)
	}
	if got.Code != "expense-approval" || got.TenantID != tenant {
		t.Errorf("unexpected policy: %+v", got)
	}
	// json columns survive the round trip
	if len(got.ApproverConfig.Approvers) != 2 || got.ApproverConfig.Approvers[1].Role != "finance-lead" {
		t.Errorf("approver config not restored: %+v", got.ApproverConfig)
	}
	if len(got.ResponseOptions) != 2 {
		t.Errorf("response options not restored: %v", got.ResponseOptions)
	}

	byID, err := repo.GetByID(ctx, pt.ID)
	if err != nil || byID.PolicyID != pt.PolicyID {
		t.Fatalf("GetByID: %v, %+v", err, byID)
	}
}

func TestPolicyGetByCode(t *testing.T) {
	db := openPolicyTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	t1 := "11111111111111111111111111111111"
	t2 := "22222222222222222222222222222222"
	if err := repo.Create(ctx, makeApprovalType(t1, "expense-approval")); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, makeApprovalType(t2, "expense-approval")); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetByCode(ctx, t1, "expense-approval")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got.TenantID != t1 {
		t.Errorf("code lookup leaked across tenants: %+v", got)
	}

	if _, err := repo.GetByCode(ctx, t1, "nope"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestPolicySaveUpdates(t *testing.T) {
	db := openPolicyTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	pt := makeApprovalType(id.NewID32(), "leave-approval")
	if err := repo.Create(ctx, pt); err != nil {
		t.Fatalf("Create: %v", err)
	}

	pt.IsActive = false
	pt.SLAHours = 24
	if err := repo.Save(ctx, pt); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.GetByPolicyID(ctx, pt.PolicyID)
	if err != nil {
		t.Fatalf("GetByPolicyID: %v", err)
	}
	if got.IsActive || got.SLAHours != 24 {
		t.Errorf("update not persisted: %+v", got)
	}
}

func TestPolicyList(t *testing.T) {
	db := openPolicyTestDB(t)
	repo := NewPolicyRepository(db)
	ctx := context.Background()

	tenant := id.NewID32()
	for _, code := range []string{"zz-last", "aa-first"} {
		if err := repo.Create(ctx, makeApprovalType(tenant, code)); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Create(ctx, makeApprovalType(id.NewID32(), "other-tenant")); err != nil {
		t.Fatal(err)
	}

	got, err := repo.List(ctx, tenant)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Code != "aa-first" || got[1].Code != "zz-last" {
		t.Fatalf("unexpected listing: %+v", got)
	}
}
