package uowmock

import (
	"context"
	"errors"
	"testing"

	"approval-engine/internal/domain/request"
	"approval-engine/internal/domain/uow"
	"approval-engine/internal/testutil/policymock"
	"approval-engine/internal/testutil/requestmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	policies := &policymock.Repo{}
	requests := &requestmock.Repo{}
	repos := uow.Repos{Policies: policies, Requests: requests}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			if fn == nil {
				t.Fatalf("WithinTx: fn is nil")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Policies != policies || r.Requests != requests {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")

	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error {
			return sentinel
		},
	}
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_WithinTx_Default_Unimplemented(t *testing.T) {
	m := &UoW{} // no funcs set
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
}

func TestUoW_WithinRequestTx_Happy(t *testing.T) {
	ctx := context.Background()

	repos := uow.Repos{Requests: &requestmock.Repo{}}
	locked := &request.ApprovalRequest{ID: 7, RequestID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}

	innerCalled := false
	m := &UoW{
		WithinRequestTxFn: func(gotCtx context.Context, requestID string, fn func(r uow.Repos, req *request.ApprovalRequest) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinRequestTx: ctx mismatch")
			}
			if requestID != locked.RequestID {
				t.Fatalf("WithinRequestTx: requestID mismatch, got %s", requestID)
			}
			return fn(repos, locked)
		},
	}

	err := m.WithinRequestTx(ctx, locked.RequestID, func(r uow.Repos, req *request.ApprovalRequest) error {
		innerCalled = true
		if req != locked {
			t.Fatalf("WithinRequestTx: request not forwarded correctly: %+v", req)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinRequestTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinRequestTx: inner fn not called")
	}
}

func TestUoW_WithinRequestTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("stop")

	m := &UoW{
		WithinRequestTxFn: func(context.Context, string, func(uow.Repos, *request.ApprovalRequest) error) error {
			return sentinel
		},
	}
	if err := m.WithinRequestTx(context.Background(), "x", func(uow.Repos, *request.ApprovalRequest) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinRequestTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_WithinRequestTx_Default_Unimplemented(t *testing.T) {
	m := &UoW{} // no funcs set
	if err := m.WithinRequestTx(context.Background(), "x", func(uow.Repos, *request.ApprovalRequest) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinRequestTx default: want errUnimplemented, got %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinRequestTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}

	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinRequestTx(func(context.Context, string, func(uow.Repos, *request.ApprovalRequest) error) error { return nil })

	if m.WithinTxFn == nil || m.WithinRequestTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}

	m.Reset()
	if m.WithinTxFn != nil || m.WithinRequestTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
