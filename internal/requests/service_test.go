package request

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/assetnest/assetnest-backend/pkg/db/models"
	"github.com/assetnest/assetnest-backend/pkg/enums"
	pkgerrors "github.com/assetnest/assetnest-backend/pkg/errors"
	"github.com/assetnest/assetnest-backend/pkg/pagination"
)

func TestCreateRequiresAffiliation(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	asset := env.mustCreateAsset(t, "Laptop", enums.AssetTypeReturnable, 3)

	outsider := env.mustCreateEmployee(t, false)
	_, err := env.svc.Create(ctx, asset.ID, outsider.Email, nil)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotAffiliated) {
		t.Fatalf("expected NOT_AFFILIATED, got %v", err)
	}

	member := env.mustCreateEmployee(t, true)
	note := "for the client demo"
	created, err := env.svc.Create(ctx, asset.ID, member.Email, &note)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if created.Status != enums.RequestStatusPending {
		t.Fatalf("expected Pending, got %s", created.Status)
	}
	if created.ProductName != "Laptop" {
		t.Fatalf("expected asset context on the DTO, got %q", created.ProductName)
	}

	if got := env.assetQuantity(t, asset.ID); got != 3 {
		t.Fatalf("filing a request must not touch stock, got %d", got)
	}
}

func TestApproveDecrementsOnce(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	asset := env.mustCreateAsset(t, "Monitor", enums.AssetTypeReturnable, 2)
	member := env.mustCreateEmployee(t, true)

	created, err := env.svc.Create(ctx, asset.ID, member.Email, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	approved, err := env.svc.Approve(ctx, created.ID, env.org.HREmail)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != enums.RequestStatusApproved {
		t.Fatalf("expected Approved, got %s", approved.Status)
	}
	if approved.ApprovalDate == nil {
		t.Fatal("expected approval_date to be set")
	}
	if got := env.assetQuantity(t, asset.ID); got != 1 {
		t.Fatalf("expected quantity 1 after approval, got %d", got)
	}

	_, err = env.svc.Approve(ctx, created.ID, env.org.HREmail)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidTransition) {
		t.Fatalf("second approve must fail with INVALID_STATE_TRANSITION, got %v", err)
	}
	if got := env.assetQuantity(t, asset.ID); got != 1 {
		t.Fatalf("second approve must not double-decrement, got %d", got)
	}
}

func TestApproveLastUnitContention(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	asset := env.mustCreateAsset(t, "Camera", enums.AssetTypeReturnable, 1)

	first := env.mustCreateEmployee(t, true)
	second := env.mustCreateEmployee(t, true)

	reqA, err := env.svc.Create(ctx, asset.ID, first.Email, nil)
	if err != nil {
		t.Fatalf("create request a: %v", err)
	}
	reqB, err := env.svc.Create(ctx, asset.ID, second.Email, nil)
	if err != nil {
		t.Fatalf("create request b: %v", err)
	}

	if _, err := env.svc.Approve(ctx, reqA.ID, env.org.HREmail); err != nil {
		t.Fatalf("first approve: %v", err)
	}

	_, err = env.svc.Approve(ctx, reqB.ID, env.org.HREmail)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected INSUFFICIENT_STOCK for the losing approval, got %v", err)
	}

	var loser models.AssetRequest
	if err := env.conn.First(&loser, "id = ?", reqB.ID).Error; err != nil {
		t.Fatalf("reload loser: %v", err)
	}
	if loser.Status != enums.RequestStatusPending {
		t.Fatalf("losing request must stay Pending, got %s", loser.Status)
	}
	if got := env.assetQuantity(t, asset.ID); got != 0 {
		t.Fatalf("expected quantity 0, got %d", got)
	}
}

func TestApproveLastUnitParallel(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	asset := env.mustCreateAsset(t, "Tripod", enums.AssetTypeReturnable, 1)

	first := env.mustCreateEmployee(t, true)
	second := env.mustCreateEmployee(t, true)

	reqA, err := env.svc.Create(ctx, asset.ID, first.Email, nil)
	if err != nil {
		t.Fatalf("create request a: %v", err)
	}
	reqB, err := env.svc.Create(ctx, asset.ID, second.Email, nil)
	if err != nil {
		t.Fatalf("create request b: %v", err)
	}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, id := range []uuid.UUID{reqA.ID, reqB.ID} {
		wg.Add(1)
		go func(slot int, requestID uuid.UUID) {
			defer wg.Done()
			_, results[slot] = env.svc.Approve(ctx, requestID, env.org.HREmail)
		}(i, id)
	}
	wg.Wait()

	wins := 0
	for _, err := range results {
		if err == nil {
			wins++
		}
	}
	// Losers may fail on stock or on driver contention; either way at most
	// one approval commits and the books must balance.
	if wins > 1 {
		t.Fatalf("single unit approved twice: %v", results)
	}
	if got := env.assetQuantity(t, asset.ID); got != 1-wins {
		t.Fatalf("expected quantity %d after %d committed approvals, got %d", 1-wins, wins, got)
	}

	var approved int64
	if err := env.conn.Model(&models.AssetRequest{}).
		Where("asset_id = ? AND status = ?", asset.ID, enums.RequestStatusApproved).
		Count(&approved).Error; err != nil {
		t.Fatalf("count approved: %v", err)
	}
	if int(approved) != wins {
		t.Fatalf("expected %d approved requests, got %d", wins, approved)
	}
}

func TestApproveAdmitsLapsedRequester(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	asset := env.mustCreateAsset(t, "Dock", enums.AssetTypeReturnable, 1)
	member := env.mustCreateEmployee(t, true)

	created, err := env.svc.Create(ctx, asset.ID, member.Email, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	// Requester drops off the roster between filing and approval.
	if err := env.conn.Model(&models.Account{}).Where("id = ?", member.ID).Updates(map[string]any{
		"affiliation_status": enums.AffiliationStatusUnaffiliated,
		"organization_id":    nil,
	}).Error; err != nil {
		t.Fatalf("detach member: %v", err)
	}
	if err := env.conn.Model(&models.Organization{}).Where("id = ?", env.org.ID).
		UpdateColumn("member_count", 0).Error; err != nil {
		t.Fatalf("reset member count: %v", err)
	}

	if _, err := env.svc.Approve(ctx, created.ID, env.org.HREmail); err != nil {
		t.Fatalf("approve should re-admit the requester: %v", err)
	}

	var reloaded models.Account
	if err := env.conn.First(&reloaded, "id = ?", member.ID).Error; err != nil {
		t.Fatalf("reload member: %v", err)
	}
	if reloaded.AffiliationStatus != enums.AffiliationStatusJoined {
		t.Fatalf("expected requester re-admitted, got %s", reloaded.AffiliationStatus)
	}
}

func TestApproveForbiddenForNonOwner(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	asset := env.mustCreateAsset(t, "Phone", enums.AssetTypeReturnable, 1)
	member := env.mustCreateEmployee(t, true)

	created, err := env.svc.Create(ctx, asset.ID, member.Email, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	_, err = env.svc.Approve(ctx, created.ID, "stranger@example.com")
	if !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
	if got := env.assetQuantity(t, asset.ID); got != 1 {
		t.Fatalf("forbidden approve must not touch stock, got %d", got)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	asset := env.mustCreateAsset(t, "Tablet", enums.AssetTypeReturnable, 1)
	member := env.mustCreateEmployee(t, true)

	created, err := env.svc.Create(ctx, asset.ID, member.Email, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	rejected, err := env.svc.Reject(ctx, created.ID, env.org.HREmail)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != enums.RequestStatusRejected {
		t.Fatalf("expected Rejected, got %s", rejected.Status)
	}
	if got := env.assetQuantity(t, asset.ID); got != 1 {
		t.Fatalf("reject must not touch stock, got %d", got)
	}

	if _, err := env.svc.Approve(ctx, created.ID, env.org.HREmail); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidTransition) {
		t.Fatalf("rejected requests are terminal, got %v", err)
	}
}

func TestCancelRules(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	asset := env.mustCreateAsset(t, "Printer", enums.AssetTypeReturnable, 1)
	member := env.mustCreateEmployee(t, true)

	created, err := env.svc.Create(ctx, asset.ID, member.Email, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	if err := env.svc.Cancel(ctx, created.ID, "other@example.com"); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for foreign cancel, got %v", err)
	}

	if err := env.svc.Cancel(ctx, created.ID, member.Email); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var count int64
	if err := env.conn.Model(&models.AssetRequest{}).Where("id = ?", created.ID).Count(&count).Error; err != nil {
		t.Fatalf("count requests: %v", err)
	}
	if count != 0 {
		t.Fatal("cancel must delete the row")
	}

	// An approved request cannot be cancelled.
	second, err := env.svc.Create(ctx, asset.ID, member.Email, nil)
	if err != nil {
		t.Fatalf("create second request: %v", err)
	}
	if _, err := env.svc.Approve(ctx, second.ID, env.org.HREmail); err != nil {
		t.Fatalf("approve second: %v", err)
	}
	if err := env.svc.Cancel(ctx, second.ID, member.Email); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidTransition) {
		t.Fatalf("expected INVALID_STATE_TRANSITION, got %v", err)
	}
}

func TestReturnRoundTrip(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	asset := env.mustCreateAsset(t, "Headset", enums.AssetTypeReturnable, 5)
	member := env.mustCreateEmployee(t, true)

	created, err := env.svc.Create(ctx, asset.ID, member.Email, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := env.svc.Approve(ctx, created.ID, env.org.HREmail); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got := env.assetQuantity(t, asset.ID); got != 4 {
		t.Fatalf("expected 4 after approve, got %d", got)
	}

	if _, err := env.svc.Return(ctx, created.ID, "other@example.com"); !pkgerrors.IsCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for foreign return, got %v", err)
	}

	returned, err := env.svc.Return(ctx, created.ID, member.Email)
	if err != nil {
		t.Fatalf("return: %v", err)
	}
	if returned.Status != enums.RequestStatusReturned {
		t.Fatalf("expected Returned, got %s", returned.Status)
	}
	if got := env.assetQuantity(t, asset.ID); got != 5 {
		t.Fatalf("approve+return must round-trip quantity, got %d", got)
	}

	if _, err := env.svc.Return(ctx, created.ID, member.Email); !pkgerrors.IsCode(err, pkgerrors.CodeInvalidTransition) {
		t.Fatalf("second return must fail, got %v", err)
	}
	if got := env.assetQuantity(t, asset.ID); got != 5 {
		t.Fatalf("failed return must roll back the increment, got %d", got)
	}
}

func TestReturnNonReturnable(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	asset := env.mustCreateAsset(t, "Notebook", enums.AssetTypeNonReturnable, 5)
	member := env.mustCreateEmployee(t, true)

	created, err := env.svc.Create(ctx, asset.ID, member.Email, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	if _, err := env.svc.Approve(ctx, created.ID, env.org.HREmail); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// NonReturnable assets never leave the Approved state via return.
	_, err = env.svc.Return(ctx, created.ID, member.Email)
	if !pkgerrors.IsCode(err, pkgerrors.CodeInvalidTransition) {
		t.Fatalf("expected INVALID_STATE_TRANSITION for non-returnable, got %v", err)
	}
	if got := env.assetQuantity(t, asset.ID); got != 4 {
		t.Fatalf("rejected return must not touch stock, got %d", got)
	}
}

func TestListForOrgAndRequester(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	ctx := context.Background()
	laptop := env.mustCreateAsset(t, "Laptop", enums.AssetTypeReturnable, 5)
	pens := env.mustCreateAsset(t, "Pen Pack", enums.AssetTypeNonReturnable, 50)

	alice := env.mustCreateEmployee(t, true)
	bob := env.mustCreateEmployee(t, true)

	if _, err := env.svc.Create(ctx, laptop.ID, alice.Email, nil); err != nil {
		t.Fatalf("alice laptop request: %v", err)
	}
	bobReq, err := env.svc.Create(ctx, pens.ID, bob.Email, nil)
	if err != nil {
		t.Fatalf("bob pens request: %v", err)
	}
	if _, err := env.svc.Approve(ctx, bobReq.ID, env.org.HREmail); err != nil {
		t.Fatalf("approve bob: %v", err)
	}

	page := pagination.Params{Page: 1, Limit: 10}

	all, err := env.svc.ListForOrg(ctx, env.org.ID, OrgListFilters{}, page)
	if err != nil {
		t.Fatalf("list for org: %v", err)
	}
	if all.Meta.Total != 2 || len(all.Requests) != 2 {
		t.Fatalf("expected 2 org requests, got %+v", all.Meta)
	}

	pending := enums.RequestStatusPending
	filtered, err := env.svc.ListForOrg(ctx, env.org.ID, OrgListFilters{Status: &pending}, page)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(filtered.Requests) != 1 || filtered.Requests[0].RequesterEmail != alice.Email {
		t.Fatalf("expected only alice's pending request, got %+v", filtered.Requests)
	}

	byProduct, err := env.svc.ListForOrg(ctx, env.org.ID, OrgListFilters{Search: "pen"}, page)
	if err != nil {
		t.Fatalf("list by product: %v", err)
	}
	if len(byProduct.Requests) != 1 || byProduct.Requests[0].ProductName != "Pen Pack" {
		t.Fatalf("expected product-name search hit, got %+v", byProduct.Requests)
	}

	mine, err := env.svc.ListForRequester(ctx, bob.Email, RequesterListFilters{})
	if err != nil {
		t.Fatalf("list for requester: %v", err)
	}
	if len(mine) != 1 || mine[0].Status != enums.RequestStatusApproved {
		t.Fatalf("expected bob's approved request, got %+v", mine)
	}

	returnable := enums.AssetTypeReturnable
	none, err := env.svc.ListForRequester(ctx, bob.Email, RequesterListFilters{Type: &returnable})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no returnable requests for bob, got %+v", none)
	}
}
