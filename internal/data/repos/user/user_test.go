package user

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/data/repos/testutil"
	types "github.com/Goutham-Eda/Carlo/internal/domain"
	domainuser "github.com/Goutham-Eda/Carlo/internal/domain/user"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(tx)

	repo := NewUserRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.User{
		domainuser.New("userrepo@example.com", "pw", "A B"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: expected 1 user with id, got %+v", created)
	}
	if created[0].SubscriptionTier != types.TierFree || created[0].CreditsRemaining != 1 {
		t.Fatalf("Create: expected free tier with 1 credit, got %s/%d", created[0].SubscriptionTier, created[0].CreditsRemaining)
	}

	gotByIDs, err := repo.GetByIDs(dbc, []uuid.UUID{created[0].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(gotByIDs) != 1 || gotByIDs[0].ID != created[0].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", gotByIDs)
	}

	exists, err := repo.EmailExists(dbc, created[0].Email)
	if err != nil {
		t.Fatalf("EmailExists: %v", err)
	}
	if !exists {
		t.Fatalf("EmailExists: expected true")
	}
	exists, err = repo.EmailExists(dbc, "does-not-exist@example.com")
	if err != nil {
		t.Fatalf("EmailExists(missing): %v", err)
	}
	if exists {
		t.Fatalf("EmailExists(missing): expected false")
	}

	if err := repo.UpdateFields(dbc, created[0].ID, map[string]interface{}{"subscription_tier": "pro"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	locked, err := repo.LockByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("LockByID: %v", err)
	}
	if locked.SubscriptionTier != types.TierPro {
		t.Fatalf("UpdateFields: expected pro, got %s", locked.SubscriptionTier)
	}

	ok, err := repo.AdjustCredits(dbc, created[0].ID, 1, 4)
	if err != nil || !ok {
		t.Fatalf("AdjustCredits: ok=%v err=%v", ok, err)
	}
	// stale expectation loses
	ok, err = repo.AdjustCredits(dbc, created[0].ID, 1, -1)
	if err != nil {
		t.Fatalf("AdjustCredits(stale): %v", err)
	}
	if ok {
		t.Fatalf("AdjustCredits(stale): expected no update")
	}
	locked, _ = repo.LockByID(dbc, created[0].ID)
	if locked.CreditsRemaining != 5 {
		t.Fatalf("AdjustCredits: expected 5 credits, got %d", locked.CreditsRemaining)
	}

	n, err := repo.DeleteByID(dbc, created[0].ID)
	if err != nil || n != 1 {
		t.Fatalf("DeleteByID: n=%d err=%v", n, err)
	}
	if _, err := repo.LockByID(dbc, created[0].ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("LockByID after delete: expected ErrRecordNotFound, got %v", err)
	}
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	dbc := testutil.DBC(nil)

	if _, err := repo.Create(dbc, []*types.User{domainuser.New("dup@example.com", "pw", "")}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := repo.Create(dbc, []*types.User{domainuser.New("dup@example.com", "pw", "")})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
	if _, err := repo.Create(dbc, []*types.User{domainuser.New("other@example.com", "pw", "")}); err != nil {
		t.Fatalf("Create(distinct): %v", err)
	}
}

func TestUserRepoLockByIDRequiresTx(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, context.Background(), db, "lock@example.com")
	if _, err := repo.LockByID(testutil.DBC(nil), u.ID); err == nil {
		t.Fatalf("expected error without tx")
	}
}
