package aggregates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Goutham-Eda/Carlo/internal/data/repos"
	types "github.com/Goutham-Eda/Carlo/internal/domain"
	domainagg "github.com/Goutham-Eda/Carlo/internal/domain/aggregates"
	"github.com/Goutham-Eda/Carlo/internal/domain/audit"
	"github.com/Goutham-Eda/Carlo/internal/domain/user"
	"github.com/Goutham-Eda/Carlo/internal/pkg/dbctx"
)

const maxEmailLength = 255

type UserAggregateDeps struct {
	Base BaseDeps

	Users           repos.UserRepo
	Documents       repos.DocumentRepo
	Clauses         repos.ClauseRepo
	Analyses        repos.AnalysisResultRepo
	Recommendations repos.RecommendationRepo
}

type userAggregate struct {
	deps  UserAggregateDeps
	owned ownershipRepos
}

func NewUserAggregate(deps UserAggregateDeps) domainagg.UserAggregate {
	deps.Base = deps.Base.withDefaults()
	return &userAggregate{
		deps: deps,
		owned: ownershipRepos{
			Contract:        domainagg.UserAggregateContract,
			Documents:       deps.Documents,
			Clauses:         deps.Clauses,
			Analyses:        deps.Analyses,
			Recommendations: deps.Recommendations,
		},
	}
}

func (a *userAggregate) Contract() domainagg.Contract {
	return domainagg.UserAggregateContract
}

func emailConflict(op string) error {
	return domainagg.NewError(domainagg.CodeConflict, op, types.ErrEmailAlreadyRegistered.Error(), types.ErrEmailAlreadyRegistered)
}

func (a *userAggregate) Register(ctx context.Context, in domainagg.RegisterUserInput) (domainagg.RegisterUserResult, error) {
	const op = "Accounts.User.Register"
	var out domainagg.RegisterUserResult

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing email", nil)
	}
	if len(email) > maxEmailLength {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "email longer than 255 characters", nil)
	}
	if strings.TrimSpace(in.HashedPassword) == "" {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing hashed_password", nil)
	}
	u := user.New(email, in.HashedPassword, strings.TrimSpace(in.FullName))
	if strings.TrimSpace(in.SubscriptionTier) != "" {
		tier, ok := user.ParseSubscriptionTier(in.SubscriptionTier)
		if !ok {
			return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown subscription tier %q", in.SubscriptionTier), nil)
		}
		u.SubscriptionTier = tier
	}
	if in.Credits != nil {
		if *in.Credits < 0 {
			return out, domainagg.NewError(domainagg.CodeValidation, op, "credits must not be negative", nil)
		}
		u.CreditsRemaining = *in.Credits
	}
	if a.deps.Users == nil {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "user repo not configured", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		exists, err := a.deps.Users.EmailExists(dbc, email)
		if err != nil {
			return err
		}
		if exists {
			return emailConflict(op)
		}
		if _, err := a.deps.Users.Create(dbc, []*types.User{u}); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return emailConflict(op)
			}
			return err
		}
		if err := recordAudit(dbc, a.deps.Base, u.ID, audit.ActionRegisterUser, map[string]interface{}{
			"subscription_tier": string(u.SubscriptionTier),
		}); err != nil {
			return err
		}
		out = domainagg.RegisterUserResult{
			UserID:           u.ID,
			Email:            u.Email,
			SubscriptionTier: string(u.SubscriptionTier),
			CreditsRemaining: u.CreditsRemaining,
		}
		return nil
	})
	return out, err
}

func (a *userAggregate) ChangeSubscription(ctx context.Context, in domainagg.ChangeSubscriptionInput) (domainagg.ChangeSubscriptionResult, error) {
	const op = "Accounts.User.ChangeSubscription"
	var out domainagg.ChangeSubscriptionResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	tier, ok := user.ParseSubscriptionTier(in.SubscriptionTier)
	if !ok {
		return out, domainagg.NewError(domainagg.CodeValidation, op, fmt.Sprintf("unknown subscription tier %q", in.SubscriptionTier), nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		u, err := a.deps.Users.LockByID(dbc, in.UserID)
		if err != nil {
			return err
		}
		out = domainagg.ChangeSubscriptionResult{
			UserID:           u.ID,
			PreviousTier:     string(u.SubscriptionTier),
			SubscriptionTier: string(tier),
		}
		if u.SubscriptionTier == tier {
			return nil
		}
		if err := a.deps.Users.UpdateFields(dbc, u.ID, map[string]interface{}{
			"subscription_tier": tier,
		}); err != nil {
			return err
		}
		return recordAudit(dbc, a.deps.Base, u.ID, audit.ActionChangeSubscription, map[string]interface{}{
			"from": string(u.SubscriptionTier),
			"to":   string(tier),
		})
	})
	return out, err
}

func (a *userAggregate) AdjustCredits(ctx context.Context, in domainagg.AdjustCreditsInput) (domainagg.AdjustCreditsResult, error) {
	const op = "Accounts.User.AdjustCredits"
	var out domainagg.AdjustCreditsResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if in.Delta == 0 {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "delta must not be zero", nil)
	}

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		u, err := a.deps.Users.LockByID(dbc, in.UserID)
		if err != nil {
			return err
		}
		next := u.CreditsRemaining + in.Delta
		if next < 0 {
			return InvariantError(fmt.Sprintf("credit balance %d cannot absorb %d", u.CreditsRemaining, in.Delta))
		}
		ok, err := a.deps.Users.AdjustCredits(dbc, u.ID, u.CreditsRemaining, in.Delta)
		if err != nil {
			return err
		}
		if err := RequireCASSuccess(ok, "credit balance changed concurrently"); err != nil {
			return err
		}
		if err := recordAudit(dbc, a.deps.Base, u.ID, audit.ActionAdjustCredits, map[string]interface{}{
			"delta":   in.Delta,
			"balance": next,
			"reason":  strings.TrimSpace(in.Reason),
		}); err != nil {
			return err
		}
		out = domainagg.AdjustCreditsResult{UserID: u.ID, CreditsRemaining: next}
		return nil
	})
	return out, err
}

func (a *userAggregate) Delete(ctx context.Context, in domainagg.DeleteUserInput) (domainagg.DeleteUserResult, error) {
	const op = "Accounts.User.Delete"
	var out domainagg.DeleteUserResult

	if in.UserID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing user_id", nil)
	}
	if a.deps.Users == nil || !a.owned.configured() {
		return out, domainagg.NewError(domainagg.CodeInternal, op, "user aggregate repos not configured", nil)
	}
	policy := a.deps.Base.Policy.AuditOnUserDelete
	auditLogs := a.deps.Base.Audit

	err := executeWrite(ctx, a.deps.Base, op, func(dbc dbctx.Context) error {
		u, err := a.deps.Users.LockByID(dbc, in.UserID)
		if err != nil {
			return err
		}

		if policy == domainagg.AuditRestrict && auditLogs != nil {
			n, err := auditLogs.CountByUser(dbc, u.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return domainagg.NewError(domainagg.CodePreconditionFailed, op,
					fmt.Sprintf("user has %d audit rows and the audit policy is restrict", n), nil)
			}
		}

		docIDs, err := a.owned.Documents.IDsByUserID(dbc, u.ID)
		if err != nil {
			return err
		}
		counts, err := a.owned.deleteDocuments(dbc, docIDs)
		if err != nil {
			return err
		}
		if _, err := a.deps.Users.DeleteByID(dbc, u.ID); err != nil {
			return err
		}

		var affected int64
		if auditLogs != nil {
			switch policy {
			case domainagg.AuditNullify:
				affected, err = auditLogs.NullifyUser(dbc, u.ID)
			case domainagg.AuditCascade:
				affected, err = auditLogs.DeleteByUser(dbc, u.ID)
			case domainagg.AuditRetain:
				affected, err = auditLogs.CountByUser(dbc, u.ID)
			}
			if err != nil {
				return err
			}
		}

		// No user_id: the row must survive every policy.
		if err := recordAudit(dbc, a.deps.Base, uuid.Nil, audit.ActionDeleteUser, map[string]interface{}{
			"documents":       counts.Documents,
			"clauses":         counts.Clauses,
			"analyses":        counts.Analyses,
			"recommendations": counts.Recommendations,
			"audit_policy":    string(policy),
			"audit_affected":  affected,
		}); err != nil {
			return err
		}

		out = domainagg.DeleteUserResult{
			UserID:        u.ID,
			Deleted:       counts,
			AuditPolicy:   policy,
			AuditAffected: affected,
		}
		return nil
	})
	if err == nil {
		a.deps.Base.Log.Info("user deleted",
			"user_id", in.UserID.String(),
			"documents", out.Deleted.Documents,
			"audit_policy", string(policy),
		)
	}
	return out, err
}
