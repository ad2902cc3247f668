// Package services holds the use cases of the server. Every service composes
// repositories vended by a repomanager.RepositoryManager; operations that touch
// more than one row run inside dbx.WithTx so they commit or roll back as one.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/donnamis/internal/common"
	"github.com/dmitrijs2005/donnamis/internal/dbx"
	"github.com/dmitrijs2005/donnamis/internal/server/auth"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/repomanager"
)

// MemberService covers login, registration, profile edits and the admin
// approval workflow.
type MemberService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    auth.CredentialVerifier
}

func NewMemberService(db *sql.DB, m repomanager.RepositoryManager, verifier auth.CredentialVerifier) *MemberService {
	return &MemberService{
		db:          db,
		repomanager: m,
		verifier:    verifier,
	}
}

// Login returns the member when the password matches and the account is
// valid. Unknown username: ErrorNotFound. Wrong password: ErrorForbidden.
// Pending or denied account: ErrorUnauthorized, carrying the refusal reason.
func (s *MemberService) Login(ctx context.Context, username, password string) (*models.Member, error) {
	member, err := s.repomanager.Members(s.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error getting member: %w", err)
	}

	ok, err := s.verifier.Verify(password, member.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: verifying password: %w", common.ErrorFatal, err)
	}
	if !ok {
		return nil, common.ErrorForbidden
	}

	switch member.Status {
	case models.MemberStatusDenied:
		return nil, fmt.Errorf("%w: registration denied: %s", common.ErrorUnauthorized, member.RefusalReason)
	case models.MemberStatusPending:
		return nil, fmt.Errorf("%w: registration pending", common.ErrorUnauthorized)
	}
	return member, nil
}

// Register stores a new pending member. A taken username yields
// ErrorAlreadyExists and writes nothing.
func (s *MemberService) Register(ctx context.Context, member *models.Member) (*models.Member, error) {
	hash, err := s.hashPassword(member.Password)
	if err != nil {
		return nil, err
	}

	var created *models.Member
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Members(tx)

		_, err := repo.GetByUsername(ctx, member.Username)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error checking username: %w", err)
		}

		member.Password = hash
		member.Status = models.MemberStatusPending
		member.Role = models.RoleMember
		member.RefusalReason = ""

		created, err = repo.Create(ctx, member)
		if err != nil {
			if errors.Is(err, common.ErrorConflict) {
				return common.ErrorAlreadyExists
			}
			return fmt.Errorf("%w: creating member: %w", common.ErrorFatal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *MemberService) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	member, err := s.repomanager.Members(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting member: %w", err)
	}
	return member, nil
}

// GetMembers never fails on an empty result.
func (s *MemberService) GetMembers(ctx context.Context, search, status string) ([]*models.Member, error) {
	list, err := s.repomanager.Members(s.db).GetAll(ctx, search, status)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	return list, nil
}

// UpdateMember applies a self-service profile edit. Status, role and refusal
// reason are not editable this way; a new password is hashed first.
func (s *MemberService) UpdateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	member.Status = ""
	member.Role = ""
	member.RefusalReason = ""

	if !common.IsBlank(member.Password) {
		hash, err := s.hashPassword(member.Password)
		if err != nil {
			return nil, err
		}
		member.Password = hash
	}

	var updated *models.Member
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		updated, err = s.repomanager.Members(tx).UpdateOne(ctx, member)
		if err != nil {
			return fmt.Errorf("error updating member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdatePicture records the storage key of the member's uploaded picture.
func (s *MemberService) UpdatePicture(ctx context.Context, id int64, key string) (*models.Member, error) {
	if common.IsBlank(key) {
		return nil, fmt.Errorf("%w: empty picture key", common.ErrorBadInput)
	}
	member, err := s.repomanager.Members(s.db).UpdateOne(ctx, &models.Member{ID: id, Image: key})
	if err != nil {
		return nil, fmt.Errorf("error updating picture: %w", err)
	}
	return member, nil
}

// ConfirmRegistration makes a pending or denied member valid.
func (s *MemberService) ConfirmRegistration(ctx context.Context, id int64) (*models.Member, error) {
	return s.transition(ctx, id, func(repoMember *models.Member) error {
		if repoMember.Status == models.MemberStatusValid {
			return fmt.Errorf("%w: member already confirmed", common.ErrorConflict)
		}
		return nil
	}, models.MemberStatusValid, "")
}

// DeclineRegistration denies a pending member. The reason is mandatory and is
// shown to the member on the next login attempt.
func (s *MemberService) DeclineRegistration(ctx context.Context, id int64, reason string) (*models.Member, error) {
	if common.IsBlank(reason) {
		return nil, fmt.Errorf("%w: refusal reason is required", common.ErrorBadInput)
	}
	return s.transition(ctx, id, func(repoMember *models.Member) error {
		if repoMember.Status != models.MemberStatusPending {
			return fmt.Errorf("%w: only pending registrations can be declined", common.ErrorConflict)
		}
		return nil
	}, models.MemberStatusDenied, reason)
}

// PromoteAdministrator grants the admin role to a valid member.
func (s *MemberService) PromoteAdministrator(ctx context.Context, id int64) (*models.Member, error) {
	var promoted *models.Member
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Members(tx)

		m, err := repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("error getting member: %w", err)
		}
		if m.Status != models.MemberStatusValid {
			return fmt.Errorf("%w: only valid members can be promoted", common.ErrorConflict)
		}
		if m.IsAdmin() {
			promoted = m
			return nil
		}

		promoted, err = repo.UpdateOne(ctx, &models.Member{ID: id, Role: models.RoleAdmin})
		if err != nil {
			return fmt.Errorf("error promoting member: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promoted, nil
}

func (s *MemberService) transition(ctx context.Context, id int64, check func(*models.Member) error, status, reason string) (*models.Member, error) {
	var updated *models.Member
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Members(tx)

		m, err := repo.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("error getting member: %w", err)
		}
		if err := check(m); err != nil {
			return err
		}

		updated, err = repo.UpdateStatus(ctx, id, status, reason)
		if err != nil {
			return fmt.Errorf("error updating member status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *MemberService) hashPassword(password string) (string, error) {
	hash, err := s.verifier.Hash(password)
	if errors.Is(err, common.ErrorBadInput) {
		return "", err
	}
	if err != nil {
		return "", fmt.Errorf("%w: hashing password: %w", common.ErrorFatal, err)
	}
	return hash, nil
}
