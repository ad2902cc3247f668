package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/donnamis/internal/common"
	"github.com/dmitrijs2005/donnamis/internal/dbx"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/repomanager"
)

// InterestService records members' interest in objects, lets the offeror pick
// one of them and serves the resulting notices.
type InterestService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewInterestService(db *sql.DB, m repomanager.RepositoryManager) *InterestService {
	return &InterestService{
		db:          db,
		repomanager: m,
	}
}

// GetInterest returns nil, nil when the member has not shown interest yet.
func (s *InterestService) GetInterest(ctx context.Context, objectID, memberID int64) (*models.Interest, error) {
	in, err := s.repomanager.Interests(s.db).Get(ctx, objectID, memberID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting interest: %w", err)
	}
	return in, nil
}

// AddOne registers interest in an available object of another member. A second
// interest of the same member in the same object is a conflict.
func (s *InterestService) AddOne(ctx context.Context, interest *models.Interest) (*models.Interest, error) {
	var created *models.Interest
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		object, err := s.repomanager.Objects(tx).GetByID(ctx, interest.ObjectID)
		if err != nil {
			return fmt.Errorf("error getting object: %w", err)
		}
		if object.OfferorID == interest.MemberID {
			return fmt.Errorf("%w: members cannot claim their own objects", common.ErrorForbidden)
		}
		if object.Status != models.ObjectStatusAvailable {
			return fmt.Errorf("%w: object is %s", common.ErrorConflict, object.Status)
		}

		interest.Status = models.InterestStatusInterested
		created, err = s.repomanager.Interests(tx).Create(ctx, interest)
		if err != nil {
			return fmt.Errorf("error creating interest: %w", err)
		}
		created.Object = object
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AssignOffer gives the object to the member of interest. Only the offeror may
// assign, and only while no other interest of the object is assigned; the
// object becomes assigned in the same transaction and the member gets a notice.
func (s *InterestService) AssignOffer(ctx context.Context, offerorID int64, interest *models.Interest) (*models.Interest, error) {
	var assigned *models.Interest
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		objects := s.repomanager.Objects(tx)
		interests := s.repomanager.Interests(tx)

		object, err := objects.GetByID(ctx, interest.ObjectID)
		if err != nil {
			return fmt.Errorf("error getting object: %w", err)
		}
		if object.OfferorID != offerorID {
			return fmt.Errorf("%w: object belongs to another member", common.ErrorForbidden)
		}

		current, err := interests.GetAssigned(ctx, interest.ObjectID)
		if err == nil {
			return fmt.Errorf("%w: object already assigned to member %d", common.ErrorConflict, current.MemberID)
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error getting assigned interest: %w", err)
		}
		if object.Status != models.ObjectStatusAvailable {
			return fmt.Errorf("%w: object is %s", common.ErrorConflict, object.Status)
		}

		target, err := interests.Get(ctx, interest.ObjectID, interest.MemberID)
		if err != nil {
			return fmt.Errorf("error getting interest: %w", err)
		}

		if err := interests.UpdateStatus(ctx, target.ObjectID, target.MemberID, models.InterestStatusAssigned, false); err != nil {
			return fmt.Errorf("error assigning interest: %w", err)
		}
		if err := objects.UpdateStatus(ctx, object.ID, models.ObjectStatusAssigned); err != nil {
			return fmt.Errorf("error updating object: %w", err)
		}

		object.Status = models.ObjectStatusAssigned
		target.Status = models.InterestStatusAssigned
		target.NotificationShown = false
		target.Object = object
		assigned = target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

// GetInterestedCount lists the interests of an object in insertion order.
func (s *InterestService) GetInterestedCount(ctx context.Context, objectID int64) ([]*models.Interest, error) {
	list, err := s.repomanager.Interests(s.db).GetAllByObject(ctx, objectID)
	if err != nil {
		return nil, fmt.Errorf("error getting interests: %w", err)
	}
	return list, nil
}

func (s *InterestService) GetInterestsOfMember(ctx context.Context, memberID int64) ([]*models.Interest, error) {
	list, err := s.repomanager.Interests(s.db).GetByMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("error getting interests: %w", err)
	}
	return list, nil
}

func (s *InterestService) GetNotifications(ctx context.Context, memberID int64) ([]*models.Interest, error) {
	list, err := s.repomanager.Interests(s.db).GetNotifications(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("error getting notifications: %w", err)
	}
	return list, nil
}

// MarkNotificationShown acknowledges a notice; acknowledging twice succeeds.
func (s *InterestService) MarkNotificationShown(ctx context.Context, objectID, memberID int64) error {
	if err := s.repomanager.Interests(s.db).MarkNotificationShown(ctx, objectID, memberID); err != nil {
		return fmt.Errorf("error marking notification: %w", err)
	}
	return nil
}
