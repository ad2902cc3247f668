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

// OfferService runs every operation in one transaction; a failing step rolls
// back all writes of the call and its error is returned unchanged.
type OfferService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	lastOffersLimit int
}

func NewOfferService(db *sql.DB, m repomanager.RepositoryManager, lastOffersLimit int) *OfferService {
	return &OfferService{
		db:              db,
		repomanager:     m,
		lastOffersLimit: lastOffersLimit,
	}
}

func (s *OfferService) GetLastOffers(ctx context.Context) ([]*models.Offer, error) {
	var list []*models.Offer
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Offers(tx).GetLast(ctx, s.lastOffersLimit)
		if err != nil {
			return fmt.Errorf("error getting last offers: %w", err)
		}
		return nil
	})
	return list, err
}

func (s *OfferService) GetOfferByID(ctx context.Context, id int64) (*models.Offer, error) {
	var offer *models.Offer
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		offer, err = s.repomanager.Offers(tx).GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("error getting offer: %w", err)
		}
		return nil
	})
	return offer, err
}

func (s *OfferService) GetOffers(ctx context.Context, filter models.OfferFilter) ([]*models.Offer, error) {
	var list []*models.Offer
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Offers(tx).GetAll(ctx, filter)
		if err != nil {
			return fmt.Errorf("error getting offers: %w", err)
		}
		return nil
	})
	return list, err
}

// GetGivenOffers lists the offers of objects given to receiverID.
func (s *OfferService) GetGivenOffers(ctx context.Context, receiverID int64) ([]*models.Offer, error) {
	var list []*models.Offer
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		list, err = s.repomanager.Offers(tx).GetGiven(ctx, receiverID)
		if err != nil {
			return fmt.Errorf("error getting given offers: %w", err)
		}
		return nil
	})
	return list, err
}

// GetOfferTypes returns the default object types.
func (s *OfferService) GetOfferTypes(ctx context.Context) ([]*models.Type, error) {
	list, err := s.repomanager.Types(s.db).GetDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting types: %w", err)
	}
	return list, nil
}

// AddOffer publishes offer for offerorID. A new object (zero ID) is created
// first; an existing one must belong to offerorID, have no active offer and
// not be given, and goes back to available. The object type is resolved by
// name when the name is not blank (registering unknown names), else by id.
func (s *OfferService) AddOffer(ctx context.Context, offerorID int64, offer *models.Offer) (*models.Offer, error) {
	if offer.Object == nil {
		return nil, fmt.Errorf("%w: offer needs an object", common.ErrorBadInput)
	}
	if offer.Object.ID == 0 && offer.Object.Type == nil {
		return nil, fmt.Errorf("%w: a new object needs a type", common.ErrorBadInput)
	}

	var created *models.Offer
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if offer.Object.Type != nil {
			offer.Object.Type, err = s.resolveType(ctx, tx, offer.Object.Type)
			if err != nil {
				return err
			}
		}

		if offer.Object.ID == 0 {
			offer.Object.OfferorID = offerorID
			offer.Object.Status = models.ObjectStatusAvailable
			if _, err := s.repomanager.Objects(tx).Create(ctx, offer.Object); err != nil {
				return fmt.Errorf("%w: creating object: %w", common.ErrorFatal, err)
			}
		} else if err := s.reopenObject(ctx, tx, offerorID, offer.Object); err != nil {
			return err
		}

		created, err = s.repomanager.Offers(tx).Create(ctx, offer)
		if errors.Is(err, common.ErrorConflict) {
			return fmt.Errorf("object already has an active offer: %w", err)
		}
		if err != nil {
			return fmt.Errorf("%w: creating offer: %w", common.ErrorFatal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *OfferService) resolveType(ctx context.Context, tx dbx.DBTX, t *models.Type) (*models.Type, error) {
	repo := s.repomanager.Types(tx)

	if !common.IsBlank(t.Name) {
		found, err := repo.GetByName(ctx, t.Name)
		if err == nil {
			return found, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("error getting type: %w", err)
		}
		created, err := repo.Create(ctx, t.Name)
		if errors.Is(err, common.ErrorConflict) {
			// registered concurrently
			found, err = repo.GetByName(ctx, t.Name)
			if err != nil {
				return nil, fmt.Errorf("error getting type: %w", err)
			}
			return found, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: creating type: %w", common.ErrorFatal, err)
		}
		return created, nil
	}

	if t.ID == 0 {
		return nil, fmt.Errorf("%w: type name or id is required", common.ErrorBadInput)
	}
	found, err := repo.GetByID(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("error getting type: %w", err)
	}
	return found, nil
}

func (s *OfferService) reopenObject(ctx context.Context, tx dbx.DBTX, offerorID int64, object *models.Object) error {
	current, err := s.repomanager.Objects(tx).GetByID(ctx, object.ID)
	if err != nil {
		return fmt.Errorf("error getting object: %w", err)
	}
	if current.OfferorID != offerorID {
		return fmt.Errorf("%w: object belongs to another member", common.ErrorForbidden)
	}
	if current.Status == models.ObjectStatusGiven {
		return fmt.Errorf("%w: object was already given", common.ErrorConflict)
	}

	_, err = s.repomanager.Offers(tx).GetActiveByObject(ctx, object.ID)
	if err == nil {
		return fmt.Errorf("%w: object already has an active offer", common.ErrorConflict)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error getting active offer: %w", err)
	}

	object.OfferorID = offerorID
	object.Status = models.ObjectStatusAvailable
	if err := s.repomanager.Objects(tx).UpdateOne(ctx, object); err != nil {
		return fmt.Errorf("error updating object: %w", err)
	}

	if object.Type == nil {
		object.Type = current.Type
	}
	if common.IsBlank(object.Description) {
		object.Description = current.Description
	}
	if common.IsBlank(object.Image) {
		object.Image = current.Image
	}
	return nil
}

// UpdateOffer changes the time slot of an offer owned by memberID. A row that
// vanishes between the ownership check and the write is a fatal error.
func (s *OfferService) UpdateOffer(ctx context.Context, memberID, offerID int64, timeSlot string) (*models.Offer, error) {
	var updated *models.Offer
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Offers(tx)

		offer, err := s.ownedOffer(ctx, tx, memberID, offerID)
		if err != nil {
			return err
		}

		if err := repo.UpdateTimeSlot(ctx, offer.ID, timeSlot); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("%w: offer %d was not updated", common.ErrorFatal, offerID)
			}
			return fmt.Errorf("error updating offer: %w", err)
		}

		offer.TimeSlot = timeSlot
		updated = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CancelObject cancels the offer and its object and puts a previously
// assigned interest back to published, all or nothing.
func (s *OfferService) CancelObject(ctx context.Context, memberID, offerID int64) (*models.Offer, error) {
	var cancelled *models.Offer
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		offer, err := s.ownedOffer(ctx, tx, memberID, offerID)
		if err != nil {
			return err
		}
		if offer.Status == models.OfferStatusCancelled {
			return fmt.Errorf("%w: offer already cancelled", common.ErrorConflict)
		}
		if offer.Object.Status == models.ObjectStatusGiven {
			return fmt.Errorf("%w: object was already given", common.ErrorConflict)
		}

		if err := s.repomanager.Offers(tx).UpdateStatus(ctx, offer.ID, models.OfferStatusCancelled); err != nil {
			return fmt.Errorf("error cancelling offer: %w", err)
		}
		if err := s.repomanager.Objects(tx).UpdateStatus(ctx, offer.Object.ID, models.ObjectStatusCancelled); err != nil {
			return fmt.Errorf("error cancelling object: %w", err)
		}

		interests := s.repomanager.Interests(tx)
		assigned, err := interests.GetAssigned(ctx, offer.Object.ID)
		switch {
		case errors.Is(err, common.ErrorNotFound):
		case err != nil:
			return fmt.Errorf("error getting assigned interest: %w", err)
		default:
			err = interests.UpdateStatus(ctx, assigned.ObjectID, assigned.MemberID, models.InterestStatusPublished, false)
			if err != nil {
				return fmt.Errorf("error reverting interest: %w", err)
			}
		}

		offer.Status = models.OfferStatusCancelled
		offer.Object.Status = models.ObjectStatusCancelled
		cancelled = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

// MarkGiven records that the assigned object was picked up.
func (s *OfferService) MarkGiven(ctx context.Context, memberID, offerID int64) (*models.Offer, error) {
	var given *models.Offer
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		offer, err := s.ownedOffer(ctx, tx, memberID, offerID)
		if err != nil {
			return err
		}
		if offer.Object.Status != models.ObjectStatusAssigned {
			return fmt.Errorf("%w: object is %s, not assigned", common.ErrorConflict, offer.Object.Status)
		}

		if err := s.repomanager.Objects(tx).UpdateStatus(ctx, offer.Object.ID, models.ObjectStatusGiven); err != nil {
			return fmt.Errorf("error updating object: %w", err)
		}

		offer.Object.Status = models.ObjectStatusGiven
		given = offer
		return nil
	})
	if err != nil {
		return nil, err
	}
	return given, nil
}

func (s *OfferService) ownedOffer(ctx context.Context, tx dbx.DBTX, memberID, offerID int64) (*models.Offer, error) {
	offer, err := s.repomanager.Offers(tx).GetByID(ctx, offerID)
	if err != nil {
		return nil, fmt.Errorf("error getting offer: %w", err)
	}
	if offer.Object.OfferorID != memberID {
		return nil, fmt.Errorf("%w: offer belongs to another member", common.ErrorForbidden)
	}
	return offer, nil
}
