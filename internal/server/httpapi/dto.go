package httpapi

import (
	"github.com/dmitrijs2005/donnamis/internal/server/models"
	"github.com/dmitrijs2005/donnamis/internal/server/services"
)

type loginRequest struct {
	Username   string `json:"username" validate:"required,max=50"`
	Password   string `json:"password" validate:"required,max=50"`
	RememberMe bool   `json:"rememberMe"`
}

type loginResponse struct {
	Member *models.Member `json:"member"`
	services.TokenPair
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type addressRequest struct {
	UnitNumber     string `json:"unitNumber" validate:"max=15"`
	BuildingNumber string `json:"buildingNumber" validate:"required,max=8"`
	Street         string `json:"street" validate:"required,max=50"`
	Postcode       string `json:"postcode" validate:"required,max=8"`
	Commune        string `json:"commune" validate:"required,max=50"`
	Country        string `json:"country" validate:"required,max=50"`
}

func (a *addressRequest) toModel() *models.Address {
	if a == nil {
		return nil
	}
	return &models.Address{
		UnitNumber:     a.UnitNumber,
		BuildingNumber: a.BuildingNumber,
		Street:         a.Street,
		Postcode:       a.Postcode,
		Commune:        a.Commune,
		Country:        a.Country,
	}
}

type registerRequest struct {
	Username  string          `json:"username" validate:"required,max=50"`
	Password  string          `json:"password" validate:"required,max=50"`
	Lastname  string          `json:"lastname" validate:"required,max=50"`
	Firstname string          `json:"firstname" validate:"required,max=50"`
	Phone     string          `json:"phone" validate:"omitempty,max=15,phone"`
	Address   *addressRequest `json:"address" validate:"required"`
}

func (req *registerRequest) toModel() *models.Member {
	return &models.Member{
		Username:  req.Username,
		Password:  req.Password,
		Lastname:  req.Lastname,
		Firstname: req.Firstname,
		Phone:     req.Phone,
		Address:   req.Address.toModel(),
	}
}

// addressPatch carries only the address fields being changed.
type addressPatch struct {
	UnitNumber     string `json:"unitNumber" validate:"max=15"`
	BuildingNumber string `json:"buildingNumber" validate:"max=8"`
	Street         string `json:"street" validate:"max=50"`
	Postcode       string `json:"postcode" validate:"max=8"`
	Commune        string `json:"commune" validate:"max=50"`
	Country        string `json:"country" validate:"max=50"`
}

type updateMemberRequest struct {
	Username  string        `json:"username" validate:"max=50"`
	Password  string        `json:"password" validate:"max=50"`
	Lastname  string        `json:"lastname" validate:"max=50"`
	Firstname string        `json:"firstname" validate:"max=50"`
	Phone     string        `json:"phone" validate:"omitempty,max=15,phone"`
	Address   *addressPatch `json:"address"`
}

func (req *updateMemberRequest) toModel(id int64) *models.Member {
	m := &models.Member{
		ID:        id,
		Username:  req.Username,
		Password:  req.Password,
		Lastname:  req.Lastname,
		Firstname: req.Firstname,
		Phone:     req.Phone,
	}
	if a := req.Address; a != nil {
		m.Address = &models.Address{
			UnitNumber:     a.UnitNumber,
			BuildingNumber: a.BuildingNumber,
			Street:         a.Street,
			Postcode:       a.Postcode,
			Commune:        a.Commune,
			Country:        a.Country,
		}
	}
	return m
}

type pictureRequest struct {
	Key string `json:"key" validate:"required,max=255"`
}

type uploadURLResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type declineRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

type typeRequest struct {
	ID   int64  `json:"id" validate:"gte=0"`
	Name string `json:"typeName" validate:"max=50"`
}

type objectRequest struct {
	ID          int64        `json:"id" validate:"gte=0"`
	Description string       `json:"description" validate:"max=255"`
	Image       string       `json:"image" validate:"max=255"`
	Type        *typeRequest `json:"type"`
}

type offerRequest struct {
	TimeSlot string         `json:"timeSlot" validate:"required,max=50"`
	Object   *objectRequest `json:"object" validate:"required"`
}

func (req *offerRequest) toModel() *models.Offer {
	o := &models.Object{
		ID:          req.Object.ID,
		Description: req.Object.Description,
		Image:       req.Object.Image,
	}
	if t := req.Object.Type; t != nil {
		o.Type = &models.Type{ID: t.ID, Name: t.Name}
	}
	return &models.Offer{TimeSlot: req.TimeSlot, Object: o}
}

type updateOfferRequest struct {
	TimeSlot string `json:"timeSlot" validate:"required,max=50"`
}

type interestRequest struct {
	ObjectID int64 `json:"idObject" validate:"required,gt=0"`
}

type assignRequest struct {
	ObjectID int64 `json:"idObject" validate:"required,gt=0"`
	MemberID int64 `json:"idMember" validate:"required,gt=0"`
}
