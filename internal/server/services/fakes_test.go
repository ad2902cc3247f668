package services

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/donnamis/internal/common"
	"github.com/dmitrijs2005/donnamis/internal/dbx"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/interests"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/members"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/objects"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/offers"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/donnamis/internal/server/repositories/types"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

// memStore is an in-memory stand-in for the database shared by the fake
// repositories. errs injects a failure per "Repo.Method". enter takes the
// lock; callers release it.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	members   map[int64]*models.Member
	types     map[int64]*models.Type
	objects   map[int64]*models.Object
	offers    map[int64]*models.Offer
	interests []*models.Interest
	tokens    map[string]*models.RefreshToken
	errs      map[string]error

	// hooks run before the named method takes the lock.
	hooks map[string]func()
}

func newMemStore() *memStore {
	return &memStore{
		members: map[int64]*models.Member{},
		types:   map[int64]*models.Type{},
		objects: map[int64]*models.Object{},
		offers:  map[int64]*models.Offer{},
		tokens:  map[string]*models.RefreshToken{},
		errs:    map[string]error{},
		hooks:   map[string]func(){},
	}
}

func (s *memStore) enter(op string) error {
	if h := s.hooks[op]; h != nil {
		h()
	}
	s.mu.Lock()
	return s.errs[op]
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addMember(m models.Member) *models.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	s.members[m.ID] = &m
	return &m
}

func (s *memStore) addType(name string, isDefault bool) *models.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &models.Type{ID: s.id(), Name: name, IsDefault: isDefault}
	s.types[t.ID] = t
	return t
}

func (s *memStore) addObject(o models.Object) *models.Object {
	s.mu.Lock()
	defer s.mu.Unlock()
	o.ID = s.id()
	s.objects[o.ID] = &o
	return &o
}

func (s *memStore) addOffer(objectID int64, status string) *models.Offer {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := &models.Offer{ID: s.id(), Date: time.Now(), TimeSlot: "matin", Status: status, Object: &models.Object{ID: objectID}}
	s.offers[f.ID] = f
	return f
}

func (s *memStore) addInterest(objectID, memberID int64, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interests = append(s.interests, &models.Interest{
		ObjectID: objectID, MemberID: memberID, Status: status, NotificationShown: true, CreatedAt: time.Now(),
	})
}

func (s *memStore) interest(objectID, memberID int64) *models.Interest {
	for _, in := range s.interests {
		if in.ObjectID == objectID && in.MemberID == memberID {
			return in
		}
	}
	return nil
}

func (s *memStore) objectCopy(id int64) *models.Object {
	o := *s.objects[id]
	if o.Type != nil {
		if t, ok := s.types[o.Type.ID]; ok {
			c := *t
			o.Type = &c
		}
	}
	return &o
}

func (s *memStore) offerCopy(f *models.Offer) *models.Offer {
	c := *f
	c.Object = s.objectCopy(f.Object.ID)
	return &c
}

// --- members ---

type fakeMembersRepo struct{ s *memStore }

var _ members.Repository = (*fakeMembersRepo)(nil)

func (r *fakeMembersRepo) GetByUsername(ctx context.Context, username string) (*models.Member, error) {
	err := r.s.enter("Members.GetByUsername")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, m := range r.s.members {
		if m.Username == username {
			c := *m
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeMembersRepo) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	err := r.s.enter("Members.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m, ok := r.s.members[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *m
	return &c, nil
}

func (r *fakeMembersRepo) GetAll(ctx context.Context, search, status string) ([]*models.Member, error) {
	err := r.s.enter("Members.GetAll")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*models.Member{}
	for _, m := range r.s.members {
		if status != "" && m.Status != status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(m.Username), strings.ToLower(search)) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMembersRepo) Create(ctx context.Context, member *models.Member) (*models.Member, error) {
	err := r.s.enter("Members.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, m := range r.s.members {
		if m.Username == member.Username {
			return nil, common.ErrorConflict
		}
	}
	member.ID = r.s.id()
	c := *member
	r.s.members[c.ID] = &c
	return member, nil
}

func (r *fakeMembersRepo) UpdateOne(ctx context.Context, member *models.Member) (*models.Member, error) {
	err := r.s.enter("Members.UpdateOne")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m, ok := r.s.members[member.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	n := 0
	set := func(dst *string, v string) {
		if !common.IsBlank(v) {
			*dst = v
			n++
		}
	}
	set(&m.Username, member.Username)
	set(&m.Lastname, member.Lastname)
	set(&m.Firstname, member.Firstname)
	set(&m.Status, member.Status)
	set(&m.Role, member.Role)
	set(&m.Phone, member.Phone)
	set(&m.Password, member.Password)
	set(&m.Image, member.Image)
	set(&m.RefusalReason, member.RefusalReason)
	if n == 0 {
		return nil, common.ErrorNothingToUpdate
	}
	c := *m
	return &c, nil
}

func (r *fakeMembersRepo) UpdateStatus(ctx context.Context, id int64, status, refusalReason string) (*models.Member, error) {
	err := r.s.enter("Members.UpdateStatus")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	m, ok := r.s.members[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	m.Status = status
	m.RefusalReason = refusalReason
	c := *m
	return &c, nil
}

// --- types ---

type fakeTypesRepo struct{ s *memStore }

var _ types.Repository = (*fakeTypesRepo)(nil)

func (r *fakeTypesRepo) GetByID(ctx context.Context, id int64) (*models.Type, error) {
	err := r.s.enter("Types.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, ok := r.s.types[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeTypesRepo) GetByName(ctx context.Context, name string) (*models.Type, error) {
	err := r.s.enter("Types.GetByName")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, t := range r.s.types {
		if t.Name == name {
			c := *t
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeTypesRepo) GetDefaults(ctx context.Context) ([]*models.Type, error) {
	err := r.s.enter("Types.GetDefaults")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := []*models.Type{}
	for _, t := range r.s.types {
		if t.IsDefault {
			c := *t
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeTypesRepo) Create(ctx context.Context, name string) (*models.Type, error) {
	err := r.s.enter("Types.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, t := range r.s.types {
		if t.Name == name {
			return nil, common.ErrorConflict
		}
	}
	t := &models.Type{ID: r.s.id(), Name: name}
	r.s.types[t.ID] = t
	c := *t
	return &c, nil
}

// --- objects ---

type fakeObjectsRepo struct{ s *memStore }

var _ objects.Repository = (*fakeObjectsRepo)(nil)

func (r *fakeObjectsRepo) GetByID(ctx context.Context, id int64) (*models.Object, error) {
	err := r.s.enter("Objects.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if _, ok := r.s.objects[id]; !ok {
		return nil, common.ErrorNotFound
	}
	return r.s.objectCopy(id), nil
}

func (r *fakeObjectsRepo) Create(ctx context.Context, object *models.Object) (*models.Object, error) {
	err := r.s.enter("Objects.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	object.ID = r.s.id()
	c := *object
	r.s.objects[c.ID] = &c
	return object, nil
}

func (r *fakeObjectsRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	err := r.s.enter("Objects.UpdateStatus")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	o, ok := r.s.objects[id]
	if !ok {
		return common.ErrorNotFound
	}
	o.Status = status
	return nil
}

func (r *fakeObjectsRepo) UpdateOne(ctx context.Context, object *models.Object) error {
	err := r.s.enter("Objects.UpdateOne")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	o, ok := r.s.objects[object.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if object.Description != "" {
		o.Description = object.Description
	}
	if object.Status != "" {
		o.Status = object.Status
	}
	if object.Image != "" {
		o.Image = object.Image
	}
	if object.Type != nil && object.Type.ID != 0 {
		o.Type = &models.Type{ID: object.Type.ID}
	}
	return nil
}

// --- offers ---

type fakeOffersRepo struct{ s *memStore }

var _ offers.Repository = (*fakeOffersRepo)(nil)

func (r *fakeOffersRepo) GetByID(ctx context.Context, id int64) (*models.Offer, error) {
	err := r.s.enter("Offers.GetByID")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	f, ok := r.s.offers[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.s.offerCopy(f), nil
}

func (r *fakeOffersRepo) list(keep func(*models.Offer) bool) []*models.Offer {
	out := []*models.Offer{}
	for _, f := range r.s.offers {
		if keep(f) {
			out = append(out, r.s.offerCopy(f))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeOffersRepo) GetLast(ctx context.Context, limit int) ([]*models.Offer, error) {
	err := r.s.enter("Offers.GetLast")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := r.list(func(f *models.Offer) bool { return f.Status == models.OfferStatusPublished })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeOffersRepo) GetAll(ctx context.Context, filter models.OfferFilter) ([]*models.Offer, error) {
	err := r.s.enter("Offers.GetAll")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.list(func(f *models.Offer) bool {
		o := r.s.objects[f.Object.ID]
		return filter.MemberID == 0 || o.OfferorID == filter.MemberID
	}), nil
}

func (r *fakeOffersRepo) GetGiven(ctx context.Context, receiverID int64) ([]*models.Offer, error) {
	err := r.s.enter("Offers.GetGiven")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.list(func(f *models.Offer) bool {
		in := r.s.interest(f.Object.ID, receiverID)
		return in != nil && in.Status == models.InterestStatusAssigned &&
			r.s.objects[f.Object.ID].Status == models.ObjectStatusGiven
	}), nil
}

func (r *fakeOffersRepo) GetActiveByObject(ctx context.Context, objectID int64) (*models.Offer, error) {
	err := r.s.enter("Offers.GetActiveByObject")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, f := range r.s.offers {
		if f.Object.ID == objectID && f.Status != models.OfferStatusCancelled {
			return r.s.offerCopy(f), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeOffersRepo) Create(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	err := r.s.enter("Offers.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, f := range r.s.offers {
		if f.Object.ID == offer.Object.ID && f.Status != models.OfferStatusCancelled {
			return nil, common.ErrorConflict
		}
	}
	offer.ID = r.s.id()
	offer.Status = models.OfferStatusPublished
	if offer.Date.IsZero() {
		offer.Date = time.Now()
	}
	c := *offer
	c.Object = &models.Object{ID: offer.Object.ID}
	r.s.offers[c.ID] = &c
	return offer, nil
}

func (r *fakeOffersRepo) UpdateTimeSlot(ctx context.Context, id int64, timeSlot string) error {
	err := r.s.enter("Offers.UpdateTimeSlot")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if common.IsBlank(timeSlot) {
		return common.ErrorNothingToUpdate
	}
	f, ok := r.s.offers[id]
	if !ok {
		return common.ErrorNotFound
	}
	f.TimeSlot = timeSlot
	return nil
}

func (r *fakeOffersRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	err := r.s.enter("Offers.UpdateStatus")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	f, ok := r.s.offers[id]
	if !ok {
		return common.ErrorNotFound
	}
	f.Status = status
	return nil
}

// --- interests ---

type fakeInterestsRepo struct{ s *memStore }

var _ interests.Repository = (*fakeInterestsRepo)(nil)

func (r *fakeInterestsRepo) Get(ctx context.Context, objectID, memberID int64) (*models.Interest, error) {
	err := r.s.enter("Interests.Get")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	in := r.s.interest(objectID, memberID)
	if in == nil {
		return nil, common.ErrorNotFound
	}
	c := *in
	return &c, nil
}

func (r *fakeInterestsRepo) Create(ctx context.Context, interest *models.Interest) (*models.Interest, error) {
	err := r.s.enter("Interests.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if r.s.interest(interest.ObjectID, interest.MemberID) != nil {
		return nil, fmt.Errorf("db error: %w: duplicate key", common.ErrorConflict)
	}
	interest.NotificationShown = true
	interest.CreatedAt = time.Now()
	c := *interest
	r.s.interests = append(r.s.interests, &c)
	return interest, nil
}

func (r *fakeInterestsRepo) filter(keep func(*models.Interest) bool, withObject bool) []*models.Interest {
	out := []*models.Interest{}
	for _, in := range r.s.interests {
		if keep(in) {
			c := *in
			if withObject {
				c.Object = r.s.objectCopy(in.ObjectID)
			}
			out = append(out, &c)
		}
	}
	return out
}

func (r *fakeInterestsRepo) GetAllByObject(ctx context.Context, objectID int64) ([]*models.Interest, error) {
	err := r.s.enter("Interests.GetAllByObject")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.filter(func(in *models.Interest) bool { return in.ObjectID == objectID }, false), nil
}

func (r *fakeInterestsRepo) GetAssigned(ctx context.Context, objectID int64) (*models.Interest, error) {
	err := r.s.enter("Interests.GetAssigned")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, in := range r.s.interests {
		if in.ObjectID == objectID && in.Status == models.InterestStatusAssigned {
			c := *in
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *fakeInterestsRepo) GetByMember(ctx context.Context, memberID int64) ([]*models.Interest, error) {
	err := r.s.enter("Interests.GetByMember")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.filter(func(in *models.Interest) bool { return in.MemberID == memberID }, true), nil
}

func (r *fakeInterestsRepo) GetNotifications(ctx context.Context, memberID int64) ([]*models.Interest, error) {
	err := r.s.enter("Interests.GetNotifications")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return r.filter(func(in *models.Interest) bool {
		return in.MemberID == memberID && !in.NotificationShown &&
			(in.Status == models.InterestStatusAssigned || in.Status == models.InterestStatusPublished)
	}, true), nil
}

// UpdateStatus refuses a second assigned interest per object, like the
// partial unique index does.
func (r *fakeInterestsRepo) UpdateStatus(ctx context.Context, objectID, memberID int64, status string, notificationShown bool) error {
	err := r.s.enter("Interests.UpdateStatus")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	in := r.s.interest(objectID, memberID)
	if in == nil {
		return common.ErrorNotFound
	}
	if status == models.InterestStatusAssigned {
		for _, other := range r.s.interests {
			if other != in && other.ObjectID == objectID && other.Status == models.InterestStatusAssigned {
				return fmt.Errorf("db error: %w: interests_one_assigned_per_object", common.ErrorConflict)
			}
		}
	}
	in.Status = status
	in.NotificationShown = notificationShown
	return nil
}

func (r *fakeInterestsRepo) MarkNotificationShown(ctx context.Context, objectID, memberID int64) error {
	err := r.s.enter("Interests.MarkNotificationShown")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	in := r.s.interest(objectID, memberID)
	if in == nil {
		return common.ErrorNotFound
	}
	in.NotificationShown = true
	return nil
}

// --- refresh tokens ---

type fakeRefreshRepo struct{ s *memStore }

var _ refreshtokens.Repository = (*fakeRefreshRepo)(nil)

func (r *fakeRefreshRepo) Create(ctx context.Context, memberID int64, token string, validity time.Duration) error {
	err := r.s.enter("RefreshTokens.Create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.tokens[token] = &models.RefreshToken{ID: r.s.id(), MemberID: memberID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	err := r.s.enter("RefreshTokens.Find")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	t, ok := r.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (r *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	err := r.s.enter("RefreshTokens.Delete")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	delete(r.s.tokens, token)
	return nil
}

// --- manager ---

type fakeRepoManager struct{ s *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Members(dbx.DBTX) members.Repository         { return &fakeMembersRepo{m.s} }
func (m *fakeRepoManager) Types(dbx.DBTX) types.Repository             { return &fakeTypesRepo{m.s} }
func (m *fakeRepoManager) Objects(dbx.DBTX) objects.Repository         { return &fakeObjectsRepo{m.s} }
func (m *fakeRepoManager) Offers(dbx.DBTX) offers.Repository           { return &fakeOffersRepo{m.s} }
func (m *fakeRepoManager) Interests(dbx.DBTX) interests.Repository     { return &fakeInterestsRepo{m.s} }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return &fakeRefreshRepo{m.s}
}
