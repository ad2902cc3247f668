package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/donnamis/internal/logging"
	"github.com/dmitrijs2005/donnamis/internal/server/auth"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
	"github.com/dmitrijs2005/donnamis/internal/server/services"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// Stubs return whatever their function field returns; a nil field panics,
// which surfaces an unexpected call as a 500 from the recoverer.

type stubMembers struct {
	login    func(username, password string) (*models.Member, error)
	register func(m *models.Member) (*models.Member, error)
	get      func(id int64) (*models.Member, error)
	list     func(search, status string) ([]*models.Member, error)
	update   func(m *models.Member) (*models.Member, error)
	picture  func(id int64, key string) (*models.Member, error)
	confirm  func(id int64) (*models.Member, error)
	decline  func(id int64, reason string) (*models.Member, error)
	promote  func(id int64) (*models.Member, error)
}

func (s *stubMembers) Login(_ context.Context, u, p string) (*models.Member, error) { return s.login(u, p) }
func (s *stubMembers) Register(_ context.Context, m *models.Member) (*models.Member, error) {
	return s.register(m)
}
func (s *stubMembers) GetMember(_ context.Context, id int64) (*models.Member, error) { return s.get(id) }
func (s *stubMembers) GetMembers(_ context.Context, search, status string) ([]*models.Member, error) {
	return s.list(search, status)
}
func (s *stubMembers) UpdateMember(_ context.Context, m *models.Member) (*models.Member, error) {
	return s.update(m)
}
func (s *stubMembers) UpdatePicture(_ context.Context, id int64, key string) (*models.Member, error) {
	return s.picture(id, key)
}
func (s *stubMembers) ConfirmRegistration(_ context.Context, id int64) (*models.Member, error) {
	return s.confirm(id)
}
func (s *stubMembers) DeclineRegistration(_ context.Context, id int64, reason string) (*models.Member, error) {
	return s.decline(id, reason)
}
func (s *stubMembers) PromoteAdministrator(_ context.Context, id int64) (*models.Member, error) {
	return s.promote(id)
}

type stubTokens struct {
	issue   func(m *models.Member, rememberMe bool) (*services.TokenPair, error)
	refresh func(token string) (*services.TokenPair, error)
}

func (s *stubTokens) IssueTokens(_ context.Context, m *models.Member, rememberMe bool) (*services.TokenPair, error) {
	return s.issue(m, rememberMe)
}
func (s *stubTokens) Refresh(_ context.Context, token string) (*services.TokenPair, error) {
	return s.refresh(token)
}

type stubOffers struct {
	last    func() ([]*models.Offer, error)
	byID    func(id int64) (*models.Offer, error)
	list    func(f models.OfferFilter) ([]*models.Offer, error)
	given   func(receiverID int64) ([]*models.Offer, error)
	types   func() ([]*models.Type, error)
	add     func(offerorID int64, o *models.Offer) (*models.Offer, error)
	update  func(memberID, offerID int64, slot string) (*models.Offer, error)
	cancel  func(memberID, offerID int64) (*models.Offer, error)
	markGiv func(memberID, offerID int64) (*models.Offer, error)
}

func (s *stubOffers) GetLastOffers(context.Context) ([]*models.Offer, error) { return s.last() }
func (s *stubOffers) GetOfferByID(_ context.Context, id int64) (*models.Offer, error) {
	return s.byID(id)
}
func (s *stubOffers) GetOffers(_ context.Context, f models.OfferFilter) ([]*models.Offer, error) {
	return s.list(f)
}
func (s *stubOffers) GetGivenOffers(_ context.Context, id int64) ([]*models.Offer, error) {
	return s.given(id)
}
func (s *stubOffers) GetOfferTypes(context.Context) ([]*models.Type, error) { return s.types() }
func (s *stubOffers) AddOffer(_ context.Context, offerorID int64, o *models.Offer) (*models.Offer, error) {
	return s.add(offerorID, o)
}
func (s *stubOffers) UpdateOffer(_ context.Context, memberID, offerID int64, slot string) (*models.Offer, error) {
	return s.update(memberID, offerID, slot)
}
func (s *stubOffers) CancelObject(_ context.Context, memberID, offerID int64) (*models.Offer, error) {
	return s.cancel(memberID, offerID)
}
func (s *stubOffers) MarkGiven(_ context.Context, memberID, offerID int64) (*models.Offer, error) {
	return s.markGiv(memberID, offerID)
}

type stubInterests struct {
	get      func(objectID, memberID int64) (*models.Interest, error)
	add      func(in *models.Interest) (*models.Interest, error)
	assign   func(offerorID int64, in *models.Interest) (*models.Interest, error)
	byObject func(objectID int64) ([]*models.Interest, error)
	byMember func(memberID int64) ([]*models.Interest, error)
	notices  func(memberID int64) ([]*models.Interest, error)
	shown    func(objectID, memberID int64) error
}

func (s *stubInterests) GetInterest(_ context.Context, o, m int64) (*models.Interest, error) {
	return s.get(o, m)
}
func (s *stubInterests) AddOne(_ context.Context, in *models.Interest) (*models.Interest, error) {
	return s.add(in)
}
func (s *stubInterests) AssignOffer(_ context.Context, offerorID int64, in *models.Interest) (*models.Interest, error) {
	return s.assign(offerorID, in)
}
func (s *stubInterests) GetInterestedCount(_ context.Context, o int64) ([]*models.Interest, error) {
	return s.byObject(o)
}
func (s *stubInterests) GetInterestsOfMember(_ context.Context, m int64) ([]*models.Interest, error) {
	return s.byMember(m)
}
func (s *stubInterests) GetNotifications(_ context.Context, m int64) ([]*models.Interest, error) {
	return s.notices(m)
}
func (s *stubInterests) MarkNotificationShown(_ context.Context, o, m int64) error {
	return s.shown(o, m)
}

type stubPictures struct {
	upload   func() (string, string, error)
	download func(key string) (string, error)
}

func (s *stubPictures) PresignUpload(context.Context) (string, string, error) { return s.upload() }
func (s *stubPictures) PresignDownload(_ context.Context, key string) (string, error) {
	return s.download(key)
}

type testAPI struct {
	members   *stubMembers
	tokens    *stubTokens
	offers    *stubOffers
	interests *stubInterests
	pictures  *stubPictures
	handler   http.Handler
}

func newTestAPI() *testAPI {
	a := &testAPI{
		members:   &stubMembers{},
		tokens:    &stubTokens{},
		offers:    &stubOffers{},
		interests: &stubInterests{},
		pictures:  &stubPictures{},
	}
	srv := NewServer(":0", logging.Discard(), Services{
		Members:   a.members,
		Tokens:    a.tokens,
		Offers:    a.offers,
		Interests: a.interests,
		Pictures:  a.pictures,
	}, testSecret)
	a.handler = srv.Router()
	return a
}

func bearer(t *testing.T, memberID int64, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(memberID, role, []byte(testSecret), time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok
}

// do sends body (if any) as JSON with an optional Authorization header.
func (a *testAPI) do(method, path, body, authorization string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	return rr
}
