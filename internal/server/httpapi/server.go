// Package httpapi exposes the donnamis services over a JSON HTTP API routed
// with chi. Handlers decode and validate requests, call one service method and
// map the outcome to a status code.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/donnamis/internal/logging"
	"github.com/dmitrijs2005/donnamis/internal/server/models"
	"github.com/dmitrijs2005/donnamis/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const shutdownTimeout = 5 * time.Second

type MemberService interface {
	Login(ctx context.Context, username, password string) (*models.Member, error)
	Register(ctx context.Context, member *models.Member) (*models.Member, error)
	GetMember(ctx context.Context, id int64) (*models.Member, error)
	GetMembers(ctx context.Context, search, status string) ([]*models.Member, error)
	UpdateMember(ctx context.Context, member *models.Member) (*models.Member, error)
	UpdatePicture(ctx context.Context, id int64, key string) (*models.Member, error)
	ConfirmRegistration(ctx context.Context, id int64) (*models.Member, error)
	DeclineRegistration(ctx context.Context, id int64, reason string) (*models.Member, error)
	PromoteAdministrator(ctx context.Context, id int64) (*models.Member, error)
}

type TokenService interface {
	IssueTokens(ctx context.Context, member *models.Member, rememberMe bool) (*services.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

type OfferService interface {
	GetLastOffers(ctx context.Context) ([]*models.Offer, error)
	GetOfferByID(ctx context.Context, id int64) (*models.Offer, error)
	GetOffers(ctx context.Context, filter models.OfferFilter) ([]*models.Offer, error)
	GetGivenOffers(ctx context.Context, receiverID int64) ([]*models.Offer, error)
	GetOfferTypes(ctx context.Context) ([]*models.Type, error)
	AddOffer(ctx context.Context, offerorID int64, offer *models.Offer) (*models.Offer, error)
	UpdateOffer(ctx context.Context, memberID, offerID int64, timeSlot string) (*models.Offer, error)
	CancelObject(ctx context.Context, memberID, offerID int64) (*models.Offer, error)
	MarkGiven(ctx context.Context, memberID, offerID int64) (*models.Offer, error)
}

type InterestService interface {
	GetInterest(ctx context.Context, objectID, memberID int64) (*models.Interest, error)
	AddOne(ctx context.Context, interest *models.Interest) (*models.Interest, error)
	AssignOffer(ctx context.Context, offerorID int64, interest *models.Interest) (*models.Interest, error)
	GetInterestedCount(ctx context.Context, objectID int64) ([]*models.Interest, error)
	GetInterestsOfMember(ctx context.Context, memberID int64) ([]*models.Interest, error)
	GetNotifications(ctx context.Context, memberID int64) ([]*models.Interest, error)
	MarkNotificationShown(ctx context.Context, objectID, memberID int64) error
}

type PictureService interface {
	PresignUpload(ctx context.Context) (string, string, error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

// Services groups the use cases the API serves.
type Services struct {
	Members   MemberService
	Tokens    TokenService
	Offers    OfferService
	Interests InterestService
	Pictures  PictureService
}

type Server struct {
	address   string
	logger    logging.Logger
	svc       Services
	jwtSecret []byte
	validate  *validator.Validate
	metrics   *metrics
}

func NewServer(a string, l logging.Logger, svc Services, secretKey string) *Server {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		svc:       svc,
		jwtSecret: []byte(secretKey),
		validate:  newValidator(),
		metrics:   newMetrics(),
	}
}

// Router builds the route tree. Everything but login, registration, token
// refresh, the landing page listings and the probes requires a bearer token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(s.metrics.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
	})
	r.Handle("/metrics", s.metrics.handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", s.login)
		r.Post("/register", s.register)
		r.Post("/refresh", s.refresh)
	})
	r.Get("/offers/last", s.getLastOffers)
	r.Get("/types", s.getOfferTypes)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/members", func(r chi.Router) {
			r.With(s.requireAdmin).Get("/", s.getMembers)
			r.Patch("/me", s.updateMe)
			r.Post("/me/picture", s.updatePicture)
			r.Post("/me/picture/upload-url", s.pictureUploadURL)
			r.Get("/{id}", s.getMember)
			r.Get("/{id}/picture", s.getPicture)
			r.With(s.requireAdmin).Post("/{id}/confirm", s.confirmRegistration)
			r.With(s.requireAdmin).Post("/{id}/decline", s.declineRegistration)
			r.With(s.requireAdmin).Post("/{id}/promote", s.promoteAdministrator)
		})

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", s.getOffers)
			r.Post("/", s.addOffer)
			r.Get("/given/{idReceiver}", s.getGivenOffers)
			r.Get("/{id}", s.getOffer)
			r.Patch("/{id}", s.updateOffer)
			r.Post("/{id}/cancel", s.cancelObject)
			r.Post("/{id}/given", s.markGiven)
		})

		r.Route("/interests", func(r chi.Router) {
			r.Post("/", s.addInterest)
			r.Get("/me", s.getMyInterests)
			r.Post("/assign", s.assignOffer)
			r.Get("/object/{idObject}", s.getInterestedCount)
			r.Get("/{idObject}/{idMember}", s.getInterest)
		})

		r.Get("/notifications", s.getNotifications)
		r.Post("/notifications/shown", s.markNotificationShown)
	})

	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
