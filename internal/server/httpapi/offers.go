package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

func (s *Server) getLastOffers(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Offers.GetLastOffers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getOfferTypes(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Offers.GetOfferTypes(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getOffers(w http.ResponseWriter, r *http.Request) {
	memberID, err := queryID(r, "member")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	filter := models.OfferFilter{
		Search:       q.Get("search"),
		MemberID:     memberID,
		Type:         q.Get("type"),
		ObjectStatus: q.Get("status"),
	}

	list, err := s.svc.Offers.GetOffers(r.Context(), filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getOffer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	offer, err := s.svc.Offers.GetOfferByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (s *Server) getGivenOffers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "idReceiver")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.svc.Offers.GetGivenOffers(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) addOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	offer, err := s.svc.Offers.AddOffer(r.Context(), currentMemberID(r), req.toModel())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Offer published", "offer", offer.ID, "object", offer.Object.ID)
	writeJSON(w, http.StatusCreated, offer)
}

func (s *Server) updateOffer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req updateOfferRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	offer, err := s.svc.Offers.UpdateOffer(r.Context(), currentMemberID(r), id, req.TimeSlot)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (s *Server) cancelObject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	offer, err := s.svc.Offers.CancelObject(r.Context(), currentMemberID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

func (s *Server) markGiven(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	offer, err := s.svc.Offers.MarkGiven(r.Context(), currentMemberID(r), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}
