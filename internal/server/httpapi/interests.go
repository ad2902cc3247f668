package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/donnamis/internal/server/models"
)

// getInterest answers null when the member has not shown interest yet.
func (s *Server) getInterest(w http.ResponseWriter, r *http.Request) {
	objectID, err := pathID(r, "idObject")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	memberID, err := pathID(r, "idMember")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := s.svc.Interests.GetInterest(r.Context(), objectID, memberID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) addInterest(w http.ResponseWriter, r *http.Request) {
	var req interestRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := s.svc.Interests.AddOne(r.Context(), &models.Interest{ObjectID: req.ObjectID, MemberID: currentMemberID(r)})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) assignOffer(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := s.svc.Interests.AssignOffer(r.Context(), currentMemberID(r), &models.Interest{ObjectID: req.ObjectID, MemberID: req.MemberID})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Object assigned", "object", in.ObjectID, "member", in.MemberID)
	writeJSON(w, http.StatusOK, in)
}

func (s *Server) getInterestedCount(w http.ResponseWriter, r *http.Request) {
	objectID, err := pathID(r, "idObject")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	list, err := s.svc.Interests.GetInterestedCount(r.Context(), objectID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getMyInterests(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Interests.GetInterestsOfMember(r.Context(), currentMemberID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) getNotifications(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Interests.GetNotifications(r.Context(), currentMemberID(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) markNotificationShown(w http.ResponseWriter, r *http.Request) {
	var req interestRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.svc.Interests.MarkNotificationShown(r.Context(), req.ObjectID, currentMemberID(r)); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
