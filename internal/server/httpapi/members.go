package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/donnamis/internal/common"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	member, err := s.svc.Members.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	tokens, err := s.svc.Tokens.IssueTokens(r.Context(), member, req.RememberMe)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Logged in", "member", member.ID)
	writeJSON(w, http.StatusOK, loginResponse{Member: member, TokenPair: *tokens})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	member, err := s.svc.Members.Register(r.Context(), req.toModel())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", member.Username)
	writeJSON(w, http.StatusCreated, member)
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tokens, err := s.svc.Tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			err = fmt.Errorf("%w: unknown refresh token", common.ErrInvalidToken)
		}
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	member, err := s.svc.Members.GetMember(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) getMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := s.svc.Members.GetMembers(r.Context(), q.Get("search"), q.Get("status"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMemberRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	member, err := s.svc.Members.UpdateMember(r.Context(), req.toModel(currentMemberID(r)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) updatePicture(w http.ResponseWriter, r *http.Request) {
	var req pictureRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	member, err := s.svc.Members.UpdatePicture(r.Context(), currentMemberID(r), req.Key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) pictureUploadURL(w http.ResponseWriter, r *http.Request) {
	key, url, err := s.svc.Pictures.PresignUpload(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploadURLResponse{Key: key, URL: url})
}

// getPicture redirects to a short-lived download URL.
func (s *Server) getPicture(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	member, err := s.svc.Members.GetMember(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if common.IsBlank(member.Image) {
		s.writeError(w, r, fmt.Errorf("%w: member has no picture", common.ErrorNotFound))
		return
	}

	url, err := s.svc.Pictures.PresignDownload(r.Context(), member.Image)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *Server) confirmRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	member, err := s.svc.Members.ConfirmRegistration(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) declineRegistration(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req declineRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	member, err := s.svc.Members.DeclineRegistration(r.Context(), id, req.Reason)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (s *Server) promoteAdministrator(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	member, err := s.svc.Members.PromoteAdministrator(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}
