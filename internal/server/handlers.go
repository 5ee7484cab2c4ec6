package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/five82/playercard/internal/profile"
	"github.com/five82/playercard/internal/profileapi"
)

const maxBodyBytes = 4 << 10

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	rec, _ := accountFrom(r.Context())
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	rec, _ := accountFrom(r.Context())

	var req profileapi.UpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, profileapi.CodeBadRequest, "Malformed request body")
		return
	}

	handle := strings.TrimSpace(req.Handle)
	avatar := profile.AvatarID(strings.TrimSpace(req.Avatar))

	if err := profile.ValidateHandle(handle); err != nil {
		s.reject(w, rec, profileapi.CodeInvalidHandle, err.Error())
		return
	}
	if err := profile.ValidateAvatar(avatar); err != nil {
		s.reject(w, rec, profileapi.CodeInvalidAvatar, err.Error())
		return
	}
	if !s.catalog.Contains(avatar) {
		s.reject(w, rec, profileapi.CodeInvalidAvatar, "Unknown character")
		return
	}

	changed, err := s.repo.UpdateProfile(r.Context(), rec.ID, handle, avatar)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusUnauthorized, profileapi.CodeUnauthorized, "Unknown session")
			return
		}
		s.log.Error().Err(err).Str("event", "profile.update_failed").Str("profile_id", rec.ID).Msg("update failed")
		writeError(w, http.StatusInternalServerError, profileapi.CodeInternal, "")
		return
	}

	outcome := "unchanged"
	if changed {
		outcome = "changed"
	}
	profileUpdates.WithLabelValues(outcome).Inc()
	s.log.Info().
		Str("event", "profile.updated").
		Str("profile_id", rec.ID).
		Str("avatar", string(avatar)).
		Bool("changed", changed).
		Msg("profile updated")

	rec.Handle = handle
	rec.AvatarID = avatar
	writeJSON(w, http.StatusOK, toResponse(rec))
}

func (s *Server) reject(w http.ResponseWriter, rec profile.Record, code, message string) {
	profileUpdates.WithLabelValues("rejected").Inc()
	s.log.Info().Str("event", "profile.rejected").Str("profile_id", rec.ID).Str("code", code).Msg(message)
	writeError(w, http.StatusUnprocessableEntity, code, message)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	rec, _ := accountFrom(r.Context())
	eventID, err := s.repo.RecordSignOut(r.Context(), rec.ID)
	if err != nil {
		s.log.Error().Err(err).Str("event", "session.signout_failed").Str("profile_id", rec.ID).Msg("sign out failed")
		writeError(w, http.StatusInternalServerError, profileapi.CodeInternal, "")
		return
	}
	signOuts.Inc()
	s.log.Info().Str("event", "session.signed_out").Str("profile_id", rec.ID).Str("event_id", eventID).Msg("signed out")
	w.WriteHeader(http.StatusNoContent)
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func toResponse(rec profile.Record) profileapi.ProfileResponse {
	return profileapi.ProfileResponse{
		ID:     rec.ID,
		Email:  rec.Email,
		Handle: rec.Handle,
		Avatar: string(rec.AvatarID),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, profileapi.ErrorResponse{Error: code, Message: message})
}
