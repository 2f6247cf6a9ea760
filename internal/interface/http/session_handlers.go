package http

import (
	"net/http"
)

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
}

// handleCreateSession opens a new shopper session. The cart store itself is
// created lazily on the first cart request.
func (a *API) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID := a.sessions.NewID()
	token, err := a.tokenSvc.GenerateToken(sessionID)
	if err != nil {
		a.log.WithError(err).Error("generate session token")
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: sessionID, Token: token})
}
