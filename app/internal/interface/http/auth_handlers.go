package http

import (
	"net/http"

	authuc "example.com/storefront/app/internal/usecase/auth"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// handleLogin also hands the anonymous cart over to the user when the
// request still carries its session id.
func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	result, err := a.authSvc.Login(r.Context(), authuc.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		SessionID: sessionFromRequest(r),
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := map[string]any{
		"token": result.Token,
		"user":  mapUser(result.User),
	}
	if t := result.Transfer; t != nil {
		resp["cart_transfer"] = map[string]int{
			"moved":  t.Moved,
			"merged": t.Merged,
			"failed": t.Failed,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
