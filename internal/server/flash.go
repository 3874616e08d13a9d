package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/goliatone/go-formquery/internal/logging"
	"github.com/goliatone/go-formquery/pkg/formquery"
)

// RejectedCookie carries the tokens dropped by a canonical redirect to the
// page it redirects to. It is read once and cleared.
const RejectedCookie = "formquery_rejected"

const (
	flashMaxAge    = 60
	flashMaxTokens = 16
	flashMaxToken  = 128
)

func setRejectedFlash(w http.ResponseWriter, rejected []formquery.Rejection) {
	if len(rejected) == 0 {
		return
	}
	if len(rejected) > flashMaxTokens {
		rejected = rejected[:flashMaxTokens]
	}
	trimmed := make([]formquery.Rejection, len(rejected))
	for i, rej := range rejected {
		if len(rej.Token) > flashMaxToken {
			rej.Token = rej.Token[:flashMaxToken]
		}
		trimmed[i] = rej
	}

	data, err := json.Marshal(trimmed)
	if err != nil {
		logging.Warn("server: encode rejected flash: %v", err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RejectedCookie,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		MaxAge:   flashMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeRejectedFlash returns the rejections stored by the previous redirect
// and expires the cookie.
func takeRejectedFlash(w http.ResponseWriter, r *http.Request) []formquery.Rejection {
	c, err := r.Cookie(RejectedCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RejectedCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		logging.Debug("server: malformed rejected flash: %v", err)
		return nil
	}
	var rejected []formquery.Rejection
	if err := json.Unmarshal(data, &rejected); err != nil {
		logging.Debug("server: malformed rejected flash: %v", err)
		return nil
	}
	return rejected
}
