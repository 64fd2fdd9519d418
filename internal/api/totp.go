package api

import (
	"net/http"

	"github.com/pquerna/otp/totp"
)

// totpHeader carries the one-time code on mutating requests.
const totpHeader = "X-TOTP-Code"

// requireTOTP validates the request's one-time code when a secret is
// configured. Returns false after writing the error response.
func (s *Server) requireTOTP(w http.ResponseWriter, r *http.Request) bool {
	if s.deps.TOTPSecret == "" {
		return true
	}
	code := r.Header.Get(totpHeader)
	if code == "" || !totp.Validate(code, s.deps.TOTPSecret) {
		s.log.Warn("totp validation failed", "path", r.URL.Path, "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "valid "+totpHeader+" header required")
		return false
	}
	return true
}
