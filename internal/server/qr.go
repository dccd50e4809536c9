package server

import (
	"fmt"
	"net/http"

	qrcode "github.com/skip2/go-qrcode"
)

// handleRoomQR serves a QR image encoding the join link, for passing a
// phone around the table instead of spelling out the code.
func (s *Server) handleRoomQR(w http.ResponseWriter, r *http.Request, code string) {
	room, err := s.FindRoom(code)
	if err != nil {
		writeKindError(w, err)
		return
	}
	joinURL := fmt.Sprintf("%s/join/%s", s.cfg.PublicBaseURL, room.Code)
	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to render qr code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}
