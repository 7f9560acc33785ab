package common

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/logging"
)

func GetResponseTime(init time.Time) string {
	timeDiff := time.Since(init).Milliseconds()
	return fmt.Sprintf("%dms", timeDiff)
}

// RespondAttachment sends a download. The toast for it travels in the
// X-Signal-* headers since the body is the file.
func RespondAttachment(w http.ResponseWriter, filename, contentType, toast string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Signal-Kind", string(constants.SignalSuccess))
	w.Header().Set("X-Signal-Message", url.QueryEscape(toast))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.Warn("Failed to write export", "filename", filename, "error", err.Error())
	}
}
