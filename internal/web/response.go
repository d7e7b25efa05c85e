package web

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/desertthunder/songwall/internal/download"
	"github.com/desertthunder/songwall/internal/shared"
)

// HTTPSaver writes a blob into an HTTP response as an attachment.
type HTTPSaver struct {
	w       http.ResponseWriter
	written bool
}

// NewHTTPSaver creates an HTTPSaver bound to w.
func NewHTTPSaver(w http.ResponseWriter) *HTTPSaver {
	return &HTTPSaver{w: w}
}

// SaveBlobAsFile implements [download.Saver].
func (s *HTTPSaver) SaveBlobAsFile(blob download.Blob, filename string) error {
	contentType := blob.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}

	h := s.w.Header()
	h.Set("Content-Type", contentType)
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	h.Set("Content-Length", strconv.Itoa(blob.Size()))

	s.w.WriteHeader(http.StatusOK)
	s.written = true

	_, err := s.w.Write(blob.Data)
	return err
}

// Written reports whether the response status has been sent.
func (s *HTTPSaver) Written() bool { return s.written }

type toastEvent struct {
	Toast toastDetail `json:"toast"`
}

type toastDetail struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ToastNotifier answers a failed download with 502 and an HX-Trigger toast event.
//
// Once the paired saver has started the response the status can no longer change, so the notifier stays quiet.
type ToastNotifier struct {
	w     http.ResponseWriter
	saver *HTTPSaver
}

// NewToastNotifier creates a ToastNotifier for the same response as saver.
func NewToastNotifier(w http.ResponseWriter, saver *HTTPSaver) *ToastNotifier {
	return &ToastNotifier{w: w, saver: saver}
}

// Error implements [download.Notifier].
func (n *ToastNotifier) Error(message string) {
	if n.saver != nil && n.saver.Written() {
		return
	}

	if data, err := shared.MarshalJSON(toastEvent{Toast: toastDetail{Level: "error", Message: message}}, false); err == nil {
		n.w.Header().Set("HX-Trigger", string(data))
	}
	http.Error(n.w, message, http.StatusBadGateway)
}

var (
	_ download.Saver    = (*HTTPSaver)(nil)
	_ download.Notifier = (*ToastNotifier)(nil)
)
