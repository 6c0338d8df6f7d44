package handler

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/Rrens/chatrooms/internal/api/response"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/service"
)

const maxImageSize = 5 << 20

// UploadHandler handles image attachments
type UploadHandler struct {
	chat *service.ChatService
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(chat *service.ChatService) *UploadHandler {
	return &UploadHandler{chat: chat}
}

// UploadImage sends the "image" form file, with the optional "text" field,
// as one user message. The image is stored inline as a data URI.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.BadRequest(w, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "no image uploaded")
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		response.BadRequest(w, "image too large")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		response.InternalError(w, "failed to read image")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		response.BadRequest(w, "invalid file type. Allowed: image/*")
		return
	}

	msg, err := h.chat.Send(r.Context(), domain.MessageInput{
		Text:   r.FormValue("text"),
		Image:  DataURI(contentType, data),
		Sender: domain.SenderUser,
	})
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, msg)
}

// DataURI encodes data as a base64 data URI
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
