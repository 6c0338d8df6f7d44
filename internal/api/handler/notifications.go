package handler

import (
	"net/http"

	"github.com/Rrens/chatrooms/internal/api/response"
	"github.com/Rrens/chatrooms/internal/notify"
)

// ListNotifications returns the recent notices, oldest first
func ListNotifications(feed *notify.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, feed.Recent())
	}
}
