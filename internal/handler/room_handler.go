/*
Package handler provides HTTP handler functions for read-only room lookups.
*/
package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"roomrelay/internal/pkg/errs"
	"roomrelay/internal/pkg/resp"
)

// HandleListRooms returns the labels of all non-empty rooms, sorted.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"rooms": deps.Users.Rooms(),
		})
	}
}

// HandleGetRoom returns the roster of one room. Rooms exist only while occupied, so an
// empty room answers ErrRoomNotFound.
func HandleGetRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		room := strings.TrimSpace(chi.URLParam(r, "room"))
		if room == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		view := deps.Relay.View()
		if !view.HasMembers(room) {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		resp.RespondSuccess(w, r, view.Roster(room))
	}
}
