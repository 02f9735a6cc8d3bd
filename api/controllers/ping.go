package controllers

import (
	"net/http"

	"github.com/angelmondragon/packfinderz-simulator/api/middleware"
	"github.com/angelmondragon/packfinderz-simulator/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if clientID := middleware.ClientIDFromContext(r.Context()); clientID != "" {
			payload["client_id"] = clientID
		}
		responses.WriteSuccess(w, payload)
	}
}
