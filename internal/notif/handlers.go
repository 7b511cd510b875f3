package notif

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"mealmate/internal/common"
	"mealmate/internal/config"

	"github.com/gorilla/mux"
)

// HTTPHandler is the backend surface the mobile client talks to. All
// routes are scoped to the authenticated caller via the JWT middleware.
type HTTPHandler struct {
	service *Service
	cfg     *config.Config
}

func NewHTTPHandler(service *Service, cfg *config.Config) *HTTPHandler {
	return &HTTPHandler{
		service: service,
		cfg:     cfg,
	}
}

func (h *HTTPHandler) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", h.health).Methods("GET")

	api := router.PathPrefix("/notifications").Subrouter()
	api.Use(common.AuthMiddleware)

	api.HandleFunc("", h.list).Methods("GET")
	api.HandleFunc("", h.deleteNotifications).Methods("DELETE")
	api.HandleFunc("/mark-read", h.markRead).Methods("PUT")
	api.HandleFunc("/preferences", h.getPreferences).Methods("GET")
	api.HandleFunc("/preferences", h.updatePreferences).Methods("PUT")
	api.HandleFunc("/register-token", h.registerToken).Methods("POST")
	api.HandleFunc("/test", h.sendTest).Methods("POST")
	api.HandleFunc("/check-pantry", h.checkPantry).Methods("POST")
	api.HandleFunc("/check-grocery", h.checkGrocery).Methods("POST")

	return router
}

type markReadRequest struct {
	NotificationIDs []string `json:"notificationIds"`
	MarkAll         bool     `json:"markAll"`
}

type deleteRequest struct {
	NotificationIDs []string `json:"notificationIds"`
	DeleteAll       bool     `json:"deleteAll"`
}

type registerTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func (h *HTTPHandler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	notifications, unread, err := h.service.Fetch(r.Context(), userID, page, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":       true,
		"notifications": notifications,
		"unreadCount":   unread,
	})
}

func (h *HTTPHandler) markRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req markReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.service.MarkRead(r.Context(), userID, req.NotificationIDs, req.MarkAll); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *HTTPHandler) deleteNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.service.Delete(r.Context(), userID, req.NotificationIDs, req.DeleteAll); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *HTTPHandler) getPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	prefs, err := h.service.Preferences(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"preferences": prefs,
	})
}

func (h *HTTPHandler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var patch common.PreferencesPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	prefs, err := h.service.UpdatePreferences(r.Context(), userID, patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"preferences": prefs,
	})
}

func (h *HTTPHandler) registerToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	var req registerTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.RegisterDevice(r.Context(), userID, req.Token, req.Platform); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// sendTest is a QA utility and is fenced off by config so production
// builds do not expose it.
func (h *HTTPHandler) sendTest(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.Notification.TestEndpoint {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	if _, err := h.service.SendTest(r.Context(), userID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *HTTPHandler) checkPantry(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	dispatched, err := h.service.CheckPantry(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"dispatched": dispatched,
	})
}

func (h *HTTPHandler) checkGrocery(w http.ResponseWriter, r *http.Request) {
	userID, ok := common.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	dispatched, err := h.service.CheckGrocery(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"dispatched": dispatched,
	})
}

func (h *HTTPHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "mealmate-notifications",
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case common.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case common.IsAuthorization(err):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		log.Printf("Request failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
