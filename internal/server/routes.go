package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// registerRoutes sets up all API endpoints
func (s *Server) registerRoutes() http.Handler {
	router := mux.NewRouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)
	router.NotFoundHandler = http.HandlerFunc(s.handleNotFound)

	// Routes are registered with full paths on the root router. A PathPrefix
	// subrouter reports a method mismatch as 404 instead of 405.

	router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/api/export", s.handleExport).Methods(http.MethodGet)

	router.HandleFunc("/api/tasks", s.handleListTasks).Methods(http.MethodGet)
	router.HandleFunc("/api/tasks", s.handleAddTask).Methods(http.MethodPost)
	router.HandleFunc("/api/tasks/order", s.handleReorderTasks).Methods(http.MethodPut)
	router.HandleFunc("/api/tasks/{taskID:[0-9]+}", s.handleUpdateTask).Methods(http.MethodPatch)
	router.HandleFunc("/api/tasks/{taskID:[0-9]+}", s.handleRemoveTask).Methods(http.MethodDelete)
	router.HandleFunc("/api/tasks/{taskID:[0-9]+}/toggle", s.handleToggleTask).Methods(http.MethodPost)
	router.HandleFunc("/api/tasks/{taskID:[0-9]+}/expand", s.handleExpandTask).Methods(http.MethodPost)

	router.HandleFunc("/api/tasks/{taskID:[0-9]+}/subtasks", s.handleAddSubtask).Methods(http.MethodPost)
	router.HandleFunc("/api/tasks/{taskID:[0-9]+}/subtasks/order", s.handleReorderSubtasks).Methods(http.MethodPut)
	router.HandleFunc("/api/tasks/{taskID:[0-9]+}/subtasks/{subtaskID:[0-9]+}", s.handleUpdateSubtask).Methods(http.MethodPatch)
	router.HandleFunc("/api/tasks/{taskID:[0-9]+}/subtasks/{subtaskID:[0-9]+}", s.handleRemoveSubtask).Methods(http.MethodDelete)
	router.HandleFunc("/api/tasks/{taskID:[0-9]+}/subtasks/{subtaskID:[0-9]+}/toggle", s.handleToggleSubtask).Methods(http.MethodPost)

	// CORS wraps the router so preflight requests are answered before
	// method matching rejects them.
	return s.requestID(s.logRequests(s.corsMiddleware(router)))
}
