package api

import (
	"github.com/gorilla/mux"

	"github.com/unifyhub/unifyhub/internal/api/recovery"
	"github.com/unifyhub/unifyhub/internal/api/requestid"
	"github.com/unifyhub/unifyhub/internal/services"
	"github.com/unifyhub/unifyhub/internal/store"
	"github.com/unifyhub/unifyhub/internal/timeline"
)

// NewRouter builds the HTTP router with all API routes over the given store.
func NewRouter(st store.Store) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(requestid.Middleware)
	router.Use(recovery.Middleware)

	// Domain services
	serviceHandler := NewServiceHandler(services.NewServiceService(st))
	itemHandler := NewItemHandler(services.NewItemService(st))
	eventHandler := NewEventHandler(services.NewEventService(st))
	projectHandler := NewProjectHandler(services.NewProjectService(st))
	ruleHandler := NewRuleHandler(services.NewRuleService(st))
	timelineHandler := NewTimelineHandler(timeline.NewAggregator(st))
	healthHandler := NewHealthHandler()

	// Health endpoint
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")

	// Service endpoints
	router.HandleFunc("/api/services", serviceHandler.CreateService).Methods("POST")
	router.HandleFunc("/api/services", serviceHandler.ListServices).Methods("GET")
	router.HandleFunc("/api/services/{serviceId:[0-9]+}", serviceHandler.GetService).Methods("GET")
	router.HandleFunc("/api/services/{serviceId:[0-9]+}", serviceHandler.UpdateService).Methods("PATCH")
	router.HandleFunc("/api/services/{serviceId:[0-9]+}", serviceHandler.DeleteService).Methods("DELETE")
	router.HandleFunc("/api/services/{serviceId:[0-9]+}/sync", serviceHandler.SyncService).Methods("POST")
	router.HandleFunc("/api/services/{serviceId:[0-9]+}/connect", serviceHandler.ConnectService).Methods("POST")
	router.HandleFunc("/api/services/{serviceId:[0-9]+}/disconnect", serviceHandler.DisconnectService).Methods("POST")
	router.HandleFunc("/api/services/{serviceId:[0-9]+}/config", serviceHandler.GetServiceConfig).Methods("GET")
	router.HandleFunc("/api/services/{serviceId:[0-9]+}/config", serviceHandler.UpdateServiceConfig).Methods("PATCH")

	// Item endpoints
	router.HandleFunc("/api/items", itemHandler.CreateItem).Methods("POST")
	router.HandleFunc("/api/items", itemHandler.ListItems).Methods("GET")
	router.HandleFunc("/api/items/{itemId:[0-9]+}", itemHandler.GetItem).Methods("GET")
	router.HandleFunc("/api/items/{itemId:[0-9]+}", itemHandler.UpdateItem).Methods("PATCH")
	router.HandleFunc("/api/items/{itemId:[0-9]+}", itemHandler.DeleteItem).Methods("DELETE")

	// Event endpoints (conflicts registered before the id route)
	router.HandleFunc("/api/events", eventHandler.CreateEvent).Methods("POST")
	router.HandleFunc("/api/events", eventHandler.ListEvents).Methods("GET")
	router.HandleFunc("/api/events/conflicts", eventHandler.CheckConflicts).Methods("GET")
	router.HandleFunc("/api/events/{eventId:[0-9]+}", eventHandler.GetEvent).Methods("GET")
	router.HandleFunc("/api/events/{eventId:[0-9]+}", eventHandler.UpdateEvent).Methods("PATCH")
	router.HandleFunc("/api/events/{eventId:[0-9]+}", eventHandler.DeleteEvent).Methods("DELETE")

	// Project endpoints
	router.HandleFunc("/api/projects", projectHandler.CreateProject).Methods("POST")
	router.HandleFunc("/api/projects", projectHandler.ListProjects).Methods("GET")
	router.HandleFunc("/api/projects/{projectId:[0-9]+}", projectHandler.GetProject).Methods("GET")
	router.HandleFunc("/api/projects/{projectId:[0-9]+}", projectHandler.UpdateProject).Methods("PATCH")
	router.HandleFunc("/api/projects/{projectId:[0-9]+}", projectHandler.DeleteProject).Methods("DELETE")
	router.HandleFunc("/api/projects/{projectId:[0-9]+}/items/{itemId:[0-9]+}", projectHandler.LinkItem).Methods("PUT")
	router.HandleFunc("/api/projects/{projectId:[0-9]+}/items/{itemId:[0-9]+}", projectHandler.UnlinkItem).Methods("DELETE")
	router.HandleFunc("/api/projects/{projectId:[0-9]+}/timeline", timelineHandler.ProjectTimeline).Methods("GET")

	// Rule endpoints
	router.HandleFunc("/api/rules", ruleHandler.CreateRule).Methods("POST")
	router.HandleFunc("/api/rules", ruleHandler.ListRules).Methods("GET")
	router.HandleFunc("/api/rules/{ruleId:[0-9]+}", ruleHandler.GetRule).Methods("GET")
	router.HandleFunc("/api/rules/{ruleId:[0-9]+}", ruleHandler.UpdateRule).Methods("PATCH")
	router.HandleFunc("/api/rules/{ruleId:[0-9]+}", ruleHandler.DeleteRule).Methods("DELETE")
	router.HandleFunc("/api/rules/{ruleId:[0-9]+}/toggle", ruleHandler.ToggleRule).Methods("POST")
	router.HandleFunc("/api/rules/{ruleId:[0-9]+}/test", ruleHandler.TestRule).Methods("POST")

	// Timeline endpoints (stats registered before the id route)
	router.HandleFunc("/api/timeline", timelineHandler.AllTimelines).Methods("GET")
	router.HandleFunc("/api/timeline/stats", timelineHandler.Stats).Methods("GET")
	router.HandleFunc("/api/timeline/{entryId:[0-9]+}", timelineHandler.EntryByID).Methods("GET")

	return router
}
