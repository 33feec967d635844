package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SetupRoutes builds the API router
func SetupRoutes(
	presentationHandler *PresentationHandler,
	analyticsHandler *AnalyticsHandler,
	syncHandler *SyncHandler,
	staticHandler *StaticHandler,
) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/presentations/{id}", presentationHandler.GetPresentation).Methods(http.MethodGet)
	api.HandleFunc("/presentations/{id}/clients", presentationHandler.GetClients).Methods(http.MethodGet)
	api.HandleFunc("/presentations/{id}/clients", presentationHandler.CreateClient).Methods(http.MethodPost)

	api.HandleFunc("/analytics/events", analyticsHandler.RecordEvent).Methods(http.MethodPost)
	api.HandleFunc("/analytics/events/beacon", analyticsHandler.RecordBeaconEvent).Methods(http.MethodPost)
	api.HandleFunc("/analytics/{presentationId}", analyticsHandler.GetSummary).Methods(http.MethodGet)

	api.HandleFunc("/sync/{presentationId}", syncHandler.PublishSync).Methods(http.MethodPost)
	api.HandleFunc("/sync/{presentationId}", syncHandler.SubscribeSync).Methods(http.MethodGet)

	router.HandleFunc("/files/{presentationId}/section_{sectionId}/{filename}", staticHandler.ServeFile).Methods(http.MethodGet)

	return router
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}
