// Package api exposes the ledger engines over a JSON HTTP API. Handlers
// stay thin: decode input, call a service, translate typed errors to
// status codes, encode output.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/nik-bond/pizzatg/internal/middleware"
	"github.com/nik-bond/pizzatg/internal/service"
)

// API wires the service layer to HTTP routes.
type API struct {
	router   *mux.Router
	orders   *service.OrderService
	debts    *service.DebtService
	payments *service.PaymentService
}

// New creates an API over the given services.
func New(orders *service.OrderService, debts *service.DebtService, payments *service.PaymentService) *API {
	a := &API{
		router:   mux.NewRouter(),
		orders:   orders,
		debts:    debts,
		payments: payments,
	}
	a.setupRoutes()
	return a
}

func (a *API) setupRoutes() {
	a.router.Use(middleware.Logging, middleware.Metrics)

	a.router.HandleFunc("/healthz", a.handleHealth).Methods("GET")
	a.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	api := a.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/orders", a.handleCreateOrder).Methods("POST")
	api.HandleFunc("/orders/last", a.handleDeleteLastOrder).Methods("DELETE")
	api.HandleFunc("/payments", a.handleRecordPayment).Methods("POST")

	chats := api.PathPrefix("/chats/{chatID:-?[0-9]+}").Subrouter()
	chats.HandleFunc("/debts", a.handleAllDebts).Methods("GET")
	chats.HandleFunc("/debts/consolidated", a.handleConsolidatedDebts).Methods("GET")
	chats.HandleFunc("/users/{user}/owes", a.handleDebtsByDebtor).Methods("GET")
	chats.HandleFunc("/users/{user}/owed", a.handleDebtsByCreditor).Methods("GET")
	chats.HandleFunc("/balance", a.handleNetBalance).Methods("GET")
	chats.HandleFunc("/payments", a.handleListPayments).Methods("GET")
}

// Handler returns the fully wrapped HTTP handler, CORS included.
func (a *API) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(a.router)
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
