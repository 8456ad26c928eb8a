package router

import (
	"net/http"

	"github.com/UmangSachdeva/MessMate/handlers"
)

func walletRoutes(g groups, h *handlers.Handler) {
	g.protected.HandleFunc("/wallet", h.GetWallet).Methods(http.MethodGet)
	g.protected.HandleFunc("/wallet/transactions", h.GetTransactions).Methods(http.MethodGet)
	g.protected.HandleFunc("/wallet/add", h.AddMoney).Methods(http.MethodPost)

	g.protected.HandleFunc("/payments/topup", h.AddMoney).Methods(http.MethodPost)
	g.protected.HandleFunc("/payments/history", h.PaymentHistory).Methods(http.MethodGet)
	g.admin.HandleFunc("/payments", h.ListPayments).Methods(http.MethodGet)
}
