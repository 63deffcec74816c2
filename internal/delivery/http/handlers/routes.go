package handlers

import "net/http"

// SetRoutes wires every API endpoint onto the mux.
func SetRoutes(
	router *http.ServeMux,
	marketHandler *MarketHandler,
	shiftHandler *ShiftHandler,
	subscriptionHandler *SubscriptionHandler) {

	router.HandleFunc("GET /api/health", marketHandler.Health)

	router.HandleFunc("GET /api/pairs", marketHandler.GetPairs)
	router.HandleFunc("GET /api/coins", marketHandler.GetCoins)
	router.HandleFunc("GET /api/coins/icon/{coin}", marketHandler.GetCoinIcon)
	router.HandleFunc("POST /api/quote", marketHandler.PostQuote)
	router.HandleFunc("GET /api/quote/{from}/{to}", marketHandler.GetQuote)

	router.HandleFunc("POST /api/shifts", shiftHandler.CreateShift)
	router.HandleFunc("POST /api/shifts/fixed", shiftHandler.CreateFixedShift)
	router.HandleFunc("POST /api/shifts/variable", shiftHandler.CreateVariableShift)
	router.HandleFunc("GET /api/shifts/{id}", shiftHandler.GetShiftStatus)

	router.HandleFunc("GET /api/subscribers", subscriptionHandler.GetSubscribers)
	router.HandleFunc("POST /api/subscribers", subscriptionHandler.Subscribe)
	router.HandleFunc("DELETE /api/subscribers/{chatId}", subscriptionHandler.Unsubscribe)
}
