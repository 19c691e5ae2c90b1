package main

import (
	"net/http"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
)

func (app *application) JWTMiddlewareWithRole(requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return app.JWTMiddleware(next, requiredRole)
	}
}

func (app *application) routes() http.Handler {
	standardMiddleware := alice.New(app.recoverPanic, app.logRequest, secureHeaders, makeResponseJSON)
	authMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("client"))
	staffAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("staff"))
	adminAuthMiddleware := standardMiddleware.Append(app.JWTMiddlewareWithRole("admin"))

	mux := pat.New()

	// Auth
	mux.Post("/user/sign_up", standardMiddleware.ThenFunc(app.userHandler.SignUp))
	mux.Post("/user/sign_in", standardMiddleware.ThenFunc(app.userHandler.SignIn))
	mux.Get("/user/:id", authMiddleware.ThenFunc(app.userHandler.GetUserByID))
	mux.Put("/user/:id", authMiddleware.ThenFunc(app.userHandler.UpdateUser))
	mux.Put("/user/:id/password", authMiddleware.ThenFunc(app.userHandler.UpdatePassword))
	mux.Post("/user/:id/logout", authMiddleware.ThenFunc(app.userHandler.LogOut))
	mux.Del("/user/:id", adminAuthMiddleware.ThenFunc(app.userHandler.DeleteUser))
	mux.Post("/fcm/token", authMiddleware.ThenFunc(app.userHandler.RegisterDeviceToken))

	// Clients
	mux.Post("/client", staffAuthMiddleware.ThenFunc(app.clientHandler.CreateClient))
	mux.Get("/client", staffAuthMiddleware.ThenFunc(app.clientHandler.GetAllClients))
	mux.Get("/client/:id", authMiddleware.ThenFunc(app.clientHandler.GetClientByID))
	mux.Put("/client/:id", staffAuthMiddleware.ThenFunc(app.clientHandler.UpdateClient))
	mux.Del("/client/:id", adminAuthMiddleware.ThenFunc(app.clientHandler.DeleteClient))

	// Projects
	mux.Post("/project", staffAuthMiddleware.ThenFunc(app.projectHandler.CreateProject))
	mux.Get("/project", authMiddleware.ThenFunc(app.projectHandler.GetProjects))
	mux.Get("/project/:id", authMiddleware.ThenFunc(app.projectHandler.GetProjectByID))
	mux.Put("/project/:id", staffAuthMiddleware.ThenFunc(app.projectHandler.UpdateProject))
	mux.Del("/project/:id", adminAuthMiddleware.ThenFunc(app.projectHandler.DeleteProject))

	// Tickets
	mux.Post("/ticket", authMiddleware.ThenFunc(app.ticketHandler.CreateTicket))
	mux.Get("/ticket/project/:project_id", authMiddleware.ThenFunc(app.ticketHandler.GetTicketsByProject))
	mux.Get("/ticket/:id", authMiddleware.ThenFunc(app.ticketHandler.GetTicketByID))
	mux.Put("/ticket/:id", staffAuthMiddleware.ThenFunc(app.ticketHandler.UpdateTicket))
	mux.Post("/ticket/:id/revision", authMiddleware.ThenFunc(app.ticketHandler.RequestRevision))
	mux.Post("/ticket/:id/attachment", authMiddleware.ThenFunc(app.ticketHandler.UploadAttachment))
	mux.Del("/ticket/:id", staffAuthMiddleware.ThenFunc(app.ticketHandler.DeleteTicket))

	// Ticket comments
	mux.Post("/ticket/:id/comment", authMiddleware.ThenFunc(app.ticketHandler.CreateComment))
	mux.Get("/ticket/:id/comment", authMiddleware.ThenFunc(app.ticketHandler.GetCommentsByTicket))
	mux.Del("/ticket/comment/:comment_id", staffAuthMiddleware.ThenFunc(app.ticketHandler.DeleteComment))

	// Invoices
	mux.Post("/invoice", staffAuthMiddleware.ThenFunc(app.invoiceHandler.CreateDraftInvoice))
	mux.Get("/invoice", staffAuthMiddleware.ThenFunc(app.invoiceHandler.GetInvoices))
	mux.Get("/invoice/:id", authMiddleware.ThenFunc(app.invoiceHandler.GetInvoiceByID))
	mux.Post("/invoice/:id/finalize", staffAuthMiddleware.ThenFunc(app.invoiceHandler.FinalizeInvoice))
	mux.Post("/invoice/:id/request_payment", staffAuthMiddleware.ThenFunc(app.invoiceHandler.RequestPayment))
	mux.Get("/invoice/:id/payments", staffAuthMiddleware.ThenFunc(app.paymentHandler.GetPaymentsByInvoice))

	// Invoice items
	mux.Post("/invoice/:id/item", staffAuthMiddleware.ThenFunc(app.invoiceItemHandler.AddItem))
	mux.Put("/invoice/item/:item_id", staffAuthMiddleware.ThenFunc(app.invoiceItemHandler.UpdateItem))
	mux.Del("/invoice/item/:item_id", staffAuthMiddleware.ThenFunc(app.invoiceItemHandler.DeleteItem))

	// Payment gateway callbacks, unauthenticated: the webhook is verified
	// by signature, the redirects carry no state.
	mux.Post("/payments/callback", standardMiddleware.ThenFunc(app.paymentHandler.GatewayCallback))
	mux.Get("/payments/success", standardMiddleware.ThenFunc(app.paymentHandler.PaymentSuccess))
	mux.Get("/payments/failure", standardMiddleware.ThenFunc(app.paymentHandler.PaymentFailure))

	// Settings
	mux.Get("/settings", staffAuthMiddleware.ThenFunc(app.settingsHandler.GetSettings))
	mux.Put("/settings", adminAuthMiddleware.ThenFunc(app.settingsHandler.UpdateSettings))
	mux.Get("/exchange_rate/:currency", authMiddleware.ThenFunc(app.settingsHandler.GetExchangeRate))

	// Dashboard
	mux.Get("/dashboard/revenue", staffAuthMiddleware.ThenFunc(app.dashboardHandler.GetRevenueSummary))

	return standardMiddleware.Then(mux)
}
