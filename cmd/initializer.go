package main

import (
	"database/sql"
	"log"
	"log/slog"
	"net/http"

	"firebase.google.com/go/messaging"
	"github.com/redis/go-redis/v9"

	"prodeskBack/internal/config"
	"prodeskBack/internal/handlers"
	"prodeskBack/internal/repositories"
	"prodeskBack/internal/services"
	"prodeskBack/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	db       *sql.DB

	signingKey   string
	tokenManager *utils.Manager

	userRepo     *repositories.UserRepository
	invoiceRepo  *repositories.InvoiceRepository
	settingsRepo *repositories.SettingsRepository

	invoiceService *services.InvoiceService

	userHandler        *handlers.UserHandler
	clientHandler      *handlers.ClientHandler
	projectHandler     *handlers.ProjectHandler
	ticketHandler      *handlers.TicketHandler
	invoiceHandler     *handlers.InvoiceHandler
	invoiceItemHandler *handlers.InvoiceItemHandler
	paymentHandler     *handlers.PaymentHandler
	settingsHandler    *handlers.SettingsHandler
	dashboardHandler   *handlers.DashboardHandler
}

func initializeApp(db *sql.DB, rdb *redis.Client, fcmClient *messaging.Client, cfg config.Config, errorLog, infoLog *log.Logger) *application {
	// Repositories
	userRepo := repositories.UserRepository{DB: db}
	clientRepo := repositories.ClientRepository{DB: db}
	projectRepo := repositories.ProjectRepository{DB: db}
	ticketRepo := repositories.TicketRepository{DB: db}
	invoiceRepo := repositories.InvoiceRepository{DB: db}
	paymentRepo := repositories.PaymentRepository{DB: db}
	settingsRepo := repositories.SettingsRepository{DB: db}

	// Services
	tokenManager, err := utils.NewManager(cfg.Auth.SigningKey)
	if err != nil {
		errorLog.Fatalf("token manager: %v", err)
	}
	userService := &services.UserService{
		UserRepo:     &userRepo,
		TokenManager: tokenManager,
	}
	clientService := &services.ClientService{ClientRepo: &clientRepo}
	projectService := &services.ProjectService{ProjectRepo: &projectRepo}
	ticketService := &services.TicketService{TicketRepo: &ticketRepo}
	settingsService := &services.SettingsService{SettingsRepo: &settingsRepo}
	currencyService := &services.CurrencyService{SettingsRepo: &settingsRepo, ErrorLog: errorLog}
	revenueService := &services.RevenueService{InvoiceRepo: &invoiceRepo, Currency: currencyService}
	mailer := &services.MailerService{
		APIKey:   cfg.Mail.SendgridKey,
		FromName: cfg.Mail.FromName,
		FromAddr: cfg.Mail.FromAddr,
		ErrorLog: errorLog,
	}
	push := &services.FCMService{Client: fcmClient, Tokens: &userRepo, ErrorLog: errorLog}

	var gateway *services.RazorpayService
	if cfg.Gateway.KeyID != "" {
		gateway, err = services.NewRazorpayService(services.RazorpayConfig{
			BaseURL:       cfg.Gateway.BaseURL,
			KeyID:         cfg.Gateway.KeyID,
			KeySecret:     cfg.Gateway.KeySecret,
			WebhookSecret: cfg.Gateway.WebhookSecret,
			Logger:        slog.Default(),
		})
		if err != nil {
			errorLog.Fatalf("payment gateway: %v", err)
		}
	}

	invoiceService := &services.InvoiceService{
		InvoiceRepo: &invoiceRepo,
		ClientRepo:  &clientRepo,
		Notifier:    mailer,
		Push:        push,
		Cache:       services.NewInvoiceCache(rdb, errorLog),
		CallbackURL: cfg.Gateway.CallbackURL,
		InfoLog:     infoLog,
		ErrorLog:    errorLog,
	}
	if gateway != nil {
		invoiceService.Gateway = gateway
	}

	// Handlers
	userHandler := &handlers.UserHandler{Service: userService}
	clientHandler := &handlers.ClientHandler{Service: clientService}
	projectHandler := &handlers.ProjectHandler{Service: projectService}
	ticketHandler := &handlers.TicketHandler{Service: ticketService}
	invoiceHandler := &handlers.InvoiceHandler{Service: invoiceService}
	invoiceItemHandler := &handlers.InvoiceItemHandler{Service: invoiceService}
	paymentHandler := &handlers.PaymentHandler{
		Gateway:        gateway,
		PaymentRepo:    &paymentRepo,
		InvoiceService: invoiceService,
		InfoLog:        infoLog,
		ErrorLog:       errorLog,
	}
	settingsHandler := &handlers.SettingsHandler{Service: settingsService, Currency: currencyService}
	dashboardHandler := &handlers.DashboardHandler{Revenue: revenueService}

	return &application{
		errorLog:           errorLog,
		infoLog:            infoLog,
		db:                 db,
		signingKey:         cfg.Auth.SigningKey,
		tokenManager:       tokenManager,
		userRepo:           &userRepo,
		invoiceRepo:        &invoiceRepo,
		settingsRepo:       &settingsRepo,
		invoiceService:     invoiceService,
		userHandler:        userHandler,
		clientHandler:      clientHandler,
		projectHandler:     projectHandler,
		ticketHandler:      ticketHandler,
		invoiceHandler:     invoiceHandler,
		invoiceItemHandler: invoiceItemHandler,
		paymentHandler:     paymentHandler,
		settingsHandler:    settingsHandler,
		dashboardHandler:   dashboardHandler,
	}
}

func openDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Printf("Failed to open DB: %v", err)
		return nil, err
	}
	if err = db.Ping(); err != nil {
		log.Printf("Failed to ping DB: %v", err)
		return nil, err
	}
	db.SetMaxIdleConns(35)
	log.Println("Successfully connected to database")
	return db, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
