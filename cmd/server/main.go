package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"servicepro/internal/blog"
	"servicepro/internal/catalog"
	"servicepro/internal/chat"
	"servicepro/internal/config"
	"servicepro/internal/db"
	"servicepro/internal/feedback"
	"servicepro/internal/logger"
	"servicepro/internal/mailer"
	myMiddleware "servicepro/internal/middleware"
	"servicepro/internal/payment"
	"servicepro/internal/token"
	"servicepro/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog := logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})

	// Platform layer: Mongo + Redis.
	database, err := db.NewDatabase(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		appLog.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	appLog.Info().Str("database", cfg.Mongo.Database).Msg("connected to MongoDB")

	if err := database.EnsureIndexes(context.Background()); err != nil {
		appLog.Fatal().Err(err).Msg("failed to create indexes")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		appLog.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	appLog.Info().Str("addr", cfg.Redis.Address).Msg("connected to Redis")

	colls := database.Collections()

	// Identity feature.
	tokens := token.NewService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	userRepo := user.NewRepository(colls.Users)
	userService := user.NewService(userRepo, tokens, mail, cfg.App.BaseURL, appLog)
	userHandler := user.NewHandler(userService)

	// Chat feature: hub + Redis bus + message repository.
	chatRepo := chat.NewRepository(colls.Messages)
	bus := chat.NewRedisBus(redisClient, appLog)
	hub := chat.NewHub(chatRepo, bus, appLog)
	go hub.Run()
	go bus.Subscribe(context.Background(), hub)
	chatHandler := chat.NewHandler(hub, chatRepo)

	// Marketplace content.
	catalogHandler := catalog.NewHandler(catalog.NewRepository(
		colls.Services, colls.LatestWork, colls.Status, colls.FAQ,
	))
	blogHandler := blog.NewHandler(blog.NewRepository(colls.Blogs))
	feedbackHandler := feedback.NewHandler(feedback.NewRepository(colls.Feedback))
	paymentHandler := payment.NewHandler(payment.NewRepository(colls.Payments), cfg.Stripe.SecretKey, appLog)

	authMiddleware := myMiddleware.NewAuthMiddleware(userService)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(myMiddleware.CORS(cfg.App.AllowedOrigins))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("Hello World!"))
	})

	// Identity lifecycle (public).
	r.Post("/register", userHandler.Register)
	r.Get("/verify-email", userHandler.VerifyEmail)
	r.Post("/login", userHandler.Login)
	r.Post("/forgot-password", userHandler.ForgotPassword)
	r.Post("/reset-password", userHandler.ResetPassword)
	r.Post("/client-data", userHandler.ClientData)

	// Marketplace content (public).
	r.Get("/services", catalogHandler.ListServices)
	r.Post("/services", catalogHandler.CreateService)
	r.Get("/services/{id}", catalogHandler.GetService)
	r.Put("/services/{id}", catalogHandler.UpdateService)
	r.Delete("/services/{id}", catalogHandler.DeleteService)

	r.Get("/latestWork", catalogHandler.ListWork)
	r.Post("/latestWork", catalogHandler.CreateWork)
	r.Patch("/latestWork/{id}", catalogHandler.UpdateWork)
	r.Delete("/latestWork/{id}", catalogHandler.DeleteWork)

	r.Get("/status", catalogHandler.ListStatus)
	r.Put("/status/increment/{id}", catalogHandler.IncrementStatus)
	r.Put("/status/decrement/{id}", catalogHandler.DecrementStatus)

	r.Get("/faq", catalogHandler.ListFAQ)
	r.Post("/faq", catalogHandler.CreateFAQ)
	r.Delete("/faq/{id}", catalogHandler.DeleteFAQ)

	r.Post("/api/blogs", blogHandler.Create)
	r.Get("/api/blogs", blogHandler.List)
	r.Get("/api/blogs/{id}", blogHandler.Get)
	r.Put("/api/blogs/{id}", blogHandler.Update)
	r.Delete("/api/blogs/{id}", blogHandler.Delete)

	r.Post("/api/feedback", feedbackHandler.Create)
	r.Get("/feedback", feedbackHandler.List)
	r.Patch("/feedback/{id}", feedbackHandler.UpdateStatus)

	// Payments.
	r.Post("/create-payment-intent", paymentHandler.CreatePaymentIntent)
	r.Post("/payment-success", paymentHandler.PaymentSuccess)
	r.Get("/payment-history", paymentHandler.History)
	r.Get("/payment-history/{userId}", paymentHandler.HistoryForUser)
	r.Patch("/update-order-status/{id}", paymentHandler.UpdateOrderStatus)

	// Real-time channel + room history (the socket itself carries no token,
	// matching the frontend's existing contract).
	r.Get("/ws", chatHandler.ServeWs)
	r.Get("/api/messages/{roomId}", chatHandler.GetRoomMessages)

	// Protected routes (require a valid bearer token).
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Handle)

		r.Get("/me", userHandler.Me)
		r.Patch("/update-profile", userHandler.UpdateProfile)
		r.Post("/update-profile-image", userHandler.UpdateProfileImage)
		r.Post("/change-password", userHandler.ChangePassword)

		r.Get("/admin-users/{id}", userHandler.AdminUsers)
		r.Put("/make-admin/{id}", userHandler.MakeAdmin)
		r.Put("/make-user/{id}", userHandler.MakeUser)
		r.Put("/make-moderator/{id}", userHandler.MakeModerator)

		r.Get("/message-user", chatHandler.GetMessageUsers)
	})

	addr := ":" + cfg.Server.Port
	appLog.Info().Str("addr", addr).Msg("server starting")
	if err := http.ListenAndServe(addr, r); err != nil {
		appLog.Fatal().Err(err).Msg("server stopped")
	}
}
