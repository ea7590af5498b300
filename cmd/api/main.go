package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/trivia-rooms/internal/config"
	"github.com/yourusername/trivia-rooms/internal/handler"
	"github.com/yourusername/trivia-rooms/internal/middleware"
	pgRepo "github.com/yourusername/trivia-rooms/internal/repository/postgres"
	redisRepo "github.com/yourusername/trivia-rooms/internal/repository/redis"
	"github.com/yourusername/trivia-rooms/internal/service"
	ws "github.com/yourusername/trivia-rooms/internal/websocket"
	"github.com/yourusername/trivia-rooms/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	roomRepo := pgRepo.NewRoomRepo(db)
	participantRepo := pgRepo.NewParticipantRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	answerRepo := pgRepo.NewAnswerRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализация WebSocket Hub
	hub := ws.NewHub()
	go hub.Run()

	// Инициализируем OpenAI клиент: генератор вопросов и fact-checker
	openaiClient := service.NewOpenAIClient(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.BaseURL,
		cfg.OpenAI.Timeout,
	)

	// Инициализируем сервисы
	locker := service.NewRoomLocker(cacheRepo)
	roomService := service.NewRoomService(roomRepo, participantRepo, cacheRepo, locker, hub)
	questionService := service.NewQuestionService(questionRepo, roomRepo, openaiClient, openaiClient, hub)
	answerService := service.NewAnswerService(answerRepo, questionRepo, roomRepo)
	userService := service.NewUserService(userRepo)
	gameService := service.NewGameService(
		roomRepo, participantRepo, userRepo, answerRepo,
		roomService, questionService, locker, hub,
	)

	// Инициализируем обработчики
	roomHandler := handler.NewRoomHandler(roomService, gameService)
	gameHandler := handler.NewGameHandler(gameService, questionService, answerService)
	userHandler := handler.NewUserHandler(userService)

	allowedOrigins := cfg.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	originSet := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		originSet[origin] = struct{}{}
	}
	wsHandler := handler.NewWSHandler(hub, roomService, func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := originSet[origin]
		return ok
	})

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, userService)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Лидерборд (публичный маршрут)
		api.GET("/leaderboard", userHandler.GetLeaderboard)

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetMe)

			userWithID := users.Group("/:id")
			userWithID.Use(middleware.ExtractUintParam("id", "userID"))
			{
				userWithID.GET("", userHandler.GetUser)
			}
		}

		// Комнаты
		rooms := api.Group("/rooms")
		rooms.Use(authMiddleware.RequireAuth())
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.POST("/join", roomHandler.JoinRoom)
			rooms.GET("/public", roomHandler.GetPublicRooms)

			roomWithID := rooms.Group("/:id")
			roomWithID.Use(middleware.ExtractUintParam("id", "roomID"))
			{
				roomWithID.GET("", roomHandler.GetRoom)
				roomWithID.POST("/ready", roomHandler.SetReady)
				roomWithID.POST("/leave", roomHandler.LeaveRoom)

				// Игровой цикл
				roomWithID.POST("/start", gameHandler.StartGame)
				roomWithID.POST("/advance", gameHandler.NextQuestion)
				roomWithID.POST("/finish", gameHandler.FinishGame)
				roomWithID.GET("/question", gameHandler.GetCurrentQuestion)
				roomWithID.POST("/answers", gameHandler.SubmitAnswer)
				roomWithID.GET("/results", gameHandler.GetGameResults)
				roomWithID.GET("/results/export", gameHandler.ExportGameResults)
			}
		}

		// Результаты отдельного вопроса
		questions := api.Group("/questions")
		questions.Use(authMiddleware.RequireAuth())
		{
			questionWithID := questions.Group("/:id")
			questionWithID.Use(middleware.ExtractUintParam("id", "questionID"))
			{
				questionWithID.GET("/results", gameHandler.GetQuestionResults)
			}
		}
	}

	// WebSocket маршрут: токен передается query-параметром
	wsGroup := router.Group("/ws/rooms/:id")
	wsGroup.Use(authMiddleware.RequireAuth(), middleware.ExtractUintParam("id", "roomID"))
	{
		wsGroup.GET("", wsHandler.HandleConnection)
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
