package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minitrello/internal/config"
	"minitrello/internal/handler"
	"minitrello/internal/mailer"
	"minitrello/internal/middleware"
	"minitrello/internal/repository"
	"minitrello/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	logrus.Info("Connected to database")

	if err := runMigrations(db, cfg.DBName); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	r := gin.Default()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	boardRepo := repository.NewBoardRepository(db)
	listRepo := repository.NewListRepository(db)
	cardRepo := repository.NewCardRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)

	// Services
	authz := service.NewAuthorizer(db)
	boards := service.NewBoards(db, authz, boardRepo, membershipRepo, cfg.MaxOwnedBoards)
	lists := service.NewLists(db, authz, listRepo)
	cards := service.NewCards(db, authz, cardRepo)
	ordering := service.NewOrdering(db, authz, listRepo, cardRepo)
	members := service.NewMembers(db, authz, membershipRepo)
	smtpMailer := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	invitations := service.NewInvitations(
		db, authz, invitationRepo, membershipRepo, userRepo, boardRepo,
		smtpMailer, cfg.InvitationTTL, cfg.AppBaseURL,
	)

	// Handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	boardHandler := handler.NewBoardHandler(boards)
	listHandler := handler.NewListHandler(lists, ordering)
	cardHandler := handler.NewCardHandler(cards, ordering)
	memberHandler := handler.NewMemberHandler(members)
	invitationHandler := handler.NewInvitationHandler(invitations)

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.PUT("/boards/:id", boardHandler.Update)
		authorized.DELETE("/boards/:id", boardHandler.Delete)

		// List routes
		authorized.POST("/lists", listHandler.Create)
		authorized.GET("/boards/:id/lists", listHandler.GetByBoardID)
		authorized.PUT("/lists/:id", listHandler.Rename)
		authorized.POST("/lists/:id/move", listHandler.Move)
		authorized.DELETE("/lists/:id", listHandler.Delete)

		// Card routes
		authorized.POST("/cards", cardHandler.Create)
		authorized.GET("/cards/:id", cardHandler.GetByID)
		authorized.GET("/lists/:id/cards", cardHandler.GetByListID)
		authorized.PUT("/cards/:id", cardHandler.Update)
		authorized.DELETE("/cards/:id", cardHandler.Delete)
		authorized.POST("/cards/:id/move", cardHandler.Move)
		authorized.POST("/cards/:id/assign", cardHandler.Assign)
		authorized.DELETE("/cards/:id/assign/:user_id", cardHandler.Unassign)

		// Membership routes
		authorized.GET("/boards/:id/members", memberHandler.GetBoardMembers)
		authorized.PUT("/memberships/:id/role", memberHandler.ChangeRole)
		authorized.DELETE("/memberships/:id", memberHandler.Remove)

		// Invitation routes
		authorized.POST("/boards/:id/invitations", invitationHandler.Create)
		authorized.GET("/boards/:id/invitations", invitationHandler.GetBoardInvitations)
		authorized.POST("/invitations/:token/accept", invitationHandler.Accept)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func runMigrations(db *gorm.DB, dbName string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	driver, err := migratepg.WithInstance(sqlDB, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", dbName, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	logrus.Info("Database migrations applied")
	return nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		logrus.Infof("Server running on port %s", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to listen: %s", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Fatalf("Server forced to shutdown: %s", err)
	}

	logrus.Info("Server exited properly")
}
