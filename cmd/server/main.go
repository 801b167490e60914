package main

import (
	_ "minitrello/docs"
	"minitrello/internal/config"
	"minitrello/internal/logger"
	"minitrello/internal/server"

	"github.com/sirupsen/logrus"
)

// @title           MiniTrello API
// @version         1.0
// @description     Boards with ordered lists of ordered cards, shared among users with role-based access control.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	logger.Init()

	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		logrus.Fatalf("Server initialization failed: %v", err)
	}

	s.Run()
}
