// Command issue-token mints a bearer token for local testing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/logging"
	"github.com/pageza/nutriplan/backend/internal/service"
)

func main() {
	userFlag := flag.String("user", "", "user id (a new one is generated when empty)")
	username := flag.String("username", "dev", "username claim")
	flag.Parse()

	log := logging.Bootstrap()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	userID := uuid.New()
	if *userFlag != "" {
		userID, err = uuid.Parse(*userFlag)
		if err != nil {
			log.WithError(err).Fatal("Invalid user id")
		}
	}

	token, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL).GenerateToken(userID, *username)
	if err != nil {
		log.WithError(err).Fatal("Failed to sign token")
	}

	log.WithField("user_id", userID.String()).Info("Token issued")
	fmt.Fprintln(os.Stdout, token)
}
