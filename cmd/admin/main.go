// Package main provides the admin command for operator tasks that have
// no HTTP endpoint, currently superuser creation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/forkful/v1/internal/domain/user"
	"github.com/forkful/v1/internal/infrastructure/config"
	gormRepo "github.com/forkful/v1/internal/infrastructure/persistence/gorm"
	"github.com/forkful/v1/internal/infrastructure/persistence/postgres"
	"github.com/forkful/v1/internal/infrastructure/persistence/sqlite"
)

func main() {
	var (
		email    = flag.String("email", "", "superuser email (required)")
		password = flag.String("password", "", "superuser password (required)")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s createsuperuser -email <email> -password <password>\n", os.Args[0])
		flag.PrintDefaults()
	}

	if len(os.Args) < 2 || os.Args[1] != "createsuperuser" {
		flag.Usage()
		os.Exit(2)
	}
	if err := flag.CommandLine.Parse(os.Args[2:]); err != nil {
		os.Exit(2)
	}
	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	if err := createSuperuser(context.Background(), db, *email, *password); err != nil {
		log.Fatalf("failed to create superuser: %v", err)
	}

	fmt.Printf("superuser %s created\n", *email)
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if cfg.Database.Driver == "postgres" {
		return postgres.Connect(cfg, gormLogger.Silent)
	}
	return sqlite.SetupDatabase(cfg.Database.SQLitePath, gormLogger.Silent)
}

func createSuperuser(ctx context.Context, db *gorm.DB, email, password string) error {
	users := gormRepo.NewUserRepository(db)

	u, err := user.NewSuperuser(email, password)
	if err != nil {
		return err
	}

	if _, err := users.FindByEmail(ctx, u.Email()); err == nil {
		return fmt.Errorf("a user with email %s already exists", u.Email())
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return err
	}

	return users.Create(ctx, u)
}
