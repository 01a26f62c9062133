// Command cli is an operator bootstrap tool. It creates the first ADMIN
// account directly against storage, since the service-level admin gate cannot
// pass before any admin exists.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"syscall"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/cryptox"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/config"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/term"
)

func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func run(ctx context.Context, cfg *config.Config, username string) error {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db open error: %w", err)
	}
	repos := repomanager.NewPostgresRepositoryManager(db)
	defer repos.Close()

	if err := repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	password, err := readPassword("Admin password: ")
	if err != nil {
		return err
	}
	confirm, err := readPassword("Repeat password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = repos.Accounts(nil).Create(ctx, &models.Account{
		ID:             uuid.NewString(),
		Username:       username,
		CredentialHash: hash,
		Role:           models.RoleAdmin,
	})
	if errors.Is(err, common.ErrorDuplicateAccount) {
		return fmt.Errorf("account %q already exists", username)
	}
	if err != nil {
		return err
	}

	fmt.Printf("admin account %q created\n", username)
	return nil
}

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: %s <admin-username>", os.Args[0])
	}

	cfg := config.LoadConfig()
	if err := run(context.Background(), cfg, os.Args[1]); err != nil {
		log.Fatalf("%v", err)
	}
}
