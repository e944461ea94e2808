// Command useradm creates dashboard accounts. There is no public signup;
// operators run this against the database directly.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"

	"github.com/dishubaceh/damprah/internal/dbx"
	"github.com/dishubaceh/damprah/internal/server/config"
	"github.com/dishubaceh/damprah/internal/server/models"
	"github.com/dishubaceh/damprah/internal/server/repositories/repomanager"
	"github.com/dishubaceh/damprah/internal/server/users"
)

func readLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Println(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm, err := repomanager.NewPostgresRepositoryManager()
	if err != nil {
		log.Fatalf("repository manager init error: %v", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	email, err := readLine(reader, "Enter email")
	if err != nil {
		log.Fatalf("%v", err)
	}

	name, err := readLine(reader, "Enter display name")
	if err != nil {
		log.Fatalf("%v", err)
	}

	roleInput, err := readLine(reader, "Enter role (admin/user)")
	if err != nil {
		log.Fatalf("%v", err)
	}
	role := models.Role(roleInput)

	fmt.Println("Enter password")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatalf("%v", err)
	}

	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		svc := users.NewService(rm.Users(tx), []byte(cfg.SecretKey), cfg.TokenValidityDuration)
		_, err := svc.Register(ctx, email, name, string(password), role)
		return err
	})
	if err != nil {
		log.Fatalf("create user error: %v", err)
	}

	fmt.Println("Success!")
}
