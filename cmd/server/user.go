package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"clubhouse-server/internal/auth"
	"clubhouse-server/internal/db"
	"clubhouse-server/internal/models"
	"clubhouse-server/internal/repo"
	"clubhouse-server/internal/services"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage staff accounts",
	}
	cmd.AddCommand(newUserCreateCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var (
		username      string
		email         string
		role          string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(username) == "" {
				return errors.New("--username is required")
			}
			if !models.ValidRole(role) {
				return fmt.Errorf("--role must be %s or %s", models.RoleAdmin, models.RoleStaff)
			}

			password, err := readPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Env)

			dbConn, err := db.Connect(cmd.Context(), cfg.DBURL, db.ConnectOptions{Logger: logger})
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer dbConn.Close()

			accounts := repo.NewAccountRepo(dbConn.Pool, cfg.RequestTimeout)
			svc := services.NewAuthService(accounts, auth.NewBcryptHasher(cfg.BcryptCost), auth.NewTokenCodec(cfg.JWTSecret), cfg, logger, nil)

			account, err := svc.CreateAccount(cmd.Context(), services.CreateAccountInput{
				Username: username,
				Email:    email,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return err
			}
			cmd.Printf("created %s account %s (%s)\n", account.Role, account.Username, account.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "login name")
	cmd.Flags().StringVar(&email, "email", "", "email address for password resets")
	cmd.Flags().StringVar(&role, "role", models.RoleStaff, "admin or staff")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

// readPassword prompts without echo on a terminal, or reads the first line
// of stdin with --password-stdin.
func readPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	in := cmd.InOrStdin()
	if fromStdin {
		return readPasswordLine(in)
	}

	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "", errors.New("no terminal for password prompt; use --password-stdin")
	}
	cmd.Print("Password: ")
	raw, err := term.ReadPassword(int(f.Fd()))
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is empty")
	}
	return password, nil
}
