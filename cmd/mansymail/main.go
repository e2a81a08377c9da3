// Command mansymail is a terminal mail client speaking to a mail service
// over HTTP. Configuration lives in ~/.config/mansymail/config.yaml, the
// account password in the system keyring, and the resumed session in a
// local SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/MohamedEliwa204/mail/internal/app"
	"github.com/MohamedEliwa204/mail/internal/credential"
	"github.com/MohamedEliwa204/mail/internal/model"
	"github.com/MohamedEliwa204/mail/internal/remote"
	"github.com/MohamedEliwa204/mail/internal/session"
	"github.com/MohamedEliwa204/mail/internal/store"
)

var (
	version = "dev"

	showVersion  = flag.Bool("version", false, "Show version information")
	configPath   = flag.String("config", model.DefaultConfigPath(), "Path to the config file")
	emailFlag    = flag.String("email", "", "Account address (overrides the config file)")
	savePassword = flag.Bool("save-password", false, "Store the password from $MANSYMAIL_PASSWORD in the keyring and exit")
	logout       = flag.Bool("logout", false, "Drop the persisted session and exit")
	register     = flag.Bool("register", false, "Create the account on the service before logging in")
	firstName    = flag.String("first-name", "", "First name for -register")
	lastName     = flag.String("last-name", "", "Last name for -register")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("mansymail version %s\n", version)
		os.Exit(0)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	// First run: write the defaults out so there is a file to edit.
	if _, statErr := os.Stat(*configPath); os.IsNotExist(statErr) {
		if err := model.SaveConfig(*configPath, cfg); err != nil {
			logger.WithError(err).Warn("Could not write default config file")
		}
	}

	if *emailFlag != "" {
		cfg.Account.Email = *emailFlag
	}
	if cfg.Account.Email == "" {
		logger.Fatal("No account configured: set account.email in the config file or pass -email")
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// The terminal belongs to the UI; logs go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err == nil {
		if f, err := os.OpenFile(cfg.Log.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			logger.SetOutput(f)
			defer f.Close()
		}
	}

	if *savePassword {
		password := os.Getenv("MANSYMAIL_PASSWORD")
		if password == "" {
			fmt.Fprintln(os.Stderr, "Set MANSYMAIL_PASSWORD before running with -save-password")
			os.Exit(1)
		}
		if err := credential.Set(cfg.Account.Email, password); err != nil {
			fmt.Fprintf(os.Stderr, "Storing password failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Password stored for %s\n", cfg.Account.Email)
		return
	}

	mailStore := remote.NewMailStore(cfg.Account.BaseURL)

	dataDir := model.DefaultDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create data directory")
	}
	local, err := store.NewSQLiteStore(filepath.Join(dataDir, "mansymail.db"))
	if err != nil {
		logger.WithError(err).Fatal("Failed to open local database")
	}
	defer local.Close()

	ctx := context.Background()
	manager := session.NewManager(mailStore, local)

	if *logout {
		if err := manager.Logout(ctx, cfg.Account.Email); err != nil {
			fmt.Fprintf(os.Stderr, "Logout failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Session for %s dropped\n", cfg.Account.Email)
		return
	}

	if *register {
		if err := registerAccount(ctx, mailStore, cfg.Account.Email); err != nil {
			fmt.Fprintf(os.Stderr, "Registration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Account %s registered\n", cfg.Account.Email)
	}

	sess, err := manager.ResumeOrLogin(ctx, cfg.Account.Email)
	if err != nil {
		logger.WithError(err).Error("Session setup failed")
		fmt.Fprintf(os.Stderr, "Could not sign in as %s: %v\n", cfg.Account.Email, err)
		fmt.Fprintln(os.Stderr, "Store the password first: MANSYMAIL_PASSWORD=... mansymail -save-password")
		os.Exit(1)
	}
	logger.WithField("email", sess.Email).Info("Session established")

	root := app.New(
		mailStore,
		session.Static{Session: sess},
		logger,
		cfg.Display.PageSize,
		cfg.Display.SortBy,
		cfg.Display.SortAscending,
		filepath.Join(dataDir, "exports"),
	)

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.WithError(err).Fatal("UI error")
	}
}

// registerAccount creates the account using the keyring password.
func registerAccount(ctx context.Context, s *remote.MailStore, email string) error {
	password, err := credential.Get(email)
	if err != nil {
		return fmt.Errorf("no stored password for %s, run -save-password first: %w", email, err)
	}
	_, err = s.Register(ctx, remote.UserForm{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     email,
		Password:  password,
	})
	return err
}
