// Command review is the terminal review console. It opens the same store
// as the server (DB_PATH) and can run while the server is ingesting.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/JohnSOGO/ChatMan/internal/config"
	"github.com/JohnSOGO/ChatMan/internal/console"
	"github.com/JohnSOGO/ChatMan/internal/repo"
	"github.com/JohnSOGO/ChatMan/internal/services"
	"github.com/JohnSOGO/ChatMan/internal/sysutil"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// the alternate screen owns the terminal, so logs stay out of it
	sysutil.SetupLogger(cfg.LogLevel, false, io.Discard)

	db, location, err := repo.Open(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening message store %s: %v\n", cfg.DBPath, err)
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	svc := services.NewMessageService(db)
	svc.DefaultLimit = cfg.Review.DefaultLimit
	svc.MaxLimit = cfg.Review.MaxLimit

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(console.New(ctx, svc), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running review console on %s: %v\n", location, err)
		cancel()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		os.Exit(1)
	}
}
