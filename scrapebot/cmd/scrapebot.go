// Command-line interface for the scraping assistant.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"scrapebot/config"
	"scrapebot/services/chatbot"
	"scrapebot/sources/psql"
	"scrapebot/sources/psql/dao"
	"scrapebot/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var gateway chatbot.PersistenceGateway
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.AppLogger.Warn("database unreachable, running without persistence", zap.Error(err))
	} else {
		defer db.Close()
		gateway = dao.NewPageDAO(db.DB)
	}

	store := chatbot.NewStore(cfg, gateway)
	sessionID := fmt.Sprintf("cli-%s", uuid.New().String()[:8])

	fmt.Println("🤖 Web Scraping AI Assistant")
	fmt.Println(strings.Repeat("=", 40))
	fmt.Println("Hello! I'm your AI-powered web scraping assistant.")
	fmt.Println("I can help you scrape websites, analyze content, and extract insights.")
	fmt.Println("Type 'help' for commands, or 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		reply := store.Process(context.Background(), sessionID, cfg.AIProvider, line)
		fmt.Println(reply)
		fmt.Println()
	}

	fmt.Println("\n📊 Session Summary:")
	fmt.Println(store.Process(context.Background(), sessionID, cfg.AIProvider, "stats"))
	fmt.Println("👋 Goodbye!")
}
