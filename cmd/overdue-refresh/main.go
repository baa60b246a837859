package main

import (
	"log"

	"go-materials-ledger/internal/repository"
	"go-materials-ledger/internal/service"
	"go-materials-ledger/pkg/database"

	"github.com/joho/godotenv"
)

// Binary batch untuk menandai payment term yang lewat jatuh tempo.
// Jadwalkan via cron, misal tiap tengah malam.
func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()

	// 3. Wire minimal dependency graph (tanpa websocket hub)
	creditRepo := repository.NewCustomerCreditRepo(db)
	termRepo := repository.NewPaymentTermRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	creditService := service.NewCreditService(creditRepo, termRepo, customerRepo, db, nil)

	// 4. Run the refresh pass
	marked, err := creditService.RefreshOverdueStatus()
	if err != nil {
		log.Fatalf("❌ Failed to refresh overdue status: %v", err)
	}

	log.Printf("✅ Done. %d payment term(s) marked overdue", marked)
}
