package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/attendance"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/config"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/queue"
	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/store"
)

// Worker consumes mark events and keeps the per-class daily summaries current.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	if err := store.Migrate(ctx, db.Client); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "attendance:marks")
	}

	repo := attendance.NewRepository(db.Client)

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("summary worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != "mark" {
			continue
		}

		var evt attendance.MarkEvent
		if err := json.Unmarshal(msg.Body, &evt); err != nil {
			log.Printf("bad mark event: %v", err)
			continue
		}

		if err := repo.RefreshClassSummary(ctx, evt.ClassName, evt.Date); err != nil {
			log.Printf("refresh summary for %s %s failed: %v", evt.ClassName, evt.Date, err)
			continue
		}
		log.Printf("summary refreshed for class %s on %s", evt.ClassName, evt.Date)
	}

	log.Println("worker stopped")
}
