package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"TapirTwins/CronJobs"
	"TapirTwins/FiberConfig"
	"TapirTwins/Models"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment defaults")
	}

	Models.Connect()

	roller := CronJobs.NewStatsRoller(false)
	if err := roller.Start(); err != nil {
		log.Fatalf("Failed to start stats roller: %v", err)
	}

	// Stop the scheduler cleanly on shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		roller.Stop()
		os.Exit(0)
	}()

	FiberConfig.FiberConfig()
}
