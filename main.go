package main

import (
	"TaskFlow/AbstractFunctions"
	"TaskFlow/Config"
	"TaskFlow/CronJobs"
	"TaskFlow/FiberConfig"
	"TaskFlow/Models"
	"TaskFlow/Slack"
	"TaskFlow/TaskBoard"
	"TaskFlow/email"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg := Config.Load()
	AbstractFunctions.SetLocation(cfg.Location())

	db, err := Models.Connect(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	tasks := TaskBoard.NewService(db)

	var mailer email.Mailer
	if m := email.NewSMTPMailer(cfg); m != nil {
		mailer = m
	}

	scheduler := CronJobs.NewScheduler(db, cfg, Slack.NewDigest(cfg.SlackBotToken, cfg.SlackChannelID, tasks))
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Error starting scheduler: %v", err)
	}

	app := FiberConfig.New(FiberConfig.Deps{
		DB:     db,
		Config: cfg,
		Tasks:  tasks,
		Mailer: mailer,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		scheduler.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}()

	log.Printf("Server Up on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
