package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"hotel-checkin/internal/api"
	"hotel-checkin/internal/checkin"
	"hotel-checkin/internal/config"
	"hotel-checkin/internal/handler"
	"hotel-checkin/internal/logging"
	"hotel-checkin/internal/models"
	"hotel-checkin/internal/storage"
	"hotel-checkin/internal/whatsapp"
)

func main() {
	fmt.Println("🏨 Hotel Check-in Desk")
	fmt.Println("======================")

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	store, closeStore, err := storage.Open(ctx, cfg, logging.Component(logger, "storage"))
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	service := checkin.NewService(store, logging.Component(logger, "checkin"))

	// Initialize WhatsApp service
	var notifier handler.Notifier
	var whatsappService *whatsapp.Service
	if cfg.WhatsAppEnabled {
		whatsappService, err = whatsapp.NewService(ctx, &whatsapp.Config{
			DataDir:     cfg.WhatsAppDataDir,
			CountryCode: cfg.CountryCode,
		}, logging.Component(logger, "WhatsApp"))
		if err != nil {
			fmt.Printf("Error initializing WhatsApp service: %v\n", err)
			os.Exit(1)
		}
		notifier = whatsappService
	}

	desk := handler.NewCheckInHandler(service, notifier, &handler.Config{
		HotelName:   cfg.HotelName,
		DeskPhone:   cfg.DeskPhone,
		CountryCode: cfg.CountryCode,
	}, logging.Component(logger, "desk"))

	if whatsappService != nil {
		whatsappService.SetMessageHandler(desk.HandleMessage)

		fmt.Println("Connecting to WhatsApp...")
		if err := whatsappService.Connect(ctx); err != nil {
			fmt.Printf("Error connecting to WhatsApp: %v\n", err)
			os.Exit(1)
		}
		defer whatsappService.Disconnect()
		fmt.Println("✅ Connected to WhatsApp!")
	}

	if cfg.HTTPAddr != "" {
		gin.SetMode(cfg.GinMode)
		srv := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: api.NewRouter(desk, service, logging.Component(logger, "http")),
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("HTTP server stopped")
				stop()
			}
		}()
		defer shutdown(srv, logger)
		fmt.Printf("🌐 HTTP API listening on %s\n", cfg.HTTPAddr)
	}

	// Start interactive CLI
	go func() {
		startCLI(ctx, desk, service)
		stop()
	}()

	<-ctx.Done()
	fmt.Println("\n\nShutting down...")
}

func shutdown(srv *http.Server, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown")
	}
}

func startCLI(ctx context.Context, desk *handler.CheckInHandler, service *checkin.Service) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Println("\nCommands:")
		fmt.Println("  1. New check-in")
		fmt.Println("  2. Recent check-ins")
		fmt.Println("  3. Check-ins by date")
		fmt.Println("  4. Exit")
		fmt.Print("\nEnter command (1-4): ")

		if !scanner.Scan() {
			return
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			newCheckIn(ctx, scanner, desk)
		case "2":
			viewRecent(ctx, service)
		case "3":
			viewByDate(ctx, scanner, service)
		case "4":
			fmt.Println("Exiting...")
			return
		default:
			fmt.Println("Invalid command. Please try again.")
		}
	}
}

func prompt(scanner *bufio.Scanner, label string) (string, bool) {
	fmt.Print(label)
	if !scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(scanner.Text()), true
}

func newCheckIn(ctx context.Context, scanner *bufio.Scanner, desk *handler.CheckInHandler) {
	var fields models.Fields
	var ok bool

	if fields.GuestName, ok = prompt(scanner, "Guest name: "); !ok {
		return
	}
	if fields.RoomNumber, ok = prompt(scanner, "Room number: "); !ok {
		return
	}
	if fields.CheckInDate, ok = prompt(scanner, "Check-in date (YYYY-MM-DD, empty for today): "); !ok {
		return
	}
	if fields.CheckInDate == "" {
		fields.CheckInDate = checkin.DateOf(time.Now()).String()
	}
	if fields.CheckOutDate, ok = prompt(scanner, "Check-out date (optional): "); !ok {
		return
	}
	if fields.Notes, ok = prompt(scanner, "Notes (optional): "); !ok {
		return
	}

	checkIn, err := desk.Submit(ctx, fields)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return
	}
	fmt.Printf("✅ %s checked in to room %s (id %d)\n", checkIn.GuestName, checkIn.RoomNumber, checkIn.ID)
}

func viewRecent(ctx context.Context, service *checkin.Service) {
	checkIns, err := service.RecentCheckIns(ctx, 0)
	if err != nil {
		fmt.Println("⚠️  Some check-ins could not be read; the list may be incomplete.")
	}
	printCheckIns("Recent check-ins", checkIns)
}

func viewByDate(ctx context.Context, scanner *bufio.Scanner, service *checkin.Service) {
	date, ok := prompt(scanner, "Date (YYYY-MM-DD): ")
	if !ok {
		return
	}

	checkIns, err := service.GetCheckInsByDate(ctx, date)
	if errors.Is(err, checkin.ErrInvalidDate) {
		fmt.Printf("Invalid date %q.\n", date)
		return
	}
	if err != nil {
		fmt.Println("⚠️  Some check-ins could not be read; the list may be incomplete.")
	}
	checkin.SortRecent(checkIns)
	printCheckIns("Check-ins for "+date, checkIns)
}

func printCheckIns(title string, checkIns []models.CheckIn) {
	if len(checkIns) == 0 {
		fmt.Println("\nNo check-ins found.")
		return
	}

	fmt.Printf("\n📋 %s (%d total):\n", title, len(checkIns))
	fmt.Println(strings.Repeat("-", 60))
	for _, c := range checkIns {
		fmt.Printf("Guest: %s\n", c.GuestName)
		fmt.Printf("Room: %s\n", c.RoomNumber)
		fmt.Printf("Check-in: %s\n", c.CheckInDate)
		if c.CheckOutDate != "" {
			fmt.Printf("Check-out: %s\n", c.CheckOutDate)
		}
		if c.Notes != "" {
			fmt.Printf("Notes: %s\n", c.Notes)
		}
		fmt.Printf("Created: %s\n", c.CreatedAt)
		fmt.Println(strings.Repeat("-", 60))
	}
}
