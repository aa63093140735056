package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hotel-checkin/internal/checkin"
	"hotel-checkin/internal/models"
	"hotel-checkin/internal/whatsapp"
)

var ErrValidation = errors.New("invalid check-in")

// recentLimit bounds the list sent back for a "recent" query
const recentLimit = 10

// Notifier delivers a text message to a phone number
type Notifier interface {
	SendMessage(phoneNumber, message string) error
}

type Config struct {
	HotelName   string
	DeskPhone   string
	CountryCode string
}

// CheckInHandler is the front desk form boundary
type CheckInHandler struct {
	service  *checkin.Service
	notifier Notifier
	config   *Config
	log      zerolog.Logger
	now      func() time.Time
}

// NewCheckInHandler creates a new check-in handler. notifier may be nil.
func NewCheckInHandler(service *checkin.Service, notifier Notifier, cfg *Config, log zerolog.Logger) *CheckInHandler {
	if cfg == nil {
		cfg = &Config{}
	}
	return &CheckInHandler{
		service:  service,
		notifier: notifier,
		config:   cfg,
		log:      log,
		now:      time.Now,
	}
}

// Validate trims fields and checks the required ones
func Validate(fields models.Fields) (models.Fields, error) {
	fields.GuestName = strings.TrimSpace(fields.GuestName)
	fields.RoomNumber = strings.TrimSpace(fields.RoomNumber)
	fields.CheckInDate = strings.TrimSpace(fields.CheckInDate)
	fields.CheckOutDate = strings.TrimSpace(fields.CheckOutDate)
	fields.Notes = strings.TrimSpace(fields.Notes)

	var problems []string
	if fields.GuestName == "" {
		problems = append(problems, "guest name is required")
	}
	if fields.RoomNumber == "" {
		problems = append(problems, "room number is required")
	}
	if fields.CheckInDate == "" {
		problems = append(problems, "check-in date is required")
	}

	if fields.CheckInDate != "" && fields.CheckOutDate != "" {
		in, inErr := checkin.ParseDate(fields.CheckInDate)
		out, outErr := checkin.ParseDate(fields.CheckOutDate)
		if inErr == nil && outErr == nil && out.Time().Before(in.Time()) {
			problems = append(problems, "check-out date is before check-in date")
		}
	}

	if len(problems) > 0 {
		return fields, fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, ", "))
	}
	return fields, nil
}

// Submit validates the form, stores the check-in and notifies the desk
func (h *CheckInHandler) Submit(ctx context.Context, fields models.Fields) (models.CheckIn, error) {
	fields, err := Validate(fields)
	if err != nil {
		return models.CheckIn{}, err
	}

	checkIn, err := h.service.AddCheckIn(ctx, fields)
	if err != nil {
		return models.CheckIn{}, fmt.Errorf("failed to add check-in: %w", err)
	}

	if h.notifier != nil && h.config.DeskPhone != "" {
		if err := h.notifier.SendMessage(h.config.DeskPhone, ConfirmationMessage(h.config.HotelName, checkIn)); err != nil {
			// the check-in is saved; only the desk message is lost
			h.log.Error().Err(err).Int64("id", checkIn.ID).Msg("Error sending check-in notification")
		}
	}

	return checkIn, nil
}

// HandleMessage answers check-in queries sent from the desk phone
func (h *CheckInHandler) HandleMessage(ctx context.Context, in whatsapp.Incoming) error {
	return h.HandleText(ctx, in.Sender, in.Text)
}

// HandleText replies to "today", "recent" or a date sent by the desk phone.
// Messages from any other sender, or that are not queries, are ignored.
func (h *CheckInHandler) HandleText(ctx context.Context, sender, text string) error {
	if h.notifier == nil || h.config.DeskPhone == "" {
		return nil
	}

	desk := whatsapp.NormalizePhoneNumber(h.config.DeskPhone, h.config.CountryCode)
	if whatsapp.NormalizePhoneNumber(sender, h.config.CountryCode) != desk {
		return nil
	}

	text = strings.ToLower(strings.TrimSpace(text))

	var (
		title    string
		checkIns []models.CheckIn
		err      error
	)
	switch text {
	case "today":
		today := checkin.DateOf(h.now()).String()
		title = "Check-ins for " + today
		checkIns, err = h.service.GetCheckInsByDate(ctx, today)
	case "recent":
		title = "Recent check-ins"
		checkIns, err = h.service.RecentCheckIns(ctx, recentLimit)
	default:
		d, perr := checkin.ParseDate(text)
		if perr != nil {
			// Not a query, ignore
			return nil
		}
		title = "Check-ins for " + d.String()
		checkIns, err = h.service.GetCheckInsByDate(ctx, d.String())
	}
	if err != nil {
		// partial results are still worth sending
		h.log.Warn().Err(err).Str("query", text).Msg("Check-in query incomplete")
	}

	checkin.SortRecent(checkIns)
	if err := h.notifier.SendMessage(desk, ListMessage(title, checkIns)); err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}

// ConfirmationMessage is the text sent to the desk after a check-in
func ConfirmationMessage(hotelName string, c models.CheckIn) string {
	var b strings.Builder
	if hotelName != "" {
		fmt.Fprintf(&b, "🏨 *%s*\n", hotelName)
	}
	fmt.Fprintf(&b, "✅ New check-in: %s, room %s\n", c.GuestName, c.RoomNumber)
	fmt.Fprintf(&b, "📅 %s", c.CheckInDate)
	if c.CheckOutDate != "" {
		fmt.Fprintf(&b, " → %s", c.CheckOutDate)
	}
	if c.Notes != "" {
		fmt.Fprintf(&b, "\n📝 %s", c.Notes)
	}
	return b.String()
}

// ListMessage renders a list of check-ins as a chat message
func ListMessage(title string, checkIns []models.CheckIn) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s (%d total)", title, len(checkIns))
	if len(checkIns) == 0 {
		b.WriteString("\nNo check-ins found.")
		return b.String()
	}
	for _, c := range checkIns {
		fmt.Fprintf(&b, "\n• %s, room %s, %s", c.GuestName, c.RoomNumber, c.CheckInDate)
		if c.CheckOutDate != "" {
			fmt.Fprintf(&b, " → %s", c.CheckOutDate)
		}
	}
	return b.String()
}
