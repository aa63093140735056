package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
)

var ErrPairingTimeout = errors.New("pairing timed out")

// MessageHandler receives desk queries
type MessageHandler func(ctx context.Context, in Incoming) error

type Config struct {
	// DataDir holds the linked-device session database
	DataDir string

	// CountryCode replaces the leading 0 of national numbers, e.g. "44"
	CountryCode string
}

// Service is the desk's linked WhatsApp device
type Service struct {
	client *whatsmeow.Client
	cfg    *Config
	log    zerolog.Logger
	qrOut  io.Writer

	mu      sync.RWMutex
	handler MessageHandler
}

// NewService opens the session store and prepares an unconnected client
func NewService(ctx context.Context, cfg *Config, log zerolog.Logger) (*Service, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	dsn := "file:" + filepath.Join(cfg.DataDir, "session.db") + "?_foreign_keys=on"
	container, err := sqlstore.New(ctx, "sqlite3", dsn, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load linked device: %w", err)
	}

	s := &Service{
		client: whatsmeow.NewClient(device, nil),
		cfg:    cfg,
		log:    log,
		qrOut:  os.Stdout,
	}
	s.client.AddEventHandler(s.onEvent)
	return s, nil
}

// Paired reports whether the device is already linked to the desk account
func (s *Service) Paired() bool {
	return s.client.Store.ID != nil
}

// Connect opens the connection, pairing through a terminal QR code when the
// device has not been linked yet.
func (s *Service) Connect(ctx context.Context) error {
	if s.Paired() {
		if err := s.client.Connect(); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	}
	return s.pair(ctx)
}

func (s *Service) pair(ctx context.Context) error {
	codes, err := s.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("failed to start pairing: %w", err)
	}
	if err := s.client.Connect(); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	for item := range codes {
		switch item.Event {
		case whatsmeow.QRChannelEventCode:
			s.showCode(item.Code)
		case whatsmeow.QRChannelSuccess.Event:
			s.log.Info().Msg("Desk phone linked")
			return nil
		case whatsmeow.QRChannelTimeout.Event:
			s.client.Disconnect()
			return ErrPairingTimeout
		case whatsmeow.QRChannelEventError:
			s.client.Disconnect()
			return fmt.Errorf("pairing failed: %w", item.Error)
		default:
			s.log.Warn().Str("event", item.Event).Msg("Pairing event")
		}
	}
	return ctx.Err()
}

func (s *Service) showCode(code string) {
	q, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		s.log.Warn().Err(err).Msg("Cannot render pairing code, printing it raw")
		fmt.Fprintf(s.qrOut, "Pairing code: %s\n", code)
		return
	}
	fmt.Fprintln(s.qrOut, q.ToSmallString(false))
	fmt.Fprintln(s.qrOut, "Link the front desk phone: WhatsApp > Linked Devices > Link a Device")
}

// Disconnect closes the connection; the session stays linked
func (s *Service) Disconnect() {
	s.client.Disconnect()
}

// SendMessage delivers a text message to a phone number registered on WhatsApp
func (s *Service) SendMessage(phoneNumber, message string) error {
	ctx := context.Background()

	phone := NormalizePhoneNumber(phoneNumber, s.cfg.CountryCode)
	if phone == "" {
		return fmt.Errorf("phone number is required")
	}

	found, err := s.client.IsOnWhatsApp(ctx, []string{phone})
	if err != nil {
		return fmt.Errorf("failed to look up %s: %w", phone, err)
	}
	if len(found) == 0 || !found[0].IsIn {
		return fmt.Errorf("%s is not on WhatsApp", phone)
	}

	to := found[0].JID
	resp, err := s.client.SendMessage(ctx, to, &waE2E.Message{Conversation: &message})
	if err != nil {
		return fmt.Errorf("failed to send to %s: %w", to, err)
	}

	s.log.Debug().Str("to", to.String()).Str("id", resp.ID).Msg("Message delivered")
	return nil
}

// SetMessageHandler routes desk queries to h
func (s *Service) SetMessageHandler(h MessageHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *Service) onEvent(evt interface{}) {
	switch evt := evt.(type) {
	case *events.Message:
		s.dispatch(evt)
	case *events.PairSuccess:
		s.log.Info().Str("jid", evt.ID.String()).Str("platform", evt.Platform).Msg("Paired")
	case *events.Connected:
		s.log.Info().Msg("Connected")
	case *events.Disconnected:
		s.log.Warn().Msg("Disconnected")
	case *events.LoggedOut:
		s.log.Error().Int("reason", int(evt.Reason)).Msg("Logged out, the desk phone must be linked again")
	}
}

func (s *Service) dispatch(msg *events.Message) {
	in, ok := FromEvent(msg)
	if !ok {
		return
	}

	s.mu.RLock()
	h := s.handler
	s.mu.RUnlock()

	if h == nil {
		s.log.Debug().Str("sender", in.Sender).Msg("No handler for message")
		return
	}
	if err := h(context.Background(), in); err != nil {
		s.log.Error().Err(err).Str("sender", in.Sender).Str("id", in.ID).Msg("Error handling message")
	}
}
