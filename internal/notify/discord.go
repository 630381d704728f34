// Package notify posts simulation lifecycle notifications to a Discord
// channel. It is optional; without a token the notifier is disabled and
// every call is a no-op.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/wowlab/guildsim/internal/event"
	"github.com/wowlab/guildsim/internal/logger"
)

// sender is the slice of discordgo.Session the notifier uses.
type sender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Notifier posts simulation results to Discord.
type Notifier struct {
	session   sender
	channelID string
	close     func() error
}

// Config holds the notifier configuration
type Config struct {
	Token     string
	ChannelID string
}

// New creates a notifier. An empty token disables it.
func New(cfg Config) (*Notifier, error) {
	if cfg.Token == "" || cfg.ChannelID == "" {
		return &Notifier{}, nil
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}
	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("error opening Discord connection: %w", err)
	}

	return &Notifier{
		session:   session,
		channelID: cfg.ChannelID,
		close:     session.Close,
	}, nil
}

// Enabled reports whether the notifier will post anything.
func (n *Notifier) Enabled() bool { return n.session != nil }

// Close shuts down the Discord session.
func (n *Notifier) Close() error {
	if n.close == nil {
		return nil
	}
	return n.close()
}

// Register subscribes the notifier to simulation completion events.
func (n *Notifier) Register(bus event.Bus) {
	if !n.Enabled() {
		return
	}
	bus.Subscribe(event.SimulationCompleted, n.handleEvent)
	bus.Subscribe(event.SimulationFailed, n.handleEvent)
}

func (n *Notifier) handleEvent(ctx context.Context, ev event.Event) error {
	payload, err := event.DecodePayload[event.SimulationJobPayloadV1](ev.Payload)
	if err != nil {
		return err
	}

	var message string
	switch ev.Type {
	case event.SimulationCompleted:
		message = fmt.Sprintf("Simulation `%s` finished in %s.",
			payload.JobID, (time.Duration(payload.DurationMS) * time.Millisecond).Round(time.Second))
	case event.SimulationFailed:
		message = fmt.Sprintf("Simulation `%s` failed: %s", payload.JobID, payload.Error)
	default:
		return nil
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		logger.FromContext(ctx).Warn("failed to send Discord notification",
			"job_id", payload.JobID,
			"error", err)
		return err
	}
	return nil
}
