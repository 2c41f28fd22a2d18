package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	twitch "github.com/gempir/go-twitch-irc/v4"
)

// ErrNoChannel is returned by Run when no channel is configured.
var ErrNoChannel = errors.New("twitch channel not set")

// ircClient is the subset of *twitch.Client used by TwitchSource.
type ircClient interface {
	OnRoomStateMessage(func(twitch.RoomStateMessage))
	OnPrivateMessage(func(twitch.PrivateMessage))
	Join(channels ...string)
	Connect() error
	Disconnect() error
}

// TwitchSource reads a Twitch channel's chat over IRC and feeds the adapter.
// Events are delivered synchronously, in arrival order, from the client's
// reader goroutine. Reconnects are handled by the client library.
type TwitchSource struct {
	Channel  string
	Username string
	Token    string
	Adapter  *Adapter

	newClient func(username, token string) ircClient
}

// NewTwitchSource returns a source for channel. With an empty username or
// token the connection is anonymous (read-only), which is all ingestion needs.
func NewTwitchSource(channel, username, token string, a *Adapter) *TwitchSource {
	return &TwitchSource{
		Channel:  channel,
		Username: username,
		Token:    token,
		Adapter:  a,
	}
}

func defaultClient(username, token string) ircClient {
	if username == "" || token == "" {
		return twitch.NewAnonymousClient()
	}
	return twitch.NewClient(username, token)
}

// Run connects, joins the channel and blocks until ctx is cancelled or the
// connection fails for good. Cancellation is not an error.
func (s *TwitchSource) Run(ctx context.Context) error {
	channel := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s.Channel), "#"))
	if channel == "" {
		return ErrNoChannel
	}
	mk := s.newClient
	if mk == nil {
		mk = defaultClient
	}
	client := mk(s.Username, s.Token)

	client.OnRoomStateMessage(func(m twitch.RoomStateMessage) {
		s.Adapter.OnConnected(Connected{RoomID: m.RoomID, Handle: m.Channel})
	})
	client.OnPrivateMessage(func(m twitch.PrivateMessage) {
		_ = s.Adapter.OnRaw(ctx, RawComment{
			Login:       m.User.Name,
			UserID:      m.User.ID,
			DisplayName: m.User.DisplayName,
			Text:        m.Message,
		})
	})
	client.Join(channel)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = client.Disconnect()
		case <-done:
		}
	}()

	s.Adapter.Logger.Info().Str("channel", channel).Msg("connecting to twitch chat")
	err := client.Connect()
	if ctx.Err() != nil || errors.Is(err, twitch.ErrClientDisconnected) {
		return nil
	}
	if err != nil {
		ingestErrors.WithLabelValues("connect").Inc()
		return fmt.Errorf("twitch connect: %w", err)
	}
	return nil
}
