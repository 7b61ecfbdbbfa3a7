package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/bnema/pairline/internal/adapters/transport/ws"
	"github.com/bnema/pairline/internal/domain"
	"github.com/spf13/cobra"
)

var errJoinRejected = errors.New("join rejected")

func newJoinCmd(app *app) *cobra.Command {
	var serverURL string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "join <name>",
		Short: "Join the lobby and wait for an opponent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJoin(cmd, app, args[0], serverURL, timeout)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "", "Websocket URL (default ws://127.0.0.1:<configured port>/ws)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Give up after this long (0 waits forever)")

	return cmd
}

func runJoin(cmd *cobra.Command, app *app, name, serverURL string, timeout time.Duration) error {
	if serverURL == "" {
		cfg, err := app.loadConfig()
		if err != nil {
			return err
		}
		serverURL = "ws://" + net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.Server.Port)) + "/ws"
	}

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	client, err := ws.Dial(ctx, serverURL)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	// Unblock pending reads when the context ends.
	stop := context.AfterFunc(ctx, func() { _ = client.Close() })
	defer stop()

	if err := client.Join(name); err != nil {
		return err
	}
	if err := awaitJoined(ctx, client, cmd.OutOrStdout()); err != nil {
		return err
	}

	var found domain.MatchFound
	err = runSpinner(ctx, cmd.ErrOrStderr(), "Searching for an opponent...", func(ctx context.Context) error {
		var err error
		found, err = awaitMatch(ctx, client)
		return err
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "matched: session %s\nopponent: %s\n", found.SessionID, found.Opponent)
	return err
}

// awaitJoined prints server messages until joinSuccess. Any message that
// arrives first and is not the searching notice is a rejection.
func awaitJoined(ctx context.Context, client *ws.Client, out io.Writer) error {
	for {
		env, err := receive(ctx, client)
		if err != nil {
			return err
		}

		switch env.Event {
		case domain.EventJoinSuccess:
			return nil
		case domain.EventMsg:
			var msg domain.Message
			if err := ws.Decode(env, &msg); err != nil {
				return err
			}
			if msg.Text != domain.TextSearching {
				return fmt.Errorf("%w: %s", errJoinRejected, msg.Text)
			}
			if _, err := fmt.Fprintln(out, msg.Text); err != nil {
				return err
			}
		}
	}
}

func awaitMatch(ctx context.Context, client *ws.Client) (domain.MatchFound, error) {
	for {
		env, err := receive(ctx, client)
		if err != nil {
			return domain.MatchFound{}, err
		}
		if env.Event != domain.EventMatchFound {
			continue
		}

		var found domain.MatchFound
		if err := ws.Decode(env, &found); err != nil {
			return domain.MatchFound{}, err
		}
		return found, nil
	}
}

func receive(ctx context.Context, client *ws.Client) (ws.Envelope, error) {
	deadline, _ := ctx.Deadline()
	env, err := client.Receive(deadline)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ws.Envelope{}, fmt.Errorf("waiting for server: %w", ctxErr)
		}
		return ws.Envelope{}, err
	}
	return env, nil
}
