package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/careerforge/onboarding-portal/internal/board"
	"github.com/careerforge/onboarding-portal/internal/client"
	"github.com/careerforge/onboarding-portal/internal/config"
	"github.com/careerforge/onboarding-portal/internal/domain"
	"github.com/careerforge/onboarding-portal/internal/observability"
)

var errNotLoggedIn = errors.New("not logged in; run boardctl login")

// app is the state shared by every subcommand.
type app struct {
	cfg     config.BoardConfig
	session *client.Session
	api     *client.Client
	logger  *zap.Logger
	out     io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}
	var logLevel string

	root := &cobra.Command{
		Use:           "boardctl",
		Short:         "Onboarding board client",
		Long:          `boardctl lists, inspects and moves onboarding jobs on the portal board.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return a.init(logLevel)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&logLevel, "log-level", "error", "client log level (debug, info, warn, error)")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newBoardCmd(a),
		newShowCmd(a),
		newWatchCmd(a),
		newTargetsCmd(a),
		newMoveCmd(a),
		newCommentCmd(a),
		newRenameCmd(a),
		newRequestsCmd(a),
		newInboxCmd(a),
		newIssuesCmd(a),
		newAttachCmd(a),
	)
	return root
}

func (a *app) init(logLevel string) error {
	a.cfg = config.LoadBoard()

	logger, err := observability.NewLogger(config.LoggerConfig{Level: logLevel, Output: "stderr"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logger

	session, err := client.LoadSession(a.cfg.SessionPath)
	if err != nil {
		return err
	}
	a.session = session

	opts := []client.Option{client.WithLogger(logger)}
	if session.AuthToken != "" {
		opts = append(opts, client.WithToken(session.AuthToken))
	}
	a.api = client.New(a.cfg.APIURL, opts...)
	return nil
}

func (a *app) viewer() (board.Viewer, error) {
	user, ok := a.session.CurrentUser()
	if !ok {
		return board.Viewer{}, errNotLoggedIn
	}
	return board.Viewer{Email: user.Email, Role: user.Role, SubRole: user.SubRole}, nil
}

// workspace is a freshly loaded board for one command run.
type workspace struct {
	viewer board.Viewer
	store  *board.Store
	poller *board.Poller
	cache  *board.DetailCache
	mover  *board.Mover
}

func (a *app) workspace(cmd *cobra.Command) (*workspace, error) {
	viewer, err := a.viewer()
	if err != nil {
		return nil, err
	}
	store := board.NewStore()
	cache := board.NewDetailCache(a.api.GetJob, a.cfg.PrefetchDelay, a.logger)
	ws := &workspace{
		viewer: viewer,
		store:  store,
		poller: board.NewPoller(store, a.api, a.cfg.PollInterval, a.logger),
		cache:  cache,
		mover:  board.NewMover(store, a.api, board.NewExecutor(a.logger), cache, viewer, a.logger),
	}
	if err := ws.poller.Refresh(cmd.Context()); err != nil {
		return nil, err
	}
	return ws, nil
}

func parseStatusArg(raw string) (domain.OnboardingStatus, error) {
	return domain.ParseStatus(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_"))
}

// describeError turns API and pipeline errors into one readable line.
func describeError(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		if allowed := apiErr.AllowedStatuses(); len(allowed) > 0 {
			return fmt.Sprintf("%s (allowed: %s)", apiErr.Error(), strings.Join(allowed, ", "))
		}
		if apiErr.IsUnauthorized() {
			return apiErr.Error() + "; run boardctl login"
		}
		return apiErr.Error()
	}
	var netErr *client.NetworkError
	if errors.As(err, &netErr) {
		return "portal unreachable: " + netErr.Error()
	}
	var rollback *board.RollbackError
	if errors.As(err, &rollback) {
		return fmt.Sprintf("%s failed and was undone: %v", rollback.Command, rollback.Err)
	}
	return err.Error()
}
