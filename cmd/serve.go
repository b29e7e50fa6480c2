package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cybercaution/cybercaution/internal/api"
	"github.com/cybercaution/cybercaution/internal/catalog"
	jsonrepo "github.com/cybercaution/cybercaution/internal/persistence/json"
	"github.com/cybercaution/cybercaution/internal/results"
	"github.com/cybercaution/cybercaution/internal/scoring"
	"github.com/cybercaution/cybercaution/internal/session"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run CyberCaution as a REST API service",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext()
		addr, _ := cmd.Flags().GetString("addr")
		authToken, _ := cmd.Flags().GetString("auth-token")
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")
		corsOrigins, _ := cmd.Flags().GetStringSlice("cors-origins")
		rateLimit, _ := cmd.Flags().GetInt("rate-limit")
		rateBurst, _ := cmd.Flags().GetInt("rate-burst")

		// Initialize structured logger
		logger, err := zap.NewProduction()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer func() {
			if err := logger.Sync(); err != nil {
				fmt.Fprintf(os.Stderr, "failed to sync logger: %v\n", err)
			}
		}()

		resultRepo, err := jsonrepo.NewResultRepository(appCtx.DataDir)
		if err != nil {
			return err
		}

		manager := session.NewManager()
		handoff := results.NewHandoffStore()

		server := api.NewServer(api.Config{
			Catalogs: &catalogAPIService{appCtx: appCtx},
			Sessions: &sessionAPIService{
				appCtx:  appCtx,
				manager: manager,
				handoff: handoff,
			},
			Results:     &resultAPIService{repo: resultRepo},
			Health:      &healthAPIService{appCtx: appCtx},
			AuthToken:   authToken,
			Logger:      logger,
			CORSOrigins: corsOrigins,
			RateLimit:   rateLimit,
			RateBurst:   rateBurst,
		})

		httpServer := &http.Server{
			Addr:         addr,
			Handler:      server,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		// Channel to listen for errors from the server
		serverErrors := make(chan error, 1)

		// Start server in a goroutine
		go func() {
			fmt.Printf("%s API server listening on %s (data dir: %s)\n", colorInfo("→"), addr, appCtx.DataDir)
			fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))
			serverErrors <- httpServer.ListenAndServe()
		}()

		// Channel to listen for interrupt signals
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Block until we receive a signal or an error
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server error: %w", err)
			}
		case sig := <-shutdown:
			fmt.Printf("\n%s Received signal %v, initiating graceful shutdown...\n", colorInfo("→"), sig)

			// Create context with timeout for shutdown
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			// Attempt graceful shutdown
			if err := httpServer.Shutdown(ctx); err != nil {
				// Force close if graceful shutdown fails
				if closeErr := httpServer.Close(); closeErr != nil {
					return fmt.Errorf("failed to gracefully shutdown server: %w (close error: %v)", err, closeErr)
				}
				return fmt.Errorf("failed to gracefully shutdown server: %w", err)
			}

			fmt.Printf("%s Server shutdown complete\n", colorInfo("✓"))
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Address for the API server")
	serveCmd.Flags().String("auth-token", "", "Optional shared secret for API requests")
	serveCmd.Flags().Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
	serveCmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (empty = allow all)")
	serveCmd.Flags().Int("rate-limit", 10, "Rate limit per IP (requests/second, 0 = disabled)")
	serveCmd.Flags().Int("rate-burst", 20, "Rate limit burst size")
	rootCmd.AddCommand(serveCmd)
}

type catalogAPIService struct {
	appCtx *AppContext
}

func (s *catalogAPIService) ListCatalogs(ctx context.Context) ([]api.CatalogInfo, error) {
	catalogs := s.appCtx.Registry.List()
	resp := make([]api.CatalogInfo, 0, len(catalogs))
	for _, c := range catalogs {
		resp = append(resp, api.CatalogInfo{
			Type:          c.Type,
			Name:          c.Name,
			Framework:     c.Framework,
			SectionCount:  len(c.Sections),
			QuestionCount: c.QuestionCount(),
		})
	}
	return resp, nil
}

func (s *catalogAPIService) GetCatalog(ctx context.Context, assessmentType string) (*catalog.Catalog, error) {
	return s.appCtx.Registry.Get(assessmentType)
}

type sessionAPIService struct {
	appCtx  *AppContext
	manager *session.Manager
	handoff *results.HandoffStore
}

func (s *sessionAPIService) view(sess *session.Session) (*api.SessionView, error) {
	cat, err := s.appCtx.Registry.Get(sess.AssessmentType())
	if err != nil {
		return nil, err
	}
	return &api.SessionView{
		ID:             sess.ID(),
		AssessmentType: sess.AssessmentType(),
		Section:        sess.Section(),
		Answered:       sess.AnsweredCount(),
		QuestionCount:  cat.QuestionCount(),
		CreatedAt:      sess.CreatedAt(),
		UpdatedAt:      sess.UpdatedAt(),
	}, nil
}

func (s *sessionAPIService) ListSessions(ctx context.Context) ([]api.SessionView, error) {
	sessions := s.manager.List()
	resp := make([]api.SessionView, 0, len(sessions))
	for _, sess := range sessions {
		v, err := s.view(sess)
		if err != nil {
			continue
		}
		resp = append(resp, *v)
	}
	return resp, nil
}

func (s *sessionAPIService) CreateSession(ctx context.Context, req api.SessionCreateRequest) (*api.SessionView, error) {
	cat, err := s.appCtx.Registry.Get(req.AssessmentType)
	if err != nil {
		return nil, err
	}

	sess, err := s.manager.Create(req.AssessmentType)
	if err != nil {
		return nil, err
	}

	// Restore persisted answers when the caller asks to resume and the
	// snapshot matches the active catalog revision.
	if req.Resume {
		if snap, ok := s.appCtx.Snapshots.Load(ctx, req.AssessmentType, cat.Checksum()); ok {
			for id, a := range snap.TypedAnswers() {
				if err := sess.SetAnswer(id, a); err != nil {
					continue
				}
			}
			sess.SetSection(clampSection(snap.Section, len(cat.Sections)))
		}
	}

	return s.view(sess)
}

func (s *sessionAPIService) GetSession(ctx context.Context, id string) (*api.SessionView, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}
	return s.view(sess)
}

func (s *sessionAPIService) RecordAnswer(ctx context.Context, id string, req api.AnswerRequest) (*api.SessionView, error) {
	answer, err := scoring.ParseAnswer(req.Value)
	if err != nil {
		return nil, err
	}

	var view *api.SessionView
	err = s.manager.WithSession(id, func(sess *session.Session) error {
		cat, err := s.appCtx.Registry.Get(sess.AssessmentType())
		if err != nil {
			return err
		}

		if err := sess.SetAnswer(req.QuestionID, answer); err != nil {
			return err
		}
		if req.Section != nil {
			sess.SetSection(clampSection(*req.Section, len(cat.Sections)))
		}
		snap := jsonrepo.NewSnapshot(sess.AssessmentType(), cat.Checksum(), sess.Answers(), sess.Section())
		if err := s.appCtx.Snapshots.Save(ctx, snap); err != nil {
			s.appCtx.Logger.Warnw("could not persist session snapshot",
				"session_id", id, "error", err)
		}

		view, err = s.view(sess)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *sessionAPIService) GetScore(ctx context.Context, id string) (*results.Summary, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		// A completed session hands its summary off once; after that,
		// and for ids never seen, callers get a placeholder.
		summary, _ := s.handoff.Take(id)
		return &summary, nil
	}

	cat, err := s.appCtx.Registry.Get(sess.AssessmentType())
	if err != nil {
		return nil, err
	}
	summary := results.Build(cat, sess.Answers(), time.Time{})
	return &summary, nil
}

func (s *sessionAPIService) CompleteSession(ctx context.Context, id string) (*results.Summary, error) {
	sess, err := s.manager.Get(id)
	if err != nil {
		return nil, err
	}

	cat, err := s.appCtx.Registry.Get(sess.AssessmentType())
	if err != nil {
		return nil, err
	}

	_, scores := scoring.ScoreCatalog(cat, sess.Answers())
	if !scoring.GateMet(scores) {
		return nil, fmt.Errorf("%w: complete at least %d of %d sections",
			sharedErrors.ErrResultsNotReady, scoring.RequiredSections(len(scores)), len(scores))
	}

	summary := results.Build(cat, sess.Answers(), time.Now().UTC())
	s.handoff.Put(id, summary)
	s.manager.Remove(id)
	return &summary, nil
}

type resultAPIService struct {
	repo *jsonrepo.ResultRepository
}

func (s *resultAPIService) SaveResult(ctx context.Context, req api.ResultSaveRequest) (*api.SavedResult, error) {
	stored, err := s.repo.Save(ctx, req.UserID, req.Summary)
	if err != nil {
		return nil, err
	}
	return convertStoredResult(*stored), nil
}

func (s *resultAPIService) ListResults(ctx context.Context, userID string) ([]api.SavedResult, error) {
	stored, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := make([]api.SavedResult, 0, len(stored))
	for _, r := range stored {
		resp = append(resp, *convertStoredResult(r))
	}
	return resp, nil
}

func convertStoredResult(r jsonrepo.StoredResult) *api.SavedResult {
	return &api.SavedResult{
		ID:      r.ID,
		UserID:  r.UserID,
		Summary: r.Summary,
		SavedAt: r.SavedAt,
	}
}

type healthAPIService struct {
	appCtx *AppContext
}

func (s *healthAPIService) Check(ctx context.Context) error {
	if s.appCtx.DataDir == "" {
		return fmt.Errorf("data directory not configured")
	}
	return nil
}

func (s *healthAPIService) Ready(ctx context.Context) error {
	if len(s.appCtx.Registry.List()) == 0 {
		return fmt.Errorf("no catalogs loaded")
	}
	return nil
}
