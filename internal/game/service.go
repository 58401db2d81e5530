package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// MissingQuery is the message that asks for the first missing slots
const MissingQuery = "?"

// missingListSize is how many missing slots a query lists
const missingListSize = 10

// ResponseKind tells the transport which kind of reply it is sending
type ResponseKind string

const (
	ResponseClaimed   ResponseKind = "success"
	ResponseDuplicate ResponseKind = "duplicate"
	ResponseMissing   ResponseKind = "missing_numbers"
	ResponseComplete  ResponseKind = "complete"
	ResponseInfo      ResponseKind = "info"
	ResponseReleased  ResponseKind = "released"
	ResponseNotFound  ResponseKind = "not_found"
	ResponseForbidden ResponseKind = "forbidden"
	ResponseInvalid   ResponseKind = "invalid_format"
	ResponseReset     ResponseKind = "reset"
	ResponseStats     ResponseKind = "stats"
)

// Response is a transport-neutral reply
type Response struct {
	Kind ResponseKind
	Text string
}

// Observer receives claim and release outcomes, e.g. for metrics
type Observer interface {
	ObserveClaim(outcome ClaimOutcome)
	ObserveRelease(outcome ReleaseOutcome)
}

// Service turns inbound chat text into registry operations and replies
type Service struct {
	registry *Registry
	saver    Saver
	observer Observer
	logger   *slog.Logger
	location *time.Location
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithObserver reports outcomes to o
func WithObserver(o Observer) ServiceOption {
	return func(s *Service) {
		s.observer = o
	}
}

// WithLogger sets the service logger
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = l
	}
}

// WithLocation sets the time zone used when rendering timestamps
func WithLocation(loc *time.Location) ServiceOption {
	return func(s *Service) {
		s.location = loc
	}
}

// NewService creates a Service over registry, persisting through saver
func NewService(registry *Registry, saver Saver, opts ...ServiceOption) *Service {
	s := &Service{
		registry: registry,
		saver:    saver,
		logger:   slog.Default(),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the underlying registry
func (s *Service) Registry() *Registry {
	return s.registry
}

// Handle processes one inbound message from userID
func (s *Service) Handle(ctx context.Context, text, userID string, isBot bool) (Response, error) {
	text = strings.TrimSpace(text)

	if text == MissingQuery {
		return s.Missing(), nil
	}
	if s.registry.IsValidSlot(text) {
		return s.submit(ctx, text, userID, isBot)
	}

	return Response{
		Kind: ResponseInfo,
		Text: fmt.Sprintf("Send a number from 001 to %s, or %q to see missing numbers", FormatKey(s.registry.MaxSlots()), MissingQuery),
	}, nil
}

func (s *Service) submit(ctx context.Context, text, userID string, isBot bool) (Response, error) {
	// A duplicate still counts as having played
	if !isBot {
		s.registry.RecordPlayer(userID)
	}

	result := s.registry.Claim(text, userID)
	s.observeClaim(result.Outcome)

	switch result.Outcome {
	case ClaimAlreadyClaimed:
		return Response{Kind: ResponseDuplicate, Text: "already claimed"}, nil
	case ClaimInvalidFormat:
		return Response{Kind: ResponseInvalid, Text: "invalid number format"}, nil
	}

	if err := s.saver.Save(ctx, s.registry); err != nil {
		// Unsaved claims are rolled back so the user can retry
		s.registry.Release(result.Key, userID)
		return Response{}, fmt.Errorf("failed to save claim %s: %w", result.Key, err)
	}
	s.logger.Info("Slot claimed", "slot", result.Key, "user", userID, "remaining", result.Remaining)

	var sb strings.Builder
	sb.WriteString("saved")
	if result.Remaining%10 == 0 {
		fmt.Fprintf(&sb, "\n%d numbers left", result.Remaining)
	}
	if s.registry.IsComplete() {
		fmt.Fprintf(&sb, "\n🎉 VICTORY! 🎉\nAll %d numbers found!", s.registry.MaxSlots())
	}
	return Response{Kind: ResponseClaimed, Text: sb.String()}, nil
}

// Missing lists the first missing slots
func (s *Service) Missing() Response {
	missing := s.registry.FirstMissing(missingListSize)
	if len(missing) == 0 {
		return Response{Kind: ResponseComplete, Text: "All numbers found! 🎉"}
	}
	return Response{
		Kind: ResponseMissing,
		Text: fmt.Sprintf("First %d missing numbers:\n%s", missingListSize, strings.Join(missing, ", ")),
	}
}

// Release removes userID's claim on the slot named by text
func (s *Service) Release(ctx context.Context, text, userID string) (Response, error) {
	result := s.registry.Release(text, userID)
	s.observeRelease(result.Outcome)

	switch result.Outcome {
	case ReleaseInvalidFormat:
		return Response{Kind: ResponseInvalid, Text: "invalid number format"}, nil
	case ReleaseNotFound:
		return Response{Kind: ResponseNotFound, Text: fmt.Sprintf("Number %s has not been claimed", result.Key)}, nil
	case ReleaseForbidden:
		return Response{Kind: ResponseForbidden, Text: fmt.Sprintf("Number %s was claimed by someone else", result.Key)}, nil
	}

	if err := s.saver.Save(ctx, s.registry); err != nil {
		return Response{}, fmt.Errorf("failed to save release %s: %w", result.Key, err)
	}
	s.logger.Info("Slot released", "slot", result.Key, "user", userID, "remaining", result.Remaining)

	return Response{
		Kind: ResponseReleased,
		Text: fmt.Sprintf("Number %s released. %d numbers left", result.Key, result.Remaining),
	}, nil
}

// Reset clears the game and persists the empty state
func (s *Service) Reset(ctx context.Context) (Response, error) {
	s.registry.Reset()
	if err := s.saver.Save(ctx, s.registry); err != nil {
		return Response{}, fmt.Errorf("failed to save reset: %w", err)
	}
	s.logger.Info("Game reset")
	return Response{Kind: ResponseReset, Text: "Game reset. All numbers removed."}, nil
}

// Summary renders the game statistics
func (s *Service) Summary() Response {
	st := s.registry.Stats()
	return Response{
		Kind: ResponseStats,
		Text: fmt.Sprintf("📊 Game stats:\nNumbers found: %d\nRemaining: %d\nPlayers: %d\nLast update: %s",
			st.Claimed, st.Remaining, st.Players, st.LastUpdate.In(s.location).Format("2006-01-02 15:04:05 MST")),
	}
}

func (s *Service) observeClaim(o ClaimOutcome) {
	if s.observer != nil {
		s.observer.ObserveClaim(o)
	}
}

func (s *Service) observeRelease(o ReleaseOutcome) {
	if s.observer != nil {
		s.observer.ObserveRelease(o)
	}
}
