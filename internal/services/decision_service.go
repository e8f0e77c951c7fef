package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sentra-ids/sentra/internal/blocklist"
	"github.com/sentra-ids/sentra/internal/features"
	"github.com/sentra-ids/sentra/internal/models"
	"github.com/sentra-ids/sentra/internal/notify"
	"github.com/sentra-ids/sentra/internal/predictor"
	"github.com/sentra-ids/sentra/internal/reports"
	pkglogger "github.com/sentra-ids/sentra/pkg/logger"
)

// AttemptStore is the slice of the attempt repository the decision engine
// needs.
type AttemptStore interface {
	RecordAttempt(ctx context.Context, attempt *models.LoginAttempt) error
	ListByAddress(ctx context.Context, address string, since time.Time) ([]models.LoginAttempt, error)
	DeleteAll(ctx context.Context) error
}

// LoginSubmission is one inbound authentication try, already extracted from
// the transport layer.
type LoginSubmission struct {
	Address  string
	Username string
	Password string
}

// DecisionService orchestrates the scoring-and-blocking path: blocklist
// check, feature extraction, prediction, persistence, block update,
// notification.
type DecisionService struct {
	store         AttemptStore
	extractor     *features.Extractor
	predictor     predictor.Predictor
	verifier      CredentialVerifier
	blocklist     *blocklist.Blocklist
	notifier      notify.Notifier
	events        *reports.EventLog
	audit         *pkglogger.AuditLogger
	logger        *slog.Logger
	blockDuration time.Duration

	now func() time.Time
}

func NewDecisionService(
	store AttemptStore,
	extractor *features.Extractor,
	pred predictor.Predictor,
	verifier CredentialVerifier,
	bl *blocklist.Blocklist,
	notifier notify.Notifier,
	events *reports.EventLog,
	audit *pkglogger.AuditLogger,
	logger *slog.Logger,
	blockDuration time.Duration,
) *DecisionService {
	return &DecisionService{
		store:         store,
		extractor:     extractor,
		predictor:     pred,
		verifier:      verifier,
		blocklist:     bl,
		notifier:      notifier,
		events:        events,
		audit:         audit,
		logger:        logger,
		blockDuration: blockDuration,
		now:           time.Now,
	}
}

// Evaluate runs one login attempt through the decision path.
//
// Invariants: exactly one store append per non-rejected request, at most one
// blocklist mutation, and notifier failures never change the decision. A
// blocked request neither invokes the predictor nor writes to the store.
func (s *DecisionService) Evaluate(ctx context.Context, sub LoginSubmission) (*models.Decision, error) {
	now := s.now()

	if s.blocklist.IsBlocked(sub.Address, now) {
		return &models.Decision{Status: models.StatusBlocked, Message: "Access denied"}, nil
	}

	vector, err := s.extractor.Extract(ctx, sub.Address, len(sub.Password), now)
	if err != nil {
		return nil, err
	}

	label, err := s.predictor.Predict(vector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPredictor, err)
	}
	verdict := label == 1

	matched, err := s.verifier.Verify(ctx, sub.Username, sub.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: credential verification: %v", models.ErrInternalServer, err)
	}
	outcome := models.OutcomeFail
	if matched {
		outcome = models.OutcomeSuccess
	}

	attempt := &models.LoginAttempt{
		ID:                 uuid.New().String(),
		Address:            sub.Address,
		AttemptTime:        now.UTC(),
		Username:           sub.Username,
		CredentialLength:   len(sub.Password),
		RecentAttemptCount: int(vector[1]),
		Verdict:            verdict,
		Outcome:            outcome,
	}
	if err := s.store.RecordAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("%w: append failed: %v", models.ErrStoreUnavailable, err)
	}

	s.audit.LogDetection(pkglogger.DetectionEvent{
		Address:            attempt.Address,
		Username:           attempt.Username,
		Verdict:            attempt.Verdict,
		Outcome:            string(attempt.Outcome),
		RecentAttemptCount: attempt.RecentAttemptCount,
	})
	s.recordEvent(reports.KindPrediction, now, sub.Address, predictionLabel(verdict))

	if verdict {
		s.applyBlock(sub.Address, sub.Username, now)
		return &models.Decision{Status: models.StatusBlocked, Message: "Intrusion detected. Address blocked."}, nil
	}

	if outcome == models.OutcomeSuccess {
		return &models.Decision{Status: models.StatusSuccess, Message: "Login successful."}, nil
	}
	return &models.Decision{Status: models.StatusFail, Message: "Invalid credentials."}, nil
}

// applyBlock performs the single blocklist mutation for a positive verdict
// and fires the notifier without letting its outcome leak into the response.
func (s *DecisionService) applyBlock(address, username string, now time.Time) {
	entry := s.blocklist.Block(address, now, s.blockDuration)

	s.audit.LogBlockAction("block", address, &entry.ExpiresAt)
	s.recordEvent(reports.KindBlocked, now, address, "BLOCKED")

	// Detached context: the alert must not be cancelled with the request.
	go func() {
		notifyCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		alert := notify.Alert{Address: address, Username: username, DetectedAt: now.UTC()}
		if err := s.notifier.Notify(notifyCtx, alert); err != nil {
			s.logger.Error("alert delivery failed", slog.Any("error", err), slog.String("address", address))
		}
	}()
}

// Unblock removes one address from the blocklist. Operator hook.
func (s *DecisionService) Unblock(address string) {
	s.blocklist.Unblock(address)
	s.audit.LogBlockAction("unblock", address, nil)
	s.recordEvent(reports.KindUnblocked, s.now(), address, "UNBLOCKED")
}

// UnblockAll removes every blocklist entry and returns the addresses freed.
// Operator hook.
func (s *DecisionService) UnblockAll() []string {
	addresses := s.blocklist.UnblockAll()
	now := s.now()
	for _, address := range addresses {
		s.audit.LogBlockAction("unblock", address, nil)
		s.recordEvent(reports.KindUnblocked, now, address, "UNBLOCKED")
	}
	return addresses
}

// BlockedEntries returns the currently enforced block entries.
func (s *DecisionService) BlockedEntries() []models.BlockEntry {
	return s.blocklist.Entries(s.now())
}

// AttemptHistory returns attempts from one address since the given time.
func (s *DecisionService) AttemptHistory(ctx context.Context, address string, since time.Time) ([]models.LoginAttempt, error) {
	attempts, err := s.store.ListByAddress(ctx, address, since)
	if err != nil {
		return nil, fmt.Errorf("%w: history query failed: %v", models.ErrStoreUnavailable, err)
	}
	return attempts, nil
}

// SimulateDetection injects a synthetic positive detection for debugging.
// It reuses the real persistence and block path so the event log and
// blocklist stay consistent with organic detections.
func (s *DecisionService) SimulateDetection(ctx context.Context, address, username string) (*models.LoginAttempt, error) {
	now := s.now()

	attempt := &models.LoginAttempt{
		ID:          uuid.New().String(),
		Address:     address,
		AttemptTime: now.UTC(),
		Username:    username,
		Verdict:     true,
		Outcome:     models.OutcomeFail,
	}
	if err := s.store.RecordAttempt(ctx, attempt); err != nil {
		return nil, fmt.Errorf("%w: append failed: %v", models.ErrStoreUnavailable, err)
	}

	s.audit.LogOperatorAction("simulate_detection", map[string]string{"address": address})
	s.recordEvent(reports.KindPrediction, now, address, predictionLabel(true))
	s.applyBlock(address, username, now)

	return attempt, nil
}

// ClearAllRecords wipes the attempt store, the blocklist, and the event
// files. Debug-tooling only; never exposed outside the operator surface.
func (s *DecisionService) ClearAllRecords(ctx context.Context) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: wipe failed: %v", models.ErrStoreUnavailable, err)
	}
	s.blocklist.UnblockAll()

	if s.events != nil {
		if err := s.events.Clear(); err != nil {
			s.logger.Error("failed to clear event log", slog.Any("error", err))
		}
	}

	s.audit.LogOperatorAction("clear_all_records", nil)
	return nil
}

func (s *DecisionService) recordEvent(kind reports.EventKind, at time.Time, address, label string) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(kind, at, address, label); err != nil {
		s.logger.Error("failed to record event", slog.Any("error", err), slog.String("kind", string(kind)))
	}
}

func predictionLabel(verdict bool) string {
	if verdict {
		return "INTRUSION"
	}
	return "NORMAL"
}
