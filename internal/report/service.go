package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	"github.com/sebuszqo/FlexiFi/internal/logging"
)

type SnapshotSource interface {
	Snapshot(ctx context.Context, userID string, query application.AdviceQuery) (*application.Snapshot, error)
}

// Report is either a stored object with a download link or, without
// storage, the workbook itself.
type Report struct {
	Key       string    `json:"key,omitempty"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
	Content   []byte    `json:"-"`
}

func (r *Report) Stored() bool {
	return r.URL != ""
}

type Service struct {
	snapshots SnapshotSource
	storage   Storage
	expiry    time.Duration
	logger    logging.Logger
	now       func() time.Time
}

// NewService builds the report service. storage may be nil.
func NewService(snapshots SnapshotSource, storage Storage, expiry time.Duration, logger logging.Logger) *Service {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &Service{
		snapshots: snapshots,
		storage:   storage,
		expiry:    expiry,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) Generate(ctx context.Context, userID string, query application.AdviceQuery) (*Report, error) {
	snapshot, err := s.snapshots.Snapshot(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	content, err := BuildWorkbook(snapshot)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return &Report{Content: content}, nil
	}

	now := s.now()
	key, err := ObjectKey(userID, now)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Upload(ctx, key, content, ContentType); err != nil {
		return nil, err
	}
	url, err := s.storage.PresignGet(ctx, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("report %s stored but not linkable: %w", key, err)
	}

	s.logger.Info("Report stored",
		logging.Field{Key: logging.FieldUserID, Value: userID},
		logging.Field{Key: logging.FieldReportKey, Value: key},
	)
	return &Report{Key: key, URL: url, ExpiresAt: now.Add(s.expiry).UTC()}, nil
}
