package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-odoo/core"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ActivityStore persists operation outcomes. Record payloads never reach it;
// metadata is redacted before insert.
type ActivityStore struct {
	db   *bun.DB
	repo repository.Repository[*activityRecord]
	now  func() time.Time
}

func NewActivityStore(db *bun.DB) (*ActivityStore, error) {
	if db == nil {
		return nil, fmt.Errorf("sqlstore: bun db is required")
	}
	repo := repository.NewRepository[*activityRecord](db, activityHandlers())
	if validator, ok := repo.(repository.Validator); ok {
		if err := validator.Validate(); err != nil {
			return nil, fmt.Errorf("sqlstore: invalid activity repository wiring: %w", err)
		}
	}
	return &ActivityStore{
		db:   db,
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *ActivityStore) Record(ctx context.Context, entry core.ActivityEntry) error {
	if s == nil || s.repo == nil {
		return fmt.Errorf("sqlstore: activity store is not configured")
	}
	operation := strings.TrimSpace(entry.Operation)
	if operation == "" {
		return fmt.Errorf("sqlstore: activity operation is required")
	}
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		id = uuid.NewString()
	}
	occurredAt := entry.OccurredAt.UTC()
	if entry.OccurredAt.IsZero() {
		occurredAt = s.now()
	}
	status := strings.TrimSpace(string(entry.Status))
	if status == "" {
		status = string(core.ActivityStatusSuccess)
	}

	record := &activityRecord{
		ID:         id,
		Operation:  operation,
		Model:      strings.TrimSpace(entry.Model),
		Status:     status,
		DurationMS: entry.DurationMS,
		ErrorCode:  strings.TrimSpace(entry.ErrorCode),
		Error:      entry.Error,
		Metadata:   core.RedactSensitiveMap(entry.Metadata),
		OccurredAt: occurredAt,
	}
	_, err := s.repo.Create(ctx, record)
	return err
}

func (s *ActivityStore) List(ctx context.Context, filter core.ActivityFilter) (core.ActivityPage, error) {
	if s == nil || s.repo == nil {
		return core.ActivityPage{}, fmt.Errorf("sqlstore: activity store is not configured")
	}
	page, perPage := core.NormalizeActivityPaging(filter)
	offset := (page - 1) * perPage

	selectors := []repository.SelectCriteria{
		repository.OrderBy("occurred_at DESC"),
		repository.SelectPaginate(perPage, offset),
	}
	if operation := strings.TrimSpace(filter.Operation); operation != "" {
		selectors = append(selectors, repository.SelectBy("operation", "=", operation))
	}
	if status := strings.TrimSpace(string(filter.Status)); status != "" {
		selectors = append(selectors, repository.SelectBy("status", "=", status))
	}
	if filter.Since != nil {
		selectors = append(selectors, repository.SelectByTimetz("occurred_at", ">=", filter.Since.UTC()))
	}
	if filter.Until != nil {
		selectors = append(selectors, repository.SelectByTimetz("occurred_at", "<=", filter.Until.UTC()))
	}

	records, total, err := s.repo.List(ctx, selectors...)
	if err != nil {
		return core.ActivityPage{}, err
	}
	items := make([]core.ActivityEntry, 0, len(records))
	for _, record := range records {
		items = append(items, activityRecordToDomain(record))
	}
	out := core.ActivityPage{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
	if offset+len(items) < total {
		out.HasMore = true
		out.NextOffset = offset + len(items)
	}
	return out, nil
}

func (s *ActivityStore) Prune(ctx context.Context, policy core.ActivityRetentionPolicy) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("sqlstore: activity store is not configured")
	}
	deleted := 0

	if policy.TTL > 0 {
		cutoff := s.now().Add(-policy.TTL)
		res, err := s.db.NewDelete().
			Model((*activityRecord)(nil)).
			Where("occurred_at < ?", cutoff).
			Exec(ctx)
		if err != nil {
			return deleted, err
		}
		affected, _ := res.RowsAffected()
		deleted += int(affected)
	}

	if policy.RowCap > 0 {
		total, err := s.db.NewSelect().Model((*activityRecord)(nil)).Count(ctx)
		if err != nil {
			return deleted, err
		}
		if excess := total - policy.RowCap; excess > 0 {
			res, err := s.db.NewRaw(
				"DELETE FROM odoo_activity WHERE id IN (SELECT id FROM odoo_activity ORDER BY occurred_at ASC LIMIT ?)",
				excess,
			).Exec(ctx)
			if err != nil {
				return deleted, err
			}
			affected, _ := res.RowsAffected()
			deleted += int(affected)
		}
	}

	return deleted, nil
}

func activityRecordToDomain(record *activityRecord) core.ActivityEntry {
	if record == nil {
		return core.ActivityEntry{}
	}
	return core.ActivityEntry{
		ID:         record.ID,
		Operation:  record.Operation,
		Model:      record.Model,
		Status:     core.ActivityStatus(record.Status),
		DurationMS: record.DurationMS,
		ErrorCode:  record.ErrorCode,
		Error:      record.Error,
		Metadata:   record.Metadata,
		OccurredAt: record.OccurredAt.UTC(),
	}
}
