package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

type activityRecord struct {
	bun.BaseModel `bun:"table:odoo_activity,alias:oa"`

	ID         string         `bun:"id,pk"`
	Operation  string         `bun:"operation,notnull"`
	Model      string         `bun:"model,notnull"`
	Status     string         `bun:"status,notnull"`
	DurationMS int64          `bun:"duration_ms,notnull"`
	ErrorCode  string         `bun:"error_code,notnull"`
	Error      string         `bun:"error,notnull"`
	Metadata   map[string]any `bun:"metadata,type:jsonb,notnull"`
	OccurredAt time.Time      `bun:"occurred_at,nullzero,notnull,default:current_timestamp"`
}
