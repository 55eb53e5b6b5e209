package sqlstore

import "github.com/goliatone/go-odoo/core"

var (
	_ core.ActivityLedger          = (*ActivityStore)(nil)
	_ core.ActivityRetentionPruner = (*ActivityStore)(nil)
)
