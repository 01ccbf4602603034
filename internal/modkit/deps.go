package modkit

import (
	"codeeditor/internal/modkit/repokit"
	"codeeditor/internal/platform/config"
	"codeeditor/internal/platform/logger"
	"codeeditor/internal/platform/store"
)

// Deps are the shared dependencies every module constructor receives
// PG and CH are nil when the backend is disabled
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}
