// Command codeeditor-api serves exercises, build log annotations and editor sessions
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"codeeditor/internal/platform/config"
	"codeeditor/internal/platform/logger"
	phttp "codeeditor/internal/platform/net/http"
	"codeeditor/internal/platform/store"

	"codeeditor/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// clickhouse is optional, build logs fall back to memory without it
	st, err := store.Open(ctx, store.LoadConfig(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	srv := phttp.NewServer(apiCfg)

	release := api.Mount(
		srv.Router(),
		api.Options{
			Config:          root,
			Store:           st,
			Logger:          l,
			EnableSwagger:   apiCfg.MayBool("SWAGGER", true),
			DocsTitleSuffix: apiCfg.MayString("DOCS_TITLE_SUFFIX", ""),
			EnableProfiler:  apiCfg.MayBool("PROFILER", false),
			StreamOrigins:   apiCfg.MayCSV("STREAM_ORIGINS", nil),
		},
	)
	defer release()

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}
}
