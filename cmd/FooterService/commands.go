package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Nazarious-ucu/listings-footer/internal/app"
	"github.com/Nazarious-ucu/listings-footer/internal/config"
	"github.com/Nazarious-ucu/listings-footer/internal/content"
	"github.com/Nazarious-ucu/listings-footer/internal/render"
	"github.com/Nazarious-ucu/listings-footer/internal/repository/sqlite"
	"github.com/Nazarious-ucu/listings-footer/pkg/logger"
)

const serviceName = "footer-service"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "footer",
		Short:        "KenyaHomes site footer service",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd(), renderCmd(), migrateCmd(), consumeCmd())
	return root
}

func setup() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.NewLogger(cfg.LogsPath, serviceName, cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to init logger: %w", err)
	}
	return cfg, l, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the footer, newsletter widget and subscriber API over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := setup()
			if err != nil {
				return err
			}
			return app.New(*cfg, l).Start(cmd.Context())
		},
	}
}

func consumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Send confirmation emails for subscriber events queued in RabbitMQ",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := setup()
			if err != nil {
				return err
			}
			return app.New(*cfg, l).Consume(cmd.Context())
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := setup()
			if err != nil {
				return err
			}

			db, err := sqlite.CreateSqliteDb(cmd.Context(), cfg.DB.Dialect, cfg.DB.Source)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := sqlite.Migrate(cmd.Context(), db, l); err != nil {
				return err
			}
			l.Info().Str("db", cfg.DB.Source).Msg("migrations applied")
			return nil
		},
	}
}

func renderCmd() *cobra.Command {
	var (
		contentPath string
		out         string
		fragment    bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the footer with an idle newsletter widget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(filepath.Clean(out))
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				w = f
			}
			return renderFooter(cmd, w, contentPath, fragment)
		},
	}

	cmd.Flags().StringVar(&contentPath, "content", os.Getenv("FOOTER_CONTENT_PATH"), "footer content YAML (built-in content when empty)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "render only the <footer> element")
	return cmd
}

func renderFooter(cmd *cobra.Command, w io.Writer, contentPath string, fragment bool) error {
	c, err := content.Load(contentPath)
	if err != nil {
		return err
	}

	r, err := render.New()
	if err != nil {
		return err
	}
	static, err := r.Static(cmd.Context(), c)
	if err != nil {
		return err
	}

	view := render.View{Content: c, Static: static}
	if fragment {
		return r.RenderFooter(w, view)
	}
	return r.RenderPage(w, view)
}
