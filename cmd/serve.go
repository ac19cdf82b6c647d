package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/phoenix-cv/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the scoring, coaching and generation API over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a := newApplication()
		defer a.close()

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		h, err := newHandler(ctx, a)
		if err != nil {
			return err
		}

		a.logger.Info("starting the api",
			zap.String("version", version),
			zap.String("listen", a.config.Server.Listen),
			zap.Bool("ai", a.config.AI.Enabled),
			zap.Bool("demo", a.config.Demo),
		)

		return server.New(a.config.Server, h, a.logger.Named("http")).Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default is server.listen, :8080)")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func newHandler(ctx context.Context, a *application) (*server.Handler, error) {
	engine, err := newEngine(a.config.Scoring, a.logger)
	if err != nil {
		return nil, err
	}

	assistant := newAssistant(ctx, a.config, a.logger)
	reviews := newReviewService(engine, assistant, a.config.AI, a.logger)

	return server.NewHandler(engine, reviews, assistant), nil
}
