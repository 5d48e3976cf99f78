package cli

import (
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evobandits/gmab/internal/api"
	"github.com/evobandits/gmab/internal/store"
)

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Address to listen on")
	serveCmd.Flags().String("db", "", "SQLite database to persist results to (optional)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the optimizer over HTTP",
	Long: `Start the HTTP API. Studies are submitted with
POST /api/v1/studies and stored results fetched with GET /api/v1/studies.
Prometheus metrics are exposed at /metrics.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	dbPath, _ := cmd.Flags().GetString("db")

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var db *store.DB
	if dbPath != "" {
		db, err = store.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	srv := api.NewServer(db, logger)
	logger.Info("listening", zap.String("addr", addr), zap.Bool("persistence", db != nil))
	return http.ListenAndServe(addr, srv.Handler())
}
