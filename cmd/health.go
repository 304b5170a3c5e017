package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/frahmantamala/billed/internal/health"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the storage and the Store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDependencies("health", func(ctx context.Context, deps *Dependencies) error {
			checker := health.NewChecker(deps.Config.Store.Timeout)
			if deps.DB != nil {
				sqlDB, err := deps.DB.DB()
				if err != nil {
					return err
				}
				checker.Add("storage", health.PingCheck(sqlDB))
			}
			checker.Add("store", health.HTTPCheck(&http.Client{Transport: deps.Store.HTTP.Transport}, deps.Config.Store.BaseURL))

			report := checker.Run(ctx)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
			if report.Status != health.StatusHealthy {
				return fmt.Errorf("billed is %s", report.Status)
			}
			return nil
		})
	},
}
