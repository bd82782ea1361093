package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"eldtrip/backend/config"
	"eldtrip/backend/driver"
	"eldtrip/backend/geo"
	"eldtrip/backend/model"
	"eldtrip/backend/planner"
	"eldtrip/backend/server"
	"eldtrip/backend/sim"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var cfgPath string

	root := &cobra.Command{
		Use:   "eldtrip",
		Short: "FMCSA hours-of-service trip planner",
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (YAML)")

	root.AddCommand(serveCmd(&cfgPath), planCmd(&cfgPath), batchCmd())
	return root
}

func setup(cfgPath string) (*config.Config, *zap.SugaredLogger, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	var logger *zap.Logger
	if cfg.DevLogging {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.Sugar(), nil
}

func buildPlanner(cfg *config.Config, log *zap.SugaredLogger) (*planner.Planner, *geo.Nominatim) {
	nominatim := geo.NewNominatim(geo.NominatimOptions{
		BaseURL:   cfg.NominatimURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.GeocodeTimeout,
	}, log)
	ors := geo.NewORS(geo.ORSOptions{
		URL:     cfg.ORSURL,
		APIKey:  cfg.ORSAPIKey,
		Timeout: cfg.RouteTimeout,
	}, log)
	return planner.New(nominatim, ors, log), nominatim
}

func serveCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			p, nominatim := buildPlanner(cfg, log)
			srv := server.New(p, nominatim, log)

			log.Infow("serving", "addr", cfg.ListenAddr)
			httpServer := &http.Server{
				Addr:              cfg.ListenAddr,
				Handler:           srv.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			return httpServer.ListenAndServe()
		},
	}
}

func planCmd(cfgPath *string) *cobra.Command {
	var req model.TripRequest
	var reportPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan a single trip from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			cfg, log, err := setup(*cfgPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			p, _ := buildPlanner(cfg, log)
			plan, err := p.PlanTrip(context.Background(), req)
			if err != nil {
				return err
			}
			sim.PrintConsoleReport(plan)
			if reportPath != "" {
				out, err := sim.WriteCSVReport(reportPath, plan)
				if err != nil {
					return err
				}
				log.Infow("report written", "path", out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.CurrentLocation, "current", "", "driver's current location")
	cmd.Flags().StringVar(&req.PickupLocation, "pickup", "", "pickup location")
	cmd.Flags().StringVar(&req.DropoffLocation, "dropoff", "", "dropoff location")
	cmd.Flags().Float64Var(&req.CycleUsedHours, "cycle-used", 0, "hours already used in the 70h/8-day cycle")
	cmd.Flags().StringVar(&reportPath, "report", "", "write a CSV report to this path or directory")
	return cmd
}

func batchCmd() *cobra.Command {
	var opt driver.Options

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run offline trip scenarios (no network)",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer logger.Sync()
			opt.Log = logger.Sugar()
			return driver.Run(opt)
		},
	}
	cmd.Flags().StringVar(&opt.ScenarioPath, "scenarios", "", "JSON file with trip scenarios")
	cmd.Flags().StringVar(&opt.ReportDir, "report-dir", "", "directory for per-scenario CSV reports")
	return cmd
}
