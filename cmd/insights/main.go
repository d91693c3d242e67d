// cmd/insights/main.go
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"storefront-insights/internal/agent/intent"
	"storefront-insights/internal/alerts"
	"storefront-insights/internal/answer"
	"storefront-insights/internal/common/apperrors"
	"storefront-insights/internal/common/config"
	"storefront-insights/internal/common/database"
	"storefront-insights/internal/common/logger"
	"storefront-insights/internal/common/observability"
	"storefront-insights/internal/pipeline"
	"storefront-insights/internal/store"
)

var version = "1.0.0"

func main() {
	root := &cobra.Command{
		Use:   "insights",
		Short: "Natural-language analytics for your storefront",
		Long:  "insights answers business questions about sales, inventory and customers by running them through a classification and aggregation pipeline.",
	}

	var asJSON bool
	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a single question and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(strings.Join(args, " "), asJSON)
		},
	}
	askCmd.Flags().BoolVar(&asJSON, "json", false, "print the full response envelope as JSON")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer questions from stdin with a metrics endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and configuration summary",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("insights %s\n", version)
			if cfg, err := config.Load(); err == nil {
				fmt.Printf("environment: %s\n", cfg.App.Environment)
				fmt.Printf("store mode: %s\n", cfg.Store.Mode)
			}
		},
	}

	root.AddCommand(askCmd, serveCmd, versionCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAsk(question string, asJSON bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	p, cleanup, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := p.Run(ctx, question)
	if err != nil {
		var perr *apperrors.PipelineError
		if apperrors.IsUserFacing(err) && errors.As(err, &perr) {
			fmt.Fprintf(os.Stderr, "Cannot answer that question: %s\n", perr.Details)
		}
		return err
	}

	if asJSON {
		payload, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(payload))
		return nil
	}

	fmt.Println(resp.Answer)
	fmt.Printf("\n[confidence: %s, %d rows, %dms]\n",
		resp.Confidence, resp.Metadata.RowsReturned, resp.Metadata.ProcessingMs)
	return nil
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	p, cleanup, err := buildPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
		go func() {
			log.Info("metrics listener started", map[string]interface{}{"address": cfg.Metrics.Address})
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics listener stopped", map[string]interface{}{"error": err.Error()})
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Shutdown(shutdownCtx)
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	questions := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("Ask a question (ctrl-d to quit):")
		for scanner.Scan() {
			questions <- scanner.Text()
		}
		close(questions)
	}()

	for {
		select {
		case <-stop:
			log.Info("shutting down", nil)
			return nil
		case question, ok := <-questions:
			if !ok {
				return nil
			}
			question = strings.TrimSpace(question)
			if question == "" {
				continue
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			resp, err := p.Run(ctx, question)
			cancel()

			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Printf("\n%s\n\n[confidence: %s]\n\n", resp.Answer, resp.Confidence)
		}
	}
}

// buildPipeline wires the pipeline from configuration. The returned cleanup
// closes every connection it opened.
func buildPipeline(cfg *config.Config, log logger.Logger) (*pipeline.Pipeline, func(), error) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	executor, err := buildExecutor(cfg, log, &cleanups)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	classifier := buildClassifier(cfg, log)

	var enhancer answer.Enhancer
	if cfg.APIs.GenAI.BaseURL != "" {
		enhancer = answer.NewHTTPEnhancer(answer.HTTPConfig{
			BaseURL:    cfg.APIs.GenAI.BaseURL,
			APIKey:     cfg.APIs.GenAI.APIKey,
			Timeout:    config.GetDuration(cfg.APIs.GenAI.Timeout),
			MaxRetries: 1,
		}, log)
	}
	synthesizer := answer.NewSynthesizer(enhancer, log)

	opts := pipeline.Options{}

	if cfg.Alerts.SNS.Enabled {
		publisher, err := alerts.NewPublisher(context.Background(), cfg.Alerts.SNS.Region, cfg.Alerts.SNS.TopicARN, log)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("init stockout alerts: %w", err)
		}
		opts.Alerts = publisher
	}

	obs := observability.New(cfg.App.Name)
	cleanups = append(cleanups, obs.Shutdown)
	opts.Observability = obs

	return pipeline.New(classifier, executor, synthesizer, log, opts), cleanup, nil
}

func buildClassifier(cfg *config.Config, log logger.Logger) intent.Classifier {
	if cfg.APIs.GenAI.BaseURL != "" {
		classifier, err := intent.NewHTTPClassifier(intent.HTTPConfig{
			BaseURL:    cfg.APIs.GenAI.BaseURL,
			APIKey:     cfg.APIs.GenAI.APIKey,
			Timeout:    config.GetDuration(cfg.APIs.GenAI.Timeout),
			MaxRetries: cfg.APIs.GenAI.MaxRetries,
		}, log)
		if err == nil {
			return classifier
		}
		log.Warn("falling back to rule-based classifier", map[string]interface{}{"error": err.Error()})
	}
	return intent.NewRuleClassifier(store.ProductNames())
}

func buildExecutor(cfg *config.Config, log logger.Logger, cleanups *[]func()) (store.Executor, error) {
	var source store.RowSource

	if cfg.Store.Mode == "live" {
		switch cfg.Store.LiveSource {
		case "elasticsearch":
			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return nil, fmt.Errorf("init elasticsearch: %w", err)
			}
			source = store.NewESSource(es.Client, cfg.Database.Elasticsearch.Index, nil)
		default:
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return nil, fmt.Errorf("init postgres: %w", err)
			}
			*cleanups = append(*cleanups, func() { pg.Close() })
			source = store.NewSQLSource(pg.DB, nil)
		}
	} else {
		fixture := store.NewFixture(cfg.Store.FixtureSeed, time.Now().UTC())
		source = store.NewFixtureSource(fixture)
	}

	var executor store.Executor = store.NewClient(source, nil, log)

	if cfg.Store.CacheTTL > 0 {
		rdb, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}
		*cleanups = append(*cleanups, func() { rdb.Close() })
		executor = store.NewCachedClient(executor, rdb.Client, time.Duration(cfg.Store.CacheTTL)*time.Second, log)
	}

	return executor, nil
}
