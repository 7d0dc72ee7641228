// scraper downloads the development application register published by
// the District Council of Lower Eyre Peninsula, reconstructs the
// applications from the register PDFs and stores them in sqlite.
//
// Configuration comes from an optional YAML file, overridden by flags:
//
//	register_url: https://www.dclep.sa.gov.au/developmentregister
//	comment_url: mailto:dclep@dclep.sa.gov.au
//	database: data.sqlite
//	data_dir: data
//	user_agent: planningalerts-scraper/1.0
//	timeout_seconds: 60
//	log_style: terminal
//	log_level: info
//
// Usage:
//
//	scraper [-config config.yaml] [-url URL] [-db FILE] [-data DIR]
//	        [-log STYLE] [-level LEVEL] [-dry-run]
//
// With -dry-run the records are printed instead of stored.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	scraper "github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/logging"
)

type yamlConfig struct {
	RegisterURL    string `yaml:"register_url"`
	InfoURL        string `yaml:"info_url"`
	CommentURL     string `yaml:"comment_url"`
	Database       string `yaml:"database"`
	DataDir        string `yaml:"data_dir"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	LogStyle       string `yaml:"log_style"`
	LogLevel       string `yaml:"log_level"`
}

func loadConfig(path string) (yamlConfig, error) {
	var yc yamlConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return yc, err
	}
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return yc, fmt.Errorf("parse %s: %w", path, err)
	}
	return yc, nil
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	registerURL := flag.String("url", "", "register page URL")
	database := flag.String("db", "", "sqlite database file")
	dataDir := flag.String("data", "", "address dictionary directory")
	logStyle := flag.String("log", "terminal", "log style: terminal, json, logfmt or noop")
	logLevel := flag.String("level", "info", "log level")
	dryRun := flag.Bool("dry-run", false, "print the records instead of storing them")
	flag.Parse()

	var yc yamlConfig
	if *configPath != "" {
		loaded, err := loadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		yc = loaded
	}

	// Flags win over the config file.
	provided := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { provided[f.Name] = true })
	if *registerURL != "" {
		yc.RegisterURL = *registerURL
	}
	if *database != "" {
		yc.Database = *database
	}
	if *dataDir != "" {
		yc.DataDir = *dataDir
	}
	if provided["log"] || yc.LogStyle == "" {
		yc.LogStyle = *logStyle
	}
	if provided["level"] || yc.LogLevel == "" {
		yc.LogLevel = *logLevel
	}

	logger, err := logging.New(logging.Config{
		Style: logging.Style(yc.LogStyle),
		Level: yc.LogLevel,
	})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	s, err := scraper.New(scraper.Config{
		RegisterURL: yc.RegisterURL,
		InfoURL:     yc.InfoURL,
		CommentURL:  yc.CommentURL,
		Database:    yc.Database,
		DataDir:     yc.DataDir,
		UserAgent:   yc.UserAgent,
		Timeout:     time.Duration(yc.TimeoutSeconds) * time.Second,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("scraper setup failed", zap.Error(err))
	}

	ctx := context.Background()
	if *dryRun {
		records, err := s.Scrape(ctx)
		if err != nil {
			logger.Fatal("scrape failed", zap.Error(err))
		}
		for _, r := range records {
			fmt.Printf("%s\t%s\t%s\t%s\n",
				r.ApplicationNumber, r.DateReceived, r.Address, r.Description)
		}
		return
	}
	if err := s.Run(ctx); err != nil {
		logger.Fatal("scrape failed", zap.Error(err))
	}
}
