// Package scraper assembles the register pipeline for the District
// Council of Lower Eyre Peninsula: discover the published register PDFs,
// decode each document, reconstruct the development applications and
// persist them.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/address"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/fetch"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/pdf"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/register"
	"github.com/planningalerts-scrapers/district-council-of-lower-eyre-peninsula-sa-development-applications/pkg/store"
)

// Central pipeline types, re-exported for callers of this package.
type (
	Record = register.Record
	Link   = fetch.Link
)

// Defaults for the council's published register.
const (
	DefaultRegisterURL = "https://www.dclep.sa.gov.au/developmentregister"
	DefaultCommentURL  = "mailto:dclep@dclep.sa.gov.au"
	DefaultDatabase    = "data.sqlite"
	DefaultDataDir     = "data"
	DefaultUserAgent   = "planningalerts-scraper/1.0 (+https://www.planningalerts.org.au)"
)

// Config configures a Scraper. Zero values fall back to the defaults
// above; InfoURL defaults to the register URL.
type Config struct {
	RegisterURL string
	InfoURL     string
	CommentURL  string
	Database    string
	DataDir     string
	UserAgent   string
	Timeout     time.Duration
	Logger      *zap.Logger
	Now         func() time.Time
}

// Scraper runs the full pipeline.
type Scraper struct {
	config    Config
	logger    *zap.Logger
	fetcher   *fetch.Fetcher
	formatter *address.Formatter
}

// New builds a Scraper, loading the address dictionaries from the
// configured data directory.
func New(config Config) (*Scraper, error) {
	if config.RegisterURL == "" {
		config.RegisterURL = DefaultRegisterURL
	}
	if config.InfoURL == "" {
		config.InfoURL = config.RegisterURL
	}
	if config.CommentURL == "" {
		config.CommentURL = DefaultCommentURL
	}
	if config.Database == "" {
		config.Database = DefaultDatabase
	}
	if config.DataDir == "" {
		config.DataDir = DefaultDataDir
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	formatter, err := address.Load(config.DataDir)
	if err != nil {
		return nil, fmt.Errorf("load address dictionaries: %w", err)
	}

	return &Scraper{
		config:    config,
		logger:    logger,
		formatter: formatter,
		fetcher: &fetch.Fetcher{
			UserAgent: config.UserAgent,
			Timeout:   config.Timeout,
			Logger:    logger,
		},
	}, nil
}

// Scrape discovers and parses every register document, returning the
// merged records. A register that cannot be fetched or parsed is logged
// and skipped; Scrape fails only when no document could be fetched at
// all.
func (s *Scraper) Scrape(ctx context.Context) ([]Record, error) {
	links, err := s.fetcher.DiscoverRegisters(ctx, s.config.RegisterURL)
	if err != nil {
		return nil, fmt.Errorf("discover registers: %w", err)
	}
	if len(links) == 0 {
		return nil, errors.New("no register documents found")
	}
	s.logger.Info("registers discovered", zap.Int("count", len(links)))

	fetched := 0
	var batches [][]Record
	for _, link := range links {
		data, err := s.fetcher.Download(ctx, link.URL)
		if err != nil {
			s.logger.Warn("skipping register",
				zap.String("url", link.URL),
				zap.Error(err))
			continue
		}
		fetched++

		records, err := s.parseDocument(link, data)
		if err != nil {
			s.logger.Warn("skipping register",
				zap.String("url", link.URL),
				zap.Error(err))
			continue
		}
		batches = append(batches, records)
	}
	if fetched == 0 {
		return nil, errors.New("no register document could be fetched")
	}
	return register.Merge(batches...), nil
}

// Run scrapes and persists the records.
func (s *Scraper) Run(ctx context.Context) error {
	records, err := s.Scrape(ctx)
	if err != nil {
		return err
	}

	st, err := store.Open(s.config.Database, s.logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	if err := st.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	if err := st.Save(ctx, records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}

	total, err := st.Count(ctx)
	if err != nil {
		return fmt.Errorf("count records: %w", err)
	}
	s.logger.Info("scrape complete",
		zap.Int("scraped", len(records)),
		zap.Int("stored", total))
	return nil
}

func (s *Scraper) parseDocument(link Link, data []byte) ([]Record, error) {
	doc, err := pdf.Open(data, pdf.WithLogger(s.logger))
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer doc.Close()

	parser := &register.Parser{
		Logger:     s.logger,
		Formatter:  s.formatter,
		InfoURL:    s.config.InfoURL,
		CommentURL: s.config.CommentURL,
		Now:        s.config.Now,
	}
	records, err := parser.Parse(doc.Pages())
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	s.logger.Info("register parsed",
		zap.String("url", link.URL),
		zap.String("backend", doc.Backend()),
		zap.Int("pages", doc.PageCount()),
		zap.Int("applications", len(records)))
	return records, nil
}
