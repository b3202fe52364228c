package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hive-corporation/loboguara-connector/internal/core/domain"
	"github.com/hive-corporation/loboguara-connector/internal/core/ports"
)

// MinInterval is the shortest accepted pause between two cycles.
const MinInterval = 600 * time.Second

type Options struct {
	Interval time.Duration
	Marking  string // marking definition, ex: TLP:AMBER
	Score    int
	Recorder ports.CycleRecorder // optional
}

// Connector polls the certificate source and pushes observables to the platform.
type Connector struct {
	source   ports.CertificateSource
	upserter *Upserter
	interval time.Duration
	recorder ports.CycleRecorder
	log      zerolog.Logger

	sleep func(ctx context.Context, d time.Duration) error // injectable for tests
	now   func() time.Time
}

// NewConnector validates opts and wires the connector. It performs no I/O.
func NewConnector(source ports.CertificateSource, platform ports.ThreatPlatform, opts Options, log zerolog.Logger) (*Connector, error) {
	if opts.Interval < MinInterval {
		return nil, &domain.ConfigurationError{
			Field:  "interval",
			Reason: fmt.Sprintf("must be at least %d seconds, got %d", int(MinInterval.Seconds()), int(opts.Interval.Seconds())),
		}
	}

	return &Connector{
		source:   source,
		upserter: NewUpserter(platform, opts.Marking, opts.Score, log),
		interval: opts.Interval,
		recorder: opts.Recorder,
		log:      log,
		sleep:    sleepContext,
		now:      time.Now,
	}, nil
}

// RunCycle fetches the current certificate list and upserts each entry in order.
// The first failing record stops the cycle; its error is the result's reason.
func (c *Connector) RunCycle(ctx context.Context, org domain.Organization) (result domain.CycleResult) {
	result = domain.CycleResult{
		RunID:     uuid.NewString(),
		StartedAt: c.now(),
	}
	log := c.log.With().Str("run_id", result.RunID).Logger()

	defer func() {
		if r := recover(); r != nil {
			result.Err = fmt.Errorf("cycle panic: %v", r)
		}
		result.Duration = c.now().Sub(result.StartedAt)
	}()

	log.Info().Str("source", c.source.Name()).Msg("fetching certificates")
	certs, err := c.source.FetchCertificates(ctx)
	if err != nil {
		result.Err = fmt.Errorf("fetch certificates: %w", err)
		return result
	}
	result.Fetched = len(certs)
	log.Info().Int("count", len(certs)).Msg("fetched certificates")

	for i, cert := range certs {
		if cert.Domain == "" {
			result.Err = fmt.Errorf("certificate %d (%s) has no domain", i, cert.CertificateID)
			return result
		}
		log.Info().
			Str("domain", cert.Domain).
			Str("certificate_id", cert.CertificateID.String()).
			Str("register_date", cert.RegisterDate.String()).
			Msg("processing certificate")

		created, err := c.upserter.Upsert(ctx, org, cert)
		if err != nil {
			result.Err = fmt.Errorf("upsert %s: %w", cert.NormalizedDomain(), err)
			return result
		}
		if created {
			result.Created++
		} else {
			result.Rejected++
		}
	}

	return result
}

// Run executes cycles until ctx is cancelled. Cycle failures are logged and
// never stop the loop.
func (c *Connector) Run(ctx context.Context, org domain.Organization) error {
	for {
		c.runAndReport(ctx, org)

		if err := c.sleep(ctx, c.interval); err != nil {
			return err
		}
	}
}

// RunOnce executes a single cycle and returns its result.
func (c *Connector) RunOnce(ctx context.Context, org domain.Organization) domain.CycleResult {
	return c.runAndReport(ctx, org)
}

func (c *Connector) runAndReport(ctx context.Context, org domain.Organization) domain.CycleResult {
	result := c.RunCycle(ctx, org)

	if result.OK() {
		c.log.Info().
			Str("run_id", result.RunID).
			Int("fetched", result.Fetched).
			Int("created", result.Created).
			Int("rejected", result.Rejected).
			Dur("duration", result.Duration).
			Msg("cycle finished")
	} else {
		c.log.Error().
			Err(result.Err).
			Str("run_id", result.RunID).
			Int("fetched", result.Fetched).
			Int("processed", result.Processed()).
			Msg("cycle failed")
	}

	if c.recorder != nil {
		c.recorder.RecordCycle(result)
	}
	return result
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
