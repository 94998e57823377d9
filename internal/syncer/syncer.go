// Package syncer runs one reconciliation pass: list the load balancer's
// sites, list the existing monitors, and create monitors for the sites
// that have none.
//
// Every failure talking to either remote is logged and turned into an
// empty result or a skipped site, so a run always completes. The one
// exception is a domain API response that does not have the agreed shape,
// which aborts the run.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/webmonitorsync/internal/domain"
	"github.com/hamed0406/webmonitorsync/internal/kuma"
	"github.com/hamed0406/webmonitorsync/internal/notify"
	"github.com/hamed0406/webmonitorsync/internal/reconcile"
	"github.com/hamed0406/webmonitorsync/internal/source"
)

type Syncer struct {
	Logger   *zap.Logger
	Sites    SiteLister
	Monitors MonitorService
	Notifier Notifier // optional
	Template domain.MonitorTemplate

	now   func() time.Time
	newID func() string
}

func New(logger *zap.Logger, sites SiteLister, monitors MonitorService, notifier Notifier) *Syncer {
	return &Syncer{
		Logger:   logger,
		Sites:    sites,
		Monitors: monitors,
		Notifier: notifier,
		Template: domain.DefaultTemplate(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Run performs one pass. The returned error is non-nil only when the run
// was aborted; partial failures are reported in the summary.
func (s *Syncer) Run(ctx context.Context) (domain.RunSummary, error) {
	sum := domain.RunSummary{RunID: s.newID(), StartedAt: s.now().UTC()}
	log := s.Logger.With(zap.String("run_id", sum.RunID))
	log.Info("sync_started")

	sites, ok, err := s.listSites(ctx, log)
	if err != nil {
		log.Error("sync_aborted", zap.Error(err))
		return sum, err
	}
	sum.Degraded = !ok

	existing, ok := s.listMonitorURLs(ctx, log)
	sum.Degraded = sum.Degraded || !ok

	sum.Sources = len(sites)
	sum.Existing = len(existing)
	sum.Missing = reconcile.Missing(sites, existing)

	if len(sum.Missing) > 0 {
		log.Info("new_sites_found",
			zap.Int("count", len(sum.Missing)),
			zap.Strings("sites", sum.Missing),
		)
		s.createMonitors(ctx, log, sum.Missing, &sum)
	} else {
		log.Info("no_new_sites")
	}

	sum.FinishedAt = s.now().UTC()
	log.Info("sync_complete",
		zap.Int("sources", sum.Sources),
		zap.Int("existing", sum.Existing),
		zap.Int("missing", len(sum.Missing)),
		zap.Int("created", len(sum.Created)),
		zap.Int("failed", len(sum.Failed)),
		zap.Bool("degraded", sum.Degraded),
		zap.Bool("aborted", sum.Aborted),
		zap.Duration("took", sum.FinishedAt.Sub(sum.StartedAt)),
	)

	s.notify(ctx, log, sum)
	return sum, nil
}

// listSites fails open on outages: ok is false and the list is empty.
// A malformed response is returned as an error.
func (s *Syncer) listSites(ctx context.Context, log *zap.Logger) (sites []string, ok bool, err error) {
	sites, err = s.Sites.Sites(ctx)
	if err != nil {
		if errors.Is(err, source.ErrUnavailable) {
			log.Error("sites_fetch_failed", zap.Error(err))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("list sites: %w", err)
	}
	log.Info("sites_fetched", zap.Int("count", len(sites)))
	return sites, true, nil
}

// listMonitorURLs treats every failure as "no monitors exist". On a login
// failure or a monitor-list timeout this makes every site look missing,
// which can create duplicate monitors.
func (s *Syncer) listMonitorURLs(ctx context.Context, log *zap.Logger) ([]string, bool) {
	sess, err := s.Monitors.Open(ctx)
	if err != nil {
		if errors.Is(err, kuma.ErrAuth) {
			log.Error("kuma_auth_failed", zap.Error(err))
		} else {
			log.Error("kuma_connect_failed", zap.Error(err))
		}
		return nil, false
	}
	defer closeSession(log, sess)

	monitors, err := sess.Monitors(ctx)
	if err != nil {
		if errors.Is(err, kuma.ErrTimeout) {
			log.Error("monitor_list_timeout_assuming_empty",
				zap.String("detail", "timed out fetching the monitor list; the list is likely empty, continuing with none"),
				zap.Error(err),
			)
		} else {
			log.Error("monitor_list_failed", zap.Error(err))
		}
		return nil, false
	}

	urls := domain.MonitorURLs(monitors)
	log.Info("monitors_fetched", zap.Int("count", len(urls)))
	return urls, true
}

// createMonitors uses one session for the whole batch. A site that fails
// is recorded and skipped; the rest are still attempted.
func (s *Syncer) createMonitors(ctx context.Context, log *zap.Logger, sites []string, sum *domain.RunSummary) {
	sess, err := s.Monitors.Open(ctx)
	if err != nil {
		sum.Aborted = true
		if errors.Is(err, kuma.ErrAuth) {
			log.Error("kuma_auth_failed", zap.String("phase", "create"), zap.Error(err))
		} else {
			log.Error("kuma_connect_failed", zap.String("phase", "create"), zap.Error(err))
		}
		return
	}
	defer closeSession(log, sess)

	var errs error
	for _, site := range sites {
		log.Info("monitor_create", zap.String("url", site))
		id, err := sess.AddMonitor(ctx, s.Template.ForSite(site))
		if err != nil {
			log.Error("monitor_create_failed", zap.String("url", site), zap.Error(err))
			sum.Failed = append(sum.Failed, domain.CreateFailure{URL: site, Reason: err.Error()})
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", site, err))
			continue
		}
		log.Info("monitor_created", zap.String("url", site), zap.Int("monitor_id", id))
		sum.Created = append(sum.Created, site)
	}
	if errs != nil {
		log.Warn("monitor_create_incomplete",
			zap.Int("failed", len(sum.Failed)),
			zap.Int("created", len(sum.Created)),
			zap.Error(errs),
		)
	}
}

func (s *Syncer) notify(ctx context.Context, log *zap.Logger, sum domain.RunSummary) {
	if s.Notifier == nil || !sum.Changed() {
		return
	}
	title, text := notify.FormatSummary(sum)
	if err := s.Notifier.Send(ctx, title, text); err != nil {
		log.Warn("notify_failed", zap.Error(err))
	}
}

func closeSession(log *zap.Logger, sess MonitorSession) {
	if err := sess.Close(); err != nil {
		log.Warn("kuma_disconnect_failed", zap.Error(err))
	}
}
