package syncer

import (
	"context"

	"github.com/hamed0406/webmonitorsync/internal/domain"
	"github.com/hamed0406/webmonitorsync/internal/kuma"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/hamed0406/webmonitorsync/internal/syncer SiteLister,MonitorService,MonitorSession,Notifier

// SiteLister returns the site URLs that should be monitored.
type SiteLister interface {
	Sites(ctx context.Context) ([]string, error)
}

// MonitorService opens authenticated sessions to the monitoring service.
type MonitorService interface {
	Open(ctx context.Context) (MonitorSession, error)
}

type MonitorSession interface {
	Monitors(ctx context.Context) ([]domain.Monitor, error)
	AddMonitor(ctx context.Context, m domain.MonitorTemplate) (int, error)
	Close() error
}

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// KumaService adapts a kuma client to MonitorService.
func KumaService(c *kuma.Client) MonitorService {
	return kumaService{c: c}
}

type kumaService struct {
	c *kuma.Client
}

func (k kumaService) Open(ctx context.Context) (MonitorSession, error) {
	s, err := k.c.Open(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}
