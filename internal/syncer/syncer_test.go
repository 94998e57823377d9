package syncer_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hamed0406/webmonitorsync/internal/domain"
	"github.com/hamed0406/webmonitorsync/internal/kuma"
	"github.com/hamed0406/webmonitorsync/internal/source"
	"github.com/hamed0406/webmonitorsync/internal/syncer"
	"github.com/hamed0406/webmonitorsync/internal/syncer/mocks"
)

type fixture struct {
	ctrl  *gomock.Controller
	sites *mocks.MockSiteLister
	svc   *mocks.MockMonitorService
	logs  *observer.ObservedLogs
	s     *syncer.Syncer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	core, logs := observer.New(zap.InfoLevel)
	f := &fixture{
		ctrl:  ctrl,
		sites: mocks.NewMockSiteLister(ctrl),
		svc:   mocks.NewMockMonitorService(ctrl),
		logs:  logs,
	}
	f.s = syncer.New(zap.New(core), f.sites, f.svc, nil)
	return f
}

// listing returns a session that reports the given monitor URLs.
func (f *fixture) listing(urls ...string) *mocks.MockMonitorSession {
	sess := mocks.NewMockMonitorSession(f.ctrl)
	var ms []domain.Monitor
	for i, u := range urls {
		ms = append(ms, domain.Monitor{ID: i + 1, Name: u, URL: u, Type: "http"})
	}
	sess.EXPECT().Monitors(gomock.Any()).Return(ms, nil)
	sess.EXPECT().Close().Return(nil)
	return sess
}

// creating returns a session that records added URLs and fails the ones in fail.
func (f *fixture) creating(added *[]string, fail map[string]error) *mocks.MockMonitorSession {
	sess := mocks.NewMockMonitorSession(f.ctrl)
	sess.EXPECT().AddMonitor(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, m domain.MonitorTemplate) (int, error) {
			*added = append(*added, m.URL)
			if err := fail[m.URL]; err != nil {
				return 0, err
			}
			return len(*added), nil
		}).AnyTimes()
	sess.EXPECT().Close().Return(nil)
	return sess
}

func (f *fixture) logged(msg string) bool {
	return f.logs.FilterMessage(msg).Len() > 0
}

func TestRun_CreatesOnlyMissing(t *testing.T) {
	f := newFixture(t)
	var added []string

	f.sites.EXPECT().Sites(gomock.Any()).Return([]string{"https://a.com", "https://b.com"}, nil)
	gomock.InOrder(
		f.svc.EXPECT().Open(gomock.Any()).Return(f.listing("https://a.com"), nil),
		f.svc.EXPECT().Open(gomock.Any()).Return(f.creating(&added, nil), nil),
	)

	sum, err := f.s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(added, []string{"https://b.com"}) {
		t.Fatalf("added = %v", added)
	}
	if !reflect.DeepEqual(sum.Created, []string{"https://b.com"}) || sum.Sources != 2 || sum.Existing != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if !sum.Clean() || sum.RunID == "" {
		t.Fatalf("want clean run with id, got %+v", sum)
	}
	if !f.logged("sync_complete") || !f.logged("monitor_created") {
		t.Fatalf("missing log events: %v", f.logs.All())
	}
}

func TestRun_NothingMissing_OpensOneSession(t *testing.T) {
	f := newFixture(t)
	f.sites.EXPECT().Sites(gomock.Any()).Return([]string{"https://a.com"}, nil)
	f.svc.EXPECT().Open(gomock.Any()).Return(f.listing("https://a.com", "https://old.com"), nil).Times(1)

	sum, err := f.s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sum.Missing) != 0 || sum.Changed() {
		t.Fatalf("summary = %+v", sum)
	}
	if !f.logged("no_new_sites") {
		t.Fatal("no_new_sites not logged")
	}
}

func TestRun_SourceHTTP500_CreatesNothing(t *testing.T) {
	f := newFixture(t)
	f.sites.EXPECT().Sites(gomock.Any()).Return(nil, &source.StatusError{Code: 500, Body: "boom"})
	f.svc.EXPECT().Open(gomock.Any()).Return(f.listing("https://a.com"), nil).Times(1)

	sum, err := f.s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(sum.Created) != 0 || !sum.Degraded {
		t.Fatalf("summary = %+v", sum)
	}
	if !f.logged("sites_fetch_failed") {
		t.Fatal("sites_fetch_failed not logged")
	}
}

func TestRun_ListAuthFailure_CreatesEverySite(t *testing.T) {
	f := newFixture(t)
	var added []string
	sites := []string{"https://a.com", "https://b.com", "https://a.com"}

	f.sites.EXPECT().Sites(gomock.Any()).Return(sites, nil)
	gomock.InOrder(
		f.svc.EXPECT().Open(gomock.Any()).Return(nil, fmt.Errorf("login: %w", kuma.ErrAuth)),
		f.svc.EXPECT().Open(gomock.Any()).Return(f.creating(&added, nil), nil),
	)

	sum, err := f.s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(added, sites) {
		t.Fatalf("added = %v, want %v", added, sites)
	}
	if !sum.Degraded || sum.Clean() {
		t.Fatalf("want degraded run, got %+v", sum)
	}
	if !f.logged("kuma_auth_failed") {
		t.Fatal("kuma_auth_failed not logged")
	}
}

func TestRun_ListConnectFailure_CreatesEverySite(t *testing.T) {
	f := newFixture(t)
	var added []string

	f.sites.EXPECT().Sites(gomock.Any()).Return([]string{"https://a.com"}, nil)
	gomock.InOrder(
		f.svc.EXPECT().Open(gomock.Any()).Return(nil, errors.New("dial tcp: connection refused")),
		f.svc.EXPECT().Open(gomock.Any()).Return(f.creating(&added, nil), nil),
	)

	if _, err := f.s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(added) != 1 || !f.logged("kuma_connect_failed") {
		t.Fatalf("added = %v, logs = %v", added, f.logs.All())
	}
}

func TestRun_ListTimeout_AssumesEmpty(t *testing.T) {
	f := newFixture(t)
	var added []string

	list := mocks.NewMockMonitorSession(f.ctrl)
	list.EXPECT().Monitors(gomock.Any()).Return(nil, fmt.Errorf("monitor list: %w", kuma.ErrTimeout))
	list.EXPECT().Close().Return(nil)

	f.sites.EXPECT().Sites(gomock.Any()).Return([]string{"https://a.com", "https://b.com"}, nil)
	gomock.InOrder(
		f.svc.EXPECT().Open(gomock.Any()).Return(list, nil),
		f.svc.EXPECT().Open(gomock.Any()).Return(f.creating(&added, nil), nil),
	)

	sum, err := f.s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(added) != 2 || sum.Existing != 0 {
		t.Fatalf("added = %v, summary = %+v", added, sum)
	}
	entries := f.logs.FilterMessage("monitor_list_timeout_assuming_empty").All()
	if len(entries) != 1 || entries[0].Level != zap.ErrorLevel {
		t.Fatalf("timeout not logged at error level: %v", f.logs.All())
	}
}

func TestRun_OneCreateFails_OthersStillCreated(t *testing.T) {
	f := newFixture(t)
	var added []string
	fail := map[string]error{"https://b.com": &kuma.ServiceError{Op: "add", Msg: "duplicate"}}

	f.sites.EXPECT().Sites(gomock.Any()).Return([]string{"https://a.com", "https://b.com", "https://c.com"}, nil)
	gomock.InOrder(
		f.svc.EXPECT().Open(gomock.Any()).Return(f.listing(), nil),
		f.svc.EXPECT().Open(gomock.Any()).Return(f.creating(&added, fail), nil),
	)

	sum, err := f.s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(added) != 3 {
		t.Fatalf("every site should be attempted, got %v", added)
	}
	if !reflect.DeepEqual(sum.Created, []string{"https://a.com", "https://c.com"}) {
		t.Fatalf("created = %v", sum.Created)
	}
	if len(sum.Failed) != 1 || sum.Failed[0].URL != "https://b.com" || !strings.Contains(sum.Failed[0].Reason, "duplicate") {
		t.Fatalf("failed = %+v", sum.Failed)
	}
	failed := f.logs.FilterMessage("monitor_create_failed").All()
	if len(failed) != 1 || failed[0].ContextMap()["url"] != "https://b.com" {
		t.Fatalf("failure log = %v", failed)
	}
}

func TestRun_CreateAuthFailure_Aborts(t *testing.T) {
	f := newFixture(t)
	f.sites.EXPECT().Sites(gomock.Any()).Return([]string{"https://a.com"}, nil)
	gomock.InOrder(
		f.svc.EXPECT().Open(gomock.Any()).Return(f.listing(), nil),
		f.svc.EXPECT().Open(gomock.Any()).Return(nil, kuma.ErrAuth),
	)

	sum, err := f.s.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !sum.Aborted || len(sum.Created) != 0 {
		t.Fatalf("summary = %+v", sum)
	}
	if !f.logged("sync_complete") {
		t.Fatal("run should still complete")
	}
}

func TestRun_MalformedSourceResponse_Aborts(t *testing.T) {
	f := newFixture(t)
	f.sites.EXPECT().Sites(gomock.Any()).Return(nil, errors.New("decode domains: json: cannot unmarshal object"))

	_, err := f.s.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode domains") {
		t.Fatalf("want decode error, got %v", err)
	}
	if f.logged("sync_complete") {
		t.Fatal("aborted run must not log completion")
	}
}

func TestRun_NotifiesWhenChanged(t *testing.T) {
	f := newFixture(t)
	n := mocks.NewMockNotifier(f.ctrl)
	f.s.Notifier = n
	var added []string

	f.sites.EXPECT().Sites(gomock.Any()).Return([]string{"https://a.com"}, nil)
	gomock.InOrder(
		f.svc.EXPECT().Open(gomock.Any()).Return(f.listing(), nil),
		f.svc.EXPECT().Open(gomock.Any()).Return(f.creating(&added, nil), nil),
	)
	n.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, title, text string) error {
			if !strings.Contains(text, "+ https://a.com") {
				t.Errorf("summary text = %q", text)
			}
			return errors.New("slack down")
		})

	if _, err := f.s.Run(context.Background()); err != nil {
		t.Fatalf("notify failure must not fail the run: %v", err)
	}
	if !f.logged("notify_failed") {
		t.Fatal("notify_failed not logged")
	}
}

func TestRun_MonitorURLsCompareExactly(t *testing.T) {
	f := newFixture(t)
	var added []string

	f.sites.EXPECT().Sites(gomock.Any()).Return([]string{"https://a.com"}, nil)
	gomock.InOrder(
		f.svc.EXPECT().Open(gomock.Any()).Return(f.listing(" https://a.com "), nil),
		f.svc.EXPECT().Open(gomock.Any()).Return(f.creating(&added, nil), nil),
	)

	if _, err := f.s.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(added, []string{"https://a.com"}) {
		t.Fatalf("padded monitor URL must not cover the site, added = %v", added)
	}
}
