// cmd/preflight/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hamed0406/webmonitorsync/internal/config"
	"github.com/hamed0406/webmonitorsync/internal/probe"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.Load()
	if err != nil {
		fail("config invalid: " + err.Error())
	}

	if missing := cfg.MissingCredentials(); len(missing) > 0 {
		fail(strings.Join(missing, ", ") + " not set (the sync would run with every step failing open).")
	}
	ok("credentials present")

	if strings.HasPrefix(cfg.KumaURL, "http://") && !strings.Contains(cfg.KumaURL, "192.168.") && !strings.Contains(cfg.KumaURL, "localhost") {
		warn("UPTIMEKUMA_URL uses plain http on a non-local host; the password is sent unencrypted.")
	}
	ok("UPTIMEKUMA_URL=" + cfg.KumaURL)
	ok("HAPROXY_API_BASE=" + cfg.DomainsAPIBase)

	// Unreachable endpoints only warn: the sync itself fails open on them.
	var chk probe.Checker = probe.NewHTTPChecker(cfg.HTTPTimeout)
	for name, target := range map[string]string{
		"domain API":  cfg.DomainsAPIBase + "/api/get_domains",
		"Uptime Kuma": cfg.KumaURL,
	} {
		res := chk.Check(context.Background(), target)
		if !res.Reachable {
			warn(fmt.Sprintf("%s at %s not reachable: %s", name, target, res.Message))
			continue
		}
		ok(fmt.Sprintf("%s reachable (%s, %.0fms)", name, res.Message, res.LatencyMS))
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		fail("LOG_DIR " + cfg.LogDir + " cannot be created: " + err.Error())
	}
	f, err := os.CreateTemp(cfg.LogDir, ".preflight-*")
	if err != nil {
		fail("LOG_DIR " + cfg.LogDir + " is not writable: " + err.Error())
	}
	f.Close()
	_ = os.Remove(f.Name())
	ok("LOG_DIR=" + cfg.LogDir)

	if cfg.SlackWebhook == "" {
		warn("SLACK_WEBHOOK_URL empty; run summaries will only be logged.")
	} else {
		ok("SLACK_WEBHOOK_URL present")
	}

	if cfg.StrictExit {
		ok("STRICT_EXIT on: partial failures exit 1")
	}

	ok("preflight passed")
}
