package domain

// MonitorTemplate is the payload every created monitor shares. Field names
// follow the Uptime Kuma monitor object so it can be sent as-is.
type MonitorTemplate struct {
	Type                string          `json:"type"`
	Name                string          `json:"name"`
	Description         *string         `json:"description"`
	URL                 string          `json:"url"`
	Method              string          `json:"method"`
	Interval            int             `json:"interval"`
	RetryInterval       int             `json:"retryInterval"`
	ResendInterval      int             `json:"resendInterval"`
	MaxRetries          int             `json:"maxretries"`
	Timeout             int             `json:"timeout"`
	ExpiryNotification  bool            `json:"expiryNotification"`
	IgnoreTLS           bool            `json:"ignoreTls"`
	UpsideDown          bool            `json:"upsideDown"`
	MaxRedirects        int             `json:"maxredirects"`
	AcceptedStatusCodes []string        `json:"accepted_statuscodes"`
	DNSResolveType      string          `json:"dns_resolve_type"`
	DNSResolveServer    string          `json:"dns_resolve_server"`
	NotificationIDList  map[string]bool `json:"notificationIDList"`
	AuthMethod          string          `json:"authMethod"`
	HTTPBodyEncoding    string          `json:"httpBodyEncoding"`
}

// DefaultTemplate is the fixed configuration applied to every site:
// HTTP GET every 60s, 5 retries 30s apart, 30s timeout, 2xx accepted,
// DNS via 1.1.1.1, alerts to notification 1.
func DefaultTemplate() MonitorTemplate {
	return MonitorTemplate{
		Type:                "http",
		Method:              "GET",
		Interval:            60,
		RetryInterval:       30,
		ResendInterval:      0,
		MaxRetries:          5,
		Timeout:             30,
		ExpiryNotification:  false,
		IgnoreTLS:           false,
		UpsideDown:          false,
		MaxRedirects:        10,
		AcceptedStatusCodes: []string{"200-299"},
		DNSResolveType:      "A",
		DNSResolveServer:    "1.1.1.1",
		NotificationIDList:  map[string]bool{"1": true},
		AuthMethod:          "", // none
		HTTPBodyEncoding:    "json",
	}
}

// ForSite returns a copy of the template bound to one site. Name and URL
// are both the site URL.
func (t MonitorTemplate) ForSite(site string) MonitorTemplate {
	out := t
	out.Name = site
	out.URL = site
	out.AcceptedStatusCodes = append([]string(nil), t.AcceptedStatusCodes...)
	out.NotificationIDList = make(map[string]bool, len(t.NotificationIDList))
	for k, v := range t.NotificationIDList {
		out.NotificationIDList[k] = v
	}
	return out
}
