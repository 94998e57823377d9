package domain

// DomainRecord is one entry of the domain-listing API response.
type DomainRecord struct {
	Domain string `json:"domain"`
}

// SiteURL turns a bare domain into the URL a monitor is keyed on.
// Equality between site URLs is exact string equality.
func SiteURL(domain string) string {
	return "https://" + domain
}

// SiteURLs maps records to site URLs, keeping the upstream order.
func SiteURLs(records []DomainRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, SiteURL(r.Domain))
	}
	return out
}

type Monitor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// MonitorURLs returns the URL of every monitor exactly as stored; monitors
// without a URL (push, ping, dns types) yield an empty string and never
// match a site.
func MonitorURLs(ms []Monitor) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.URL)
	}
	return out
}
