package geo

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oschwald/maxminddb-golang"
)

// Trusted proxy-supplied geo hints, checked in priority order. The first
// non-empty trimmed value wins.
var countryHeaders = []string{
	"CF-IPCountry",
	"X-Vercel-IP-Country",
	"X-Country-Code",
}

var cityHeaders = []string{
	"CF-IPCity",
	"X-Vercel-IP-City",
}

// CountryFromHeaders scans the trusted country headers in priority order.
func CountryFromHeaders(h http.Header) string {
	for _, name := range countryHeaders {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return strings.ToUpper(v)
		}
	}
	return ""
}

// CityFromHeaders reads the city hint directly; there is no lookup fallback
// for cities.
func CityFromHeaders(h http.Header) string {
	for _, name := range cityHeaders {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// Resolver turns an IP into a country code, best effort. It consults a local
// MaxMind database when one is configured, then a small HTTP lookup service.
// Every failure degrades to "" rather than an error.
type Resolver struct {
	mmdb      *maxminddb.Reader
	client    *http.Client
	lookupURL string
}

// NewResolver opens an optional MaxMind .mmdb file (empty path disables it)
// and prepares the network lookup client. The timeout bounds the whole
// network call; lookups never block longer than that.
func NewResolver(mmdbPath, lookupURL string, timeout time.Duration) (*Resolver, error) {
	r := &Resolver{
		client:    &http.Client{Timeout: timeout},
		lookupURL: strings.TrimRight(lookupURL, "/"),
	}
	if mmdbPath != "" {
		db, err := maxminddb.Open(mmdbPath)
		if err != nil {
			return nil, err
		}
		r.mmdb = db
	}
	return r, nil
}

func (r *Resolver) Close() {
	if r != nil && r.mmdb != nil {
		r.mmdb.Close()
	}
}

// Country resolves ipStr to a two-letter country code, or "" when unknown.
// Private and loopback addresses are never looked up.
func (r *Resolver) Country(ipStr string) string {
	if r == nil {
		return ""
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return ""
	}
	if ip.IsPrivate() || ip.IsLoopback() || ip.IsUnspecified() || ip.IsLinkLocalUnicast() {
		return ""
	}

	if c := r.lookupMMDB(ip); c != "" {
		return c
	}
	return r.lookupHTTP(ipStr)
}

func (r *Resolver) lookupMMDB(ip net.IP) string {
	if r.mmdb == nil {
		return ""
	}
	var record struct {
		Country struct {
			ISOCode string `maxminddb:"iso_code"`
		} `maxminddb:"country"`
	}
	if err := r.mmdb.Lookup(ip, &record); err != nil {
		return ""
	}
	return validCountry(record.Country.ISOCode)
}

func (r *Resolver) lookupHTTP(ip string) string {
	if r.lookupURL == "" {
		return ""
	}
	resp, err := r.client.Get(r.lookupURL + "/" + ip)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var body struct {
		Country string `json:"country"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	return validCountry(body.Country)
}

// validCountry discards anything that is not a two-letter code.
func validCountry(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if len(c) != 2 {
		return ""
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return ""
		}
	}
	return c
}
