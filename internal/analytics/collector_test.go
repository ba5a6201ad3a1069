package analytics

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/relink-dev/relink/internal/db"
	"github.com/relink-dev/relink/internal/geo"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	_, err = database.Exec(`INSERT INTO urls (code, target_url, created_at) VALUES ('abc1234', 'https://example.com', '2025-06-15T10:00:00Z')`)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func testResolver(t *testing.T, country string) *geo.Resolver {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if country == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"country":"` + country + `"}`))
	}))
	t.Cleanup(srv.Close)

	r, err := geo.NewResolver("", srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func clickCount(t *testing.T, database *sql.DB) int {
	t.Helper()
	var n int
	if err := database.QueryRow("SELECT COUNT(*) FROM clicks").Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n
}

func TestCollector_RecordsOnDrain(t *testing.T) {
	database := testDB(t)
	c := NewCollector(database, testResolver(t, ""), zap.NewNop(), 1000)
	defer c.Shutdown()

	for i := 0; i < 5; i++ {
		c.Push(RawClick{Code: "abc1234", At: time.Now(), IP: "10.0.0.1"})
	}
	c.Drain()

	if n := clickCount(t, database); n != 5 {
		t.Fatalf("count = %d, want 5", n)
	}
}

func TestCollector_PushNonBlockingWhenFull(t *testing.T) {
	database := testDB(t)
	// Stall the worker so the 1-slot buffer stays occupied.
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	resolver, err := geo.NewResolver("", srv.URL, time.Second)
	if err != nil {
		t.Fatal(err)
	}

	c := NewCollector(database, resolver, zap.NewNop(), 1)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			c.Push(RawClick{Code: "abc1234", At: time.Now(), IP: "1.2.3.4"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Push blocked on a full buffer")
	}

	close(blocked)
	c.Drain()
	c.Shutdown()

	if n := clickCount(t, database); n > 2 {
		t.Fatalf("count = %d, want at most 2 (in-flight plus buffered)", n)
	}
}

func TestCollector_HeaderCountryWinsOverLookup(t *testing.T) {
	database := testDB(t)
	c := NewCollector(database, testResolver(t, "US"), zap.NewNop(), 1000)
	defer c.Shutdown()

	c.Push(RawClick{Code: "abc1234", At: time.Now(), IP: "1.2.3.4", Country: "RO"})
	c.Drain()

	var country string
	if err := database.QueryRow("SELECT country FROM clicks LIMIT 1").Scan(&country); err != nil {
		t.Fatal(err)
	}
	if country != "RO" {
		t.Errorf("country = %q, want header hint RO", country)
	}
}

func TestCollector_LooksUpCountryWhenNoHint(t *testing.T) {
	database := testDB(t)
	c := NewCollector(database, testResolver(t, "US"), zap.NewNop(), 1000)
	defer c.Shutdown()

	c.Push(RawClick{Code: "abc1234", At: time.Now(), IP: "1.2.3.4"})
	c.Drain()

	var country string
	if err := database.QueryRow("SELECT country FROM clicks LIMIT 1").Scan(&country); err != nil {
		t.Fatal(err)
	}
	if country != "US" {
		t.Errorf("country = %q, want US from lookup", country)
	}
}

func TestCollector_InsertFailureIsSwallowed(t *testing.T) {
	database := testDB(t)
	c := NewCollector(database, testResolver(t, ""), zap.NewNop(), 1000)
	defer c.Shutdown()

	// No link with this code exists; the FK rejection must be absorbed.
	c.Push(RawClick{Code: "ghost", At: time.Now(), IP: "10.0.0.1"})
	c.Drain()

	if n := clickCount(t, database); n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}
}

func TestCollector_StoresRFC3339UTC(t *testing.T) {
	database := testDB(t)
	c := NewCollector(database, testResolver(t, ""), zap.NewNop(), 1000)
	defer c.Shutdown()

	loc := time.FixedZone("UTC+3", 3*60*60)
	c.Push(RawClick{Code: "abc1234", At: time.Date(2025, 6, 15, 13, 0, 0, 0, loc), IP: "10.0.0.1"})
	c.Drain()

	var at string
	if err := database.QueryRow("SELECT at FROM clicks LIMIT 1").Scan(&at); err != nil {
		t.Fatal(err)
	}
	if at != "2025-06-15T10:00:00Z" {
		t.Errorf("at = %q, want normalized to UTC RFC3339", at)
	}
}

func TestSummarize(t *testing.T) {
	browser, os, device := Summarize("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	if browser != "Chrome" {
		t.Errorf("browser = %q, want Chrome", browser)
	}
	if os == "" {
		t.Error("os should not be empty")
	}
	if device != "desktop" {
		t.Errorf("device = %q, want desktop", device)
	}

	_, _, device = Summarize("Googlebot/2.1 (+http://www.google.com/bot.html)")
	if device != "bot" {
		t.Errorf("device = %q, want bot", device)
	}

	browser, os, device = Summarize("")
	if browser != "" || os != "" || device != "" {
		t.Error("empty UA should summarize to empty fields")
	}
}
