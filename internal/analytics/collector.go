package analytics

import (
	"database/sql"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/relink-dev/relink/internal/geo"
	"github.com/relink-dev/relink/internal/models"
)

// RawClick carries what the redirect path captured. Country and City hold the
// trusted header hints when present; the worker fills in the rest.
type RawClick struct {
	Code      string
	At        time.Time
	IP        string
	UserAgent string
	Referer   string
	Country   string
	City      string
}

// Collector persists clicks off the redirect path. Push never blocks and
// never fails the caller: the network country lookup and the insert both
// happen on a background worker, and errors there are logged and dropped.
type Collector struct {
	ch      chan RawClick
	stop    chan struct{}
	done    chan struct{}
	pending sync.WaitGroup
	db      *sql.DB
	geo     *geo.Resolver
	log     *zap.Logger
}

func NewCollector(db *sql.DB, resolver *geo.Resolver, log *zap.Logger, bufferSize int) *Collector {
	c := &Collector{
		ch:   make(chan RawClick, bufferSize),
		stop: make(chan struct{}),
		done: make(chan struct{}),
		db:   db,
		geo:  resolver,
		log:  log,
	}
	go c.run()
	return c
}

// Push enqueues a click event. Drops the event if the buffer is full.
func (c *Collector) Push(click RawClick) {
	c.pending.Add(1)
	select {
	case c.ch <- click:
	default:
		// buffer full, drop event
		c.pending.Done()
	}
}

// Drain blocks until every pushed event has been recorded or dropped.
func (c *Collector) Drain() {
	c.pending.Wait()
}

// Shutdown records the remaining events and stops the worker.
func (c *Collector) Shutdown() {
	close(c.stop)
	<-c.done
}

func (c *Collector) run() {
	defer close(c.done)
	for {
		select {
		case raw := <-c.ch:
			c.record(raw)
			c.pending.Done()
		case <-c.stop:
			for {
				select {
				case raw := <-c.ch:
					c.record(raw)
					c.pending.Done()
				default:
					return
				}
			}
		}
	}
}

func (c *Collector) record(raw RawClick) {
	country := raw.Country
	if country == "" {
		country = c.geo.Country(raw.IP)
	}

	click := &models.Click{
		Code:      raw.Code,
		At:        raw.At.UTC().Format(time.RFC3339),
		IP:        raw.IP,
		UserAgent: raw.UserAgent,
		Referer:   raw.Referer,
		Country:   country,
		City:      raw.City,
	}
	if err := models.InsertClick(c.db, click); err != nil {
		c.log.Warn("click insert failed", zap.String("code", raw.Code), zap.Error(err))
	}
}
