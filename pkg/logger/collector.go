package logger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"
)

type Publisher interface {
	PublishMessage(ctx context.Context, topic string, payload interface{}) error
}

type CollectionConfig struct {
	TimeInterval   time.Duration // flush interval
	CountThreshold int           // distinct entries that force an early flush
	Topic          string
	Publisher      Publisher
}

// AggregatedLogEntry is one distinct error together with how often it fired
// within a flush window.
type AggregatedLogEntry struct {
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields"`
	Caller    string                 `json:"caller"`
	Count     int                    `json:"count"`
	FirstSeen time.Time              `json:"first_seen"`
	LastSeen  time.Time              `json:"last_seen"`

	seq uint64
}

// LogCollector deduplicates error logs and ships them in batches.
type LogCollector struct {
	cfg     CollectionConfig
	mu      sync.Mutex
	entries map[string]*AggregatedLogEntry
	seq     uint64
	stop    chan struct{}
	done    sync.WaitGroup
	sends   sync.WaitGroup
}

func NewLogCollector(cfg *CollectionConfig) *LogCollector {
	c := &LogCollector{
		cfg:     *cfg,
		entries: make(map[string]*AggregatedLogEntry),
		stop:    make(chan struct{}),
	}
	if c.cfg.TimeInterval <= 0 {
		c.cfg.TimeInterval = 30 * time.Second
	}
	if c.cfg.CountThreshold <= 0 {
		c.cfg.CountThreshold = 100
	}
	c.done.Add(1)
	go c.loop()
	return c
}

// AddLog records one occurrence. Identical level, message, fields and caller
// collapse into a single entry.
func (c *LogCollector) AddLog(level, message string, fields map[string]interface{}, caller string) {
	now := time.Now()
	key := entryKey(level, message, fields, caller)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.Count++
		e.LastSeen = now
	} else {
		c.entries[key] = &AggregatedLogEntry{
			Level:     level,
			Message:   message,
			Fields:    fields,
			Caller:    caller,
			Count:     1,
			FirstSeen: now,
			LastSeen:  now,
			seq:       c.seq,
		}
		c.seq++
	}
	var batch []AggregatedLogEntry
	if len(c.entries) >= c.cfg.CountThreshold {
		batch = c.drainLocked()
	}
	c.mu.Unlock()

	if batch != nil {
		c.sends.Add(1)
		go func() {
			defer c.sends.Done()
			c.send(batch)
		}()
	}
}

func (c *LogCollector) loop() {
	defer c.done.Done()
	t := time.NewTicker(c.cfg.TimeInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			c.Flush()
		case <-c.stop:
			c.Flush()
			return
		}
	}
}

// Flush publishes whatever has accumulated so far.
func (c *LogCollector) Flush() {
	c.mu.Lock()
	batch := c.drainLocked()
	c.mu.Unlock()
	if batch != nil {
		c.send(batch)
	}
}

func (c *LogCollector) drainLocked() []AggregatedLogEntry {
	if len(c.entries) == 0 {
		return nil
	}
	out := make([]AggregatedLogEntry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, *e)
	}
	c.entries = make(map[string]*AggregatedLogEntry)
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (c *LogCollector) send(batch []AggregatedLogEntry) {
	if c.cfg.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.cfg.Publisher.PublishMessage(ctx, c.cfg.Topic, batch); err != nil {
		// The logger itself cannot be used here without recursing.
		fmt.Fprintf(os.Stderr, "publish aggregated logs: %v\n", err)
	}
}

// Close stops the flush loop after a final flush and waits for in-flight sends.
func (c *LogCollector) Close() {
	close(c.stop)
	c.done.Wait()
	c.sends.Wait()
}

func entryKey(level, message string, fields map[string]interface{}, caller string) string {
	b, _ := json.Marshal(struct {
		L string                 `json:"l"`
		M string                 `json:"m"`
		F map[string]interface{} `json:"f"`
		C string                 `json:"c"`
	}{level, message, fields, caller})
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
