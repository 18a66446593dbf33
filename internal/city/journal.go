package city

import (
	"fmt"
	"strings"
)

// JournalEntry is one recorded session event.
type JournalEntry struct {
	Tick     int      // updater tick at the time of the event
	Region   RegionID // district, HQ, or "--" for global events
	Category string   // status, command, select, run, transmit
	Key      string   // event name within the category
	Value    string   // human-readable detail
	NumVal   float64  // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] D-02 status    change           WARNING → CRITICAL
func (e JournalEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-9s %-16s %s",
		e.Tick, e.Region, e.Category, e.Key, e.Value)
}

// Journal collects structured session events. Unlike TransmissionLog (the fixed
// 50-entry UI buffer) it is machine-readable and sized by its owner: a cap of
// zero keeps everything, which is what headless runs use.
type Journal struct {
	entries []JournalEntry
	cap     int
}

// NewJournal creates a journal that keeps at most maxEntries (0 = unbounded).
func NewJournal(maxEntries int) *Journal {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &Journal{cap: maxEntries}
}

// Add records a new entry. Safe on a nil journal.
func (j *Journal) Add(tick int, region RegionID, category, key, value string, numVal float64) {
	if j == nil {
		return
	}
	if region == "" {
		region = "--"
	}
	j.entries = append(j.entries, JournalEntry{
		Tick:     tick,
		Region:   region,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
	// Trim in batches so a capped journal doesn't copy on every append.
	if j.cap > 0 && len(j.entries) > j.cap+j.cap/4 {
		j.entries = append(j.entries[:0:0], j.entries[len(j.entries)-j.cap:]...)
	}
}

// Entries returns all retained entries, oldest first.
func (j *Journal) Entries() []JournalEntry {
	if j == nil {
		return nil
	}
	if j.cap > 0 && len(j.entries) > j.cap {
		return j.entries[len(j.entries)-j.cap:]
	}
	return j.entries
}

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (j *Journal) Filter(category, key string) []JournalEntry {
	var out []JournalEntry
	for _, e := range j.Entries() {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterRegion returns entries for one region.
func (j *Journal) FilterRegion(id RegionID) []JournalEntry {
	var out []JournalEntry
	for _, e := range j.Entries() {
		if e.Region == id {
			out = append(out, e)
		}
	}
	return out
}

// FilterTickRange returns entries within [fromTick, toTick] inclusive.
func (j *Journal) FilterTickRange(fromTick, toTick int) []JournalEntry {
	var out []JournalEntry
	for _, e := range j.Entries() {
		if e.Tick >= fromTick && e.Tick <= toTick {
			out = append(out, e)
		}
	}
	return out
}

// Count returns how many entries match category and key.
func (j *Journal) Count(category, key string) int {
	return len(j.Filter(category, key))
}

// FirstTick returns the tick of the first entry matching category, key and a value
// substring, or -1.
func (j *Journal) FirstTick(category, key, valueSubstr string) int {
	for _, e := range j.Entries() {
		if e.Category != category || e.Key != key {
			continue
		}
		if valueSubstr == "" || strings.Contains(e.Value, valueSubstr) {
			return e.Tick
		}
	}
	return -1
}

// Format returns the journal as one line per entry.
func (j *Journal) Format() string {
	var sb strings.Builder
	for _, e := range j.Entries() {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
