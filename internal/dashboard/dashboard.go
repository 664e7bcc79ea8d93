// Package dashboard is the page controller: it orchestrates the
// geolocation and history calls and owns all transient UI state.
package dashboard

import (
	"context"
	"strings"
	"sync"

	"geodash/internal/apiclient"
	"geodash/internal/geo"
	"geodash/internal/ipaddr"
	"geodash/internal/ipecho"
	"geodash/internal/logger"
	"geodash/models"
)

// Fixed fallback messages, used when an operation fails without a
// usable error text of its own.
const (
	msgLoadFailed   = "Failed to load current geolocation."
	msgSearchFailed = "Failed to fetch geolocation for the entered IP."
	msgSelectFailed = "Failed to fetch geolocation for the selected history."
	msgDeleteFailed = "Failed to delete selected history items."

	msgEmptyInput   = "Enter an IP address"
	msgInvalidInput = "Enter a valid IPv4 or IPv6 address"
)

// State is a point-in-time copy of the dashboard's UI state, safe to
// hand to a renderer.
type State struct {
	Loading    bool
	Busy       bool
	Error      string
	InputError string
	InputIP    string
	CurrentIP  string
	Geo        geo.Record
	History    []models.HistoryItem
	Selected   map[string]bool
}

// Dashboard holds the in-memory UI state and drives the user-initiated
// operations against the backend. The mutex protects the state maps;
// it is never held across a network call, so two overlapping
// operations still resolve by last write wins.
type Dashboard struct {
	client   *apiclient.Client
	resolver *ipecho.Resolver
	log      *logger.Logger

	mu         sync.Mutex
	booted     bool
	loading    bool
	busy       bool
	lastError  string
	inputError string
	inputIP    string
	currentIP  string
	record     geo.Record
	history    []models.HistoryItem
	selected   map[string]bool
}

func New(client *apiclient.Client, resolver *ipecho.Resolver, log *logger.Logger) *Dashboard {
	return &Dashboard{
		client:   client,
		resolver: resolver,
		log:      log.WithComponent("dashboard"),
		selected: make(map[string]bool),
	}
}

// Booted reports whether the boot sequence has run in this process.
func (d *Dashboard) Booted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.booted
}

// Snapshot returns a copy of the current UI state.
func (d *Dashboard) Snapshot() State {
	d.mu.Lock()
	defer d.mu.Unlock()

	selected := make(map[string]bool, len(d.selected))
	for id := range d.selected {
		selected[id] = true
	}
	history := make([]models.HistoryItem, len(d.history))
	copy(history, d.history)

	return State{
		Loading:    d.loading,
		Busy:       d.busy,
		Error:      d.lastError,
		InputError: d.inputError,
		InputIP:    d.inputIP,
		CurrentIP:  d.currentIP,
		Geo:        d.record,
		History:    history,
		Selected:   selected,
	}
}

// Boot loads the caller's own geolocation and the history list. A
// geolocation failure is surfaced; a history failure is swallowed and
// the list rendered empty.
func (d *Dashboard) Boot(ctx context.Context) {
	d.begin(func() { d.loading = true; d.booted = true })
	defer d.end(func() { d.loading = false })

	rec, err := d.home(ctx)
	if err != nil {
		d.setError(errorMessage(err, msgLoadFailed))
		return
	}

	d.mu.Lock()
	d.record = rec
	d.currentIP = geo.ExtractIP(rec)
	d.inputIP = ""
	d.mu.Unlock()

	history := d.fetchHistoryQuietly(ctx)
	d.mu.Lock()
	d.history = history
	d.mu.Unlock()
}

// Search validates the input locally, then fetches and displays the
// geolocation for it and refreshes the history list.
func (d *Dashboard) Search(ctx context.Context, input string) {
	d.begin(func() { d.busy = true })
	defer d.end(func() { d.busy = false })

	ip := strings.TrimSpace(input)
	if ip == "" {
		d.setInputError(msgEmptyInput)
		return
	}
	if !ipaddr.IsValid(ip) {
		d.setInputError(msgInvalidInput)
		return
	}

	rec, err := d.client.SearchIP(ctx, ip)
	if err != nil {
		d.setError(errorMessage(err, msgSearchFailed))
		return
	}

	// The fetched record is displayed even when the history refresh
	// below fails; the error banner then sits next to the result.
	d.mu.Lock()
	d.record = rec
	d.inputIP = ip
	d.mu.Unlock()

	history, err := d.client.History(ctx)
	if err != nil {
		d.setError(errorMessage(err, msgSearchFailed))
		return
	}

	d.mu.Lock()
	d.history = history
	d.mu.Unlock()
}

// SelectHistory displays the stored geolocation for one history
// entry. When the fetched record carries no recognizable IP, the
// history item's own ip is used for display.
func (d *Dashboard) SelectHistory(ctx context.Context, id string) {
	d.begin(func() { d.busy = true })
	defer d.end(func() { d.busy = false })

	rec, err := d.client.HistoryItem(ctx, id)
	if err != nil {
		d.setError(errorMessage(err, msgSelectFailed))
		return
	}

	ip := geo.ExtractIP(rec)
	if ip == "" {
		d.mu.Lock()
		for _, item := range d.history {
			if item.ID == id {
				ip = item.IP
				break
			}
		}
		d.mu.Unlock()
	}

	d.mu.Lock()
	d.record = rec
	d.inputIP = ip
	d.mu.Unlock()
}

// Clear drops any search and returns the view to the caller's own
// geolocation, refreshing the history list.
func (d *Dashboard) Clear(ctx context.Context) {
	d.begin(func() { d.busy = true; d.inputIP = "" })
	defer d.end(func() { d.busy = false })

	rec, err := d.client.ClearSearch(ctx)
	if err != nil {
		d.setError(errorMessage(err, msgLoadFailed))
		return
	}

	d.mu.Lock()
	d.record = rec
	d.currentIP = geo.ExtractIP(rec)
	d.mu.Unlock()

	history, err := d.client.History(ctx)
	if err != nil {
		d.setError(errorMessage(err, msgLoadFailed))
		return
	}

	d.mu.Lock()
	d.history = history
	d.mu.Unlock()
}

// ToggleSelect flips one history row in or out of the selection.
func (d *Dashboard) ToggleSelect(id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.selected[id] {
		delete(d.selected, id)
	} else {
		d.selected[id] = true
	}
}

// SelectedIDs returns the current selection.
func (d *Dashboard) SelectedIDs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make([]string, 0, len(d.selected))
	for id := range d.selected {
		ids = append(ids, id)
	}
	return ids
}

// DeleteSelected removes every selected history entry in one bulk
// call, then refreshes the list and clears the selection. With an
// empty selection it does nothing.
func (d *Dashboard) DeleteSelected(ctx context.Context) {
	ids := d.SelectedIDs()
	if len(ids) == 0 {
		return
	}

	d.begin(func() { d.busy = true })
	defer d.end(func() { d.busy = false })

	if err := d.client.DeleteHistories(ctx, d.wireIDs(ids)); err != nil {
		d.setError(errorMessage(err, msgDeleteFailed))
		return
	}

	history, err := d.client.History(ctx)
	if err != nil {
		d.setError(errorMessage(err, msgDeleteFailed))
		return
	}

	d.mu.Lock()
	d.history = history
	d.selected = make(map[string]bool)
	d.mu.Unlock()
}

// wireIDs maps selected ids back to the form the backend issued them
// in, so numeric ids are deleted as numbers. Ids with no matching
// history row go out as strings.
func (d *Dashboard) wireIDs(ids []string) []any {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]any, 0, len(ids))
	for _, id := range ids {
		wire := any(id)
		for _, item := range d.history {
			if item.ID == id {
				wire = item.WireID()
				break
			}
		}
		out = append(out, wire)
	}
	return out
}

// home resolves the caller's public IP best-effort and asks the
// backend for its geolocation. A failed resolution just sends an
// empty ip.
func (d *Dashboard) home(ctx context.Context) (geo.Record, error) {
	ip, err := d.resolver.Resolve(ctx)
	if err != nil {
		d.log.Debug().Err(err).Msg("public ip resolution failed")
	}
	return d.client.Home(ctx, ip)
}

func (d *Dashboard) fetchHistoryQuietly(ctx context.Context) []models.HistoryItem {
	history, err := d.client.History(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("history fetch failed, rendering empty list")
		return []models.HistoryItem{}
	}
	return history
}

// begin clears prior errors and applies the op's entry mutation.
func (d *Dashboard) begin(mutate func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastError = ""
	d.inputError = ""
	mutate()
}

func (d *Dashboard) end(mutate func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	mutate()
}

func (d *Dashboard) setError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastError = msg
}

func (d *Dashboard) setInputError(msg string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.inputError = msg
}

// errorMessage prefers the error's own text (which already carries any
// server-supplied message) and falls back to a fixed per-operation
// string.
func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
