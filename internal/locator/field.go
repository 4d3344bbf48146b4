package locator

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/UnknownOlympus/nivaran/internal/metrics"
	"github.com/UnknownOlympus/nivaran/internal/models"
)

// Suggester is implemented by AutocompleteClient.
type Suggester interface {
	Suggest(ctx context.Context, query string) []string
}

// ReverseGeocoder is implemented by ReverseGeocodeClient.
type ReverseGeocoder interface {
	ReverseGeocode(ctx context.Context, coords models.Coordinates) (string, error)
}

// FieldConfig holds the collaborators of a Field.
type FieldConfig struct {
	Suggester Suggester        // Autocomplete client
	Geocoder  ReverseGeocoder  // Reverse geocode client
	Notifier  Notifier         // Receives user notices, may be nil
	Debounce  time.Duration    // Keystroke debounce window, 0 fetches immediately
	Logger    *slog.Logger     // Logger for the field
	Metrics   *metrics.Metrics // Metrics for stale responses and detect outcomes
}

// Snapshot is a consistent copy of the field state.
type Snapshot struct {
	Query       string     `json:"query"`
	Resolved    string     `json:"resolved"`
	Suggestions []string   `json:"suggestions"`
	Overlay     Visibility `json:"overlay"`
	Busy        bool       `json:"busy"`
}

// Field is the location field of the rescue report form. It owns the typed query,
// the suggestion list, the overlay and the resolved location submitted with the report.
//
// Typing and location detection are independent triggers. Within each trigger the
// most recently initiated operation wins: suggestion responses carry a sequence
// number and are dropped unless they belong to the latest query, and a detect
// request is ignored while another one is running.
type Field struct {
	suggester Suggester
	geocoder  ReverseGeocoder
	notifier  Notifier
	debounce  time.Duration
	log       *slog.Logger
	metrics   *metrics.Metrics

	ctx  context.Context // lifetime of the form
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu            sync.Mutex
	query         string
	resolved      string
	suggestions   []string
	overlay       *Overlay
	seq           uint64
	cancelSuggest context.CancelFunc
	timer         *time.Timer
	busy          bool
	closed        bool
}

// NewField creates an empty field.
func NewField(cfg FieldConfig) *Field {
	ctx, stop := context.WithCancel(context.Background())

	return &Field{
		suggester: cfg.Suggester,
		geocoder:  cfg.Geocoder,
		notifier:  cfg.Notifier,
		debounce:  cfg.Debounce,
		log:       cfg.Logger,
		metrics:   cfg.Metrics,
		ctx:       ctx,
		stop:      stop,
		overlay:   NewOverlay(),
	}
}

// OnTextInput records a keystroke. The typed text becomes the resolved location
// right away and, once the debounce window passes, suggestions are fetched for it.
func (f *Field) OnTextInput(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	f.query = text
	f.resolved = text
	f.overlay.Focus()
	f.seq++
	f.cancelPendingLocked()

	if IsShortQuery(text) {
		f.setSuggestionsLocked(nil)
		return
	}

	seq := f.seq
	ctx, cancel := context.WithCancel(f.ctx)
	f.cancelSuggest = cancel

	f.wg.Add(1)
	if f.debounce <= 0 {
		go f.fetchSuggestions(ctx, seq, text)
		return
	}
	f.timer = time.AfterFunc(f.debounce, func() { f.fetchSuggestions(ctx, seq, text) })
}

// OnSuggestionSelected makes s the resolved location, clears the suggestions and hides the overlay.
// Any suggestion request still pending becomes stale.
func (f *Field) OnSuggestionSelected(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}

	f.query = s
	f.resolved = s
	f.seq++
	f.cancelPendingLocked()
	f.overlay.Select()
	f.setSuggestionsLocked(nil)
}

// OnFocus handles the input gaining focus.
func (f *Field) OnFocus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overlay.Focus()
}

// OnBlur handles focus leaving the input and the overlay.
func (f *Field) OnBlur() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overlay.Blur()
}

// OnPointerDown handles a pointer event on the given region.
func (f *Field) OnPointerDown(target Target) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.overlay.PointerDown(target)
}

// OnDetectLocationRequested starts resolving the current position of source in the background.
//
// It returns ErrDetectInProgress, leaving the running attempt untouched, when another
// request is still pending, and ErrCapabilityAbsent without calling the source when
// the source cannot locate. Otherwise it returns nil and the outcome is delivered
// through the resolved location and the notifier.
func (f *Field) OnDetectLocationRequested(source PositionSource) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return context.Canceled
	}
	if f.busy {
		f.mu.Unlock()
		f.metrics.DetectOutcomes.WithLabelValues("ignored").Inc()
		return ErrDetectInProgress
	}
	if source == nil || !source.Available() {
		f.mu.Unlock()
		f.metrics.DetectOutcomes.WithLabelValues("unsupported").Inc()
		f.notify(LevelError, msgNotSupported)
		return ErrCapabilityAbsent
	}
	f.busy = true
	f.wg.Add(1)
	f.mu.Unlock()

	f.notify(LevelInfo, msgFetchingLocation)
	go f.detect(source)

	return nil
}

// Resolved returns the location submitted with the report.
func (f *Field) Resolved() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved
}

// Busy reports whether a detect-location request is running.
func (f *Field) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Snapshot returns a copy of the current state.
func (f *Field) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Snapshot{
		Query:       f.query,
		Resolved:    f.resolved,
		Suggestions: append([]string{}, f.suggestions...),
		Overlay:     f.overlay.State(),
		Busy:        f.busy,
	}
}

// Wait blocks until every pending suggestion fetch and detect request has finished.
func (f *Field) Wait() {
	f.wg.Wait()
}

// Close cancels pending work, waits for it and discards any late result.
func (f *Field) Close() {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	f.closed = true
	f.cancelPendingLocked()
	f.mu.Unlock()

	f.stop()
	f.wg.Wait()
}

// FormatCoordinates renders coordinates the way they are submitted when no address is known.
func FormatCoordinates(coords models.Coordinates) string {
	return fmt.Sprintf("%.6f, %.6f", coords.Latitude, coords.Longitude)
}

func (f *Field) fetchSuggestions(ctx context.Context, seq uint64, text string) {
	defer f.wg.Done()

	if ctx.Err() != nil {
		return
	}

	suggestions := f.suggester.Suggest(ctx, text)
	if err := f.applySuggestions(seq, suggestions); err != nil {
		f.log.DebugContext(ctx, "Dropping suggestions", "query", text, "error", err)
	}
}

func (f *Field) applySuggestions(seq uint64, suggestions []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return context.Canceled
	}
	if seq != f.seq {
		f.metrics.SuggestStale.Inc()
		return ErrStaleResponse
	}

	f.setSuggestionsLocked(suggestions)
	return nil
}

func (f *Field) setSuggestionsLocked(suggestions []string) {
	f.suggestions = slices.Clone(suggestions)
	f.overlay.SuggestionsChanged(len(f.suggestions))
}

// cancelPendingLocked stops the debounce timer and cancels the in-flight suggestion request.
func (f *Field) cancelPendingLocked() {
	if f.timer != nil {
		if f.timer.Stop() {
			// The callback will never run, so release its slot here.
			f.wg.Done()
		}
		f.timer = nil
	}
	if f.cancelSuggest != nil {
		f.cancelSuggest()
		f.cancelSuggest = nil
	}
}

func (f *Field) detect(source PositionSource) {
	defer f.wg.Done()

	coords, err := source.CurrentPosition(f.ctx)
	if err != nil {
		f.log.WarnContext(f.ctx, "Failed to get current position", "error", err)
		f.metrics.DetectOutcomes.WithLabelValues("position_failed").Inc()
		if f.finishDetect("", false) {
			f.notify(LevelError, msgLocationFailed)
		}
		return
	}

	location, geocoded := f.resolveCoordinates(coords)
	if !f.finishDetect(location, true) {
		return
	}

	if geocoded {
		f.metrics.DetectOutcomes.WithLabelValues("address").Inc()
		f.notify(LevelSuccess, msgLocationDetected)
		return
	}
	f.metrics.DetectOutcomes.WithLabelValues("coordinates").Inc()
	f.notify(LevelSuccess, msgUsingCoordinates)
}

// resolveCoordinates reverse geocodes coords and falls back to the formatted
// coordinates when no address is available. The boolean reports whether an address was found.
func (f *Field) resolveCoordinates(coords models.Coordinates) (string, bool) {
	address, err := f.geocoder.ReverseGeocode(f.ctx, coords)
	if err != nil {
		f.log.InfoContext(f.ctx, "Falling back to raw coordinates", "error", err)
		return FormatCoordinates(coords), false
	}

	return address, true
}

// finishDetect clears the busy flag and, when write is set, stores location.
// It returns false when the field was closed meanwhile.
func (f *Field) finishDetect(location string, write bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.busy = false
	if f.closed {
		return false
	}
	if write {
		f.query = location
		f.resolved = location
	}

	return true
}

func (f *Field) notify(level Level, message string) {
	if f.notifier == nil {
		return
	}
	f.notifier.Notify(Notice{Level: level, Message: message})
}
