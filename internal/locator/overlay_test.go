package locator_test

import (
	"testing"

	"github.com/UnknownOlympus/nivaran/internal/locator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlay_InitialState(t *testing.T) {
	overlay := locator.NewOverlay()

	assert.Equal(t, locator.Hidden, overlay.State())
	assert.False(t, overlay.Focused())
}

func TestOverlay_Transitions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(o *locator.Overlay)
		event func(o *locator.Overlay) locator.Visibility
		want  locator.Visibility
	}{
		{
			name:  "hidden - populated while unfocused shows",
			setup: func(_ *locator.Overlay) {},
			event: func(o *locator.Overlay) locator.Visibility { return o.SuggestionsChanged(3) },
			want:  locator.Shown,
		},
		{
			name:  "hidden - empty list stays hidden",
			setup: func(o *locator.Overlay) { o.Focus() },
			event: func(o *locator.Overlay) locator.Visibility { return o.SuggestionsChanged(0) },
			want:  locator.Hidden,
		},
		{
			name:  "hidden - focus without suggestions stays hidden",
			setup: func(_ *locator.Overlay) {},
			event: func(o *locator.Overlay) locator.Visibility { return o.Focus() },
			want:  locator.Hidden,
		},
		{
			name: "hidden - focus with cached suggestions shows",
			setup: func(o *locator.Overlay) {
				o.SuggestionsChanged(2)
				o.PointerDown(locator.TargetOutside)
			},
			event: func(o *locator.Overlay) locator.Visibility { return o.Focus() },
			want:  locator.Shown,
		},
		{
			name: "hidden - pointer on input with cached suggestions shows",
			setup: func(o *locator.Overlay) {
				o.SuggestionsChanged(2)
				o.Blur()
			},
			event: func(o *locator.Overlay) locator.Visibility { return o.PointerDown(locator.TargetInput) },
			want:  locator.Shown,
		},
		{
			name: "hidden - replaced list while blurred stays hidden",
			setup: func(o *locator.Overlay) {
				o.SuggestionsChanged(2)
				o.Blur()
			},
			event: func(o *locator.Overlay) locator.Visibility { return o.SuggestionsChanged(4) },
			want:  locator.Hidden,
		},
		{
			name: "shown - replaced list while focused stays shown",
			setup: func(o *locator.Overlay) {
				o.Focus()
				o.SuggestionsChanged(2)
			},
			event: func(o *locator.Overlay) locator.Visibility { return o.SuggestionsChanged(5) },
			want:  locator.Shown,
		},
		{
			name: "shown - list becoming empty hides",
			setup: func(o *locator.Overlay) {
				o.Focus()
				o.SuggestionsChanged(2)
			},
			event: func(o *locator.Overlay) locator.Visibility { return o.SuggestionsChanged(0) },
			want:  locator.Hidden,
		},
		{
			name: "shown - outside pointer hides",
			setup: func(o *locator.Overlay) {
				o.Focus()
				o.SuggestionsChanged(2)
			},
			event: func(o *locator.Overlay) locator.Visibility { return o.PointerDown(locator.TargetOutside) },
			want:  locator.Hidden,
		},
		{
			name: "shown - pointer inside overlay keeps it shown",
			setup: func(o *locator.Overlay) {
				o.Focus()
				o.SuggestionsChanged(2)
			},
			event: func(o *locator.Overlay) locator.Visibility { return o.PointerDown(locator.TargetOverlay) },
			want:  locator.Shown,
		},
		{
			name: "shown - pointer on input keeps it shown",
			setup: func(o *locator.Overlay) {
				o.Focus()
				o.SuggestionsChanged(2)
			},
			event: func(o *locator.Overlay) locator.Visibility { return o.PointerDown(locator.TargetInput) },
			want:  locator.Shown,
		},
		{
			name: "shown - blur hides",
			setup: func(o *locator.Overlay) {
				o.Focus()
				o.SuggestionsChanged(2)
			},
			event: func(o *locator.Overlay) locator.Visibility { return o.Blur() },
			want:  locator.Hidden,
		},
		{
			name: "shown - selection hides",
			setup: func(o *locator.Overlay) {
				o.Focus()
				o.SuggestionsChanged(2)
			},
			event: func(o *locator.Overlay) locator.Visibility { return o.Select() },
			want:  locator.Hidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			overlay := locator.NewOverlay()
			tt.setup(overlay)

			got := tt.event(overlay)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, overlay.State())
		})
	}
}

func TestOverlay_SelectionWinsOverOutsideClick(t *testing.T) {
	overlay := locator.NewOverlay()
	overlay.Focus()
	overlay.SuggestionsChanged(3)

	// A click on a suggestion lands inside the overlay region first.
	require.Equal(t, locator.Shown, overlay.PointerDown(locator.TargetOverlay))
	assert.Equal(t, locator.Hidden, overlay.Select())
	assert.True(t, overlay.Focused())
}

func TestOverlay_NeverShownWhenEmpty(t *testing.T) {
	overlay := locator.NewOverlay()
	events := []func(){
		func() { overlay.Focus() },
		func() { overlay.SuggestionsChanged(2) },
		func() { overlay.PointerDown(locator.TargetOverlay) },
		func() { overlay.SuggestionsChanged(0) },
		func() { overlay.PointerDown(locator.TargetInput) },
		func() { overlay.Select() },
		func() { overlay.Focus() },
		func() { overlay.Blur() },
		func() { overlay.SuggestionsChanged(1) },
		func() { overlay.Focus() },
		func() { overlay.SuggestionsChanged(0) },
		func() { overlay.Focus() },
	}
	counts := []int{0, 2, 2, 0, 0, 0, 0, 0, 1, 1, 0, 0}

	for i, event := range events {
		event()
		if counts[i] == 0 {
			assert.Equal(t, locator.Hidden, overlay.State(), "event %d", i)
		}
	}
}

func TestParseTarget(t *testing.T) {
	for input, want := range map[string]locator.Target{
		"input":   locator.TargetInput,
		"overlay": locator.TargetOverlay,
		"outside": locator.TargetOutside,
	} {
		got, err := locator.ParseTarget(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := locator.ParseTarget("window")
	require.Error(t, err)
}

func TestVisibility_MarshalText(t *testing.T) {
	shown, err := locator.Shown.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "shown", string(shown))
	assert.Equal(t, "hidden", locator.Hidden.String())
}
