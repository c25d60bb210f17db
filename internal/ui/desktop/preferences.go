package desktop

import (
	"fmt"
	"strings"
	"time"

	"tomodoro/internal/core/model"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// PreferencesWindow edits durations, colors, sounds and volume.
type PreferencesWindow struct {
	window     fyne.Window
	settings   model.Settings
	onSave     func(model.Settings)
	onTest     func(soundID string, volume float64)
	focus      *widget.Slider
	focusLabel *widget.Label
	brk        *widget.Slider
	breakLabel *widget.Label
	focusColor *widget.Select
	breakColor *widget.Select
	focusSound *widget.Select
	breakSound *widget.Select
	volume     *widget.Slider
}

// NewPreferencesWindow creates the preferences window. onTest plays a sound
// at the given volume without saving.
func NewPreferencesWindow(app fyne.App, settings model.Settings, onSave func(model.Settings), onTest func(string, float64)) *PreferencesWindow {
	window := app.NewWindow("tomodoro settings")

	prefs := &PreferencesWindow{
		window:     window,
		settings:   settings,
		onSave:     onSave,
		onTest:     onTest,
		focus:      widget.NewSlider(model.MinFocusMinutes, model.MaxFocusMinutes),
		focusLabel: widget.NewLabel(""),
		brk:        widget.NewSlider(model.MinBreakMinutes, model.MaxBreakMinutes),
		breakLabel: widget.NewLabel(""),
		focusColor: widget.NewSelect(nil, nil),
		breakColor: widget.NewSelect(nil, nil),
		focusSound: widget.NewSelect(model.Sounds, nil),
		breakSound: widget.NewSelect(model.Sounds, nil),
		volume:     widget.NewSlider(0, 1),
	}
	prefs.focus.Step = 1
	prefs.brk.Step = 1
	prefs.volume.Step = 0.05
	prefs.focus.OnChanged = func(value float64) { prefs.focusLabel.SetText(minutesLabel(value)) }
	prefs.brk.OnChanged = func(value float64) { prefs.breakLabel.SetText(minutesLabel(value)) }

	testFocus := widget.NewButton("Test", func() { prefs.test(prefs.focusSound.Selected) })
	testBreak := widget.NewButton("Test", func() { prefs.test(prefs.breakSound.Selected) })

	form := container.NewVBox(
		widget.NewLabelWithStyle("Durations", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Focus"),
		container.NewBorder(nil, nil, nil, prefs.focusLabel, prefs.focus),
		widget.NewLabel("Break"),
		container.NewBorder(nil, nil, nil, prefs.breakLabel, prefs.brk),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Colors", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, widget.NewLabel("Focus"), prefs.focusColor),
		container.NewGridWithColumns(2, widget.NewLabel("Break"), prefs.breakColor),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Sounds", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewBorder(nil, nil, widget.NewLabel("Focus done"), testFocus, prefs.focusSound),
		container.NewBorder(nil, nil, widget.NewLabel("Break done"), testBreak, prefs.breakSound),
		widget.NewLabel("Volume"),
		prefs.volume,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	saveButton.Importance = widget.HighImportance
	cancelButton := widget.NewButton("Cancel", func() { window.Hide() })
	resetButton := widget.NewButton("Defaults", func() { prefs.UpdateSettings(model.DefaultSettings()) })
	buttons := container.NewHBox(resetButton, layout.NewSpacer(), cancelButton, saveButton)

	window.SetContent(container.NewBorder(nil, container.NewPadded(buttons), nil, nil, container.NewPadded(form)))
	window.Resize(fyne.NewSize(420, 560))
	window.SetCloseIntercept(func() { window.Hide() })

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *PreferencesWindow) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces the values shown.
func (prefs *PreferencesWindow) UpdateSettings(settings model.Settings) {
	prefs.settings = settings
	prefs.focus.SetValue(settings.FocusDuration.Minutes())
	prefs.brk.SetValue(settings.BreakDuration.Minutes())
	prefs.focusLabel.SetText(minutesLabel(settings.FocusDuration.Minutes()))
	prefs.breakLabel.SetText(minutesLabel(settings.BreakDuration.Minutes()))
	setColorOptions(prefs.focusColor, settings.FocusColor)
	setColorOptions(prefs.breakColor, settings.BreakColor)
	prefs.focusSound.SetSelected(settings.FocusSound)
	prefs.breakSound.SetSelected(settings.BreakSound)
	prefs.volume.SetValue(settings.Volume)
}

func (prefs *PreferencesWindow) handleSave() {
	settings := prefs.settings
	settings.FocusDuration = time.Duration(prefs.focus.Value) * time.Minute
	settings.BreakDuration = time.Duration(prefs.brk.Value) * time.Minute
	settings.FocusColor = colorFromOption(prefs.focusColor.Selected, settings.FocusColor)
	settings.BreakColor = colorFromOption(prefs.breakColor.Selected, settings.BreakColor)
	settings.FocusSound = prefs.focusSound.Selected
	settings.BreakSound = prefs.breakSound.Selected
	settings.Volume = prefs.volume.Value

	settings, _ = settings.Normalize()
	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func (prefs *PreferencesWindow) test(soundID string) {
	if prefs.onTest != nil && soundID != "" {
		prefs.onTest(soundID, prefs.volume.Value)
	}
}

func minutesLabel(value float64) string {
	return fmt.Sprintf("%2d min", int(value))
}

// Color options read "Purple #8B5CF6"; a stored color outside the presets
// is offered as "Custom #RRGGBB".
func setColorOptions(selector *widget.Select, current string) {
	options := make([]string, 0, len(model.ColorPresets)+1)
	selected := ""
	for _, preset := range model.ColorPresets {
		option := preset.Name + " " + preset.Value
		options = append(options, option)
		if strings.EqualFold(preset.Value, current) {
			selected = option
		}
	}
	if selected == "" && model.ValidColor(current) {
		selected = "Custom " + strings.ToUpper(current)
		options = append(options, selected)
	}
	selector.SetOptions(options)
	selector.SetSelected(selected)
}

func colorFromOption(option, fallback string) string {
	fields := strings.Fields(option)
	if len(fields) == 0 {
		return fallback
	}
	value := fields[len(fields)-1]
	if !model.ValidColor(value) {
		return fallback
	}
	return value
}
