package desktop

import (
	"image/color"

	"tomodoro/internal/core/model"
	"tomodoro/internal/ui/view"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// TimerActions are the user commands issued from the timer window.
type TimerActions struct {
	OnToggle      func()
	OnReset       func()
	OnStop        func()
	OnMode        func(model.Mode)
	OnPreferences func()
	OnHistory     func()
}

// TimerWindow shows the countdown for the current mode.
type TimerWindow struct {
	window      fyne.Window
	background  *canvas.Rectangle
	modeLabel   *canvas.Text
	clockLabel  *canvas.Text
	statusLabel *canvas.Text
	progress    *widget.ProgressBar
	focusButton *widget.Button
	breakButton *widget.Button
	toggle      *widget.Button
	reset       *widget.Button
	stop        *widget.Button
}

const (
	clockTextSize    = 64
	backgroundAlpha  = 0x33
	defaultWindowW   = float32(360)
	defaultWindowH   = float32(320)
	fallbackAccentHx = "#8B5CF6"
)

// NewTimerWindow creates the main timer window.
func NewTimerWindow(app fyne.App, actions TimerActions) *TimerWindow {
	window := app.NewWindow("tomodoro")
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	background := canvas.NewRectangle(color.Transparent)

	modeLabel := canvas.NewText("Focus", theme.Color(theme.ColorNameForeground))
	modeLabel.Alignment = fyne.TextAlignCenter
	modeLabel.TextStyle = fyne.TextStyle{Bold: true}
	modeLabel.TextSize = 18

	clockLabel := canvas.NewText("--:--", theme.Color(theme.ColorNameForeground))
	clockLabel.Alignment = fyne.TextAlignCenter
	clockLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockLabel.TextSize = clockTextSize

	statusLabel := canvas.NewText("", theme.Color(theme.ColorNamePlaceHolder))
	statusLabel.Alignment = fyne.TextAlignCenter
	statusLabel.TextSize = 12

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	timerWindow := &TimerWindow{
		window:      window,
		background:  background,
		modeLabel:   modeLabel,
		clockLabel:  clockLabel,
		statusLabel: statusLabel,
		progress:    progress,
	}

	timerWindow.focusButton = widget.NewButton(model.ModeFocus.Title(), func() {
		call(actions.OnMode, model.ModeFocus)
	})
	timerWindow.breakButton = widget.NewButton(model.ModeBreak.Title(), func() {
		call(actions.OnMode, model.ModeBreak)
	})
	timerWindow.reset = widget.NewButtonWithIcon("", theme.MediaReplayIcon(), func() { run(actions.OnReset) })
	timerWindow.toggle = widget.NewButtonWithIcon(view.ActionStart, theme.MediaPlayIcon(), func() { run(actions.OnToggle) })
	timerWindow.toggle.Importance = widget.HighImportance
	timerWindow.stop = widget.NewButtonWithIcon("", theme.MediaStopIcon(), func() { run(actions.OnStop) })

	toolbar := widget.NewToolbar(
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.HistoryIcon(), func() { run(actions.OnHistory) }),
		widget.NewToolbarAction(theme.SettingsIcon(), func() { run(actions.OnPreferences) }),
	)

	modes := container.NewCenter(container.NewHBox(timerWindow.focusButton, timerWindow.breakButton))
	controls := container.NewCenter(container.NewHBox(timerWindow.reset, timerWindow.toggle, timerWindow.stop))
	face := container.New(&timerLayout{}, modeLabel, clockLabel, progress, statusLabel)

	content := container.NewBorder(
		container.NewVBox(toolbar, modes),
		container.NewPadded(controls),
		nil, nil,
		container.NewPadded(face),
	)
	window.SetContent(container.NewStack(background, content))
	window.Resize(fyne.NewSize(defaultWindowW, defaultWindowH))
	window.CenterOnScreen()

	return timerWindow
}

// Window returns the underlying fyne window.
func (timerWindow *TimerWindow) Window() fyne.Window {
	return timerWindow.window
}

// Show brings the window to the front.
func (timerWindow *TimerWindow) Show() {
	timerWindow.window.Show()
	timerWindow.window.RequestFocus()
}

// Render updates every widget. Must run on the fyne main goroutine.
func (timerWindow *TimerWindow) Render(controls view.Controls) {
	accent, err := view.ParseHexColor(controls.Color)
	if err != nil {
		accent, _ = view.ParseHexColor(fallbackAccentHx)
	}

	timerWindow.background.FillColor = view.Tint(accent, backgroundAlpha)
	timerWindow.background.Refresh()

	timerWindow.modeLabel.Text = controls.Title
	timerWindow.modeLabel.Color = accent
	timerWindow.modeLabel.Refresh()

	timerWindow.clockLabel.Text = controls.Clock
	timerWindow.clockLabel.Color = accent
	timerWindow.clockLabel.Refresh()

	timerWindow.statusLabel.Text = controls.Status
	timerWindow.statusLabel.Refresh()

	timerWindow.progress.SetValue(controls.Progress)

	timerWindow.toggle.SetText(controls.Primary)
	if controls.Primary == view.ActionPause {
		timerWindow.toggle.SetIcon(theme.MediaPauseIcon())
	} else {
		timerWindow.toggle.SetIcon(theme.MediaPlayIcon())
	}
	setEnabled(timerWindow.stop, controls.CanStop)
	setEnabled(timerWindow.reset, controls.CanReset)

	for mode, button := range map[model.Mode]*widget.Button{
		model.ModeFocus: timerWindow.focusButton,
		model.ModeBreak: timerWindow.breakButton,
	} {
		if mode == controls.Mode {
			button.Importance = widget.HighImportance
		} else {
			button.Importance = widget.MediumImportance
		}
		setEnabled(button, controls.CanToggleMode || mode == controls.Mode)
		button.Refresh()
	}

	timerWindow.window.SetTitle("tomodoro - " + controls.Clock)
}

func setEnabled(button *widget.Button, enabled bool) {
	if enabled {
		button.Enable()
		return
	}
	button.Disable()
}

func run(action func()) {
	if action != nil {
		action()
	}
}

func call[T any](action func(T), value T) {
	if action != nil {
		action(value)
	}
}

// timerLayout stacks the mode title, the clock, the progress bar and the
// status line, centred vertically.
type timerLayout struct{}

func (layout *timerLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 4 {
		return
	}
	mode, clock, progress, status := objects[0], objects[1], objects[2], objects[3]

	modeSize := mode.MinSize()
	clockSize := clock.MinSize()
	progressSize := progress.MinSize()
	statusSize := status.MinSize()

	const gap = 8
	total := modeSize.Height + clockSize.Height + progressSize.Height + statusSize.Height + gap*3
	y := (size.Height - total) / 2
	if y < 0 {
		y = 0
	}

	mode.Move(fyne.NewPos(0, y))
	mode.Resize(fyne.NewSize(size.Width, modeSize.Height))
	y += modeSize.Height + gap

	clock.Move(fyne.NewPos(0, y))
	clock.Resize(fyne.NewSize(size.Width, clockSize.Height))
	y += clockSize.Height + gap

	barWidth := size.Width * 0.8
	progress.Move(fyne.NewPos((size.Width-barWidth)/2, y))
	progress.Resize(fyne.NewSize(barWidth, progressSize.Height))
	y += progressSize.Height + gap

	status.Move(fyne.NewPos(0, y))
	status.Resize(fyne.NewSize(size.Width, statusSize.Height))
}

func (layout *timerLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 4 {
		return fyne.NewSize(0, 0)
	}
	var width, height float32
	for _, object := range objects {
		size := object.MinSize()
		if size.Width > width {
			width = size.Width
		}
		height += size.Height
	}
	return fyne.NewSize(width, height+8*3)
}
