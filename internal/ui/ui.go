package ui

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-agecalc/internal/age"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/controller"
)

// AgeCalcApp binds the calculator controller to a Fyne window.
type AgeCalcApp struct {
	App        fyne.App
	Window     fyne.Window
	I18nBundle *i18n.Bundle
	Localizer  *i18n.Localizer
	Ctx        context.Context

	Controller *controller.Controller

	dateEntry    *widget.DateEntry
	errorLabel   *widget.Label
	calcButton   *widget.Button
	yearsText    *canvas.Text
	monthsText   *canvas.Text
	daysText     *canvas.Text
	messageLabel *widget.Label
	resultBox    *fyne.Container
	banner       *canvas.Text
	bannerAnim   *fyne.Animation

	// syncingEntry is set while render writes to dateEntry, so the resulting
	// OnChanged callback is not mistaken for a user selection.
	syncingEntry bool
}

// NewAgeCalcApp constructs the application and wires dependencies.
func NewAgeCalcApp(a fyne.App, ctx context.Context, ctrl *controller.Controller) *AgeCalcApp {
	return &AgeCalcApp{
		App:        a,
		Ctx:        ctx,
		Controller: ctrl,
	}
}

// Run builds the window and blocks in the Fyne main loop.
func (app *AgeCalcApp) Run() {
	app.SetupI18n()
	app.BuildWindow()
	defer app.Controller.Close()

	slog.Info(config.MsgAppStarting, config.LogKeyComponent, config.CompUI)
	app.Window.ShowAndRun()
}

// BuildWindow creates the calculator window and subscribes it to controller changes.
func (app *AgeCalcApp) BuildWindow() {
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window = w

	title := canvas.NewText(app.GetMsg(config.TKeyWinTitle), theme.Color(theme.ColorNameForeground))
	title.TextSize = theme.TextHeadingSize()
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	app.dateEntry = widget.NewDateEntry()
	app.dateEntry.SetPlaceHolder(app.GetMsg(config.TKeyPlaceholder))
	app.dateEntry.OnChanged = app.onDateChanged

	app.errorLabel = widget.NewLabel("")
	app.errorLabel.Importance = widget.DangerImportance
	app.errorLabel.Wrapping = fyne.TextWrapWord
	app.errorLabel.Hide()

	app.calcButton = widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCalculate), theme.ConfirmIcon(), app.onCalculate)
	app.calcButton.Importance = widget.HighImportance

	app.yearsText = newTileValue()
	app.monthsText = newTileValue()
	app.daysText = newTileValue()

	app.messageLabel = widget.NewLabel("")
	app.messageLabel.Alignment = fyne.TextAlignCenter
	app.messageLabel.Wrapping = fyne.TextWrapWord

	tiles := container.NewGridWithColumns(config.LayoutColumnsTriple,
		app.newTile(app.yearsText, config.TKeyLblYears),
		app.newTile(app.monthsText, config.TKeyLblMonths),
		app.newTile(app.daysText, config.TKeyLblDays),
	)
	app.resultBox = container.NewVBox(tiles, widget.NewCard("", "", app.messageLabel))
	app.resultBox.Hide()

	app.banner = canvas.NewText(app.GetMsg(config.TKeyLblCelebration), theme.Color(theme.ColorNamePrimary))
	app.banner.Alignment = fyne.TextAlignCenter
	app.banner.TextSize = config.TileTextSize
	app.banner.Hide()
	app.bannerAnim = fyne.NewAnimation(time.Second, func(p float32) {
		app.banner.TextSize = config.TileTextSize * (1 + p/2)
		app.banner.Refresh()
	})
	app.bannerAnim.AutoReverse = true
	app.bannerAnim.RepeatCount = fyne.AnimationRepeatForever

	form := container.NewVBox(
		widget.NewLabel(app.GetMsg(config.TKeyLblDateInput)),
		app.dateEntry,
		app.errorLabel,
	)

	w.SetContent(container.NewPadded(container.NewVBox(
		app.banner,
		title,
		form,
		app.calcButton,
		app.resultBox,
	)))
	w.Resize(fyne.NewSize(config.WindowWidth, config.WindowHeight))

	// Timer expiry arrives on another goroutine; fyne.Do moves it to the UI thread.
	app.Controller.OnChange(func(s controller.State) {
		fyne.Do(func() { app.render(s) })
	})
	app.render(app.Controller.State())
}

// onDateChanged forwards a picker selection to the controller.
func (app *AgeCalcApp) onDateChanged(t *time.Time) {
	if app.syncingEntry {
		return
	}
	if t == nil {
		app.Controller.SelectDate(age.CalendarDate{})
		return
	}
	app.Controller.SelectDate(age.DateOf(*t))
}

func (app *AgeCalcApp) onCalculate() {
	app.Controller.Calculate()
}

// render maps a controller snapshot onto the widgets.
func (app *AgeCalcApp) render(s controller.State) {
	if s.Err != nil {
		app.errorLabel.SetText(app.errorText(s.Err))
		app.errorLabel.Show()
	} else {
		app.errorLabel.SetText("")
		app.errorLabel.Hide()
	}

	// A rejected date is removed from the picker as well.
	if s.Input.IsZero() && app.dateEntry.Date != nil {
		app.syncingEntry = true
		app.dateEntry.SetDate(nil)
		app.syncingEntry = false
	}

	if s.Result != nil {
		app.setTile(app.yearsText, s.Result.Years)
		app.setTile(app.monthsText, s.Result.Months)
		app.setTile(app.daysText, s.Result.Days)
		app.messageLabel.SetText(s.Result.Message)
		app.resultBox.Show()
	} else {
		app.resultBox.Hide()
	}

	app.setCelebrating(s.Celebrating)
}

func (app *AgeCalcApp) setCelebrating(on bool) {
	if on == app.banner.Visible() {
		return
	}
	if on {
		app.banner.Show()
		app.bannerAnim.Start()
		return
	}
	app.bannerAnim.Stop()
	app.banner.TextSize = config.TileTextSize
	app.banner.Hide()
}

func (app *AgeCalcApp) setTile(t *canvas.Text, v int) {
	t.Text = strconv.Itoa(v)
	t.Refresh()
}

func (app *AgeCalcApp) newTile(value *canvas.Text, labelKey string) fyne.CanvasObject {
	label := widget.NewLabel(app.GetMsg(labelKey))
	label.Alignment = fyne.TextAlignCenter
	return widget.NewCard("", "", container.NewVBox(value, label))
}

func newTileValue() *canvas.Text {
	t := canvas.NewText("0", theme.Color(theme.ColorNameForeground))
	t.TextSize = config.TileTextSize
	t.TextStyle = fyne.TextStyle{Bold: true}
	t.Alignment = fyne.TextAlignCenter
	return t
}
