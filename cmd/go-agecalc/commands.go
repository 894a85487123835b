package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"fyne.io/fyne/v2/app"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tartampluch/go-agecalc/internal/age"
	"github.com/tartampluch/go-agecalc/internal/calendar"
	"github.com/tartampluch/go-agecalc/internal/config"
	"github.com/tartampluch/go-agecalc/internal/contact"
	"github.com/tartampluch/go-agecalc/internal/controller"
	"github.com/tartampluch/go-agecalc/internal/server"
	"github.com/tartampluch/go-agecalc/internal/ui"
)

func newGUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdGUI,
		Short: config.CmdDescGUI,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGUI(cmd.Context())
		},
	}
}

func newServeCommand() *cobra.Command {
	port := config.DefaultPort

	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.CmdDescServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return server.NewWidgetServer(port, age.RealClock{}).Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&port, config.FlagPort, port, config.FlagDescPort)

	return cmd
}

// calcOptions holds the flags of the calc command.
type calcOptions struct {
	birth string
	vcard string
	ics   bool
}

func newCalcCommand() *cobra.Command {
	var opts calcOptions

	cmd := &cobra.Command{
		Use:   config.CmdCalc,
		Short: config.CmdDescCalc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalc(cmd.OutOrStdout(), cmd.ErrOrStderr(), age.RealClock{}, opts)
		},
	}
	cmd.Flags().StringVar(&opts.birth, config.FlagBirth, "", config.FlagDescBirth)
	cmd.Flags().StringVar(&opts.vcard, config.FlagVCard, "", config.FlagDescVCard)
	cmd.Flags().BoolVar(&opts.ics, config.FlagICal, false, config.FlagDescICal)
	cmd.MarkFlagsMutuallyExclusive(config.FlagBirth, config.FlagVCard)

	return cmd
}

// runGUI initializes the Fyne application, wires dependencies, and starts the UI loop.
func runGUI(ctx context.Context) error {
	a := app.NewWithID(config.AppID)

	// Record the version for potential migration logic in future updates.
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	ctrl := controller.New(age.RealClock{}, config.CelebrationDuration, nil)
	gui := ui.NewAgeCalcApp(a, ctx, ctrl)

	// Watch for context cancellation to quit the UI gracefully.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	// Blocks until the main window closes.
	gui.Run()

	return nil
}

// runCalc computes one age and prints it. Validation failures are printed
// to errOut with their user-facing message and returned.
func runCalc(out, errOut io.Writer, clock age.Clock, opts calcOptions) error {
	var birth age.CalendarDate
	if opts.vcard != "" {
		p, err := contact.ReadFile(opts.vcard)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, config.FormatCalcContact, color.New(color.Bold).Sprint(p.Name), p.BirthDate)
		birth = p.BirthDate
	} else {
		d, err := age.ParseDate(opts.birth)
		if err != nil {
			_, _ = color.New(color.FgRed).Fprintln(errOut, config.ErrInvalidDate)
			return err
		}
		birth = d
	}

	b, err := age.Calculate(birth, age.Today(clock))
	if err != nil {
		var ve age.ValidationError
		if errors.As(err, &ve) {
			_, _ = color.New(color.FgRed).Fprintln(errOut, ve.Message())
		}
		return err
	}

	_, _ = fmt.Fprintf(out, config.FormatCalcBreakdown, b.Years, b.Months, b.Days)
	if b.IsBirthdayToday {
		_, _ = color.New(color.Bold, color.FgMagenta).Fprintln(out, b.Message)
	} else {
		_, _ = color.New(color.Bold, color.FgGreen).Fprintln(out, b.Message)
	}

	if !opts.ics {
		return nil
	}
	data, err := calendar.Build(birth, clock.Now(), config.ICalUpcomingYears)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
