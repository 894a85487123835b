package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agecalc/internal/age"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

var may15 = MockClock{CurrentTime: time.Date(2024, time.May, 15, 9, 0, 0, 0, time.UTC)}

func calc(t *testing.T, opts calcOptions) (string, string, error) {
	t.Helper()
	color.NoColor = true

	var out, errOut bytes.Buffer
	err := runCalc(&out, &errOut, may15, opts)
	return out.String(), errOut.String(), err
}

// newLogCloser closes whatever log file the root command opens.
func newLogCloser(t *testing.T) *io.Closer {
	var c io.Closer
	t.Cleanup(func() {
		if c != nil {
			_ = c.Close()
		}
	})
	return &c
}

func TestRunCalc_Breakdown(t *testing.T) {
	out, errOut, err := calc(t, calcOptions{birth: "2000-05-20"})

	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Contains(t, out, "23 years | 11 months | 25 days")
	assert.Contains(t, out, "You are 23 years, 11 months, and 25 days old.")
}

func TestRunCalc_Birthday(t *testing.T) {
	out, _, err := calc(t, calcOptions{birth: "2000-05-15"})

	require.NoError(t, err)
	assert.Contains(t, out, "24 years | 0 months | 0 days")
	assert.Contains(t, out, config.MsgBirthdayGreeting)
}

func TestRunCalc_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		birth   string
		wantErr error
		wantMsg string
	}{
		{"Empty", "", age.ErrEmptyInput, config.MsgEmptyInput},
		{"Future", "2024-05-16", age.ErrFutureDate, config.MsgFutureDate},
		{"Malformed", "15/05/2000", age.ErrInvalidDate, config.ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errOut, err := calc(t, calcOptions{birth: tt.birth})

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, out)
			assert.Equal(t, tt.wantMsg, strings.TrimSpace(errOut))
		})
	}
}

func TestRunCalc_VCardWithCalendar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "me.vcf")
	card := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:Jane Doe\r\nBDAY:19900704\r\nEND:VCARD\r\n"
	require.NoError(t, os.WriteFile(path, []byte(card), config.FilePermUserRW))

	out, _, err := calc(t, calcOptions{vcard: path, ics: true})

	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe, born 1990-07-04")
	assert.Contains(t, out, "33 years | 10 months | 11 days")
	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Equal(t, config.ICalUpcomingYears, strings.Count(out, "BEGIN:VEVENT"))
}

func TestRunCalc_MissingVCard(t *testing.T) {
	_, _, err := calc(t, calcOptions{vcard: filepath.Join(t.TempDir(), "missing.vcf")})

	assert.ErrorContains(t, err, config.ErrVCardOpen)
}

func TestRootCommand_Version(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCommand(newLogCloser(t))
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--" + config.FlagVersion})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), config.AppName+" version "+config.Version)
}

func TestRootCommand_CalcRejectsBothSources(t *testing.T) {
	cmd := newRootCommand(newLogCloser(t))
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{config.CmdCalc, "--" + config.FlagBirth, "2000-01-01", "--" + config.FlagVCard, "x.vcf"})

	assert.Error(t, cmd.Execute())
}
