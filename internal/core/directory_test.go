package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLPStat = `printer DYMO_LabelWriter_450 is idle.  enabled since Mon 19 Oct 2026 09:12:01 AM
printer HP_Office disabled since Mon 19 Oct 2026 08:00:00 AM -
	reason unknown
scheduler is running
printer Zebra_GX420d now printing Zebra_GX420d-7.  enabled since Mon 19 Oct 2026
`

func newTestDirectory(runner ProcessRunner) *Directory {
	return NewDirectory(runner, NewPool(2), DirectoryConfig{}, nil)
}

func TestParsePrinters(t *testing.T) {
	printers := ParsePrinters([]byte(sampleLPStat))
	assert.Equal(t, []string{"DYMO_LabelWriter_450", "HP_Office", "Zebra_GX420d"}, printers)
}

func TestParsePrinters_IgnoresNonRecords(t *testing.T) {
	out := "printers are great\n  printer indented\nprinter\nprinter \nprinter ok is idle\r\n"
	assert.Equal(t, []string{"ok"}, ParsePrinters([]byte(out)))
}

func TestParsePrinters_Empty(t *testing.T) {
	printers := ParsePrinters(nil)
	assert.NotNil(t, printers)
	assert.Empty(t, printers)
}

func TestParsePrinters_Deterministic(t *testing.T) {
	first := ParsePrinters([]byte(sampleLPStat))
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ParsePrinters([]byte(sampleLPStat)))
	}
}

func TestListPrinters(t *testing.T) {
	runner := &fakeRunner{lpstat: lpstatOutput(sampleLPStat)}
	d := newTestDirectory(runner)

	printers, err := d.ListPrinters(context.Background())
	require.NoError(t, err)
	assert.Len(t, printers, 3)

	calls := runner.callsTo("lpstat")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"-p"}, calls[0].Args)
}

func TestListPrinters_GatewayFailure(t *testing.T) {
	runner := &fakeRunner{lpstat: &ProcessResult{ExitCode: 1, Stderr: []byte("lpstat: Bad file descriptor")}}
	d := newTestDirectory(runner)

	_, err := d.ListPrinters(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCupsError))
	assert.Equal(t, "CUPS error: lpstat: Bad file descriptor", err.Error())
}

func TestListPrinters_SpawnFailure(t *testing.T) {
	runner := &fakeRunner{lpstatErr: errors.New("executable file not found in $PATH")}
	d := newTestDirectory(runner)

	_, err := d.ListPrinters(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindSystemError, KindOf(err))
	assert.Contains(t, err.Error(), "executable file not found")
}

func TestDiscoverDefault_CaseInsensitiveRegardlessOfOrder(t *testing.T) {
	for _, out := range []string{
		"printer HP_Office is idle.\nprinter DYMO_LabelWriter is idle.\n",
		"printer DYMO_LabelWriter is idle.\nprinter HP_Office is idle.\n",
	} {
		d := newTestDirectory(&fakeRunner{lpstat: lpstatOutput(out)})
		name, err := d.DiscoverDefault(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "DYMO_LabelWriter", name)
	}
}

func TestDiscoverDefault_NoPrinters(t *testing.T) {
	d := newTestDirectory(&fakeRunner{lpstat: lpstatOutput("scheduler is running\n")})

	_, err := d.DiscoverDefault(context.Background())
	require.Error(t, err)

	var pe *PrintError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, KindPrinterNotFound, pe.Kind)
	assert.Equal(t, "No printers found", pe.Message)
}

func TestDiscoverDefault_NoMatchListsAlternatives(t *testing.T) {
	d := newTestDirectory(&fakeRunner{lpstat: lpstatOutput("printer HP_Office is idle.\nprinter Canon is idle.\n")})

	_, err := d.DiscoverDefault(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPrinterNotFound))
	assert.Equal(t, "Printer not found: No Dymo printer found. Available printers: HP_Office, Canon", err.Error())
}

func TestDiscoverDefault_ConfigurableMatch(t *testing.T) {
	runner := &fakeRunner{lpstat: lpstatOutput(sampleLPStat)}
	d := NewDirectory(runner, NewPool(1), DirectoryConfig{Match: "ZEBRA"}, nil)

	name, err := d.DiscoverDefault(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Zebra_GX420d", name)
}

func TestParsePrinters_VeryLongLineDoesNotTruncateList(t *testing.T) {
	out := "printer First is idle.\n" +
		"\tDescription: " + strings.Repeat("x", 70*1024) + "\n" +
		"printer Second is idle.\n"

	assert.Equal(t, []string{"First", "Second"}, ParsePrinters([]byte(out)))
}
