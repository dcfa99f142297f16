package config_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mechiko/lp2pdf/internal/config"
	"github.com/mechiko/lp2pdf/internal/errs"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := config.Defaults()
	require.NoError(t, cfg.Validate())
}

func TestResolvedTOFFallsBackToTopMarginLines(t *testing.T) {
	cfg := config.Defaults()
	cfg.TOF = 0
	cfg.Top = 1.0
	cfg.LPI = 6
	require.Equal(t, 6, cfg.ResolvedTOF())
}

func TestResolvedTOFHonorsExplicitValue(t *testing.T) {
	cfg := config.Defaults()
	cfg.TOF = 3
	require.Equal(t, 3, cfg.ResolvedTOF())
}

func TestLPPComputesLinesPerPage(t *testing.T) {
	cfg := config.Defaults()
	cfg.Len = 11.0
	cfg.LPI = 6
	require.Equal(t, 66, cfg.LPP())
}

func TestValidateRejectsBadLPI(t *testing.T) {
	cfg := config.Defaults()
	cfg.LPI = 7
	err := cfg.Validate()
	require.Error(t, err)
	require.Equal(t, errs.Inval, errs.KindOf(err))
}

func TestValidateRejectsCPIOutOfRange(t *testing.T) {
	cfg := config.Defaults()
	cfg.CPI = 25
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNarrowMargin(t *testing.T) {
	cfg := config.Defaults()
	cfg.Margin = 0.1
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownFont(t *testing.T) {
	cfg := config.Defaults()
	cfg.Font = "Arial"
	err := cfg.Validate()
	require.Error(t, err)
	require.Equal(t, errs.UnknownFont, errs.KindOf(err))
}

func TestValidateRejectsImageFormWithoutFormFile(t *testing.T) {
	cfg := config.Defaults()
	cfg.FormType = config.FormImage
	cfg.FormFile = ""
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsInconsistentWidthForCols(t *testing.T) {
	cfg := config.Defaults()
	cfg.Cols = 400 // needs more than cfg.CPI=10 can fit in the usable width
	err := cfg.Validate()
	require.Error(t, err)
	require.Equal(t, errs.InconGeo, errs.KindOf(err))
}

func TestParseFormTypeRoundTrips(t *testing.T) {
	for _, name := range config.FormList() {
		ft, ok := config.ParseFormType(name)
		require.True(t, ok, "expected %q to parse", name)
		require.Equal(t, name, ft.String())
	}
}

func TestParseFormTypeRejectsUnknown(t *testing.T) {
	_, ok := config.ParseFormType("rainbow")
	require.False(t, ok)
}

func TestValidateErrorUnwrapsToErrsError(t *testing.T) {
	cfg := config.Defaults()
	cfg.LPI = 7
	var target *errs.Error
	require.True(t, errors.As(cfg.Validate(), &target))
}
