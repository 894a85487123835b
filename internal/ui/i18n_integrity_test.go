package ui_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-agecalc/internal/config"
)

// TestI18nIntegrity ensures that every translation key defined in config.go
// actually exists in the locale JSON file, and that validation texts match
// the calculator's messages.
func TestI18nIntegrity(t *testing.T) {
	keysToCheck := []string{
		config.TKeyWinTitle,
		config.TKeyLblDateInput,
		config.TKeyBtnCalculate,
		config.TKeyLblYears,
		config.TKeyLblMonths,
		config.TKeyLblDays,
		config.TKeyErrEmptyInput,
		config.TKeyErrFutureDate,
		config.TKeyLblCelebration,
		config.TKeyPlaceholder,
	}

	definedKeys := make(map[string]bool)
	for _, k := range keysToCheck {
		definedKeys[k] = true
	}

	path := "locales/active.en.json"
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// Fallback for running tests from different CWD
		path = filepath.Join("..", "..", "internal", "ui", "locales", "active.en.json")
		content, err = os.ReadFile(path)
	}
	require.NoError(t, err, "Must load active.en.json")

	var jsonMap map[string]interface{}
	require.NoError(t, json.Unmarshal(content, &jsonMap), "JSON must be valid")

	for key := range definedKeys {
		_, exists := jsonMap[key]
		assert.Truef(t, exists, "Key '%s' defined in config.go is missing in active.en.json", key)
	}

	for jsonKey := range jsonMap {
		if strings.HasPrefix(jsonKey, "_") {
			continue
		}
		if !definedKeys[jsonKey] {
			t.Logf("Warning: Key '%s' exists in JSON but is not checked in the test suite (might be unused)", jsonKey)
		}
	}

	assert.Equal(t, config.MsgEmptyInput, jsonMap[config.TKeyErrEmptyInput])
	assert.Equal(t, config.MsgFutureDate, jsonMap[config.TKeyErrFutureDate])
}
