package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"eitsapi/internal/aggregator"
	"eitsapi/internal/eits"
	"eitsapi/internal/testutil"

	"github.com/stretchr/testify/require"
)

func edition(content map[string][]testutil.Module) testutil.Edition {
	e := testutil.Edition{}
	for _, code := range aggregator.Categories {
		e.Categories = append(e.Categories, testutil.Category{Code: code, Modules: content[code]})
	}
	return e
}

func fixturePortal(t *testing.T) *testutil.Portal {
	portal := testutil.NewPortal(t, map[int]testutil.Edition{
		2022: edition(map[string][]testutil.Module{
			"ORP": {{
				ID: "orp-1", Code: "ORP.1", Title: "ORP.1 Korraldus",
				Measures: []testutil.Measure{{Code: "ORP.1.M5", Title: "ORP.1.M5 Old title"}},
			}},
		}),
		2023: edition(map[string][]testutil.Module{
			"ORP": {{
				ID: "orp-1", Code: "ORP.1", Title: "ORP.1 Korraldus",
				Measures: []testutil.Measure{{Code: "ORP.1.M5", Title: "ORP.1.M5 New title"}},
			}},
			"IND": {{ID: "ind-1", Code: "IND.1", Title: "IND.1 Tööstus"}},
		}),
	})
	portal.Risks = []testutil.Risk{{Code: "G 0.1", Title: "Tulekahju", Description: "Tuli"}}
	return portal
}

// runCli runs the cli with a config pointing at the portal, outputs go to
// dir. extra is spliced into the config object.
func runCli(t *testing.T, portal *testutil.Portal, dir, extra string, args ...string) error {
	clearEnv(t)
	configFile := filepath.Join(dir, "eits.json5")
	require.NoError(t, os.WriteFile(configFile, []byte(fmt.Sprintf(`{
		url: %q,
		output: %q,
		risks_output: %q,
		%s
	}`, portal.URL(), filepath.Join(dir, "modules.json"), filepath.Join(dir, "risks.json"), extra)), 0644))

	rootCmd.SetArgs(append([]string{"--config", configFile, "--env-file", filepath.Join(dir, ".env")}, args...))
	return execute(context.Background())
}

func TestRunCommand(t *testing.T) {
	portal := fixturePortal(t)

	dir := t.TempDir()
	require.NoError(t, runCli(t, portal, dir, "", "run"))

	raw, err := os.ReadFile(filepath.Join(dir, "modules.json"))
	require.NoError(t, err)
	var modules []eits.Module
	require.NoError(t, json.Unmarshal(raw, &modules))
	require.Len(t, modules, 2)
	require.Equal(t, "ORP.1", modules[0].Code)
	require.Equal(t, "IND.1", modules[1].Code)
	require.Equal(t, "ORP.1.M5: New title", modules[0].Measures[0].Title)

	raw, err = os.ReadFile(filepath.Join(dir, "risks.json"))
	require.NoError(t, err)
	var risks []eits.Risk
	require.NoError(t, json.Unmarshal(raw, &risks))
	require.Equal(t, []eits.Risk{{
		Code:          "G 0.1",
		Title:         "Tulekahju",
		CombinedTitle: "G 0.1: Tulekahju",
		Description:   "Tuli",
	}}, risks)
}

func TestDiffCommand(t *testing.T) {
	portal := fixturePortal(t)

	dir := t.TempDir()
	output := filepath.Join(dir, "diff.json")
	require.NoError(t, runCli(t, portal, dir, "", "diff", "--from", "2022", "--to", "2023", "--output", output))

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	var records []eits.DiffRecord
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 2)
	require.Equal(t, eits.DIFF_ADDED, records[0].Kind)
	require.Equal(t, "IND.1", records[0].Code)
	require.Equal(t, eits.DIFF_MODIFIED, records[1].Kind)
	require.Equal(t, "ORP.1.M5: Old title", records[1].Before.Title)
}

func TestModulesCommandFailsWithoutOutput(t *testing.T) {
	portal := fixturePortal(t)
	portal.Fail["/api/2/catalog/2023/ind-1"] = http.StatusInternalServerError

	dir := t.TempDir()
	output := filepath.Join(dir, "failed.json")
	err := runCli(t, portal, dir, "", "modules", "--year", "2023", "--output", output)
	var fetchErr *eits.FetchError
	require.ErrorAs(t, err, &fetchErr)

	_, statErr := os.Stat(output)
	require.True(t, os.IsNotExist(statErr))
}

func TestFailedCommandFlushesTelemetry(t *testing.T) {
	var mutex sync.Mutex
	exported := []string{}
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mutex.Lock()
		exported = append(exported, r.URL.Path)
		mutex.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	portal := fixturePortal(t)
	portal.Fail["/api/2/materials"] = http.StatusInternalServerError

	dir := t.TempDir()
	extra := fmt.Sprintf(`telemetry: {otlp: {traces: {http_endpoint: %q}}},`, collector.URL+"/v1/traces")
	err := runCli(t, portal, dir, extra, "risks")
	var fetchErr *eits.FetchError
	require.ErrorAs(t, err, &fetchErr)

	mutex.Lock()
	defer mutex.Unlock()
	require.Contains(t, exported, "/v1/traces")
}
