package integration_tests

import (
	"context"
	"testing"
	"time"

	"github.com/specialistvlad/burstdsl/internal/app"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/specialistvlad/burstdsl/internal/testutil"
	"github.com/specialistvlad/burstdsl/modules/arithmetic"
	"github.com/specialistvlad/burstdsl/modules/collections"
	"github.com/specialistvlad/burstdsl/modules/comparison"
	"github.com/specialistvlad/burstdsl/modules/env_vars"
	"github.com/specialistvlad/burstdsl/modules/feeds"
	"github.com/specialistvlad/burstdsl/modules/logic"
	"github.com/specialistvlad/burstdsl/modules/mathfuncs"
	"github.com/specialistvlad/burstdsl/modules/timeframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testModules mirrors the core modules with a fixed clock and environment.
func testModules(clock *testutil.FakeClock, env map[string]string) []registry.Module {
	return []registry.Module{
		&arithmetic.Module{},
		&comparison.Module{},
		&logic.Module{},
		&collections.Module{},
		&mathfuncs.Module{},
		&timeframe.Module{Clock: clock.Now},
		&env_vars.Module{LookupEnv: func(name string) (string, bool) {
			v, ok := env[name]
			return v, ok
		}},
		&feeds.Module{},
	}
}

func TestFormulas_ChainAcrossFiles(t *testing.T) {
	t.Parallel()

	// Arrange
	files := map[string]string{
		"feeds/market.hcl": `
feed "candles" {
  type  = list(object({close = number}))
  value = [{close = 10}, {close = 12}, {close = 11}]
}
`,
		"formulas/main.hcl": `
formula "signal" {
  expression = "'buy' if feed('last_close') > feed('average') else 'hold'"
}

formula "closes" {
  expression = "[feed('candles')[0]['close'], feed('candles')[1]['close'], feed('candles')[-1]['close']]"
}

formula "average" {
  expression = "round(sum(feed('closes')) / len(feed('closes')), 2)"
}

formula "last_close" {
  expression = "feed('closes')[-1]"
}
`,
	}

	// Act
	result := testutil.RunIntegrationTest(t, testutil.Harness{Files: files})

	// Assert
	require.NoError(t, result.Err)
	testutil.AssertResult(t, result, "closes", "[10, 12, 11]")
	testutil.AssertResult(t, result, "average", "11")
	testutil.AssertResult(t, result, "last_close", "11")
	testutil.AssertResult(t, result, "signal", `"hold"`)
}

func TestFormulas_ClockAndEnvironment(t *testing.T) {
	t.Parallel()

	// Arrange
	clock := testutil.NewFakeClock(time.Unix(1_700_000_000, 0))
	files := map[string]string{
		"main.hcl": `
feed "opened_at" {
  value = 1699990000
}

formula "bars_open" {
  expression = "(now - feed('opened_at')) // time_frame_to_seconds('1h')"
}

formula "limit" {
  expression = "env('RISK_LIMIT', '0.5')"
  libraries  = ["system"]
}

formula "fallback" {
  expression = "env('MISSING', 'none')"
  libraries  = ["system"]
}
`,
	}

	// Act
	result := testutil.RunIntegrationTest(t, testutil.Harness{
		Files:   files,
		Modules: testModules(clock, map[string]string{"RISK_LIMIT": "0.02"}),
	})

	// Assert
	require.NoError(t, result.Err)
	testutil.AssertResult(t, result, "bars_open", "2")
	testutil.AssertResult(t, result, "limit", `"0.02"`)
	testutil.AssertResult(t, result, "fallback", `"none"`)
}

func TestFormulas_PendingFeeds(t *testing.T) {
	t.Parallel()

	// Arrange
	files := map[string]string{
		"main.hcl": `
feed "orderbook" {
  description = "Filled by a publisher at runtime."
}

feed "trades" {
  path = "price"
  socketio {
    url             = "http://127.0.0.1:1"
    event           = "trade"
    connect_timeout = "200ms"
  }
}

formula "mid" {
  expression = "(feed('orderbook')['bid'] + feed('orderbook')['ask']) / 2"
}

formula "last_trade" {
  expression = "feed('trades')"
}

formula "constant" {
  expression = "pi > 3"
}
`,
	}

	// Act
	result := testutil.RunIntegrationTest(t, testutil.Harness{Files: files})

	// Assert
	require.NoError(t, result.Err, "pending formulas are not failures")
	testutil.AssertPending(t, result, "mid")
	testutil.AssertPending(t, result, "last_trade")
	testutil.AssertResult(t, result, "constant", "true")
	assert.Contains(t, result.LogOutput, "Feed refresh failed.")

	report := result.App.LastReport()
	require.NotNil(t, report)
	assert.Equal(t, 2, report.Count(app.StatusPending))
}

func TestFormulas_WatchPicksUpPublishedValues(t *testing.T) {
	t.Parallel()

	// Arrange
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	files := map[string]string{
		"main.hcl": `
formula "counter" {
  expression = "len('tick')"
}

formula "doubled" {
  expression = "feed('counter') * 2"
}
`,
	}

	// Act
	result := testutil.RunIntegrationTestWithContext(ctx, t, testutil.Harness{
		Files:  files,
		Config: app.Config{Interval: 10 * time.Millisecond},
	})

	// Assert
	require.NoError(t, result.Err)
	testutil.AssertResult(t, result, "counter", "4")
	testutil.AssertResult(t, result, "doubled", "8")
}
