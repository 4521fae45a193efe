package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/burstdsl/internal/config"
	"github.com/specialistvlad/burstdsl/internal/dependency"
	"github.com/specialistvlad/burstdsl/internal/feed"
	"github.com/specialistvlad/burstdsl/internal/hcl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// stubLoader returns a fixed model.
type stubLoader struct {
	model *config.Model
	err   error
}

func (l *stubLoader) Load(context.Context, ...string) (*config.Model, error) {
	return l.model, l.err
}

func staticFeed(name string, v cty.Value) *config.Feed {
	return &config.Feed{Name: name, Kind: config.FeedStatic, Type: cty.DynamicPseudoType, Value: v}
}

func modelLoader(feeds []*config.Feed, formulas ...*config.Formula) *stubLoader {
	return &stubLoader{model: &config.Model{Feeds: feeds, Formulas: formulas}}
}

func TestApp_Evaluate_GatingRounds(t *testing.T) {
	t.Parallel()

	// Arrange
	loader := modelLoader(
		[]*config.Feed{
			staticFeed("price", cty.NumberIntVal(100)),
			staticFeed("volume", cty.NilVal),
		},
		// net reads fee, which is declared later and computed in the first round.
		&config.Formula{Name: "net", Expression: "feed('price') - feed('fee')"},
		&config.Formula{Name: "fee", Expression: "feed('price') // 4"},
		&config.Formula{Name: "turnover", Expression: "feed('price') * feed('volume')"},
		&config.Formula{Name: "broken", Expression: "1 / 0"},
		&config.Formula{Name: "after_broken", Expression: "feed('broken') + 1"},
	)
	a, _, _ := SetupAppTest(t, &Config{FormulaPaths: []string{"unused"}}, loader)

	// Act
	report := a.Evaluate(context.Background())

	// Assert
	require.Len(t, report.Results, 5)

	net, ok := report.Result("net")
	require.True(t, ok)
	assert.Equal(t, StatusComputed, net.Status)
	assert.True(t, net.Value.Equals(cty.NumberIntVal(75)).True())

	fee, _ := report.Result("fee")
	assert.Equal(t, StatusComputed, fee.Status)

	turnover, _ := report.Result("turnover")
	assert.Equal(t, StatusPending, turnover.Status)
	assert.Equal(t, []dependency.Dependency{feed.Dependency("volume")}, turnover.Missing)

	broken, _ := report.Result("broken")
	assert.Equal(t, StatusFailed, broken.Status)
	assert.Error(t, broken.Err)

	afterBroken, _ := report.Result("after_broken")
	assert.Equal(t, StatusPending, afterBroken.Status, "a failed formula does not fill its dependents")

	got, ok := a.Hub().Latest("fee")
	require.True(t, ok, "results are published as feeds")
	assert.True(t, got.Equals(cty.NumberIntVal(25)).True())

	assert.Same(t, report, a.LastReport())
}

func TestApp_Evaluate_PendingUntilPublished(t *testing.T) {
	t.Parallel()

	// Arrange
	loader := modelLoader(
		[]*config.Feed{staticFeed("volume", cty.NilVal)},
		&config.Formula{Name: "double", Expression: "feed('volume') * 2"},
	)
	a, _, _ := SetupAppTest(t, &Config{FormulaPaths: []string{"unused"}}, loader)
	ctx := context.Background()

	// Act & Assert
	first := a.Evaluate(ctx)
	assert.Equal(t, 1, first.Count(StatusPending))

	require.NoError(t, a.Hub().Publish("volume", cty.NumberIntVal(21)))
	second := a.Evaluate(ctx)
	res, _ := second.Result("double")
	require.Equal(t, StatusComputed, res.Status)
	assert.True(t, res.Value.Equals(cty.NumberIntVal(42)).True())
}

func TestReport_WriteTo(t *testing.T) {
	t.Parallel()

	report := &Report{Results: []Result{
		{Name: "a", Status: StatusComputed, Value: cty.TupleVal([]cty.Value{cty.NumberIntVal(1), cty.StringVal("x")})},
		{Name: "b", Status: StatusFailed, Err: fmt.Errorf("boom")},
		{Name: "c", Status: StatusPending, Missing: []dependency.Dependency{feed.Dependency("volume")}},
	}}
	var sb strings.Builder

	_, err := report.WriteTo(&sb)

	require.NoError(t, err)
	assert.Equal(t, "a = [1, \"x\"]\n# b failed: boom\n# c pending: waiting for {feed=volume}\n", sb.String())
}

func TestApp_Run_Expression(t *testing.T) {
	t.Parallel()

	t.Run("prints the result", func(t *testing.T) {
		t.Parallel()
		a, out, _ := SetupAppTest(t, &Config{Expression: "max(2, 3) + 2"}, nil)

		err := a.Run(context.Background())

		require.NoError(t, err)
		assert.Equal(t, "result = 5\n", out.String())
	})

	t.Run("fails when the formula fails", func(t *testing.T) {
		t.Parallel()
		a, out, _ := SetupAppTest(t, &Config{Expression: "1 / 0"}, nil)

		err := a.Run(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 1 formulas failed")
		assert.Contains(t, out.String(), "# result failed:")
	})
}

func TestApp_Run_Watch(t *testing.T) {
	t.Parallel()

	// Arrange
	a, out, _ := SetupAppTest(t, &Config{Expression: "40 + 2", Interval: 10 * time.Millisecond}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	// Act
	err := a.Run(ctx)

	// Assert
	require.NoError(t, err)
	assert.GreaterOrEqual(t, strings.Count(out.String(), "result = 42\n"), 2)
}

func TestApp_Run_Docs(t *testing.T) {
	t.Parallel()

	a, out, _ := SetupAppTest(t, &Config{Docs: true, DocsFormat: "hcl"}, nil)

	err := a.Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, out.String(), `operator "time_frame_to_seconds" {`)
	assert.Contains(t, out.String(), `operator "feed" {`)
}

func TestNewApp_Panics(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     *Config
		loader  config.Loader
		wantErr string
	}{
		{
			name:    "load failure",
			cfg:     &Config{FormulaPaths: []string{"x"}},
			loader:  &stubLoader{err: fmt.Errorf("failed to parse")},
			wantErr: "failed to load configuration: failed to parse",
		},
		{
			name:    "expression shadows a feed",
			cfg:     &Config{FormulaPaths: []string{"x"}, Expression: "1"},
			loader:  modelLoader([]*config.Feed{staticFeed(ExpressionFormula, cty.True)}),
			wantErr: `formula "result" conflicts with feed of the same name`,
		},
		{
			name:    "unknown library",
			cfg:     &Config{Expression: "1", Libraries: []string{"nope"}},
			wantErr: `formula "result": unknown library "nope"`,
		},
		{
			name:    "unknown operator",
			cfg:     &Config{Expression: "feed('x')", Libraries: []string{"base"}},
			wantErr: `formula "result": failed to compile expression`,
		},
		{
			name: "bad feed",
			cfg:  &Config{FormulaPaths: []string{"x"}},
			loader: modelLoader([]*config.Feed{{
				Name: "ticker", Kind: config.FeedHTTP, HTTP: &config.HTTPFeed{},
			}}),
			wantErr: `failed to set up feeds: feed "ticker": url is required`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			defer func() {
				r := recover()
				require.NotNil(t, r, "NewApp should panic")
				err, ok := r.(error)
				require.True(t, ok)
				assert.Contains(t, err.Error(), tc.wantErr)
			}()
			NewApp(&SafeBuffer{}, &SafeBuffer{}, tc.cfg, tc.loader)
		})
	}
}

func TestApp_ResultsHandler(t *testing.T) {
	t.Parallel()

	// Arrange
	a, _, _ := SetupAppTest(t, &Config{Expression: "[1, 'a']"}, nil)
	handler := a.routes()

	// Act & Assert
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	a.Evaluate(context.Background())
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/results", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "computed", body["result"]["status"])
	assert.Equal(t, []any{float64(1), "a"}, body["result"]["value"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}

func TestApp_HCLWithHTTPFeed(t *testing.T) {
	t.Parallel()

	// Arrange
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data": [{"price": 250}]}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	src := fmt.Sprintf(`
feed "ticker" {
  type = number
  path = "data.0.price"
  http {
    url = %q
  }
}

formula "double" {
  expression = "feed('ticker') * 2"
}

formula "spread" {
  expression = "feed('ticker') - feed('ticker') + 1"
}

formula "hours" {
  expression = "time_frame_to_seconds('4h') / 3600"
  libraries  = ["base"]
}
`, server.URL)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte(src), 0o644))

	a, out, _ := SetupAppTest(t, &Config{FormulaPaths: []string{dir}}, hcl.NewLoader())

	// Act
	err := a.Run(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "double = 500\nspread = 1\nhours = 4\n", out.String())
	assert.Equal(t, int32(1), hits.Load(), "one request per evaluation")
}
