package doctor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status   CheckStatus
		expected string
	}{
		{StatusPass, "pass"},
		{StatusWarn, "warn"},
		{StatusFail, "fail"},
		{CheckStatus(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

// mockCheck is a test implementation of Check.
type mockCheck struct {
	name     string
	category string
	result   CheckResult
}

func (m *mockCheck) Name() string                      { return m.name }
func (m *mockCheck) Category() string                  { return m.category }
func (m *mockCheck) Run(_ context.Context) CheckResult { return m.result }

func mixedChecks() []Check {
	return []Check{
		&mockCheck{name: "a", category: CategoryConfig, result: CheckResult{Name: "a", Status: StatusPass}},
		&mockCheck{name: "b", category: CategoryLocal, result: CheckResult{Name: "b", Status: StatusWarn}},
		&mockCheck{name: "c", category: CategoryLocal, result: CheckResult{Name: "c", Status: StatusFail}},
	}
}

func TestRunAll(t *testing.T) {
	results := RunAll(context.Background(), mixedChecks())

	assert.Len(t, results, 3)
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusFail, results[2].Status)
}

func TestRunAllParallel_KeepsOrder(t *testing.T) {
	results := RunAllParallel(context.Background(), mixedChecks())

	assert.Equal(t, []string{"a", "b", "c"}, []string{results[0].Name, results[1].Name, results[2].Name})
}

func TestGroupByCategory(t *testing.T) {
	grouped := GroupByCategory(mixedChecks())

	assert.Equal(t, []int{0}, grouped[CategoryConfig])
	assert.Equal(t, []int{1, 2}, grouped[CategoryLocal])
	assert.Empty(t, grouped[CategoryRemote])
}

func TestCounts(t *testing.T) {
	results := RunAll(context.Background(), mixedChecks())

	counts := CountByStatus(results)
	assert.Equal(t, 1, counts[StatusPass])
	assert.Equal(t, 1, counts[StatusWarn])
	assert.Equal(t, 1, counts[StatusFail])
	assert.True(t, HasFailures(results))
	assert.True(t, HasIssues(results))
	assert.Equal(t, "2 issues found", Summary(results))
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Everything looks good", Summary([]CheckResult{{Status: StatusPass}}))
	assert.Equal(t, "1 issue found", Summary([]CheckResult{{Status: StatusWarn}}))
	assert.False(t, HasFailures([]CheckResult{{Status: StatusWarn}}))
	assert.Equal(t, "Everything looks good", Summary(nil))
}
