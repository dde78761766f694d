package suite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/microsoft/caserun/internal/collector"
	"github.com/microsoft/caserun/internal/testmgr"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fatalExit struct{}

type Calc struct {
	*testmgr.Case
}

func newCalcEntry(t *testing.T) *collector.Entry {
	entry, err := collector.MakeEntry(func(c *testmgr.Case) *Calc { return &Calc{c} },
		collector.NonThrowing("testAdd", func(*Calc) {}),
		collector.Throwing("testDivByZero", func(*Calc) error { return errors.New("division by zero") }),
	)
	require.NoError(t, err)
	return entry
}

func newTestSuite() (*CaseSuite, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.ExitFunc = func(int) {
		panic(fatalExit{})
	}
	s := NewSuite("caserun-test", logger)
	return &s, hook
}

func TestAddEntry(t *testing.T) {
	s, _ := newTestSuite()
	s.AddEntry(newCalcEntry(t))

	assert.Equal(t, "caserun-test", s.Name())
	assert.Equal(t, []string{"Calc.testAdd", "Calc.testDivByZero"}, s.TestNames())
	require.Len(t, s.Entries(), 1)
	assert.NotNil(t, s.Context())
	assert.False(t, s.AzureDevops())

	assert.PanicsWithValue(t, fatalExit{}, func() { s.AddEntry(newCalcEntry(t)) })
	assert.PanicsWithValue(t, fatalExit{}, func() { s.AddEntry(nil) })
	assert.Len(t, s.Entries(), 1)
}

func TestExecute(t *testing.T) {
	t.Setenv("TF_BUILD", "false")

	t.Run("passing selection", func(t *testing.T) {
		s, _ := newTestSuite()
		s.AddEntry(newCalcEntry(t))

		assert.NoError(t, s.Execute([]string{"run", "-f", "Calc.testAdd"}))
	})

	t.Run("failing case", func(t *testing.T) {
		s, _ := newTestSuite()
		s.AddEntry(newCalcEntry(t))

		assert.EqualError(t, s.Execute([]string{"run", "--no-logs"}), "test suite finished with 1 failed test cases")
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "caserun.yaml")
		require.NoError(t, os.WriteFile(path, []byte("verbosity: debug\nazureDevops: true\nfilter: [Calc.testAdd]\n"), 0o644))

		s, _ := newTestSuite()
		s.AddEntry(newCalcEntry(t))

		assert.NoError(t, s.Execute([]string{"-c", path, "run"}))
		assert.Equal(t, logrus.DebugLevel, s.Log.GetLevel())
		assert.True(t, s.AzureDevops())
		assert.Equal(t, []string{"Calc.testAdd"}, s.Config().Filter)
	})

	t.Run("unknown command", func(t *testing.T) {
		s, _ := newTestSuite()
		assert.Error(t, s.Execute([]string{"explode"}))
	})
}
