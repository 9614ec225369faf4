package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
	"go.viam.com/test"
)

func TestLevels(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want Level
	}{
		{"debug", DEBUG},
		{"Info", INFO},
		{"WARN", WARN},
		{"error", ERROR},
	} {
		level, err := LevelFromString(tc.in)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, level, test.ShouldEqual, tc.want)
	}

	_, err := LevelFromString("loud")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = LevelFromString("fatal")
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, WARN.AsZap(), test.ShouldEqual, zapcore.WarnLevel)
	test.That(t, INFO.String(), test.ShouldEqual, "Info")

	data, err := ERROR.MarshalJSON()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual, `"error"`)
	var parsed Level
	test.That(t, parsed.UnmarshalJSON([]byte(`"warn"`)), test.ShouldBeNil)
	test.That(t, parsed, test.ShouldEqual, WARN)
}

func TestObservedLogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	logger.Debugw("probe", "kind", "ball")
	logger.Infof("distance %.1f", 2.5)
	test.That(t, logs.Len(), test.ShouldEqual, 2)
	test.That(t, logs.FilterMessage("probe").Len(), test.ShouldEqual, 1)
	test.That(t, logs.All()[1].Message, test.ShouldEqual, "distance 2.5")

	logger.SetLevel(WARN)
	test.That(t, logger.GetLevel(), test.ShouldEqual, WARN)
	logger.Infow("dropped")
	logger.Warnw("kept")
	test.That(t, logs.FilterMessage("dropped").Len(), test.ShouldEqual, 0)
	test.That(t, logs.FilterMessage("kept").Len(), test.ShouldEqual, 1)
}

func TestSublogger(t *testing.T) {
	logger, logs := NewObservedTestLogger(t)
	sub := logger.Sublogger("contact")
	sub.Warnf("no algorithm")
	entries := logs.FilterMessage("no algorithm").All()
	test.That(t, entries, test.ShouldHaveLength, 1)
	test.That(t, entries[0].LoggerName, test.ShouldEqual, "contact")

	named := NewBlankLogger("engine").Sublogger("toi")
	test.That(t, named.Desugar().Name(), test.ShouldEqual, "engine.toi")

	logger.SetLevel(ERROR)
	test.That(t, sub.GetLevel(), test.ShouldEqual, DEBUG)
}

func TestGlobal(t *testing.T) {
	prev := Global()
	defer ReplaceGlobal(prev)

	logger := NewBlankLogger("replaced")
	ReplaceGlobal(logger)
	test.That(t, Global(), test.ShouldEqual, logger)
}
