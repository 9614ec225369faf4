package config

import (
	"testing"

	"go.uber.org/multierr"
	"go.viam.com/test"

	"go.viam.com/collide/gjk"
	"go.viam.com/collide/logging"
)

func TestDefault(t *testing.T) {
	conf := Default()
	test.That(t, conf.Validate("engine"), test.ShouldBeNil)
	test.That(t, conf.GJKOptions(), test.ShouldResemble, gjk.DefaultOptions())
	level, err := conf.LogLevel()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, logging.INFO)
}

func TestFromJSON(t *testing.T) {
	conf, err := FromJSON([]byte(`{"gjk": {"max_iterations": 12}, "toi": {"tolerance": 0.001}, "log": {"level": "debug"}}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.GJK.MaxIterations, test.ShouldEqual, 12)
	test.That(t, conf.GJK.Epsilon, test.ShouldEqual, Default().GJK.Epsilon)
	test.That(t, conf.TOI.Tolerance, test.ShouldEqual, 0.001)
	test.That(t, conf.Validate("engine"), test.ShouldBeNil)

	level, err := conf.LogLevel()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, level, test.ShouldEqual, logging.DEBUG)

	opts := conf.GJKOptions()
	test.That(t, opts.MaxIterations, test.ShouldEqual, 12)
	test.That(t, opts.TOITolerance, test.ShouldEqual, 0.001)

	_, err = FromJSON([]byte(`{"gjk": `))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot parse config")
}

func TestFromMap(t *testing.T) {
	conf, err := FromMap(map[string]interface{}{
		"epa": map[string]interface{}{"max_iterations": "32", "tolerance": 1e-6},
		"log": map[string]interface{}{"name": "physics"},
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.EPA.MaxIterations, test.ShouldEqual, 32)
	test.That(t, conf.EPA.Tolerance, test.ShouldEqual, 1e-6)
	test.That(t, conf.Log.Name, test.ShouldEqual, "physics")
	test.That(t, conf.Log.Level, test.ShouldEqual, "info")

	_, err = FromMap(map[string]interface{}{"bvh": true})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidate(t *testing.T) {
	conf := Default()
	conf.GJK.MaxIterations = 0
	conf.EPA.Tolerance = -1
	conf.Log.Level = "chatty"

	err := conf.Validate("engine")
	test.That(t, err, test.ShouldNotBeNil)
	errs := multierr.Errors(err)
	test.That(t, errs, test.ShouldHaveLength, 3)
	test.That(t, errs[0].Error(), test.ShouldContainSubstring, "engine.gjk")
	test.That(t, errs[0].Error(), test.ShouldContainSubstring, "max_iterations")
	test.That(t, errs[1].Error(), test.ShouldContainSubstring, "engine.epa")
	test.That(t, errs[2].Error(), test.ShouldContainSubstring, "engine.log")

	_, err = conf.LogLevel()
	test.That(t, err, test.ShouldNotBeNil)
}
