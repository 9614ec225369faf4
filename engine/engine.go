// Package engine bundles the four query engines behind a validated config and a logger.
//
// The query packages are pure and never log; Engine logs dispatch failures at Warn and a summary of
// every query at Debug.
package engine

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/collide/config"
	"go.viam.com/collide/contact"
	"go.viam.com/collide/logging"
	"go.viam.com/collide/pointquery"
	"go.viam.com/collide/raycast"
	"go.viam.com/collide/shape"
	"go.viam.com/collide/spatialmath"
	"go.viam.com/collide/toi"
)

// Engine answers point, ray, contact and time of impact queries on world space inputs.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	conf   *config.Config
	logger logging.Logger

	points   *pointquery.Dispatcher
	rays     *raycast.Dispatcher
	contacts *contact.Dispatcher
	impacts  *toi.Dispatcher
}

// New returns an engine running with conf, or config.Default() if conf is nil. A nil logger falls
// back to a sublogger of the global logger named by the config.
func New(conf *config.Config, logger logging.Logger) (*Engine, error) {
	if conf == nil {
		conf = config.Default()
	}
	if err := conf.Validate("engine"); err != nil {
		return nil, errors.Wrap(err, "invalid engine config")
	}
	if logger == nil {
		logger = logging.Global().Sublogger(conf.Log.Name)
		level, err := conf.LogLevel()
		if err != nil {
			return nil, err
		}
		logger.SetLevel(level)
	}
	opts := conf.GJKOptions()
	return &Engine{
		conf:     conf,
		logger:   logger,
		points:   pointquery.NewDispatcher(opts),
		rays:     raycast.NewDispatcher(opts),
		contacts: contact.NewDispatcher(opts),
		impacts:  toi.NewDispatcher(opts),
	}, nil
}

// Config returns the config the engine runs with.
func (e *Engine) Config() *config.Config {
	return e.conf
}

func (e *Engine) logFailure(query string, err error, shapes ...shape.Shape) {
	kinds := kindNames(shapes...)
	if errors.Is(err, shape.ErrNoAlgorithm) {
		e.logger.Warnw("no algorithm for shapes", "query", query, "kinds", kinds, "error", err)
		return
	}
	e.logger.Errorw("query failed", "query", query, "kinds", kinds, "error", err)
}

func kindNames(shapes ...shape.Shape) []string {
	names := make([]string, 0, len(shapes))
	for _, s := range shapes {
		if s == nil {
			names = append(names, "nil")
			continue
		}
		names = append(names, s.Kind().String())
	}
	return names
}

// ProjectPoint projects a world point onto the shape placed by pose.
func (e *Engine) ProjectPoint(pose spatialmath.Pose, s shape.Shape, pt r3.Vector, solid bool) (pointquery.PointProjection, error) {
	proj, err := e.points.ProjectPointWithPose(pose, s, pt, solid)
	if err != nil {
		e.logFailure("project point", err, s)
		return pointquery.PointProjection{}, err
	}
	e.logger.Debugw("project point", "kind", s.Kind().String(), "inside", proj.IsInside)
	return proj, nil
}

// DistanceToPoint returns the distance from a world point to the shape placed by pose.
func (e *Engine) DistanceToPoint(pose spatialmath.Pose, s shape.Shape, pt r3.Vector) (float64, error) {
	dist, err := e.points.DistanceToPointWithPose(pose, s, pt)
	if err != nil {
		e.logFailure("distance to point", err, s)
		return 0, err
	}
	e.logger.Debugw("distance to point", "kind", s.Kind().String(), "distance", dist)
	return dist, nil
}

// ContainsPoint reports whether a world point is inside the shape placed by pose.
func (e *Engine) ContainsPoint(pose spatialmath.Pose, s shape.Shape, pt r3.Vector) (bool, error) {
	inside, err := e.points.ContainsPointWithPose(pose, s, pt)
	if err != nil {
		e.logFailure("contains point", err, s)
		return false, err
	}
	e.logger.Debugw("contains point", "kind", s.Kind().String(), "inside", inside)
	return inside, nil
}

// CastRay casts a world ray against the shape placed by pose and returns the hit with its normal
// and uv, if any.
func (e *Engine) CastRay(
	pose spatialmath.Pose, s shape.Shape, ray spatialmath.Ray, maxToi float64, solid bool,
) (raycast.RayIntersection, bool, error) {
	hit, ok, err := e.rays.TOIAndNormalAndUVWithRayWithPose(pose, s, ray, maxToi, solid)
	if err != nil {
		e.logFailure("ray cast", err, s)
		return raycast.RayIntersection{}, false, err
	}
	e.logger.Debugw("ray cast", "kind", s.Kind().String(), "hit", ok, "toi", hit.TOI)
	return hit, ok, nil
}

// Contact computes the contact between two posed shapes within margin.
func (e *Engine) Contact(
	pose1 spatialmath.Pose, s1 shape.Shape,
	pose2 spatialmath.Pose, s2 shape.Shape,
	margin float64,
) (*contact.Contact, error) {
	c, err := e.contacts.AnyAgainstAny(pose1, s1, pose2, s2, margin)
	if err != nil {
		e.logFailure("contact", err, s1, s2)
		return nil, err
	}
	if c == nil {
		e.logger.Debugw("contact", "kinds", kindNames(s1, s2), "found", false)
	} else {
		e.logger.Debugw("contact", "kinds", kindNames(s1, s2), "found", true, "depth", c.Depth)
	}
	return c, nil
}

// TimeOfImpact returns the first time in [0, maxToi] the two moving shapes touch.
func (e *Engine) TimeOfImpact(
	pose1 spatialmath.Pose, vel1 r3.Vector, s1 shape.Shape,
	pose2 spatialmath.Pose, vel2 r3.Vector, s2 shape.Shape,
	maxToi float64,
) (float64, bool, error) {
	t, ok, err := e.impacts.AnyAgainstAnyWithHorizon(pose1, vel1, s1, pose2, vel2, s2, maxToi)
	if err != nil {
		e.logFailure("time of impact", err, s1, s2)
		return 0, false, err
	}
	e.logger.Debugw("time of impact", "kinds", kindNames(s1, s2), "hit", ok, "toi", t)
	return t, ok, nil
}
