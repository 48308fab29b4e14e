package runtime

import (
	"fmt"
	"log/slog"
	"reflect"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	interrors "github.com/filament-ui/filament/internal/errors"
	"github.com/filament-ui/filament/pkg/backend"
	"github.com/filament-ui/filament/pkg/reactive"
	"github.com/filament-ui/filament/pkg/ui"
)

// Runtime is one instance of the reactive rendering engine: a backend,
// a binding registry, and optionally a scheduler, metrics, and a
// tracer. Instances are independent; multiple runtimes (and multiple
// roots per runtime) coexist and tear down separately. Nothing here is
// process-wide.
type Runtime struct {
	backend  backend.Backend
	bindings *Bindings
	sched    *Scheduler
	metrics  *Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithScheduler routes value mutations (text and attribute writes)
// through s, coalescing rapid reactive writes into one flush per tick.
// Structural operations (insert, move, remove) always apply
// immediately: reconciliation reads sibling positions back from the
// backend and must see its own writes.
func WithScheduler(s *Scheduler) Option {
	return func(r *Runtime) {
		r.sched = s
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// WithLogger sets the structured logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithTracing enables render/flush spans via the global tracer
// provider.
func WithTracing() Option {
	return func(r *Runtime) {
		r.tracer = otel.Tracer("filament")
	}
}

// New creates a runtime over the given output backend.
func New(b backend.Backend, opts ...Option) *Runtime {
	r := &Runtime{
		backend: b,
		logger:  slog.Default().With("component", "runtime"),
	}
	r.bindings = NewBindings(b)

	for _, opt := range opts {
		opt(r)
	}

	if r.sched != nil && r.metrics != nil {
		r.sched.OnFlush(r.metrics.countFlush)
	}

	return r
}

// Backend returns the output backend this runtime renders through.
func (r *Runtime) Backend() backend.Backend {
	return r.backend
}

// Bindings returns the runtime's binding registry.
func (r *Runtime) Bindings() *Bindings {
	return r.bindings
}

// insert places node into parent before ref; nil ref appends.
func (r *Runtime) insert(parent, node, ref backend.Node) {
	if parent == nil || node == nil {
		return
	}
	if ref != nil {
		r.backend.InsertBefore(parent, node, ref)
	} else {
		r.backend.AppendChild(parent, node)
	}
	r.metrics.countOp("insert")
}

// removeNode detaches node from parent, tolerating a node the backend
// has already released. Teardown ordering can race with a
// backend-initiated removal; that is contained and logged, not fatal.
func (r *Runtime) removeNode(parent, node backend.Node) {
	if parent == nil || node == nil {
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("remove on detached output node",
				"code", interrors.DetachedNode().Code,
				"cause", fmt.Sprint(rec))
		}
	}()

	r.backend.RemoveChild(parent, node)
	r.metrics.countOp("remove")
}

// applyValue applies a value mutation (text or attribute write), routed
// through the scheduler when one is attached.
func (r *Runtime) applyValue(fn func()) {
	if r.sched != nil {
		r.sched.Schedule(fn)
		return
	}
	fn()
}

// isReactiveValue reports whether a prop or child value needs its own
// effect: a reactive source or a zero-argument expression.
func isReactiveValue(v any) bool {
	return reactive.IsSource(v)
}

// evalValue evaluates v under the current tracking listener until a
// plain value remains: sources are read, thunks are called.
func evalValue(v any) any {
	for {
		switch val := v.(type) {
		case reactive.Source:
			v = val.Value()
		case func() any:
			v = val()
		default:
			return v
		}
	}
}

// toDesc coerces a dynamic child value into a description.
// Unknown shapes render nothing.
func toDesc(v any) *ui.Node {
	switch val := v.(type) {
	case nil:
		return nil
	case *ui.Node:
		return val
	case string:
		return ui.Text(val)
	case int:
		return ui.Textf("%d", val)
	case int64:
		return ui.Textf("%d", val)
	case float64:
		return ui.Textf("%v", val)
	case bool:
		return nil
	default:
		return nil
	}
}

// isPrimitive reports whether a dynamic value renders as bare text.
func isPrimitive(v any) bool {
	switch v.(type) {
	case string, int, int64, float64:
		return true
	}
	return false
}

// primitiveText stringifies a primitive dynamic value.
func primitiveText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// toDescSlice coerces a dynamic array value into descriptions.
// Returns ok=false when v is not array-shaped.
func toDescSlice(v any) ([]*ui.Node, bool) {
	switch val := v.(type) {
	case []*ui.Node:
		return val, true
	case []any:
		out := make([]*ui.Node, 0, len(val))
		for _, item := range val {
			if d := toDesc(evalValue(item)); d != nil {
				out = append(out, d)
			}
		}
		return out, true
	}
	return nil, false
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}

// propsEqual compares two prop values. Fast paths for common types,
// reflect.DeepEqual for the rest.
func propsEqual(a, b any) bool {
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}
	return reflect.DeepEqual(a, b)
}
