package fsm

import (
	"log/slog"
	"sort"

	"github.com/roach88/mfsm/internal/rule"
)

// Engine owns the states and rules of one automaton and drives it.
//
// Thread-safety model: none. Construction (DeclareState, Connect, SetStart)
// and driving (Rewind, Feed, Run) must be sequenced by the caller.
//
// INVARIANTS:
//   - every destination named by a transition resolves to a registered state
//     (Connect creates missing endpoints as non-final states)
//   - the first state ever created becomes start unless SetStart says otherwise
type Engine struct {
	states  map[string]*State
	rules   *rule.Registry
	start   *State
	current *State

	strict bool
	trace  bool

	logger   *slog.Logger
	tracer   Tracer
	clock    Sequencer
	maxRules int
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithStrict sets the initial strict-matching mode.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithTrace enables the human-readable transition trace on the engine logger.
func WithTrace(trace bool) Option {
	return func(e *Engine) {
		e.trace = trace
	}
}

// WithLogger sets the logger used for the diagnostic trace.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTracer registers a structured observer of steps and acceptance checks.
// The tracer is notified whether or not the trace flag is set.
func WithTracer(t Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithMaxRules caps the number of distinct rules. Connect returns false when
// a connection would need a new rule beyond the cap. Default: unlimited.
func WithMaxRules(n int) Option {
	return func(e *Engine) {
		e.maxRules = n
	}
}

// WithClock sets the logical clock stamping trace steps.
// Used by the harness to obtain reproducible traces.
func WithClock(c Sequencer) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		states: make(map[string]*State),
		logger: slog.Default(),
		clock:  NewClock(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rules = rule.NewRegistry(e.maxRules)
	return e
}

// DeclareState returns the state called name, creating it if needed.
//
// When the name is already registered the existing state is returned and
// final is ignored: the first declaration wins. A newly created state becomes
// the start state if none has been designated yet.
func (e *Engine) DeclareState(name string, final bool) *State {
	if s, ok := e.states[name]; ok {
		return s
	}
	s := newState(name, final)
	e.states[name] = s
	if e.start == nil {
		e.start = s
	}
	return s
}

// ResolveOrCreate returns the state called name, creating a non-final one if
// it does not exist.
func (e *Engine) ResolveOrCreate(name string) *State {
	return e.DeclareState(name, false)
}

// Connect adds a transition from src to dst guarded by ruleText.
//
// Both endpoints are created on demand. Rules are shared by exact text.
// Returns false only when the rule registry refuses a new rule; the endpoints
// stay registered in that case but no transition is added.
func (e *Engine) Connect(src, dst, ruleText string) bool {
	from := e.ResolveOrCreate(src)
	e.ResolveOrCreate(dst)

	r, err := e.rules.Intern(ruleText)
	if err != nil {
		e.logger.Debug("connect refused",
			"from", src,
			"to", dst,
			"rule", ruleText,
			"error", err,
		)
		return false
	}

	from.addTransition(r, dst)
	return true
}

// SetStart designates the start state. Unknown names are silently ignored.
func (e *Engine) SetStart(name string) {
	if s, ok := e.states[name]; ok {
		e.start = s
	}
}

// SetStrict toggles strict-matching mode.
func (e *Engine) SetStrict(strict bool) {
	e.strict = strict
}

// SetTrace toggles the diagnostic trace.
func (e *Engine) SetTrace(trace bool) {
	e.trace = trace
}

// Strict reports whether strict-matching mode is on.
func (e *Engine) Strict() bool {
	return e.strict
}

// Lookup returns the state called name, if registered.
func (e *Engine) Lookup(name string) (*State, bool) {
	s, ok := e.states[name]
	return s, ok
}

// StateNames returns all registered state names, sorted.
func (e *Engine) StateNames() []string {
	names := make([]string, 0, len(e.states))
	for name := range e.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RuleTexts returns the distinct rule patterns, sorted.
func (e *Engine) RuleTexts() []string {
	return e.rules.Texts()
}

// StartName returns the start state's name, or "" if there is none.
func (e *Engine) StartName() string {
	if e.start == nil {
		return ""
	}
	return e.start.name
}

// CurrentName returns the current state's name, or "" before the first drive.
func (e *Engine) CurrentName() string {
	if e.current == nil {
		return ""
	}
	return e.current.name
}
