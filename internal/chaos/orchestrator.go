package chaos

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/giantswarm/mcp-chaos/internal/k8s"
	"github.com/giantswarm/mcp-chaos/internal/logging"
)

// Orchestrator drives one kill run: select candidates, then per pod verify
// the target container and execute the kill command, recording one entry per
// success. Execution is strictly sequential in selection order; the first
// unrecoverable condition aborts the run.
type Orchestrator struct {
	gateway  Gateway
	selector *Selector
	verifier *Verifier
	logger   *slog.Logger
	shell    string
	dryRun   bool
	now      func() time.Time
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithLogger sets the structured logger for the run.
func WithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithShell overrides the shell used to wrap the kill command.
func WithShell(shell string) OrchestratorOption {
	return func(o *Orchestrator) {
		if shell != "" {
			o.shell = shell
		}
	}
}

// WithDryRun makes the run select and verify targets without executing the
// kill command. Records are produced and marked as dry-run.
func WithDryRun(enabled bool) OrchestratorOption {
	return func(o *Orchestrator) {
		o.dryRun = enabled
	}
}

// withClock overrides the token clock in tests.
func withClock(now func() time.Time) OrchestratorOption {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates an Orchestrator over the given gateway session.
// The session's lifecycle belongs to the caller; the orchestrator only uses
// it for the duration of Run.
func NewOrchestrator(gateway Gateway, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		gateway:  gateway,
		selector: NewSelector(gateway),
		verifier: NewVerifier(gateway),
		logger:   slog.Default(),
		shell:    k8s.DefaultShell,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one kill run and always returns a tagged Outcome; no failure,
// expected or not, escapes as an error or panic.
func (o *Orchestrator) Run(ctx context.Context, spec TargetSpec) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("kill run panicked", slog.Any("panic", r))
			outcome = &Failure{Message: fmt.Sprintf("unexpected failure: %v", r)}
		}
	}()

	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return &Failure{Message: err.Error()}
	}

	log := o.logger.With(
		logging.Namespace(spec.Namespace),
		logging.Container(spec.ContainerName),
	)

	candidates, err := o.selector.Select(ctx, &spec)
	if err != nil {
		log.Error("pod selection failed", logging.SanitizedErr(err))
		return &Failure{Message: err.Error()}
	}

	// Precondition: the discovered population must cover the requested kill
	// count before any destructive action is taken.
	if len(candidates) < spec.Kill {
		insufficientErr := &InsufficientPodsError{Expected: spec.Kill, Found: len(candidates)}
		log.Warn("insufficient candidate pods",
			slog.Int("expected", spec.Kill),
			slog.Int("found", len(candidates)))
		return &Failure{Message: insufficientErr.Error()}
	}

	records := make(map[int64]KillRecord, spec.Kill)
	var lastToken int64

	for i := 0; i < spec.Kill; i++ {
		pod := candidates[i]

		// An empty container name targets the pod's default container, which
		// every pod has, so there is nothing to verify.
		if spec.ContainerName != "" {
			containers, err := o.verifier.ContainersOf(ctx, pod)
			if err != nil {
				log.Error("container verification failed", logging.Pod(pod.Name), logging.SanitizedErr(err))
				return &Failure{Message: err.Error(), Killed: len(records)}
			}

			if !hasContainer(containers, spec.ContainerName) {
				notFound := &ContainerNotFoundError{
					Container: spec.ContainerName,
					Pod:       pod,
					Declared:  containers,
					Killed:    len(records),
				}
				log.Warn("target container not declared by pod",
					logging.Pod(pod.Name),
					slog.Any("declared", containers))
				return &Failure{Message: notFound.Error(), Killed: len(records)}
			}
		}

		if !o.dryRun {
			command := k8s.ShellCommand(o.shell, spec.Command)
			if _, err := o.gateway.Exec(ctx, pod.Namespace, pod.Name, spec.ContainerName, command, k8s.ExecOptions{}); err != nil {
				log.Error("kill command failed", logging.Pod(pod.Name), logging.SanitizedErr(err))
				return &Failure{Message: err.Error(), Killed: len(records)}
			}
		}

		token := o.nextToken(&lastToken)
		records[token] = KillRecord{
			Namespace: pod.Namespace,
			Name:      pod.Name,
			Container: spec.ContainerName,
		}
		log.Info("killed container", logging.Pod(pod.Name), slog.Int64("token", token), slog.Bool("dry_run", o.dryRun))
	}

	return &Success{Records: records, DryRun: o.dryRun}
}

// nextToken returns a strictly-increasing nanosecond token. Tokens generated
// within the same clock tick are bumped past the previous one, so records in
// a token-keyed map never collide within a run.
func (o *Orchestrator) nextToken(last *int64) int64 {
	token := o.now().UnixNano()
	if token <= *last {
		token = *last + 1
	}
	*last = token
	return token
}
