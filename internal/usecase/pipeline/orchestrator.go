package pipeline

import (
	"context"
	"errors"
	"fmt"

	"toolgen/internal/application/port/input"
	"toolgen/internal/application/port/output"
	"toolgen/internal/domain/entity"
	"toolgen/internal/usecase/synth"
)

var errCancelled = errors.New("cancelled")

type AuthDetector interface {
	DetectAndHandle(ctx context.Context, session output.SessionPort, url string) *entity.AuthResult
}

type VisionAnalyzer interface {
	Analyze(ctx context.Context, shot *entity.Screenshot, page *entity.PageContext) *entity.VisionResult
}

type ElementMapper interface {
	MapElements(ctx context.Context, session output.SessionPort) (*entity.CategorizedElements, error)
}

type ToolSynthesizer interface {
	Synthesize(elements *entity.CategorizedElements, vision *entity.VisionResult, pageURL string) *entity.ToolSet
}

var _ input.PipelineRunner = (*Orchestrator)(nil)

// Orchestrator sequences the run's stages in a fixed total order and owns
// the run lifecycle. Vision and authentication failures degrade; navigation,
// mapping and synthesis failures abort the run. The browser session is
// released on every exit path.
type Orchestrator struct {
	sessions    output.SessionProvider
	auth        AuthDetector
	vision      VisionAnalyzer
	mapper      ElementMapper
	synthesizer ToolSynthesizer
	packager    output.Packager
	deployer    output.Deployer
	logger      output.LoggerPort
}

func New(
	sessions output.SessionProvider,
	auth AuthDetector,
	vision VisionAnalyzer,
	mapper ElementMapper,
	synthesizer ToolSynthesizer,
	packager output.Packager,
	deployer output.Deployer,
	logger output.LoggerPort,
) *Orchestrator {
	return &Orchestrator{
		sessions:    sessions,
		auth:        auth,
		vision:      vision,
		mapper:      mapper,
		synthesizer: synthesizer,
		packager:    packager,
		deployer:    deployer,
		logger:      logger,
	}
}

func (o *Orchestrator) Run(ctx context.Context, url, site string, opts entity.RunOptions) *entity.RunResult {
	if site == "" {
		site = synth.SiteLabel(url)
	}
	run := entity.NewPipelineRun(url, site, opts)
	log := o.logger.WithField("run", run.ID)
	log.Info("pipeline run started", "url", url, "site", site)

	run.Transition(entity.StageInitializing, "Acquiring browser session")
	session, err := o.sessions.Open(ctx)
	if err != nil {
		return o.fail(run, log, entity.StageInitializing, err)
	}
	defer session.Close()

	run.Transition(entity.StageNavigating, fmt.Sprintf("Navigating to %s", url))
	if err := session.Navigate(ctx, url, opts.NavTimeout); err != nil {
		return o.fail(run, log, entity.StageNavigating, err)
	}

	if cancelled(ctx) {
		return o.fail(run, log, entity.StageNavigating, errCancelled)
	}

	if !opts.SkipAuth {
		run.Transition(entity.StageAuthDetecting, "Detecting authentication state")
		run.Auth = o.auth.DetectAndHandle(ctx, session, url)
		if run.Auth.Success {
			run.Log(fmt.Sprintf("Authentication handled (loggedIn=%t, confidence=%.1f)", run.Auth.LoggedIn, run.Auth.Confidence))
		} else {
			// Non-fatal: best-effort automation continues on
			// unauthenticated content.
			run.Log(fmt.Sprintf("Authentication not handled: %s (continuing)", run.Auth.Error))
			log.Warn("authentication degraded", "error", run.Auth.Error)
		}
		if cancelled(ctx) {
			return o.fail(run, log, entity.StageAuthDetecting, errCancelled)
		}
	}

	run.Transition(entity.StageVisionAnalyzing, "Running visual analysis")
	run.Vision = o.analyzeVision(ctx, session, log)
	run.Log(fmt.Sprintf("Vision analysis done (method=%s, confidence=%.2f, elements=%d)",
		run.Vision.Method, run.Vision.Confidence, len(run.Vision.Elements)))

	if cancelled(ctx) {
		return o.fail(run, log, entity.StageVisionAnalyzing, errCancelled)
	}

	run.Transition(entity.StageInterfaceMapping, "Mapping interactive elements")
	elements, err := o.mapper.MapElements(ctx, session)
	if err != nil {
		return o.fail(run, log, entity.StageInterfaceMapping, err)
	}
	run.Elements = elements
	run.Log(fmt.Sprintf("Mapped %d elements (automation potential %d)", elements.Total(), elements.AutomationPotential()))

	if cancelled(ctx) {
		return o.fail(run, log, entity.StageInterfaceMapping, errCancelled)
	}

	run.Transition(entity.StageToolSynthesizing, "Synthesizing tools")
	run.Tools = o.synthesizer.Synthesize(elements, run.Vision, url)
	run.Log(fmt.Sprintf("Synthesized %d tools", run.Tools.Count()))

	var packagePath string
	deployed := false

	if opts.CreatePackage {
		// Synthesis already finished, so a cancellation caught here belongs
		// to the packaging stage.
		if cancelled(ctx) {
			return o.fail(run, log, entity.StagePackaging, errCancelled)
		}
		run.Transition(entity.StagePackaging, "Creating tool package")
		pkg, err := o.packager.CreatePackage(ctx, site, run.Tools, entity.RunMetadata{
			RunID:       run.ID,
			URL:         url,
			GeneratedAt: run.StartedAt,
			ToolCount:   run.Tools.Count(),
		})
		if err != nil {
			return o.fail(run, log, entity.StagePackaging, err)
		}
		packagePath = pkg.Path
		run.Log(fmt.Sprintf("Package created at %s", pkg.Path))

		if opts.Deploy {
			run.Transition(entity.StageDeploying, "Deploying tool package")
			dep, err := o.deployer.Deploy(ctx, site, pkg)
			if err != nil {
				return o.fail(run, log, entity.StageDeploying, err)
			}
			deployed = dep.Success
			run.Log(fmt.Sprintf("Deployed as %s (restart required: %t)", dep.ServerName, dep.RequiresRestart))
		}
	}

	run.Transition(entity.StageCompleted, "Run completed")
	log.Info("pipeline run completed", "tools", run.Tools.Count(), "elapsedMs", run.Elapsed())

	return &entity.RunResult{
		Success:     true,
		ElapsedMS:   run.Elapsed(),
		Steps:       run.Steps,
		ToolsCount:  run.Tools.Count(),
		PackagePath: packagePath,
		Deployed:    deployed,
	}
}

// analyzeVision gathers the inputs for the coordinator, degrading to nil
// inputs when the session cannot provide them. The coordinator itself never
// fails.
func (o *Orchestrator) analyzeVision(ctx context.Context, session output.SessionPort, log output.LoggerPort) *entity.VisionResult {
	shot, err := session.Screenshot(ctx)
	if err != nil {
		log.Warn("screenshot failed, vision runs without an image", "error", err)
		shot = nil
	}
	page, err := session.PageContext(ctx)
	if err != nil {
		log.Warn("page context unavailable", "error", err)
		page = nil
	}
	return o.vision.Analyze(ctx, shot, page)
}

func (o *Orchestrator) fail(run *entity.PipelineRun, log output.LoggerPort, stage entity.Stage, err error) *entity.RunResult {
	stageErr := &entity.StageError{Stage: stage, Err: err}
	run.Transition(entity.StageFailed, fmt.Sprintf("Failed during %s: %v", stage, err))
	log.Error("pipeline run failed", "stage", stage, "error", err)

	toolCount := 0
	if run.Tools != nil {
		toolCount = run.Tools.Count()
	}
	return &entity.RunResult{
		Success:    false,
		ElapsedMS:  run.Elapsed(),
		Steps:      run.Steps,
		ToolsCount: toolCount,
		Error:      stageErr.Error(),
		FailedAt:   stage,
	}
}

func cancelled(ctx context.Context) bool {
	return ctx.Err() != nil
}
