package di

import (
	"fmt"
	"time"

	"toolgen/internal/application/port/input"
	"toolgen/internal/application/port/output"
	"toolgen/internal/domain/entity"
	browserrod "toolgen/internal/infrastructure/browser/rod"
	"toolgen/internal/infrastructure/detector/domfallback"
	"toolgen/internal/infrastructure/detector/openaivision"
	"toolgen/internal/infrastructure/env"
	"toolgen/internal/infrastructure/logger"
	"toolgen/internal/infrastructure/packaging"
	"toolgen/internal/infrastructure/profile"
	"toolgen/internal/usecase/auth"
	"toolgen/internal/usecase/mapper"
	"toolgen/internal/usecase/pipeline"
	"toolgen/internal/usecase/synth"
	"toolgen/internal/usecase/vision"
)

type Container struct {
	Logger   output.LoggerPort
	Runner   input.PipelineRunner
	Defaults entity.RunOptions
}

// NewContainer wires the pipeline from environment configuration.
func NewContainer(envService *env.EnvService) (*Container, error) {
	log, err := logger.New(envService.GetBool("TOOLGEN_DEBUG", false))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := browserrod.DefaultConfig()
	browserCfg.Headless = envService.GetBool("TOOLGEN_HEADLESS", true)
	browserCfg.NoSandbox = envService.GetBool("TOOLGEN_NO_SANDBOX", false)
	sessions := browserrod.NewProvider(browserCfg, log)

	primary := openaivision.NewAdapter(openaivision.DefaultConfig(
		envService.Get("OPENAI_API_KEY"),
		envService.GetDefault("OPENAI_VISION_MODEL", "gpt-4o-mini"),
	), log)
	secondary := domfallback.New()

	visionCfg := vision.DefaultConfig()
	visionCfg.SnapshotCap = envService.GetInt("TOOLGEN_SNAPSHOT_CAP", visionCfg.SnapshotCap)
	visionCfg.CacheCap = envService.GetInt("TOOLGEN_CACHE_CAP", visionCfg.CacheCap)
	coordinator := vision.New(primary, secondary, log, visionCfg)

	store := profile.NewStore(envService.GetDefault("TOOLGEN_PROFILE_PATH", "profile.yaml"))
	seed := entity.AuthProfile{
		Name:             envService.Get("USER_NAME"),
		Email:            envService.Get("USER_EMAIL"),
		Phone:            envService.Get("USER_PHONE"),
		Address:          envService.Get("USER_ADDRESS"),
		Password:         envService.Get("USER_PASSWORD"),
		PreferGoogleAuth: envService.GetBool("PREFER_GOOGLE_AUTH", false),
	}
	authDetector := auth.New(store, log, seed)

	synthCfg := synth.DefaultConfig()
	synthCfg.ActionToolCap = envService.GetInt("TOOLGEN_ACTION_TOOL_CAP", synthCfg.ActionToolCap)
	synthCfg.NavToolCap = envService.GetInt("TOOLGEN_NAV_TOOL_CAP", synthCfg.NavToolCap)

	packager := packaging.NewManifestPackager(envService.GetDefault("TOOLGEN_PACKAGE_DIR", "packages"), log)
	deployer := packaging.NewLocalDeployer(envService.GetDefault("TOOLGEN_DEPLOY_REGISTRY", "deploy.json"), log)

	orchestrator := pipeline.New(
		sessions,
		authDetector,
		coordinator,
		mapper.New(log),
		synth.New(synthCfg),
		packager,
		deployer,
		log,
	)

	return &Container{
		Logger: log,
		Runner: orchestrator,
		Defaults: entity.RunOptions{
			NavTimeout: envService.GetDurationMS("TOOLGEN_NAV_TIMEOUT_MS", 30*time.Second),
		},
	}, nil
}

func (c *Container) Close() {
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
