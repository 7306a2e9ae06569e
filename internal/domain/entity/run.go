package entity

import (
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageIdle             Stage = "idle"
	StageInitializing     Stage = "initializing"
	StageNavigating       Stage = "navigating"
	StageAuthDetecting    Stage = "auth_detecting"
	StageVisionAnalyzing  Stage = "vision_analyzing"
	StageInterfaceMapping Stage = "interface_mapping"
	StageToolSynthesizing Stage = "tool_synthesizing"
	StagePackaging        Stage = "packaging"
	StageDeploying        Stage = "deploying"
	StageCompleted        Stage = "completed"
	StageFailed           Stage = "failed"
)

type RunStep struct {
	Timestamp time.Time `json:"timestamp"`
	ElapsedMS int64     `json:"elapsed"`
	Message   string    `json:"message"`
}

type RunOptions struct {
	SkipAuth      bool
	CreatePackage bool
	Deploy        bool
	NavTimeout    time.Duration
}

// PipelineRun is the mutable state of one inspection run. It is owned and
// mutated only by the orchestrator and discarded when the run completes.
type PipelineRun struct {
	ID        string
	URL       string
	Site      string
	Options   RunOptions
	StartedAt time.Time
	Stage     Stage
	Steps     []RunStep

	Auth     *AuthResult
	Vision   *VisionResult
	Elements *CategorizedElements
	Tools    *ToolSet
}

func NewPipelineRun(url, site string, opts RunOptions) *PipelineRun {
	return &PipelineRun{
		ID:        uuid.NewString(),
		URL:       url,
		Site:      site,
		Options:   opts,
		StartedAt: time.Now(),
		Stage:     StageIdle,
	}
}

func (r *PipelineRun) Elapsed() int64 {
	return time.Since(r.StartedAt).Milliseconds()
}

// Log appends a step entry stamped with wall-clock time and elapsed ms.
func (r *PipelineRun) Log(message string) {
	r.Steps = append(r.Steps, RunStep{
		Timestamp: time.Now(),
		ElapsedMS: r.Elapsed(),
		Message:   message,
	})
}

// Transition moves the run to the next stage and records it in the step log.
func (r *PipelineRun) Transition(stage Stage, message string) {
	r.Stage = stage
	r.Log(message)
}

type RunMetadata struct {
	RunID       string    `json:"runId"`
	URL         string    `json:"url"`
	GeneratedAt time.Time `json:"generatedAt"`
	ToolCount   int       `json:"toolCount"`
}

// RunResult is the payload handed to the outer command surface.
type RunResult struct {
	Success     bool      `json:"success"`
	ElapsedMS   int64     `json:"elapsedMs"`
	Steps       []RunStep `json:"steps"`
	ToolsCount  int       `json:"toolsCount"`
	PackagePath string    `json:"packagePath,omitempty"`
	Deployed    bool      `json:"deployed"`
	Error       string    `json:"error,omitempty"`
	FailedAt    Stage     `json:"failedAt,omitempty"`
}
