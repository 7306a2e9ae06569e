package packaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"toolgen/internal/application/port/output"
)

var _ output.Deployer = (*LocalDeployer)(nil)

// LocalDeployer records packages in a JSON registry file so a host
// application can pick them up on restart.
type LocalDeployer struct {
	registryPath string
	logger       output.LoggerPort
}

func NewLocalDeployer(registryPath string, logger output.LoggerPort) *LocalDeployer {
	return &LocalDeployer{registryPath: registryPath, logger: logger}
}

type registryEntry struct {
	Path        string    `json:"path"`
	ServerEntry string    `json:"serverEntry"`
	DeployedAt  time.Time `json:"deployedAt"`
}

func (d *LocalDeployer) Deploy(_ context.Context, site string, pkg *output.PackageResult) (*output.DeployResult, error) {
	registry := make(map[string]registryEntry)

	data, err := os.ReadFile(d.registryPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read deploy registry: %w", err)
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &registry); err != nil {
			return nil, fmt.Errorf("parse deploy registry: %w", err)
		}
	}

	serverName := site + "-tools"
	registry[serverName] = registryEntry{
		Path:        pkg.Path,
		ServerEntry: pkg.ServerEntryPath,
		DeployedAt:  time.Now(),
	}

	out, err := json.MarshalIndent(registry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode deploy registry: %w", err)
	}
	if dir := filepath.Dir(d.registryPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create registry dir: %w", err)
		}
	}
	if err := os.WriteFile(d.registryPath, out, 0o644); err != nil {
		return nil, fmt.Errorf("write deploy registry: %w", err)
	}

	d.logger.Info("package deployed", "server", serverName, "path", pkg.Path)
	return &output.DeployResult{
		Success:         true,
		ServerName:      serverName,
		RequiresRestart: true,
	}, nil
}
