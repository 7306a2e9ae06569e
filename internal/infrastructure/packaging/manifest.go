package packaging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"toolgen/internal/application/port/output"
	"toolgen/internal/domain/entity"
)

var _ output.Packager = (*ManifestPackager)(nil)

// ManifestPackager lays the synthesized tool set out on disk as a manifest
// plus a server entry stub.
type ManifestPackager struct {
	dir    string
	logger output.LoggerPort
}

func NewManifestPackager(dir string, logger output.LoggerPort) *ManifestPackager {
	return &ManifestPackager{dir: dir, logger: logger}
}

type manifest struct {
	Site     string                  `json:"site"`
	Metadata entity.RunMetadata      `json:"metadata"`
	Tools    []entity.ToolDescriptor `json:"tools"`
}

type serverEntry struct {
	Name     string `json:"name"`
	Manifest string `json:"manifest"`
}

func (p *ManifestPackager) CreatePackage(_ context.Context, site string, tools *entity.ToolSet, meta entity.RunMetadata) (*output.PackageResult, error) {
	pkgDir := filepath.Join(p.dir, site+"_tools")
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return nil, fmt.Errorf("create package dir: %w", err)
	}

	manifestPath := filepath.Join(pkgDir, "manifest.json")
	data, err := json.MarshalIndent(manifest{Site: site, Metadata: meta, Tools: tools.Tools}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	entryPath := filepath.Join(pkgDir, "server.json")
	entryData, err := json.MarshalIndent(serverEntry{Name: site + "-tools", Manifest: "manifest.json"}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode server entry: %w", err)
	}
	if err := os.WriteFile(entryPath, entryData, 0o644); err != nil {
		return nil, fmt.Errorf("write server entry: %w", err)
	}

	p.logger.Info("package created", "site", site, "path", pkgDir, "tools", tools.Count())
	return &output.PackageResult{Path: pkgDir, ServerEntryPath: entryPath}, nil
}
