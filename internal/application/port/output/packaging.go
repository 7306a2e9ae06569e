package output

import (
	"context"

	"toolgen/internal/domain/entity"
)

type PackageResult struct {
	Path            string
	ServerEntryPath string
}

type Packager interface {
	CreatePackage(ctx context.Context, site string, tools *entity.ToolSet, meta entity.RunMetadata) (*PackageResult, error)
}

type DeployResult struct {
	Success         bool
	ServerName      string
	RequiresRestart bool
}

type Deployer interface {
	Deploy(ctx context.Context, site string, pkg *PackageResult) (*DeployResult, error)
}
