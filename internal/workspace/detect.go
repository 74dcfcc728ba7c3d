package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Skyenought/libstarter/internal/storage"
)

// ConfigFile is the optional per-workspace settings file.
const ConfigFile = ".libstarter.yaml"

// Detector inspects workspace marker files through a storage adapter.
//
// Lookup order for each field: ConfigFile, then package.json (scope from
// the root package name) and nx.json (workspaceLayout.libsDir), then
// defaults.
type Detector struct {
	Adapter storage.Adapter
}

// Resolve implements Resolver.
func (d Detector) Resolve(ctx context.Context) (Config, error) {
	cfg := Config{WorkspaceRoot: d.Adapter.WorkspaceRoot()}

	fileCfg, err := d.loadConfigFile()
	if err != nil {
		return Config{}, err
	}
	cfg.Scope = fileCfg.Scope
	cfg.LibrariesRoot = fileCfg.LibrariesRoot

	if cfg.Scope == "" {
		if cfg.Scope, err = d.scopeFromPackageJSON(); err != nil {
			return Config{}, err
		}
	}
	if cfg.LibrariesRoot == "" {
		if cfg.LibrariesRoot, err = d.libsDirFromNxJSON(); err != nil {
			return Config{}, err
		}
	}
	if cfg.LibrariesRoot == "" {
		cfg.LibrariesRoot = DefaultLibrariesRoot
	}
	return cfg, nil
}

// loadConfigFile reads the "workspace" key of ConfigFile.
func (d Detector) loadConfigFile() (Config, error) {
	raw, ok, err := d.read(ConfigFile)
	if err != nil || !ok {
		return Config{}, err
	}
	var file struct {
		Workspace Config `yaml:"workspace"`
	}
	if err := yaml.Unmarshal([]byte(raw), &file); err != nil {
		return Config{}, NewConfigurationError(ConfigFile, nil, fmt.Sprintf("cannot parse: %v", err))
	}
	return file.Workspace, nil
}

func (d Detector) scopeFromPackageJSON() (string, error) {
	raw, ok, err := d.read("package.json")
	if err != nil || !ok {
		return "", err
	}
	var pkg struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(raw), &pkg); err != nil {
		return "", NewConfigurationError("package.json", nil, fmt.Sprintf("cannot parse: %v", err))
	}
	if !strings.HasPrefix(pkg.Name, "@") {
		return "", nil
	}
	scope, _, _ := strings.Cut(strings.TrimPrefix(pkg.Name, "@"), "/")
	return scope, nil
}

func (d Detector) libsDirFromNxJSON() (string, error) {
	raw, ok, err := d.read("nx.json")
	if err != nil || !ok {
		return "", err
	}
	var nx struct {
		WorkspaceLayout struct {
			LibsDir string `json:"libsDir"`
		} `json:"workspaceLayout"`
	}
	if err := json.Unmarshal([]byte(raw), &nx); err != nil {
		return "", NewConfigurationError("nx.json", nil, fmt.Sprintf("cannot parse: %v", err))
	}
	return nx.WorkspaceLayout.LibsDir, nil
}

// read returns the file content and whether it exists.
func (d Detector) read(p string) (string, bool, error) {
	raw, err := d.Adapter.ReadFile(p)
	if err != nil {
		if storage.IsNotFound(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return raw, true, nil
}
