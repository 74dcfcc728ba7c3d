package infra

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/Skyenought/libstarter/internal/storage"
	"github.com/Skyenought/libstarter/internal/workspace"
)

// BaseConfig is the shared compiler config every library extends.
const BaseConfig = "tsconfig.base.json"

var (
	pathsAnchor           = regexp.MustCompile(`"paths"\s*:\s*\{`)
	compilerOptionsAnchor = regexp.MustCompile(`"compilerOptions"\s*:\s*\{`)
)

// registerPath adds a compilerOptions.paths entry for pkg to BaseConfig.
// The file is edited textually so that its formatting, comments and the
// order of existing entries survive. It reports whether the file was
// changed; a missing BaseConfig or an already registered package is not an
// error.
func registerPath(adapter storage.Adapter, pkg, entry string) (bool, error) {
	raw, err := adapter.ReadFile(BaseConfig)
	if err != nil {
		if storage.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	// Standardize blanks out comments and trailing commas without moving
	// any byte, so offsets found in std are valid in raw.
	std, err := hujson.Standardize([]byte(raw))
	if err != nil {
		return false, workspace.NewConfigurationError(BaseConfig, nil, fmt.Sprintf("cannot parse: %v", err))
	}
	var parsed struct {
		CompilerOptions struct {
			Paths map[string][]string `json:"paths"`
		} `json:"compilerOptions"`
	}
	if err := json.Unmarshal(std, &parsed); err != nil {
		return false, workspace.NewConfigurationError(BaseConfig, nil, fmt.Sprintf("cannot parse: %v", err))
	}
	if _, ok := parsed.CompilerOptions.Paths[pkg]; ok {
		return false, nil
	}

	line := fmt.Sprintf("%q: [%q]", pkg, entry)
	updated, ok := insertAfter(raw, string(std), pathsAnchor, "      "+line)
	if !ok {
		updated, ok = insertAfter(raw, string(std), compilerOptionsAnchor, "    \"paths\": {\n      "+line+"\n    }")
	}
	if !ok {
		return false, workspace.NewConfigurationError(BaseConfig, nil, "no compilerOptions object to register paths in")
	}
	if check, err := hujson.Standardize([]byte(updated)); err != nil || !json.Valid(check) {
		return false, workspace.NewConfigurationError(BaseConfig, nil, "cannot register path without breaking the file")
	}
	if err := adapter.WriteFile(BaseConfig, updated); err != nil {
		return false, err
	}
	return true, nil
}

// insertAfter places member as the first member of the object opened by
// anchor, adding a separating comma when the object is not empty. The
// anchor is searched in std, the comment free form of src.
func insertAfter(src, std string, anchor *regexp.Regexp, member string) (string, bool) {
	loc := anchor.FindStringIndex(std)
	if loc == nil {
		return src, false
	}
	sep := ","
	if strings.HasPrefix(strings.TrimSpace(std[loc[1]:]), "}") {
		sep = ""
	}
	return src[:loc[1]] + "\n" + member + sep + src[loc[1]:], true
}
