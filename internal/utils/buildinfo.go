package utils

import (
	"os/exec"
	"runtime/debug"
	"strings"
)

const (
	unknownVersion     = "unknown"
	developmentVersion = "(devel)"
)

// GetApplicationVersion reports the module version from build info and falls back to
// git describe when running from a source checkout.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}
	if buildInfoAvailable {
		if revision := readBuildSetting(buildInfo, "vcs.revision"); revision != "" {
			if readBuildSetting(buildInfo, "vcs.modified") == "true" {
				return revision + "-dirty"
			}
			return revision
		}
	}

	// #nosec G204
	describeOutput, describeError := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if describeError == nil && len(describeOutput) > 0 {
		return strings.TrimSpace(string(describeOutput))
	}
	return unknownVersion
}

func readBuildSetting(buildInfo *debug.BuildInfo, key string) string {
	for _, setting := range buildInfo.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}
