package errors

import "fmt"

// Common error messages for the monorel CLI.
// These templates ensure consistent, actionable error messages.

// InvalidReference creates an error for a git reference that cannot be resolved.
func InvalidReference(ref string) *CLIError {
	return NewInputError(
		fmt.Sprintf("cannot resolve git reference: %s", ref),
		"Check the reference exists with: git rev-parse "+ref,
		"Fetch missing tags with: git fetch --tags",
	)
}

// PackageNotVersionable creates an error for a package that has no manifest.
func PackageNotVersionable(pkg, manifestPath string) *CLIError {
	return NewInputError(
		fmt.Sprintf("package %q is not eligible for versioning: missing manifest %s", pkg, manifestPath),
		"Check the package name with: monorel packages",
		"Create a manifest with a \"version\" field to enable versioning",
	)
}

// VersionAheadOfTags creates an error for a manifest version that is ahead of
// the latest tag. This indicates manual tampering with the manifest and must
// be resolved by hand.
func VersionAheadOfTags(pkg, diskVersion, latestTag string) *CLIError {
	return NewInvariantError(
		fmt.Sprintf("package %q manifest version %s is ahead of latest tag %s", pkg, diskVersion, latestTag),
		"Tag the current version manually: git tag "+latestTag,
		"Or reset the manifest version to match the tag history",
	)
}

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository() *CLIError {
	return NewInputError(
		"not a git repository",
		"Initialize with: git init",
		"Or navigate to an existing repository",
	)
}

// ConfigParseError creates an error for invalid config file format.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse config file: %s", path),
		"Check the file for syntax errors",
		"Reset to defaults by removing "+path,
	)
}

// GitTimeout creates an error when a git subprocess exceeds its timeout.
func GitTimeout(duration string, args string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("git command timed out after %s: git %s", duration, args),
		"Increase timeout in config: MONOREL_GIT_TIMEOUT=120",
		"Or edit .monorel/config.yml and set git_timeout: 120",
	)
}

// TagAlreadyExists creates an error when attempting to create a duplicate tag.
func TagAlreadyExists(tag string) *CLIError {
	return NewInputError(
		fmt.Sprintf("tag already exists: %s", tag),
		"Delete the tag first: git tag -d "+tag,
		"Or rerun the analysis; an existing tag means the version is already released",
	)
}
