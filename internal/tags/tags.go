// Package tags reads a package's tag series: the set of tags sharing that
// package's prefix, which tracks its independent release history.
package tags

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/ariel-frischer/monorel/internal/gitexec"
	goversion "github.com/hashicorp/go-version"
)

// Format classifies how a tag's version part is shaped.
type Format string

const (
	FormatSemver    Format = "semver"
	FormatCalver    Format = "calver"
	FormatCustom    Format = "custom"
	FormatUndefined Format = "undefined"
)

// Tag is a single tag in a package's series.
type Tag struct {
	// Name is the full tag name ("api-v1.2.0").
	Name string
	// Prefix is the series prefix the tag was matched under.
	Prefix string
	// Format is the detected shape of the version part.
	Format Format
	// SHA is the commit the tag points at.
	SHA string
	// Date is the tag creation date as reported by git.
	Date string
	// Message is the tag annotation subject, if any.
	Message string
}

// Version returns the tag's version part with the series prefix stripped.
func (t Tag) Version() string {
	return strings.TrimPrefix(t.Name, t.Prefix)
}

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
var calverPattern = regexp.MustCompile(`^\d{4}\.\d{1,2}(\.\d{1,2})?$`)

// detectFormat classifies the version part of a tag name.
// Four-digit leading components are calendar versions, not semver majors.
func detectFormat(version string) Format {
	switch {
	case version == "":
		return FormatUndefined
	case calverPattern.MatchString(version) && leadingNumber(version) >= 1000:
		return FormatCalver
	case semverPattern.MatchString(version):
		return FormatSemver
	default:
		return FormatCustom
	}
}

// leadingNumber parses the first dotted component of a version string.
func leadingNumber(version string) int {
	first, _, _ := strings.Cut(version, ".")
	n, err := strconv.Atoi(first)
	if err != nil {
		return 0
	}
	return n
}

// Reader inspects tag series through the git collaborator.
type Reader struct {
	git *gitexec.Git
}

// NewReader creates a Reader over the given repository.
func NewReader(git *gitexec.Git) *Reader {
	return &Reader{git: git}
}

// Series lists all tags under the given prefix, oldest version first.
// A git failure degrades to an empty series.
//
// Prefix matching is exact: the "v" series must not swallow "api-v" tags,
// so tags whose remainder does not start with a digit are skipped.
func (r *Reader) Series(ctx context.Context, prefix string) []Tag {
	var series []Tag
	for _, ref := range r.git.Tags(ctx, prefix) {
		version := strings.TrimPrefix(ref.Name, prefix)
		if version == "" || version[0] < '0' || version[0] > '9' {
			continue
		}
		series = append(series, Tag{
			Name:    ref.Name,
			Prefix:  prefix,
			Format:  detectFormat(version),
			SHA:     ref.SHA,
			Date:    ref.Date,
			Message: ref.Message,
		})
	}
	return series
}

// Latest returns the highest semver tag in the series.
// The second return value is false when the series has no semver tags.
func (r *Reader) Latest(ctx context.Context, prefix string) (Tag, bool) {
	var best Tag
	var bestVersion *goversion.Version

	for _, tag := range r.Series(ctx, prefix) {
		if tag.Format != FormatSemver {
			continue
		}
		v, err := goversion.NewSemver(tag.Version())
		if err != nil {
			continue
		}
		if bestVersion == nil || v.GreaterThan(bestVersion) {
			best = tag
			bestVersion = v
		}
	}
	return best, bestVersion != nil
}

// Exists reports whether a specific version is already tagged in the series.
func (r *Reader) Exists(ctx context.Context, prefix, version string) bool {
	return r.git.TagExists(ctx, prefix+version)
}
