// Package emojipick is an embeddable emoji picker for Bubble Tea programs.
//
// The picker itself lives in the picker package; emoji data, translations
// and renderers are pluggable collaborators in the emoji, i18n and renderer
// packages.
package emojipick

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/iw2rmb/emojipick/emoji"
)

var semverRE = regexp.MustCompile(`^(0|[1-9]\d*)\.(0|[1-9]\d*)\.(0|[1-9]\d*)(?:-([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?(?:\+([0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*))?$`)

//go:embed VERSION
var embeddedVersion string

// Semver is a parsed SemVer 2.0.0 version.
type Semver struct {
	Major, Minor, Patch int
	Pre                 string
	Build               string
}

func (v Semver) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != "" {
		s += "-" + v.Pre
	}
	if v.Build != "" {
		s += "+" + v.Build
	}
	return s
}

// ParseSemver parses v, ignoring surrounding whitespace. A leading `v` is
// rejected.
func ParseSemver(v string) (Semver, error) {
	m := semverRE.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return Semver{}, fmt.Errorf("emojipick: %q is not semver", v)
	}
	var out Semver
	for i, dst := range []*int{&out.Major, &out.Minor, &out.Patch} {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Semver{}, fmt.Errorf("emojipick: %q: %w", v, err)
		}
		*dst = n
	}
	out.Pre, out.Build = m[4], m[5]
	return out, nil
}

// IsSemver reports whether v is a SemVer 2.0.0 string.
func IsSemver(v string) bool {
	_, err := ParseSemver(v)
	return err == nil
}

// Version returns the module version without a leading `v`.
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// Describe returns the module version together with the newest Emoji
// version the built-in dataset for locale carries.
func Describe(ctx context.Context, locale string) (string, error) {
	db, err := emoji.LoadEmbedded(ctx, locale)
	if err != nil {
		return "", err
	}
	data := strconv.FormatFloat(emoji.MaxVersion(db.Categories()), 'f', -1, 64)
	return "emojipick " + Version() + " (emoji " + data + ")", nil
}
