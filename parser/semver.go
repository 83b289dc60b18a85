package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Semver is a parsed "major.minor[.patch][-prerelease]" version string, as
// found in the swagger and openapi fields.
type Semver struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
}

// ParseSemver parses s. Examples: "2.0", "3.0.1", "3.1.0-rc1".
func ParseSemver(s string) (Semver, error) {
	var prerelease string
	if idx := strings.IndexByte(s, '-'); idx >= 0 {
		prerelease = s[idx+1:]
		s = s[:idx]
	}

	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Semver{}, fmt.Errorf("invalid version format: %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > math.MaxInt32 {
			return Semver{}, fmt.Errorf("invalid version segment %q in %q", p, s)
		}
		nums[i] = n
	}
	return Semver{Major: nums[0], Minor: nums[1], Patch: nums[2], Prerelease: prerelease}, nil
}

// AtLeast reports whether v is major.minor or later, ignoring patch and
// prerelease.
func (v Semver) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// String returns the canonical "major.minor.patch[-prerelease]" form.
func (v Semver) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}
