package openrpc

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// Supported OpenRPC versions.
const (
	MinSupportedVersion = "1.0.0"
	MaxTestedVersion    = "1.3.2"
)

// SupportedRange returns the minimum and maximum OpenRPC versions this package reads.
func SupportedRange() (min, max string) {
	return MinSupportedVersion, MaxTestedVersion
}

var (
	minSupportedSemver = mustSemver(MinSupportedVersion)
	maxTestedSemver    = mustSemver(MaxTestedVersion)
)

// IsSupportedVersion reports whether v is within the supported range.
func IsSupportedVersion(v string) (bool, error) {
	parsed, err := parseSemverStrict(v)
	if err != nil {
		return false, err
	}
	return compareSemver(parsed, minSupportedSemver) >= 0 && compareSemver(parsed, maxTestedSemver) <= 0, nil
}

type semver struct {
	major, minor, patch int
}

func mustSemver(v string) semver {
	s, err := parseSemverStrict(v)
	if err != nil {
		panic(fmt.Sprintf("openrpc: invalid version constant %q: %v", v, err))
	}
	return s
}

func parseSemverStrict(v string) (semver, error) {
	parts := strings.Split(strings.TrimSpace(v), ".")
	if len(parts) != 3 {
		return semver{}, fmt.Errorf("invalid semver: %q", v)
	}
	var out [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return semver{}, fmt.Errorf("invalid semver: %q", v)
		}
		out[i] = n
	}
	return semver{major: out[0], minor: out[1], patch: out[2]}, nil
}

func compareSemver(a, b semver) int {
	if a.major != b.major {
		return cmp.Compare(a.major, b.major)
	}
	if a.minor != b.minor {
		return cmp.Compare(a.minor, b.minor)
	}
	return cmp.Compare(a.patch, b.patch)
}
