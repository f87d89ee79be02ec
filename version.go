package sqldialect

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a database product version. Dialects gate their behavior on it.
type Version struct {
	Major int
	Minor int
	Micro int
}

func MakeVersion(major int, rest ...int) Version {
	v := Version{Major: major}
	if len(rest) > 0 {
		v.Minor = rest[0]
	}
	if len(rest) > 1 {
		v.Micro = rest[1]
	}
	return v
}

var versionPattern = regexp.MustCompile(`(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// ParseVersion reads the first dotted number out of s. Plain versions ("12.1")
// and vendor banners ("CockroachDB CCL v23.1.2 (x86_64...)") are both accepted.
func ParseVersion(s string) (Version, error) {
	match := versionPattern.FindStringSubmatch(s)
	if match == nil {
		return Version{}, fmt.Errorf("sqldialect: no version number in '%s'", s)
	}
	var parts [3]int
	for i, group := range match[1:] {
		if group == "" {
			continue
		}
		n, err := strconv.Atoi(group)
		if err != nil {
			return Version{}, fmt.Errorf("sqldialect: invalid version '%s': %w", s, err)
		}
		parts[i] = n
	}
	return Version{Major: parts[0], Minor: parts[1], Micro: parts[2]}, nil
}

func (v Version) IsZero() bool {
	return v == Version{}
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
}

func (v Version) semver() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Micro)
}

// Compare returns -1, 0 or +1.
func (v Version) Compare(other Version) int {
	return semver.Compare(v.semver(), other.semver())
}

// truncate keeps only the components a caller supplied so that IsSame(12) holds for 12.2.
func (v Version) truncate(components int) Version {
	switch components {
	case 1:
		return Version{Major: v.Major}
	case 2:
		return Version{Major: v.Major, Minor: v.Minor}
	}
	return v
}

func (v Version) compareTo(major int, rest []int) int {
	return v.truncate(1 + len(rest)).Compare(MakeVersion(major, rest...))
}

func (v Version) IsBefore(major int, rest ...int) bool {
	return v.compareTo(major, rest) < 0
}

func (v Version) IsSameOrAfter(major int, rest ...int) bool {
	return v.compareTo(major, rest) >= 0
}

func (v Version) IsSame(major int, rest ...int) bool {
	return v.compareTo(major, rest) == 0
}

// UnmarshalText lets versions be written as "12.1" in YAML and flags.
func (v *Version) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		*v = Version{}
		return nil
	}
	parsed, err := ParseVersion(s)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}
