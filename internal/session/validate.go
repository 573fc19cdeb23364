package session

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	profileRegexp  = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)
	instanceRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)
)

// ValidateName checks that name conforms to profile naming rules.
func ValidateName(name string) error {
	if !profileRegexp.MatchString(name) {
		return fmt.Errorf("invalid profile name %q: must match %s", name, profileRegexp)
	}
	return nil
}

// ValidateInstanceName checks a gateway instance name before it is sent
// upstream as a path segment.
func ValidateInstanceName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("instance name is required")
	}
	if !instanceRegexp.MatchString(name) {
		return fmt.Errorf("invalid instance name %q: must match %s", name, instanceRegexp)
	}
	return nil
}
