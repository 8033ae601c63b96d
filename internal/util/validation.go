package util

import (
	"regexp"
)

// Chat-platform user and message ids are numeric snowflakes.
var snowflakeRegex = regexp.MustCompile(`^[0-9]{1,20}$`)

func IsValidSnowflake(s string) bool {
	if s == "" {
		return false
	}
	return snowflakeRegex.MatchString(s)
}
