package oplog

import "regexp"

// userinfoPattern matches "user:password@" in postgres URLs and mysql DSNs.
var userinfoPattern = regexp.MustCompile(`([A-Za-z0-9._%+\-]+):([^@\s/]+)@`)

// RedactCredentials masks passwords embedded in connection strings.
func RedactCredentials(input string) (redacted string, changed bool) {
	out := userinfoPattern.ReplaceAllString(input, "$1:[REDACTED]@")
	return out, out != input
}
