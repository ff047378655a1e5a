// Package signature builds the request signatures travelpayouts APIs expect:
// the parameter values joined with ":" and hashed with MD5.
package signature

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

const separator = ":"

// Signed is a signature string together with its hash. The string is kept
// around since it is what you compare against the API docs when the API
// answers with "wrong signature".
type Signed struct {
	String string
	MD5    string
}

func MD5(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func Sign(parts ...string) Signed {
	joined := strings.Join(parts, separator)
	return Signed{String: joined, MD5: MD5(joined)}
}

// ByName returns the values of params ordered by their names.
func ByName(params map[string]string) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]string, len(names))
	for i, name := range names {
		values[i] = params[name]
	}
	return values
}
