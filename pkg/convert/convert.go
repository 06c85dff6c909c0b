// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant conversions for query parameters
where a malformed value should silently fall back to a default.

Do not use it where malformed input must be reported to the client; parse
with [strconv] and return a validation error instead.
*/
package convert

import "strconv"

// ToIntD converts str to an int, returning def when str is empty or not an integer.
func ToIntD(str string, def int) int {
	if str == "" {
		return def
	}
	if v, err := strconv.Atoi(str); err == nil {
		return v
	}
	return def
}
