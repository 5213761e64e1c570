// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides fault-tolerant string conversions.

It wraps [strconv] and returns a zero value instead of an error. Use it only
where a malformed value and zero mean the same thing, such as a calling code
that has to be looked up anyway.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToInt converts a decimal string to an int, ignoring surrounding spaces.
// It returns 0 if the string is empty or cannot be parsed.
func ToInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	v, _ := strconv.Atoi(s)
	return v
}
