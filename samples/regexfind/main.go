// Command regexfind prints the first run of digits in "abc123".
package main

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

var digits = regexp2.MustCompile(`\d+`, regexp2.None)

// firstMatch returns the first match of re in s, or "" when there is none.
func firstMatch(re *regexp2.Regexp, s string) (string, error) {
	m, err := re.FindStringMatch(s)
	if err != nil {
		return "", err
	}
	if m == nil {
		return "", nil
	}
	return m.String(), nil
}

func main() {
	match, err := firstMatch(digits, "abc123")
	if err != nil {
		panic(err)
	}
	fmt.Println(match)
}
