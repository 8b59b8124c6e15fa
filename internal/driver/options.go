package driver

import (
	"fmt"
	"strings"
)

// ParseDefines extracts "-D NAME=value" defines from a build options
// string, the one option form the driver contract requires every backend
// to honor. Both "-D NAME" and "-DNAME" spellings are accepted; a define
// without a value gets "1". Unknown options are reported as log warnings
// and otherwise ignored.
func ParseDefines(options string) (defines map[string]string, warnings []string) {
	defines = map[string]string{}
	fields := strings.Fields(options)
	for i := 0; i < len(fields); i++ {
		tok := fields[i]
		var def string
		switch {
		case tok == "-D" && i+1 < len(fields):
			i++
			def = fields[i]
		case strings.HasPrefix(tok, "-D") && len(tok) > 2:
			def = tok[2:]
		default:
			warnings = append(warnings, fmt.Sprintf("option %q ignored", tok))
			continue
		}
		name, value, ok := strings.Cut(def, "=")
		if !ok {
			value = "1"
		}
		defines[name] = value
	}
	return defines, warnings
}
