// Package flagx lets several components parse their own flags out of one
// shared argument list without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the arguments that belong to allowedFlags, together
// with their values. Both "-k value" and "-k=value" forms are recognised; a
// following argument that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath returns the JSON config file named by -c or -config in args,
// or "" when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}
