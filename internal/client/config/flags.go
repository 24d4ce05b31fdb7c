package config

import (
	"flag"
	"io"
	"time"
)

type globalFlags struct {
	configPath string
	values     map[string]string
	timeout    time.Duration
	visited    map[string]bool
}

// parseFlags reads the global flags that precede the command:
//
//	-a string     server gRPC address
//	-f string     path to the local session database
//	-t duration   timeout of a single request
//	-c, -config   JSON config file
func parseFlags(args []string) (*globalFlags, []string, error) {
	g := &globalFlags{values: map[string]string{}, visited: map[string]bool{}}

	fs := flag.NewFlagSet("authctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&g.configPath, "config", "", "path to JSON config file")
	fs.StringVar(&g.configPath, "c", "", "path to JSON config file (short)")
	addr := fs.String("a", "", "address and port of the server")
	db := fs.String("f", "", "path to the local session database")
	fs.DurationVar(&g.timeout, "t", 0, "request timeout")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	fs.Visit(func(f *flag.Flag) { g.visited[f.Name] = true })
	g.values["a"] = *addr
	g.values["f"] = *db

	return g, fs.Args(), nil
}

func (g *globalFlags) apply(cfg *Config) {
	if g.visited["a"] {
		cfg.ServerEndpointAddr = g.values["a"]
	}
	if g.visited["f"] {
		cfg.DatabasePath = g.values["f"]
	}
	if g.visited["t"] {
		cfg.RequestTimeout = g.timeout
	}
}
