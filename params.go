package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/llmharness/chatapi-contract-tests/config"
	"github.com/llmharness/chatapi-contract-tests/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	serviceURL     string
	envFile        string
	model          string
	filters        framework.RegexFilters
	requestTimeout time.Duration
	waitTimeout    time.Duration
	debug          bool
	debugAll       bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.StringVar(&c.serviceURL, "url", "", "chat service URL (overrides SERVER_URL)")
	fs.StringVar(&c.envFile, "env-file", ".env", "file to read configuration from")
	fs.StringVar(&c.model, "model", "", "model to test against (overrides SERVER_MODEL)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.DurationVar(&c.requestTimeout, "timeout", config.DefaultRequestTimeout, "timeout for each request to the service")
	fs.DurationVar(&c.waitTimeout, "wait", time.Second*10, "how long to wait for the service to come up")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	return true
}

// rerunCommand builds a shell command line that would re-run only the given failed
// tests, against the same service, model, and timeouts as this run.
func rerunCommand(params commandParams, failures []framework.TestResult) string {
	var b commandBuilder
	b.add(os.Args[0])
	if params.serviceURL != "" {
		b.add("-url", params.serviceURL)
	}
	if params.envFile != ".env" {
		b.add("-env-file", params.envFile)
	}
	if params.model != "" {
		b.add("-model", params.model)
	}
	if params.requestTimeout != config.DefaultRequestTimeout {
		b.add("-timeout", params.requestTimeout.String())
	}
	for _, p := range rerunPatterns(failures) {
		b.add("-run", p)
	}
	return b.String()
}

// rerunPatterns builds one -run pattern per failed test, anchoring each path element
// separately so that exactly that test, and the scopes above it, will be selected.
func rerunPatterns(failures []framework.TestResult) []string {
	var patterns []string
	for _, f := range failures {
		elements := make([]string, 0, len(f.TestID.Path))
		for _, segment := range f.TestID.Path {
			elements = append(elements, "^"+regexp.QuoteMeta(segment)+"$")
		}
		patterns = append(patterns, strings.Join(elements, "/"))
	}
	return patterns
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
