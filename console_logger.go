package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/llmharness/chatapi-contract-tests/framework"

	"github.com/fatih/color"
)

var (
	failedColor  = color.New(color.FgRed)
	skippedColor = color.New(color.FgYellow)
)

type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	fmt.Printf("[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, result framework.TestResult, debugOutput framework.CapturedOutput) {
	if result.Failed {
		failedColor.Printf("  FAILED: %s (%s)\n", id, result.Duration.Round(time.Millisecond))
	} else if result.Note != "" {
		fmt.Printf("  %s\n", result.Note)
	}
	if len(debugOutput) > 0 &&
		((result.Failed && c.DebugOutputOnFailure) || (!result.Failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		skippedColor.Printf("  SKIPPED: %s\n", id)
	} else {
		skippedColor.Printf("  SKIPPED: %s (%s)\n", id, reason)
	}
}
