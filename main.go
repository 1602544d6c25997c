package main

import (
	"fmt"
	"os"

	"github.com/llmharness/chatapi-contract-tests/chattests"
	"github.com/llmharness/chatapi-contract-tests/client"
	"github.com/llmharness/chatapi-contract-tests/config"
	"github.com/llmharness/chatapi-contract-tests/framework"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	cfg, err := config.Load(params.envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %s\n", err)
		os.Exit(1)
	}
	if params.serviceURL != "" {
		cfg.ServiceURL = params.serviceURL
	}
	if params.model != "" {
		cfg.Model = params.model
	}

	serviceClient := client.NewServiceClient(cfg.ServiceURL, cfg.APIKey, params.requestTimeout, nil)
	if err := serviceClient.WaitForService(params.waitTimeout, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Chat service error: %s\n", err)
		os.Exit(1)
	}

	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, params.filters)

	fmt.Println("Running test suite")

	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	results := chattests.RunTestSuite(serviceClient, cfg.Model, params.filters.AsFilter, testLogger)

	fmt.Println()
	summary := framework.Summarize(results)
	framework.PrintResults(os.Stdout, summary)
	if !summary.AllPassed() {
		if len(results.Failures) > 0 {
			fmt.Println()
			fmt.Println("To re-run only the failed tests:")
			fmt.Printf("  %s\n", rerunCommand(params, results.Failures))
		}
		os.Exit(1)
	}
}
