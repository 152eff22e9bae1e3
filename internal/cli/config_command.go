package cli

import (
	"flag"
	"fmt"

	"shorts-clipper/internal/config"
)

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	rt := bindRuntimeFlags(fs)
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := rt.load()
	if err != nil {
		return err
	}
	if *jsonOut {
		return printJSON(cfg)
	}
	printConfig(cfg)
	return nil
}

func printConfig(cfg config.Config) {
	fmt.Printf("config_file: %s\n", defaultIfEmpty(cfg.ConfigFile, "(none)"))
	fmt.Printf("backend_url: %s\n", cfg.BackendURL)
	fmt.Printf("log_level: %s\n", cfg.LogLevel)
	fmt.Printf("log_file: %s\n", defaultIfEmpty(cfg.LogFile, "(stderr)"))
	if cfg.HTTPTimeout == 0 {
		fmt.Println("http_timeout: none")
	} else {
		fmt.Printf("http_timeout: %s\n", cfg.HTTPTimeout)
	}
	fmt.Printf("dev_listen: %s\n", cfg.DevListen)
	fmt.Printf("dev_complete_after: %s\n", cfg.DevCompleteAfter)
}
