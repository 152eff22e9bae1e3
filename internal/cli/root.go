package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	switch args[0] {
	case "studio":
		return runStudio(args[1:])
	case "submit":
		return runSubmit(args[1:])
	case "jobs":
		return runJobs(args[1:])
	case "download":
		return runDownload(args[1:])
	case "config":
		return runConfig(args[1:])
	case "serve-dev":
		return runServeDev(args[1:])
	case "doctor":
		return runDoctor(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printRootUsage() {
	fmt.Println("shorts-clipper: configure and submit short-form clip jobs")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  shorts-clipper serve-dev            # optional local backend")
	fmt.Println("  shorts-clipper studio")
	fmt.Println("  shorts-clipper submit --youtube-url <url> --duration 45 --effects zoom,flash")
	fmt.Println("  shorts-clipper jobs")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  studio     interactive clip configurator + recent jobs")
	fmt.Println("  submit     submit one job from flags")
	fmt.Println("  jobs       list jobs with status, score and artifact links")
	fmt.Println("  download   save a job's video or subtitles to disk")
	fmt.Println("  config     show the effective configuration")
	fmt.Println("  doctor     check config, backend reachability and writable directories")
	fmt.Println("  serve-dev  run an in-memory backend for local testing")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Every command accepts --backend <url> and --config <file>")
	fmt.Println("  - Environment: CLIPPER_BACKEND_URL (or BACKEND_URL), CLIPPER_LOG_LEVEL, CLIPPER_LOG_FILE,")
	fmt.Println("    CLIPPER_HTTP_TIMEOUT; a .env file in the working directory is loaded first")
	fmt.Println("  - Use --json on submit, jobs, download and config for machine-readable output")
}
