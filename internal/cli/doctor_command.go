package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"shorts-clipper/internal/config"
	"shorts-clipper/internal/logging"
)

const doctorTimeout = 5 * time.Second

type doctorResult struct {
	OK     bool          `json:"ok"`
	Checks []doctorCheck `json:"checks"`
}

type doctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func runDoctor(args []string) error {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	rt := bindRuntimeFlags(fs)
	outDir := fs.String("out-dir", ".", "directory downloads will be written to")
	jsonOut := fs.Bool("json", false, "print JSON output")
	fs.SetOutput(flag.CommandLine.Output())
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := rt.load()
	if err != nil {
		return err
	}
	res := doctor(cfg, strings.TrimSpace(*outDir))
	if *jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else {
		for _, c := range res.Checks {
			status := "ok"
			if !c.OK {
				status = "fail"
			}
			fmt.Printf("%s: %s (%s)\n", c.Name, status, c.Message)
		}
	}
	if !res.OK {
		return errors.New("doctor checks failed")
	}
	if !*jsonOut {
		fmt.Println("doctor: all checks passed")
	}
	return nil
}

func doctor(cfg config.Config, outDir string) doctorResult {
	checks := make([]doctorCheck, 0, 4)
	checks = append(checks, doctorCheck{
		Name:    "config",
		OK:      true,
		Message: defaultIfEmpty(cfg.ConfigFile, "defaults + environment"),
	})

	ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
	defer cancel()
	client := newClient(cfg, logging.Discard())
	jobs, err := client.ListJobs(ctx)
	backend := doctorCheck{Name: "backend", OK: err == nil}
	if err != nil {
		backend.Message = fmt.Sprintf("%s unreachable: %v", client.BaseURL(), err)
	} else {
		backend.Message = fmt.Sprintf("%s answered with %d jobs", client.BaseURL(), len(jobs))
	}
	checks = append(checks, backend)

	if cfg.LogFile != "" {
		ok, msg := ensureWritableDir(filepath.Dir(cfg.LogFile))
		checks = append(checks, doctorCheck{Name: "directory:log", OK: ok, Message: msg})
	}
	ok, msg := ensureWritableDir(defaultIfEmpty(outDir, "."))
	checks = append(checks, doctorCheck{Name: "directory:downloads", OK: ok, Message: msg})

	res := doctorResult{OK: true, Checks: checks}
	for _, c := range checks {
		if !c.OK {
			res.OK = false
			break
		}
	}
	return res
}

func ensureWritableDir(path string) (bool, string) {
	if strings.TrimSpace(path) == "" {
		return false, "empty path"
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return false, err.Error()
	}
	f, err := os.CreateTemp(path, "shorts-clipper-check-*.tmp")
	if err != nil {
		return false, err.Error()
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return true, "writable"
}
