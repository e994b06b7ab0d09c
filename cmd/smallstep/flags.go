package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"git.sr.ht/~sircmpwn/getopt"

	"simple/smallstep-go/pkg/trace"
)

type colorMode int

const (
	colorAuto colorMode = iota
	colorOn
	colorOff
)

type config struct {
	maxSteps    int
	style       trace.Style
	color       colorMode
	quiet       bool
	parallelism int
	writePath   string
	help        bool
}

func defaultConfig() (config, error) {
	cfg := config{}
	if raw := strings.TrimSpace(os.Getenv("SMALLSTEP_MAX_STEPS")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("invalid SMALLSTEP_MAX_STEPS %q", raw)
		}
		cfg.maxSteps = n
	}
	return cfg, nil
}

// parseFlags reads the options listed in optstring (getopt syntax) and returns
// the remaining operands.
func parseFlags(cmd string, args []string, optstring string) (config, []string, error) {
	cfg, err := defaultConfig()
	if err != nil {
		return cfg, nil, err
	}
	argv := append([]string{"smallstep " + cmd}, args...)
	opts, optind, err := getopt.Getopts(argv, optstring)
	if err != nil {
		return cfg, nil, fmt.Errorf("smallstep %s: %w", cmd, err)
	}
	for _, opt := range opts {
		switch opt.Option {
		case 'm':
			n, err := strconv.Atoi(opt.Value)
			if err != nil || n < 0 {
				return cfg, nil, fmt.Errorf("invalid -m parameter %q", opt.Value)
			}
			cfg.maxSteps = n
		case 'j':
			n, err := strconv.Atoi(opt.Value)
			if err != nil || n < 0 {
				return cfg, nil, fmt.Errorf("invalid -j parameter %q", opt.Value)
			}
			cfg.parallelism = n
		case 'i':
			cfg.style = trace.Inspect
		case 'q':
			cfg.quiet = true
		case 'c':
			cfg.color = colorOn
		case 'C':
			cfg.color = colorOff
		case 'w':
			cfg.writePath = opt.Value
		case 'h':
			cfg.help = true
		}
	}
	return cfg, argv[optind:], nil
}

func (cfg config) colorsFor(w io.Writer) *trace.Colors {
	switch cfg.color {
	case colorOn:
		return trace.NewColors()
	case colorOff:
		return nil
	default:
		return trace.ColorsFor(w)
	}
}
