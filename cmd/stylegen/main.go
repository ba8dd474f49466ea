// Stylegen tool - turns a description into a parameter set and prints it.
//
// Usage: go run ./cmd/stylegen -format yaml "a dying red giant"
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/solaris/config"
	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/stylegen"
)

// output is what gets printed. Defaults nests the set the way config files
// expect it.
type output struct {
	Prompt    string              `yaml:"prompt" json:"prompt"`
	Reasoning string              `yaml:"reasoning" json:"reasoning"`
	Fallback  bool                `yaml:"fallback" json:"fallback"`
	Clamped   []params.Field      `yaml:"clamped,omitempty" json:"clamped,omitempty"`
	Defaults  params.ParameterSet `yaml:"defaults" json:"config"`
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	format := flag.String("format", "yaml", "Output format: yaml or json")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	prompt := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if prompt == "" {
		fmt.Fprintln(os.Stderr, "usage: stylegen [flags] <description>")
		os.Exit(2)
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res := stylegen.FromConfig(ctx, config.Cfg()).Generate(ctx, prompt)
	out := output{
		Prompt:    res.Prompt,
		Reasoning: res.Reasoning,
		Fallback:  res.Fallback,
		Clamped:   res.Clamped,
		Defaults:  res.Config,
	}

	var err error
	switch *format {
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		err = enc.Encode(out)
		if err == nil {
			err = enc.Close()
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(out)
	default:
		err = fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write style: %v\n", err)
		os.Exit(1)
	}
}
