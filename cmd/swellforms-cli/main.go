package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bytedance/sonic"

	swellforms "github.com/swellforms/swellforms-go"
	"github.com/swellforms/swellforms-go/internal/cliconfig"
	"github.com/swellforms/swellforms-go/pkg/form"
	"github.com/swellforms/swellforms-go/pkg/prompt"
)

func main() {
	formID := flag.String("form", "", "form identifier")
	baseURL := flag.String("base-url", "", "API base URL (defaults to production)")
	configPath := flag.String("config", "", "YAML profile with defaults")
	valuesJSON := flag.String("values", "", "field values as a JSON object")
	interactive := flag.Bool("interactive", false, "prompt for field values")
	validateOnly := flag.Bool("validate-only", false, "validate without submitting")
	timeout := flag.Duration("timeout", 0, "per-request timeout (default 15s)")
	flag.Parse()

	cfg := &cliconfig.Config{}
	if *configPath != "" {
		loaded, err := cliconfig.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	id := *formID
	if id == "" {
		id = cfg.FormID
	}
	if id == "" {
		log.Fatal("a form id is required (-form or config form_id)")
	}

	options := buildOptions(cfg, *baseURL, *timeout)
	if *valuesJSON != "" {
		var values map[string]any
		if err := sonic.ConfigStd.Unmarshal([]byte(*valuesJSON), &values); err != nil {
			log.Fatalf("Invalid -values JSON: %v", err)
		}
		options = append(options, form.WithValues(values))
	}

	ctx := context.Background()
	f := swellforms.New(id, options...)

	defs, err := f.FetchFields(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch field definitions: %v", err)
	}

	if *interactive {
		values, err := prompt.Fill(ctx, defs, prompt.NewSurveyDriver())
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
		f.SetFields(values)
	}

	if *validateOnly {
		result, err := f.Validate(ctx)
		if err != nil {
			log.Fatalf("Validate failed: %v", err)
		}
		printJSON(result)
		if !result.Valid {
			os.Exit(1)
		}
		return
	}

	result, err := f.Submit(ctx, nil)
	if err != nil {
		log.Fatalf("Submit failed: %v", err)
	}
	printJSON(result)
	if !result.OK {
		os.Exit(1)
	}
}

func buildOptions(cfg *cliconfig.Config, baseURL string, timeout time.Duration) []form.Option {
	var options []form.Option
	if baseURL == "" {
		baseURL = cfg.BaseURL
	}
	if baseURL != "" {
		options = append(options, form.WithBaseURL(baseURL))
	}
	if timeout <= 0 && cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if timeout > 0 {
		options = append(options, form.WithTimeout(timeout))
	}
	if cfg.Origin != "" || cfg.FullURL != "" {
		options = append(options, form.WithEnv(form.StaticEnv(cfg.Origin, cfg.FullURL)))
	}
	if len(cfg.Values) > 0 {
		options = append(options, form.WithValues(cfg.Values))
	}
	return options
}

func printJSON(v any) {
	out, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode result: %v", err)
	}
	fmt.Println(string(out))
}
