// Command formquery encodes, decodes and interactively edits listing
// queries against a control schema.
//
//	formquery decode -query '?cuadricula&year=1950'
//	formquery encode view=cuadricula gen-drama=on year_min=1950
//	formquery prompt -query '?titulo'
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	formquery "github.com/goliatone/go-formquery"
	codec "github.com/goliatone/go-formquery/pkg/formquery"
	"github.com/goliatone/go-formquery/pkg/render"
	"github.com/goliatone/go-formquery/pkg/renderers/tui"
	"github.com/goliatone/go-formquery/pkg/schema"
)

func main() {
	schemaRef := flag.String("schema", os.Getenv("FORMQUERY_SCHEMA"), "schema file, directory or OpenAPI document (bundled schema if empty)")
	opID := flag.String("operation", os.Getenv("FORMQUERY_OPERATION"), "OpenAPI operation ID when -schema is an OpenAPI document")
	query := flag.String("query", "", "query string to start from")
	format := flag.String("format", string(tui.OutputFormatQuery), "prompt output: query, json or pretty")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	cfg, err := formquery.ResolveSchema(ctx, *schemaRef, *opID)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	switch cmd := flag.Arg(0); cmd {
	case "decode":
		state, rejected := codec.Decode(cfg, *query)
		printJSON(map[string]any{
			"search":   codec.Search(cfg, state),
			"state":    state,
			"rejected": rejected,
		})
	case "encode":
		form := codec.NewForm(cfg)
		if *query != "" {
			form.Load(*query)
		}
		if err := assign(cfg, form, flag.Args()[1:]); err != nil {
			log.Fatalf("Failed to encode: %v", err)
		}
		fmt.Println(codec.Search(cfg, form.Read()))
	case "prompt":
		form := codec.NewForm(cfg)
		rejected := form.Load(*query)
		r := tui.New(tui.WithOutputFormat(tui.OutputFormat(*format)))
		out, err := r.Render(ctx, render.View{Form: form, Rejected: rejected})
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}
		fmt.Println(string(out))
	default:
		log.Fatalf("unknown command %q", cmd)
	}
}

// assign applies id=value arguments. Checkboxes take on/off, true/false or
// 1/0.
func assign(cfg *schema.Config, form *codec.Form, args []string) error {
	for _, arg := range args {
		id, value, _ := strings.Cut(arg, "=")
		ctrl, ok := cfg.Control(id)
		if !ok {
			return fmt.Errorf("%w %q", codec.ErrUnknownControl, id)
		}
		if ctrl.Kind == schema.KindCheckbox {
			switch strings.ToLower(value) {
			case "", "on", "true", "1":
				_ = form.SetChecked(id, true)
			default:
				_ = form.SetChecked(id, false)
			}
			continue
		}
		if err := form.Set(id, value); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: formquery [flags] decode|encode [id=value ...]|prompt\n")
	flag.PrintDefaults()
}
