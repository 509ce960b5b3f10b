package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pdclean/internal/config"
	"pdclean/internal/csvin"
	"pdclean/internal/csvout"
	"pdclean/internal/db"
	"pdclean/internal/iox"
	"pdclean/internal/pipeline"
	"pdclean/internal/recipes"
	"pdclean/internal/refs"
	"pdclean/internal/report"
	"pdclean/internal/rules"
	"pdclean/internal/source"
	"pdclean/internal/store"
	"pdclean/internal/table"
)

func main() {
	var (
		flagRecipe    string
		flagIn        string
		flagOut       string
		flagRefDir    string
		flagRules     string
		flagOverrides string
		flagWorkers   int
		flagPlan      bool
		flagList      bool
		flagSummary   bool
		flagTable     string
		flagReplace   bool
	)
	flag.StringVar(&flagRecipe, "recipe", "", "Dataset recipe to apply (see -list)")
	flag.StringVar(&flagIn, "in", "", "Input file (.csv or .jsonl, optionally .gz)")
	flag.StringVar(&flagOut, "out", "", "Output CSV path (.gz compresses); empty skips the file")
	flag.StringVar(&flagRefDir, "ref-dir", "", "Reference table directory (default from REF_DIR)")
	flag.StringVar(&flagRules, "rules", "", "Rule file overriding built-in cascades (default from RULES_PATH)")
	flag.StringVar(&flagOverrides, "overrides", "", "YAML vocabulary overrides (default from RECIPE_OVERRIDES)")
	flag.IntVar(&flagWorkers, "workers", 0, "Columns normalized concurrently per step (default from WORKERS)")
	flag.BoolVar(&flagPlan, "plan", false, "Print the recipe steps and exit")
	flag.BoolVar(&flagList, "list", false, "List recipes and exit")
	flag.BoolVar(&flagSummary, "summary", false, "Print a per-column summary of the cleaned batch")
	flag.StringVar(&flagTable, "load-table", "", "Load the cleaned batch into this MySQL table")
	flag.BoolVar(&flagReplace, "replace", false, "With -load-table, delete existing rows first")
	flag.Parse()

	if flagList {
		for _, name := range recipes.Names() {
			r, _ := recipes.Lookup(name)
			fmt.Printf("%-18s %s\n", name, r.Description)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if flagRefDir != "" {
		cfg.RefDir = flagRefDir
	}
	if flagRules != "" {
		cfg.RulesPath = flagRules
	}
	if flagOverrides != "" {
		cfg.OverridesPath = flagOverrides
	}
	if flagWorkers > 0 {
		cfg.Workers = flagWorkers
	}

	recipe, err := recipes.Lookup(flagRecipe)
	if err != nil {
		log.Fatalf("%v", err)
	}
	ruleSet, err := rules.LoadFile(cfg.RulesPath)
	if err != nil {
		log.Fatalf("rules load error: %v", err)
	}
	overrides, err := recipes.LoadOverrides(cfg.OverridesPath)
	if err != nil {
		log.Fatalf("overrides load error: %v", err)
	}
	env := recipes.Env{Rules: ruleSet, Overrides: overrides}
	if recipe.NeedsRefs {
		if err := refs.Init(cfg.RefDir); err != nil {
			log.Fatalf("reference tables: %v", err)
		}
		env.Refs, _ = refs.Default()
		log.Printf("[INFO] reference tables loaded from %s", cfg.RefDir)
	}

	opt := pipeline.Options{
		Workers: cfg.Workers,
		OnStep: func(e pipeline.StepEvent) {
			log.Printf("[RUN] %2d %-24s %-6s %v (%s)", e.Index+1, e.Step, e.Kind, e.Columns, e.Elapsed.Round(time.Microsecond))
		},
	}
	p, err := recipe.Build(env, opt)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if flagPlan {
		if err := report.Plan(os.Stdout, p); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}
	if flagIn == "" {
		log.Fatalf("-in is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	in, err := source.Read(flagIn, source.Options{CSV: csvin.Options{InferNumbers: true}})
	if err != nil {
		log.Fatalf("[FAIL] read: %v", err)
	}
	log.Printf("[INFO] recipe=%s in=%s rows=%d cols=%d", recipe.Name, flagIn, in.Rows(), len(in.Names()))

	out, err := p.Run(ctx, in)
	if err != nil {
		log.Fatalf("[FAIL] %s: %v", recipe.Name, err)
	}
	log.Printf("[OK ] cleaned rows=%d cols=%d in %s", out.Rows(), len(out.Names()), time.Since(start).Round(time.Millisecond))

	if flagOut != "" {
		if err := writeCSV(flagOut, out); err != nil {
			log.Fatalf("[FAIL] write: %v", err)
		}
		log.Printf("[OK ] wrote %s", flagOut)
	}
	if flagSummary {
		if err := report.Summary(os.Stdout, out); err != nil {
			log.Fatalf("%v", err)
		}
	}

	if flagTable == "" {
		return
	}
	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer conn.Close()

	lctx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout*10)
	defer cancel()
	n, err := store.Load(lctx, conn, out, store.Options{
		Table:       flagTable,
		Chunk:       cfg.LoadChunk,
		LockTimeout: cfg.LockTimeout,
		Replace:     flagReplace,
	})
	if err != nil {
		log.Fatalf("[FAIL] load %s: %v", flagTable, err)
	}
	log.Printf("[OK ] loaded %d rows into %s.%s", n, cfg.MySQLDB, flagTable)
}

func writeCSV(path string, b *table.Batch) error {
	w, err := iox.CreateAuto(path)
	if err != nil {
		return err
	}
	if err := csvout.WriteBatch(w, b); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
