package main

import (
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"pdclean/internal/config"
	"pdclean/internal/refs"
	"pdclean/internal/report"
)

func main() {
	var (
		flagRefDir  string
		flagTable   string
		flagOfficer string
	)
	flag.StringVar(&flagRefDir, "ref-dir", "", "Reference table directory (default from REF_DIR)")
	flag.StringVar(&flagTable, "table", "beat", "Table to resolve codes against: beat, unit or category")
	flag.StringVar(&flagOfficer, "officer", "", "Find roster officers by last,first[,birth_year]")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if flagRefDir != "" {
		cfg.RefDir = flagRefDir
	}

	reg, err := refs.Load(cfg.RefDir)
	if err != nil {
		log.Fatalf("[FAIL] %v", err)
	}
	log.Printf("[OK ] reference tables loaded from %s", cfg.RefDir)
	if err := report.Refs(os.Stdout, reg); err != nil {
		log.Fatalf("%v", err)
	}

	if flagOfficer != "" {
		findOfficers(reg, flagOfficer)
	}

	codes := flag.Args()
	if len(codes) == 0 {
		return
	}
	var t *refs.Table
	switch flagTable {
	case "beat":
		t = reg.Beat
	case "unit":
		t = reg.Unit
	case "category":
		t = reg.Category
	default:
		log.Fatalf("unknown table %q (want beat, unit or category)", flagTable)
	}

	labels := map[string]refs.Label{}
	errs := map[string]error{}
	for _, c := range codes {
		l, err := t.Lookup(c)
		if err != nil {
			errs[c] = err
			continue
		}
		labels[c] = l
	}
	os.Stdout.WriteString("\n")
	if err := report.Lookups(os.Stdout, t.Name(), labels, errs); err != nil {
		log.Fatalf("%v", err)
	}
	if len(errs) > 0 {
		log.Printf("[FAIL] %d of %d codes unmapped", len(errs), len(codes))
		os.Exit(1)
	}
}

func findOfficers(reg *refs.Registry, query string) {
	parts := strings.Split(query, ",")
	if len(parts) < 2 || len(parts) > 3 {
		log.Fatalf("-officer wants last,first[,birth_year], got %q", query)
	}
	var year int64
	if len(parts) == 3 {
		y, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
		if err != nil {
			log.Fatalf("-officer birth year: %v", err)
		}
		year = y
	}
	found, err := reg.FindOfficers(parts[0], parts[1], year)
	if err != nil {
		log.Fatalf("[FAIL] %v", err)
	}
	os.Stdout.WriteString("\n")
	if err := report.Officers(os.Stdout, found); err != nil {
		log.Fatalf("%v", err)
	}
	if len(found) == 0 {
		log.Printf("[FAIL] no officer matches %q", query)
		os.Exit(1)
	}
	log.Printf("[OK ] %d officer(s) match %q", len(found), query)
}
