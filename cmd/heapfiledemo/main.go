// Command heapfiledemo drives internal/storage/heapfile from the command
// line: it loads a YAML config, inserts one record per line of stdin,
// and prints a scan of the resulting pages. It is a harness for the
// heap-file layer and the page store underneath it, not part of either.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gopherdb/slottedpage/internal/storage/heapfile"
	"github.com/gopherdb/slottedpage/internal/storage/heappage"
)

// config mirrors the on-disk YAML settings file.
type config struct {
	PageSize         int `yaml:"page_size"`
	MaxRecordPreview int `yaml:"max_record_preview"`
}

func defaultConfig() config {
	return config{
		PageSize:         heappage.DefaultPageSize,
		MaxRecordPreview: 64,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = heappage.DefaultPageSize
	}
	return cfg, nil
}

func main() {
	fs := flag.NewFlagSet("heapfiledemo", flag.ExitOnError)
	cfgPath := fs.String("config", "", "path to a YAML config (page_size, max_record_preview)")
	fs.Parse(os.Args[1:])

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("heapfiledemo: %v", err)
	}

	f := heapfile.New(cfg.PageSize)
	log.Printf("heapfiledemo: opened heap file %s (page size %d)", f.ID, f.PageSize())

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		id, err := f.Insert(append([]byte(nil), line...))
		if err != nil {
			log.Printf("heapfiledemo: insert failed: %v", err)
			continue
		}
		fmt.Printf("inserted %s (%d bytes)\n", id, len(line))
	}
	if err := sc.Err(); err != nil {
		log.Fatalf("heapfiledemo: reading stdin: %v", err)
	}

	fmt.Printf("\n%d page(s), scanning live records:\n", f.NumPages())
	preview := make([]byte, cfg.MaxRecordPreview)
	for _, id := range f.Scan() {
		n, err := f.Get(id, preview)
		if err != nil {
			log.Printf("heapfiledemo: get %s: %v", id, err)
			continue
		}
		fmt.Printf("  %s: %q\n", id, preview[:n])
	}
}
