package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/cnpp-xyz/go-cnpp/layout"
)

func layouts(args []string) error {
	fs := flag.NewFlagSet("layouts", flag.ExitOnError)
	outputJSON := fs.Bool("json", false, "Output the catalog as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: cnpp layouts [options]

List the built-in layout catalog. Any of these names works with the
--layout flag of solve, batch, prove, and validate.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	type entry struct {
		Name   string `json:"name"`
		Rows   int    `json:"rows"`
		Cols   int    `json:"cols"`
		Domain int    `json:"domain"`
		Cells  int    `json:"cells"`
		Groups int    `json:"groups"`
	}
	var entries []entry
	for _, name := range layout.Names() {
		l, err := layout.ByName(name)
		if err != nil {
			return err
		}
		entries = append(entries, entry{
			Name:   l.Name,
			Rows:   l.Rows,
			Cols:   l.Cols,
			Domain: l.Domain,
			Cells:  l.Cells(),
			Groups: len(l.Groups),
		})
	}

	if *outputJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println("=== Layout Catalog ===")
	fmt.Printf("%-10s %7s %7s %6s %7s\n", "name", "size", "domain", "cells", "groups")
	for _, e := range entries {
		fmt.Printf("%-10s %3dx%-3d %7d %6d %7d\n",
			e.Name, e.Rows, e.Cols, e.Domain, e.Cells, e.Groups)
	}
	return nil
}
