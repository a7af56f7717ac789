// validate_exports checks an export directory against the artifact schemas
// without running the pipeline. Intended for CI and for checking hand-edited
// data rooms before deployment.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"practice_sale/pkg/core/schema"
)

func main() {
	dir := flag.String("dir", "exports", "directory of JSON artifacts to validate")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	v := schema.NewValidator(log)

	summary, err := v.ValidateAllExports(*dir)
	if err != nil {
		log.Error("validation failed", "error", err)
		os.Exit(1)
	}

	for _, res := range summary.Results {
		status := "ok"
		if !res.Valid {
			status = "INVALID"
		}
		fmt.Printf("%-8s %s\n", status, res.File)
		for _, e := range res.Errors {
			fmt.Printf("         error: %s\n", e)
		}
		for _, w := range res.Warnings {
			fmt.Printf("         warning: %s\n", w)
		}
	}
	fmt.Printf("%d files checked, %d valid, %d invalid, %d errors, %d warnings\n",
		summary.FilesChecked, summary.ValidFiles, summary.InvalidFiles,
		summary.TotalErrors, summary.TotalWarnings)

	if summary.InvalidFiles > 0 {
		os.Exit(1)
	}
}
