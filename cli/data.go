// ABOUTME: Export and import CLI commands
// ABOUTME: Moves the full dataset in and out as versioned JSON
package cli

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/prm/db"
)

// ExportCommand writes the full dataset as JSON to a file or stdout
func ExportCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	output := fs.String("output", "", "Output file (default stdout)")
	_ = fs.Parse(args)

	data, err := db.ExportJSON(database)
	if err != nil {
		return fmt.Errorf("failed to export: %w", err)
	}

	if *output == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(*output, data, 0o600); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	fmt.Printf("✓ Exported to %s\n", *output)
	return nil
}

// ImportCommand loads a JSON export, upserting records by ID
func ImportCommand(database *sql.DB, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		return fmt.Errorf("import file required")
	}

	data, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	counts, err := db.Import(database, data)
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	fmt.Printf("✓ Imported %d contacts, %d interactions, %d reminders\n",
		counts.Contacts, counts.Interactions, counts.Reminders)
	return nil
}
