// Command generate-template writes the static retainer agreement templates
// to disk, one file per placeholder syntax. The merge-field variant is
// uploaded to the practice-management document engine; the path variant is
// pasted into automation-platform merge steps.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"caseintake-backend/retainer"
)

func main() {
	outDir := "./templates"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	templates := []struct {
		filename string
		renderer retainer.TemplateRenderer
	}{
		{"retainer_merge_fields.txt", retainer.MergeFieldRenderer{}},
		{"retainer_paths.txt", retainer.PathTokenRenderer{}},
	}

	for _, t := range templates {
		path := filepath.Join(outDir, t.filename)
		content := retainer.RenderTemplate(t.renderer)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		log.Printf("✓ Wrote %s", path)
	}

	fmt.Println("\n✅ Templates generated successfully!")
	fmt.Printf("   Fields referenced: %d\n", len(retainer.TemplateTokens()))
}
