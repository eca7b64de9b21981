package scaffold

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dyluth/corkboard/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// Created lists the files Initialize writes, relative to the target directory.
var Created = []string{config.DefaultPath, ".env.example"}

// Initialize writes a starter corkboard.yml and .env.example into dir.
// Existing files are overwritten only if force is true.
func Initialize(dir string, force bool) error {
	if !force {
		if err := CheckExisting(dir); err != nil {
			return err
		}
	}

	files, err := getTemplateFiles(dir)
	if err != nil {
		return err
	}

	if err := writeFiles(files); err != nil {
		return err
	}

	return validateCreatedFiles(dir)
}

// getTemplateFiles reads the embedded templates and maps them to their targets
func getTemplateFiles(dir string) ([]FileInfo, error) {
	templates := map[string]string{
		config.DefaultPath: "templates/corkboard.yml.tmpl",
		".env.example":     "templates/env.tmpl",
	}

	files := make([]FileInfo, 0, len(Created))
	for _, name := range Created {
		content, err := templatesFS.ReadFile(templates[name])
		if err != nil {
			return nil, fmt.Errorf("failed to read %s template: %w", name, err)
		}
		files = append(files, FileInfo{
			Path:        filepath.Join(dir, name),
			Content:     content,
			Permissions: 0644,
		})
	}
	return files, nil
}

// writeFiles writes all template files to disk
func writeFiles(files []FileInfo) error {
	for _, file := range files {
		if err := os.WriteFile(file.Path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}
	return nil
}

// validateCreatedFiles checks that the written corkboard.yml parses and
// passes config validation
func validateCreatedFiles(dir string) error {
	path := filepath.Join(dir, config.DefaultPath)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read created %s: %w", config.DefaultPath, err)
	}

	var c config.Config
	if err := yaml.Unmarshal(content, &c); err != nil {
		return fmt.Errorf("created %s is not valid YAML: %w", config.DefaultPath, err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("created %s is invalid: %w", config.DefaultPath, err)
	}
	return nil
}

// PrintSuccess writes the success message listing created files
func PrintSuccess(w io.Writer) {
	fmt.Fprintln(w, "\nCreated:")
	for _, name := range Created {
		fmt.Fprintf(w, "  ✓ %s\n", name)
	}
	fmt.Fprintln(w, "\nNext steps:")
	fmt.Fprintln(w, "  1. Point redis.url at your Redis server, or set store: sqlite")
	fmt.Fprintln(w, "  2. Run 'corkboard ping' to check the store is reachable")
	fmt.Fprintln(w, "  3. Run 'corkboard create --name <board> --creator <you>'")
}
