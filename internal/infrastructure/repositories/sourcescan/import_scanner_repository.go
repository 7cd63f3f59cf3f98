package sourcescan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// bundles and generated files past this size are not parsed
const maxFileSize = 2 << 20

// ImportScannerRepository finds the packages imported by JavaScript and
// TypeScript sources with tree-sitter.
type ImportScannerRepository struct {
	exclude map[string]struct{}
}

// NewImportScannerRepository creates a scanner skipping the configured directories.
func NewImportScannerRepository(settings *entities.Settings) *ImportScannerRepository {
	exclude := make(map[string]struct{}, len(settings.Scan.Exclude))
	for _, name := range settings.Scan.Exclude {
		exclude[name] = struct{}{}
	}
	return &ImportScannerRepository{exclude: exclude}
}

func languageFor(path string) *sitter.Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage()
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return nil
	}
}

// FindImportedPackageNames walks projectPath and returns the package names
// referenced by import statements, re-exports, require() and import() calls.
// Relative paths and node: builtins are not packages and are left out.
func (it *ImportScannerRepository) FindImportedPackageNames(
	ctx context.Context,
	projectPath string,
) (map[string]struct{}, error) {
	parsers := make(map[*sitter.Language]*sitter.Parser)
	defer func() {
		for _, parser := range parsers {
			parser.Close()
		}
	}()

	imported := make(map[string]struct{})
	files := 0

	walkErr := filepath.WalkDir(projectPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if _, skip := it.exclude[d.Name()]; skip && path != projectPath {
				return filepath.SkipDir
			}
			return nil
		}

		language := languageFor(path)
		if language == nil {
			return nil
		}
		parser, ok := parsers[language]
		if !ok {
			parser = sitter.NewParser()
			parser.SetLanguage(language)
			parsers[language] = parser
		}

		specifiers, parseErr := scanFile(ctx, parser, path)
		if parseErr != nil {
			logger.Debugf("[scan] Skipping %s: %v", path, parseErr)
			return nil
		}
		files++
		for _, specifier := range specifiers {
			if name := packageName(specifier); name != "" {
				imported[name] = struct{}{}
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to scan sources of %q: %w", projectPath, walkErr)
	}

	logger.Debugf("[scan] %d source files, %d imported packages in %s", files, len(imported), projectPath)
	return imported, nil
}

func scanFile(ctx context.Context, parser *sitter.Parser, path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("file too large (%d bytes)", info.Size())
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	return extractSpecifiers(tree.RootNode(), source), nil
}

// extractSpecifiers walks the syntax tree with an explicit stack.
func extractSpecifiers(root *sitter.Node, source []byte) []string {
	var specifiers []string
	stack := []*sitter.Node{root}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}

		switch node.Type() {
		case "import_statement", "export_statement":
			if specifier := moduleSource(node, source); specifier != "" {
				specifiers = append(specifiers, specifier)
			}
		case "call_expression":
			if specifier := callSource(node, source); specifier != "" {
				specifiers = append(specifiers, specifier)
			}
		}

		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.Child(i))
		}
	}
	return specifiers
}

// moduleSource returns the quoted module of `import ... from "x"`,
// `export ... from "x"` and TypeScript's `import x = require("x")`.
func moduleSource(node *sitter.Node, source []byte) string {
	if module := node.ChildByFieldName("source"); module != nil {
		return stringValue(module, source)
	}
	if node.Type() != "import_statement" {
		return ""
	}
	for i := range int(node.ChildCount()) {
		child := node.Child(i)
		if child.Type() != "import_require_clause" {
			continue
		}
		for j := range int(child.ChildCount()) {
			if grandchild := child.Child(j); grandchild.Type() == "string" {
				return stringValue(grandchild, source)
			}
		}
	}
	return ""
}

// callSource returns the literal argument of require("x") and import("x").
func callSource(node *sitter.Node, source []byte) string {
	function := node.ChildByFieldName("function")
	if function == nil {
		return ""
	}
	switch function.Type() {
	case "import":
	case "identifier":
		if function.Content(source) != "require" {
			return ""
		}
	default:
		return ""
	}

	arguments := node.ChildByFieldName("arguments")
	if arguments == nil || arguments.NamedChildCount() == 0 {
		return ""
	}
	first := arguments.NamedChild(0)
	if first.Type() != "string" {
		return ""
	}
	return stringValue(first, source)
}

func stringValue(node *sitter.Node, source []byte) string {
	for i := range int(node.NamedChildCount()) {
		if child := node.NamedChild(i); child.Type() == "string_fragment" {
			return child.Content(source)
		}
	}
	return strings.Trim(node.Content(source), "\"'`")
}

// packageName maps an import specifier to the package that provides it:
// "lodash/fp" is lodash and "@babel/core/lib/x" is @babel/core.
func packageName(specifier string) string {
	specifier = strings.TrimSpace(specifier)
	switch {
	case specifier == "",
		strings.HasPrefix(specifier, "."),
		strings.HasPrefix(specifier, "/"),
		strings.HasPrefix(specifier, "#"),
		strings.HasPrefix(specifier, "node:"),
		strings.Contains(specifier, "://"):
		return ""
	}

	segments := strings.SplitN(specifier, "/", 3)
	if strings.HasPrefix(specifier, "@") {
		if len(segments) < 2 || segments[1] == "" {
			return ""
		}
		return segments[0] + "/" + segments[1]
	}
	return segments[0]
}
