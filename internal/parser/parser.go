package parser

import (
	"bytes"
	"fmt"
	"strings"

	gherkin "github.com/cucumber/gherkin/go/v26"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/chriserin/apolog/internal/tree"
)

// Parse parses Gherkin source and returns the feature as a specification
// tree with file set on every node.
func Parse(filename string, content []byte) (*tree.Node, error) {
	doc, err := gherkin.ParseGherkinDocument(bytes.NewReader(content), (&messages.Incrementing{}).NewId)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	feature := Transform(doc, filename)
	SetFile(feature, tree.File{Path: filename})
	return feature, nil
}

// SetFile sets file on n and every node below it that has none yet.
func SetFile(n *tree.Node, file tree.File) {
	if n == nil {
		return
	}
	if n.File.Path == "" {
		n.File = file
	}
	SetFile(n.Background, n.File)
	for _, child := range n.Children {
		SetFile(child, n.File)
	}
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
