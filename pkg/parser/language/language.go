package language

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Python returns the tree-sitter language used to read Mini-Python sources.
// Mini-Python is a syntactic subset of Python 3, so the stock grammar is
// used and unsupported constructs are rejected while building the AST.
func Python() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_python.Language())
}
