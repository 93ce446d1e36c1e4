package app

// CompileRequest carries the isolated driver's three file inputs.
type CompileRequest struct {
	// ResourcePairsFile lists "logicalPath absolutePath" pairs, one per
	// line, exactly two whitespace-separated tokens each.
	ResourcePairsFile string

	// DepSymbolsFile lists dependency symbol-file absolute paths, one per
	// line.
	DepSymbolsFile string

	// OutputFile is where the compiled symbol table is written.
	OutputFile string

	VerifyXMLAttrs bool
}

type CompileResult struct {
	Symbols    int
	OutputFile string
}

// BuildRequest drives the graph build command.
type BuildRequest struct {
	GraphPath string
	OutRoot   string

	// Module optionally restricts the build to one module and its
	// dependency closure.
	Module string
}

type BuildResult struct {
	// Built and Cached count rules that ran the compile step vs. rules
	// recovered from their persisted outputs.
	Built  int
	Cached int
}

type InspectRequest struct {
	SymbolFile string
}

type InspectResult struct {
	Entries int
	ByType  map[string]int
}
