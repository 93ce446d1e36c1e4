package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

// Compile is the isolated driver's whole behavior: read the two input
// list files, run the compilation engine, and atomically publish the
// symbol table. It holds no state across invocations and touches no files
// beyond the three named in the request.
func (s Service) Compile(ctx context.Context, req CompileRequest) (CompileResult, error) {
	resourcePaths, err := readResourcePairs(req.ResourcePairsFile)
	if err != nil {
		return CompileResult{}, err
	}
	depSymbolPaths, err := readDepSymbolPaths(req.DepSymbolsFile)
	if err != nil {
		return CompileResult{}, err
	}

	engine := s.Engine
	engine.Parser.VerifyXMLAttrs = req.VerifyXMLAttrs
	table, err := engine.Compile(ctx, resourcePaths, depSymbolPaths)
	if err != nil {
		return CompileResult{}, err
	}
	if err := s.Symbols.Write(req.OutputFile, table); err != nil {
		return CompileResult{}, err
	}

	log.Ctx(ctx).Debug().
		Int("symbols", table.Len()).
		Str("output", req.OutputFile).
		Msg("symbol table written")
	return CompileResult{Symbols: table.Len(), OutputFile: req.OutputFile}, nil
}

// readResourcePairs parses the "logicalPath absolutePath" list. Any line
// with a token count other than two is fatal.
func readResourcePairs(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read resource pairs file " + path).
			WithCause(err)
	}
	pairs := map[string]string{}
	trimmed := strings.TrimRight(string(content), "\n")
	if trimmed == "" {
		return pairs, nil
	}
	for i, line := range strings.Split(trimmed, "\n") {
		tokens := strings.Fields(line)
		if len(tokens) != 2 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("parse: %s:%d: expected 2 tokens, got %d", path, i+1, len(tokens)))
		}
		pairs[tokens[0]] = tokens[1]
	}
	return pairs, nil
}

func readDepSymbolPaths(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read dependency symbols file " + path).
			WithCause(err)
	}
	var paths []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	return paths, nil
}
