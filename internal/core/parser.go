package core

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"resym/internal/shared"
	"resym/internal/types"
)

// PlaceholderID is the value assigned to every engine-declared scalar
// symbol. Real resource IDs are assigned by downstream code generation;
// the symbol table only has to be deterministic, so a single fixed
// placeholder suffices. Styleable children carry their 0-based index
// instead, and public pins keep their declared value verbatim.
const PlaceholderID = "0x7f000000"

const resAutoNamespace = "http://schemas.android.com/apk/res-auto"

// Pin records a <public> declaration: an explicit value for a (type, name)
// that overrides any placeholder once all files are merged.
type Pin struct {
	Key   types.SymbolKey
	Value string
}

// FileResult is the outcome of parsing one resource file. Symbols are in
// document order and include entries materialized from @+type/name
// declaring references; UsageRefs holds only references that must resolve.
type FileResult struct {
	LogicalPath string
	Symbols     []types.Symbol
	UsageRefs   []types.Reference
	Pins        []Pin
}

// Parser classifies and parses individual resource files.
type Parser struct {
	// VerifyXMLAttrs additionally treats res-auto namespaced attribute
	// names in non-values XML as attr usage references.
	VerifyXMLAttrs bool
}

var valuesTagHandlers = map[string]func(*valuesParser, xml.StartElement) error{
	"string":            (*valuesParser).scalarTag,
	"color":             (*valuesParser).scalarTag,
	"dimen":             (*valuesParser).scalarTag,
	"bool":              (*valuesParser).scalarTag,
	"integer":           (*valuesParser).scalarTag,
	"fraction":          (*valuesParser).scalarTag,
	"style":             (*valuesParser).scalarTag,
	"array":             (*valuesParser).arrayTag,
	"string-array":      (*valuesParser).arrayTag,
	"integer-array":     (*valuesParser).arrayTag,
	"plurals":           (*valuesParser).pluralsTag,
	"attr":              (*valuesParser).attrTag,
	"item":              (*valuesParser).itemTag,
	"declare-styleable": (*valuesParser).styleableTag,
	"public":            (*valuesParser).publicTag,
}

// ParseFile parses the resource file at absPath, classified by its
// logicalPath within the res tree. Files in unrecognized directories are
// ignored and yield an empty result.
func (p Parser) ParseFile(logicalPath, absPath string) (FileResult, error) {
	result := FileResult{LogicalPath: logicalPath}

	dir := logicalPath
	if idx := strings.IndexByte(dir, '/'); idx >= 0 {
		dir = dir[:idx]
	} else {
		// A file directly under the tree root declares nothing.
		return result, nil
	}

	resType, isValues, ok := types.ResourceTypeForDir(dir)
	if !ok {
		return result, nil
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return FileResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("failed to read resource file " + absPath).
			WithCause(err)
	}

	if isValues {
		vp := valuesParser{result: &result, logicalPath: logicalPath}
		if err := vp.parse(content); err != nil {
			return FileResult{}, err
		}
		return result, nil
	}

	name := resourceNameForFile(logicalPath)
	result.Symbols = append(result.Symbols, types.Symbol{
		IDKind: types.IDKindScalar,
		Type:   resType,
		Name:   name,
		Value:  PlaceholderID,
	})

	// Binary resources (bitmaps, fonts) carry no references.
	if !strings.HasSuffix(logicalPath, ".xml") {
		return result, nil
	}
	if err := p.scanXMLReferences(content, &result); err != nil {
		return FileResult{}, err
	}
	return result, nil
}

// resourceNameForFile derives the declared symbol name from a resource
// file's base name: extension stripped (including the nine-patch ".9"
// suffix) and normalized.
func resourceNameForFile(logicalPath string) string {
	base := path.Base(logicalPath)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.TrimSuffix(base, ".9")
	return shared.NormalizeName(base)
}

// scanXMLReferences walks a non-values XML document collecting resource
// references from every attribute value and text node.
func (p Parser) scanXMLReferences(content []byte, result *FileResult) error {
	decoder := xml.NewDecoder(bytes.NewReader(content))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return parseError(result.LogicalPath, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
					continue
				}
				collectReference(attr.Value, result)
				if p.VerifyXMLAttrs && attr.Name.Space == resAutoNamespace {
					result.UsageRefs = append(result.UsageRefs, types.Reference{
						Type: types.ResourceTypeAttr,
						Name: shared.NormalizeName(attr.Name.Local),
					})
				}
			}
		case xml.CharData:
			collectReference(string(t), result)
		}
	}
}

var referencePattern = regexp.MustCompile(`^([@?])(\+)?(?:([A-Za-z0-9_.]+):)?([a-z][a-z-]*)?/?([A-Za-z0-9_.]+)?$`)

// collectReference interprets value as a resource reference when its whole
// trimmed text matches @[+][pkg:]type/name or ?[pkg:]attr/name. References
// into other packages (e.g. @android:string/ok) are resolved outside this
// core and skipped.
func collectReference(value string, result *FileResult) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return
	}
	if trimmed[0] != '@' && trimmed[0] != '?' {
		return
	}
	if trimmed == "@null" || trimmed == "@empty" {
		return
	}
	match := referencePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return
	}
	sigil, plus, pkg, typeToken, name := match[1], match[2], match[3], match[4], match[5]
	if pkg != "" || name == "" {
		return
	}

	if sigil == "?" {
		// Theme attribute lookup.
		if typeToken != "attr" {
			return
		}
		result.UsageRefs = append(result.UsageRefs, types.Reference{
			Type: types.ResourceTypeAttr,
			Name: shared.NormalizeName(name),
		})
		return
	}

	resType, ok := types.LookupResourceType(typeToken)
	if !ok {
		return
	}
	normalized := shared.NormalizeName(name)
	if plus == "+" {
		result.Symbols = append(result.Symbols, types.Symbol{
			IDKind: types.IDKindScalar,
			Type:   resType,
			Name:   normalized,
			Value:  PlaceholderID,
		})
		return
	}
	result.UsageRefs = append(result.UsageRefs, types.Reference{
		Type: resType,
		Name: normalized,
	})
}

// valuesParser walks a values/*.xml document, dispatching each top-level
// tag to its declaration rule and scanning attributes and text for
// references along the way.
type valuesParser struct {
	result      *FileResult
	logicalPath string
	decoder     *xml.Decoder
	current     xml.StartElement
}

func (vp *valuesParser) parse(content []byte) error {
	vp.decoder = xml.NewDecoder(bytes.NewReader(content))

	// Find the document root; anything other than <resources> declares
	// nothing but is still scanned for references.
	root, err := vp.nextStart()
	if err != nil {
		return err
	}
	if root == nil || root.Name.Local != "resources" {
		return nil
	}

	for {
		token, err := vp.decoder.Token()
		if err == io.EOF {
			return parseError(vp.logicalPath, errors.New("unexpected end of document"))
		}
		if err != nil {
			return parseError(vp.logicalPath, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			vp.current = t
			handler, ok := valuesTagHandlers[t.Name.Local]
			if !ok {
				if err := vp.skipScanning(); err != nil {
					return err
				}
				continue
			}
			if err := handler(vp, t); err != nil {
				return err
			}
		case xml.CharData:
			collectReference(string(t), vp.result)
		case xml.EndElement:
			if t.Name.Local == "resources" {
				return nil
			}
		}
	}
}

func (vp *valuesParser) nextStart() (*xml.StartElement, error) {
	for {
		token, err := vp.decoder.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, parseError(vp.logicalPath, err)
		}
		if start, ok := token.(xml.StartElement); ok {
			return &start, nil
		}
	}
}

func (vp *valuesParser) nameAttr(start xml.StartElement) (string, error) {
	for _, attr := range start.Attr {
		if attr.Name.Local == "name" {
			return shared.NormalizeName(attr.Value), nil
		}
	}
	return "", parseError(vp.logicalPath,
		fmt.Errorf("<%s> element without a name attribute", start.Name.Local))
}

func (vp *valuesParser) attrValue(start xml.StartElement, name string) string {
	for _, attr := range start.Attr {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}

func (vp *valuesParser) declare(resType types.ResourceType, name string) {
	vp.result.Symbols = append(vp.result.Symbols, types.Symbol{
		IDKind: types.IDKindScalar,
		Type:   resType,
		Name:   name,
		Value:  PlaceholderID,
	})
}

// scalarTag handles string, color, dimen, bool, integer, fraction and
// style: one entry named by the tag's name attribute.
func (vp *valuesParser) scalarTag(start xml.StartElement) error {
	name, err := vp.nameAttr(start)
	if err != nil {
		return err
	}
	vp.declare(types.ResourceType(start.Name.Local), name)
	return vp.skipScanning()
}

// arrayTag handles array, string-array and integer-array: exactly one
// parent entry, children not enumerated.
func (vp *valuesParser) arrayTag(start xml.StartElement) error {
	name, err := vp.nameAttr(start)
	if err != nil {
		return err
	}
	vp.declare(types.ResourceTypeArray, name)
	return vp.skipScanning()
}

func (vp *valuesParser) pluralsTag(start xml.StartElement) error {
	name, err := vp.nameAttr(start)
	if err != nil {
		return err
	}
	vp.declare(types.ResourceTypePlurals, name)
	return vp.skipScanning()
}

// attrTag handles a top-level <attr> not nested in a declare-styleable.
func (vp *valuesParser) attrTag(start xml.StartElement) error {
	name, err := vp.nameAttr(start)
	if err != nil {
		return err
	}
	vp.declare(types.ResourceTypeAttr, name)
	return vp.skipScanning()
}

// itemTag handles <item name="..." type="...">, which declares a symbol of
// the type named by its type attribute.
func (vp *valuesParser) itemTag(start xml.StartElement) error {
	typeToken := vp.attrValue(start, "type")
	resType, ok := types.LookupResourceType(typeToken)
	if !ok {
		return parseError(vp.logicalPath,
			fmt.Errorf("<item> with unknown type %q", typeToken))
	}
	name, err := vp.nameAttr(start)
	if err != nil {
		return err
	}
	vp.declare(resType, name)
	return vp.skipScanning()
}

// styleableTag handles declare-styleable: one int[] parent entry plus one
// attr child entry per nested <attr>, valued by its 0-based index in
// document order.
func (vp *valuesParser) styleableTag(start xml.StartElement) error {
	name, err := vp.nameAttr(start)
	if err != nil {
		return err
	}
	vp.result.Symbols = append(vp.result.Symbols, types.Symbol{
		IDKind: types.IDKindIntArray,
		Type:   types.ResourceTypeStyleable,
		Name:   name,
		Value:  PlaceholderID,
	})

	index := 0
	depth := 1
	for depth > 0 {
		token, err := vp.decoder.Token()
		if err != nil {
			return parseError(vp.logicalPath, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if depth == 1 && t.Name.Local == "attr" {
				attrName, err := vp.nameAttr(t)
				if err != nil {
					return err
				}
				vp.result.Symbols = append(vp.result.Symbols, types.Symbol{
					IDKind: types.IDKindScalar,
					Type:   types.ResourceTypeAttr,
					Name:   attrName,
					Value:  strconv.Itoa(index),
				})
				index++
			}
			vp.scanStart(t)
			depth++
		case xml.CharData:
			collectReference(string(t), vp.result)
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

// publicTag pins an explicit value for a (type, name), applied after all
// files merge.
func (vp *valuesParser) publicTag(start xml.StartElement) error {
	typeToken := vp.attrValue(start, "type")
	resType, ok := types.LookupResourceType(typeToken)
	if !ok {
		return parseError(vp.logicalPath,
			fmt.Errorf("<public> with unknown type %q", typeToken))
	}
	name, err := vp.nameAttr(start)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(vp.attrValue(start, "id"))
	if id == "" {
		return parseError(vp.logicalPath,
			fmt.Errorf("<public> for %s/%s without an id attribute", resType, name))
	}
	vp.result.Pins = append(vp.result.Pins, Pin{
		Key:   types.SymbolKey{Type: resType, Name: name},
		Value: id,
	})
	return vp.skipScanning()
}

// skipScanning consumes the current element's subtree, still collecting
// references from nested attributes and text.
func (vp *valuesParser) skipScanning() error {
	vp.scanStart(vp.current)
	depth := 1
	for depth > 0 {
		token, err := vp.decoder.Token()
		if err != nil {
			return parseError(vp.logicalPath, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			vp.scanStart(t)
			depth++
		case xml.CharData:
			collectReference(string(t), vp.result)
		case xml.EndElement:
			depth--
		}
	}
	return nil
}

func (vp *valuesParser) scanStart(start xml.StartElement) {
	for _, attr := range start.Attr {
		if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
			continue
		}
		collectReference(attr.Value, vp.result)
	}
}

// parseError wraps a malformed-file failure, keeping the xml decoder's
// line number when it reports one.
func parseError(logicalPath string, err error) error {
	var syntax *xml.SyntaxError
	var msg string
	if errors.As(err, &syntax) {
		msg = fmt.Sprintf("parse: %s:%d: %s", logicalPath, syntax.Line, syntax.Msg)
	} else {
		msg = fmt.Sprintf("parse: %s: %v", logicalPath, err)
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg).
		WithCause(err)
}
