package types

import "strings"

// ResourceType is the Android resource type a symbol or reference belongs
// to. The set is closed; extend it only by adding members here and to
// resourceTypes below.
type ResourceType string

const (
	ResourceTypeAnim       ResourceType = "anim"
	ResourceTypeAnimator   ResourceType = "animator"
	ResourceTypeArray      ResourceType = "array"
	ResourceTypeAttr       ResourceType = "attr"
	ResourceTypeBool       ResourceType = "bool"
	ResourceTypeColor      ResourceType = "color"
	ResourceTypeDimen      ResourceType = "dimen"
	ResourceTypeDrawable   ResourceType = "drawable"
	ResourceTypeFont       ResourceType = "font"
	ResourceTypeFraction   ResourceType = "fraction"
	ResourceTypeID         ResourceType = "id"
	ResourceTypeInteger    ResourceType = "integer"
	ResourceTypeLayout     ResourceType = "layout"
	ResourceTypeMenu       ResourceType = "menu"
	ResourceTypeMipmap     ResourceType = "mipmap"
	ResourceTypeNavigation ResourceType = "navigation"
	ResourceTypePlurals    ResourceType = "plurals"
	ResourceTypeRaw        ResourceType = "raw"
	ResourceTypeString     ResourceType = "string"
	ResourceTypeStyle      ResourceType = "style"
	ResourceTypeStyleable  ResourceType = "styleable"
	ResourceTypeTransition ResourceType = "transition"
	ResourceTypeXML        ResourceType = "xml"
)

var resourceTypes = map[string]ResourceType{
	"anim":       ResourceTypeAnim,
	"animator":   ResourceTypeAnimator,
	"array":      ResourceTypeArray,
	"attr":       ResourceTypeAttr,
	"bool":       ResourceTypeBool,
	"color":      ResourceTypeColor,
	"dimen":      ResourceTypeDimen,
	"drawable":   ResourceTypeDrawable,
	"font":       ResourceTypeFont,
	"fraction":   ResourceTypeFraction,
	"id":         ResourceTypeID,
	"integer":    ResourceTypeInteger,
	"layout":     ResourceTypeLayout,
	"menu":       ResourceTypeMenu,
	"mipmap":     ResourceTypeMipmap,
	"navigation": ResourceTypeNavigation,
	"plurals":    ResourceTypePlurals,
	"raw":        ResourceTypeRaw,
	"string":     ResourceTypeString,
	"style":      ResourceTypeStyle,
	"styleable":  ResourceTypeStyleable,
	"transition": ResourceTypeTransition,
	"xml":        ResourceTypeXML,
}

// LookupResourceType maps a bare type token (as it appears in references
// and symbol files) to its ResourceType.
func LookupResourceType(token string) (ResourceType, bool) {
	rt, ok := resourceTypes[token]
	return rt, ok
}

// ResourceTypeForDir classifies a resource directory name such as
// "drawable-hdpi" or "values-es": the segment before the first qualifier
// suffix decides the type. "values" directories hold declarations of many
// types and are reported separately.
func ResourceTypeForDir(dir string) (ResourceType, bool, bool) {
	base := dir
	if idx := strings.IndexByte(base, '-'); idx >= 0 {
		base = base[:idx]
	}
	if base == "values" {
		return "", true, true
	}
	rt, ok := resourceTypes[base]
	return rt, false, ok
}

// IDKind distinguishes scalar symbols from styleable parent arrays. The
// serialized tokens match the R.txt convention.
type IDKind string

const (
	IDKindScalar   IDKind = "int"
	IDKindIntArray IDKind = "int[]"
)

// LookupIDKind maps a serialized id-kind token back to its IDKind.
func LookupIDKind(token string) (IDKind, bool) {
	switch IDKind(token) {
	case IDKindScalar:
		return IDKindScalar, true
	case IDKindIntArray:
		return IDKindIntArray, true
	}
	return "", false
}

// PackageState tracks how a rule's effective package value was obtained.
type PackageState string

const (
	PackageUnset     PackageState = "unset"
	PackageDerived   PackageState = "derived"
	PackagePersisted PackageState = "persisted"
)

// RuleState is the build lifecycle of one resource rule instance.
type RuleState string

const (
	RuleStateUnbuilt  RuleState = "unbuilt"
	RuleStateBuilding RuleState = "building"
	RuleStateBuilt    RuleState = "built"
	RuleStateFailed   RuleState = "failed"
)
