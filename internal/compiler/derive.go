package compiler

import (
	"regexp"
	"strings"
)

var nonIdentRun = regexp.MustCompile(`[^a-z0-9_]+`)

// deriveModID lowercases name, replaces runs of non-identifier characters
// with underscores, collapses repeats, and strips leading/trailing
// underscores (spec.md §4.2).
func deriveModID(name string) string {
	lower := strings.ToLower(name)
	collapsed := nonIdentRun.ReplaceAllString(lower, "_")
	for strings.Contains(collapsed, "__") {
		collapsed = strings.ReplaceAll(collapsed, "__", "_")
	}
	return strings.Trim(collapsed, "_")
}

// deriveBasePackage returns the Java base package for modID.
func deriveBasePackage(modID string) string {
	return "com.example." + modID
}

// deriveMainClassName returns PascalCase(modID) + "Mod".
func deriveMainClassName(modID string) string {
	return pascalCase(modID) + "Mod"
}

// deriveRegistryID returns "<modID>:<snake_case(name)>".
func deriveRegistryID(modID, name string) string {
	return modID + ":" + snakeCase(name)
}

// deriveJavaClassName returns PascalCase(name) + kindSuffix, e.g.
// "RubySword" + "Item" -> "RubySwordItem", or for tools
// PascalCase(name) + PascalCase(kind) + "Item" (e.g. "PickaxeItem").
func deriveJavaClassName(name, suffix string) string {
	return pascalCase(name) + suffix
}

// deriveRegistrationConstant returns SCREAMING_SNAKE_CASE(name).
func deriveRegistrationConstant(name string) string {
	return strings.ToUpper(snakeCase(name))
}

// ToolJavaSuffix maps a tool kind to its Java class suffix, e.g.
// "pickaxe" -> "PickaxeItem". Exported so code generation can derive the
// same superclass name the IR's tool fields are built from, rather than
// re-deriving it independently.
func ToolJavaSuffix(toolKind string) string {
	return pascalCase(toolKind) + "Item"
}

func snakeCase(name string) string {
	lower := strings.ToLower(name)
	return strings.Trim(nonIdentRun.ReplaceAllString(lower, "_"), "_")
}

func pascalCase(name string) string {
	fields := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	})
	var b strings.Builder
	for _, f := range fields {
		if f == "" {
			continue
		}
		b.WriteString(strings.ToUpper(f[:1]))
		b.WriteString(strings.ToLower(f[1:]))
	}
	return b.String()
}
