// Package deps infers the external packages a generated component imports
// and resolves them against a target project's manifest.
package deps

import (
	"regexp"
	"sort"
	"strings"
)

// importSpecifier matches ES import/require module specifiers in generated
// source. The scanned code is never executed.
var importSpecifier = regexp.MustCompile(`(?m)(?:from\s+|require\()\s*["']([^"']+)["']`)

// catalogue is the fixed set of bare package names the detector recognizes.
var catalogue = map[string]bool{
	"recharts":              true,
	"lucide-react":          true,
	"framer-motion":         true,
	"clsx":                  true,
	"tailwind-merge":        true,
	"class-variance-authority": true,
	"date-fns":              true,
	"zod":                   true,
	"axios":                 true,
	"react-hook-form":       true,
	"three":                 true,
	"d3":                    true,
	"@tanstack/react-query": true,
	"embla-carousel-react":  true,
	"sonner":                true,
}

// radixSubPath captures the primitive name in a @radix-ui specifier. Each
// captured sub-path expands to its published react-* package.
var radixSubPath = regexp.MustCompile(`^@radix-ui/(?:react-)?([a-z0-9-]+)`)

// DetectPackages scans generated source text for the import-pattern
// catalogue and returns the deduplicated, sorted set of inferred package
// names.
func DetectPackages(source string) []string {
	seen := make(map[string]bool)

	for _, match := range importSpecifier.FindAllStringSubmatch(source, -1) {
		specifier := match[1]

		// Relative and project-alias imports resolve locally.
		if strings.HasPrefix(specifier, ".") || strings.HasPrefix(specifier, "@/") {
			continue
		}

		if m := radixSubPath.FindStringSubmatch(specifier); m != nil {
			seen["@radix-ui/react-"+m[1]] = true
			continue
		}

		// Sub-path imports like "date-fns/format" map to the root package.
		root := specifier
		if !strings.HasPrefix(specifier, "@") {
			if idx := strings.Index(specifier, "/"); idx != -1 {
				root = specifier[:idx]
			}
		}
		if catalogue[root] {
			seen[root] = true
		}
	}

	packages := make([]string, 0, len(seen))
	for pkg := range seen {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)
	return packages
}
