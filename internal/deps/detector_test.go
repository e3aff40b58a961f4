package deps

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPackages(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected []string
	}{
		{
			name: "known_packages",
			source: `import { LineChart } from "recharts"
import { Dialog } from "@radix-ui/dialog"
`,
			expected: []string{"@radix-ui/react-dialog", "recharts"},
		},
		{
			name: "radix_already_prefixed",
			source: `import * as Tabs from "@radix-ui/react-tabs"
`,
			expected: []string{"@radix-ui/react-tabs"},
		},
		{
			name: "relative_and_alias_imports_ignored",
			source: `import { Button } from "./button"
import { cn } from "@/lib/utils"
import { motion } from "framer-motion"
`,
			expected: []string{"framer-motion"},
		},
		{
			name: "uncatalogued_packages_ignored",
			source: `import React from "react"
import { something } from "some-unknown-lib"
`,
			expected: []string{},
		},
		{
			name: "require_calls",
			source: `const axios = require("axios")
const { format } = require("date-fns")
`,
			expected: []string{"axios", "date-fns"},
		},
		{
			name: "duplicates_collapse",
			source: `import { z } from "zod"
import { ZodError } from "zod"
import clsx from "clsx"
`,
			expected: []string{"clsx", "zod"},
		},
		{
			name:     "empty_source",
			source:   "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectPackages(tt.source))
		})
	}
}
