package generation

import (
	"encoding/json"
	"fmt"

	"genforge/internal/project"
)

// FallbackArtifacts builds the deterministic baseline skeleton substituted
// when a backend cannot deliver a usable file plan. The set depends only on
// the prompt, so repeated degraded runs for the same request produce the same
// bytes.
func FallbackArtifacts(prompt string) []project.Artifact {
	packageJSON := `{
  "name": "generated-project",
  "version": "1.0.0",
  "description": "Generated from: ` + jsonEscape(prompt) + `",
  "main": "index.js",
  "scripts": {
    "start": "node index.js",
    "dev": "node index.js"
  },
  "dependencies": {
    "react": "^18.0.0",
    "react-dom": "^18.0.0"
  }
}
`

	appComponent := fmt.Sprintf(`import React from 'react';

function App() {
  return (
    <div className="App">
      <h1>Generated App</h1>
      <p>This app was generated from: %s</p>
    </div>
  );
}

export default App;
`, prompt)

	readme := fmt.Sprintf(`# Generated Project

## Original Prompt
%s

## Files Generated
- package.json - Project configuration
- src/App.tsx - Main React component
- README.md - This file

## Getting Started
1. Install dependencies: `+"`npm install`"+`
2. Start development server: `+"`npm start`"+`
3. Open http://localhost:3000
`, prompt)

	return []project.Artifact{
		{Name: "package.json", Content: packageJSON, Language: "json", Size: int64(len(packageJSON))},
		{Name: "src/App.tsx", Content: appComponent, Language: "typescript", Size: int64(len(appComponent))},
		{Name: "README.md", Content: readme, Language: "markdown", Size: int64(len(readme))},
	}
}

// FallbackSummary describes a degraded result to the caller.
func FallbackSummary(reason string) string {
	if reason == "" {
		return "generated fallback project skeleton"
	}
	return fmt.Sprintf("generated fallback project skeleton (%s)", reason)
}

func jsonEscape(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(encoded[1 : len(encoded)-1])
}
