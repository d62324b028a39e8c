package generation

import "fmt"

// filePlanSystemPrompt instructs the model to answer with a JSON array of file
// entries and nothing else. Both backends share it so their responses decode
// through the same path.
const filePlanSystemPrompt = `You are a project scaffolding assistant. Given a project description, respond with a JSON array of file objects with this structure:
[
  {
    "name": "filename.ext",
    "content": "complete file content here",
    "language": "file extension or language"
  }
]

Requirements:
1. Create files specific to the project type (React, Python, Node.js, etc.)
2. Include all necessary configuration files
3. Include a comprehensive README.md
4. Include main source files with actual implementation

Return only valid JSON, no explanations or markdown formatting.`

func buildFilePlanPrompt(prompt string) string {
	return fmt.Sprintf("Based on this project description, create a complete project structure with all necessary files:\n\nProject Description: %s", prompt)
}
