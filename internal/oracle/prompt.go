package oracle

import "fmt"

// chunkPromptTemplate instructs the oracle to return a JSON object
// with the keys the aggregator folds: overview, methods, complexity,
// notes.
const chunkPromptTemplate = `You are an expert software architect and codebase analyst. Your task is to analyze the following code chunk and extract structured, in-depth knowledge for documentation and onboarding purposes.

For the given code chunk, provide a JSON object with the following keys:

- "overview": A concise, high-level summary of the code's purpose and functionality.
- "methods": An array of objects, each describing a key method or function. For each, include:
    - "name": The method/function name
    - "signature": The full method/function signature
    - "description": A clear, human-readable explanation of what it does
- "complexity": A brief assessment of the code's complexity (e.g., simple, moderate, complex) and why
- "notes": Any other noteworthy aspects, such as design patterns, dependencies, or potential issues

IMPORTANT: Do not use trailing commas in arrays or objects. All property names and string values must be in double quotes. Do not add comments or extra text.

Return ONLY a valid, well-formatted JSON object with these keys. Do not include any extra commentary or markdown.

Code chunk:
%s
`

// readmePromptTemplate drives the one-shot project-summary call.
const readmePromptTemplate = `You are an expert software architect. Summarize the following README.md for onboarding: Return a JSON object with keys: 'readme_summary', 'main_features', 'usage'.
README:
%s`

// BuildChunkPrompt embeds the chunk text into the fixed-shape
// analysis prompt.
func BuildChunkPrompt(chunkText string) string {
	return fmt.Sprintf(chunkPromptTemplate, chunkText)
}

// BuildReadmePrompt embeds the project document into the summary
// prompt.
func BuildReadmePrompt(document string) string {
	return fmt.Sprintf(readmePromptTemplate, document)
}
