// Package models lists the language models available to the configured
// API key, so users can pick a value for gemini.model or openai.model.
package models
