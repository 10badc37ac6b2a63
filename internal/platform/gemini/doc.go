// Package gemini implements the generation.Explainer interface using
// Google's Gemini API. It is only wired in when an API key is configured;
// the quiz works fully without it.
package gemini
