// Package gemini implements the generation provider contracts on top of
// Google's Gemini API through google.golang.org/genai.
//
// A single Provider serves four roles:
//
//  1. Structured text: schema-constrained JSON for study paths and quizzes.
//  2. Embeddings: fixed-dimension vectors stored with study modules.
//  3. Images: Imagen models, with a Gemini image model as fallback. The
//     bytes are handed to a generation.BlobUploader and the URL returned.
//  4. Speech: raw 16-bit PCM from a TTS model with a prebuilt voice.
//
// Every call retries transient failures with exponential backoff and jitter.
// Safety blocks and empty responses are permanent and are not retried.
package gemini
