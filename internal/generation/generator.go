package generation

import "context"

// SchemaType names the JSON type of a Schema node.
type SchemaType string

// Schema node types.
const (
	TypeObject  SchemaType = "object"
	TypeArray   SchemaType = "array"
	TypeString  SchemaType = "string"
	TypeInteger SchemaType = "integer"
)

// Schema describes the JSON shape a structured generation must follow.
// Providers translate it into their native response schema.
type Schema struct {
	Type       SchemaType
	Properties map[string]*Schema
	Items      *Schema
	Required   []string
}

// StructuredTextGenerator produces JSON text conforming to a schema.
type StructuredTextGenerator interface {
	GenerateStructuredText(ctx context.Context, prompt string, schema *Schema) (string, error)
}

// Embedder produces a fixed-dimension embedding vector for text.
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ImageGenerator produces an image for prompt, stores it and returns its URL.
// namePrefix seeds the stored object's name.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt, namePrefix string) (string, error)
}

// SampleFormat describes raw PCM audio.
type SampleFormat struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	MIMEType      string
}

// SpeechSynthesizer converts text into raw PCM audio.
type SpeechSynthesizer interface {
	TextToSpeech(ctx context.Context, text string) ([]byte, SampleFormat, error)
}

// BlobUploader stores data under filename and returns its public URL.
type BlobUploader interface {
	UploadBlob(ctx context.Context, filename string, data []byte, contentType string) (string, error)
}
