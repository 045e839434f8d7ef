package receipts

import "context"

// multimodal model that answers a prompt about an image
type VisionModel interface {
	GenerateWithImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
}

// implements Extractor by prompting a vision model with ExtractionPrompt
type VisionExtractor struct {
	model VisionModel
}

func NewVisionExtractor(model VisionModel) *VisionExtractor {
	return &VisionExtractor{model: model}
}

func (e *VisionExtractor) ExtractReceipt(ctx context.Context, image []byte, mimeType string) (string, error) {
	return e.model.GenerateWithImage(ctx, ExtractionPrompt, image, mimeType)
}
