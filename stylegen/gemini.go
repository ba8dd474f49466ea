package stylegen

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("no API key")

// SystemInstruction primes the model with the parameter ranges and a few
// reference looks.
const SystemInstruction = `
You are a Graphics Engineer specializing in GLSL shaders and procedural generation.
Your task is to translate a natural language description of a fire/plasma effect into a specific JSON configuration for a procedural sun shader.

The shader uses the following parameters:
- colorCore (hex string #RRGGBB): The center/hottest part of the fire.
- colorOuter (hex string #RRGGBB): The edges/cooler part of the fire.
- speed (number 0.1 - 5.0): How fast the time variable animates.
- turbulence (number 0.0 - 5.0): How chaotic the motion is.
- scale (number 0.5 - 3.0): Physical size of the mesh.
- displacementScale (number 0.0 - 1.0): How much the vertices are pushed by noise.
- noiseScale (number 0.1 - 10.0): The frequency of the noise texture.

Examples:
"Hellfire" -> { colorCore: "#ffaa00", colorOuter: "#ff0000", speed: 2.5, turbulence: 1.5, ... }
"Ghostly wisp" -> { colorCore: "#aaddff", colorOuter: "#0033aa", speed: 0.5, turbulence: 0.2, ... }
"Toxic sludge" -> { colorCore: "#00ff00", colorOuter: "#4b0082", speed: 0.8, turbulence: 2.0, ... }
`

// ResponseSchema is the JSON shape the model must answer with.
func ResponseSchema() *genai.Schema {
	str := &genai.Schema{Type: genai.TypeString}
	num := &genai.Schema{Type: genai.TypeNumber}
	fields := []string{"colorCore", "colorOuter", "speed", "turbulence", "scale", "displacementScale", "noiseScale"}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"config": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"colorCore":         str,
					"colorOuter":        str,
					"speed":             num,
					"turbulence":        num,
					"scale":             num,
					"displacementScale": num,
					"noiseScale":        num,
				},
				Required:         fields,
				PropertyOrdering: fields,
			},
			"reasoning": {Type: genai.TypeString},
		},
		PropertyOrdering: []string{"config", "reasoning"},
	}
}

// GeminiGenerator generates styles with the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate implements Generator.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (Style, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    ResponseSchema(),
	})
	if err != nil {
		return Style{}, fmt.Errorf("generating content: %w", err)
	}
	return Decode(resp.Text())
}
