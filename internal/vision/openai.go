package vision

import (
	"context"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/Cyansiiii/Automated-Attendance-System-for-Rural-Schools/internal/metrics"
)

//go:embed prompts/reference_description.txt
var referenceDescriptionPrompt string

//go:embed prompts/probe_description.txt
var probeDescriptionPrompt string

//go:embed prompts/rank_candidates.txt
var rankCandidatesPrompt string

// maxImageEdge bounds the longer edge of uploaded images to keep token costs low.
const maxImageEdge = 800

// OpenAIProvider implements Provider on the OpenAI chat completions API.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIProvider builds a provider. Every inference call is bounded by
// timeout regardless of the caller's context.
func NewOpenAIProvider(apiKey, model string, timeout time.Duration) *OpenAIProvider {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIProvider{
		client:  &client,
		model:   model,
		timeout: timeout,
	}
}

// Name returns the configured model name.
func (p *OpenAIProvider) Name() string {
	return p.model
}

// DescribeReference produces the long-form description stored as the
// student's matching reference.
func (p *OpenAIProvider) DescribeReference(ctx context.Context, image []byte, studentName string) (string, error) {
	userMessage := "Analyze this face image and provide a comprehensive facial description for identification purposes. " +
		"Include all distinctive features that would help identify this person in future images even under different lighting or angles. " +
		"Be thorough and detailed."
	if studentName != "" {
		userMessage += "\nSubject name for records: " + studentName
	}
	return p.describeImage(ctx, image, referenceDescriptionPrompt, userMessage)
}

// DescribeProbe describes a live attendance photo.
func (p *OpenAIProvider) DescribeProbe(ctx context.Context, image []byte) (string, error) {
	userMessage := "Analyze this face image and provide a detailed facial description focusing on distinctive features."
	return p.describeImage(ctx, image, probeDescriptionPrompt, userMessage)
}

// RankCandidates embeds the probe description and every candidate in the
// prompt and asks for a single name or the NO_MATCH sentinel.
func (p *OpenAIProvider) RankCandidates(ctx context.Context, probeDescription string, candidates []Candidate) (string, error) {
	if len(candidates) == 0 {
		return "", errors.New("no candidates to rank")
	}

	var roster strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&roster, "- %s (Roll: %d): %s\n", c.StudentName, c.RollNo, c.FaceEncoding)
	}
	systemPrompt := fmt.Sprintf(rankCandidatesPrompt, probeDescription, roster.String())

	userMessage := "Based on the facial descriptions, which registered student is the BEST MATCH for the current face? " +
		"Consider that lighting, angles, and photo quality may cause variations. " +
		"Return ONLY the student's name that best matches, or '" + NoMatch + "' if absolutely no reasonable match exists. " +
		"Be more lenient in matching."

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userMessage),
					},
				},
			},
		},
		MaxTokens: openai.Int(100),
	})
	metrics.VisionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) describeImage(ctx context.Context, image []byte, systemPrompt, userMessage string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image data required")
	}

	resized, err := resizeImage(image, maxImageEdge)
	if err != nil {
		return "", fmt.Errorf("failed to resize image: %w", err)
	}
	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(resized)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
							openai.TextContentPart(userMessage),
							openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
								URL:    imageURL,
								Detail: "low",
							}),
						},
					},
				},
			},
		},
		MaxTokens: openai.Int(500),
	})
	metrics.VisionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	description := strings.TrimSpace(resp.Choices[0].Message.Content)
	if description == "" {
		return "", errors.New("empty description from OpenAI")
	}
	return description, nil
}
