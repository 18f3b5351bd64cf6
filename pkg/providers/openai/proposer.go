// Package openai wraps the chat completion API as a place proposer.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/sashabaranov/go-openai"

	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/models"
	"github.com/bahaa0627-dev/wanderlog-sub000/pkg/tracing"
)

// Config holds the proposer settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// Proposer asks the model for place suggestions matching a query.
type Proposer struct {
	client *openai.Client
	config Config
	logger ectologger.Logger
}

// NewProposer creates a Proposer.
func NewProposer(config Config, logger ectologger.Logger) (*Proposer, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Proposer{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		logger: logger,
	}, nil
}

const systemPrompt = `You are a travel assistant. Respond only with JSON matching the schema:
{"places":[{"name":"","summary":"","coordinate":{"latitude":0,"longitude":0},"city":"","country":"","tags":[],"reason":""}],"categories":[{"title":"","member_names":[]}]}
Suggest real, well-known places with accurate coordinates. When suggesting five or more places, group them into two or three themed categories.`

// Propose returns place suggestions for the query.
func (p *Proposer) Propose(ctx context.Context, req models.RecommendRequest) (*models.Proposal, error) {
	ctx, span := tracing.StartSpan(ctx, "openai.Proposer.Propose")
	defer span.End()

	model := p.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	maxTokens := p.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 2000
	}
	timeout := p.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := buildPrompt(req)
	chatReq := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: p.config.Temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	var proposal models.Proposal
	if err := json.Unmarshal([]byte(content), &proposal); err != nil {
		return nil, fmt.Errorf("failed to parse proposal: %w", err)
	}
	proposal.Places = validPlaces(proposal.Places)
	if len(proposal.Places) == 0 {
		return nil, fmt.Errorf("proposal contained no usable places")
	}

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"model":       model,
		"places":      len(proposal.Places),
		"categories":  len(proposal.Categories),
		"tokens_used": resp.Usage.TotalTokens,
	}).Debug("Received place proposal")

	return &proposal, nil
}

func buildPrompt(req models.RecommendRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Suggest %d places for: %s.", req.Count, req.Query)
	if req.City != "" {
		fmt.Fprintf(&sb, " City: %s.", req.City)
	}
	if req.Country != "" {
		fmt.Fprintf(&sb, " Country: %s.", req.Country)
	}
	return sb.String()
}

// validPlaces drops entries the model produced without a name or with a
// zero coordinate.
func validPlaces(places []models.ProposedPlace) []models.ProposedPlace {
	valid := places[:0]
	for _, place := range places {
		if place.Name == "" {
			continue
		}
		if place.Coordinate.Latitude == 0 && place.Coordinate.Longitude == 0 {
			continue
		}
		valid = append(valid, place)
	}
	return valid
}
