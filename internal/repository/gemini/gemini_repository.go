package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"smartMarket/domain"
	"strings"
	"time"
)

type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// GeminiRepository talks to the Gemini generateContent API. It serves two
// roles: converting pasted free text into typed catalog/behavior records,
// and narrating a score breakdown into a one-line explanation.
type GeminiRepository struct {
	geminiConfig GeminiConfig
	client       *http.Client
}

func NewGeminiRepository(cfg GeminiConfig) *GeminiRepository {
	return &GeminiRepository{
		geminiConfig: cfg,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (r *GeminiRepository) generate(ctx context.Context, prompt string) (string, error) {
	if r.geminiConfig.APIKey == "" {
		return "", errors.New("gemini api key not configured")
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		strings.TrimSuffix(r.geminiConfig.BaseURL, "/"),
		r.geminiConfig.Model,
		r.geminiConfig.APIKey,
	)

	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build gemini request: %w", err)
	}
	req.Header.Add("Content-Type", "application/json")

	res, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}

	var genRes generateResponse
	if err := json.Unmarshal(body, &genRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal gemini response: %w", err)
	}

	if genRes.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", genRes.Error.Code, genRes.Error.Message)
	}

	if len(genRes.Candidates) == 0 || len(genRes.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty gemini response")
	}

	return genRes.Candidates[0].Content.Parts[0].Text, nil
}

// stripCodeFence removes a surrounding markdown code fence, which the model
// adds even when asked for raw JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}

// ParseProducts accepts either raw JSON or free text. JSON is decoded
// directly; anything else is sent to the model for conversion.
func (r *GeminiRepository) ParseProducts(ctx context.Context, input string) ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal([]byte(input), &products); err == nil {
		return products, nil
	}

	prompt := fmt.Sprintf(`Convert the following product catalog description into a JSON array.
Each element must have the fields: id (string), name, description, category, price (number), tags (array of strings).
Respond with only the JSON array, no prose.

%s`, input)

	text, err := r.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse products: %w", err)
	}

	if err := json.Unmarshal([]byte(stripCodeFence(text)), &products); err != nil {
		return nil, fmt.Errorf("gemini returned malformed product JSON: %w", err)
	}

	return products, nil
}

// ParseUserBehaviors accepts raw JSON (a single behavior object or an array)
// or free text. productIDs bounds which products the model may reference.
func (r *GeminiRepository) ParseUserBehaviors(ctx context.Context, input string, productIDs []string) ([]domain.UserBehavior, error) {
	var behaviors []domain.UserBehavior
	if err := json.Unmarshal([]byte(input), &behaviors); err == nil {
		return behaviors, nil
	}

	var single domain.UserBehavior
	if err := json.Unmarshal([]byte(input), &single); err == nil && (single.UserID != "" || len(single.ProductInteractions) > 0) {
		return []domain.UserBehavior{single}, nil
	}

	prompt := fmt.Sprintf(`Convert the following user behavior description into a JSON array of behavior objects.
Each object has: userId (string), viewedProducts (array of product ids),
purchasedProducts (array of product ids), cartItems (array of product ids), ratings (object of productId to number),
productInteractions (object of productId to {productId, viewDuration, viewCount, rating, cartActions, checkoutActions}).
Only reference product ids from this list: %s.
Respond with only the JSON array, no prose.

%s`, strings.Join(productIDs, ", "), input)

	text, err := r.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse user behaviors: %w", err)
	}

	if err := json.Unmarshal([]byte(stripCodeFence(text)), &behaviors); err != nil {
		return nil, fmt.Errorf("gemini returned malformed behavior JSON: %w", err)
	}

	return behaviors, nil
}

// Explain asks the model for a single-sentence recommendation reason based
// on the score breakdown. Callers fall back to a template on error.
func (r *GeminiRepository) Explain(ctx context.Context, product domain.Product, behavior domain.UserBehavior, breakdown domain.ScoreBreakdown) (string, error) {
	prompt := fmt.Sprintf(`You are a shopping assistant. In one short sentence, explain to the user why the product %q (category %s, price %.2f) is recommended to them.
Score components: content-based %.3f, collaborative %.3f, context-aware %.3f, user-based %.3f, category popularity %.3f.
Base the explanation on the strongest component. Do not mention scores or numbers.`,
		product.Name, product.Category, product.Price,
		breakdown.ContentBased, breakdown.Collaborative, breakdown.ContextAware,
		breakdown.UserBased, breakdown.CategoryPopularity,
	)

	text, err := r.generate(ctx, prompt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(text), nil
}
