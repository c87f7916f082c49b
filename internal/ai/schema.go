package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"gameprice-tracker/internal/domain"
	"gameprice-tracker/internal/regions"
)

// responseSchema is sent to the provider as the structured-output contract.
// The same rules are enforced again in validate: the response is untrusted
// input regardless of what was requested.
const responseSchema = `{
  "type": "OBJECT",
  "properties": {
    "title": {"type": "STRING"},
    "description": {"type": "STRING"},
    "coverImageUrl": {"type": "STRING"},
    "prices": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {
          "region": {"type": "STRING"},
          "regionCode": {"type": "STRING", "enum": ["US", "SG", "TR", "ID"]},
          "currency": {"type": "STRING"},
          "amount": {"type": "NUMBER"},
          "originalAmount": {"type": "NUMBER"}
        },
        "required": ["region", "regionCode", "currency", "amount"]
      }
    }
  },
  "required": ["title", "description", "prices"]
}`

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64         `json:"temperature"`
	ResponseMIMEType string          `json:"responseMimeType"`
	ResponseSchema   json.RawMessage `json:"responseSchema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type pricePayload struct {
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	CoverImageURL string       `json:"coverImageUrl"`
	Prices        []priceEntry `json:"prices"`
}

type priceEntry struct {
	Region         string   `json:"region"`
	RegionCode     string   `json:"regionCode"`
	Currency       string   `json:"currency"`
	Amount         *float64 `json:"amount"`
	OriginalAmount float64  `json:"originalAmount"`
}

func buildRequest(query string, regionCodes []string) generateRequest {
	return generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPrompt(query, regionCodes)}}}},
		GenerationConfig: generationConfig{
			Temperature:      0.1,
			ResponseMIMEType: "application/json",
			ResponseSchema:   json.RawMessage(responseSchema),
		},
	}
}

func buildPrompt(query string, regionCodes []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Find the current PlayStation Store price for the game %q.\n\n", query)
	b.WriteString("Return the game's canonical title, a short one-paragraph description, and its price in each of these regions:\n")
	for _, code := range regionCodes {
		if r, ok := regions.Find(code); ok {
			fmt.Fprintf(&b, "- %s (%s), prices in %s\n", r.Name, r.Code, r.DefaultCurrency)
		} else {
			fmt.Fprintf(&b, "- %s\n", code)
		}
	}
	b.WriteString("\nRules:\n")
	b.WriteString("- Every requested region must appear in prices exactly once.\n")
	b.WriteString("- If the game has no listing in a region, set amount to 0 instead of omitting the region.\n")
	b.WriteString("- amount is the current sale price; originalAmount is the regular price.\n")
	b.WriteString("- If the game is not discounted in a region, set amount equal to originalAmount.\n")
	return b.String()
}

func parseResponse(body []byte) (domain.GameData, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.GameData{}, &domain.SchemaError{Reason: "response body is not valid JSON"}
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return domain.GameData{}, &domain.SchemaError{Reason: "response contained no candidates"}
	}

	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return domain.GameData{}, &domain.SchemaError{Reason: "candidate text is empty"}
	}

	var payload pricePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return domain.GameData{}, &domain.SchemaError{Reason: "candidate text is not a valid price payload"}
	}
	if err := validate(&payload); err != nil {
		return domain.GameData{}, err
	}

	return payload.toGameData(), nil
}

func validate(p *pricePayload) error {
	if strings.TrimSpace(p.Title) == "" {
		return &domain.SchemaError{Reason: "title is missing"}
	}
	if strings.TrimSpace(p.Description) == "" {
		return &domain.SchemaError{Reason: "description is missing"}
	}
	if len(p.Prices) == 0 {
		return &domain.SchemaError{Reason: "prices array is missing or empty"}
	}
	for i, entry := range p.Prices {
		if !regions.IsSupported(entry.RegionCode) {
			return &domain.SchemaError{Reason: fmt.Sprintf("prices[%d] has unsupported region code %q", i, entry.RegionCode)}
		}
		if entry.Region == "" {
			return &domain.SchemaError{Reason: fmt.Sprintf("prices[%d] is missing region", i)}
		}
		if entry.Currency == "" {
			return &domain.SchemaError{Reason: fmt.Sprintf("prices[%d] is missing currency", i)}
		}
		if entry.Amount == nil {
			return &domain.SchemaError{Reason: fmt.Sprintf("prices[%d] is missing amount", i)}
		}
	}
	return nil
}

func (p *pricePayload) toGameData() domain.GameData {
	data := domain.GameData{
		Title:         p.Title,
		Description:   p.Description,
		CoverImageURL: p.CoverImageURL,
		Prices:        make([]domain.PriceInfo, 0, len(p.Prices)),
	}
	for _, entry := range p.Prices {
		data.Prices = append(data.Prices, domain.PriceInfo{
			Region:         entry.Region,
			RegionCode:     entry.RegionCode,
			Currency:       entry.Currency,
			Amount:         *entry.Amount,
			OriginalAmount: entry.OriginalAmount,
		})
	}
	return data
}
