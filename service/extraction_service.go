package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"caseintake-backend/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"google.golang.org/api/option"
)

// Extractor pulls a structured case extraction out of a police report PDF.
// Implementations are interchangeable: a direct model API call or an
// automation-platform webhook that runs the same extraction remotely.
type Extractor interface {
	ExtractReport(ctx context.Context, pdf []byte, fileName, caseTitle string) (*models.CaseExtraction, error)
}

var (
	ErrExtractionFailed      = errors.New("failed to extract report data")
	ErrNoExtractorConfigured = errors.New("no extraction backend configured")
)

const (
	extractionAPI  = "https://generativelanguage.googleapis.com/v1beta/models/gemini-3-pro-preview:generateContent"
	maxRetries     = 3
	initialBackoff = time.Second
)

const extractionSystemPrompt = `You are a legal data extraction specialist for a personal injury law firm.
Extract structured data from this NYC Police Accident Report (MV-104AN form).

CRITICAL RULES:
1. The CLIENT/PLAINTIFF is identified from the case title (first name in "X v Y").
   They may be Vehicle 1 driver, Vehicle 2 driver, a PEDESTRIAN, or a BICYCLIST.
2. The DEFENDANT/ADVERSE PARTY is the other named party.
3. Registration name may differ from driver name (company vehicles). Extract BOTH.
4. Extract the officer's narrative description VERBATIM from the accident description field.
5. If a field is illegible or missing, set to null with reason in uncertain_fields.
6. Dates in ISO 8601 (YYYY-MM-DD). Names in "First Last" format, proper case.
7. For gender, use the Sex field (M/F) from the form.
8. Count number of injured from the "No. Injured" field at top of form.
9. For full_location, combine the road name, cross street, and borough into a readable string.
10. For pedestrians/bicyclists, plate_number and vehicle fields should be null for that party.

DATE FORMAT:
The MV-104AN form uses separate labeled boxes for dates, laid out [ Month ] [ Day ] [ Year ].
The leftmost box is ALWAYS the month. Cross-check the extracted date against the
"Day of Week" field next to it; a mismatch usually means month and day were swapped.
Date of Birth fields (row 3 for Vehicle 1, row 23 for Vehicle 2) have the same layout.

PLATE NUMBERS VS LICENSE NUMBERS:
"License ID Number" (row 2/21, top of each vehicle section) is the driver's license.
"Plate Number" (row 4/24, near "State of Reg.") is the vehicle registration plate.
These are DIFFERENT fields. Read plate numbers character by character; they mix
letters and digits (e.g., "XCGY85" or "47164BB").

REGISTRATION NAME:
Read the "Name-exactly as printed on registration" field character by character.
This is often a company name for commercial vehicles.

BOROUGH:
The borough is the checked checkbox in "Place Where Accident Occurred":
BRONX, KINGS, NEW YORK, QUEENS, RICHMOND. KINGS = Brooklyn.

Return ONLY valid JSON with this exact structure:
{
  "extraction_confidence": "high|medium|low",
  "report_metadata": {
    "accident_number": "",
    "report_number": "",
    "precinct": "",
    "officer_name": "",
    "officer_badge_tax_id": "",
    "reviewing_officer": "",
    "date_filed": ""
  },
  "accident_details": {
    "date": "YYYY-MM-DD",
    "day_of_week": "",
    "time": "HH:MM",
    "location_road": "",
    "location_cross_street": "",
    "location_borough": "",
    "full_location": "",
    "num_vehicles": 0,
    "num_injured": 0,
    "num_killed": 0,
    "description_verbatim": "",
    "accident_type": ""
  },
  "client_party": {
    "role": "vehicle_1_driver|vehicle_2_driver|pedestrian|bicyclist",
    "first_name": "",
    "last_name": "",
    "full_name": "",
    "sex": "M|F",
    "date_of_birth": "YYYY-MM-DD",
    "address": "",
    "city": "",
    "state": "",
    "zip": "",
    "drivers_license": "",
    "plate_number": "",
    "vehicle_year_make_model": "",
    "vehicle_type": "",
    "registration_name": "",
    "insurance_code": "",
    "injuries": ""
  },
  "adverse_party": { same fields as client_party, without "injuries" },
  "other_involved_persons": [
    { "name": "", "age": 0, "sex": "", "role": "" }
  ],
  "uncertain_fields": [
    { "field": "", "reason": "" }
  ],
  "statute_of_limitations_date_8yr": "YYYY-MM-DD"
}`

// extractionSchema is the structural contract every extraction response must
// satisfy before it is trusted. Nullable leaves are left open on purpose; the
// schema guards shape, not completeness.
var extractionSchema = map[string]any{
	"type":     "object",
	"required": []any{"extraction_confidence", "report_metadata", "accident_details", "client_party", "adverse_party"},
	"properties": map[string]any{
		"extraction_confidence": map[string]any{
			"type": "string",
			"enum": []any{"high", "medium", "low"},
		},
		"report_metadata": map[string]any{"type": "object"},
		"accident_details": map[string]any{
			"type":     "object",
			"required": []any{"num_injured"},
			"properties": map[string]any{
				"num_vehicles": map[string]any{"type": "integer", "minimum": 0},
				"num_injured":  map[string]any{"type": "integer", "minimum": 0},
				"num_killed":   map[string]any{"type": "integer", "minimum": 0},
			},
		},
		"client_party":  partySchema,
		"adverse_party": partySchema,
		"other_involved_persons": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "object"},
		},
		"uncertain_fields": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"field", "reason"},
			},
		},
	},
}

var partySchema = map[string]any{
	"type":     "object",
	"required": []any{"role"},
	"properties": map[string]any{
		"role": map[string]any{
			"type": "string",
			"enum": []any{"vehicle_1_driver", "vehicle_2_driver", "pedestrian", "bicyclist"},
		},
	},
}

// parseExtraction turns raw model output into a validated extraction.
// Markdown code fences are stripped first; models wrap JSON in them often
// enough that rejecting fenced output would fail most runs.
func parseExtraction(text string) (*models.CaseExtraction, error) {
	jsonText := strings.TrimSpace(text)
	if strings.HasPrefix(jsonText, "```") {
		jsonText = strings.TrimPrefix(jsonText, "```json")
		jsonText = strings.TrimPrefix(jsonText, "```")
		jsonText = strings.TrimSuffix(strings.TrimSpace(jsonText), "```")
		jsonText = strings.TrimSpace(jsonText)
	}

	if err := validateExtractionJSON([]byte(jsonText)); err != nil {
		return nil, fmt.Errorf("extraction failed validation: %w", err)
	}

	extraction := &models.CaseExtraction{}
	if err := json.Unmarshal([]byte(jsonText), extraction); err != nil {
		return nil, fmt.Errorf("failed to parse extraction: %w", err)
	}

	return extraction, nil
}

// validateExtractionJSON checks the raw JSON against extractionSchema
func validateExtractionJSON(data []byte) error {
	b, err := json.Marshal(extractionSchema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// GeminiExtractor calls the Gemini API directly with the PDF inlined
type GeminiExtractor struct {
	apiKey       string
	httpClient   *http.Client
	geminiClient *genai.Client
}

// NewGeminiExtractor creates an extractor backed by the Gemini API
func NewGeminiExtractor(apiKey string, client *genai.Client) *GeminiExtractor {
	return &GeminiExtractor{
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		geminiClient: client,
	}
}

// ExtractReport sends the PDF and prompt to the model and parses the reply.
// Transient failures are retried with doubling backoff.
func (e *GeminiExtractor) ExtractReport(ctx context.Context, pdf []byte, fileName, caseTitle string) (*models.CaseExtraction, error) {
	if e.geminiClient == nil {
		return nil, errors.New("gemini client not set")
	}

	var text string
	var err error
	backoff := initialBackoff
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(backoff)
			backoff *= 2
		}

		text, err = e.callExtractionAPI(ctx, pdf, fileName, caseTitle)
		if err != nil {
			if attempt == maxRetries-1 {
				return nil, fmt.Errorf("failed to extract after %d attempts: %w", maxRetries, err)
			}
			continue
		}

		if text != "" {
			break
		}

		if attempt == maxRetries-1 {
			return nil, ErrExtractionFailed
		}
	}

	if text == "" {
		return nil, ErrExtractionFailed
	}

	return parseExtraction(text)
}

func (e *GeminiExtractor) callExtractionAPI(ctx context.Context, pdf []byte, fileName, caseTitle string) (string, error) {
	userText := fmt.Sprintf(
		"Extract all data from this police accident report PDF. The file is: %s. The case title is: %s. Return ONLY the JSON structure as specified.",
		fileName, caseTitle,
	)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"inline_data": map[string]interface{}{
							"mime_type": "application/pdf",
							"data":      base64.StdEncoding.EncodeToString(pdf),
						},
					},
					{"text": userText},
				},
			},
		},
		"systemInstruction": map[string]interface{}{
			"parts": []map[string]interface{}{
				{"text": extractionSystemPrompt},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature": 0.0,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", extractionAPI, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Printf("Gemini API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("API error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	var apiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason,omitempty"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason,omitempty"`
		} `json:"promptFeedback,omitempty"`
		Error struct {
			Code    int    `json:"code,omitempty"`
			Message string `json:"message,omitempty"`
		} `json:"error,omitempty"`
	}

	bodyBytes, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(bodyBytes, &apiResp); err != nil {
		log.Printf("Failed to decode response. Body: %s", string(bodyBytes))
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if apiResp.Error.Message != "" {
		return "", fmt.Errorf("API error: %s (code: %d)", apiResp.Error.Message, apiResp.Error.Code)
	}

	if apiResp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("API blocked prompt: %s", apiResp.PromptFeedback.BlockReason)
	}

	if len(apiResp.Candidates) == 0 {
		log.Printf("API returned no candidates. Full response: %s", string(bodyBytes))
		return "", fmt.Errorf("API returned no candidates")
	}

	var responseText strings.Builder
	for i, candidate := range apiResp.Candidates {
		if candidate.FinishReason != "" && candidate.FinishReason != "STOP" {
			log.Printf("Warning: Candidate %d finished with reason: %s", i, candidate.FinishReason)
		}

		if len(candidate.Content.Parts) == 0 {
			return "", fmt.Errorf("API candidate has no parts (finish reason: %s)", candidate.FinishReason)
		}

		for _, part := range candidate.Content.Parts {
			responseText.WriteString(part.Text)
		}
	}

	result := responseText.String()
	if result == "" {
		return "", fmt.Errorf("API returned empty content")
	}

	return result, nil
}

// WebhookExtractor forwards the PDF to an automation-platform webhook that
// runs the extraction remotely and returns the same JSON structure
type WebhookExtractor struct {
	webhookURL string
	httpClient *http.Client
}

// NewWebhookExtractor creates an extractor backed by a webhook
func NewWebhookExtractor(webhookURL string) *WebhookExtractor {
	return &WebhookExtractor{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// ExtractReport posts the PDF to the webhook and parses the reply
func (e *WebhookExtractor) ExtractReport(ctx context.Context, pdf []byte, fileName, caseTitle string) (*models.CaseExtraction, error) {
	reqBody := map[string]interface{}{
		"pdf_base64": base64.StdEncoding.EncodeToString(pdf),
		"file_name":  fileName,
		"case_title": caseTitle,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("webhook error: %d - %s", resp.StatusCode, string(bodyBytes))
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	return parseExtraction(string(bodyBytes))
}

// NewExtractorFromEnv picks the extraction backend from the environment:
// GEMINI_API_KEY for direct API calls, EXTRACT_WEBHOOK_URL for a webhook.
// The direct backend wins when both are set.
func NewExtractorFromEnv(ctx context.Context) (Extractor, error) {
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
		}
		log.Printf("Using direct Gemini extraction backend")
		return NewGeminiExtractor(apiKey, client), nil
	}
	if webhookURL := os.Getenv("EXTRACT_WEBHOOK_URL"); webhookURL != "" {
		log.Printf("Using webhook extraction backend: %s", webhookURL)
		return NewWebhookExtractor(webhookURL), nil
	}
	return nil, ErrNoExtractorConfigured
}
