// narrative.go
//
// Hierarchical chapter reporting service for the Ladies of the Fellowship dashboard
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lofreports.
// lofreports is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lofreports is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lofreports.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/lofreports/internal/metrics"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/localnerve/lofreports/internal/types"
	"github.com/sirupsen/logrus"
)

// NarrativeRequest is what the narrative collaborator sees: totals only,
// never the report breakdown.
type NarrativeRequest struct {
	Role   models.Role
	Name   string
	Level  models.Level
	Totals models.ReportMetric
}

// NewNarrativeRequest strips an aggregate down to its totals.
func NewNarrativeRequest(role models.Role, name string, data *models.AggregatedData) NarrativeRequest {
	return NarrativeRequest{Role: role, Name: name, Level: data.Level, Totals: data.Totals()}
}

// Narrative is the structured performance summary.
type Narrative struct {
	OpeningRemark    string   `json:"opening_remark"`
	KeyAchievements  []string `json:"key_achievements"`
	AreasForFocus    []string `json:"areas_for_focus"`
	ConcludingRemark string   `json:"concluding_remark"`
}

// NarrativeGenerator produces a narrative summary of aggregated totals.
type NarrativeGenerator interface {
	Generate(ctx context.Context, req NarrativeRequest) (*Narrative, error)
}

// GeminiNarrator calls the Gemini generateContent REST endpoint.
type GeminiNarrator struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
	Log     *logrus.Entry
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig map[string]interface{} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

var narrativeSchema = map[string]interface{}{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"opening_remark": map[string]interface{}{
			"type":        "STRING",
			"description": "A brief, encouraging opening statement.",
		},
		"key_achievements": map[string]interface{}{
			"type":        "ARRAY",
			"items":       map[string]interface{}{"type": "STRING"},
			"description": "An array of strings, each describing a key achievement.",
		},
		"areas_for_focus": map[string]interface{}{
			"type":        "ARRAY",
			"items":       map[string]interface{}{"type": "STRING"},
			"description": "An array of strings, each describing an area for focus, framed constructively.",
		},
		"concluding_remark": map[string]interface{}{
			"type":        "STRING",
			"description": "A motivational and forward-looking concluding statement.",
		},
	},
	"required": []string{"opening_remark", "key_achievements", "areas_for_focus", "concluding_remark"},
}

// Endpoint returns the generateContent URL without the key.
func (g *GeminiNarrator) Endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(g.BaseURL, "/"), url.PathEscape(g.Model))
}

// Generate requests a summary. Every failure is an external service error.
func (g *GeminiNarrator) Generate(ctx context.Context, req NarrativeRequest) (*Narrative, error) {
	narrative, err := g.generate(ctx, req)
	if err != nil {
		metrics.NarrativeRequests.WithLabelValues("error").Inc()
		if g.Log != nil {
			g.Log.WithError(err).WithField("role", req.Role).Warn("narrative generation failed")
		}
		return nil, err
	}
	metrics.NarrativeRequests.WithLabelValues("ok").Inc()
	return narrative, nil
}

func (g *GeminiNarrator) generate(ctx context.Context, req NarrativeRequest) (*Narrative, error) {
	if g.APIKey == "" {
		return nil, types.ExternalService("narrative summaries are not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, types.ExternalService("narrative request cancelled", err)
	}

	prompt, err := narrativePrompt(req)
	if err != nil {
		return nil, types.ExternalService("failed to build narrative prompt", err)
	}
	body := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: map[string]interface{}{
			"responseMimeType": "application/json",
			"responseSchema":   narrativeSchema,
		},
	}

	agent := fiber.Post(g.Endpoint() + "?key=" + url.QueryEscape(g.APIKey))
	if g.Timeout > 0 {
		agent.Timeout(g.Timeout)
	}
	agent.JSON(body)

	code, respBody, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, types.ExternalService("narrative service unreachable", errors.Join(errs...))
	}
	if code < 200 || code > 299 {
		return nil, types.ExternalService(fmt.Sprintf("narrative service returned status %d", code), nil)
	}
	return parseNarrative(respBody)
}

func parseNarrative(body []byte) (*Narrative, error) {
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, types.ExternalService("narrative response is not valid JSON", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, types.ExternalService("model returned an empty response", nil)
	}
	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return nil, types.ExternalService("model returned an empty response", nil)
	}

	var narrative Narrative
	if err := json.Unmarshal([]byte(text), &narrative); err != nil {
		return nil, types.ExternalService("model returned an unexpected response", err)
	}
	if narrative.OpeningRemark == "" || narrative.ConcludingRemark == "" {
		return nil, types.ExternalService("model returned an incomplete summary", nil)
	}
	if narrative.KeyAchievements == nil {
		narrative.KeyAchievements = []string{}
	}
	if narrative.AreasForFocus == nil {
		narrative.AreasForFocus = []string{}
	}
	return &narrative, nil
}

func narrativePrompt(req NarrativeRequest) (string, error) {
	data, err := json.MarshalIndent(struct {
		Name  string       `json:"name"`
		Level models.Level `json:"level"`
		models.ReportMetric
	}{req.Name, req.Level, req.Totals}, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are a data analyst for FGBMFI-Nigeria, Ladies of the Fellowship.
Your task is to provide a concise, encouraging, and insightful summary of a performance report for %s, a %s.

Analyze the following aggregated report data:
%s

Instructions for your analysis:
- Your response must be in the specified JSON format.
- Base your analysis strictly on the provided data.
- For Key Achievements, highlight 2-3 key strengths (e.g., high salvation numbers, significant growth in membership).
- For Areas for Focus, gently point out 1-2 areas that might need more attention (e.g., attendance vs. membership ratio). Frame this constructively as an opportunity for growth.
- Ensure all remarks are professional, warm, and tailored to the context of a faith-based fellowship.
`, req.Name, req.Role, data), nil
}
