package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"globetrotter/internal/catalog"
	"globetrotter/internal/wizard"
	"globetrotter/pkg/logger"
	"globetrotter/pkg/metrics"
	"globetrotter/pkg/utils"
)

// SuggestionText accompanies every successful recommendation.
const SuggestionText = "AI-generated suggestions based on your trip details."

const recommendationSystemPrompt = `
You are an expert travel planner API.
You will receive:
1. User trip data (country, dates, description).
2. A list of known places and activities (availablePlaces).

Your job:
- Recommend 5-8 places for the trip.
- Pick the best options from both the user's request and the provided availablePlaces.
- Output ONLY valid JSON in this format:

{
  "places": [
    {
      "placeName": "string",
      "description": "string, 2-3 sentences max",
      "bestTimeToVisit": "string, concise"
    }
  ]
}
- Ensure descriptions are concise and engaging.
- Never include extra keys or text outside the JSON.
`

var recommendationConfig = utils.GenerationConfig{
	Temperature:     0.7,
	TopP:            0.9,
	TopK:            40,
	MaxOutputTokens: 2048,
}

type RecommendationService interface {
	// Recommend asks the model for destinations matching the constraints.
	// Invalid constraints fail before any remote call.
	Recommend(ctx context.Context, constraints wizard.TripConstraints) (wizard.Recommendations, error)
}

type recommendationService struct {
	generator utils.JSONGenerator
	catalog   *catalog.Catalog
}

func NewRecommendationService(generator utils.JSONGenerator, cat *catalog.Catalog) RecommendationService {
	return &recommendationService{generator: generator, catalog: cat}
}

type recommendationPayload struct {
	UserTripData    wizard.TripConstraints `json:"userTripData"`
	AvailablePlaces []catalog.Place        `json:"availablePlaces"`
}

func (s *recommendationService) Recommend(ctx context.Context, constraints wizard.TripConstraints) (wizard.Recommendations, error) {
	if err := constraints.Validate(); err != nil {
		return wizard.Recommendations{}, err
	}

	log := logger.GetLogger()
	provider := s.generator.Provider()

	prompt, err := json.Marshal(recommendationPayload{
		UserTripData:    constraints,
		AvailablePlaces: s.catalog.Places(),
	})
	if err != nil {
		return wizard.Recommendations{}, err
	}

	start := time.Now()
	text, err := s.generator.GenerateJSON(ctx, utils.GenerationRequest{
		SystemInstruction: recommendationSystemPrompt,
		Prompt:            string(prompt),
		Config:            recommendationConfig,
	})
	metrics.RecommendationLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	if err != nil {
		log.Errorw("Recommendation remote call failed", "provider", provider, "error", err)
		return s.fail(provider, utils.ErrRemoteCall, err)
	}

	places, err := parseRecommendedPlaces(text)
	if err != nil {
		var recErr *utils.RecommendationError
		if errors.As(err, &recErr) {
			log.Warnw("Recommendation response rejected",
				"provider", provider,
				"kind", recErr.Kind.Error(),
				"error", recErr.Err,
				"response_bytes", len(text))
			metrics.RecommendationRequests.WithLabelValues(provider, outcomeLabel(recErr.Kind)).Inc()
		}
		return wizard.Recommendations{}, err
	}

	metrics.RecommendationRequests.WithLabelValues(provider, "success").Inc()
	log.Infow("Recommendations generated", "provider", provider, "count", len(places), "country", constraints.Country)

	return wizard.Recommendations{Places: places, Suggestions: SuggestionText}, nil
}

func (s *recommendationService) fail(provider string, kind, err error) (wizard.Recommendations, error) {
	metrics.RecommendationRequests.WithLabelValues(provider, outcomeLabel(kind)).Inc()
	return wizard.Recommendations{}, &utils.RecommendationError{Kind: kind, Err: err}
}

// parseRecommendedPlaces enforces {"places": [...]} on the raw model output.
func parseRecommendedPlaces(text string) ([]wizard.RecommendedPlace, error) {
	if !json.Valid([]byte(text)) {
		return nil, &utils.RecommendationError{
			Kind: utils.ErrMalformedResponse,
			Err:  errors.New("Gemini returned invalid JSON."),
		}
	}

	schemaErr := &utils.RecommendationError{
		Kind: utils.ErrSchemaViolation,
		Err:  errors.New("Invalid format: 'places' array missing in Gemini response."),
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		return nil, schemaErr
	}
	raw, ok := top["places"]
	if !ok {
		return nil, schemaErr
	}
	var places []wizard.RecommendedPlace
	if err := json.Unmarshal(raw, &places); err != nil || places == nil {
		return nil, schemaErr
	}
	return places, nil
}

func outcomeLabel(kind error) string {
	switch {
	case errors.Is(kind, utils.ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(kind, utils.ErrSchemaViolation):
		return "schema_violation"
	default:
		return "remote_call"
	}
}
