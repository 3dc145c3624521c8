// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package explore asks a generative model for a linear and a tangent
// explanation of a topic and normalizes the answer into an ExplorationResult.
// Every call makes exactly one outbound request: there is no cache, no retry
// and no deduplication of identical topics.
package explore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/pdiddy/tangente/pkg/types"
)

var (
	// ErrEmptyTopic is returned when the topic is blank after trimming.
	ErrEmptyTopic = errors.New("topic is empty")

	// ErrRequest covers transport, credential, rate-limit and empty-response
	// failures of the model call.
	ErrRequest = errors.New("exploration request failed")

	// ErrMalformedResponse means the model answered but the payload is not
	// valid JSON or violates the output contract.
	ErrMalformedResponse = errors.New("malformed model response")

	// ErrMissingAPIKey is wrapped in ErrRequest when no credential is configured.
	ErrMissingAPIKey = errors.New("API key not configured")
)

const (
	linearIDPrefix  = "lin"
	tangentIDPrefix = "tan"
)

// Backend abstracts the model API so tests can supply a mock. Generate
// returns the raw JSON text produced by the model.
type Backend interface {
	Name() string
	Generate(ctx context.Context, p Prompt) (string, error)
}

// Explorer turns a topic into an ExplorationResult using one Backend call.
type Explorer struct {
	backend     Backend
	temperature float64
	logger      *zap.Logger
}

// New creates an Explorer. A zero temperature selects the default; a nil
// logger disables logging.
func New(backend Backend, temperature float64, logger *zap.Logger) *Explorer {
	if temperature == 0 {
		temperature = types.DefaultTemperature
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Explorer{backend: backend, temperature: temperature, logger: logger}
}

// Provider reports the backend name, used as a metrics label.
func (e *Explorer) Provider() string {
	return e.backend.Name()
}

// Explore performs one round trip for topic. On failure the error wraps
// ErrEmptyTopic, ErrRequest or ErrMalformedResponse and no partial result
// is returned.
func (e *Explorer) Explore(ctx context.Context, topic string) (*types.ExplorationResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrEmptyTopic
	}

	inline := ""
	if _, ok := e.backend.(schemaInPrompt); ok {
		inline = ExplorationSchema().indented()
	}
	user, err := renderPrompt(topic, inline)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	log := e.logger.With(zap.String("topic", topic), zap.String("provider", e.backend.Name()))
	start := time.Now()

	text, err := e.backend.Generate(ctx, Prompt{
		System:      systemInstruction,
		User:        user,
		Schema:      ExplorationSchema(),
		Temperature: e.temperature,
	})
	if err != nil {
		log.Warn("model call failed", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	if strings.TrimSpace(text) == "" {
		log.Warn("model returned no text", zap.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("%w: no response text generated", ErrRequest)
	}

	result, err := ParseResult(text)
	if err != nil {
		log.Warn("model response rejected", zap.Duration("duration", time.Since(start)), zap.Error(err))
		return nil, err
	}

	log.Info("exploration complete",
		zap.Duration("duration", time.Since(start)),
		zap.Float64("divergence_score", result.DivergenceScore),
		zap.Int("linear_steps", len(result.LinearPath)),
		zap.Int("tangent_steps", len(result.TangentPath)))
	return result, nil
}

// schemaInPrompt marks backends that need the schema rendered into the
// prompt text because their API has no response-schema field.
type schemaInPrompt interface {
	inlineSchema()
}

// rawStep is one path item as the model returns it.
type rawStep struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	StepNumber  *int   `json:"stepNumber" validate:"required,gte=0"`
}

// rawExploration is the model output contract.
type rawExploration struct {
	RootTopic       string    `json:"rootTopic" validate:"required"`
	DivergenceScore *float64  `json:"divergenceScore" validate:"required,gte=0,lte=100"`
	LinearPath      []rawStep `json:"linearPath" validate:"required,min=1,dive"`
	TangentPath     []rawStep `json:"tangentPath" validate:"required,min=1,dive"`
}

var validate = newValidator()

// newValidator reports fields by their JSON names so errors match the wire shape.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseResult strictly decodes the model's JSON text, validates it and
// normalizes it into an ExplorationResult. Every failure wraps
// ErrMalformedResponse.
func ParseResult(text string) (*types.ExplorationResult, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(stripCodeFence(text))))
	dec.DisallowUnknownFields()

	var raw rawExploration
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decoding JSON: %w", ErrMalformedResponse, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrMalformedResponse)
	}

	if err := validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, describeValidation(err))
	}
	if err := uniqueSteps("linearPath", raw.LinearPath); err != nil {
		return nil, err
	}
	if err := uniqueSteps("tangentPath", raw.TangentPath); err != nil {
		return nil, err
	}

	return &types.ExplorationResult{
		RootTopic:       raw.RootTopic,
		LinearPath:      toNodes(raw.LinearPath, types.PathLinear, linearIDPrefix),
		TangentPath:     toNodes(raw.TangentPath, types.PathTangent, tangentIDPrefix),
		DivergenceScore: *raw.DivergenceScore,
	}, nil
}

// toNodes converts raw steps into concept nodes ordered by ascending depth.
func toNodes(steps []rawStep, pathType types.PathType, prefix string) []types.ConceptNode {
	nodes := make([]types.ConceptNode, 0, len(steps))
	for _, s := range steps {
		nodes = append(nodes, types.ConceptNode{
			ID:          NodeID(prefix, *s.StepNumber),
			Title:       s.Title,
			Description: s.Description,
			Type:        pathType,
			Depth:       *s.StepNumber,
		})
	}
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Depth < nodes[j].Depth })
	return nodes
}

// NodeID derives a node id from its path prefix and step number.
func NodeID(prefix string, step int) string {
	return fmt.Sprintf("%s-%d", prefix, step)
}

// uniqueSteps rejects duplicate step numbers, which would produce duplicate ids.
func uniqueSteps(path string, steps []rawStep) error {
	seen := make(map[int]bool, len(steps))
	for _, s := range steps {
		if seen[*s.StepNumber] {
			return fmt.Errorf("%w: %s has duplicate stepNumber %d", ErrMalformedResponse, path, *s.StepNumber)
		}
		seen[*s.StepNumber] = true
	}
	return nil
}

// describeValidation flattens validator errors into one readable line.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "rawExploration.")
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// stripCodeFence removes a surrounding ```json fence, which chat models add
// when the schema is only described in the prompt.
func stripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	// The language tag may share the line with the payload.
	t = strings.TrimLeftFunc(t, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	})
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}
