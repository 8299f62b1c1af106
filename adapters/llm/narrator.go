package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"autolyze/domain/profile"
	"autolyze/internal/errors"
	"autolyze/ports"
)

// Config holds narrator configuration. The token is an explicit field passed
// at construction so the adapter stays testable without ambient process state.
type Config struct {
	Token       string
	Model       string
	BaseURL     string // optional override for OpenAI-compatible proxies
	MaxTokens   int
	Temperature float64
}

// Narrator generates a prose narrative for a profile report through an
// OpenAI-compatible chat completion endpoint
type Narrator struct {
	client *openai.Client
	config Config
}

var _ ports.Narrator = (*Narrator)(nil)

// NewNarrator creates a narrator, failing fast on a missing token
func NewNarrator(config Config) (*Narrator, error) {
	if config.Token == "" {
		return nil, errors.ConfigInvalid("narrator token is required")
	}
	if config.Model == "" {
		config.Model = "gpt-4o-mini"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1500
	}

	clientConfig := openai.DefaultConfig(config.Token)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Narrator{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Narrate asks the model for a narrative covering the data received, the
// analysis carried out, the insights discovered and their implications
func (n *Narrator) Narrate(ctx context.Context, report *profile.Report, charts *ports.ChartSet) (string, error) {
	prompt, err := BuildPrompt(report, charts)
	if err != nil {
		return "", errors.Wrap(err, "failed to build narrative prompt")
	}

	log.Printf("[Narrator] requesting narrative for run %s with model %s", report.RunID, n.config.Model)
	resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: n.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a creative storyteller for data analysis reports."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   n.config.MaxTokens,
		Temperature: float32(n.config.Temperature),
	})
	if err != nil {
		return "", errors.Wrap(err, "narrative request failed")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New(errors.CodeNarrateError, "narrative service returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// BuildPrompt serializes the report's summary fields into the narrative
// request. Exported so tests and alternative clients can reuse it.
func BuildPrompt(report *profile.Report, charts *ports.ChartSet) (string, error) {
	summary, err := json.MarshalIndent(report.Profiles, "", "  ")
	if err != nil {
		return "", err
	}

	missing := make(map[string]int, len(report.Profiles))
	for _, p := range report.Profiles {
		missing[p.Name] = p.Missing
	}
	missingJSON, err := json.Marshal(missing)
	if err != nil {
		return "", err
	}

	outliers := map[string]int{}
	if report.Outliers != nil {
		for _, s := range report.Outliers.Columns {
			outliers[s.Column] = s.Count
		}
	}
	outlierJSON, err := json.Marshal(outliers)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Craft a compelling narrative based on this dataset analysis, covering ")
	b.WriteString("the data received, the analysis carried out, the insights discovered, ")
	b.WriteString("and the implications of those findings.\n\n")
	fmt.Fprintf(&b, "Dataset: %s\n\n", report.Source)
	fmt.Fprintf(&b, "Data Summary: %s\n\n", summary)
	fmt.Fprintf(&b, "Missing Values: %s\n\n", missingJSON)
	fmt.Fprintf(&b, "Outlier Analysis: %s\n\n", outlierJSON)
	if report.Clusters != nil {
		fmt.Fprintf(&b, "Density Clustering: %d clusters, %d noise rows\n", report.Clusters.Clusters, report.Clusters.Noise)
	}
	if charts != nil {
		fmt.Fprintf(&b, "Correlation matrix: %s\n", charts.CorrelationHeatmap)
		fmt.Fprintf(&b, "Cluster scatter: %s\n", charts.ClusterScatter)
		fmt.Fprintf(&b, "Dendrogram: %s\n", charts.Dendrogram)
	}
	return b.String(), nil
}
