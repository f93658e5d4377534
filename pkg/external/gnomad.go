package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/genopri/analysis-engine/internal/domain"
)

// GnomADClient resolves population-frequency evidence from a gnomAD-style
// GraphQL endpoint. It implements providers.FrequencyDataProvider.
type GnomADClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGnomADClient constructs a GnomADClient against cfg.FrequencyBaseURL.
func NewGnomADClient(cfg domain.ProviderConfig) *GnomADClient {
	return &GnomADClient{
		baseURL:    strings.TrimSuffix(cfg.FrequencyBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type gnomadVariantResponse struct {
	Data struct {
		Variant struct {
			Genome struct {
				AF          float64 `json:"af"`
				Populations []struct {
					ID string  `json:"id"`
					AF float64 `json:"af"`
				} `json:"populations"`
			} `json:"genome"`
			Exome struct {
				AF          float64 `json:"af"`
				Populations []struct {
					ID string  `json:"id"`
					AF float64 `json:"af"`
				} `json:"populations"`
			} `json:"exome"`
		} `json:"variant"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// GetFrequencyData queries gnomAD for coord's genome/exome allele
// frequencies, keyed per source population.
func (g *GnomADClient) GetFrequencyData(ctx context.Context, coord domain.GenomicCoordinate) (*domain.FrequencyData, error) {
	variantID := fmt.Sprintf("%s-%d-%s-%s", strings.TrimPrefix(coord.Chromosome.String(), "chr"), coord.Position, coord.Ref, coord.Alt)

	query := `query($variantId: String!) {
		variant(variantId: $variantId, dataset: gnomad_r4) {
			genome { af populations { id af } }
			exome { af populations { id af } }
		}
	}`
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": map[string]any{"variantId": variantID},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling gnomAD request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/graphql", strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("building gnomAD request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: gnomAD request: %v", domain.ErrDataProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gnomAD returned status %d", domain.ErrDataProviderUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gnomAD response: %w", err)
	}

	var parsed gnomadVariantResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing gnomAD response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("%w: gnomAD: %s", domain.ErrDataProviderUnavailable, parsed.Errors[0].Message)
	}

	perSource := make(map[string]float64)
	if parsed.Data.Variant.Genome.AF > 0 {
		perSource["GNOMAD_GENOMES"] = parsed.Data.Variant.Genome.AF
	}
	for _, pop := range parsed.Data.Variant.Genome.Populations {
		if pop.AF > 0 {
			perSource["GNOMAD_GENOMES_"+pop.ID] = pop.AF
		}
	}
	if parsed.Data.Variant.Exome.AF > 0 {
		perSource["GNOMAD_EXOMES"] = parsed.Data.Variant.Exome.AF
	}
	for _, pop := range parsed.Data.Variant.Exome.Populations {
		if pop.AF > 0 {
			perSource["GNOMAD_EXOMES_"+pop.ID] = pop.AF
		}
	}

	return &domain.FrequencyData{PerSource: perSource}, nil
}
