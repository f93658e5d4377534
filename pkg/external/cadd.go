package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/genopri/analysis-engine/internal/domain"
)

// CADDClient resolves computational pathogenicity evidence from a CADD-style
// REST scoring endpoint. It implements providers.PathogenicityDataProvider.
type CADDClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewCADDClient constructs a CADDClient against cfg.PathogenicityBaseURL.
func NewCADDClient(cfg domain.ProviderConfig) *CADDClient {
	return &CADDClient{
		baseURL:    strings.TrimSuffix(cfg.PathogenicityBaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type caddScoreResponse struct {
	Scores []struct {
		RawScore       *float64 `json:"raw_score"`
		PHRED          *float64 `json:"phred"`
		SIFT           *float64 `json:"sift"`
		PolyPhen       *float64 `json:"polyphen"`
		MutationTaster *float64 `json:"mutation_taster"`
	} `json:"scores"`
}

// GetPathogenicityData queries the CADD-style endpoint for coord, scoped to
// the annotated effect, and normalizes the PHRED score into [0,1] alongside
// whichever per-predictor scores the endpoint returns.
func (c *CADDClient) GetPathogenicityData(ctx context.Context, coord domain.GenomicCoordinate, effect domain.VariantEffect) (*domain.PathogenicityData, error) {
	q := url.Values{}
	q.Set("chrom", strings.TrimPrefix(coord.Chromosome.String(), "chr"))
	q.Set("pos", fmt.Sprintf("%d", coord.Position))
	q.Set("ref", coord.Ref)
	q.Set("alt", coord.Alt)
	q.Set("consequence", string(effect))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/score?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building CADD request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: CADD request: %v", domain.ErrDataProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &domain.PathogenicityData{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: CADD returned status %d", domain.ErrDataProviderUnavailable, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading CADD response: %w", err)
	}

	var parsed caddScoreResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parsing CADD response: %w", err)
	}
	if len(parsed.Scores) == 0 {
		return &domain.PathogenicityData{}, nil
	}

	score := parsed.Scores[0]
	data := &domain.PathogenicityData{
		SIFT:           score.SIFT,
		PolyPhen:       score.PolyPhen,
		MutationTaster: score.MutationTaster,
	}
	if score.PHRED != nil {
		normalized := normalizePHRED(*score.PHRED)
		data.CADD = &normalized
	}
	return data, nil
}

// normalizePHRED maps a CADD PHRED score onto [0,1], saturating at 40 (the
// conventional "likely deleterious" ceiling for most variant classes).
func normalizePHRED(phred float64) float64 {
	const ceiling = 40.0
	if phred <= 0 {
		return 0
	}
	if phred >= ceiling {
		return 1
	}
	return phred / ceiling
}
