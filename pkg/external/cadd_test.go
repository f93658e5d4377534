package external_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/genopri/analysis-engine/internal/domain"
	"github.com/genopri/analysis-engine/pkg/external"
	"github.com/stretchr/testify/require"
)

func TestCADDClientGetPathogenicityDataNormalizesPHRED(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"scores": [{"phred": 20, "sift": 0.01, "polyphen": 0.9}]}`))
	}))
	defer srv.Close()

	client := external.NewCADDClient(domain.ProviderConfig{PathogenicityBaseURL: srv.URL, Timeout: 5 * time.Second})

	coord := domain.GenomicCoordinate{Chromosome: 7, Position: 117559590, Ref: "A", Alt: "G"}
	data, err := client.GetPathogenicityData(context.Background(), coord, domain.EffectMissense)
	require.NoError(t, err)
	require.NotNil(t, data.CADD)
	require.InDelta(t, 0.5, *data.CADD, 1e-9)
	require.NotNil(t, data.SIFT)
	require.Equal(t, 0.01, *data.SIFT)
}

func TestCADDClientGetPathogenicityDataNotFoundReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := external.NewCADDClient(domain.ProviderConfig{PathogenicityBaseURL: srv.URL, Timeout: 5 * time.Second})

	data, err := client.GetPathogenicityData(context.Background(), domain.GenomicCoordinate{Chromosome: 1, Position: 1, Ref: "A", Alt: "T"}, domain.EffectMissense)
	require.NoError(t, err)
	require.Nil(t, data.CADD)
}

func TestCADDClientGetPathogenicityDataPHREDCeiling(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"scores": [{"phred": 100}]}`))
	}))
	defer srv.Close()

	client := external.NewCADDClient(domain.ProviderConfig{PathogenicityBaseURL: srv.URL, Timeout: 5 * time.Second})

	data, err := client.GetPathogenicityData(context.Background(), domain.GenomicCoordinate{Chromosome: 1, Position: 1, Ref: "A", Alt: "T"}, domain.EffectMissense)
	require.NoError(t, err)
	require.InDelta(t, 1.0, *data.CADD, 1e-9)
}
