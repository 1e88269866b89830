// Package dashboard serves the display data of the influencer and brand dashboards.
package dashboard

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/kapu/collabhub-go/internal/domain"
	"gopkg.in/yaml.v3"
)

// Source supplies dashboard data. Implementations read whatever backing data they
// like; the default is the built-in mock data.
type Source interface {
	Influencer(ctx context.Context) (domain.InfluencerDashboard, error)
	Brand(ctx context.Context) (domain.BrandDashboard, error)
}

//go:embed mockdata/dashboards.yaml
var mockYAML []byte

type mockFile struct {
	Influencer domain.InfluencerDashboard `yaml:"influencer"`
	Brand      domain.BrandDashboard      `yaml:"brand"`
}

// Mock serves the embedded mock data. Every call returns a fresh copy.
type Mock struct {
	raw []byte
}

// NewMock parses the embedded data once to fail fast on a broken file.
func NewMock() (*Mock, error) {
	return NewMockFromYAML(mockYAML)
}

// NewMockFromYAML serves dashboards decoded from raw.
func NewMockFromYAML(raw []byte) (*Mock, error) {
	m := &Mock{raw: raw}
	if _, err := m.load(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Mock) load() (mockFile, error) {
	var f mockFile
	if err := yaml.Unmarshal(m.raw, &f); err != nil {
		return mockFile{}, fmt.Errorf("decode dashboard mock data: %w", err)
	}
	return f, nil
}

func (m *Mock) Influencer(_ context.Context) (domain.InfluencerDashboard, error) {
	f, err := m.load()
	return f.Influencer, err
}

func (m *Mock) Brand(_ context.Context) (domain.BrandDashboard, error) {
	f, err := m.load()
	return f.Brand, err
}

// MockYAML exposes the embedded data for seeding other backends.
func MockYAML() []byte {
	return mockYAML
}
