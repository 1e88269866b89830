package store

import (
	"context"
	"sync"

	"github.com/kapu/collabhub-go/internal/domain"
)

// Memory is the default in-process backend.
type Memory struct {
	mu         sync.RWMutex
	influencer *domain.InfluencerProfile
	brand      *domain.BrandProfile
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) InfluencerProfile(_ context.Context) (*domain.InfluencerProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.influencer == nil {
		return nil, nil
	}
	p := *m.influencer
	return &p, nil
}

func (m *Memory) BrandProfile(_ context.Context) (*domain.BrandProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.brand == nil {
		return nil, nil
	}
	p := *m.brand
	return &p, nil
}

func (m *Memory) SetInfluencerProfile(_ context.Context, p *domain.InfluencerProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		m.influencer = nil
		return nil
	}
	cp := *p
	m.influencer = &cp
	return nil
}

func (m *Memory) SetBrandProfile(_ context.Context, p *domain.BrandProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		m.brand = nil
		return nil
	}
	cp := *p
	m.brand = &cp
	return nil
}

func (m *Memory) UpdateInfluencerProfile(_ context.Context, u domain.InfluencerProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.influencer == nil {
		return nil
	}
	p := u.Apply(*m.influencer)
	m.influencer = &p
	return nil
}

func (m *Memory) UpdateBrandProfile(_ context.Context, u domain.BrandProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.brand == nil {
		return nil
	}
	p := u.Apply(*m.brand)
	m.brand = &p
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.influencer = nil
	m.brand = nil
	return nil
}
