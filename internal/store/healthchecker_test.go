package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/unifyhub/unifyhub/internal/model"
)

type pingStore struct {
	Store
	err error
}

func (p *pingStore) HealthPing(ctx context.Context) error { return p.err }

type getOnlyStore struct {
	Store
	err error
}

func (g *getOnlyStore) Services() Services { return getOnlyServices{err: g.err} }

type getOnlyServices struct{ err error }

func (s getOnlyServices) Create(context.Context, *model.Service) (*model.Service, error) {
	return nil, s.err
}
func (s getOnlyServices) Get(context.Context, int64) (*model.Service, error) { return nil, s.err }
func (s getOnlyServices) List(context.Context) ([]*model.Service, error)     { return nil, s.err }
func (s getOnlyServices) Update(context.Context, int64, model.ServicePatch) (*model.Service, error) {
	return nil, s.err
}
func (s getOnlyServices) Delete(context.Context, int64) error { return s.err }

func TestProbePrefersHealthPinger(t *testing.T) {
	hc := NewStoreHealthChecker(&pingStore{}, zerolog.Nop(), time.Second)
	if !hc.probe(context.Background()) {
		t.Fatal("healthy pinger reported unhealthy")
	}

	hc = NewStoreHealthChecker(&pingStore{err: errors.New("down")}, zerolog.Nop(), time.Second)
	if hc.probe(context.Background()) {
		t.Fatal("failing pinger reported healthy")
	}
}

func TestProbeFallbackAcceptsNotFound(t *testing.T) {
	// A NotFound from the probe read still proves the backend responds.
	hc := NewStoreHealthChecker(&getOnlyStore{err: model.ErrNotFound}, zerolog.Nop(), time.Second)
	if !hc.probe(context.Background()) {
		t.Fatal("NotFound probe should count as healthy")
	}

	hc = NewStoreHealthChecker(&getOnlyStore{err: model.ErrBackend}, zerolog.Nop(), time.Second)
	if hc.probe(context.Background()) {
		t.Fatal("backend failure should count as unhealthy")
	}
}
